// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/leaderboard"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
	"github.com/chrysalis-app/mindfulness-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// One entry point for the three scopes. Group scope requires the caller to be
// a member; friends scope never includes the requester.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery contains the query parameters.
type GetLeaderboardQuery struct {
	// RequesterID is the authenticated caller.
	RequesterID string

	// Scope selects the board variant.
	Scope leaderboard.Scope

	// GroupID is required for the group scope.
	GroupID string

	// Limit is clamped to 1..100; zero means the default.
	Limit int
}

// Validate validates the query.
func (q GetLeaderboardQuery) Validate() error {
	if q.RequesterID == "" {
		return validationError("get_leaderboard", "requester_id is required")
	}
	if !q.Scope.IsValid() {
		return leaderboard.ErrInvalidScope
	}
	if q.Scope == leaderboard.ScopeGroup && q.GroupID == "" {
		return leaderboard.ErrGroupRequired
	}
	return nil
}

// GetLeaderboardResult contains the ranked entries.
type GetLeaderboardResult struct {
	Scope   leaderboard.Scope
	Entries []leaderboard.Entry

	// FromCache marks results served from the cached view.
	FromCache bool
}

// GetLeaderboardHandler handles the GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	boards leaderboard.Repository
	groups social.GroupRepository
	cache  leaderboard.Cache
	logger *logger.Logger
}

// NewGetLeaderboardHandler creates a new handler. The cache may be nil.
func NewGetLeaderboardHandler(boards leaderboard.Repository, groups social.GroupRepository, cache leaderboard.Cache, log *logger.Logger) *GetLeaderboardHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetLeaderboardHandler{
		boards: boards,
		groups: groups,
		cache:  cache,
		logger: log.With(logger.Component("get_leaderboard")),
	}
}

// Handle executes the query.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	limit := leaderboard.ClampLimit(q.Limit)

	switch q.Scope {
	case leaderboard.ScopeGlobal:
		return h.global(ctx, limit)
	case leaderboard.ScopeFriends:
		entries, err := h.boards.Friends(ctx, q.RequesterID, limit)
		if err != nil {
			return nil, err
		}
		return &GetLeaderboardResult{Scope: q.Scope, Entries: entries}, nil
	case leaderboard.ScopeGroup:
		// Non-members cannot view group boards.
		if _, err := h.groups.GetMembership(ctx, q.GroupID, q.RequesterID); err != nil {
			if errors.Is(err, social.ErrNotMember) {
				return nil, leaderboard.ErrScopeAccess
			}
			return nil, err
		}
		entries, err := h.boards.Group(ctx, q.GroupID, limit)
		if err != nil {
			return nil, err
		}
		return &GetLeaderboardResult{Scope: q.Scope, Entries: entries}, nil
	default:
		return nil, leaderboard.ErrInvalidScope
	}
}

func (h *GetLeaderboardHandler) global(ctx context.Context, limit int) (*GetLeaderboardResult, error) {
	if h.cache != nil {
		entries, err := h.cache.GetGlobal(ctx, limit)
		if err == nil {
			return &GetLeaderboardResult{
				Scope:     leaderboard.ScopeGlobal,
				Entries:   entries,
				FromCache: true,
			}, nil
		}
	}

	entries, err := h.boards.Global(ctx, limit)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if cacheErr := h.cache.SetGlobal(ctx, entries); cacheErr != nil {
			h.logger.Warn("failed to cache global leaderboard", logger.Err(cacheErr))
		}
	}

	return &GetLeaderboardResult{Scope: leaderboard.ScopeGlobal, Entries: entries}, nil
}

package query

import (
	"context"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
)

// ══════════════════════════════════════════════════════════════════════════════
// FRIEND LIST QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// FriendView is a friend with presentation fields resolved.
type FriendView struct {
	AccountID     string `json:"account_id"`
	DisplayName   string `json:"display_name"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Level         int    `json:"level"`
	CurrentStreak int    `json:"current_streak"`
}

// GetFriendsQuery lists the caller's accepted friendships.
type GetFriendsQuery struct {
	AccountID string
}

// Validate validates the query.
func (q GetFriendsQuery) Validate() error {
	if q.AccountID == "" {
		return validationError("get_friends", "account_id is required")
	}
	return nil
}

// GetFriendsHandler handles the GetFriendsQuery.
type GetFriendsHandler struct {
	friendships social.FriendshipRepository
	accounts    account.Repository
}

// NewGetFriendsHandler creates a new handler.
func NewGetFriendsHandler(friendships social.FriendshipRepository, accounts account.Repository) *GetFriendsHandler {
	return &GetFriendsHandler{
		friendships: friendships,
		accounts:    accounts,
	}
}

// Handle executes the query.
func (h *GetFriendsHandler) Handle(ctx context.Context, q GetFriendsQuery) ([]FriendView, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	ids, err := h.friendships.ListFriendIDs(ctx, q.AccountID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []FriendView{}, nil
	}

	accounts, err := h.accounts.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]FriendView, 0, len(accounts))
	for _, acct := range accounts {
		views = append(views, FriendView{
			AccountID:     acct.ID,
			DisplayName:   acct.DisplayName,
			AvatarURL:     acct.AvatarURL,
			Level:         int(acct.Stats.Level),
			CurrentStreak: acct.Stats.CurrentStreak,
		})
	}
	return views, nil
}

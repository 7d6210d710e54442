package query

import (
	"context"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
)

// GetGroupMembersQuery lists the members of a group the requester
// belongs to.
type GetGroupMembersQuery struct {
	RequesterID string
	GroupID     string
}

// Validate validates the query.
func (q GetGroupMembersQuery) Validate() error {
	if q.RequesterID == "" {
		return validationError("get_group_members", "requester_id is required")
	}
	if q.GroupID == "" {
		return validationError("get_group_members", "group_id is required")
	}
	return nil
}

// GroupMemberView is a membership joined with its account profile,
// ordered by join time (founders first).
type GroupMemberView struct {
	AccountID     string           `json:"account_id"`
	DisplayName   string           `json:"display_name"`
	AvatarURL     string           `json:"avatar_url,omitempty"`
	Role          social.GroupRole `json:"role"`
	Level         int              `json:"level"`
	CurrentStreak int              `json:"current_streak"`
	JoinedAt      time.Time        `json:"joined_at"`
}

// GetGroupMembersResult contains the group and its member roster.
type GetGroupMembersResult struct {
	Group   *social.Group
	Members []GroupMemberView
}

// GetGroupMembersHandler handles the GetGroupMembersQuery.
type GetGroupMembersHandler struct {
	groups   social.GroupRepository
	accounts account.Repository
}

// NewGetGroupMembersHandler creates a new handler.
func NewGetGroupMembersHandler(groups social.GroupRepository, accounts account.Repository) *GetGroupMembersHandler {
	return &GetGroupMembersHandler{groups: groups, accounts: accounts}
}

// Handle executes the query. Only members may see the roster.
func (h *GetGroupMembersHandler) Handle(ctx context.Context, q GetGroupMembersQuery) (*GetGroupMembersResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if _, err := h.groups.GetMembership(ctx, q.GroupID, q.RequesterID); err != nil {
		return nil, err
	}

	grp, err := h.groups.GetByID(ctx, q.GroupID)
	if err != nil {
		return nil, err
	}

	memberships, err := h.groups.ListMembers(ctx, q.GroupID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.AccountID)
	}

	accounts, err := h.accounts.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*account.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	views := make([]GroupMemberView, 0, len(memberships))
	for _, m := range memberships {
		acct, ok := byID[m.AccountID]
		if !ok {
			continue
		}
		views = append(views, GroupMemberView{
			AccountID:     acct.ID,
			DisplayName:   acct.DisplayName,
			AvatarURL:     acct.AvatarURL,
			Role:          m.Role,
			Level:         int(acct.Stats.Level),
			CurrentStreak: acct.Stats.CurrentStreak,
			JoinedAt:      m.JoinedAt,
		})
	}

	return &GetGroupMembersResult{Group: grp, Members: views}, nil
}

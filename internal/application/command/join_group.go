package command

import (
	"context"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
)

// JoinGroupCommand joins a group, addressed either by id (public browse) or
// by join code (invitation). Exactly one of the two must be set.
type JoinGroupCommand struct {
	AccountID string
	GroupID   string
	Code      string
}

// Validate validates the command.
func (c JoinGroupCommand) Validate() error {
	if c.AccountID == "" {
		return validationError("join_group", "account_id is required")
	}
	if (c.GroupID == "") == (c.Code == "") {
		return validationError("join_group", "exactly one of group_id or code is required")
	}
	return nil
}

// JoinGroupResult contains the joined group and the new membership.
type JoinGroupResult struct {
	Group      *social.Group
	Membership *social.Membership
}

// JoinGroupHandler handles the JoinGroupCommand.
type JoinGroupHandler struct {
	groups social.GroupRepository
}

// NewJoinGroupHandler creates a new handler.
func NewJoinGroupHandler(groups social.GroupRepository) *JoinGroupHandler {
	return &JoinGroupHandler{groups: groups}
}

// Handle executes the command.
func (h *JoinGroupHandler) Handle(ctx context.Context, cmd JoinGroupCommand) (*JoinGroupResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var (
		g   *social.Group
		err error
	)
	if cmd.Code != "" {
		code := social.NormalizeGroupCode(cmd.Code)
		if !code.IsValid() {
			return nil, social.ErrInvalidGroupCode
		}
		g, err = h.groups.GetByCode(ctx, code)
	} else {
		g, err = h.groups.GetByID(ctx, cmd.GroupID)
	}
	if err != nil {
		return nil, err
	}

	// Joining by id is only open for public groups; private groups require
	// the code.
	if cmd.Code == "" && !g.IsPublic {
		return nil, social.ErrGroupNotFound
	}

	member, err := h.groups.Join(ctx, g.ID, cmd.AccountID)
	if err != nil {
		return nil, err
	}

	// Reflect the join without a re-read; the store incremented atomically.
	g.MemberCount++

	return &JoinGroupResult{
		Group:      g,
		Membership: member,
	}, nil
}

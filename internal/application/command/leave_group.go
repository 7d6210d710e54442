package command

import (
	"context"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
)

// LeaveGroupCommand removes the caller from a group. Admin succession and
// empty-group deletion are handled by the store in the same transaction.
type LeaveGroupCommand struct {
	AccountID string
	GroupID   string
}

// Validate validates the command.
func (c LeaveGroupCommand) Validate() error {
	if c.AccountID == "" {
		return validationError("leave_group", "account_id is required")
	}
	if c.GroupID == "" {
		return validationError("leave_group", "group_id is required")
	}
	return nil
}

// LeaveGroupHandler handles the LeaveGroupCommand.
type LeaveGroupHandler struct {
	groups social.GroupRepository
}

// NewLeaveGroupHandler creates a new handler.
func NewLeaveGroupHandler(groups social.GroupRepository) *LeaveGroupHandler {
	return &LeaveGroupHandler{groups: groups}
}

// Handle executes the command.
func (h *LeaveGroupHandler) Handle(ctx context.Context, cmd LeaveGroupCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.groups.Leave(ctx, cmd.GroupID, cmd.AccountID)
}

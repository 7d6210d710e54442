package command

import (
	"context"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PROFILE COMMAND
// Applies an allow-listed profile edit. Aggregates, email and credentials are
// not editable through this path.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateProfileCommand contains the fields to change. Nil means "keep".
type UpdateProfileCommand struct {
	AccountID   string
	DisplayName *string
	AvatarURL   *string
}

// Validate validates the command.
func (c UpdateProfileCommand) Validate() error {
	if c.AccountID == "" {
		return validationError("update_profile", "account_id is required")
	}
	if c.DisplayName == nil && c.AvatarURL == nil {
		return validationError("update_profile", "nothing to update")
	}
	if c.DisplayName != nil && (*c.DisplayName == "" || len(*c.DisplayName) > 100) {
		return account.ErrInvalidDisplayName
	}
	return nil
}

// UpdateProfileHandler handles the UpdateProfileCommand.
type UpdateProfileHandler struct {
	accounts account.Repository
}

// NewUpdateProfileHandler creates a new handler.
func NewUpdateProfileHandler(accounts account.Repository) *UpdateProfileHandler {
	return &UpdateProfileHandler{accounts: accounts}
}

// Handle executes the command and returns the updated account.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*account.Account, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.accounts.UpdateProfile(ctx, cmd.AccountID, account.ProfileUpdate{
		DisplayName: cmd.DisplayName,
		AvatarURL:   cmd.AvatarURL,
	})
}

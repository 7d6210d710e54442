package query

import (
	"context"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
)

// GetProfileQuery fetches an account's own profile.
type GetProfileQuery struct {
	AccountID string
}

// Validate validates the query.
func (q GetProfileQuery) Validate() error {
	if q.AccountID == "" {
		return validationError("get_profile", "account_id is required")
	}
	return nil
}

// GetProfileHandler handles the GetProfileQuery.
type GetProfileHandler struct {
	accounts account.Repository
}

// NewGetProfileHandler creates a new handler.
func NewGetProfileHandler(accounts account.Repository) *GetProfileHandler {
	return &GetProfileHandler{accounts: accounts}
}

// Handle executes the query.
func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (*account.Account, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return h.accounts.GetByID(ctx, q.AccountID)
}

// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER ACCOUNT COMMAND
// Creates an account with zeroed aggregates and a hashed credential.
// ══════════════════════════════════════════════════════════════════════════════

// PasswordHasher hashes and verifies credentials. Implemented in
// infrastructure/security.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

// TokenIssuer mints access tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(accountID string) (string, error)
}

// RegisterAccountCommand contains the data to register an account.
type RegisterAccountCommand struct {
	// Email is the login address; normalized to lowercase.
	Email string

	// Password is the plaintext credential, hashed before storage.
	Password string

	// DisplayName is the name shown on leaderboards and rosters.
	DisplayName string

	// AvatarURL is optional.
	AvatarURL string
}

// Validate validates the command.
func (c RegisterAccountCommand) Validate() error {
	if c.Email == "" {
		return validationError("register_account", "email is required")
	}
	if c.Password == "" {
		return validationError("register_account", "password is required")
	}
	if c.DisplayName == "" {
		return validationError("register_account", "display_name is required")
	}
	return nil
}

// RegisterAccountResult contains the result of a registration.
type RegisterAccountResult struct {
	// Account is the created record.
	Account *account.Account

	// Token is a signed access token for the new account.
	Token string

	// RegisteredAt is when the registration completed.
	RegisteredAt time.Time
}

// RegisterAccountHandler handles the RegisterAccountCommand.
type RegisterAccountHandler struct {
	accounts account.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
}

// NewRegisterAccountHandler creates a new handler.
func NewRegisterAccountHandler(accounts account.Repository, hasher PasswordHasher, tokens TokenIssuer) *RegisterAccountHandler {
	return &RegisterAccountHandler{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Handle executes the command.
func (h *RegisterAccountHandler) Handle(ctx context.Context, cmd RegisterAccountCommand) (*RegisterAccountResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, err
	}

	acct, err := account.NewAccount(account.NewAccountParams{
		ID:           uuid.New().String(),
		Email:        cmd.Email,
		DisplayName:  cmd.DisplayName,
		AvatarURL:    cmd.AvatarURL,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	if err := h.accounts.Create(ctx, acct); err != nil {
		return nil, err
	}

	token, err := h.tokens.Issue(acct.ID)
	if err != nil {
		return nil, err
	}

	return &RegisterAccountResult{
		Account:      acct,
		Token:        token,
		RegisteredAt: acct.CreatedAt,
	}, nil
}

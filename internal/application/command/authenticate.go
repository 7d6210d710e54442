package command

import (
	"context"
	"errors"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATE COMMAND
// Verifies credentials and issues an access token. Lookup failures and
// password mismatches collapse into one error so the response never reveals
// whether the email is registered.
// ══════════════════════════════════════════════════════════════════════════════

// ErrInvalidCredentials - email/password pair did not authenticate.
var ErrInvalidCredentials = shared.NewDomainError("command", "authenticate", shared.ErrUnauthorized, "invalid credentials")

// AuthenticateCommand contains login credentials.
type AuthenticateCommand struct {
	Email    string
	Password string
}

// Validate validates the command.
func (c AuthenticateCommand) Validate() error {
	if c.Email == "" {
		return validationError("authenticate", "email is required")
	}
	if c.Password == "" {
		return validationError("authenticate", "password is required")
	}
	return nil
}

// AuthenticateResult contains the issued token.
type AuthenticateResult struct {
	Account         *account.Account
	Token           string
	AuthenticatedAt time.Time
}

// AuthenticateHandler handles the AuthenticateCommand.
type AuthenticateHandler struct {
	accounts account.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
}

// NewAuthenticateHandler creates a new handler.
func NewAuthenticateHandler(accounts account.Repository, hasher PasswordHasher, tokens TokenIssuer) *AuthenticateHandler {
	return &AuthenticateHandler{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Handle executes the command.
func (h *AuthenticateHandler) Handle(ctx context.Context, cmd AuthenticateCommand) (*AuthenticateResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	email, err := account.NewEmail(cmd.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	acct, err := h.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := h.hasher.Verify(acct.PasswordHash, cmd.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := h.tokens.Issue(acct.ID)
	if err != nil {
		return nil, err
	}

	return &AuthenticateResult{
		Account:         acct,
		Token:           token,
		AuthenticatedAt: time.Now().UTC(),
	}, nil
}

package command

import (
	"context"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/session"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// START SESSION COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// StartSessionCommand contains the data to start a meditation session.
type StartSessionCommand struct {
	AccountID       string
	DurationMinutes int
	Frequency       string
}

// Validate validates the command.
func (c StartSessionCommand) Validate() error {
	if c.AccountID == "" {
		return validationError("start_session", "account_id is required")
	}
	if !session.ValidDuration(c.DurationMinutes) {
		return session.ErrInvalidDuration
	}
	if !session.Frequency(c.Frequency).IsValid() {
		return session.ErrInvalidFrequency
	}
	return nil
}

// StartSessionHandler handles the StartSessionCommand.
type StartSessionHandler struct {
	ledger   session.Ledger
	accounts account.Repository
}

// NewStartSessionHandler creates a new handler.
func NewStartSessionHandler(ledger session.Ledger, accounts account.Repository) *StartSessionHandler {
	return &StartSessionHandler{
		ledger:   ledger,
		accounts: accounts,
	}
}

// Handle executes the command and returns the new active session.
func (h *StartSessionHandler) Handle(ctx context.Context, cmd StartSessionCommand) (*session.Session, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	exists, err := h.accounts.Exists(ctx, cmd.AccountID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, account.ErrAccountNotFound
	}

	sess, err := session.NewSession(session.NewSessionParams{
		ID:              uuid.New().String(),
		AccountID:       cmd.AccountID,
		DurationMinutes: cmd.DurationMinutes,
		Frequency:       session.Frequency(cmd.Frequency),
	})
	if err != nil {
		return nil, err
	}

	if err := h.ledger.CreateActive(ctx, sess); err != nil {
		return nil, err
	}

	return sess, nil
}

package command

import (
	"context"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/session"
)

// ══════════════════════════════════════════════════════════════════════════════
// PAUSE / RESUME SESSION COMMANDS
// Pause is idempotent on an already paused session; resume requires a paused
// one. Neither touches a completed session.
// ══════════════════════════════════════════════════════════════════════════════

// PauseSessionCommand pauses an active session.
type PauseSessionCommand struct {
	AccountID string
	SessionID string
}

// Validate validates the command.
func (c PauseSessionCommand) Validate() error {
	if c.AccountID == "" {
		return validationError("pause_session", "account_id is required")
	}
	if c.SessionID == "" {
		return validationError("pause_session", "session_id is required")
	}
	return nil
}

// PauseSessionHandler handles the PauseSessionCommand.
type PauseSessionHandler struct {
	ledger session.Ledger
}

// NewPauseSessionHandler creates a new handler.
func NewPauseSessionHandler(ledger session.Ledger) *PauseSessionHandler {
	return &PauseSessionHandler{ledger: ledger}
}

// Handle executes the command and returns the session after the transition.
func (h *PauseSessionHandler) Handle(ctx context.Context, cmd PauseSessionCommand) (*session.Session, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	sess, err := h.ledger.GetByID(ctx, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	if !sess.OwnedBy(cmd.AccountID) {
		return nil, session.ErrNotOwner
	}

	wasPaused := sess.Paused
	if err := sess.Pause(); err != nil {
		return nil, err
	}

	// Idempotent pause: nothing changed, skip the write.
	if wasPaused {
		return sess, nil
	}

	if err := h.ledger.UpdateState(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

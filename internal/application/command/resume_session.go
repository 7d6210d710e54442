package command

import (
	"context"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/session"
)

// ResumeSessionCommand resumes a paused session.
type ResumeSessionCommand struct {
	AccountID string
	SessionID string
}

// Validate validates the command.
func (c ResumeSessionCommand) Validate() error {
	if c.AccountID == "" {
		return validationError("resume_session", "account_id is required")
	}
	if c.SessionID == "" {
		return validationError("resume_session", "session_id is required")
	}
	return nil
}

// ResumeSessionHandler handles the ResumeSessionCommand.
type ResumeSessionHandler struct {
	ledger session.Ledger
}

// NewResumeSessionHandler creates a new handler.
func NewResumeSessionHandler(ledger session.Ledger) *ResumeSessionHandler {
	return &ResumeSessionHandler{ledger: ledger}
}

// Handle executes the command and returns the session after the transition.
func (h *ResumeSessionHandler) Handle(ctx context.Context, cmd ResumeSessionCommand) (*session.Session, error) {
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

	if err := sess.Resume(); err != nil {
		return nil, err
	}

	if err := h.ledger.UpdateState(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

package command

import (
	"context"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/session"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/stats"
	"github.com/chrysalis-app/mindfulness-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE SESSION COMMAND
// The one write path for gamification state. The statistics engine runs
// inside the ledger transaction, under the account row lock, so the completed
// session entry and the aggregate update commit together or not at all.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteSessionCommand contains the data to complete a session.
type CompleteSessionCommand struct {
	AccountID string
	SessionID string

	// ActualDurationMinutes is the measured time spent; zero means the
	// planned duration. XP is always computed from the planned duration.
	ActualDurationMinutes int

	// CompletedAt defaults to now. Exposed for deterministic tests.
	CompletedAt time.Time
}

// Validate validates the command.
func (c CompleteSessionCommand) Validate() error {
	if c.AccountID == "" {
		return validationError("complete_session", "account_id is required")
	}
	if c.SessionID == "" {
		return validationError("complete_session", "session_id is required")
	}
	if c.ActualDurationMinutes < 0 {
		return validationError("complete_session", "actual duration cannot be negative")
	}
	return nil
}

// CompleteSessionResult contains the outcome of a completion.
type CompleteSessionResult struct {
	// Session is the completed entry.
	Session *session.Session

	// Account carries the updated aggregates.
	Account *account.Account

	// XPGained is the experience awarded.
	XPGained int

	// LeveledUp is true when the completion crossed a level boundary.
	LeveledUp bool

	// StreakExtended is true when the daily streak grew.
	StreakExtended bool

	// StreakBroken is true when a streak of more than one day reset.
	StreakBroken bool
}

// CompleteSessionHandler handles the CompleteSessionCommand.
type CompleteSessionHandler struct {
	ledger    session.Ledger
	publisher shared.EventPublisher
	logger    *logger.Logger
}

// NewCompleteSessionHandler creates a new handler.
func NewCompleteSessionHandler(ledger session.Ledger, publisher shared.EventPublisher, log *logger.Logger) *CompleteSessionHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CompleteSessionHandler{
		ledger:    ledger,
		publisher: publisher,
		logger:    log.With(logger.Component("complete_session")),
	}
}

// Handle executes the command.
func (h *CompleteSessionHandler) Handle(ctx context.Context, cmd CompleteSessionCommand) (*CompleteSessionResult, error) {
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
	if sess.IsCompleted() {
		return nil, session.ErrAlreadyCompleted
	}

	completedAt := cmd.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}

	var engineResult stats.Result

	completed, acct, err := h.ledger.Complete(ctx, cmd.AccountID, func(locked *account.Account) (*session.Session, error) {
		engineResult, err = stats.ApplyCompletedSession(locked.Stats, sess.DurationMinutes, completedAt)
		if err != nil {
			return nil, err
		}

		if err := sess.Complete(engineResult.XPGained, cmd.ActualDurationMinutes, completedAt); err != nil {
			return nil, err
		}

		if err := locked.ApplyAggregates(engineResult.Next); err != nil {
			return nil, err
		}

		return sess, nil
	})
	if err != nil {
		return nil, err
	}

	// Publish after commit. A lost event means a slightly stale cache, not
	// lost state.
	event := shared.NewSessionCompletedEvent(
		acct.ID,
		completed.ID,
		completed.DurationMinutes,
		engineResult.XPGained,
		int(acct.Stats.Experience),
		int(acct.Stats.Level),
		acct.Stats.CurrentStreak,
		engineResult.LeveledUp,
	)
	if pubErr := h.publisher.Publish(ctx, event); pubErr != nil {
		h.logger.Warn("failed to publish completion event",
			logger.SessionID(completed.ID),
			logger.Err(pubErr),
		)
	}

	if engineResult.LeveledUp {
		levelUp := shared.NewLevelUpEvent(
			acct.ID,
			completed.ID,
			int(acct.Stats.Level),
			int(acct.Stats.Experience),
		)
		if pubErr := h.publisher.Publish(ctx, levelUp); pubErr != nil {
			h.logger.Warn("failed to publish level-up event",
				logger.SessionID(completed.ID),
				logger.Err(pubErr),
			)
		}
	}

	h.logger.Info("session completed",
		logger.AccountID(acct.ID),
		logger.SessionID(completed.ID),
		logger.XPAmount(engineResult.XPGained),
	)

	return &CompleteSessionResult{
		Session:        completed,
		Account:        acct,
		XPGained:       engineResult.XPGained,
		LeveledUp:      engineResult.LeveledUp,
		StreakExtended: engineResult.StreakExtended,
		StreakBroken:   engineResult.StreakBroken,
	}, nil
}

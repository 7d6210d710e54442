package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/session"
)

func TestStartSession(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts(testAccount(t, "acct-1"))
	ledger := newFakeLedger(accounts)
	handler := NewStartSessionHandler(ledger, accounts)

	sess, err := handler.Handle(ctx, StartSessionCommand{
		AccountID:       "acct-1",
		DurationMinutes: 20,
		Frequency:       "theta",
	})
	require.NoError(t, err)
	assert.Equal(t, session.StateActive, sess.State)
	assert.Equal(t, session.FrequencyTheta, sess.Frequency)
	assert.NotEmpty(t, sess.ID)

	t.Run("unknown account", func(t *testing.T) {
		_, err := handler.Handle(ctx, StartSessionCommand{
			AccountID: "ghost", DurationMinutes: 20, Frequency: "theta",
		})
		assert.ErrorIs(t, err, account.ErrAccountNotFound)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := handler.Handle(ctx, StartSessionCommand{
			AccountID: "acct-1", DurationMinutes: 121, Frequency: "theta",
		})
		assert.ErrorIs(t, err, session.ErrInvalidDuration)
	})

	t.Run("bad frequency", func(t *testing.T) {
		_, err := handler.Handle(ctx, StartSessionCommand{
			AccountID: "acct-1", DurationMinutes: 20, Frequency: "gamma",
		})
		assert.ErrorIs(t, err, session.ErrInvalidFrequency)
	})
}

func TestPauseResume_Lifecycle(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts(testAccount(t, "acct-1"))
	ledger := newFakeLedger(accounts, testActiveSession(t, "sess-1", "acct-1", 20))
	pause := NewPauseSessionHandler(ledger)
	resume := NewResumeSessionHandler(ledger)

	sess, err := pause.Handle(ctx, PauseSessionCommand{AccountID: "acct-1", SessionID: "sess-1"})
	require.NoError(t, err)
	assert.Equal(t, session.StatePaused, sess.State)
	assert.Equal(t, 1, sess.PauseCount)

	// Pausing again is a no-op, not an error, and does not inflate the
	// pause count.
	sess, err = pause.Handle(ctx, PauseSessionCommand{AccountID: "acct-1", SessionID: "sess-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, sess.PauseCount)

	sess, err = resume.Handle(ctx, ResumeSessionCommand{AccountID: "acct-1", SessionID: "sess-1"})
	require.NoError(t, err)
	assert.Equal(t, session.StateActive, sess.State)

	// Resuming an active session fails.
	_, err = resume.Handle(ctx, ResumeSessionCommand{AccountID: "acct-1", SessionID: "sess-1"})
	assert.ErrorIs(t, err, session.ErrNotPaused)
}

func TestPauseSession_OwnershipAndTerminalState(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts(testAccount(t, "acct-1"), testAccount(t, "acct-2"))
	ledger := newFakeLedger(accounts, testActiveSession(t, "sess-1", "acct-1", 20))
	pause := NewPauseSessionHandler(ledger)

	_, err := pause.Handle(ctx, PauseSessionCommand{AccountID: "acct-2", SessionID: "sess-1"})
	assert.ErrorIs(t, err, session.ErrNotOwner)

	complete := NewCompleteSessionHandler(ledger, &fakePublisher{}, nil)
	_, err = complete.Handle(ctx, CompleteSessionCommand{AccountID: "acct-1", SessionID: "sess-1"})
	require.NoError(t, err)

	_, err = pause.Handle(ctx, PauseSessionCommand{AccountID: "acct-1", SessionID: "sess-1"})
	assert.ErrorIs(t, err, session.ErrAlreadyCompleted)
}

// staleReadLedger serves a fixed snapshot from GetByID, modelling a reader
// whose view of the session is stale by the time it writes.
type staleReadLedger struct {
	session.Ledger
	snapshot *session.Session
}

func (l *staleReadLedger) GetByID(context.Context, string) (*session.Session, error) {
	copied := *l.snapshot
	return &copied, nil
}

func TestPauseSession_StaleReadAfterCompletion(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts(testAccount(t, "acct-1"))
	active := testActiveSession(t, "sess-1", "acct-1", 20)
	ledger := newFakeLedger(accounts, active)

	snapshot := *active
	pause := NewPauseSessionHandler(&staleReadLedger{Ledger: ledger, snapshot: &snapshot})

	complete := NewCompleteSessionHandler(ledger, &fakePublisher{}, nil)
	_, err := complete.Handle(ctx, CompleteSessionCommand{AccountID: "acct-1", SessionID: "sess-1"})
	require.NoError(t, err)

	// The pause saw the session as active before completion committed. The
	// write must refuse instead of reopening the completed record.
	_, err = pause.Handle(ctx, PauseSessionCommand{AccountID: "acct-1", SessionID: "sess-1"})
	assert.ErrorIs(t, err, session.ErrAlreadyCompleted)

	stored, err := ledger.GetByID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, session.StateCompleted, stored.State)
	require.NotNil(t, stored.CompletedAt)
}

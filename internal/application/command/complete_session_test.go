package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/session"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"
)

func testAccount(t *testing.T, id string) *account.Account {
	t.Helper()
	acct, err := account.NewAccount(account.NewAccountParams{
		ID:           id,
		Email:        id + "@example.com",
		DisplayName:  "Tester " + id,
		PasswordHash: "hashed:secret",
	})
	require.NoError(t, err)
	return acct
}

func testActiveSession(t *testing.T, id, accountID string, minutes int) *session.Session {
	t.Helper()
	sess, err := session.NewSession(session.NewSessionParams{
		ID:              id,
		AccountID:       accountID,
		DurationMinutes: minutes,
		Frequency:       session.FrequencyTheta,
	})
	require.NoError(t, err)
	return sess
}

func TestCompleteSession_AwardsXPAndUpdatesAggregates(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts(testAccount(t, "acct-1"))
	ledger := newFakeLedger(accounts, testActiveSession(t, "sess-1", "acct-1", 25))
	publisher := &fakePublisher{}
	handler := NewCompleteSessionHandler(ledger, publisher, nil)

	completedAt := time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)
	res, err := handler.Handle(ctx, CompleteSessionCommand{
		AccountID:   "acct-1",
		SessionID:   "sess-1",
		CompletedAt: completedAt,
	})
	require.NoError(t, err)

	assert.Equal(t, 50, res.XPGained)
	assert.Equal(t, account.Experience(50), res.Account.Stats.Experience)
	assert.Equal(t, account.Level(1), res.Account.Stats.Level)
	assert.Equal(t, 1, res.Account.Stats.TotalSessions)
	assert.Equal(t, 25, res.Account.Stats.TotalMinutes)
	assert.Equal(t, 1, res.Account.Stats.CurrentStreak)
	assert.True(t, res.StreakExtended)
	assert.False(t, res.LeveledUp)

	assert.True(t, res.Session.IsCompleted())
	assert.Equal(t, 50, res.Session.XPGained)

	// The stored copies must match what the handler returned.
	stored, err := ledger.GetByID(ctx, "sess-1")
	require.NoError(t, err)
	assert.True(t, stored.IsCompleted())
	acct, err := accounts.GetByID(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, account.Experience(50), acct.Stats.Experience)
}

func TestCompleteSession_XPFromPlannedDuration(t *testing.T) {
	// A 30-minute plan finished after 12 measured minutes still awards
	// the full 60 XP; the measured time is recorded, not rewarded.
	ctx := context.Background()
	accounts := newFakeAccounts(testAccount(t, "acct-1"))
	ledger := newFakeLedger(accounts, testActiveSession(t, "sess-1", "acct-1", 30))
	handler := NewCompleteSessionHandler(ledger, &fakePublisher{}, nil)

	res, err := handler.Handle(ctx, CompleteSessionCommand{
		AccountID:             "acct-1",
		SessionID:             "sess-1",
		ActualDurationMinutes: 12,
	})
	require.NoError(t, err)

	assert.Equal(t, 60, res.XPGained)
	assert.Equal(t, 12, res.Session.ActualDurationMinutes)
	assert.Equal(t, 30, res.Account.Stats.TotalMinutes)
}

func TestCompleteSession_LevelUp(t *testing.T) {
	ctx := context.Background()
	acct := testAccount(t, "acct-1")
	require.NoError(t, acct.ApplyAggregates(account.Aggregates{
		Experience:    90,
		Level:         1,
		TotalSessions: 3,
		TotalMinutes:  45,
		CurrentStreak: 0,
		LongestStreak: 0,
	}))
	accounts := newFakeAccounts(acct)
	ledger := newFakeLedger(accounts, testActiveSession(t, "sess-1", "acct-1", 10))
	publisher := &fakePublisher{}
	handler := NewCompleteSessionHandler(ledger, publisher, nil)

	res, err := handler.Handle(ctx, CompleteSessionCommand{AccountID: "acct-1", SessionID: "sess-1"})
	require.NoError(t, err)

	assert.Equal(t, account.Experience(110), res.Account.Stats.Experience)
	assert.Equal(t, account.Level(2), res.Account.Stats.Level)
	assert.True(t, res.LeveledUp)

	// Crossing the boundary publishes a level-up after the completion event.
	events := publisher.published()
	require.Len(t, events, 2)
	levelUp, ok := events[1].(shared.LevelUpEvent)
	require.True(t, ok)
	assert.Equal(t, shared.EventLevelUp, levelUp.EventType())
	assert.Equal(t, "acct-1", levelUp.AggregateID())
	assert.Equal(t, "sess-1", levelUp.SessionID)
	assert.Equal(t, 2, levelUp.NewLevel)
	assert.Equal(t, 110, levelUp.Experience)
}

func TestCompleteSession_StreakRules(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, time.June, d, 8, 0, 0, 0, time.UTC)
	}
	lastDate := day(10).Truncate(24 * time.Hour)

	cases := []struct {
		name         string
		completedAt  time.Time
		wantStreak   int
		wantExtended bool
		wantBroken   bool
	}{
		{"same day keeps streak", day(10), 4, false, false},
		{"next day extends", day(11), 5, true, false},
		{"two day gap resets", day(13), 1, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			acct := testAccount(t, "acct-1")
			require.NoError(t, acct.ApplyAggregates(account.Aggregates{
				Experience:      200,
				Level:           3,
				TotalSessions:   12,
				TotalMinutes:    300,
				CurrentStreak:   4,
				LongestStreak:   6,
				LastSessionDate: &lastDate,
			}))
			accounts := newFakeAccounts(acct)
			ledger := newFakeLedger(accounts, testActiveSession(t, "sess-1", "acct-1", 5))
			handler := NewCompleteSessionHandler(ledger, &fakePublisher{}, nil)

			res, err := handler.Handle(ctx, CompleteSessionCommand{
				AccountID:   "acct-1",
				SessionID:   "sess-1",
				CompletedAt: tc.completedAt,
			})
			require.NoError(t, err)

			assert.Equal(t, tc.wantStreak, res.Account.Stats.CurrentStreak)
			assert.Equal(t, tc.wantExtended, res.StreakExtended)
			assert.Equal(t, tc.wantBroken, res.StreakBroken)
			assert.GreaterOrEqual(t, res.Account.Stats.LongestStreak, res.Account.Stats.CurrentStreak)
		})
	}
}

func TestCompleteSession_RejectsWrongOwner(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts(testAccount(t, "acct-1"), testAccount(t, "acct-2"))
	ledger := newFakeLedger(accounts, testActiveSession(t, "sess-1", "acct-1", 10))
	handler := NewCompleteSessionHandler(ledger, &fakePublisher{}, nil)

	_, err := handler.Handle(ctx, CompleteSessionCommand{AccountID: "acct-2", SessionID: "sess-1"})
	assert.ErrorIs(t, err, session.ErrNotOwner)
}

func TestCompleteSession_RejectsDoubleCompletion(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts(testAccount(t, "acct-1"))
	ledger := newFakeLedger(accounts, testActiveSession(t, "sess-1", "acct-1", 10))
	handler := NewCompleteSessionHandler(ledger, &fakePublisher{}, nil)

	_, err := handler.Handle(ctx, CompleteSessionCommand{AccountID: "acct-1", SessionID: "sess-1"})
	require.NoError(t, err)

	_, err = handler.Handle(ctx, CompleteSessionCommand{AccountID: "acct-1", SessionID: "sess-1"})
	assert.ErrorIs(t, err, session.ErrAlreadyCompleted)

	// The aggregates were applied exactly once.
	acct, err := accounts.GetByID(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, 1, acct.Stats.TotalSessions)
}

func TestCompleteSession_PublishesEventAfterCommit(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts(testAccount(t, "acct-1"))
	ledger := newFakeLedger(accounts, testActiveSession(t, "sess-1", "acct-1", 15))
	publisher := &fakePublisher{}
	handler := NewCompleteSessionHandler(ledger, publisher, nil)

	_, err := handler.Handle(ctx, CompleteSessionCommand{AccountID: "acct-1", SessionID: "sess-1"})
	require.NoError(t, err)

	events := publisher.published()
	require.Len(t, events, 1, "no level boundary crossed, so no level-up event")
	completed, ok := events[0].(shared.SessionCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, shared.EventSessionCompleted, completed.EventType())
	assert.Equal(t, "acct-1", completed.AggregateID())
	assert.Equal(t, "sess-1", completed.SessionID)
	assert.Equal(t, 30, completed.XPGained)
}

func TestCompleteSession_PublishFailureDoesNotFailCommand(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts(testAccount(t, "acct-1"))
	ledger := newFakeLedger(accounts, testActiveSession(t, "sess-1", "acct-1", 15))
	publisher := &fakePublisher{err: assert.AnError}
	handler := NewCompleteSessionHandler(ledger, publisher, nil)

	res, err := handler.Handle(ctx, CompleteSessionCommand{AccountID: "acct-1", SessionID: "sess-1"})
	require.NoError(t, err)
	assert.True(t, res.Session.IsCompleted())
}

package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/session"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestXPForDuration(t *testing.T) {
	for d := 1; d <= 120; d++ {
		assert.Equal(t, 2*d, XPForDuration(d))
	}
}

func TestLevelForExperience(t *testing.T) {
	assert.Equal(t, account.Level(1), account.LevelForExperience(0))
	assert.Equal(t, account.Level(1), account.LevelForExperience(99))
	assert.Equal(t, account.Level(2), account.LevelForExperience(100))
	assert.Equal(t, account.Level(2), account.LevelForExperience(199))
	assert.Equal(t, account.Level(11), account.LevelForExperience(1000))

	// Monotonically non-decreasing in experience, and idempotent.
	prev := account.Level(0)
	for xp := 0; xp <= 2000; xp += 7 {
		lvl := account.LevelForExperience(account.Experience(xp))
		assert.GreaterOrEqual(t, lvl, prev)
		assert.Equal(t, lvl, account.LevelForExperience(account.Experience(xp)))
		prev = lvl
	}
}

func TestApplyCompletedSession_RejectsInvalidDuration(t *testing.T) {
	prior := account.ZeroAggregates()

	for _, d := range []int{0, -5, 121, 1000} {
		res, err := ApplyCompletedSession(prior, d, time.Now())
		assert.ErrorIs(t, err, session.ErrInvalidDuration)
		assert.Equal(t, prior, res.Next, "nothing may change on rejection")
	}
}

func TestApplyCompletedSession_FirstSession(t *testing.T) {
	// Account starts at experience=0, level=1. A 10-minute session gives
	// xp_gained=20, experience=20, level=1, totals 1/10, streak 1.
	prior := account.ZeroAggregates()
	today := date(2025, time.March, 10)

	res, err := ApplyCompletedSession(prior, 10, today)
	require.NoError(t, err)

	assert.Equal(t, 20, res.XPGained)
	assert.Equal(t, account.Experience(20), res.Next.Experience)
	assert.Equal(t, account.Level(1), res.Next.Level)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 1, res.Next.TotalSessions)
	assert.Equal(t, 10, res.Next.TotalMinutes)
	assert.Equal(t, 1, res.Next.CurrentStreak)
	assert.Equal(t, 1, res.Next.LongestStreak)
	assert.True(t, res.StreakExtended)
	require.NotNil(t, res.Next.LastSessionDate)
	assert.Equal(t, today, *res.Next.LastSessionDate)
}

func TestApplyCompletedSession_NextDayLevelUp(t *testing.T) {
	// Same account completes 45 minutes the next calendar day:
	// experience=110, level=2 (leveled up), streak=2.
	day1 := date(2025, time.March, 10)
	first, err := ApplyCompletedSession(account.ZeroAggregates(), 10, day1)
	require.NoError(t, err)

	day2 := day1.AddDate(0, 0, 1)
	res, err := ApplyCompletedSession(first.Next, 45, day2)
	require.NoError(t, err)

	assert.Equal(t, 90, res.XPGained)
	assert.Equal(t, account.Experience(110), res.Next.Experience)
	assert.Equal(t, account.Level(2), res.Next.Level)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.Next.CurrentStreak)
	assert.Equal(t, 2, res.Next.LongestStreak)
	assert.Equal(t, 2, res.Next.TotalSessions)
	assert.Equal(t, 55, res.Next.TotalMinutes)
}

func TestApplyCompletedSession_SameDayKeepsStreak(t *testing.T) {
	day := date(2025, time.March, 10)
	first, err := ApplyCompletedSession(account.ZeroAggregates(), 30, day)
	require.NoError(t, err)

	// Second session the same calendar date, later time-of-day.
	later := day.Add(14 * time.Hour)
	res, err := ApplyCompletedSession(first.Next, 30, later)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Next.CurrentStreak, "same-day sessions never inflate the streak")
	assert.False(t, res.StreakExtended)
	assert.False(t, res.StreakBroken)
	assert.Equal(t, 2, res.Next.TotalSessions)
	assert.Equal(t, 60, res.Next.TotalMinutes)
}

func TestApplyCompletedSession_GapResetsStreak(t *testing.T) {
	day1 := date(2025, time.March, 10)
	agg := account.ZeroAggregates()

	// Build a streak of 3.
	for i := 0; i < 3; i++ {
		res, err := ApplyCompletedSession(agg, 20, day1.AddDate(0, 0, i))
		require.NoError(t, err)
		agg = res.Next
	}
	require.Equal(t, 3, agg.CurrentStreak)
	require.Equal(t, 3, agg.LongestStreak)

	// A session 3 days after the last one resets the streak; the longest
	// streak keeps its prior max.
	res, err := ApplyCompletedSession(agg, 20, day1.AddDate(0, 0, 5))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Next.CurrentStreak)
	assert.Equal(t, 3, res.Next.LongestStreak)
	assert.True(t, res.StreakBroken)
	assert.GreaterOrEqual(t, res.Next.LongestStreak, res.Next.CurrentStreak)
}

func TestApplyCompletedSession_LongestStreakInvariant(t *testing.T) {
	// longest_streak >= current_streak after any sequence of sessions.
	agg := account.ZeroAggregates()
	day := date(2025, time.January, 1)
	gaps := []int{1, 1, 0, 1, 4, 1, 1, 1, 9, 1, 0, 0, 2}

	for _, g := range gaps {
		day = day.AddDate(0, 0, g)
		res, err := ApplyCompletedSession(agg, 15, day)
		require.NoError(t, err)
		agg = res.Next
		assert.GreaterOrEqual(t, agg.LongestStreak, agg.CurrentStreak)
		assert.NoError(t, agg.Validate())
	}
}

func TestApplyCompletedSession_Deterministic(t *testing.T) {
	prior := account.Aggregates{
		Experience:    230,
		Level:         3,
		TotalSessions: 9,
		TotalMinutes:  115,
		CurrentStreak: 2,
		LongestStreak: 5,
	}
	at := date(2025, time.June, 2)

	a, err := ApplyCompletedSession(prior, 60, at)
	require.NoError(t, err)
	b, err := ApplyCompletedSession(prior, 60, at)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

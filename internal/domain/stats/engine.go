// Package stats implements the statistics engine: given an account's current
// aggregate state and a session-completion event, it produces the next
// aggregate state. Pure computation, deterministic, no I/O.
package stats

import (
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/session"
	"github.com/chrysalis-app/mindfulness-hub/pkg/timeutil"
)

// XPPerMinute is the fixed experience rate for completed meditation minutes.
const XPPerMinute = 2

// XPForDuration returns the experience gained for a completed session of the
// given duration.
func XPForDuration(minutes int) int {
	return minutes * XPPerMinute
}

// Result describes the outcome of applying one completed session.
type Result struct {
	// Next is the aggregate state after the session.
	Next account.Aggregates

	// XPGained is the experience awarded for this session.
	XPGained int

	// LeveledUp is true iff the new level exceeds the prior level. Surfaced
	// for the caller's celebration UI, never stored.
	LeveledUp bool

	// StreakExtended is true when the streak grew (first session of a new
	// consecutive day, or the very first session).
	StreakExtended bool

	// StreakBroken is true when a gap of more than one day reset the streak.
	StreakBroken bool
}

// ApplyCompletedSession computes the aggregate state following a completed
// session of durationMinutes, observed on the calendar date of completedAt.
//
// Rules:
//   - xp_gained = duration * 2
//   - level = floor(experience/100) + 1, recomputed from cumulative experience
//   - streak compares calendar dates only: same day keeps the streak, a gap
//     of exactly one day extends it, a longer gap resets it to 1
//   - longest_streak = max(prior longest, new streak)
//
// Returns session.ErrInvalidDuration for durations outside 1-120; the prior
// state is returned unchanged in that case and nothing may be written.
func ApplyCompletedSession(prior account.Aggregates, durationMinutes int, completedAt time.Time) (Result, error) {
	if !session.ValidDuration(durationMinutes) {
		return Result{Next: prior}, session.ErrInvalidDuration
	}

	xpGained := XPForDuration(durationMinutes)

	next := prior
	next.Experience = prior.Experience.Add(xpGained)
	next.Level = account.LevelForExperience(next.Experience)
	next.TotalSessions = prior.TotalSessions + 1
	next.TotalMinutes = prior.TotalMinutes + durationMinutes

	today := timeutil.DateOf(completedAt)
	streak, extended, broken := nextStreak(prior, today)
	next.CurrentStreak = streak
	if streak > next.LongestStreak {
		next.LongestStreak = streak
	}
	next.LastSessionDate = &today

	return Result{
		Next:           next,
		XPGained:       xpGained,
		LeveledUp:      next.Level > prior.Level,
		StreakExtended: extended,
		StreakBroken:   broken,
	}, nil
}

// nextStreak applies the date-only streak rules.
func nextStreak(prior account.Aggregates, today time.Time) (streak int, extended, broken bool) {
	if prior.LastSessionDate == nil {
		return 1, true, false
	}

	switch gap := timeutil.DaysBetween(*prior.LastSessionDate, today); {
	case gap == 0:
		// Multiple sessions the same day never inflate the streak.
		return prior.CurrentStreak, false, false
	case gap == 1:
		return prior.CurrentStreak + 1, true, false
	default:
		return 1, false, prior.CurrentStreak > 1
	}
}

// Package timeutil provides calendar-date helpers. Streaks compare dates,
// never timestamps, so everything here truncates to midnight UTC.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// DateOf truncates a time to its calendar date (midnight UTC).
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date (midnight UTC).
func Today() time.Time {
	return DateOf(time.Now())
}

// SameDay reports whether two times fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// DaysBetween returns the whole number of calendar days from a to b.
// Positive when b is after a, negative when before.
func DaysBetween(a, b time.Time) int {
	da := DateOf(a)
	db := DateOf(b)
	return int(db.Sub(da).Hours() / 24)
}

// StartOfDay returns midnight UTC of the given time's date.
func StartOfDay(t time.Time) time.Time {
	return DateOf(t)
}

// EndOfDay returns the last nanosecond of the given time's date in UTC.
func EndOfDay(t time.Time) time.Time {
	return DateOf(t).Add(24*time.Hour - time.Nanosecond)
}

// NextMidnight returns the first instant of the following day in UTC.
// Used to expire anything cached "for today".
func NextMidnight(t time.Time) time.Time {
	return DateOf(t).AddDate(0, 0, 1)
}

// UntilMidnight returns the duration from t until the next UTC midnight.
func UntilMidnight(t time.Time) time.Duration {
	return NextMidnight(t).Sub(t.UTC())
}

// DayOrdinal returns a stable ordinal for the date (days since Unix epoch).
// Used for deterministic daily rotation.
func DayOrdinal(t time.Time) int {
	return int(DateOf(t).Unix() / 86400)
}

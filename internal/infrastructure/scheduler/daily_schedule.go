package scheduler

import (
	"time"

	"github.com/chrysalis-app/mindfulness-hub/pkg/timeutil"
)

// DailySchedule runs a job once per day, just after midnight UTC. The small
// offset keeps the run clear of the day boundary the job itself keys on.
type DailySchedule struct {
	Offset time.Duration
}

// NewDailySchedule creates a schedule firing daily at midnight UTC plus
// offset.
func NewDailySchedule(offset time.Duration) *DailySchedule {
	if offset < 0 {
		offset = 0
	}
	return &DailySchedule{Offset: offset}
}

// Next returns the next scheduled time.
func (s *DailySchedule) Next(t time.Time) time.Time {
	next := timeutil.NextMidnight(t).Add(s.Offset)
	if !next.After(t) {
		next = timeutil.NextMidnight(t.Add(24 * time.Hour)).Add(s.Offset)
	}
	return next
}

// String returns the string representation of the schedule.
func (s *DailySchedule) String() string {
	return "@daily (midnight UTC)"
}

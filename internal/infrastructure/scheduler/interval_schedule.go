package scheduler

import (
	"fmt"
	"time"
)

// IntervalSchedule fires at a fixed period, measured from the end of the
// previous run.
type IntervalSchedule struct {
	Interval time.Duration
}

// NewIntervalSchedule builds a fixed-period schedule.
func NewIntervalSchedule(interval time.Duration) *IntervalSchedule {
	return &IntervalSchedule{Interval: interval}
}

// Next returns t plus the period.
func (s *IntervalSchedule) Next(t time.Time) time.Time {
	return t.Add(s.Interval)
}

func (s *IntervalSchedule) String() string {
	return fmt.Sprintf("@every %s", s.Interval)
}

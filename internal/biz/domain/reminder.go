package domain

import (
	"math"
	"time"
)

// ReminderState is the single persisted record of the last reminder send
type ReminderState struct {
	LastTimestamp time.Time
}

// AgeInDays returns the whole days elapsed since the last send
func (s *ReminderState) AgeInDays(now time.Time) int {
	return int(now.Sub(s.LastTimestamp).Hours() / 24)
}

// Recurrence is a weekly recurrence rule anchored at a start date: it
// fires at Hour o'clock on days that are a whole multiple of
// IntervalWeeks weeks after Start
type Recurrence struct {
	Start         time.Time
	IntervalWeeks int
	Hour          int
}

// Matches reports whether now falls on the recurrence
func (r Recurrence) Matches(now time.Time) bool {
	if r.Start.IsZero() || r.IntervalWeeks <= 0 {
		return false
	}
	if now.Hour() != r.Hour {
		return false
	}
	days := daysBetween(r.Start, now)
	return days >= 0 && days%(7*r.IntervalWeeks) == 0
}

// daysBetween counts calendar days, rounding so DST-shortened days
// don't shift the stride
func daysBetween(from, to time.Time) int {
	from = truncateToDay(from)
	to = truncateToDay(to.In(from.Location()))
	return int(math.Round(to.Sub(from).Hours() / 24))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

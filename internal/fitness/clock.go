// Package fitness holds what the fitness packages share: calendar days and
// the clock deciding what "today" is.
package fitness

import "time"

// Clock returns the current time in the configured location.
type Clock func() time.Time

func NewClock(loc *time.Location) Clock {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// FixedClock is used in tests and tooling.
func FixedClock(t time.Time) Clock {
	return func() time.Time {
		return t
	}
}

// DateOf truncates t to the calendar day it falls on in its own location,
// returned as UTC midnight so dates compare and store consistently.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (c Clock) Today() time.Time {
	return DateOf(c())
}

func (c Clock) Yesterday() time.Time {
	return c.Today().AddDate(0, 0, -1)
}

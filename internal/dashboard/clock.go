// Package dashboard derives progress analytics from practice history:
// streaks, calendar heatmaps, spaced review scheduling, focus areas and
// leveling. Every component is a stateless computation over records fetched
// from a history.RecordStore.
package dashboard

import "time"

// dayKeyFormat identifies a calendar day.
const dayKeyFormat = "2006-01-02"

// Clock supplies the current instant and the timezone used for day
// bucketing. Streak and calendar results depend on where the day boundary
// falls, so the zone is fixed per deployment rather than taken from each
// caller's wall clock.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock returns a Clock using time.Now in UTC.
func SystemClock() Clock {
	return Clock{Now: time.Now, Location: time.UTC}
}

// ClockAt returns a Clock frozen at the given instant, bucketing days in the
// instant's location. Intended for tests.
func ClockAt(instant time.Time) Clock {
	return Clock{
		Now:      func() time.Time { return instant },
		Location: instant.Location(),
	}
}

func (c Clock) normalize() Clock {
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.Location == nil {
		c.Location = time.UTC
	}
	return c
}

// today returns midnight of the current day in the clock's location.
func (c Clock) today() time.Time {
	now := c.Now().In(c.Location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.Location)
}

// dayKey reduces an instant to its calendar date in the clock's location.
func (c Clock) dayKey(t time.Time) string {
	return t.In(c.Location).Format(dayKeyFormat)
}

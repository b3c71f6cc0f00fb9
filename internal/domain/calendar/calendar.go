// Package calendar is the single source of truth for calendar-day
// identifiers and week windows. Eligibility counting and the duplicate-visit
// check both go through it, so the two can never disagree about what "same
// day" means.
//
// All arithmetic is evaluated in one fixed *time.Location chosen at startup;
// records are not re-interpreted in whatever zone the host happens to be in
// when eligibility is checked.
package calendar

import (
	"time"
)

// Calendar performs day and week arithmetic in a fixed location.
type Calendar struct {
	loc *time.Location
}

// New creates a Calendar evaluating in loc. A nil loc falls back to the
// host's local zone.
func New(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{loc: loc}
}

// Location returns the fixed location the calendar evaluates in.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// DayKey reduces an instant to its calendar-day identifier (YYYY-MM-DD).
// Two instants on the same calendar day yield the same key regardless of
// time of day.
func (c *Calendar) DayKey(t time.Time) string {
	return t.In(c.loc).Format("2006-01-02")
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window under half-open
// semantics: t >= Start && t < End.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// DayStart returns midnight of t's calendar day.
func (c *Calendar) DayStart(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc)
}

// DayWindow returns the half-open window covering t's calendar day.
func (c *Calendar) DayWindow(t time.Time) Window {
	start := c.DayStart(t)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeekStart returns the most recent Sunday at midnight relative to now.
// A Sunday instant maps to that same day's midnight.
func (c *Calendar) WeekStart(now time.Time) time.Time {
	day := c.DayStart(now)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// WeekWindow returns the half-open seven-day window starting at weekStart's
// day. The caller may pass any instant; it is normalized to midnight first.
func (c *Calendar) WeekWindow(weekStart time.Time) Window {
	start := c.DayStart(weekStart)
	return Window{Start: start, End: start.AddDate(0, 0, 7)}
}

// CombineDateAndTime builds an instant from date's calendar day and clock's
// time of day, both read in the calendar's location. Used when a visit is
// recorded for a caller-chosen date: the stored date is the caller's, the
// time of day is "now" so same-day records keep insertion order.
func (c *Calendar) CombineDateAndTime(date, clock time.Time) time.Time {
	date = date.In(c.loc)
	clock = clock.In(c.loc)
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(),
		c.loc,
	)
}

package window

import (
	"time"
)

// Policy decides when a weekly entry may be written. Writes are allowed on
// Sundays whose week belongs to the active year; the allowAnyDay override
// relaxes the Sunday rule for local testing only.
type Policy struct {
	loc         *time.Location
	activeYear  int
	allowAnyDay bool
}

// New creates a write-window policy
func New(loc *time.Location, activeYear int, allowAnyDay bool) *Policy {
	return &Policy{
		loc:         loc,
		activeYear:  activeYear,
		allowAnyDay: allowAnyDay,
	}
}

// WeekStart returns the Monday at local midnight of t's calendar week
func (p *Policy) WeekStart(t time.Time) time.Time {
	t = t.In(p.loc)
	// time.Weekday counts Sunday as 0; shift so Monday is 0
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, p.loc)
}

// IsSunday reports whether t falls on a Sunday in the configured timezone
func (p *Policy) IsSunday(t time.Time) bool {
	return t.In(p.loc).Weekday() == time.Sunday
}

// InActiveYear reports whether t's week Monday falls in the active year
func (p *Policy) InActiveYear(t time.Time) bool {
	return p.WeekStart(t).Year() == p.activeYear
}

// CanWrite reports whether a weekly entry may be written at t
func (p *Policy) CanWrite(t time.Time) bool {
	if p.allowAnyDay {
		return p.InActiveYear(t)
	}
	return p.IsSunday(t) && p.InActiveYear(t)
}

// AllWeeks returns the Monday of every week of the active year, ascending:
// the first Monday on or after Jan 1 through the last Monday of December
func (p *Policy) AllWeeks() []time.Time {
	monday := p.WeekStart(time.Date(p.activeYear, time.January, 1, 0, 0, 0, 0, p.loc))
	if monday.Year() < p.activeYear {
		monday = monday.AddDate(0, 0, 7)
	}

	var weeks []time.Time
	for monday.Year() == p.activeYear {
		weeks = append(weeks, monday)
		monday = monday.AddDate(0, 0, 7)
	}
	return weeks
}

package clock

import (
	"time"
)

// Clock supplies the current time in a fixed timezone. The now function is
// injectable so tests can freeze or advance time.
type Clock struct {
	loc   *time.Location
	nowFn func() time.Time
}

// New creates a clock for the given location. If testNow is a non-empty
// RFC 3339 timestamp it becomes the fixed current time; a value without a
// zone offset is interpreted in loc.
func New(loc *time.Location, testNow string) *Clock {
	c := &Clock{loc: loc, nowFn: time.Now}
	if testNow != "" {
		if t, err := Parse(testNow, loc); err == nil {
			c.nowFn = func() time.Time { return t }
		}
		// Parse errors fall back to the real clock
	}
	return c
}

// Parse reads an RFC 3339 timestamp, accepting values without a zone offset
// as local to loc
func Parse(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", value, loc)
}

// NewFrozen creates a clock pinned to a fixed instant (for tests)
func NewFrozen(loc *time.Location, t time.Time) *Clock {
	return &Clock{loc: loc, nowFn: func() time.Time { return t }}
}

// Now returns the current time in the configured location
func (c *Clock) Now() time.Time {
	return c.nowFn().In(c.loc)
}

// Location returns the configured location
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Advance shifts a frozen clock forward by d (for tests)
func (c *Clock) Advance(d time.Duration) {
	base := c.nowFn()
	c.nowFn = func() time.Time { return base.Add(d) }
}

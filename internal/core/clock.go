package core

import "time"

// Clock supplies the processing time for month and week windows.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock, optionally converted to Location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	now := time.Now()
	if c.Location != nil {
		return now.In(c.Location)
	}
	return now
}

// FixedClock always returns the same instant. Used by tests and by the
// report command's -now flag.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time {
	return c.T
}

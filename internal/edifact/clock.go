package edifact

import "time"

// Clock supplies the preparation date and time written into UNB.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the host clock in local time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time { return c.Time }

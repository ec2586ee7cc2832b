package testutil

import (
	"sync"
	"time"
)

// FixedClock provides a settable wall clock for tests.
//
// Pipeline code takes a func() time.Time; pass clock.Now so run dates and
// diff timestamps are reproducible and golden files stay stable.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock pinned at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

// NewFixedClockAt parses an ISO date (YYYY-MM-DD) as midnight UTC.
// Panics on malformed input; use only with literal dates in tests.
func NewFixedClockAt(date string) *FixedClock {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return NewFixedClock(t)
}

// Now returns the pinned time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set pins the clock at t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

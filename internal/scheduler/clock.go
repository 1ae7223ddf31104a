package scheduler

import (
	"sync"
	"time"
)

// Clock supplies wall-clock time to the advancer. Both the current-slot
// refresh and the rollover countdown read it once per tick.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time { return time.Now() }

// FakeClock is a Clock whose time only moves when told to. Tests use it
// to step an Advancer through slot boundaries and rollover periods.
// It is safe for concurrent use, so a test can move it while an engine
// loop reads it.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFakeClock returns a FakeClock stopped at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

// Now returns the fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set jumps the fake time to t. Moving backwards is allowed; the
// advancer then sees a negative elapsed time and does not roll over.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Advance moves the fake time forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

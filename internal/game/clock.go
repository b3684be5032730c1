package game

import (
	"sync"
	"time"
)

// Clock stamps clicks and ticks. The store reads it once per dispatch so a
// reduction never observes two different "now" values.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FakeClock is a settable clock for tests and simulations.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Advance moves the clock forward and returns the new time.
func (c *FakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	return c.t
}

// stamp fills the zero timestamp of time-sensitive actions from the clock.
func stamp(a Action, c Clock) Action {
	switch v := a.(type) {
	case ClickCode:
		if v.At.IsZero() {
			v.At = c.Now()
		}
		return v
	case Tick:
		if v.At.IsZero() {
			v.At = c.Now()
		}
		return v
	default:
		return a
	}
}

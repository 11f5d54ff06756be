package timer

import (
	"sync"
	"time"
)

// Clock is the wall-clock source read by the game timer.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FakeClock only moves when told to, so timer tests can step through
// warnings and expiry exactly.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// AdvanceSeconds is shorthand for Advance(n * time.Second).
func (c *FakeClock) AdvanceSeconds(n int) {
	c.Advance(time.Duration(n) * time.Second)
}

package game

import (
	"sync"
	"time"
)

// Clock supplies wall time to the host loop; dt per frame is derived from it.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FakeClock is deterministic and test-friendly.
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

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// frameTimer turns successive clock readings into non-negative frame deltas.
type frameTimer struct {
	clock Clock
	last  time.Time
}

func newFrameTimer(c Clock) *frameTimer {
	return &frameTimer{clock: c, last: c.Now()}
}

func (f *frameTimer) next() time.Duration {
	now := f.clock.Now()
	dt := now.Sub(f.last)
	f.last = now
	if dt < 0 {
		return 0
	}
	return dt
}

package testutil

import (
	"sync"
	"time"
)

// Epoch is the default start time of a DeterministicClock.
var Epoch = time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)

// DeterministicClock is a fake wall clock for tests.
//
// Each call to Now returns the current time and then advances it by the
// configured step, so timestamps in file names and footers are predictable.
// Reset rewinds it for reuse.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	now   time.Time
}

// NewDeterministicClock creates a clock starting at Epoch with a one-second step.
func NewDeterministicClock() *DeterministicClock {
	return NewClock(Epoch, time.Second)
}

// NewClock creates a clock starting at start. A zero step freezes time.
func NewClock(start time.Time, step time.Duration) *DeterministicClock {
	return &DeterministicClock{start: start, step: step, now: start}
}

// Now returns the current time and advances the clock.
//
// Its signature matches time.Now so it can be injected directly.
func (c *DeterministicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Current returns the time the next Now call will return.
func (c *DeterministicClock) Current() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset rewinds the clock to its start.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.start
}

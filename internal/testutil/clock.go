// Package testutil holds shared test doubles.
package testutil

import (
	"sync"
	"time"
)

// FakeClock provides a thread-safe manually advanced clock for tests.
//
// Unlike time.Now, FakeClock only moves when a test calls Advance or
// Set. This enables time-dependent logic (debounce windows, timestamp
// columns) to run with identical results on every test run.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a clock pinned at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the current fake time without advancing it.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new time.
//
// Monotonic: tests only pass positive durations; the clock never moves
// backward through Advance.
func (c *FakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// Set pins the clock to t.
//
// Used for test reuse. After Set, Now returns exactly t until the next
// Advance or Set.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

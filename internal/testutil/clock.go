// Package testutil provides deterministic helpers shared by tests.
package testutil

import (
	"sync"
	"time"
)

// StepClock is a thread-safe fake wall clock that advances by a fixed
// step on every reading. Durations measured between two consecutive
// readings are therefore exactly one step, which makes timing output
// reproducible.
//
// StepClock can be reset so the same scenario observes identical
// instants on every run.
type StepClock struct {
	mu   sync.Mutex
	base time.Time
	cur  time.Time
	step time.Duration
}

// NewStepClock creates a clock positioned at base.
//
// The first call to Now() returns base+step.
func NewStepClock(base time.Time, step time.Duration) *StepClock {
	return &StepClock{base: base, cur: base, step: step}
}

// Now advances the clock by one step and returns the new reading.
//
// Thread-safe: uses a mutex to protect the current instant.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(c.step)
	return c.cur
}

// Current returns the latest reading without advancing.
func (c *StepClock) Current() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

// Reset rewinds the clock to its base instant.
//
// After Reset(), the next call to Now() returns base+step again.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.base
}

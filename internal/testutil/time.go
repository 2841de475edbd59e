package testutil

import (
	"sync"
	"time"
)

// DeterministicTime produces a strictly increasing sequence of time.Time
// values, one fixed step apart, for tests that stamp connection or
// database timestamps and need ordering guarantees the real wall clock
// cannot promise at high call rates. Mirrors DeterministicClock's
// mutex-guarded counter, producing timestamps instead of a bare sequence.
type DeterministicTime struct {
	mu   sync.Mutex
	base time.Time
	step time.Duration
	n    int64
}

// NewDeterministicTime creates a clock whose Nth call to Next returns
// base plus N*step (1-indexed).
func NewDeterministicTime(base time.Time, step time.Duration) *DeterministicTime {
	return &DeterministicTime{base: base, step: step}
}

// Next returns the next timestamp in the sequence.
func (c *DeterministicTime) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.base.Add(time.Duration(c.n) * c.step)
}

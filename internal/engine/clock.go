package engine

import "sync/atomic"

// Clock is the monotonic logical clock that stamps applied mutations.
//
// Only the Run goroutine calls Next; Current may be read from anywhere.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next increments the clock and returns the new seq.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last seq handed out, or 0 if none.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

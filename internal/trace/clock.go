package trace

import "sync/atomic"

// Clock is a monotonic logical clock for ordering trace events.
//
// Every recorded event is stamped with a strictly increasing seq from this
// clock, never a wall-clock timestamp. Logical time makes traces identical
// across runs, which is what golden-file comparison depends on.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though scenario execution is single-threaded by design.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and advances the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without advancing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

package engine

import "sync/atomic"

// SeqSource stamps evaluations with strictly increasing sequence numbers.
// Implemented by Clock and testutil.DeterministicClock.
type SeqSource interface {
	Next() int64
}

// Clock is a monotonic logical clock for evaluation ordering.
// Safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that continues after start.
// Used to append to a session that already has records.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

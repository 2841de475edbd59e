package ir

import "sync/atomic"

// StatementClock assigns the monotonically increasing per-graph statement
// id (next_stmt_id) handed out on each assertion, mirroring the teacher's
// engine.Clock atomic sequence generator. A Graph's entire lineage of
// immutable snapshots shares one StatementClock by reference, so ids stay
// unique and increasing across every Add/Delete that lineage ever performs,
// the same single-writer discipline the teacher's Clock documents.
type StatementClock struct {
	seq atomic.Int64
}

// NewStatementClock returns a clock whose first Next call returns 1.
func NewStatementClock() *StatementClock {
	return &StatementClock{}
}

// NewStatementClockAt returns a clock whose first Next call returns
// start+1, used to resume numbering after replaying a durable log up
// through statement id start.
func NewStatementClockAt(start int64) *StatementClock {
	c := &StatementClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next statement id and advances the clock.
func (c *StatementClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the most recently issued statement id without advancing
// the clock.
func (c *StatementClock) Current() int64 {
	return c.seq.Load()
}

package graph

import (
	"github.com/roach88/veritas/internal/index"
	"github.com/roach88/veritas/internal/ir"
)

// Graph is a sealed interface: an immutable, indexed set (or multiset) of
// triples. Add and Delete never mutate the receiver; they return a new
// Graph value built by structural sharing with the one they started from.
//
// Graph types:
//   - Simple: a triple is either asserted or not (set semantics); a
//     repeated Add is a no-op, a Delete removes the triple outright.
//   - Multi: a triple's assertion count is tracked explicitly (multiset
//     semantics); Add/Delete increment/decrement it, and the triple is
//     present only while the count is positive.
type Graph interface {
	graphNode() // seals Graph to this package

	// Add asserts t at transaction tx, returning the resulting graph, the
	// statement id assigned to this assertion (the graph's next_stmt_id,
	// drawn from a per-lineage monotonic counter and stable identity of
	// "this particular addition"), and whether the graph's observable
	// content actually changed (always true for Multi; false for a
	// Simple Add of an already-present triple).
	Add(t ir.Triple, tx int64) (g Graph, statementID int64, changed bool, err error)

	// Delete retracts t at transaction tx. changed is false if t was not
	// present (nothing to retract).
	Delete(t ir.Triple, tx int64) (g Graph, changed bool, err error)

	// Count returns the number of times t is currently asserted: 0 or 1
	// for Simple, any non-negative integer for Multi.
	Count(t ir.Triple) int

	// SPO, POS, and OSP expose the three index rotations backing the
	// graph, consumed by package resolve to answer pattern queries.
	SPO() *index.Level
	POS() *index.Level
	OSP() *index.Level
}

// Diff records the net effect of a batch Transact call: the triples newly
// asserted, each paired with the statement id it was assigned, and the
// triples fully retracted.
type Diff struct {
	Added     []Addition
	Retracted []ir.Triple
}

// Addition pairs a newly-asserted triple with its statement id.
type Addition struct {
	Triple      ir.Triple
	StatementID int64
}

// Transact applies a batch of additions and retractions to g at a single
// transaction number, returning the resulting graph and a Diff describing
// what actually changed (a redundant Add to a Simple graph, or a Delete of
// an absent triple, contributes nothing to the Diff).
func Transact(g Graph, adds, deletes []ir.Triple, tx int64) (Graph, Diff, error) {
	var diff Diff
	for _, t := range deletes {
		next, changed, err := g.Delete(t, tx)
		if err != nil {
			return g, diff, err
		}
		g = next
		if changed {
			diff.Retracted = append(diff.Retracted, t)
		}
	}
	for _, t := range adds {
		next, id, changed, err := g.Add(t, tx)
		if err != nil {
			return g, diff, err
		}
		g = next
		if changed {
			diff.Added = append(diff.Added, Addition{Triple: t, StatementID: id})
		}
	}
	return g, diff, nil
}

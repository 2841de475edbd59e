package conn

import (
	"sort"
	"time"

	"github.com/roach88/veritas/internal/graph"
)

// Database is an immutable snapshot of the graph at a single transaction
// boundary. History holds every prior Database, oldest first, NOT
// including this one; the connection's own history slice (see
// Connection) is what actually ends with the current Database.
type Database struct {
	Graph     graph.Graph
	History   []*Database
	Timestamp time.Time
	T         int64
}

// AsOf returns the database that was current at transaction t, out of
// history (the connection's full, ever-growing timeline, oldest first,
// ending with the current database): history clamped to [0, len-1] for
// an in-range t, or the last (current) entry for t >= len(history). A
// negative t clamps to 0, i.e. the oldest database.
//
// Called with a single Database's own History field (which only spans
// what existed up to that database's creation) rather than the
// connection's live history, AsOf still answers correctly for any t below
// that database's own transaction number — it just cannot see
// transactions committed after it, which matches a Database's
// immutability.
func AsOf(history []*Database, t int64) *Database {
	if len(history) == 0 {
		return nil
	}
	if t < 0 {
		t = 0
	}
	if int(t) >= len(history) {
		return history[len(history)-1]
	}
	return history[t]
}

// AsOfInstant returns the last database in history whose Timestamp is <=
// instant, or the last (current) entry if instant is at or after it.
// history must be sorted by Timestamp ascending, which it always is by
// construction (Transact only ever appends).
func AsOfInstant(history []*Database, instant time.Time) *Database {
	if len(history) == 0 {
		return nil
	}
	last := history[len(history)-1]
	if !instant.Before(last.Timestamp) {
		return last
	}
	i := sort.Search(len(history), func(i int) bool {
		return history[i].Timestamp.After(instant)
	})
	if i == 0 {
		return history[0]
	}
	return history[i-1]
}

// Since returns the first database in history strictly newer than t. ok
// is false if even the last (current) entry's Timestamp does not exceed
// t.
func Since(history []*Database, t time.Time) (result *Database, ok bool) {
	for _, d := range history {
		if d.Timestamp.After(t) {
			return d, true
		}
	}
	return nil, false
}

// Diff returns the subjects whose p->o sub-map differs between a and b's
// graphs. Fails with graph.ErrIncompatibleGraphs if the two graphs are
// different Graph implementations (Simple vs Multi).
func Diff(a, b *Database) (graph.SubjectDiff, error) {
	return graph.DiffGraphs(a.Graph, b.Graph)
}

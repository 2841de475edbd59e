package conn

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/roach88/veritas/internal/graph"
)

// UpdateFunc computes the graph to install as of the next transaction,
// given the current graph and the transaction number it is being asked to
// produce. It must be pure of observable side effects: the compare-and-set
// transaction loop may invoke it more than once for a single Transact call
// if another transaction commits first.
type UpdateFunc func(current graph.Graph, tx int64) (graph.Graph, error)

// state is the atomically-swapped contents of a Connection: the current
// database and the full history ending with it.
type state struct {
	db      *Database
	history []*Database
}

// Connection is a mutable cell holding the current database value and its
// full history. All mutation goes through Transact's compare-and-set loop;
// no lock protects the graph itself, since a Database and its Graph are
// never mutated once built.
type Connection struct {
	cell    atomic.Pointer[state]
	closed  atomic.Bool
	timeout time.Duration
}

// New creates a Connection whose initial database wraps empty. The
// connection's own history begins as the single-element slice containing
// that initial database, per the invariant that history always ends with
// the current db.
func New(empty graph.Graph) *Connection {
	initial := &Database{Graph: empty, History: nil, Timestamp: now(), T: 0}
	c := &Connection{timeout: DefaultTxTimeout()}
	c.cell.Store(&state{db: initial, history: []*Database{initial}})
	return c
}

// now is a seam so tests can stamp deterministic Database timestamps by
// wrapping a Connection with a fake clock; production code calls
// time.Now().UTC() indirectly through this package variable.
var now = func() time.Time { return time.Now().UTC() }

// DB returns the connection's current database. Returns ErrDatabaseClosed
// after Release.
func (c *Connection) DB() (*Database, error) {
	if c.closed.Load() {
		return nil, ErrDatabaseClosed
	}
	return c.cell.Load().db, nil
}

// History returns the connection's full history, oldest first, ending
// with the current database.
func (c *Connection) History() ([]*Database, error) {
	if c.closed.Load() {
		return nil, ErrDatabaseClosed
	}
	return c.cell.Load().history, nil
}

// Transact runs update against the connection's current graph and
// publishes the result, retrying from the top if another transaction won
// the race to commit first. Returns the database before and after the
// transaction. If ctx is cancelled or its deadline (or the connection's
// configured timeout, whichever is sooner) elapses before update returns
// and the compare-and-set succeeds, it fails with ErrTransactionTimeout
// without altering the connection: update runs before the CAS, so a
// timeout never leaves a partial state.
func (c *Connection) Transact(ctx context.Context, update UpdateFunc) (before, after *Database, err error) {
	if c.closed.Load() {
		return nil, nil, ErrDatabaseClosed
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, ErrTransactionTimeout
		}

		s0 := c.cell.Load()
		before = s0.db
		nextTx := int64(len(s0.history))

		result := make(chan updateResult, 1)
		go func() {
			g, err := update(before.Graph, nextTx)
			result <- updateResult{g: g, err: err}
		}()

		var r updateResult
		select {
		case <-ctx.Done():
			return nil, nil, ErrTransactionTimeout
		case r = <-result:
		}
		if r.err != nil {
			return nil, nil, r.err
		}

		after = &Database{
			Graph:     r.g,
			History:   append([]*Database(nil), s0.history...),
			Timestamp: now(),
			T:         before.T + 1,
		}
		newHistory := append(append([]*Database(nil), s0.history...), after)

		if c.cell.CompareAndSwap(s0, &state{db: after, history: newHistory}) {
			return before, after, nil
		}
		// lost the race: another transaction committed first, retry.
	}
}

type updateResult struct {
	g   graph.Graph
	err error
}

// AsOf returns the database that was current at transaction t, per the
// connection's full history (see the free function AsOf).
func (c *Connection) AsOf(t int64) (*Database, error) {
	h, err := c.History()
	if err != nil {
		return nil, err
	}
	return AsOf(h, t), nil
}

// AsOfInstant returns the database that was current at wall-clock instant
// t, per the connection's full history (see the free function
// AsOfInstant).
func (c *Connection) AsOfInstant(t time.Time) (*Database, error) {
	h, err := c.History()
	if err != nil {
		return nil, err
	}
	return AsOfInstant(h, t), nil
}

// Since returns the first database strictly newer than t, per the
// connection's full history (see the free function Since).
func (c *Connection) Since(t time.Time) (*Database, bool, error) {
	h, err := c.History()
	if err != nil {
		return nil, false, err
	}
	d, ok := Since(h, t)
	return d, ok, nil
}

// Release marks the connection closed. Further operations fail with
// ErrDatabaseClosed.
func (c *Connection) Release() {
	c.closed.Store(true)
}

// Reset empties the connection's history and re-seeds it with a fresh
// empty database at transaction 0, matching the registry's `delete`
// operation (spec.md §4.I): a full wipe, not a release.
func (c *Connection) Reset(empty graph.Graph) {
	initial := &Database{Graph: empty, Timestamp: now(), T: 0}
	c.cell.Store(&state{db: initial, history: []*Database{initial}})
	c.closed.Store(false)
}

// Package registry implements spec.md §4.I's process-wide connection
// directory: the create/connect/release/delete operations that resolve a
// "sys:<kind>://<name>" URI to a shared *conn.Connection.
package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/roach88/veritas/internal/conn"
	"github.com/roach88/veritas/internal/durable"
	"github.com/roach88/veritas/internal/graph"
	"github.com/roach88/veritas/internal/ir"
)

// Registry is a process-wide directory of named connections, keyed by
// URI name. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	conns   map[string]*conn.Connection
	kinds   map[string]Kind
	stores  map[string]durable.Store
	baseDir string
}

// New returns an empty, in-memory-only registry: durable-kind connections
// created against it fall back to a plain Simple graph with no on-disk
// log, since there is no directory to put one in.
func New() *Registry {
	return &Registry{
		conns:  make(map[string]*conn.Connection),
		kinds:  make(map[string]Kind),
		stores: make(map[string]durable.Store),
	}
}

// NewWithStorage returns a registry that backs durable-kind connections
// with a SQLite transaction log at baseDir/<name>.db, replayed at
// creation time so a connection's history survives process restarts.
func NewWithStorage(baseDir string) *Registry {
	r := New()
	r.baseDir = baseDir
	return r
}

func emptyGraph(k Kind) graph.Graph {
	if k == KindMulti {
		return graph.NewMulti()
	}
	return graph.NewSimple()
}

// openDurable opens (or creates) the SQLite log for name and replays its
// records into a fresh Connection by re-running each transaction through
// the ordinary Transact protocol, so the rebuilt connection's History is
// indistinguishable from one that committed those transactions live.
func (r *Registry) openDurable(name string) (*conn.Connection, durable.Store, error) {
	store, err := durable.OpenSQLite(filepath.Join(r.baseDir, name+".db"))
	if err != nil {
		return nil, nil, err
	}

	c := conn.New(graph.NewSimple())
	n, err := store.Len()
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	for offset := int64(1); offset <= n; offset++ {
		record, err := store.ReadAt(offset)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		_, asserted, retracted, err := durable.DecodeDiff(record)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		_, _, err = c.Transact(context.Background(), func(g graph.Graph, tx int64) (graph.Graph, error) {
			next, _, err := graph.Transact(g, asserted, retracted, tx)
			return next, err
		})
		if err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("registry: replay %s at offset %d: %w", name, offset, err)
		}
	}

	return c, store, nil
}

// Create registers a new, empty connection of the kind named by uri. It
// fails if a connection of that name already exists.
func (r *Registry) Create(uri string) (*conn.Connection, error) {
	u, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.conns[u.Name]; exists {
		return nil, fmt.Errorf("registry: connection %q already exists", u.Name)
	}

	if u.Kind == KindDurable && r.baseDir != "" {
		c, store, err := r.openDurable(u.Name)
		if err != nil {
			return nil, err
		}
		r.conns[u.Name] = c
		r.kinds[u.Name] = u.Kind
		r.stores[u.Name] = store
		return c, nil
	}

	c := conn.New(emptyGraph(u.Kind))
	r.conns[u.Name] = c
	r.kinds[u.Name] = u.Kind
	return c, nil
}

// Connect returns the named connection if it already exists, otherwise
// creates and registers a new simple-graph connection under that name
// (spec.md §4.I: connect never fails on a fresh name, regardless of the
// kind the caller asked for).
func (r *Registry) Connect(uri string) (*conn.Connection, error) {
	u, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	c, exists := r.conns[u.Name]
	r.mu.RUnlock()
	if exists {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, exists := r.conns[u.Name]; exists {
		return c, nil
	}

	c = conn.New(graph.NewSimple())
	r.conns[u.Name] = c
	r.kinds[u.Name] = KindSimple
	return c, nil
}

// Transact applies adds and deletes as one transaction against the named
// connection. If the connection is durable-backed, the resulting diff is
// appended to its transaction log and forced durable before returning.
func (r *Registry) Transact(uri string, adds, deletes []ir.Triple) (*conn.Database, error) {
	u, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	c, exists := r.conns[u.Name]
	store := r.stores[u.Name]
	r.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("registry: no connection named %q", u.Name)
	}

	var diff graph.Diff
	_, after, err := c.Transact(context.Background(), func(g graph.Graph, tx int64) (graph.Graph, error) {
		next, d, err := graph.Transact(g, adds, deletes, tx)
		diff = d
		return next, err
	})
	if err != nil {
		return nil, err
	}

	if store != nil {
		payload, err := durable.EncodeDiff(after.T, diff)
		if err != nil {
			return nil, err
		}
		if _, err := store.Append(payload); err != nil {
			return nil, err
		}
		if err := store.Force(); err != nil {
			return nil, err
		}
	}

	return after, nil
}

// Release removes the named connection from the registry and invokes its
// cleanup hook. Subsequent Connect calls for the same name start fresh.
func (r *Registry) Release(uri string) error {
	u, err := ParseURI(uri)
	if err != nil {
		return err
	}

	r.mu.Lock()
	c, exists := r.conns[u.Name]
	store := r.stores[u.Name]
	if exists {
		delete(r.conns, u.Name)
		delete(r.kinds, u.Name)
		delete(r.stores, u.Name)
	}
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("registry: no connection named %q", u.Name)
	}
	c.Release()
	if store != nil {
		return store.Close()
	}
	return nil
}

// Delete empties the named connection's history and resets its
// timestamp, without removing it from the registry (the connection
// remains reachable under the same name, now holding an empty graph at
// tx 0). A durable-backed connection keeps its on-disk log: the next
// Transact call appends after it, rather than truncating history.
func (r *Registry) Delete(uri string) error {
	u, err := ParseURI(uri)
	if err != nil {
		return err
	}

	r.mu.RLock()
	c, exists := r.conns[u.Name]
	kind := r.kinds[u.Name]
	r.mu.RUnlock()
	if !exists {
		return fmt.Errorf("registry: no connection named %q", u.Name)
	}

	c.Reset(emptyGraph(kind))
	return nil
}

// Shutdown releases every registered connection and empties the
// registry, for use at process exit.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	conns := r.conns
	stores := r.stores
	r.conns = make(map[string]*conn.Connection)
	r.kinds = make(map[string]Kind)
	r.stores = make(map[string]durable.Store)
	r.mu.Unlock()

	for _, c := range conns {
		c.Release()
	}
	for _, s := range stores {
		s.Close()
	}
}

package graph

import (
	"github.com/roach88/veritas/internal/index"
	"github.com/roach88/veritas/internal/ir"
)

// Simple is a Graph with set semantics: a triple is either asserted or
// not. Re-adding an already-present triple is a no-op; any Delete removes
// it outright regardless of how many times it was (redundantly) added.
type Simple struct {
	spo, pos, osp *index.Level
	clock         *ir.StatementClock
}

func (*Simple) graphNode() {}

// NewSimple returns an empty Simple graph.
func NewSimple() *Simple {
	return &Simple{spo: index.New(), pos: index.New(), osp: index.New(), clock: ir.NewStatementClock()}
}

func (g *Simple) SPO() *index.Level { return g.spo }
func (g *Simple) POS() *index.Level { return g.pos }
func (g *Simple) OSP() *index.Level { return g.osp }

func (g *Simple) Count(t ir.Triple) int {
	if _, ok := g.spo.Get(t.S, t.P, t.O); ok {
		return 1
	}
	return 0
}

func (g *Simple) Add(t ir.Triple, tx int64) (Graph, int64, bool, error) {
	if _, ok := g.spo.Get(t.S, t.P, t.O); ok {
		return g, 0, false, nil
	}

	id := g.clock.Next()
	spo, _ := g.spo.Add(t.S, t.P, t.O, tx, id)
	pos, _ := g.pos.Add(t.P, t.O, t.S, tx, id)
	osp, _ := g.osp.Add(t.O, t.S, t.P, tx, id)

	return &Simple{spo: spo, pos: pos, osp: osp, clock: g.clock}, id, true, nil
}

func (g *Simple) Delete(t ir.Triple, tx int64) (Graph, bool, error) {
	if _, ok := g.spo.Get(t.S, t.P, t.O); !ok {
		return g, false, nil
	}

	id := g.clock.Next()
	spo, ok := g.spo.Delete(t.S, t.P, t.O, tx, id)
	if !ok {
		return g, false, nil
	}
	pos, _ := g.pos.Delete(t.P, t.O, t.S, tx, id)
	osp, _ := g.osp.Delete(t.O, t.S, t.P, tx, id)

	return &Simple{spo: spo, pos: pos, osp: osp, clock: g.clock}, true, nil
}

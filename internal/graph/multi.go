package graph

import (
	"github.com/roach88/veritas/internal/index"
	"github.com/roach88/veritas/internal/ir"
)

// Multi is a Graph with multiset semantics: the same triple can be
// asserted more than once, and each Add/Delete moves its assertion count
// by exactly one. The triple is considered present while Count is
// positive.
type Multi struct {
	spo, pos, osp *index.Level
	clock         *ir.StatementClock
}

func (*Multi) graphNode() {}

// NewMulti returns an empty Multi graph.
func NewMulti() *Multi {
	return &Multi{spo: index.New(), pos: index.New(), osp: index.New(), clock: ir.NewStatementClock()}
}

func (g *Multi) SPO() *index.Level { return g.spo }
func (g *Multi) POS() *index.Level { return g.pos }
func (g *Multi) OSP() *index.Level { return g.osp }

func (g *Multi) Count(t ir.Triple) int {
	m, ok := g.spo.Get(t.S, t.P, t.O)
	if !ok {
		return 0
	}
	return m.Count
}

func (g *Multi) Add(t ir.Triple, tx int64) (Graph, int64, bool, error) {
	id := g.clock.Next()
	spo, _ := g.spo.Add(t.S, t.P, t.O, tx, id)
	pos, _ := g.pos.Add(t.P, t.O, t.S, tx, id)
	osp, _ := g.osp.Add(t.O, t.S, t.P, tx, id)

	return &Multi{spo: spo, pos: pos, osp: osp, clock: g.clock}, id, true, nil
}

func (g *Multi) Delete(t ir.Triple, tx int64) (Graph, bool, error) {
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

	return &Multi{spo: spo, pos: pos, osp: osp, clock: g.clock}, true, nil
}

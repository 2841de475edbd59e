package resolve

import (
	"iter"

	"github.com/roach88/veritas/internal/graph"
	"github.com/roach88/veritas/internal/ir"
)

// TransitiveOp distinguishes the two transitive pattern operators the
// query language supports on an edge: Plus requires one or more hops,
// Star additionally includes the start node itself (zero hops).
type TransitiveOp int

const (
	Plus TransitiveOp = iota
	Star
)

// TransitivePattern is a pattern over a fixed predicate where the object
// position is reached by following Pred edges repeatedly rather than
// matching a single hop: [?x pred+ ?y] or [?x pred* ?y].
type TransitivePattern struct {
	S, O Term
	Pred ir.Value
	Op   TransitiveOp
}

// ResolveTransitive yields one Binding per node reachable from the bound
// endpoint by following Pred edges, in the direction implied by which of
// S/O is already bound. A visited set guards each traversal against
// cycles: once a node has been yielded it is never revisited, so a cyclic
// graph still terminates and never yields a duplicate.
//
// If neither S nor O is bound, every subject in the graph (a node with at
// least one outgoing edge of any predicate) is tried as a start in turn,
// and under Star each such start is also paired with itself; this is the
// expensive case and callers that can bind an endpoint first should do so.
func ResolveTransitive(g graph.Graph, p TransitivePattern, in Binding) iter.Seq[Binding] {
	sv, sBound := resolveTerm(p.S, in)
	ov, oBound := resolveTerm(p.O, in)

	return func(yield func(Binding) bool) {
		switch {
		case sBound && !oBound:
			walkForward(g, p.Pred, sv, p.Op, func(reached ir.Value) bool {
				out, ok := bind(p.S, sv, in)
				if !ok {
					return true
				}
				out, ok = bind(p.O, reached, out)
				if !ok {
					return true
				}
				return yield(out)
			})
		case oBound && !sBound:
			walkBackward(g, p.Pred, ov, p.Op, func(reached ir.Value) bool {
				out, ok := bind(p.O, ov, in)
				if !ok {
					return true
				}
				out, ok = bind(p.S, reached, out)
				if !ok {
					return true
				}
				return yield(out)
			})
		case sBound && oBound:
			reachable := false
			walkForward(g, p.Pred, sv, p.Op, func(reached ir.Value) bool {
				if valueEqual(reached, ov) {
					reachable = true
					return false
				}
				return true
			})
			if !reachable {
				return
			}
			out, ok := bind(p.S, sv, in)
			if !ok {
				return
			}
			out, ok = bind(p.O, ov, out)
			if !ok {
				return
			}
			yield(out)
		default:
			for _, start := range g.SPO().FirstKeys() {
				cont := true
				walkForward(g, p.Pred, start, p.Op, func(reached ir.Value) bool {
					out, ok := bind(p.S, start, in)
					if !ok {
						return true
					}
					out, ok = bind(p.O, reached, out)
					if !ok {
						return true
					}
					cont = yield(out)
					return cont
				})
				if !cont {
					return
				}
			}
		}
	}
}

// walkForward visits nodes reachable from start by following Pred edges
// subject-to-object. For Star, start itself is visited first (zero hops).
func walkForward(g graph.Graph, pred, start ir.Value, op TransitiveOp, visit func(ir.Value) bool) {
	seen := map[ir.Value]bool{}
	var frontier []ir.Value
	if op == Star {
		seen[start] = true
		if !visit(start) {
			return
		}
	}
	frontier = []ir.Value{start}

	for len(frontier) > 0 {
		var next []ir.Value
		for _, node := range frontier {
			for o := range g.SPO().ThirdKeys(node, pred) {
				if seen[o] {
					continue
				}
				seen[o] = true
				if !visit(o) {
					return
				}
				next = append(next, o)
			}
		}
		frontier = next
	}
}

// walkBackward mirrors walkForward against the POS rotation (keyed pred,
// object, subject), following Pred edges object-to-subject: it answers
// "what can reach end".
func walkBackward(g graph.Graph, pred, end ir.Value, op TransitiveOp, visit func(ir.Value) bool) {
	seen := map[ir.Value]bool{}
	var frontier []ir.Value
	if op == Star {
		seen[end] = true
		if !visit(end) {
			return
		}
	}
	frontier = []ir.Value{end}

	for len(frontier) > 0 {
		var next []ir.Value
		for _, node := range frontier {
			for s := range g.POS().ThirdKeys(pred, node) {
				if seen[s] {
					continue
				}
				seen[s] = true
				if !visit(s) {
					return
				}
				next = append(next, s)
			}
		}
		frontier = next
	}
}

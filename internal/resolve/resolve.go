package resolve

import (
	"iter"

	"github.com/roach88/veritas/internal/graph"
	"github.com/roach88/veritas/internal/index"
	"github.com/roach88/veritas/internal/ir"
)

// Resolve answers pattern against g given the variables already bound in
// in, yielding one extended Binding per matching triple. It picks one of
// g's three index rotations based on which of the pattern's slots are
// already bound (by a Const, or by a Var present in in), so a query that
// binds, say, the subject before resolving predicate/object walks exactly
// the SPO subtree under that subject rather than scanning the whole graph.
func Resolve(g graph.Graph, pattern Pattern, in Binding) iter.Seq[Binding] {
	sv, sBound := resolveTerm(pattern.S, in)
	pv, pBound := resolveTerm(pattern.P, in)
	ov, oBound := resolveTerm(pattern.O, in)

	return func(yield func(Binding) bool) {
		switch {
		case sBound && pBound && oBound:
			resolveSPOExact(g, pattern, sv, pv, ov, in, yield)
		case sBound && pBound && !oBound:
			resolveTwoBound(g.SPO(), pattern.S, pattern.P, pattern.O, sv, pv, in, yield)
		case sBound && !pBound && oBound:
			resolveTwoBound(g.OSP(), pattern.O, pattern.S, pattern.P, ov, sv, in, yield)
		case !sBound && pBound && oBound:
			resolveTwoBound(g.POS(), pattern.P, pattern.O, pattern.S, pv, ov, in, yield)
		case sBound && !pBound && !oBound:
			resolveOneBound(g.SPO(), pattern.S, pattern.P, pattern.O, sv, in, yield)
		case !sBound && pBound && !oBound:
			resolveOneBound(g.POS(), pattern.P, pattern.O, pattern.S, pv, in, yield)
		case !sBound && !pBound && oBound:
			resolveOneBound(g.OSP(), pattern.O, pattern.S, pattern.P, ov, in, yield)
		default:
			resolveNoneBound(g.SPO(), pattern.S, pattern.P, pattern.O, in, yield)
		}
	}
}

func resolveSPOExact(g graph.Graph, p Pattern, s, pred, o ir.Value, in Binding, yield func(Binding) bool) {
	if g.Count(ir.Triple{S: s, P: pred, O: o}) <= 0 {
		return
	}
	out, ok := bind(p.S, s, in)
	if !ok {
		return
	}
	out, ok = bind(p.P, pred, out)
	if !ok {
		return
	}
	out, ok = bind(p.O, o, out)
	if !ok {
		return
	}
	yield(out)
}

// resolveTwoBound walks rotation's third level directly under the two
// already-known first/second keys, binding terms in (firstTerm,
// secondTerm, thirdTerm) order against (firstVal, secondVal, each third
// key).
func resolveTwoBound(rotation *index.Level, firstTerm, secondTerm, thirdTerm Term, firstVal, secondVal ir.Value, in Binding, yield func(Binding) bool) {
	for third := range rotation.ThirdKeys(firstVal, secondVal) {
		out, ok := bind(firstTerm, firstVal, in)
		if !ok {
			continue
		}
		out, ok = bind(secondTerm, secondVal, out)
		if !ok {
			continue
		}
		out, ok = bind(thirdTerm, third, out)
		if !ok {
			continue
		}
		if !yield(out) {
			return
		}
	}
}

// resolveOneBound walks rotation under the single known first key,
// enumerating both the second and third levels.
func resolveOneBound(rotation *index.Level, firstTerm, secondTerm, thirdTerm Term, firstVal ir.Value, in Binding, yield func(Binding) bool) {
	for _, second := range rotation.SecondKeys(firstVal) {
		for third := range rotation.ThirdKeys(firstVal, second) {
			out, ok := bind(firstTerm, firstVal, in)
			if !ok {
				continue
			}
			out, ok = bind(secondTerm, second, out)
			if !ok {
				continue
			}
			out, ok = bind(thirdTerm, third, out)
			if !ok {
				continue
			}
			if !yield(out) {
				return
			}
		}
	}
}

// resolveNoneBound enumerates the whole of rotation.
func resolveNoneBound(rotation *index.Level, firstTerm, secondTerm, thirdTerm Term, in Binding, yield func(Binding) bool) {
	for _, first := range rotation.FirstKeys() {
		for _, second := range rotation.SecondKeys(first) {
			for third := range rotation.ThirdKeys(first, second) {
				out, ok := bind(firstTerm, first, in)
				if !ok {
					continue
				}
				out, ok = bind(secondTerm, second, out)
				if !ok {
					continue
				}
				out, ok = bind(thirdTerm, third, out)
				if !ok {
					continue
				}
				if !yield(out) {
					return
				}
			}
		}
	}
}

// EstimateCount gives the planner a rough, non-authoritative cost estimate
// for resolving pattern against g, used to order a multi-pattern query's
// joins from most to least selective. An all-wildcard pattern (no slot
// bound) is the worst case; rather than walk the whole graph to count it
// exactly, the estimate is the product of the number of distinct first
// keys in two different rotations, a cheap over-estimate that still ranks
// below any pattern that binds at least one slot.
func EstimateCount(g graph.Graph, pattern Pattern, in Binding) int {
	sv, sBound := resolveTerm(pattern.S, in)
	pv, pBound := resolveTerm(pattern.P, in)
	ov, oBound := resolveTerm(pattern.O, in)

	switch {
	case sBound && pBound && oBound:
		return g.Count(ir.Triple{S: sv, P: pv, O: ov})
	case sBound && pBound:
		return len(g.SPO().ThirdKeys(sv, pv))
	case sBound && oBound:
		return len(g.OSP().ThirdKeys(ov, sv))
	case pBound && oBound:
		return len(g.POS().ThirdKeys(pv, ov))
	case sBound:
		return estimateOneBound(g.SPO(), sv)
	case pBound:
		return estimateOneBound(g.POS(), pv)
	case oBound:
		return estimateOneBound(g.OSP(), ov)
	default:
		return len(g.SPO().FirstKeys()) * len(g.OSP().FirstKeys())
	}
}

func estimateOneBound(rotation *index.Level, first ir.Value) int {
	count := 0
	for _, second := range rotation.SecondKeys(first) {
		count += len(rotation.ThirdKeys(first, second))
	}
	return count
}

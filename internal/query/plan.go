package query

import (
	"fmt"
	"sort"

	"github.com/roach88/veritas/internal/graph"
	"github.com/roach88/veritas/internal/resolve"
)

// Plan reorders q.Where into an execution order: clauses whose variable
// dependencies are already satisfied are scheduled as soon as possible
// (pushing Filter/Not/Bind down to right after the pattern that supplies
// their variables), and among several Pattern/Transitive clauses that
// could run next, the one with the lowest resolve.EstimateCount against
// g — the most selective, since count_triple on a pattern's constant
// slots is cheaper to walk the fewer triples it matches — runs first.
// Returns an error wrapping ErrUnknownClauses, with the number of
// unschedulable clauses, if some
// clause's dependency is never satisfied by any other clause.
func Plan(g graph.Graph, q Query) ([]Clause, error) {
	bound := map[resolve.Variable]bool{}
	for _, spec := range q.In {
		for _, name := range namesOf(spec) {
			bound[name] = true
		}
	}
	in := scalarBinding(q.In)

	remaining := append([]Clause(nil), q.Where...)
	var scheduled []Clause

	for len(remaining) > 0 {
		progressed := false
		var readyOther, readyPattern []int

		for i, c := range remaining {
			if !isSubset(requiresOf(c), bound) {
				continue
			}
			switch c.(type) {
			case Pattern, Transitive:
				readyPattern = append(readyPattern, i)
			default:
				readyOther = append(readyOther, i)
			}
		}

		var pick int
		switch {
		case len(readyOther) > 0:
			pick = readyOther[0]
			progressed = true
		case len(readyPattern) > 0:
			sort.SliceStable(readyPattern, func(a, b int) bool {
				return selectivityEstimate(g, remaining[readyPattern[a]], in, bound) < selectivityEstimate(g, remaining[readyPattern[b]], in, bound)
			})
			pick = readyPattern[0]
			progressed = true
		}

		if !progressed {
			return nil, unknownClausesError(remaining)
		}

		c := remaining[pick]
		scheduled = append(scheduled, c)
		for v := range bindsOf(c) {
			bound[v] = true
		}
		remaining = append(remaining[:pick], remaining[pick+1:]...)
	}

	return scheduled, nil
}

func isSubset(req map[resolve.Variable]bool, bound map[resolve.Variable]bool) bool {
	for v := range req {
		if !bound[v] {
			return false
		}
	}
	return true
}

func unknownClausesError(remaining []Clause) error {
	return fmt.Errorf("%w: %d clause(s) could not be scheduled", ErrUnknownClauses, len(remaining))
}

// selectivityEstimate ranks a ready Pattern/Transitive by expected result
// size, lower meaning more selective. Pattern delegates to
// resolve.EstimateCount against the values actually known at plan time
// (q.In's scalar bindings; a Var bound by an earlier-scheduled clause has
// no concrete value yet, so it counts as unbound for this estimate, same
// as an all-wildcard pattern). Transitive has no closed-form cost model,
// so it falls back to counting bound slots, scaled by the graph's
// distinct-subject count to stay comparable in magnitude to a real
// EstimateCount.
func selectivityEstimate(g graph.Graph, c Clause, in resolve.Binding, bound map[resolve.Variable]bool) int {
	switch node := c.(type) {
	case Pattern:
		return resolve.EstimateCount(g, node.P, in)
	case Transitive:
		unbound := 2 - boundSlots(c, bound)
		return unbound * (len(g.SPO().FirstKeys()) + 1)
	default:
		return 0
	}
}

// boundSlots counts how many of a Pattern/Transitive's slots are either a
// Const or a Var already in bound — the static selectivity signal used to
// order same-readiness patterns.
func boundSlots(c Clause, bound map[resolve.Variable]bool) int {
	termBound := func(t resolve.Term) bool {
		switch term := t.(type) {
		case resolve.Const:
			return true
		case resolve.Var:
			return term.Name != resolve.Wildcard && bound[term.Name]
		default:
			return false
		}
	}
	switch node := c.(type) {
	case Pattern:
		n := 0
		for _, t := range []resolve.Term{node.P.S, node.P.P, node.P.O} {
			if termBound(t) {
				n++
			}
		}
		return n
	case Transitive:
		n := 0
		for _, t := range []resolve.Term{node.P.S, node.P.O} {
			if termBound(t) {
				n++
			}
		}
		return n
	default:
		return 0
	}
}

// requiresOf returns the variables c reads but does not itself bind,
// which must be bound by some earlier-scheduled clause.
func requiresOf(c Clause) map[resolve.Variable]bool {
	out := map[resolve.Variable]bool{}
	switch node := c.(type) {
	case Not:
		for v := range clauseVars(node.Inner) {
			out[v] = true
		}
	case Filter:
		for v := range exprVars(node.Expr) {
			out[v] = true
		}
	case Bind:
		for v := range exprVars(node.Expr) {
			out[v] = true
		}
	}
	return out
}

// bindsOf returns the variables c binds when scheduled.
func bindsOf(c Clause) map[resolve.Variable]bool {
	out := map[resolve.Variable]bool{}
	switch node := c.(type) {
	case Pattern:
		addTermVar(out, node.P.S)
		addTermVar(out, node.P.P)
		addTermVar(out, node.P.O)
	case Transitive:
		addTermVar(out, node.P.S)
		addTermVar(out, node.P.O)
	case Bind:
		out[node.Var] = true
	case Or:
		for _, alt := range node.Alternatives {
			for v := range bindsOf(alt) {
				out[v] = true
			}
		}
	case SubQuery:
		for _, v := range findVars(node.Inner.Find) {
			out[v] = true
		}
	}
	return out
}

func addTermVar(out map[resolve.Variable]bool, t resolve.Term) {
	if v, ok := t.(resolve.Var); ok && v.Name != resolve.Wildcard {
		out[v.Name] = true
	}
}

// clauseVars returns every variable referenced anywhere within c
// (recursively for Not/Or/SubQuery), used to compute Not's dependencies.
func clauseVars(c Clause) map[resolve.Variable]bool {
	out := map[resolve.Variable]bool{}
	switch node := c.(type) {
	case Pattern:
		addTermVar(out, node.P.S)
		addTermVar(out, node.P.P)
		addTermVar(out, node.P.O)
	case Transitive:
		addTermVar(out, node.P.S)
		addTermVar(out, node.P.O)
	case Not:
		for v := range clauseVars(node.Inner) {
			out[v] = true
		}
	case Or:
		for _, alt := range node.Alternatives {
			for v := range clauseVars(alt) {
				out[v] = true
			}
		}
	case Filter:
		for v := range exprVars(node.Expr) {
			out[v] = true
		}
	case Bind:
		out[node.Var] = true
		for v := range exprVars(node.Expr) {
			out[v] = true
		}
	case SubQuery:
		for _, c := range node.Inner.Where {
			for v := range clauseVars(c) {
				out[v] = true
			}
		}
	}
	return out
}

func exprVars(e Expr) map[resolve.Variable]bool {
	out := map[resolve.Variable]bool{}
	var walk func(Expr)
	walk = func(e Expr) {
		switch node := e.(type) {
		case Ref:
			out[node.Var] = true
		case BinOp:
			walk(node.Left)
			walk(node.Right)
		case Call:
			for _, a := range node.Args {
				walk(a)
			}
		}
	}
	walk(e)
	return out
}

func findVars(f Find) []resolve.Variable {
	projVar := func(p Projected) resolve.Variable {
		switch node := p.(type) {
		case PlainVar:
			return node.Var
		case Aggregate:
			return node.Var
		default:
			return ""
		}
	}
	switch node := f.(type) {
	case Scalar:
		return []resolve.Variable{projVar(node.Item)}
	case Tuple:
		vars := make([]resolve.Variable, len(node.Items))
		for i, it := range node.Items {
			vars[i] = projVar(it)
		}
		return vars
	case Coll:
		return []resolve.Variable{projVar(node.Item)}
	case Relation:
		vars := make([]resolve.Variable, len(node.Items))
		for i, it := range node.Items {
			vars[i] = projVar(it)
		}
		return vars
	default:
		return nil
	}
}

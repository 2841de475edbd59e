package graph

import "github.com/roach88/veritas/internal/ir"

// SubjectDiff is the set of subjects whose p->o sub-map differs between two
// graphs, as reported by DiffGraphs.
type SubjectDiff map[ir.Value]bool

// DiffGraphs compares two graphs of the same kind and reports the set of
// subjects whose p->o sub-map differs between a and b — a subject with a
// predicate/object pair added, removed, or recounted in either direction.
// Used by conn to describe what a transaction changed between two Database
// snapshots. Returns an *IncompatibleGraphsError if a and b are different
// Graph implementations.
func DiffGraphs(a, b Graph) (SubjectDiff, error) {
	if err := checkSameKind(a, b); err != nil {
		return nil, err
	}

	subjects := map[ir.Value]bool{}
	for _, s := range a.SPO().FirstKeys() {
		subjects[s] = true
	}
	for _, s := range b.SPO().FirstKeys() {
		subjects[s] = true
	}

	diff := SubjectDiff{}
	for s := range subjects {
		if !submapsEqual(subjectSubmap(a, s), subjectSubmap(b, s)) {
			diff[s] = true
		}
	}
	return diff, nil
}

// subjectSubmap builds s's p->o->count sub-map out of g's SPO index.
func subjectSubmap(g Graph, s ir.Value) map[ir.Value]map[ir.Value]int {
	spo := g.SPO()
	out := map[ir.Value]map[ir.Value]int{}
	for _, p := range spo.SecondKeys(s) {
		objs := make(map[ir.Value]int)
		for o, m := range spo.ThirdKeys(s, p) {
			objs[o] = m.Count
		}
		out[p] = objs
	}
	return out
}

// submapsEqual reports whether two p->o->count sub-maps hold exactly the
// same predicates, objects, and counts.
func submapsEqual(a, b map[ir.Value]map[ir.Value]int) bool {
	if len(a) != len(b) {
		return false
	}
	for p, aObjs := range a {
		bObjs, ok := b[p]
		if !ok || len(aObjs) != len(bObjs) {
			return false
		}
		for o, count := range aObjs {
			if bObjs[o] != count {
				return false
			}
		}
	}
	return true
}

package entity

import (
	"fmt"
	"sort"

	"github.com/roach88/veritas/internal/graph"
	"github.com/roach88/veritas/internal/ir"
	"github.com/roach88/veritas/internal/resolve"
)

// Materialize reconstructs e's full attribute set from g into a nested
// Go value: map[string]any for an ordinary entity, []any for a cons-list
// entity, a bare scalar/nil for a sentinel value. Node-valued attributes
// are recursively materialized; a node already under expansion on the
// current path is replaced by a placeholder (see placeholder) rather than
// re-entered, so a cyclic reference graph still terminates.
func Materialize(g graph.Graph, e ir.Value) (any, error) {
	return materialize(g, e, map[ir.Value]bool{}, true)
}

// MaterializeFlat is Materialize with non-nested mode: any child node
// itself flagged as an entity (:a/entity true) is replaced by a
// placeholder instead of being expanded, even on its first encounter.
// Useful for rendering a shallow, one-level view of a densely
// cross-referenced graph.
func MaterializeFlat(g graph.Graph, e ir.Value) (any, error) {
	return materialize(g, e, map[ir.Value]bool{}, false)
}

func materialize(g graph.Graph, e ir.Value, seen map[ir.Value]bool, nested bool) (any, error) {
	next := cloneSeen(seen)
	next[e] = true

	props, err := directAttributes(g, e)
	if err != nil {
		return nil, fmt.Errorf("entity: materialize %v: %w", e, err)
	}
	for attr := range props {
		if isInternalAttr(attr) {
			delete(props, attr)
		}
	}

	if firstKeys := findFirstAttrs(props); len(firstKeys) > 0 {
		return materializeCons(g, props, firstKeys, next, nested)
	}
	if typeVals, ok := props[AttrType]; ok && len(typeVals) == 1 && typeVals[0] == AttrList {
		return []any{}, nil
	}
	return materializeMap(g, props, next, nested)
}

// directAttributes groups e's outgoing (attr, value) edges by attribute,
// answering spec.md §4.G step 1's "resolve(e, ?, ?)".
func directAttributes(g graph.Graph, e ir.Value) (map[ir.Value][]ir.Value, error) {
	pattern := resolve.Pattern{
		S: resolve.Const{Value: e},
		P: resolve.Var{Name: "a"},
		O: resolve.Var{Name: "v"},
	}
	out := map[ir.Value][]ir.Value{}
	for b := range resolve.Resolve(g, pattern, resolve.Binding{}) {
		out[b["a"]] = append(out[b["a"]], b["v"])
	}
	return out, nil
}

func findFirstAttrs(props map[ir.Value][]ir.Value) []ir.Keyword {
	var keys []ir.Keyword
	for attr := range props {
		if kw, ok := attr.(ir.Keyword); ok && isFirstAttr(kw) {
			keys = append(keys, kw)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// materializeCons expands a cons-cell entity into an ordered slice: the
// cell's :a/first* value(s), in key order, followed by whatever the
// recursively-materialized :a/rest tail contributes (spliced in if it is
// itself a list, appended as a single element otherwise, dropped if the
// tail is the nil sentinel).
func materializeCons(g graph.Graph, props map[ir.Value][]ir.Value, firstKeys []ir.Keyword, seen map[ir.Value]bool, nested bool) ([]any, error) {
	var head []any
	for _, k := range firstKeys {
		v, err := materializeMulti(g, props[k], seen, nested)
		if err != nil {
			return nil, err
		}
		head = append(head, v)
	}

	restVals, ok := props[AttrRest]
	if !ok || len(restVals) == 0 {
		return head, nil
	}
	tail, err := materializeValue(g, restVals[0], seen, nested)
	if err != nil {
		return nil, err
	}
	switch t := tail.(type) {
	case nil:
		return head, nil
	case []any:
		return append(head, t...), nil
	default:
		return append(head, t), nil
	}
}

func materializeMap(g graph.Graph, props map[ir.Value][]ir.Value, seen map[ir.Value]bool, nested bool) (map[string]any, error) {
	out := make(map[string]any, len(props))
	for attr, vals := range props {
		key := attrKey(attr)
		v, err := materializeMulti(g, vals, seen, nested)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func attrKey(attr ir.Value) string {
	if kw, ok := attr.(ir.Keyword); ok {
		return kw.String()
	}
	return fmt.Sprintf("%v", attr)
}

// materializeMulti collapses same-attribute multiplicity: a single value
// materializes to a scalar, more than one to a canonically-ordered slice
// (documented as a set — see DESIGN.md's Open Question decision on
// materializer ordering).
func materializeMulti(g graph.Graph, vals []ir.Value, seen map[ir.Value]bool, nested bool) (any, error) {
	if len(vals) == 1 {
		return materializeValue(g, vals[0], seen, nested)
	}
	sorted := ir.SortByCanonical(vals)
	out := make([]any, 0, len(sorted))
	for _, v := range sorted {
		mv, err := materializeValue(g, v, seen, nested)
		if err != nil {
			return nil, err
		}
		out = append(out, mv)
	}
	return out, nil
}

func materializeValue(g graph.Graph, v ir.Value, seen map[ir.Value]bool, nested bool) (any, error) {
	switch val := v.(type) {
	case ir.Keyword:
		switch val {
		case AttrNil:
			return nil, nil
		case AttrEmptyList:
			return []any{}, nil
		default:
			return val.String(), nil
		}
	case ir.Node:
		if seen[val] {
			return placeholder(g, val), nil
		}
		if !nested && isEntityFlagged(g, val) {
			return placeholder(g, val), nil
		}
		return materialize(g, val, seen, nested)
	default:
		return toNative(v), nil
	}
}

// placeholder stands in for a node whose expansion was suppressed (cycle
// or non-nested entity boundary): {"db/ident": ident} if the node carries
// one, {"db/id": <external form>} otherwise.
func placeholder(g graph.Graph, n ir.Node) map[string]any {
	if ident, ok := identOf(g, n, AttrDBIdent); ok {
		return map[string]any{"db/ident": toNative(ident)}
	}
	return map[string]any{"db/id": n.String()}
}

func isEntityFlagged(g graph.Graph, n ir.Value) bool {
	return g.Count(ir.Triple{S: n, P: AttrEntity, O: ir.Bool(true)}) > 0
}

// toNative converts a leaf ir.Value to the corresponding plain Go value
// used in a materialized document, so callers get string/int64/float64/
// bool/time.Time rather than having to import package ir themselves.
func toNative(v ir.Value) any {
	switch val := v.(type) {
	case ir.String:
		return string(val)
	case ir.Int:
		return int64(val)
	case ir.Float:
		return float64(val)
	case ir.Bool:
		return bool(val)
	case ir.Time:
		return val.Time()
	case ir.Nil:
		return nil
	case ir.Keyword:
		return val.String()
	case ir.Node:
		return val.String()
	default:
		return v
	}
}

func cloneSeen(seen map[ir.Value]bool) map[ir.Value]bool {
	next := make(map[ir.Value]bool, len(seen)+1)
	for k, v := range seen {
		next[k] = v
	}
	return next
}

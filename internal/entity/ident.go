package entity

import (
	"github.com/roach88/veritas/internal/graph"
	"github.com/roach88/veritas/internal/ir"
	"github.com/roach88/veritas/internal/resolve"
)

// ResolveIdent accepts either an internal Node or a user-facing identifier
// (a :db/ident or :id attribute value) and returns the underlying Node it
// names. Lookup order: ident itself, if it is a Node with at least one
// triple in g; then reverse lookup by :db/ident; then reverse lookup by
// :id. Returns ok=false if none match.
func ResolveIdent(g graph.Graph, ident ir.Value) (ir.Node, bool) {
	if n, ok := ident.(ir.Node); ok && presentInGraph(g, n) {
		return n, true
	}
	if v, ok := reverseLookup(g, AttrDBIdent, ident); ok {
		if n, ok := v.(ir.Node); ok {
			return n, true
		}
	}
	if v, ok := reverseLookup(g, AttrID, ident); ok {
		if n, ok := v.(ir.Node); ok {
			return n, true
		}
	}
	return ir.Node{}, false
}

// presentInGraph reports whether n appears anywhere in g, as either a
// subject or an object of some triple.
func presentInGraph(g graph.Graph, n ir.Value) bool {
	return len(g.SPO().SecondKeys(n)) > 0 || len(g.OSP().SecondKeys(n)) > 0
}

// reverseLookup finds the subject e such that (e, attr, val) is asserted
// in g, returning e. Used by ResolveIdent to walk a user-facing
// identifier back to the node that carries it.
func reverseLookup(g graph.Graph, attr, val ir.Value) (ir.Value, bool) {
	pattern := resolve.Pattern{
		S: resolve.Var{Name: "e"},
		P: resolve.Const{Value: attr},
		O: resolve.Const{Value: val},
	}
	for b := range resolve.Resolve(g, pattern, resolve.Binding{}) {
		return b["e"], true
	}
	return nil, false
}

// identOf returns e's forward attr value (e.g. its :db/ident), the mirror
// direction of reverseLookup, used when rendering a placeholder for a
// suppressed node expansion.
func identOf(g graph.Graph, e ir.Value, attr ir.Value) (ir.Value, bool) {
	pattern := resolve.Pattern{
		S: resolve.Const{Value: e},
		P: resolve.Const{Value: attr},
		O: resolve.Var{Name: "v"},
	}
	for b := range resolve.Resolve(g, pattern, resolve.Binding{}) {
		return b["v"], true
	}
	return nil, false
}

package query

import (
	"github.com/roach88/veritas/internal/ir"
	"github.com/roach88/veritas/internal/resolve"
)

// Query is a complete find/where specification: Find says how to project
// solved rows, Where is the list of clauses that solve them, In optionally
// seeds starting bindings (e.g. external parameters supplied by a caller
// rather than resolved from the graph), and With names extra variables
// that join the grouping identity of an aggregate Find without appearing
// in its output — used to distinguish otherwise-identical rows for
// counting.
type Query struct {
	Find  Find
	Where []Clause
	In    []InputSpec
	With  []resolve.Variable

	// Env supplies the ambient environment Filter/Bind expressions
	// consult for a Call.Func outside the built-in safelist, merged with
	// any FunctionInput entries in In.
	Env EvalEnv
}

// Result holds whichever one of its fields corresponds to the Query's
// Find kind: Scalar for query.Scalar, Tuple for query.Tuple, Coll for
// query.Coll, Rows for query.Relation.
type Result struct {
	Scalar ir.Value
	Tuple  []ir.Value
	Coll   []ir.Value
	Rows   [][]ir.Value
}

package query

import "github.com/roach88/veritas/internal/resolve"

// Clause is a sealed interface: one term of a query's where-clause list.
// Clause types:
//   - Pattern: a single (s, p, o) or transitive match against the graph.
//   - Not: the wrapped clause must have zero solutions for the current
//     row (negation-as-failure; row variables it would bind must already
//     be bound elsewhere).
//   - Or: at least one alternative clause must match; alternatives may
//     bind different variables, and a row produced by a branch that
//     didn't bind one of the union's variables leaves that column nil.
//   - Filter: keeps only rows where Expr evaluates to a true Bool.
//   - Bind: extends each row with Var bound to Expr's value.
//   - SubQuery: runs a nested Query per row, merging its find-bindings
//     back in (used for per-group aggregation).
type Clause interface {
	clauseNode()
}

// Pattern matches a single triple pattern.
type Pattern struct {
	P resolve.Pattern
}

func (Pattern) clauseNode() {}

// Transitive matches a transitive-closure pattern (pred+ / pred*).
type Transitive struct {
	P resolve.TransitivePattern
}

func (Transitive) clauseNode() {}

// Not requires that Inner have no solutions extending the current row.
type Not struct {
	Inner Clause
}

func (Not) clauseNode() {}

// Or requires at least one of Alternatives to match; the planner treats
// the union of every alternative's bound variables as bound once Or is
// scheduled, since any one branch may be the one that actually fired.
type Or struct {
	Alternatives []Clause
}

func (Or) clauseNode() {}

// Filter keeps rows for which Expr evaluates to Bool(true).
type Filter struct {
	Expr Expr
}

func (Filter) clauseNode() {}

// Bind extends each row with Var bound to Expr's evaluated value.
type Bind struct {
	Var  resolve.Variable
	Expr Expr
}

func (Bind) clauseNode() {}

// SubQuery runs Inner once per outer row (with the outer row's bindings
// as its starting bindings) and merges each solution's find-variables
// back into the outer row.
type SubQuery struct {
	Inner Query
}

func (SubQuery) clauseNode() {}

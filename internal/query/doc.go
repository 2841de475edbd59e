// Package query implements the declarative multi-pattern query language
// evaluated over a graph.Graph: a sealed Clause AST (Pattern, Not, Or,
// Filter, Bind, SubQuery), a selectivity-ordered planner, a row-oriented
// executor built on package resolve's lazy pattern iterators, and the
// find-projection variants (scalar, tuple, collection, relation) including
// simple aggregation.
//
// Expressions used in Filter and Bind clauses are restricted to a fixed
// safelist of operators and functions (see expr.go), plus any Go
// functions the caller supplies through EvalEnv or a FunctionInput (and,
// with EvalEnv.Unsafe, its Fallback); there is no general eval.
package query

package query

import "errors"

// ErrMissingClause is returned when a Query has an empty Where list: a
// find spec with nothing to resolve it is always a mistake, never a
// valid "match everything" query.
var ErrMissingClause = errors.New("query: missing clause")

// ErrUnknownClauses is returned when the planner cannot schedule one or
// more clauses because their variable dependencies are never satisfied by
// any other clause (e.g. a Filter referencing a variable no Pattern
// binds).
var ErrUnknownClauses = errors.New("query: unknown clause dependency")

// ErrIllegalAggregate is returned when a Find spec names an aggregate
// function over a variable that is also listed as a plain (non-aggregated)
// find variable, or when an aggregate is requested outside a Relation/
// Scalar find.
var ErrIllegalAggregate = errors.New("query: illegal aggregate")

// ErrUnsupportedOperation is returned by Eval for an expression node,
// operator, or function outside the Filter/Bind safelist.
var ErrUnsupportedOperation = errors.New("query: unsupported operation")

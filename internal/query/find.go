package query

import "github.com/roach88/veritas/internal/resolve"

// Projected is a single column of a Find projection: either a plain
// variable reference or an aggregate applied to one.
type Projected interface {
	projectedNode()
}

// PlainVar projects a variable's value unchanged.
type PlainVar struct {
	Var resolve.Variable
}

func (PlainVar) projectedNode() {}

// AggFunc is the safelist of supported aggregate functions.
type AggFunc string

const (
	AggCount         AggFunc = "count"
	AggCountDistinct AggFunc = "count-distinct"
	AggSum           AggFunc = "sum"
	AggAvg           AggFunc = "avg"
	AggMin           AggFunc = "min"
	AggMax           AggFunc = "max"
)

// Aggregate projects the result of applying Func to Var's values across
// every row in a group (see grouping rules in project.go).
type Aggregate struct {
	Func AggFunc
	Var  resolve.Variable
}

func (Aggregate) projectedNode() {}

// Find is a sealed interface selecting how solved rows are projected into
// a result: Scalar collapses to a single value (callers asserting at most
// one row), Tuple projects one ordered row, Coll flattens one column
// across all rows into a deduplicated set, and Relation projects a full
// table of rows, with group-by-the-non-aggregate-columns semantics when
// any column is an Aggregate.
type Find interface {
	findNode()
}

// Scalar expects at most one solved row and projects Item from it.
type Scalar struct {
	Item Projected
}

func (Scalar) findNode() {}

// Tuple expects exactly one solved row and projects Items from it, in
// order.
type Tuple struct {
	Items []Projected
}

func (Tuple) findNode() {}

// Coll flattens Item's value across every solved row into a deduplicated,
// canonically-ordered set.
type Coll struct {
	Item Projected
}

func (Coll) findNode() {}

// Relation projects Items across every solved row (or every group, if any
// Item is an Aggregate), ordered column by column by canonical encoding.
// Plain rows are deduplicated; aggregate rows come one per group, so rows
// that differ only in a With variable stay separate.
type Relation struct {
	Items []Projected
}

func (Relation) findNode() {}

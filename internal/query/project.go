package query

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/roach88/veritas/internal/ir"
	"github.com/roach88/veritas/internal/resolve"
)

// project applies f to rows, producing the Result variant matching f's
// kind. with names extra variables folded into an aggregate's grouping
// identity without appearing in the projected output.
func project(f Find, with []resolve.Variable, rows []resolve.Binding) (Result, error) {
	switch node := f.(type) {
	case Scalar:
		if hasAggregate([]Projected{node.Item}) {
			vals, err := projectRelation([]Projected{node.Item}, with, rows)
			if err != nil {
				return Result{}, err
			}
			if len(vals) == 0 {
				return Result{}, nil
			}
			return Result{Scalar: vals[0][0]}, nil
		}
		v, err := projectOne(node.Item, rows)
		if err != nil {
			return Result{}, err
		}
		return Result{Scalar: v}, nil

	case Tuple:
		if len(rows) == 0 {
			return Result{}, nil
		}
		vals := make([]ir.Value, len(node.Items))
		for i, item := range node.Items {
			v, err := projectedValue(item, rows[0])
			if err != nil {
				return Result{}, err
			}
			vals[i] = v
		}
		return Result{Tuple: vals}, nil

	case Coll:
		var vals []ir.Value
		for _, row := range rows {
			v, err := projectedValue(node.Item, row)
			if err != nil {
				return Result{}, err
			}
			vals = append(vals, v)
		}
		return Result{Coll: dedupCanonical(vals)}, nil

	case Relation:
		rel, err := projectRelation(node.Items, with, rows)
		if err != nil {
			return Result{}, err
		}
		return Result{Rows: rel}, nil

	default:
		return Result{}, fmt.Errorf("query: %w: find %T", ErrUnsupportedOperation, f)
	}
}

// projectOne returns item's value from the single expected row. More than
// one distinct row is not an error (callers commonly over-constrain with
// find-scalar for convenience); the first row wins.
func projectOne(item Projected, rows []resolve.Binding) (ir.Value, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	return projectedValue(item, rows[0])
}

func projectedValue(p Projected, row resolve.Binding) (ir.Value, error) {
	switch node := p.(type) {
	case PlainVar:
		return row[node.Var], nil
	case Aggregate:
		return nil, fmt.Errorf("query: %w: aggregate %q used outside a grouped projection", ErrIllegalAggregate, node.Func)
	default:
		return nil, fmt.Errorf("query: %w: projected column %T", ErrUnsupportedOperation, p)
	}
}

// projectRelation groups rows by their non-aggregate Items (the group-by
// key) when any Item is an Aggregate, computing each aggregate over the
// group's values; with no Aggregate present, it is a plain deduplicated
// projection of Items across rows. withVars extends the grouping key
// (distinguishing otherwise-identical rows for counting) without joining
// the output itself.
func projectRelation(items []Projected, withVars []resolve.Variable, rows []resolve.Binding) ([][]ir.Value, error) {
	if !hasAggregate(items) {
		out := make([][]ir.Value, 0, len(rows))
		for _, row := range rows {
			vals := make([]ir.Value, len(items))
			for i, item := range items {
				v, err := projectedValue(item, row)
				if err != nil {
					return nil, err
				}
				vals[i] = v
			}
			out = append(out, vals)
		}
		return dedupRows(out), nil
	}

	for _, item := range items {
		if agg, ok := item.(Aggregate); ok {
			for _, other := range items {
				if plain, ok := other.(PlainVar); ok && plain.Var == agg.Var {
					return nil, fmt.Errorf("query: %w: %q used both plain and aggregated", ErrIllegalAggregate, agg.Var)
				}
			}
		}
	}

	type group struct {
		key  []ir.Value
		rows []resolve.Binding
	}
	var groups []*group
	index := map[string]*group{}

	groupKeyIndexes := make([]int, 0, len(items))
	for i, item := range items {
		if _, ok := item.(PlainVar); ok {
			groupKeyIndexes = append(groupKeyIndexes, i)
		}
	}

	for _, row := range rows {
		key := make([]ir.Value, len(groupKeyIndexes))
		for i, idx := range groupKeyIndexes {
			v, err := projectedValue(items[idx], row)
			if err != nil {
				return nil, err
			}
			key[i] = v
		}
		withKey := make([]ir.Value, len(withVars))
		for i, v := range withVars {
			withKey[i] = row[v]
		}
		keyStr := fmt.Sprintf("%v|%v", key, withKey)
		g, ok := index[keyStr]
		if !ok {
			g = &group{key: key}
			index[keyStr] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, row)
	}

	out := make([][]ir.Value, 0, len(groups))
	for _, g := range groups {
		vals := make([]ir.Value, len(items))
		keyPos := 0
		for i, item := range items {
			switch node := item.(type) {
			case PlainVar:
				vals[i] = g.key[keyPos]
				keyPos++
			case Aggregate:
				v, err := computeAggregate(node, g.rows)
				if err != nil {
					return nil, err
				}
				vals[i] = v
			}
		}
		out = append(out, vals)
	}
	return sortRows(out), nil
}

func computeAggregate(agg Aggregate, rows []resolve.Binding) (ir.Value, error) {
	switch agg.Func {
	case AggCount:
		return ir.Int(len(rows)), nil
	case AggCountDistinct:
		var vals []ir.Value
		for _, row := range rows {
			vals = append(vals, row[agg.Var])
		}
		return ir.Int(len(dedupCanonical(vals))), nil
	case AggSum:
		var sum int64
		for _, row := range rows {
			v, ok := row[agg.Var].(ir.Int)
			if !ok {
				return nil, fmt.Errorf("query: %w: sum over non-Int variable %q", ErrIllegalAggregate, agg.Var)
			}
			sum += int64(v)
		}
		return ir.Int(sum), nil
	case AggAvg:
		var sum float64
		for _, row := range rows {
			switch v := row[agg.Var].(type) {
			case ir.Int:
				sum += float64(v)
			case ir.Float:
				sum += float64(v)
			default:
				return nil, fmt.Errorf("query: %w: avg over non-numeric variable %q", ErrIllegalAggregate, agg.Var)
			}
		}
		return ir.Float(sum / float64(len(rows))), nil
	case AggMin, AggMax:
		var best ir.Value
		for _, row := range rows {
			v := row[agg.Var]
			if best == nil {
				best = v
				continue
			}
			ordered, err := compareOrdered(OpLt, v, best)
			if err != nil {
				return nil, err
			}
			lessThanBest := bool(ordered.(ir.Bool))
			if (agg.Func == AggMin && lessThanBest) || (agg.Func == AggMax && !lessThanBest && v != best) {
				best = v
			}
		}
		return best, nil
	default:
		return nil, fmt.Errorf("query: %w: aggregate function %q", ErrUnsupportedOperation, agg.Func)
	}
}

func hasAggregate(items []Projected) bool {
	for _, item := range items {
		if _, ok := item.(Aggregate); ok {
			return true
		}
	}
	return false
}

func dedupCanonical(vals []ir.Value) []ir.Value {
	seen := map[ir.Value]bool{}
	var out []ir.Value
	for _, v := range vals {
		if v == nil || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return ir.SortByCanonical(out)
}

func dedupRows(rows [][]ir.Value) [][]ir.Value {
	seen := map[string]bool{}
	var out [][]ir.Value
	for _, row := range rows {
		key := fmt.Sprintf("%v", row)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, row)
	}
	return sortRows(out)
}

// sortRows orders rows column by column by canonical encoding; values
// with no canonical form (nil, Float) tie with each other and sort first.
func sortRows(rows [][]ir.Value) [][]ir.Value {
	sort.SliceStable(rows, func(i, j int) bool {
		for k := range rows[i] {
			a, _ := ir.MarshalCanonical(rows[i][k])
			b, _ := ir.MarshalCanonical(rows[j][k])
			if c := bytes.Compare(a, b); c != 0 {
				return c < 0
			}
		}
		return false
	})
	return rows
}

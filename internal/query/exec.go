package query

import (
	"fmt"

	"github.com/roach88/veritas/internal/graph"
	"github.com/roach88/veritas/internal/ir"
	"github.com/roach88/veritas/internal/resolve"
)

// Execute plans and runs q against g, returning the projected Result.
func Execute(g graph.Graph, q Query) (Result, error) {
	if len(q.Where) == 0 {
		return Result{}, ErrMissingClause
	}

	plan, err := Plan(g, q)
	if err != nil {
		return Result{}, err
	}

	rows, err := seedRows(q.In)
	if err != nil {
		return Result{}, err
	}

	env := q.Env
	if fromIn := envFromInputs(q.In); len(fromIn) > 0 {
		if env.Functions == nil {
			env.Functions = make(map[Function]UserFunc, len(fromIn))
		}
		for name, fn := range fromIn {
			env.Functions[name] = fn
		}
	}

	for _, c := range plan {
		rows, err = applyClause(g, c, rows, env)
		if err != nil {
			return Result{}, err
		}
		if len(rows) == 0 {
			break
		}
	}

	return project(q.Find, q.With, rows)
}

func applyClause(g graph.Graph, c Clause, rows []resolve.Binding, env EvalEnv) ([]resolve.Binding, error) {
	switch node := c.(type) {
	case Pattern:
		var out []resolve.Binding
		for _, row := range rows {
			for b := range resolve.Resolve(g, node.P, row) {
				out = append(out, b)
			}
		}
		return out, nil

	case Transitive:
		var out []resolve.Binding
		for _, row := range rows {
			for b := range resolve.ResolveTransitive(g, node.P, row) {
				out = append(out, b)
			}
		}
		return out, nil

	case Not:
		var out []resolve.Binding
		for _, row := range rows {
			matched, err := applyClause(g, node.Inner, []resolve.Binding{row}, env)
			if err != nil {
				return nil, err
			}
			if len(matched) == 0 {
				out = append(out, row)
			}
		}
		return out, nil

	case Or:
		var out []resolve.Binding
		for _, row := range rows {
			for _, alt := range node.Alternatives {
				matched, err := applyClause(g, alt, []resolve.Binding{row}, env)
				if err != nil {
					return nil, err
				}
				out = append(out, matched...)
			}
		}
		return out, nil

	case Filter:
		var out []resolve.Binding
		for _, row := range rows {
			v, err := EvalWithEnv(node.Expr, row, env)
			if err != nil {
				return nil, err
			}
			b, ok := v.(ir.Bool)
			if !ok {
				return nil, fmt.Errorf("query: %w: filter expression did not evaluate to Bool", ErrUnsupportedOperation)
			}
			if bool(b) {
				out = append(out, row)
			}
		}
		return out, nil

	case Bind:
		out := make([]resolve.Binding, 0, len(rows))
		for _, row := range rows {
			v, err := EvalWithEnv(node.Expr, row, env)
			if err != nil {
				return nil, err
			}
			next := row.Clone()
			next[node.Var] = v
			out = append(out, next)
		}
		return out, nil

	case SubQuery:
		var out []resolve.Binding
		for _, row := range rows {
			inner := node.Inner
			inner.In = append(append([]InputSpec(nil), node.Inner.In...), scalarInputsFromRow(row)...)
			res, err := Execute(g, inner)
			if err != nil {
				return nil, err
			}
			for _, merged := range mergeSubResult(row, node.Inner.Find, res) {
				out = append(out, merged)
			}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("query: %w: clause %T", ErrUnsupportedOperation, c)
	}
}

// mergeSubResult folds a SubQuery's Result back into the outer row, one
// merged row per sub-result row (or one if the sub-find collapses to a
// scalar/coll).
func mergeSubResult(row resolve.Binding, f Find, res Result) []resolve.Binding {
	vars := findVars(f)

	withVars := func(values []ir.Value) resolve.Binding {
		next := row.Clone()
		for i, v := range vars {
			if i < len(values) && v != "" {
				next[v] = values[i]
			}
		}
		return next
	}

	switch f.(type) {
	case Scalar:
		return []resolve.Binding{withVars([]ir.Value{res.Scalar})}
	case Tuple:
		return []resolve.Binding{withVars(res.Tuple)}
	case Coll:
		var out []resolve.Binding
		for _, v := range res.Coll {
			out = append(out, withVars([]ir.Value{v}))
		}
		return out
	case Relation:
		var out []resolve.Binding
		for _, r := range res.Rows {
			out = append(out, withVars(r))
		}
		return out
	default:
		return nil
	}
}

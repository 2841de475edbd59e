package query

import (
	"fmt"

	"github.com/roach88/veritas/internal/ir"
	"github.com/roach88/veritas/internal/resolve"
)

// InputSpec is a sealed interface for one :in binding form.
type InputSpec interface {
	inputNode()
}

// ScalarInput binds Name directly to Value — the ordinary `?x` case.
type ScalarInput struct {
	Name  resolve.Variable
	Value ir.Value
}

func (ScalarInput) inputNode() {}

// CollectionInput expands Values, a single input list, into one starting
// row per element, each binding Name to that element — `[?x ...]`. A
// query with more than one CollectionInput takes the cartesian product of
// their elements.
type CollectionInput struct {
	Name   resolve.Variable
	Values []ir.Value
}

func (CollectionInput) inputNode() {}

// TupleInput destructures a single input tuple positionally into Names —
// `[?x ?y]`. len(Values) must equal len(Names).
type TupleInput struct {
	Names  []resolve.Variable
	Values []ir.Value
}

func (TupleInput) inputNode() {}

// FunctionInput binds Name to a user-supplied function usable from a
// Filter/Bind expression as Call{Func: Function(Name)} — the `:in $ ?fn`
// positional form for supplying a function as a query input, an
// alternative to setting it directly in Query.Env.
type FunctionInput struct {
	Name resolve.Variable
	Func UserFunc
}

func (FunctionInput) inputNode() {}

// namesOf returns the variable names spec binds, used by Plan to seed the
// set of already-bound variables.
func namesOf(spec InputSpec) []resolve.Variable {
	switch node := spec.(type) {
	case ScalarInput:
		return []resolve.Variable{node.Name}
	case CollectionInput:
		return []resolve.Variable{node.Name}
	case TupleInput:
		return node.Names
	default:
		return nil
	}
}

// scalarInputsFromRow lifts an outer query's solved row into ScalarInputs
// for a SubQuery's inner Execute call, one per already-bound variable.
func scalarInputsFromRow(row resolve.Binding) []InputSpec {
	out := make([]InputSpec, 0, len(row))
	for name, v := range row {
		out = append(out, ScalarInput{Name: name, Value: v})
	}
	return out
}

// scalarBinding collects every ScalarInput's value into a Binding, the
// only concrete values known statically at plan time (Collection/Tuple
// inputs fan out into several rows, so they have no single value to give
// the planner's cost estimate).
func scalarBinding(in []InputSpec) resolve.Binding {
	out := resolve.Binding{}
	for _, spec := range in {
		if s, ok := spec.(ScalarInput); ok {
			out[s.Name] = s.Value
		}
	}
	return out
}

// seedRows expands in into Execute's starting rows: every ScalarInput and
// TupleInput extends each row in place, and every CollectionInput
// multiplies the row set by its element count, the cartesian product
// spec.md's inputs section describes for `[?x ...]` bindings.
func seedRows(in []InputSpec) ([]resolve.Binding, error) {
	rows := []resolve.Binding{resolve.Binding{}}
	for _, spec := range in {
		switch node := spec.(type) {
		case ScalarInput:
			for _, row := range rows {
				row[node.Name] = node.Value
			}
		case TupleInput:
			if len(node.Values) != len(node.Names) {
				return nil, fmt.Errorf("query: %w: tuple input has %d names but %d values", ErrUnsupportedOperation, len(node.Names), len(node.Values))
			}
			for _, row := range rows {
				for i, name := range node.Names {
					row[name] = node.Values[i]
				}
			}
		case CollectionInput:
			expanded := make([]resolve.Binding, 0, len(rows)*len(node.Values))
			for _, row := range rows {
				for _, v := range node.Values {
					next := row.Clone()
					next[node.Name] = v
					expanded = append(expanded, next)
				}
			}
			rows = expanded
		case FunctionInput:
			// Consumed separately by envFromInputs; contributes no row
			// binding of its own.
		default:
			return nil, fmt.Errorf("query: %w: input spec %T", ErrUnsupportedOperation, spec)
		}
	}
	return rows, nil
}

// envFromInputs collects every FunctionInput's binding into the
// Functions map an EvalEnv consults, the `:in $ ?fn` positional form for
// supplying a user function as a query input.
func envFromInputs(in []InputSpec) map[Function]UserFunc {
	out := map[Function]UserFunc{}
	for _, spec := range in {
		if f, ok := spec.(FunctionInput); ok {
			out[Function(f.Name)] = f.Func
		}
	}
	return out
}

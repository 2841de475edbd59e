package scenario

import (
	"fmt"

	"github.com/roach88/veritas/internal/ir"
)

// toExpectedValue converts a YAML-decoded scalar (string/int/bool/float,
// or {"ref": "label"}) to the ir.Value it denotes, resolving node
// references against syms.
func toExpectedValue(raw any, syms *symbolTable) (ir.Value, error) {
	switch v := raw.(type) {
	case string:
		return ir.String(v), nil
	case int:
		return ir.Int(int64(v)), nil
	case int64:
		return ir.Int(v), nil
	case float64:
		return ir.Float(v), nil
	case bool:
		return ir.Bool(v), nil
	case nil:
		return ir.Nil{}, nil
	case map[string]any:
		label, ok := v["ref"].(string)
		if !ok {
			return nil, fmt.Errorf("scenario: expected value map must have a string \"ref\" key, got %v", v)
		}
		return syms.node(label), nil
	default:
		return nil, fmt.Errorf("scenario: unsupported expected value type %T", raw)
	}
}

func toExpectedRow(raw []any, syms *symbolTable) ([]ir.Value, error) {
	out := make([]ir.Value, len(raw))
	for i, v := range raw {
		val, err := toExpectedValue(v, syms)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

func valuesEqual(a, b []ir.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// rowSetsEqual compares two row sets ignoring order (matching the
// engine's dedup-and-canonically-order contract for Coll/Relation
// results), requiring every row in want to appear exactly once in got and
// vice versa.
func rowSetsEqual(want, got [][]ir.Value) bool {
	if len(want) != len(got) {
		return false
	}
	remaining := append([][]ir.Value(nil), got...)
	for _, w := range want {
		found := -1
		for i, g := range remaining {
			if valuesEqual(w, g) {
				found = i
				break
			}
		}
		if found == -1 {
			return false
		}
		remaining = append(remaining[:found], remaining[found+1:]...)
	}
	return true
}

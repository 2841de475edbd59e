package graph

import (
	"errors"
	"fmt"
)

// ErrIncompatibleGraphs is returned when an operation is asked to combine
// two Graph values of different implementations (e.g. diffing a Simple
// against a Multi). Only the implementation is compared; two graphs of the
// same kind are never rejected, whatever their ancestry.
var ErrIncompatibleGraphs = errors.New("graph: incompatible graphs")

// IncompatibleGraphsError wraps ErrIncompatibleGraphs with the detail of
// which two kinds were involved, for diagnostics.
type IncompatibleGraphsError struct {
	Left, Right string
}

func (e *IncompatibleGraphsError) Error() string {
	return fmt.Sprintf("%v: %s vs %s", ErrIncompatibleGraphs, e.Left, e.Right)
}

func (e *IncompatibleGraphsError) Unwrap() error {
	return ErrIncompatibleGraphs
}

func kindOf(g Graph) string {
	switch g.(type) {
	case *Simple:
		return "Simple"
	case *Multi:
		return "Multi"
	default:
		return fmt.Sprintf("%T", g)
	}
}

// checkSameKind returns an *IncompatibleGraphsError if a and b are not the
// same concrete Graph implementation.
func checkSameKind(a, b Graph) error {
	if kindOf(a) != kindOf(b) {
		return &IncompatibleGraphsError{Left: kindOf(a), Right: kindOf(b)}
	}
	return nil
}

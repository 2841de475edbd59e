package scenario

import (
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/veritas/internal/graph"
	"github.com/roach88/veritas/internal/ir"
	"github.com/roach88/veritas/internal/query"
)

// Outcome is what running a Scenario produced: the executed query's
// Result and the Dataset it was run against (callers compare Result
// against the scenario's Expect, or snapshot it via RunWithGolden).
type Outcome struct {
	Dataset *Dataset
	Result  query.Result
}

// Run loads s.Dataset, seeds a fresh graph with its triples in one
// transaction, executes s.Query against it, and returns the outcome. It
// does not check s.Expect; see Check.
func Run(s *Scenario) (*Outcome, error) {
	data, err := os.ReadFile(s.Dataset)
	if err != nil {
		return nil, fmt.Errorf("scenario: read dataset %s: %w", s.Dataset, err)
	}

	ctx := cuecontext.New()
	cv := ctx.CompileBytes(data)
	ds, err := CompileDataset(cv)
	if err != nil {
		return nil, fmt.Errorf("scenario: compile dataset %s: %w", s.Dataset, err)
	}

	q, ok := ds.Queries[s.Query]
	if !ok {
		return nil, fmt.Errorf("scenario: dataset %s has no query %q", s.Dataset, s.Query)
	}

	var g graph.Graph
	if s.Graph == "multi" {
		g = graph.NewMulti()
	} else {
		g = graph.NewSimple()
	}
	g, _, err = graph.Transact(g, ds.Triples, nil, 1)
	if err != nil {
		return nil, fmt.Errorf("scenario: seed dataset %s: %w", s.Dataset, err)
	}

	result, err := query.Execute(g, q)
	if err != nil {
		return nil, fmt.Errorf("scenario: execute query %q: %w", s.Query, err)
	}

	return &Outcome{Dataset: ds, Result: result}, nil
}

// Check compares o.Result against s.Expect, returning an error describing
// the first mismatch.
func Check(s *Scenario, o *Outcome) error {
	switch {
	case s.Expect.Scalar != nil:
		want, err := toExpectedValue(s.Expect.Scalar, o.Dataset.Symbols)
		if err != nil {
			return err
		}
		if o.Result.Scalar != want {
			return fmt.Errorf("scenario %s: scalar mismatch: want %v, got %v", s.Name, want, o.Result.Scalar)
		}

	case s.Expect.Tuple != nil:
		want, err := toExpectedRow(s.Expect.Tuple, o.Dataset.Symbols)
		if err != nil {
			return err
		}
		if !valuesEqual(want, o.Result.Tuple) {
			return fmt.Errorf("scenario %s: tuple mismatch: want %v, got %v", s.Name, want, o.Result.Tuple)
		}

	case s.Expect.Coll != nil:
		want, err := toExpectedRow(s.Expect.Coll, o.Dataset.Symbols)
		if err != nil {
			return err
		}
		got := make([][]ir.Value, len(o.Result.Coll))
		for i, v := range o.Result.Coll {
			got[i] = []ir.Value{v}
		}
		wantRows := make([][]ir.Value, len(want))
		for i, v := range want {
			wantRows[i] = []ir.Value{v}
		}
		if !rowSetsEqual(wantRows, got) {
			return fmt.Errorf("scenario %s: coll mismatch: want %v, got %v", s.Name, want, o.Result.Coll)
		}

	case s.Expect.Rows != nil:
		var want [][]ir.Value
		for _, row := range s.Expect.Rows {
			r, err := toExpectedRow(row, o.Dataset.Symbols)
			if err != nil {
				return err
			}
			want = append(want, r)
		}
		if !rowSetsEqual(want, o.Result.Rows) {
			return fmt.Errorf("scenario %s: rows mismatch: want %v, got %v", s.Name, want, o.Result.Rows)
		}
	}

	return nil
}

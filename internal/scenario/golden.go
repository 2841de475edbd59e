package scenario

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/veritas/internal/ir"
)

// resultSnapshot converts a query.Result into a map[string]any suitable
// for canonical JSON serialization (ir.MarshalCanonical only understands
// ir types and Go primitives, so IDs and node values are rendered as
// their textual form for a stable snapshot).
func resultSnapshot(o *Outcome) map[string]any {
	m := map[string]any{}
	if o.Result.Scalar != nil {
		m["scalar"] = snapshotValue(o.Result.Scalar)
	}
	if o.Result.Tuple != nil {
		m["tuple"] = snapshotRow(o.Result.Tuple)
	}
	if o.Result.Coll != nil {
		row := make([]any, len(o.Result.Coll))
		for i, v := range o.Result.Coll {
			row[i] = snapshotValue(v)
		}
		m["coll"] = row
	}
	if o.Result.Rows != nil {
		rows := make([]any, len(o.Result.Rows))
		for i, r := range o.Result.Rows {
			rows[i] = snapshotRow(r)
		}
		m["rows"] = rows
	}
	return m
}

func snapshotRow(row []ir.Value) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = snapshotValue(v)
	}
	return out
}

func snapshotValue(v ir.Value) any {
	switch val := v.(type) {
	case ir.Node:
		return val.String()
	case ir.Keyword:
		return ":" + val.String()
	case ir.String:
		return string(val)
	case ir.Int:
		return int64(val)
	case ir.Float:
		return float64(val)
	case ir.Bool:
		return bool(val)
	case ir.Time:
		return val.Time().Format("2006-01-02T15:04:05.999999999Z")
	case ir.Nil:
		return nil
	default:
		return nil
	}
}

// RunWithGolden runs s and compares its result against
// testdata/golden/{s.Name}.golden via goldie, failing t if they differ.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
func RunWithGolden(t *testing.T, s *Scenario) {
	t.Helper()

	outcome, err := Run(s)
	if err != nil {
		t.Fatalf("scenario %s: %v", s.Name, err)
	}

	// json.Marshal on a map[string]any sorts keys alphabetically, giving a
	// deterministic byte sequence without needing ir.MarshalCanonical,
	// which only accepts a single scalar Value rather than a composite
	// structure.
	data, err := json.MarshalIndent(resultSnapshot(outcome), "", "  ")
	if err != nil {
		t.Fatalf("scenario %s: marshal snapshot: %v", s.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, data)
}

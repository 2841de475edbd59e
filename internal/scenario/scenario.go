package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a YAML-described conformance fixture: seed a graph from a
// CUE dataset, run one of its named queries, and assert the projected
// result matches Expect. Mirrors the teacher's harness.Scenario shape
// (name/description/specs/flow/assertions), retargeted at triples and
// queries instead of concept actions and traces.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Dataset is the path to a CUE dataset file, relative to the scenario
	// file's own directory.
	Dataset string `yaml:"dataset"`

	// Graph selects the value semantics the dataset is loaded into:
	// "simple" (default) or "multi".
	Graph string `yaml:"graph,omitempty"`

	// Query names the dataset query to execute.
	Query string `yaml:"query"`

	// Expect holds the expected projected result, one field populated
	// matching the query's find kind.
	Expect Expect `yaml:"expect"`
}

// Expect is a subset-free, exact match against query.Result: exactly one
// of its fields is populated, matching the executed query's Find kind.
// Node-valued entries may be written as {ref: "label"}, resolved against
// the dataset's own symbol table.
type Expect struct {
	Scalar any   `yaml:"scalar,omitempty"`
	Tuple  []any `yaml:"tuple,omitempty"`
	Coll   []any `yaml:"coll,omitempty"`
	Rows   [][]any `yaml:"rows,omitempty"`
}

// LoadScenario reads and strictly parses a scenario YAML file, resolving
// Dataset relative to path's own directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}

	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("scenario: parse %s: %w", path, err)
	}

	if err := validate(&s); err != nil {
		return nil, fmt.Errorf("scenario: invalid %s: %w", path, err)
	}

	if s.Dataset != "" && !filepath.IsAbs(s.Dataset) {
		s.Dataset = filepath.Join(filepath.Dir(path), s.Dataset)
	}

	return &s, nil
}

func validate(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Dataset == "" {
		return fmt.Errorf("dataset is required")
	}
	if s.Query == "" {
		return fmt.Errorf("query is required")
	}
	return nil
}

package scenario

import "github.com/roach88/veritas/internal/ir"

// symbolTable maps the human-readable node labels a dataset uses (e.g.
// "alice", "n1") to the opaque ir.Node identities resolve and graph
// operate on, allocating a fresh node the first time a label is seen.
type symbolTable struct {
	nodes map[string]ir.Node
}

func newSymbolTable() *symbolTable {
	return &symbolTable{nodes: make(map[string]ir.Node)}
}

func (s *symbolTable) node(label string) ir.Node {
	if n, ok := s.nodes[label]; ok {
		return n
	}
	n := ir.NewNode()
	s.nodes[label] = n
	return n
}

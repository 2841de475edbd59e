package ir

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Node is an opaque identity with no internal structure. Equality is by
// identity: two distinct allocations are never equal, even if every other
// observable property coincides.
//
// Node is comparable (wraps a fixed-size uuid.UUID), so it can be used
// directly as a map key throughout the index and graph layers.
type Node struct {
	id uuid.UUID
}

func (Node) irValue() {}

// NewNode allocates a fresh, globally unique node identity. Collisions
// across the life of a process do not occur (UUIDv4, 122 bits of entropy).
func NewNode() Node {
	return Node{id: uuid.New()}
}

// nodePrefix is the canonical textual prefix for a node's external
// representation, chosen to round-trip through ParseNode.
const nodePrefix = "_:"

// String renders the node's canonical external representation, e.g.
// "_:3c1c...". ParseNode(n.String()) always returns a Node equal to n.
func (n Node) String() string {
	return nodePrefix + n.id.String()
}

// ParseNode parses a node's canonical external representation as produced
// by Node.String(). Returns an error if s is not a well-formed node
// reference.
func ParseNode(s string) (Node, error) {
	if !strings.HasPrefix(s, nodePrefix) {
		return Node{}, fmt.Errorf("ir: %q is not a node reference (missing %q prefix)", s, nodePrefix)
	}
	id, err := uuid.Parse(strings.TrimPrefix(s, nodePrefix))
	if err != nil {
		return Node{}, fmt.Errorf("ir: parse node %q: %w", s, err)
	}
	return Node{id: id}, nil
}

// IsZero reports whether n is the zero-value Node (never allocated by
// NewNode). Useful for "not found" returns without an extra bool.
func (n Node) IsZero() bool {
	return n.id == uuid.Nil
}

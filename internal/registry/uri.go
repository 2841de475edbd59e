package registry

import (
	"fmt"
	"strings"
)

// Kind names the value-semantics a registered connection's graph uses.
// Durable additionally backs the connection with an append-only
// transaction log (see package durable); its graph value-semantics are
// otherwise Simple.
type Kind string

const (
	KindSimple  Kind = "simple-graph"
	KindMulti   Kind = "multi-graph"
	KindDurable Kind = "durable"
)

// kindAliases accepts both spelling conventions spec.md uses for the
// same three kinds (§4.I: simple-graph/multi-graph/durable; §6:
// mem-like/multi-like/durable).
var kindAliases = map[string]Kind{
	"simple-graph": KindSimple,
	"mem-like":     KindSimple,
	"multi-graph":  KindMulti,
	"multi-like":   KindMulti,
	"durable":      KindDurable,
}

// URI is a parsed "sys:<kind>://<name>" connection identifier.
type URI struct {
	Kind Kind
	Name string
}

func (u URI) String() string {
	return fmt.Sprintf("sys:%s://%s", u.Kind, u.Name)
}

// ParseURI parses raw as "sys:<kind>://<name>", failing with
// ErrUnknownURIScheme if it is not well-formed or names an unrecognized
// kind.
func ParseURI(raw string) (URI, error) {
	const schemePrefix = "sys:"
	if !strings.HasPrefix(raw, schemePrefix) {
		return URI{}, fmt.Errorf("%w: %q", ErrUnknownURIScheme, raw)
	}
	rest := strings.TrimPrefix(raw, schemePrefix)

	parts := strings.SplitN(rest, "://", 2)
	if len(parts) != 2 || parts[1] == "" {
		return URI{}, fmt.Errorf("%w: %q", ErrUnknownURIScheme, raw)
	}

	kind, ok := kindAliases[parts[0]]
	if !ok {
		return URI{}, fmt.Errorf("%w: %q", ErrUnknownURIScheme, raw)
	}

	return URI{Kind: kind, Name: parts[1]}, nil
}

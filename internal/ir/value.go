package ir

import (
	"fmt"
	"time"
)

// Value is the sealed interface implemented by every type that may occupy
// a triple's subject, predicate, or object slot: Node, Keyword, String,
// Int, Float, Bool, Time, and Nil. The marker method pattern (irValue)
// seals the interface to this package, enabling exhaustive type switches
// in every consumer (index, graph, resolve, query, entity).
type Value interface {
	irValue()
}

// Nil represents the literal nil value. Distinct from a Go nil interface,
// which indicates "no value" (e.g. an unbound query variable); Nil is
// itself a first-class value that can be asserted as a triple's object.
type Nil struct{}

func (Nil) irValue() {}

// String is a UTF-8 string literal.
type String string

func (String) irValue() {}

// Int is a signed 64-bit integer literal.
type Int int64

func (Int) irValue() {}

// Float is a 64-bit floating point literal. Unlike String/Int/Bool, Float
// is excluded from the canonical-hash path (see canonical.go): two
// floating point values that print identically may not compare bit-equal,
// so identity and dedup hashing never depend on them.
type Float float64

func (Float) irValue() {}

// Bool is a boolean literal.
type Bool bool

func (Bool) irValue() {}

// Time is an instant in time, stored as nanoseconds since the Unix epoch
// (UTC). A fixed-width integer representation is used rather than
// time.Time because time.Time's monotonic reading makes two instants that
// print identically compare unequal under ==; Value must remain directly
// comparable for use as an index map key.
type Time int64

func (Time) irValue() {}

// NewTime converts a time.Time to its Value representation, truncating the
// monotonic reading.
func NewTime(t time.Time) Time {
	return Time(t.UnixNano())
}

// Time converts back to a time.Time in UTC.
func (t Time) Time() time.Time {
	return time.Unix(0, int64(t)).UTC()
}

// Keyword is a namespaced symbol used as a predicate name or internal
// attribute marker (e.g. ":db/id", ":a/entity"). Keywords are ordinary
// values — any triple position may hold one — but by convention predicates
// are keywords.
type Keyword struct {
	value string
}

func (Keyword) irValue() {}

// NewKeyword creates a keyword from its textual form, conventionally
// "namespace/name" (e.g. "artist/name") or bare ("id").
func NewKeyword(s string) Keyword {
	return Keyword{value: s}
}

// String returns the keyword's textual form.
func (k Keyword) String() string {
	return k.value
}

// Namespace returns the portion of the keyword before the first '/', or
// "" if the keyword has no namespace.
func (k Keyword) Namespace() string {
	for i, r := range k.value {
		if r == '/' {
			return k.value[:i]
		}
	}
	return ""
}

// Name returns the portion of the keyword after the first '/', or the
// whole keyword if it has no namespace.
func (k Keyword) Name() string {
	for i, r := range k.value {
		if r == '/' {
			return k.value[i+1:]
		}
	}
	return k.value
}

// Triple is an (s, p, o) assertion. Subject, predicate, and object may each
// be any Value: nodes, literals, or keywords. Predicates are ordinary
// values; nothing prevents any value from occupying any position.
type Triple struct {
	S, P, O Value
}

// String renders the triple in "[s p o]" form, matching the external
// pattern syntax documented in spec.md §6.
func (t Triple) String() string {
	return fmt.Sprintf("[%s %s %s]", describeValue(t.S), describeValue(t.P), describeValue(t.O))
}

// describeValue renders a single Value for display.
func describeValue(v Value) string {
	switch val := v.(type) {
	case Node:
		return val.String()
	case Keyword:
		return ":" + val.String()
	case String:
		return fmt.Sprintf("%q", string(val))
	case Int:
		return fmt.Sprintf("%d", int64(val))
	case Float:
		return fmt.Sprintf("%g", float64(val))
	case Bool:
		return fmt.Sprintf("%t", bool(val))
	case Time:
		return val.Time().Format(time.RFC3339Nano)
	case Nil:
		return "nil"
	default:
		return fmt.Sprintf("%v", v)
	}
}

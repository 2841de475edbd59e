// Package graph implements an immutable value of asserted triples, indexed
// three ways (SPO, POS, OSP) so that any of the eight subject/predicate/
// object bound-or-wildcard pattern shapes can be resolved without a scan.
//
// Graph is a sealed interface with two implementations: Simple, which
// treats a duplicate Add as a no-op (set semantics), and Multi, which
// tracks an assertion count per triple so the same (s, p, o) can be
// independently asserted and retracted more than once (multiset
// semantics). Both share the same three-rotation index.Level storage.
package graph

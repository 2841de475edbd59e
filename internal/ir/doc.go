// Package ir defines the value model shared by every other package in
// veritas: the opaque Node identity, the sealed Value interface a triple's
// subject/predicate/object slots are drawn from, the Triple type itself,
// and the canonical byte encoding used to order values deterministically.
//
// This package contains types and pure functions only. All other internal
// packages import ir; ir imports nothing internal, keeping it the
// foundational, dependency-free layer.
package ir

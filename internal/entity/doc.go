// Package entity materializes a node's full attribute map out of a graph,
// recursively expanding any attribute value that is itself a node,
// detecting and flattening Lisp-style cons lists (a/first, a/rest)
// into ordinary slices, and resolving a :db/ident or :id value back to
// the node that carries it.
//
// Materialization is cycle-safe: a node reachable from itself through a
// chain of node-valued attributes is expanded once and referenced by
// identity thereafter, never recursed into a second time.
package entity

// Package index implements the persistent, copy-on-write three-level trie
// that backs each rotation (SPO, POS, OSP) of a graph's triple index.
//
// A Level is immutable once built: Add and Delete return a new root level,
// sharing every subtree untouched by the mutation with the original. This
// lets graph.Graph hold onto an old index value indefinitely (for as-of
// reads) while a newer one is built alongside it, with no copying beyond
// the O(depth) path that changed.
package index

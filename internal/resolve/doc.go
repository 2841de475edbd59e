// Package resolve answers a single triple pattern against a graph.Graph,
// and computes the transitive closure of a binary relation over it.
//
// Resolve dispatches on which of a pattern's three slots are already
// bound (a literal Value, or a Variable present in the incoming Binding)
// to pick whichever of the graph's three index rotations lets it walk
// straight to the matching subtree, never scanning a rotation it did not
// need. Results are produced lazily through a Go 1.23 range-over-func
// iterator, so a caller that only needs the first match, or that composes
// several patterns into a join, never forces more of the index than it
// consumes.
package resolve

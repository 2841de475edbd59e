package index

import "github.com/roach88/veritas/internal/ir"

// Meta is the metadata stored at a fully-indexed key path: the net
// assertion count (incremented by Add, decremented by Delete; a path with
// Count 0 is pruned, never retained), the transaction number that most
// recently changed the count, and the statement id (a sequence number
// drawn from ir.StatementClock) of the assertion that produced that change.
type Meta struct {
	Count int
	Tx    int64
	ID    int64
}

// Level is one level of a three-level persistent trie keyed by ir.Value.
// Interior levels (depth 1 and 2) populate children; the leaf level
// (depth 3) populates leaves. The zero Level is a valid empty level.
//
// A Level is never mutated after construction. Add and Delete always
// return a new *Level root; every unmodified subtree is shared with the
// value the call started from.
type Level struct {
	children map[ir.Value]*Level
	leaves   map[ir.Value]Meta
}

// New returns an empty Level, ready to hold entries at any depth.
func New() *Level {
	return &Level{}
}

// Get looks up the Meta stored at the path [a, b, c], returning ok=false
// if no such path is indexed.
func (l *Level) Get(a, b, c ir.Value) (Meta, bool) {
	if l == nil {
		return Meta{}, false
	}
	l2, ok := l.children[a]
	if !ok {
		return Meta{}, false
	}
	l3, ok := l2.children[b]
	if !ok {
		return Meta{}, false
	}
	m, ok := l3.leaves[c]
	return m, ok
}

// Add returns a new root with the path [a, b, c] present, its Meta set to
// the given tx and id and Count incremented by one (1 if the path was
// previously absent). The returned Meta is the value now stored at the
// path.
func (l *Level) Add(a, b, c ir.Value, tx, id int64) (*Level, Meta) {
	if l == nil {
		l = New()
	}
	l2 := l.children[a]
	if l2 == nil {
		l2 = New()
	}
	l3 := l2.children[b]
	if l3 == nil {
		l3 = New()
	}

	prev := l3.leaves[c]
	next := Meta{Count: prev.Count + 1, Tx: tx, ID: id}

	newL3 := l3.withLeaf(c, next)
	newL2 := l2.withChild(b, newL3)
	newL1 := l.withChild(a, newL2)

	return newL1, next
}

// Delete returns a new root with the path [a, b, c]'s count decremented by
// one at the given tx. If the count reaches zero the path (and any
// interior level left empty by its removal) is pruned entirely. ok is
// false, and the returned root is identical in content to l, if the path
// was not present (Count already 0 or never added) — deleting something
// not there is not a change.
func (l *Level) Delete(a, b, c ir.Value, tx, id int64) (*Level, bool) {
	if l == nil {
		return l, false
	}
	l2, ok := l.children[a]
	if !ok {
		return l, false
	}
	l3, ok := l2.children[b]
	if !ok {
		return l, false
	}
	prev, ok := l3.leaves[c]
	if !ok || prev.Count <= 0 {
		return l, false
	}

	remaining := prev.Count - 1
	var newL3 *Level
	if remaining <= 0 {
		newL3 = l3.withoutLeaf(c)
	} else {
		newL3 = l3.withLeaf(c, Meta{Count: remaining, Tx: tx, ID: id})
	}

	var newL2 *Level
	if newL3.empty() {
		newL2 = l2.withoutChild(b)
	} else {
		newL2 = l2.withChild(b, newL3)
	}

	var newL1 *Level
	if newL2.empty() {
		newL1 = l.withoutChild(a)
	} else {
		newL1 = l.withChild(a, newL2)
	}

	return newL1, true
}

func (l *Level) empty() bool {
	return l == nil || (len(l.children) == 0 && len(l.leaves) == 0)
}

// withChild returns a copy of l with children[k] set to v, sharing every
// other entry.
func (l *Level) withChild(k ir.Value, v *Level) *Level {
	n := &Level{children: make(map[ir.Value]*Level, len(l.children)+1)}
	for ck, cv := range l.children {
		n.children[ck] = cv
	}
	n.children[k] = v
	return n
}

func (l *Level) withoutChild(k ir.Value) *Level {
	if len(l.children) <= 1 {
		return New()
	}
	n := &Level{children: make(map[ir.Value]*Level, len(l.children)-1)}
	for ck, cv := range l.children {
		if ck == k {
			continue
		}
		n.children[ck] = cv
	}
	return n
}

// withLeaf returns a copy of l with leaves[k] set to m, sharing every
// other entry.
func (l *Level) withLeaf(k ir.Value, m Meta) *Level {
	n := &Level{leaves: make(map[ir.Value]Meta, len(l.leaves)+1)}
	for lk, lv := range l.leaves {
		n.leaves[lk] = lv
	}
	n.leaves[k] = m
	return n
}

func (l *Level) withoutLeaf(k ir.Value) *Level {
	if len(l.leaves) <= 1 {
		return New()
	}
	n := &Level{leaves: make(map[ir.Value]Meta, len(l.leaves)-1)}
	for lk, lv := range l.leaves {
		if lk == k {
			continue
		}
		n.leaves[lk] = lv
	}
	return n
}

// FirstKeys returns the keys present at depth 1.
func (l *Level) FirstKeys() []ir.Value {
	if l == nil {
		return nil
	}
	keys := make([]ir.Value, 0, len(l.children))
	for k := range l.children {
		keys = append(keys, k)
	}
	return keys
}

// SecondKeys returns the keys present at depth 2 under first key a.
func (l *Level) SecondKeys(a ir.Value) []ir.Value {
	if l == nil {
		return nil
	}
	l2, ok := l.children[a]
	if !ok {
		return nil
	}
	keys := make([]ir.Value, 0, len(l2.children))
	for k := range l2.children {
		keys = append(keys, k)
	}
	return keys
}

// ThirdKeys returns the keys (and their Meta) present at depth 3 under
// first key a, second key b.
func (l *Level) ThirdKeys(a, b ir.Value) map[ir.Value]Meta {
	if l == nil {
		return nil
	}
	l2, ok := l.children[a]
	if !ok {
		return nil
	}
	l3, ok := l2.children[b]
	if !ok {
		return nil
	}
	out := make(map[ir.Value]Meta, len(l3.leaves))
	for k, v := range l3.leaves {
		out[k] = v
	}
	return out
}

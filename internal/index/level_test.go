package index

import (
	"testing"

	"github.com/roach88/veritas/internal/ir"
	"github.com/stretchr/testify/assert"
)

func TestAddThenGet(t *testing.T) {
	l := New()
	a, b, c := ir.NewNode(), ir.NewKeyword("artist/name"), ir.String("Coltrane")

	l2, m := l.Add(a, b, c, 1000, 1)
	assert.Equal(t, 1, m.Count)

	got, ok := l2.Get(a, b, c)
	assert.True(t, ok)
	assert.Equal(t, m, got)
}

func TestAddDoesNotMutateOriginal(t *testing.T) {
	l := New()
	a, b, c := ir.NewNode(), ir.NewKeyword("artist/name"), ir.String("Coltrane")

	l2, _ := l.Add(a, b, c, 1000, 1)

	_, ok := l.Get(a, b, c)
	assert.False(t, ok, "original level must be untouched")

	_, ok = l2.Get(a, b, c)
	assert.True(t, ok)
}

func TestAddTwiceIncrementsCount(t *testing.T) {
	l := New()
	a, b, c := ir.NewNode(), ir.NewKeyword("artist/name"), ir.String("Coltrane")

	l, _ = l.Add(a, b, c, 1000, 1)
	l, m := l.Add(a, b, c, 1001, 2)

	assert.Equal(t, 2, m.Count)
	assert.Equal(t, int64(1001), m.Tx)
	assert.Equal(t, int64(2), m.ID)
}

func TestDeleteDecrementsThenPrunes(t *testing.T) {
	l := New()
	a, b, c := ir.NewNode(), ir.NewKeyword("artist/name"), ir.String("Coltrane")

	l, _ = l.Add(a, b, c, 1000, 1)
	l, _ = l.Add(a, b, c, 1001, 2)

	l, ok := l.Delete(a, b, c, 1002, 3)
	assert.True(t, ok)
	m, found := l.Get(a, b, c)
	assert.True(t, found)
	assert.Equal(t, 1, m.Count)

	l, ok = l.Delete(a, b, c, 1003, 4)
	assert.True(t, ok)
	_, found = l.Get(a, b, c)
	assert.False(t, found, "count reaching zero prunes the path")
}

func TestDeleteOfAbsentPathIsNoChange(t *testing.T) {
	l := New()
	a, b, c := ir.NewNode(), ir.NewKeyword("artist/name"), ir.String("Coltrane")

	_, ok := l.Delete(a, b, c, 1000, 1)
	assert.False(t, ok)
}

func TestDeletePrunesEmptyInteriorLevels(t *testing.T) {
	l := New()
	a, b, c := ir.NewNode(), ir.NewKeyword("artist/name"), ir.String("Coltrane")

	l, _ = l.Add(a, b, c, 1000, 1)
	l, _ = l.Delete(a, b, c, 1001, 2)

	assert.Empty(t, l.FirstKeys(), "pruning a sole leaf must also prune its now-empty parents")
}

func TestFirstSecondThirdKeys(t *testing.T) {
	l := New()
	a1 := ir.NewKeyword("artist/name")
	b1, b2 := ir.NewNode(), ir.NewNode()
	c1 := ir.String("Coltrane")

	l, _ = l.Add(a1, b1, c1, 1, 1)
	l, _ = l.Add(a1, b2, c1, 2, 2)

	assert.ElementsMatch(t, []ir.Value{a1}, l.FirstKeys())
	assert.ElementsMatch(t, []ir.Value{b1, b2}, l.SecondKeys(a1))
	third := l.ThirdKeys(a1, b1)
	assert.Len(t, third, 1)
	m, ok := third[c1]
	assert.True(t, ok)
	assert.Equal(t, 1, m.Count)
}

func TestStructuralSharingAcrossDistinctPaths(t *testing.T) {
	l := New()
	a := ir.NewKeyword("artist/name")
	b1, b2 := ir.NewNode(), ir.NewNode()
	c := ir.String("Coltrane")

	l1, _ := l.Add(a, b1, c, 1, 1)
	l2, _ := l1.Add(a, b2, c, 2, 2)

	// l1's path for b1 must still resolve after l2 is built from it.
	_, ok := l1.Get(a, b1, c)
	assert.True(t, ok)
	_, ok = l2.Get(a, b1, c)
	assert.True(t, ok)
	_, ok = l1.Get(a, b2, c)
	assert.False(t, ok, "l1 must not see mutations performed to build l2")
}

func TestGetOnNilLevel(t *testing.T) {
	var l *Level
	_, ok := l.Get(ir.NewNode(), ir.NewNode(), ir.NewNode())
	assert.False(t, ok)
}

package graph

import (
	"testing"

	"github.com/roach88/veritas/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTriple() ir.Triple {
	return ir.Triple{S: ir.NewNode(), P: ir.NewKeyword("artist/name"), O: ir.String("Coltrane")}
}

func TestSimpleAddThenCount(t *testing.T) {
	g := Graph(NewSimple())
	tr := sampleTriple()

	g2, id, changed, err := g.Add(tr, 1000)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, g2.Count(tr))
	assert.Equal(t, 0, g.Count(tr), "original graph must be unaffected")
}

func TestSimpleRedundantAddIsNoOp(t *testing.T) {
	g := Graph(NewSimple())
	tr := sampleTriple()

	g, _, _, err := g.Add(tr, 1000)
	require.NoError(t, err)
	g2, _, changed, err := g.Add(tr, 1001)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 1, g2.Count(tr))
}

func TestSimpleDelete(t *testing.T) {
	g := Graph(NewSimple())
	tr := sampleTriple()

	g, _, _, err := g.Add(tr, 1000)
	require.NoError(t, err)

	g, changed, err := g.Delete(tr, 1001)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0, g.Count(tr))
}

func TestSimpleDeleteAbsentIsNoChange(t *testing.T) {
	g := Graph(NewSimple())
	_, changed, err := g.Delete(sampleTriple(), 1000)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestMultiAddTwiceAccumulates(t *testing.T) {
	g := Graph(NewMulti())
	tr := sampleTriple()

	g, _, changed1, err := g.Add(tr, 1000)
	require.NoError(t, err)
	g, _, changed2, err := g.Add(tr, 1001)
	require.NoError(t, err)

	assert.True(t, changed1)
	assert.True(t, changed2, "Multi records a second assertion as a change")
	assert.Equal(t, 2, g.Count(tr))
}

func TestMultiDeleteDecrements(t *testing.T) {
	g := Graph(NewMulti())
	tr := sampleTriple()

	g, _, _, err := g.Add(tr, 1000)
	require.NoError(t, err)
	g, _, _, err = g.Add(tr, 1001)
	require.NoError(t, err)

	g, changed, err := g.Delete(tr, 1002)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, g.Count(tr))
}

func TestTransactBatchAppliesDeletesBeforeAdds(t *testing.T) {
	g := Graph(NewSimple())
	tr := sampleTriple()
	g, _, _, err := g.Add(tr, 1000)
	require.NoError(t, err)

	g2, diff, err := Transact(g, []ir.Triple{tr}, []ir.Triple{tr}, 1001)
	require.NoError(t, err)
	assert.Equal(t, 1, g2.Count(tr), "delete-then-add of the same triple in one tx nets to present")
	assert.Len(t, diff.Retracted, 1)
	assert.Len(t, diff.Added, 1)
}

func TestDiffGraphsAddedAndRetracted(t *testing.T) {
	a := Graph(NewSimple())
	common := sampleTriple()
	a, _, _, err := a.Add(common, 1000)
	require.NoError(t, err)

	onlyInA := sampleTriple()
	a, _, _, err = a.Add(onlyInA, 1001)
	require.NoError(t, err)

	b := a
	onlyInB := ir.Triple{S: onlyInA.S, P: ir.NewKeyword("artist/genre"), O: ir.String("jazz")}
	b, _, err = b.Delete(onlyInA, 1002)
	require.NoError(t, err)
	b, _, _, err = b.Add(onlyInB, 1003)
	require.NoError(t, err)

	diff, err := DiffGraphs(a, b)
	require.NoError(t, err)
	assert.True(t, diff[onlyInA.S], "the subject whose sub-map changed must be in the diff")
	assert.False(t, diff[common.S], "a subject untouched between a and b must not be in the diff")
}

func TestDiffGraphsRejectsMismatchedKinds(t *testing.T) {
	_, err := DiffGraphs(NewSimple(), NewMulti())
	assert.ErrorIs(t, err, ErrIncompatibleGraphs)
}

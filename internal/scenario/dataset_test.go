package scenario

import (
	"os"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/veritas/internal/ir"
)

func TestCompileDatasetParsesTriplesAndRefs(t *testing.T) {
	data, err := os.ReadFile("testdata/basic_join.cue")
	require.NoError(t, err)

	ctx := cuecontext.New()
	ds, err := CompileDataset(ctx.CompileBytes(data))
	require.NoError(t, err)

	require.Len(t, ds.Triples, 3)

	n1 := ds.Symbols.node("n1")
	n2 := ds.Symbols.node("n2")

	assert.Equal(t, ir.Triple{S: n1, P: ir.NewKeyword("artist/name"), O: ir.String("Paul")}, ds.Triples[0])
	assert.Equal(t, ir.Triple{S: n2, P: ir.NewKeyword("release/artists"), O: n1}, ds.Triples[1])
	assert.Equal(t, ir.Triple{S: n2, P: ir.NewKeyword("release/name"), O: ir.String("MSL")}, ds.Triples[2])

	_, ok := ds.Queries["by-release"]
	require.True(t, ok)
}

func TestCompileDatasetRejectsMissingRequiredField(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`triples: [{s: "n1", p: "k"}]`)
	_, err := CompileDataset(v)
	assert.Error(t, err)
}

func TestSymbolTableStable(t *testing.T) {
	syms := newSymbolTable()
	a := syms.node("alice")
	b := syms.node("alice")
	assert.Equal(t, a, b)
}

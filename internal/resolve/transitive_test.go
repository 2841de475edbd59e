package resolve

import (
	"testing"

	"github.com/roach88/veritas/internal/graph"
	"github.com/roach88/veritas/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain builds a -> b -> c -> a (a cycle) all linked by pred.
func chainGraph(t *testing.T) (g graph.Graph, pred ir.Value, a, b, c ir.Value) {
	t.Helper()
	g = graph.Graph(graph.NewSimple())
	pred = ir.NewKeyword("parent/child")
	a, b, c = ir.NewNode(), ir.NewNode(), ir.NewNode()

	var err error
	g, _, _, err = g.Add(ir.Triple{S: a, P: pred, O: b}, 1)
	require.NoError(t, err)
	g, _, _, err = g.Add(ir.Triple{S: b, P: pred, O: c}, 2)
	require.NoError(t, err)
	g, _, _, err = g.Add(ir.Triple{S: c, P: pred, O: a}, 3)
	require.NoError(t, err)
	return g, pred, a, b, c
}

func TestTransitivePlusForwardReachesStartOnlyThroughCycle(t *testing.T) {
	g, pred, a, b, c := chainGraph(t)
	pattern := TransitivePattern{S: Const{a}, O: Var{"x"}, Pred: pred, Op: Plus}
	results := collect(t, ResolveTransitive(g, pattern, nil))

	var reached []ir.Value
	for _, r := range results {
		reached = append(reached, r["x"])
	}
	assert.ElementsMatch(t, []ir.Value{b, c, a}, reached, "cycle means a reaches all three including itself via 3 hops")
}

func TestTransitiveStarIncludesStart(t *testing.T) {
	g := graph.Graph(graph.NewSimple())
	pred := ir.NewKeyword("parent/child")
	a, b := ir.NewNode(), ir.NewNode()
	g, _, _, err := g.Add(ir.Triple{S: a, P: pred, O: b}, 1)
	require.NoError(t, err)

	pattern := TransitivePattern{S: Const{a}, O: Var{"x"}, Pred: pred, Op: Star}
	results := collect(t, ResolveTransitive(g, pattern, nil))

	var reached []ir.Value
	for _, r := range results {
		reached = append(reached, r["x"])
	}
	assert.ElementsMatch(t, []ir.Value{a, b}, reached)
}

func TestTransitiveCycleTerminatesAndDeduplicates(t *testing.T) {
	g, pred, a, _, _ := chainGraph(t)
	pattern := TransitivePattern{S: Const{a}, O: Var{"x"}, Pred: pred, Op: Plus}
	results := collect(t, ResolveTransitive(g, pattern, nil))
	assert.Len(t, results, 3, "a 3-node cycle yields exactly 3 distinct reachable nodes, no duplicates, no infinite loop")
}

func TestTransitiveBackward(t *testing.T) {
	g := graph.Graph(graph.NewSimple())
	pred := ir.NewKeyword("parent/child")
	a, b, c := ir.NewNode(), ir.NewNode(), ir.NewNode()
	var err error
	g, _, _, err = g.Add(ir.Triple{S: a, P: pred, O: c}, 1)
	require.NoError(t, err)
	g, _, _, err = g.Add(ir.Triple{S: b, P: pred, O: c}, 2)
	require.NoError(t, err)

	pattern := TransitivePattern{S: Var{"x"}, O: Const{c}, Pred: pred, Op: Plus}
	results := collect(t, ResolveTransitive(g, pattern, nil))

	var reached []ir.Value
	for _, r := range results {
		reached = append(reached, r["x"])
	}
	assert.ElementsMatch(t, []ir.Value{a, b}, reached)
}

func TestTransitiveBothBoundReachable(t *testing.T) {
	g, pred, a, _, c := chainGraph(t)
	pattern := TransitivePattern{S: Const{a}, O: Const{c}, Pred: pred, Op: Plus}
	results := collect(t, ResolveTransitive(g, pattern, nil))
	assert.Len(t, results, 1, "a reaches c in 2 hops")
}

func TestTransitiveBothBoundUnreachable(t *testing.T) {
	g := graph.Graph(graph.NewSimple())
	pred := ir.NewKeyword("parent/child")
	a, isolated := ir.NewNode(), ir.NewNode()

	pattern := TransitivePattern{S: Const{a}, O: Const{isolated}, Pred: pred, Op: Plus}
	results := collect(t, ResolveTransitive(g, pattern, nil))
	assert.Empty(t, results)
}

package query

import (
	"testing"

	"github.com/roach88/veritas/internal/graph"
	"github.com/roach88/veritas/internal/ir"
	"github.com/roach88/veritas/internal/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedArtists(t *testing.T) (graph.Graph, ir.Value, ir.Value) {
	t.Helper()
	g := graph.Graph(graph.NewSimple())
	nameAttr := ir.NewKeyword("artist/name")
	genreAttr := ir.NewKeyword("artist/genre")

	coltrane := ir.NewNode()
	davis := ir.NewNode()

	var err error
	g, _, _, err = g.Add(ir.Triple{S: coltrane, P: nameAttr, O: ir.String("Coltrane")}, 1)
	require.NoError(t, err)
	g, _, _, err = g.Add(ir.Triple{S: coltrane, P: genreAttr, O: ir.String("jazz")}, 2)
	require.NoError(t, err)
	g, _, _, err = g.Add(ir.Triple{S: davis, P: nameAttr, O: ir.String("Davis")}, 3)
	require.NoError(t, err)
	g, _, _, err = g.Add(ir.Triple{S: davis, P: genreAttr, O: ir.String("jazz")}, 4)
	require.NoError(t, err)

	return g, nameAttr, genreAttr
}

func TestExecuteRelationJoin(t *testing.T) {
	g, nameAttr, genreAttr := seedArtists(t)

	q := Query{
		Find: Relation{Items: []Projected{PlainVar{"name"}}},
		Where: []Clause{
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: genreAttr}, O: resolve.Const{Value: ir.String("jazz")}}},
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: nameAttr}, O: resolve.Var{Name: "name"}}},
		},
	}

	res, err := Execute(g, q)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
}

func TestExecuteMissingClause(t *testing.T) {
	g, _, _ := seedArtists(t)
	_, err := Execute(g, Query{Find: Relation{}, Where: nil})
	assert.ErrorIs(t, err, ErrMissingClause)
}

func TestExecuteFilter(t *testing.T) {
	g, nameAttr, _ := seedArtists(t)
	q := Query{
		Find: Relation{Items: []Projected{PlainVar{"name"}}},
		Where: []Clause{
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: nameAttr}, O: resolve.Var{Name: "name"}}},
			Filter{Expr: BinOp{Op: OpEq, Left: Ref{"name"}, Right: Lit{ir.String("Coltrane")}}},
		},
	}
	res, err := Execute(g, q)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, ir.String("Coltrane"), res.Rows[0][0])
}

func TestExecuteNot(t *testing.T) {
	g, nameAttr, genreAttr := seedArtists(t)
	_ = genreAttr
	rockAttr := ir.NewKeyword("artist/rock")

	q := Query{
		Find: Relation{Items: []Projected{PlainVar{"name"}}},
		Where: []Clause{
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: nameAttr}, O: resolve.Var{Name: "name"}}},
			Not{Inner: Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: rockAttr}, O: resolve.Var{Name: resolve.Wildcard}}}},
		},
	}
	res, err := Execute(g, q)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2, "neither artist has the rock attribute, Not keeps both")
}

func TestExecuteBind(t *testing.T) {
	g, nameAttr, _ := seedArtists(t)
	q := Query{
		Find: Relation{Items: []Projected{PlainVar{"len"}}},
		Where: []Clause{
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: nameAttr}, O: resolve.Var{Name: "name"}}},
			Bind{Var: "len", Expr: Call{Func: FuncStrLen, Args: []Expr{Ref{"name"}}}},
		},
	}
	res, err := Execute(g, q)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
}

func TestExecuteAggregateCount(t *testing.T) {
	g, nameAttr, genreAttr := seedArtists(t)
	q := Query{
		Find: Relation{Items: []Projected{PlainVar{"genre"}, Aggregate{Func: AggCount, Var: "a"}}},
		Where: []Clause{
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: genreAttr}, O: resolve.Var{Name: "genre"}}},
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: nameAttr}, O: resolve.Var{Name: "name"}}},
		},
	}
	res, err := Execute(g, q)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, ir.String("jazz"), res.Rows[0][0])
	assert.Equal(t, ir.Int(2), res.Rows[0][1])
}

func TestExecuteAggregateAvg(t *testing.T) {
	g := graph.Graph(graph.NewSimple())
	genreAttr := ir.NewKeyword("artist/genre")
	scoreAttr := ir.NewKeyword("artist/score")

	coltrane := ir.NewNode()
	davis := ir.NewNode()

	var err error
	g, _, _, err = g.Add(ir.Triple{S: coltrane, P: genreAttr, O: ir.String("jazz")}, 1)
	require.NoError(t, err)
	g, _, _, err = g.Add(ir.Triple{S: coltrane, P: scoreAttr, O: ir.Int(80)}, 2)
	require.NoError(t, err)
	g, _, _, err = g.Add(ir.Triple{S: davis, P: genreAttr, O: ir.String("jazz")}, 3)
	require.NoError(t, err)
	g, _, _, err = g.Add(ir.Triple{S: davis, P: scoreAttr, O: ir.Int(90)}, 4)
	require.NoError(t, err)

	q := Query{
		Find: Relation{Items: []Projected{PlainVar{"genre"}, Aggregate{Func: AggAvg, Var: "score"}}},
		Where: []Clause{
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: genreAttr}, O: resolve.Var{Name: "genre"}}},
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: scoreAttr}, O: resolve.Var{Name: "score"}}},
		},
	}
	res, err := Execute(g, q)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, ir.String("jazz"), res.Rows[0][0])
	assert.Equal(t, ir.Float(85), res.Rows[0][1])
}

func TestExecuteIllegalAggregateMixedUsage(t *testing.T) {
	g, _, genreAttr := seedArtists(t)
	q := Query{
		Find: Relation{Items: []Projected{PlainVar{"a"}, Aggregate{Func: AggCount, Var: "a"}}},
		Where: []Clause{
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: genreAttr}, O: resolve.Var{Name: "genre"}}},
		},
	}
	_, err := Execute(g, q)
	assert.ErrorIs(t, err, ErrIllegalAggregate)
}

func TestPlanSchedulesFilterAfterDependency(t *testing.T) {
	g, nameAttr, _ := seedArtists(t)
	q := Query{
		Where: []Clause{
			Filter{Expr: BinOp{Op: OpEq, Left: Ref{"name"}, Right: Lit{ir.String("Coltrane")}}},
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: nameAttr}, O: resolve.Var{Name: "name"}}},
		},
	}
	plan, err := Plan(g, q)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	_, isPattern := plan[0].(Pattern)
	assert.True(t, isPattern, "the pattern supplying Filter's variable must be scheduled first")
}

func TestPlanUnknownClauseDependency(t *testing.T) {
	g := graph.Graph(graph.NewSimple())
	q := Query{
		Where: []Clause{
			Filter{Expr: Ref{"never-bound"}},
		},
	}
	_, err := Plan(g, q)
	assert.ErrorIs(t, err, ErrUnknownClauses)
}

func TestPlanOrdersPatternsByEstimateCountNotBoundSlots(t *testing.T) {
	g := graph.Graph(graph.NewSimple())
	pred := ir.NewKeyword("rel/tag")
	busy := ir.NewNode()
	quiet := ir.NewNode()

	var err error
	for i := 0; i < 3; i++ {
		g, _, _, err = g.Add(ir.Triple{S: busy, P: pred, O: ir.NewNode()}, int64(i+1))
		require.NoError(t, err)
	}
	g, _, _, err = g.Add(ir.Triple{S: quiet, P: pred, O: ir.NewNode()}, 10)
	require.NoError(t, err)

	q := Query{
		Where: []Clause{
			Pattern{P: resolve.Pattern{S: resolve.Const{Value: busy}, P: resolve.Const{Value: pred}, O: resolve.Var{Name: "busyObj"}}},
			Pattern{P: resolve.Pattern{S: resolve.Const{Value: quiet}, P: resolve.Const{Value: pred}, O: resolve.Var{Name: "quietObj"}}},
		},
	}

	// Both patterns are ready from the start and bind the same number of
	// slots (S and P are Const, O is an unbound Var), so a boundSlots-only
	// heuristic would leave them in their original order. EstimateCount
	// distinguishes them: quiet has one matching triple, busy has three,
	// so quiet must be scheduled first.
	plan, err := Plan(g, q)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	first := plan[0].(Pattern)
	assert.Equal(t, quiet, first.P.S.(resolve.Const).Value, "the more selective pattern (fewer matches) must be scheduled first")
}

func TestBindsOfOrUnionsAllAlternativesVariables(t *testing.T) {
	or := Or{Alternatives: []Clause{
		Bind{Var: "x", Expr: Lit{ir.Int(1)}},
		Bind{Var: "y", Expr: Lit{ir.Int(2)}},
	}}
	bound := bindsOf(or)
	assert.True(t, bound["x"], "first alternative's binding must be in the union")
	assert.True(t, bound["y"], "second alternative's binding must be in the union too")
}

func TestPlanSchedulesDependencyOnNonFirstAlternative(t *testing.T) {
	g := graph.Graph(graph.NewSimple())
	q := Query{
		Where: []Clause{
			Or{Alternatives: []Clause{
				Bind{Var: "x", Expr: Lit{ir.Int(1)}},
				Bind{Var: "y", Expr: Lit{ir.Int(2)}},
			}},
			Filter{Expr: BinOp{Op: OpEq, Left: Ref{"y"}, Right: Lit{ir.Int(2)}}},
		},
	}
	plan, err := Plan(g, q)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	_, isOr := plan[0].(Or)
	assert.True(t, isOr, "Or must schedule before a Filter depending on its second alternative's variable")
}

func TestExecuteOrWithDisjointVariablesLeavesUnmatchedColumnNil(t *testing.T) {
	g, nameAttr, _ := seedArtists(t)
	nickAttr := ir.NewKeyword("artist/nickname")

	subj := ir.NewNode()
	var err error
	g, _, _, err = g.Add(ir.Triple{S: subj, P: nickAttr, O: ir.String("Trane")}, 5)
	require.NoError(t, err)

	q := Query{
		Find: Relation{Items: []Projected{PlainVar{"nick"}, PlainVar{"name"}}},
		Where: []Clause{
			Or{Alternatives: []Clause{
				Pattern{P: resolve.Pattern{S: resolve.Const{Value: subj}, P: resolve.Const{Value: nickAttr}, O: resolve.Var{Name: "nick"}}},
				Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: nameAttr}, O: resolve.Var{Name: "name"}}},
			}},
		},
	}
	res, err := Execute(g, q)
	require.NoError(t, err)

	var sawNickOnly, sawNameOnly bool
	for _, row := range res.Rows {
		if row[0] != nil && row[1] == nil {
			sawNickOnly = true
		}
		if row[0] == nil && row[1] != nil {
			sawNameOnly = true
		}
	}
	assert.True(t, sawNickOnly, "the nickname-only branch must produce a row with name nil")
	assert.True(t, sawNameOnly, "the name-only branch must produce a row with nick nil")
}

func TestEvalUnsupportedOperator(t *testing.T) {
	_, err := Eval(BinOp{Op: "nonsense", Left: Lit{ir.Int(1)}, Right: Lit{ir.Int(2)}}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestEvalArithmeticOperators(t *testing.T) {
	cases := []struct {
		op   Operator
		want ir.Value
	}{
		{OpAdd, ir.Int(7)},
		{OpSub, ir.Int(3)},
		{OpMul, ir.Int(10)},
		{OpDiv, ir.Int(2)},
	}
	for _, tc := range cases {
		v, err := Eval(BinOp{Op: tc.op, Left: Lit{ir.Int(5)}, Right: Lit{ir.Int(2)}}, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.want, v, "operator %s", tc.op)
	}
}

func TestEvalArithmeticPromotesToFloat(t *testing.T) {
	v, err := Eval(BinOp{Op: OpAdd, Left: Lit{ir.Int(1)}, Right: Lit{ir.Float(0.5)}}, nil)
	require.NoError(t, err)
	assert.Equal(t, ir.Float(1.5), v)
}

func TestEvalDivisionByZero(t *testing.T) {
	_, err := Eval(BinOp{Op: OpDiv, Left: Lit{ir.Int(1)}, Right: Lit{ir.Int(0)}}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestEvalStrStringifiesNonString(t *testing.T) {
	v, err := Eval(Call{Func: FuncStr, Args: []Expr{Lit{ir.Int(42)}}}, nil)
	require.NoError(t, err)
	assert.Equal(t, ir.String("42"), v)
}

func TestEvalCallFallsThroughToEnvFunction(t *testing.T) {
	env := EvalEnv{Functions: map[Function]UserFunc{
		"double": func(args []ir.Value) (ir.Value, error) {
			return ir.Int(2 * int64(args[0].(ir.Int))), nil
		},
	}}
	v, err := EvalWithEnv(Call{Func: "double", Args: []Expr{Lit{ir.Int(21)}}}, nil, env)
	require.NoError(t, err)
	assert.Equal(t, ir.Int(42), v)
}

func TestEvalCallUnknownFunctionFailsClosed(t *testing.T) {
	_, err := EvalWithEnv(Call{Func: "mystery"}, nil, EvalEnv{})
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestEvalCallUnsafeFallsBackToFallback(t *testing.T) {
	env := EvalEnv{
		Unsafe: true,
		Fallback: func(args []ir.Value) (ir.Value, error) {
			return ir.String("fell back"), nil
		},
	}
	v, err := EvalWithEnv(Call{Func: "mystery"}, nil, env)
	require.NoError(t, err)
	assert.Equal(t, ir.String("fell back"), v)
}

func TestEvalCallUnsafeWithoutFallbackStillFails(t *testing.T) {
	_, err := EvalWithEnv(Call{Func: "mystery"}, nil, EvalEnv{Unsafe: true})
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestExecuteFunctionInputSuppliesUserFunction(t *testing.T) {
	g, nameAttr, _ := seedArtists(t)
	q := Query{
		Find: Relation{Items: []Projected{PlainVar{"shout"}}},
		Where: []Clause{
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: nameAttr}, O: resolve.Var{Name: "name"}}},
			Bind{Var: "shout", Expr: Call{Func: "shout", Args: []Expr{Ref{"name"}}}},
		},
		In: []InputSpec{FunctionInput{Name: "shout", Func: func(args []ir.Value) (ir.Value, error) {
			return ir.String(string(args[0].(ir.String)) + "!"), nil
		}}},
	}
	res, err := Execute(g, q)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, ir.String("Coltrane!"), res.Rows[0][0])
}

func TestExecuteCollectionInputExpandsToOneRowPerElement(t *testing.T) {
	g, nameAttr, _ := seedArtists(t)
	q := Query{
		Find: Relation{Items: []Projected{PlainVar{"name"}}},
		Where: []Clause{
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: nameAttr}, O: resolve.Var{Name: "name"}}},
			Filter{Expr: BinOp{Op: OpEq, Left: Ref{"tag"}, Right: Ref{"name"}}},
		},
		In: []InputSpec{CollectionInput{Name: "tag", Values: []ir.Value{ir.String("Coltrane"), ir.String("Davis")}}},
	}
	res, err := Execute(g, q)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
}

func TestExecuteTupleInputDestructuresPositionally(t *testing.T) {
	g, nameAttr, _ := seedArtists(t)
	q := Query{
		Find: Relation{Items: []Projected{PlainVar{"name"}}},
		Where: []Clause{
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: nameAttr}, O: resolve.Var{Name: "name"}}},
			Filter{Expr: BinOp{Op: OpEq, Left: Ref{"name"}, Right: Ref{"wanted"}}},
		},
		In: []InputSpec{TupleInput{Names: []resolve.Variable{"wanted", "unused"}, Values: []ir.Value{ir.String("Davis"), ir.Int(0)}}},
	}
	res, err := Execute(g, q)
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, ir.String("Davis"), res.Rows[0][0])
}

func TestExecuteWithExtendsGroupingIdentityWithoutProjecting(t *testing.T) {
	g, nameAttr, genreAttr := seedArtists(t)
	q := Query{
		Find: Relation{Items: []Projected{PlainVar{"genre"}, Aggregate{Func: AggCount, Var: "a"}}},
		Where: []Clause{
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: genreAttr}, O: resolve.Var{Name: "genre"}}},
			Pattern{P: resolve.Pattern{S: resolve.Var{Name: "a"}, P: resolve.Const{Value: nameAttr}, O: resolve.Var{Name: "name"}}},
		},
		With: []resolve.Variable{"name"},
	}
	res, err := Execute(g, q)
	require.NoError(t, err)
	// Without With, both artists share genre "jazz" and collapse into one
	// group of count 2; With{name} splits them back into two groups of
	// count 1 each, since Coltrane and Davis have different names.
	require.Len(t, res.Rows, 2)
	for _, row := range res.Rows {
		assert.Equal(t, ir.Int(1), row[1])
	}
}

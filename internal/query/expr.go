package query

import (
	"fmt"
	"time"

	"github.com/roach88/veritas/internal/ir"
	"github.com/roach88/veritas/internal/resolve"
)

// Expr is a sealed interface for the restricted expression language
// allowed in Filter and Bind clauses. There is no general-purpose eval:
// every node is one of the types below, and Op/Func values are drawn from
// a fixed safelist (see evalBinOp / evalCall) plus whatever EvalEnv adds,
// so a query can never cause arbitrary Go code to run.
type Expr interface {
	exprNode()
}

// Lit is a literal value.
type Lit struct {
	Value ir.Value
}

func (Lit) exprNode() {}

// Ref reads an already-bound variable's value.
type Ref struct {
	Var resolve.Variable
}

func (Ref) exprNode() {}

// BinOp is a safelisted binary operator applied to two sub-expressions.
type BinOp struct {
	Op    Operator
	Left  Expr
	Right Expr
}

func (BinOp) exprNode() {}

// Call is a safelisted function applied to its arguments.
type Call struct {
	Func Function
	Args []Expr
}

func (Call) exprNode() {}

// Operator is the safelist of binary operators usable in BinOp.
type Operator string

const (
	OpEq  Operator = "="
	OpNeq Operator = "!="
	OpLt  Operator = "<"
	OpLte Operator = "<="
	OpGt  Operator = ">"
	OpGte Operator = ">="
	OpAnd Operator = "and"
	OpOr  Operator = "or"
	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
)

// Function is the safelist of unary/variadic functions usable in Call.
// A Func outside this list is still legal if EvalEnv's Functions map
// carries it, or if EvalEnv.Unsafe lifts the restriction entirely.
type Function string

const (
	FuncNot    Function = "not"
	FuncStrLen Function = "str-len"
	FuncStr    Function = "str"
)

// UserFunc is a function reachable from a Filter/Bind expression outside
// the built-in safelist, supplied either as a query input (see
// FunctionInput) or directly through EvalEnv.Functions.
type UserFunc func(args []ir.Value) (ir.Value, error)

// EvalEnv is the ambient environment Eval consults for a Call.Func name
// that falls outside the built-in safelist. Unsafe, when true, lifts the
// sandbox restriction that otherwise rejects a symbol absent from both
// the safelist and Functions, instead falling through to Fallback — an
// override meant for trusted, in-process callers, never reachable by a
// value carried inside a Query itself.
type EvalEnv struct {
	Functions map[Function]UserFunc
	Unsafe    bool
	Fallback  UserFunc
}

// Eval evaluates e against row's bindings with no ambient environment —
// only the built-in safelist is available. Returns an error wrapping
// ErrUnsupportedOperation for an Op/Func outside the safelist, or any
// type mismatch the safelisted operator cannot handle (e.g. comparing two
// incomparable Value kinds).
func Eval(e Expr, row resolve.Binding) (ir.Value, error) {
	return EvalWithEnv(e, row, EvalEnv{})
}

// EvalWithEnv evaluates e against row's bindings, consulting env for any
// Call.Func outside the built-in safelist.
func EvalWithEnv(e Expr, row resolve.Binding, env EvalEnv) (ir.Value, error) {
	switch node := e.(type) {
	case Lit:
		return node.Value, nil
	case Ref:
		v, ok := row[node.Var]
		if !ok {
			return nil, fmt.Errorf("query: variable %q referenced before it is bound", node.Var)
		}
		return v, nil
	case BinOp:
		return evalBinOp(node, row, env)
	case Call:
		return evalCall(node, row, env)
	default:
		return nil, fmt.Errorf("query: %w: expression node %T", ErrUnsupportedOperation, e)
	}
}

func evalBinOp(node BinOp, row resolve.Binding, env EvalEnv) (ir.Value, error) {
	left, err := EvalWithEnv(node.Left, row, env)
	if err != nil {
		return nil, err
	}

	if node.Op == OpAnd || node.Op == OpOr {
		lb, ok := left.(ir.Bool)
		if !ok {
			return nil, fmt.Errorf("query: %w: %s left operand is not Bool", ErrUnsupportedOperation, node.Op)
		}
		if node.Op == OpAnd && !bool(lb) {
			return ir.Bool(false), nil
		}
		if node.Op == OpOr && bool(lb) {
			return ir.Bool(true), nil
		}
		right, err := EvalWithEnv(node.Right, row, env)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(ir.Bool)
		if !ok {
			return nil, fmt.Errorf("query: %w: %s right operand is not Bool", ErrUnsupportedOperation, node.Op)
		}
		return rb, nil
	}

	right, err := EvalWithEnv(node.Right, row, env)
	if err != nil {
		return nil, err
	}

	switch node.Op {
	case OpEq:
		return ir.Bool(left == right), nil
	case OpNeq:
		return ir.Bool(left != right), nil
	case OpLt, OpLte, OpGt, OpGte:
		return compareOrdered(node.Op, left, right)
	case OpAdd, OpSub, OpMul, OpDiv:
		return arith(node.Op, left, right)
	default:
		return nil, fmt.Errorf("query: %w: operator %q", ErrUnsupportedOperation, node.Op)
	}
}

// arith applies a safelisted arithmetic operator to two numeric Values,
// promoting to Float if either operand is a Float.
func arith(op Operator, left, right ir.Value) (ir.Value, error) {
	switch l := left.(type) {
	case ir.Int:
		switch r := right.(type) {
		case ir.Int:
			return intArith(op, int64(l), int64(r))
		case ir.Float:
			return floatArith(op, float64(l), float64(r))
		default:
			return nil, fmt.Errorf("query: %w: cannot apply %s to Int and %T", ErrUnsupportedOperation, op, right)
		}
	case ir.Float:
		switch r := right.(type) {
		case ir.Int:
			return floatArith(op, float64(l), float64(r))
		case ir.Float:
			return floatArith(op, float64(l), float64(r))
		default:
			return nil, fmt.Errorf("query: %w: cannot apply %s to Float and %T", ErrUnsupportedOperation, op, right)
		}
	default:
		return nil, fmt.Errorf("query: %w: %T is not numeric", ErrUnsupportedOperation, left)
	}
}

func intArith(op Operator, a, b int64) (ir.Value, error) {
	switch op {
	case OpAdd:
		return ir.Int(a + b), nil
	case OpSub:
		return ir.Int(a - b), nil
	case OpMul:
		return ir.Int(a * b), nil
	case OpDiv:
		if b == 0 {
			return nil, fmt.Errorf("query: %w: division by zero", ErrUnsupportedOperation)
		}
		return ir.Int(a / b), nil
	default:
		return nil, fmt.Errorf("query: %w: operator %q", ErrUnsupportedOperation, op)
	}
}

func floatArith(op Operator, a, b float64) (ir.Value, error) {
	switch op {
	case OpAdd:
		return ir.Float(a + b), nil
	case OpSub:
		return ir.Float(a - b), nil
	case OpMul:
		return ir.Float(a * b), nil
	case OpDiv:
		if b == 0 {
			return nil, fmt.Errorf("query: %w: division by zero", ErrUnsupportedOperation)
		}
		return ir.Float(a / b), nil
	default:
		return nil, fmt.Errorf("query: %w: operator %q", ErrUnsupportedOperation, op)
	}
}

func compareOrdered(op Operator, left, right ir.Value) (ir.Value, error) {
	var cmp int
	switch l := left.(type) {
	case ir.Int:
		r, ok := right.(ir.Int)
		if !ok {
			return nil, fmt.Errorf("query: %w: cannot compare Int to %T", ErrUnsupportedOperation, right)
		}
		cmp = cmpInt64(int64(l), int64(r))
	case ir.Float:
		r, ok := right.(ir.Float)
		if !ok {
			return nil, fmt.Errorf("query: %w: cannot compare Float to %T", ErrUnsupportedOperation, right)
		}
		cmp = cmpFloat64(float64(l), float64(r))
	case ir.String:
		r, ok := right.(ir.String)
		if !ok {
			return nil, fmt.Errorf("query: %w: cannot compare String to %T", ErrUnsupportedOperation, right)
		}
		cmp = cmpString(string(l), string(r))
	case ir.Time:
		r, ok := right.(ir.Time)
		if !ok {
			return nil, fmt.Errorf("query: %w: cannot compare Time to %T", ErrUnsupportedOperation, right)
		}
		cmp = cmpInt64(int64(l), int64(r))
	default:
		return nil, fmt.Errorf("query: %w: %T is not ordered", ErrUnsupportedOperation, left)
	}

	switch op {
	case OpLt:
		return ir.Bool(cmp < 0), nil
	case OpLte:
		return ir.Bool(cmp <= 0), nil
	case OpGt:
		return ir.Bool(cmp > 0), nil
	case OpGte:
		return ir.Bool(cmp >= 0), nil
	default:
		return nil, fmt.Errorf("query: %w: operator %q", ErrUnsupportedOperation, op)
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func evalCall(node Call, row resolve.Binding, env EvalEnv) (ir.Value, error) {
	switch node.Func {
	case FuncNot:
		if len(node.Args) != 1 {
			return nil, fmt.Errorf("query: %w: not takes exactly one argument", ErrUnsupportedOperation)
		}
		v, err := EvalWithEnv(node.Args[0], row, env)
		if err != nil {
			return nil, err
		}
		b, ok := v.(ir.Bool)
		if !ok {
			return nil, fmt.Errorf("query: %w: not applied to non-Bool", ErrUnsupportedOperation)
		}
		return ir.Bool(!bool(b)), nil

	case FuncStrLen:
		if len(node.Args) != 1 {
			return nil, fmt.Errorf("query: %w: str-len takes exactly one argument", ErrUnsupportedOperation)
		}
		v, err := EvalWithEnv(node.Args[0], row, env)
		if err != nil {
			return nil, err
		}
		s, ok := v.(ir.String)
		if !ok {
			return nil, fmt.Errorf("query: %w: str-len applied to non-String", ErrUnsupportedOperation)
		}
		return ir.Int(len([]rune(string(s)))), nil

	case FuncStr:
		if len(node.Args) != 1 {
			return nil, fmt.Errorf("query: %w: str takes exactly one argument", ErrUnsupportedOperation)
		}
		v, err := EvalWithEnv(node.Args[0], row, env)
		if err != nil {
			return nil, err
		}
		return ir.String(stringify(v)), nil
	}

	args := make([]ir.Value, len(node.Args))
	for i, a := range node.Args {
		v, err := EvalWithEnv(a, row, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if fn, ok := env.Functions[node.Func]; ok {
		return fn(args)
	}
	if env.Unsafe && env.Fallback != nil {
		return env.Fallback(args)
	}
	return nil, fmt.Errorf("query: %w: function %q", ErrUnsupportedOperation, node.Func)
}

// stringify renders v the way str destructures it to a String — the raw
// textual form, unquoted, as opposed to ir.Triple's debug-oriented
// describeValue.
func stringify(v ir.Value) string {
	switch val := v.(type) {
	case ir.String:
		return string(val)
	case ir.Int:
		return fmt.Sprintf("%d", int64(val))
	case ir.Float:
		return fmt.Sprintf("%g", float64(val))
	case ir.Bool:
		return fmt.Sprintf("%t", bool(val))
	case ir.Keyword:
		return val.String()
	case ir.Node:
		return val.String()
	case ir.Time:
		return val.Time().Format(time.RFC3339Nano)
	case ir.Nil:
		return "nil"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Package scenario adopts the teacher's two fixture formats — a CUE
// dataset compiled through cuelang.org/go's Go API, and a YAML
// conformance scenario driven through goldie golden snapshots — and
// retargets both at this package's own domain: seed triples and pattern
// queries instead of concept specs and action traces.
package scenario

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"

	"github.com/roach88/veritas/internal/ir"
	"github.com/roach88/veritas/internal/query"
	"github.com/roach88/veritas/internal/resolve"
)

// Dataset is a compiled fixture: a set of triples to seed a fresh graph
// with, plus a named set of queries to run against it.
type Dataset struct {
	Triples []ir.Triple
	Queries map[string]query.Query
	Symbols *symbolTable
}

// CompileDataset parses v — the root of a dataset CUE file, e.g.
// ctx.CompileBytes(data) — into a Dataset. v must have a "triples" list
// and may have a "queries" struct; see testdata/*.cue for the schema.
func CompileDataset(v cue.Value) (*Dataset, error) {
	if err := v.Err(); err != nil {
		return nil, &CompileError{Message: err.Error()}
	}

	syms := newSymbolTable()
	ds := &Dataset{Queries: map[string]query.Query{}, Symbols: syms}

	triplesVal := v.LookupPath(cue.ParsePath("triples"))
	if triplesVal.Exists() {
		triples, err := compileTriples(triplesVal, syms)
		if err != nil {
			return nil, err
		}
		ds.Triples = triples
	}

	queriesVal := v.LookupPath(cue.ParsePath("queries"))
	if queriesVal.Exists() {
		iter, err := queriesVal.Fields()
		if err != nil {
			return nil, &CompileError{Field: "queries", Message: err.Error()}
		}
		for iter.Next() {
			name := iter.Label()
			q, err := compileQuery(iter.Value(), syms)
			if err != nil {
				return nil, &CompileError{Field: "queries." + name, Message: err.Error()}
			}
			ds.Queries[name] = q
		}
	}

	return ds, nil
}

func compileTriples(v cue.Value, syms *symbolTable) ([]ir.Triple, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{Field: "triples", Message: err.Error()}
	}

	var out []ir.Triple
	for iter.Next() {
		row := iter.Value()

		sLabel, err := lookupString(row, "s")
		if err != nil {
			return nil, err
		}
		pLabel, err := lookupString(row, "p")
		if err != nil {
			return nil, err
		}
		oVal := row.LookupPath(cue.ParsePath("o"))
		if !oVal.Exists() {
			return nil, &CompileError{Field: "triples[].o", Message: "o is required"}
		}
		o, err := decodeObject(oVal, syms)
		if err != nil {
			return nil, err
		}

		out = append(out, ir.Triple{
			S: syms.node(sLabel),
			P: ir.NewKeyword(pLabel),
			O: o,
		})
	}
	return out, nil
}

// decodeObject decodes a triple's object position: a plain literal
// (string/int/bool), or {ref: "label"} denoting another dataset node.
func decodeObject(v cue.Value, syms *symbolTable) (ir.Value, error) {
	refVal := v.LookupPath(cue.ParsePath("ref"))
	if refVal.Exists() {
		label, err := refVal.String()
		if err != nil {
			return nil, &CompileError{Field: "ref", Message: err.Error()}
		}
		return syms.node(label), nil
	}
	return decodeLiteral(v)
}

func decodeLiteral(v cue.Value) (ir.Value, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		s, err := v.String()
		return ir.String(s), err
	case cue.IntKind:
		n, err := v.Int64()
		return ir.Int(n), err
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		return ir.Float(f), err
	case cue.BoolKind:
		b, err := v.Bool()
		return ir.Bool(b), err
	default:
		return nil, &CompileError{Message: fmt.Sprintf("unsupported literal kind: %v", v.IncompleteKind())}
	}
}

func lookupString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{Field: field, Message: "required field missing"}
	}
	s, err := fv.String()
	if err != nil {
		return "", &CompileError{Field: field, Message: err.Error()}
	}
	return s, nil
}

// compileQuery decodes one named query: a "find" spec and a "where"
// clause list, matching internal/query's Query struct field for field.
func compileQuery(v cue.Value, syms *symbolTable) (query.Query, error) {
	findVal := v.LookupPath(cue.ParsePath("find"))
	if !findVal.Exists() {
		return query.Query{}, &CompileError{Field: "find", Message: "required"}
	}
	find, err := compileFind(findVal)
	if err != nil {
		return query.Query{}, err
	}

	whereVal := v.LookupPath(cue.ParsePath("where"))
	if !whereVal.Exists() {
		return query.Query{}, &CompileError{Field: "where", Message: "required"}
	}
	whereIter, err := whereVal.List()
	if err != nil {
		return query.Query{}, &CompileError{Field: "where", Message: err.Error()}
	}
	var clauses []query.Clause
	for whereIter.Next() {
		c, err := compileClause(whereIter.Value(), syms)
		if err != nil {
			return query.Query{}, err
		}
		clauses = append(clauses, c)
	}

	q := query.Query{Find: find, Where: clauses}

	inVal := v.LookupPath(cue.ParsePath("in"))
	if inVal.Exists() {
		in, err := compileIn(inVal, syms)
		if err != nil {
			return query.Query{}, err
		}
		q.In = in
	}

	withVal := v.LookupPath(cue.ParsePath("with"))
	if withVal.Exists() {
		iter, err := withVal.List()
		if err != nil {
			return query.Query{}, &CompileError{Field: "with", Message: err.Error()}
		}
		for iter.Next() {
			name, err := iter.Value().String()
			if err != nil {
				return query.Query{}, &CompileError{Field: "with", Message: err.Error()}
			}
			q.With = append(q.With, resolve.Variable(name))
		}
	}

	return q, nil
}

// compileIn decodes the query's `:in` list, one entry per binding form:
// {var, value} for a scalar, {coll, values} to expand a list into one row
// per element, or {tuple, values} to destructure one list positionally
// into several names.
func compileIn(v cue.Value, syms *symbolTable) ([]query.InputSpec, error) {
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{Field: "in", Message: err.Error()}
	}

	var specs []query.InputSpec
	for iter.Next() {
		entry := iter.Value()

		if varVal := entry.LookupPath(cue.ParsePath("var")); varVal.Exists() {
			name, err := varVal.String()
			if err != nil {
				return nil, &CompileError{Field: "in[].var", Message: err.Error()}
			}
			valVal := entry.LookupPath(cue.ParsePath("value"))
			if !valVal.Exists() {
				return nil, &CompileError{Field: "in[].value", Message: "required"}
			}
			val, err := decodeObject(valVal, syms)
			if err != nil {
				return nil, err
			}
			specs = append(specs, query.ScalarInput{Name: resolve.Variable(name), Value: val})
			continue
		}

		if collVal := entry.LookupPath(cue.ParsePath("coll")); collVal.Exists() {
			name, err := collVal.String()
			if err != nil {
				return nil, &CompileError{Field: "in[].coll", Message: err.Error()}
			}
			values, err := decodeObjectList(entry.LookupPath(cue.ParsePath("values")), syms)
			if err != nil {
				return nil, err
			}
			specs = append(specs, query.CollectionInput{Name: resolve.Variable(name), Values: values})
			continue
		}

		if tupleVal := entry.LookupPath(cue.ParsePath("tuple")); tupleVal.Exists() {
			namesIter, err := tupleVal.List()
			if err != nil {
				return nil, &CompileError{Field: "in[].tuple", Message: err.Error()}
			}
			var names []resolve.Variable
			for namesIter.Next() {
				name, err := namesIter.Value().String()
				if err != nil {
					return nil, &CompileError{Field: "in[].tuple", Message: err.Error()}
				}
				names = append(names, resolve.Variable(name))
			}
			values, err := decodeObjectList(entry.LookupPath(cue.ParsePath("values")), syms)
			if err != nil {
				return nil, err
			}
			specs = append(specs, query.TupleInput{Names: names, Values: values})
			continue
		}

		return nil, &CompileError{Field: "in[]", Message: "entry must have one of var/coll/tuple"}
	}
	return specs, nil
}

func decodeObjectList(v cue.Value, syms *symbolTable) ([]ir.Value, error) {
	if !v.Exists() {
		return nil, &CompileError{Field: "in[].values", Message: "required"}
	}
	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{Field: "in[].values", Message: err.Error()}
	}
	var out []ir.Value
	for iter.Next() {
		val, err := decodeObject(iter.Value(), syms)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

func compileFind(v cue.Value) (query.Find, error) {
	kind, err := lookupString(v, "kind")
	if err != nil {
		return nil, err
	}

	itemsVal := v.LookupPath(cue.ParsePath("items"))
	if !itemsVal.Exists() {
		return nil, &CompileError{Field: "find.items", Message: "required"}
	}
	iter, err := itemsVal.List()
	if err != nil {
		return nil, &CompileError{Field: "find.items", Message: err.Error()}
	}
	var items []query.Projected
	for iter.Next() {
		item, err := compileProjected(iter.Value())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	switch kind {
	case "scalar":
		if len(items) != 1 {
			return nil, &CompileError{Field: "find.items", Message: "scalar takes exactly one item"}
		}
		return query.Scalar{Item: items[0]}, nil
	case "tuple":
		return query.Tuple{Items: items}, nil
	case "coll":
		if len(items) != 1 {
			return nil, &CompileError{Field: "find.items", Message: "coll takes exactly one item"}
		}
		return query.Coll{Item: items[0]}, nil
	case "relation":
		return query.Relation{Items: items}, nil
	default:
		return nil, &CompileError{Field: "find.kind", Message: fmt.Sprintf("unknown kind %q", kind)}
	}
}

func compileProjected(v cue.Value) (query.Projected, error) {
	varName, err := lookupString(v, "var")
	if err != nil {
		return nil, err
	}
	aggVal := v.LookupPath(cue.ParsePath("agg"))
	if !aggVal.Exists() {
		return query.PlainVar{Var: resolve.Variable(varName)}, nil
	}
	aggName, err := aggVal.String()
	if err != nil {
		return nil, &CompileError{Field: "agg", Message: err.Error()}
	}
	return query.Aggregate{Func: query.AggFunc(aggName), Var: resolve.Variable(varName)}, nil
}

// compileClause decodes one where-clause entry. Exactly one of
// pattern/not/or/filter/bind must be present.
func compileClause(v cue.Value, syms *symbolTable) (query.Clause, error) {
	if pv := v.LookupPath(cue.ParsePath("pattern")); pv.Exists() {
		p, err := compilePattern(pv, syms)
		if err != nil {
			return nil, err
		}
		return query.Pattern{P: p}, nil
	}
	if nv := v.LookupPath(cue.ParsePath("not")); nv.Exists() {
		inner, err := compileClause(nv, syms)
		if err != nil {
			return nil, err
		}
		return query.Not{Inner: inner}, nil
	}
	if ov := v.LookupPath(cue.ParsePath("or")); ov.Exists() {
		iter, err := ov.List()
		if err != nil {
			return nil, &CompileError{Field: "or", Message: err.Error()}
		}
		var alts []query.Clause
		for iter.Next() {
			alt, err := compileClause(iter.Value(), syms)
			if err != nil {
				return nil, err
			}
			alts = append(alts, alt)
		}
		return query.Or{Alternatives: alts}, nil
	}
	if fv := v.LookupPath(cue.ParsePath("filter")); fv.Exists() {
		expr, err := compileExpr(fv)
		if err != nil {
			return nil, err
		}
		return query.Filter{Expr: expr}, nil
	}
	if bv := v.LookupPath(cue.ParsePath("bind")); bv.Exists() {
		varName, err := lookupString(bv, "var")
		if err != nil {
			return nil, err
		}
		exprVal := bv.LookupPath(cue.ParsePath("expr"))
		if !exprVal.Exists() {
			return nil, &CompileError{Field: "bind.expr", Message: "required"}
		}
		expr, err := compileExpr(exprVal)
		if err != nil {
			return nil, err
		}
		return query.Bind{Var: resolve.Variable(varName), Expr: expr}, nil
	}
	return nil, &CompileError{Field: "where[]", Message: "clause must have one of pattern/not/or/filter/bind"}
}

func compilePattern(v cue.Value, syms *symbolTable) (resolve.Pattern, error) {
	sTerm, err := compileTerm(v, "s", nodeTerm(syms))
	if err != nil {
		return resolve.Pattern{}, err
	}
	pTerm, err := compileTerm(v, "p", keywordTerm)
	if err != nil {
		return resolve.Pattern{}, err
	}
	oTerm, err := compileObjectTerm(v, syms)
	if err != nil {
		return resolve.Pattern{}, err
	}
	return resolve.Pattern{S: sTerm, P: pTerm, O: oTerm}, nil
}

// termFromString converts a raw CUE string to either a resolve.Var (for
// "?name" and the "_" wildcard) or nil to signal "not a variable,
// interpret as a literal".
func termFromString(raw string) (resolve.Term, bool) {
	if raw == string(resolve.Wildcard) {
		return resolve.Var{Name: resolve.Wildcard}, true
	}
	if strings.HasPrefix(raw, "?") {
		return resolve.Var{Name: resolve.Variable(raw[1:])}, true
	}
	return nil, false
}

func nodeTerm(syms *symbolTable) func(string) resolve.Term {
	return func(label string) resolve.Term {
		return resolve.Const{Value: syms.node(label)}
	}
}

func keywordTerm(label string) resolve.Term {
	return resolve.Const{Value: ir.NewKeyword(label)}
}

func compileTerm(v cue.Value, field string, literal func(string) resolve.Term) (resolve.Term, error) {
	raw, err := lookupString(v, field)
	if err != nil {
		return nil, err
	}
	if t, ok := termFromString(raw); ok {
		return t, nil
	}
	return literal(raw), nil
}

func compileObjectTerm(v cue.Value, syms *symbolTable) (resolve.Term, error) {
	ov := v.LookupPath(cue.ParsePath("o"))
	if !ov.Exists() {
		return nil, &CompileError{Field: "pattern.o", Message: "required"}
	}
	if ov.IncompleteKind() == cue.StringKind {
		raw, err := ov.String()
		if err != nil {
			return nil, &CompileError{Field: "pattern.o", Message: err.Error()}
		}
		if t, ok := termFromString(raw); ok {
			return t, nil
		}
	}
	val, err := decodeObject(ov, syms)
	if err != nil {
		return nil, err
	}
	return resolve.Const{Value: val}, nil
}

func compileExpr(v cue.Value) (query.Expr, error) {
	if varVal := v.LookupPath(cue.ParsePath("var")); varVal.Exists() {
		name, err := varVal.String()
		if err != nil {
			return nil, &CompileError{Field: "expr.var", Message: err.Error()}
		}
		return query.Ref{Var: resolve.Variable(name)}, nil
	}
	if litVal := v.LookupPath(cue.ParsePath("lit")); litVal.Exists() {
		val, err := decodeLiteral(litVal)
		if err != nil {
			return nil, &CompileError{Field: "expr.lit", Message: err.Error()}
		}
		return query.Lit{Value: val}, nil
	}
	if opVal := v.LookupPath(cue.ParsePath("op")); opVal.Exists() {
		op, err := opVal.String()
		if err != nil {
			return nil, &CompileError{Field: "expr.op", Message: err.Error()}
		}
		leftVal := v.LookupPath(cue.ParsePath("left"))
		rightVal := v.LookupPath(cue.ParsePath("right"))
		if !leftVal.Exists() || !rightVal.Exists() {
			return nil, &CompileError{Field: "expr", Message: "op requires left and right"}
		}
		left, err := compileExpr(leftVal)
		if err != nil {
			return nil, err
		}
		right, err := compileExpr(rightVal)
		if err != nil {
			return nil, err
		}
		return query.BinOp{Op: query.Operator(op), Left: left, Right: right}, nil
	}
	if funcVal := v.LookupPath(cue.ParsePath("func")); funcVal.Exists() {
		fn, err := funcVal.String()
		if err != nil {
			return nil, &CompileError{Field: "expr.func", Message: err.Error()}
		}
		argsVal := v.LookupPath(cue.ParsePath("args"))
		var args []query.Expr
		if argsVal.Exists() {
			iter, err := argsVal.List()
			if err != nil {
				return nil, &CompileError{Field: "expr.args", Message: err.Error()}
			}
			for iter.Next() {
				arg, err := compileExpr(iter.Value())
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
			}
		}
		return query.Call{Func: query.Function(fn), Args: args}, nil
	}
	return nil, &CompileError{Field: "expr", Message: "must have one of var/lit/op/func"}
}

// CompileError reports a dataset field that failed to compile, with
// enough context (field path) to locate it in the source CUE file.
type CompileError struct {
	Field   string
	Message string
}

func (e *CompileError) Error() string {
	if e.Field == "" {
		return "scenario: " + e.Message
	}
	return fmt.Sprintf("scenario: %s: %s", e.Field, e.Message)
}

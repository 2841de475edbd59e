package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/veritas/internal/conn"
	"github.com/roach88/veritas/internal/graph"
	"github.com/roach88/veritas/internal/ir"
	"github.com/roach88/veritas/internal/query"
	"github.com/roach88/veritas/internal/registry"
	"github.com/roach88/veritas/internal/resolve"
)

// formatterFor builds an OutputFormatter bound to cmd's configured
// writers and rootOpts' verbosity/format flags.
func formatterFor(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// outputExitError reports err through formatter and returns an ExitError
// carrying the CLI-level exit code a caller should use.
func outputExitError(formatter *OutputFormatter, exitCode int, code string, err error) error {
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(exitCode, code, err)
}

// connectOrCreate opens uri's connection, creating it (honoring its
// requested kind, e.g. replaying a durable log) if this is the registry's
// first reference to that name; otherwise returns the existing
// connection. Registry.Connect alone always ignores the requested kind
// on a fresh name, so commands that need a durable-kind connection to
// actually come back durable go through Create first.
func connectOrCreate(r *registry.Registry, uri string) (*conn.Connection, error) {
	if c, err := r.Create(uri); err == nil {
		return c, nil
	}
	return r.Connect(uri)
}

// dbSummary renders a *conn.Database as the plain-data shape the CLI
// prints for connect/transact/as-of/since.
func dbSummary(uri string, db *conn.Database) map[string]any {
	return map[string]any{
		"uri":       uri,
		"tx":        db.T,
		"timestamp": db.Timestamp.Format("2006-01-02T15:04:05.999999999Z"),
		"count":     tripleCount(db.Graph),
	}
}

// tripleCount reports how many triples g holds, resolving an all-wildcard
// pattern rather than any Count call (Count only tests membership of one
// exact triple).
func tripleCount(g graph.Graph) int {
	pattern := resolve.Pattern{
		S: resolve.Var{Name: resolve.Wildcard},
		P: resolve.Var{Name: resolve.Wildcard},
		O: resolve.Var{Name: resolve.Wildcard},
	}
	n := 0
	for range resolve.Resolve(g, pattern, resolve.Binding{}) {
		n++
	}
	return n
}

// resultSummary renders a query.Result as plain data for CLI printing:
// node/keyword values are rendered as their textual form, since a
// terminal has no notion of the graph's internal identity scheme.
func resultSummary(res query.Result) map[string]any {
	m := map[string]any{}
	if res.Scalar != nil {
		m["scalar"] = valueToPlain(res.Scalar)
	}
	if res.Tuple != nil {
		m["tuple"] = rowToPlain(res.Tuple)
	}
	if res.Coll != nil {
		coll := make([]any, len(res.Coll))
		for i, v := range res.Coll {
			coll[i] = valueToPlain(v)
		}
		m["coll"] = coll
	}
	if res.Rows != nil {
		rows := make([]any, len(res.Rows))
		for i, row := range res.Rows {
			rows[i] = rowToPlain(row)
		}
		m["rows"] = rows
	}
	return m
}

func rowToPlain(row []ir.Value) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = valueToPlain(v)
	}
	return out
}

func valueToPlain(v ir.Value) any {
	switch val := v.(type) {
	case ir.Node:
		return val.String()
	case ir.Keyword:
		return ":" + val.String()
	case ir.String:
		return string(val)
	case ir.Int:
		return int64(val)
	case ir.Float:
		return float64(val)
	case ir.Bool:
		return bool(val)
	case ir.Time:
		return val.Time().Format("2006-01-02T15:04:05.999999999Z")
	case ir.Nil:
		return nil
	default:
		return fmt.Sprintf("%v", v)
	}
}

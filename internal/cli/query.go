package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/cobra"

	"github.com/roach88/veritas/internal/query"
	"github.com/roach88/veritas/internal/registry"
	"github.com/roach88/veritas/internal/scenario"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "query <uri> <dataset.cue> <query-name>",
		Short:         "Run a named query from a CUE dataset against a connection's current graph",
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, args[0], args[1], args[2], cmd)
		},
	}
	return cmd
}

func runQuery(opts *RootOptions, uri, datasetPath, queryName string, cmd *cobra.Command) error {
	formatter := formatterFor(opts, cmd)

	data, err := os.ReadFile(datasetPath)
	if err != nil {
		return outputExitError(formatter, ExitCommandError, "E010", fmt.Errorf("read dataset: %w", err))
	}

	ctx := cuecontext.New()
	ds, err := scenario.CompileDataset(ctx.CompileBytes(data))
	if err != nil {
		return outputExitError(formatter, ExitCommandError, "E011", fmt.Errorf("compile dataset: %w", err))
	}

	q, ok := ds.Queries[queryName]
	if !ok {
		return outputExitError(formatter, ExitCommandError, "E012", fmt.Errorf("query %q not found in dataset", queryName))
	}

	r := registry.NewWithStorage(opts.DataDir)
	c, err := connectOrCreate(r, uri)
	if err != nil {
		return outputExitError(formatter, ExitCommandError, "E001", err)
	}

	db, err := c.DB()
	if err != nil {
		return outputExitError(formatter, ExitCommandError, "E002", err)
	}

	result, err := query.Execute(db.Graph, q)
	if err != nil {
		return outputExitError(formatter, ExitFailure, "E030", fmt.Errorf("query: %w", err))
	}

	return formatter.Success(resultSummary(result))
}

package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/cobra"

	"github.com/roach88/veritas/internal/registry"
	"github.com/roach88/veritas/internal/scenario"
)

// NewTransactCommand creates the transact command.
func NewTransactCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transact <uri> <dataset.cue>",
		Short: "Assert a CUE-described dataset's triples into a connection",
		Long: `Transact compiles the CUE dataset at the given path (the same format
internal/scenario fixtures use) and commits its triples as one transaction
against the named connection.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransact(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runTransact(opts *RootOptions, uri, datasetPath string, cmd *cobra.Command) error {
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

	r := registry.NewWithStorage(opts.DataDir)
	if _, err := connectOrCreate(r, uri); err != nil {
		return outputExitError(formatter, ExitCommandError, "E001", err)
	}

	after, err := r.Transact(uri, ds.Triples, nil)
	if err != nil {
		return outputExitError(formatter, ExitFailure, "E020", fmt.Errorf("transact: %w", err))
	}

	summary := dbSummary(uri, after)
	summary["asserted"] = len(ds.Triples)
	return formatter.Success(summary)
}

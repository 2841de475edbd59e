package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/veritas/internal/registry"
)

// NewAsOfCommand creates the as-of command.
func NewAsOfCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "as-of <uri> <tx>",
		Short:         "Report the database as it stood immediately after transaction tx",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsOf(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runAsOf(opts *RootOptions, uri, txArg string, cmd *cobra.Command) error {
	formatter := formatterFor(opts, cmd)

	tx, err := strconv.ParseInt(txArg, 10, 64)
	if err != nil {
		return outputExitError(formatter, ExitCommandError, "E013", fmt.Errorf("parse tx: %w", err))
	}

	r := registry.NewWithStorage(opts.DataDir)
	c, err := connectOrCreate(r, uri)
	if err != nil {
		return outputExitError(formatter, ExitCommandError, "E001", err)
	}

	db, err := c.AsOf(tx)
	if err != nil {
		return outputExitError(formatter, ExitCommandError, "E002", err)
	}

	return formatter.Success(dbSummary(uri, db))
}

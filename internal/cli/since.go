package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/veritas/internal/registry"
)

// NewSinceCommand creates the since command.
func NewSinceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "since <uri> <rfc3339-timestamp>",
		Short:         "Report the first database strictly newer than the given instant",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSince(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runSince(opts *RootOptions, uri, instantArg string, cmd *cobra.Command) error {
	formatter := formatterFor(opts, cmd)

	t, err := time.Parse(time.RFC3339Nano, instantArg)
	if err != nil {
		return outputExitError(formatter, ExitCommandError, "E013", fmt.Errorf("parse timestamp: %w", err))
	}

	r := registry.NewWithStorage(opts.DataDir)
	c, err := connectOrCreate(r, uri)
	if err != nil {
		return outputExitError(formatter, ExitCommandError, "E001", err)
	}

	db, ok, err := c.Since(t)
	if err != nil {
		return outputExitError(formatter, ExitCommandError, "E002", err)
	}
	if !ok {
		return outputExitError(formatter, ExitFailure, "E031", fmt.Errorf("no transaction strictly after %s", instantArg))
	}

	return formatter.Success(dbSummary(uri, db))
}

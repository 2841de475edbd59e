package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/veritas/internal/registry"
)

// NewConnectCommand creates the connect command.
func NewConnectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect <uri>",
		Short: "Connect to a named connection, creating it if absent",
		Long: `Connect resolves a "sys:<kind>://<name>" URI to a connection, creating
it on first reference (honoring the requested kind, replaying a durable
log if one already exists on disk) and reporting its current transaction.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConnect(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runConnect(opts *RootOptions, uri string, cmd *cobra.Command) error {
	formatter := formatterFor(opts, cmd)

	r := registry.NewWithStorage(opts.DataDir)
	c, err := connectOrCreate(r, uri)
	if err != nil {
		return outputExitError(formatter, ExitCommandError, "E001", err)
	}

	db, err := c.DB()
	if err != nil {
		return outputExitError(formatter, ExitCommandError, "E002", err)
	}

	return formatter.Success(dbSummary(uri, db))
}

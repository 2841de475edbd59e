package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/veritas/internal/scenario"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Run a YAML conformance scenario and check its result against its expectation",
		Long: `Validate loads a scenario fixture (internal/scenario's YAML format:
a dataset, a query name, and an expected scalar/tuple/coll/rows), runs the
query against a freshly transacted in-memory graph, and reports whether the
result matches.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runValidate(opts *RootOptions, scenarioPath string, cmd *cobra.Command) error {
	formatter := formatterFor(opts, cmd)

	s, err := scenario.LoadScenario(scenarioPath)
	if err != nil {
		return outputExitError(formatter, ExitCommandError, "E040", fmt.Errorf("load scenario: %w", err))
	}

	outcome, err := scenario.Run(s)
	if err != nil {
		return outputExitError(formatter, ExitFailure, "E041", fmt.Errorf("run scenario: %w", err))
	}

	if err := scenario.Check(s, outcome); err != nil {
		return outputExitError(formatter, ExitFailure, "E042", fmt.Errorf("scenario %s failed: %w", s.Name, err))
	}

	return formatter.Success(map[string]any{
		"scenario": s.Name,
		"valid":    true,
	})
}

// Command veritas is a command-line front end for the connections
// internal/registry manages: connect, transact, query, and time-travel
// against a "sys:<kind>://<name>" URI, plus running a YAML conformance
// scenario from internal/scenario.
package main

import (
	"os"

	"github.com/roach88/veritas/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}

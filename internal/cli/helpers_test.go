package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// execCLI runs the root command with args against fresh out/err buffers and
// returns stdout, exit code, and any Execute error.
func execCLI(t *testing.T, args ...string) (string, int, error) {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), GetExitCode(err), err
}

// jsonSuccess decodes a successful --format json CLIResponse's Data field
// into v.
func jsonSuccess(t *testing.T, raw string, v interface{}) {
	t.Helper()

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	require.Equal(t, "ok", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

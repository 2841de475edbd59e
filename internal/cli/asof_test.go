package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Transaction numbers replay deterministically (1, 2, 3, ...) regardless of
// wall-clock time, so as-of can be asserted precisely across separate CLI
// invocations against the same durable connection.
func TestAsOfReportsStateImmediatelyAfterGivenTx(t *testing.T) {
	dir := t.TempDir()

	_, code, err := execCLI(t, "--data-dir", dir, "transact", "sys:durable://g1", "testdata/basic_join.cue")
	require.NoError(t, err)
	require.Equal(t, ExitSuccess, code)

	_, code, err = execCLI(t, "--data-dir", dir, "transact", "sys:durable://g1", "testdata/basic_join.cue")
	require.NoError(t, err)
	require.Equal(t, ExitSuccess, code)

	out, code, err := execCLI(t, "--format", "json", "--data-dir", dir, "as-of", "sys:durable://g1", "1")
	require.NoError(t, err)
	require.Equal(t, ExitSuccess, code)

	var summary struct {
		Tx    int64 `json:"tx"`
		Count int   `json:"count"`
	}
	jsonSuccess(t, out, &summary)
	assert.Equal(t, int64(1), summary.Tx)
	assert.Equal(t, 3, summary.Count)
}

func TestAsOfRejectsNonNumericTx(t *testing.T) {
	dir := t.TempDir()

	_, code, err := execCLI(t, "--data-dir", dir, "as-of", "sys:simple-graph://g2", "not-a-number")
	assert.Error(t, err)
	assert.Equal(t, ExitCommandError, code)
}

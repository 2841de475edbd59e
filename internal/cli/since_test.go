package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A replayed durable log reassigns fresh wall-clock timestamps to historical
// transactions at replay time, so since cannot be asserted precisely across
// separate CLI invocations. Only the two boundary behaviors are exercised
// here; precise ordering is covered by internal/conn's fake-clock test.
func TestSinceWithAncientInstantFindsInitialDatabase(t *testing.T) {
	dir := t.TempDir()

	_, code, err := execCLI(t, "--data-dir", dir, "transact", "sys:durable://g1", "testdata/basic_join.cue")
	require.NoError(t, err)
	require.Equal(t, ExitSuccess, code)

	out, code, err := execCLI(t, "--format", "json", "--data-dir", dir,
		"since", "sys:durable://g1", "1970-01-01T00:00:00Z")
	require.NoError(t, err)
	require.Equal(t, ExitSuccess, code)

	var summary struct {
		Tx int64 `json:"tx"`
	}
	jsonSuccess(t, out, &summary)
	// The replayed connection's history starts with its empty tx 0
	// database, stamped at open time, which is already after 1970.
	assert.Equal(t, int64(0), summary.Tx)
}

func TestSinceWithFutureInstantReportsNotFound(t *testing.T) {
	dir := t.TempDir()

	_, code, err := execCLI(t, "--data-dir", dir, "transact", "sys:durable://g1", "testdata/basic_join.cue")
	require.NoError(t, err)
	require.Equal(t, ExitSuccess, code)

	_, code, err = execCLI(t, "--data-dir", dir, "since", "sys:durable://g1", "2999-01-01T00:00:00Z")
	assert.Error(t, err)
	assert.Equal(t, ExitFailure, code)
}

func TestSinceRejectsMalformedTimestamp(t *testing.T) {
	dir := t.TempDir()

	_, code, err := execCLI(t, "--data-dir", dir, "since", "sys:simple-graph://g2", "not-a-timestamp")
	assert.Error(t, err)
	assert.Equal(t, ExitCommandError, code)
}

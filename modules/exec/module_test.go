package exec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecCapturesStdout(t *testing.T) {
	out, err := OnRunExec(context.Background(), &Deps{}, &Input{
		Command: "echo",
		Args:    []string{"hello"},
	})
	require.NoError(t, err)

	output, ok := out.(Output)
	require.True(t, ok)
	assert.Equal(t, "hello\n", output.Stdout)
	assert.Equal(t, 0, output.ExitCode)
}

func TestExecNonZeroExitFails(t *testing.T) {
	_, err := OnRunExec(context.Background(), &Deps{}, &Input{
		Command: "sh",
		Args:    []string{"-c", "echo boom >&2; exit 3"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with code 3")
	assert.Contains(t, err.Error(), "boom")
}

func TestExecMissingCommandFails(t *testing.T) {
	_, err := OnRunExec(context.Background(), &Deps{}, &Input{
		Command: "definitely-not-a-real-command",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start")
}

func TestExecEnvAndDir(t *testing.T) {
	dir := t.TempDir()
	out, err := OnRunExec(context.Background(), &Deps{}, &Input{
		Command: "sh",
		Args:    []string{"-c", "echo $GM_TEST_VALUE && pwd"},
		Dir:     dir,
		Env:     map[string]string{"GM_TEST_VALUE": "42"},
	})
	require.NoError(t, err)

	output := out.(Output)
	assert.Contains(t, output.Stdout, "42")
}

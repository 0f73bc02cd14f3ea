package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupRemovesListedPaths(t *testing.T) {
	workspace := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(workspace, "dist"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(workspace, "coverage.out"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(workspace, "keep.txt"), []byte("x"), 0o644))

	out, err := OnRunCleanup(context.Background(), &Deps{}, &Input{
		Paths:     []string{"dist", "coverage.out", "not-there"},
		Workspace: workspace,
	})
	require.NoError(t, err)
	assert.Equal(t, Output{Removed: 2}, out)

	assert.NoDirExists(t, filepath.Join(workspace, "dist"))
	assert.NoFileExists(t, filepath.Join(workspace, "coverage.out"))
	assert.FileExists(t, filepath.Join(workspace, "keep.txt"))
}

func TestCleanupRejectsAbsolutePath(t *testing.T) {
	_, err := OnRunCleanup(context.Background(), &Deps{}, &Input{
		Paths:     []string{"/etc"},
		Workspace: t.TempDir(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absolute path")
}

func TestCleanupRejectsEscapingPath(t *testing.T) {
	_, err := OnRunCleanup(context.Background(), &Deps{}, &Input{
		Paths:     []string{"../outside"},
		Workspace: t.TempDir(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes the workspace")
}

func TestCleanupRejectsWorkspaceItself(t *testing.T) {
	_, err := OnRunCleanup(context.Background(), &Deps{}, &Input{
		Paths:     []string{"."},
		Workspace: t.TempDir(),
	})
	require.Error(t, err)
}

// Package testutil provides the integration harness and in-memory test
// modules shared by the engine and system tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omicsworks/gutmetrics/internal/app"
	hclloader "github.com/omicsworks/gutmetrics/internal/hcl"
	"github.com/omicsworks/gutmetrics/internal/registry"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	Dir       string
}

// RunIntegrationTest runs a full pipeline from inline HCL files using a
// default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return runIntegrationTest(context.Background(), t, files, "", modules...)
}

// RunTargetedTest is RunIntegrationTest with the run restricted to one task
// target, mirroring the -task flag.
func RunTargetedTest(t *testing.T, files map[string]string, task string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return runIntegrationTest(context.Background(), t, files, task, modules...)
}

// RunIntegrationTestWithContext runs a full pipeline from inline HCL files
// with a caller-provided context.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, modules ...registry.Module) *HarnessResult {
	t.Helper()
	return runIntegrationTest(ctx, t, files, "", modules...)
}

// runIntegrationTest writes the given files (keyed by path relative to a
// fresh temp dir, e.g. "modules/x/manifest.hcl" or "pipelines/main.hcl"),
// builds an app around them and runs it to completion.
func runIntegrationTest(ctx context.Context, t *testing.T, files map[string]string, task string, modules ...registry.Module) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	pipelinesDir := filepath.Join(tmpDir, "pipelines")
	modulesDir := filepath.Join(tmpDir, "modules")
	require.NoError(t, os.MkdirAll(pipelinesDir, 0o755))
	require.NoError(t, os.MkdirAll(modulesDir, 0o755))

	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	appConfig, err := app.NewConfig(app.Config{
		PipelinePath: pipelinesDir,
		ModulesPath:  modulesDir,
		Task:         task,
		LogLevel:     "debug",
		LogFormat:    "text",
		WorkerCount:  4,
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}

	var testApp *app.App
	var runErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				runErr = fmt.Errorf("application startup panicked | %v", r)
			}
		}()
		testApp, runErr = app.NewApp(logBuffer, appConfig, hclloader.NewLoader(), modules...)
		if runErr == nil {
			runErr = testApp.Run(ctx)
		}
	}()

	if os.Getenv("GM_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
		Dir:       tmpDir,
	}
}

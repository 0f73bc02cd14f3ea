// Package cleanup provides the cleanup runner, which removes build and
// cache artifacts from the workspace.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/omicsworks/gutmetrics/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the cleanup runner.
type Input struct {
	Paths     []string `gm:"paths"`
	Workspace string   `gm:"workspace"`
}

// Deps is empty because this runner does not use any resources.
type Deps struct{}

// Output reports how many paths were removed.
type Output struct {
	Removed int `cty:"removed"`
}

// OnRunCleanup removes each listed path. Paths are resolved relative to the
// workspace and must stay inside it; absolute paths are rejected.
func OnRunCleanup(ctx context.Context, deps *Deps, input *Input) (any, error) {
	workspace := input.Workspace
	if workspace == "" {
		workspace = "."
	}
	slog.Info("Cleaning workspace.", "workspace", workspace, "paths", len(input.Paths))

	removed := 0
	for _, p := range input.Paths {
		if filepath.IsAbs(p) {
			return nil, fmt.Errorf("refusing to remove absolute path %q", p)
		}
		full := filepath.Join(workspace, p)
		rel, err := filepath.Rel(workspace, full)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == "." {
			return nil, fmt.Errorf("path %q escapes the workspace", p)
		}

		if _, err := os.Stat(full); os.IsNotExist(err) {
			continue
		}
		if err := os.RemoveAll(full); err != nil {
			return nil, fmt.Errorf("failed to remove %s: %w", full, err)
		}
		slog.Debug("Removed path.", "path", full)
		removed++
	}

	return Output{Removed: removed}, nil
}

// Register registers the module's runner with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunCleanup", &registry.RegisteredRunner{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		NewDeps:   func() any { return new(Deps) },
		Fn:        OnRunCleanup,
	})
}

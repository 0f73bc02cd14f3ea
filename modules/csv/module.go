// Package csv provides runners for loading sample tables from CSV files
// into the frame store and writing them back out.
package csv

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"

	"github.com/omicsworks/gutmetrics/internal/frame"
	"github.com/omicsworks/gutmetrics/internal/registry"
	"github.com/omicsworks/gutmetrics/internal/store"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// LoadInput defines the arguments for the load_csv runner.
type LoadInput struct {
	Path string `gm:"path"`
	Name string `gm:"name"`
}

// LoadDeps declares the frame store injected from the 'uses' block.
type LoadDeps struct {
	Store *store.Store `gm:"store"`
}

// LoadOutput is published under the stage's output for downstream stages.
type LoadOutput struct {
	Name string `cty:"name"`
	Rows int    `cty:"rows"`
	Cols int    `cty:"cols"`
}

// OnRunLoadCSV reads a CSV file and stores the resulting frame under Name.
func OnRunLoadCSV(ctx context.Context, deps *LoadDeps, input *LoadInput) (any, error) {
	slog.Info("Loading CSV file.", "path", input.Path, "name", input.Name)

	file, err := os.Open(input.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", input.Path, err)
	}
	defer file.Close()

	f, err := frame.ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", input.Path, err)
	}

	deps.Store.Put(input.Name, f)
	return LoadOutput{Name: input.Name, Rows: f.NumRows(), Cols: f.NumCols()}, nil
}

// WriteInput defines the arguments for the write_csv runner.
type WriteInput struct {
	Name string `gm:"name"`
	Path string `gm:"path"`
}

// WriteDeps declares the frame store injected from the 'uses' block.
type WriteDeps struct {
	Store *store.Store `gm:"store"`
}

// WriteOutput reports what was written.
type WriteOutput struct {
	Path string `cty:"path"`
	Rows int    `cty:"rows"`
}

// OnRunWriteCSV serializes the named frame to a CSV file, creating parent
// directories as needed.
func OnRunWriteCSV(ctx context.Context, deps *WriteDeps, input *WriteInput) (any, error) {
	slog.Info("Writing CSV file.", "name", input.Name, "path", input.Path)

	f, err := deps.Store.Get(input.Name)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(input.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(input.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", input.Path, err)
	}
	defer file.Close()

	if err := frame.WriteCSV(file, f); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", input.Path, err)
	}
	return WriteOutput{Path: input.Path, Rows: f.NumRows()}, nil
}

// Register registers the module's runners with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunLoadCSV", &registry.RegisteredRunner{
		NewInput:  func() any { return new(LoadInput) },
		InputType: reflect.TypeOf(LoadInput{}),
		NewDeps:   func() any { return new(LoadDeps) },
		Fn:        OnRunLoadCSV,
	})
	r.RegisterRunner("OnRunWriteCSV", &registry.RegisteredRunner{
		NewInput:  func() any { return new(WriteInput) },
		InputType: reflect.TypeOf(WriteInput{}),
		NewDeps:   func() any { return new(WriteDeps) },
		Fn:        OnRunWriteCSV,
	})
}

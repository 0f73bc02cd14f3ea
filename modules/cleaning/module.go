// Package cleaning provides runners that standardize and sanitize stored
// sample tables before scaling.
package cleaning

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/omicsworks/gutmetrics/internal/cleaning"
	"github.com/omicsworks/gutmetrics/internal/registry"
	"github.com/omicsworks/gutmetrics/internal/store"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Deps declares the frame store injected from the 'uses' block. All runners
// in this module share it.
type Deps struct {
	Store *store.Store `gm:"store"`
}

// StandardizeInput defines the arguments for the standardize_index runner.
type StandardizeInput struct {
	Name        string `gm:"name"`
	IndexColumn string `gm:"index_column"`
	Result      string `gm:"result"`
}

// StandardizeOutput reports the indexed frame.
type StandardizeOutput struct {
	Name string `cty:"name"`
	Rows int    `cty:"rows"`
}

// OnRunStandardizeIndex re-indexes the named frame by its sample identifier
// column. An empty result name overwrites the frame in place.
func OnRunStandardizeIndex(ctx context.Context, deps *Deps, input *StandardizeInput) (any, error) {
	slog.Info("Standardizing frame index.", "name", input.Name, "index_column", input.IndexColumn)

	f, err := deps.Store.Get(input.Name)
	if err != nil {
		return nil, err
	}

	out, err := cleaning.StandardizeIndex(f, input.IndexColumn)
	if err != nil {
		return nil, err
	}

	result := input.Result
	if result == "" {
		result = input.Name
	}
	deps.Store.Put(result, out)
	return StandardizeOutput{Name: result, Rows: out.NumRows()}, nil
}

// OutlierInput defines the arguments for the remove_outliers runner.
type OutlierInput struct {
	Name   string  `gm:"name"`
	Column string  `gm:"column"`
	NStd   float64 `gm:"n_std"`
	Result string  `gm:"result"`
}

// OutlierOutput reports how many rows survived the filter.
type OutlierOutput struct {
	Name    string `cty:"name"`
	Rows    int    `cty:"rows"`
	Removed int    `cty:"removed"`
}

// OnRunRemoveOutliers drops rows whose value in the given column falls
// outside the IQR fences.
func OnRunRemoveOutliers(ctx context.Context, deps *Deps, input *OutlierInput) (any, error) {
	slog.Info("Removing outliers.", "name", input.Name, "column", input.Column, "n_std", input.NStd)

	f, err := deps.Store.Get(input.Name)
	if err != nil {
		return nil, err
	}

	out, err := cleaning.RemoveOutliers(f, input.Column, input.NStd)
	if err != nil {
		return nil, err
	}

	result := input.Result
	if result == "" {
		result = input.Name
	}
	deps.Store.Put(result, out)
	return OutlierOutput{
		Name:    result,
		Rows:    out.NumRows(),
		Removed: f.NumRows() - out.NumRows(),
	}, nil
}

// MetadataInput defines the arguments for the clean_metadata runner.
type MetadataInput struct {
	Name   string `gm:"name"`
	Result string `gm:"result"`
}

// MetadataOutput reports the cleaned frame.
type MetadataOutput struct {
	Name string `cty:"name"`
	Rows int    `cty:"rows"`
}

// OnRunCleanMetadata verifies the study's required metadata columns.
func OnRunCleanMetadata(ctx context.Context, deps *Deps, input *MetadataInput) (any, error) {
	slog.Info("Cleaning metadata.", "name", input.Name)

	f, err := deps.Store.Get(input.Name)
	if err != nil {
		return nil, err
	}

	out, err := cleaning.CleanMetadata(f)
	if err != nil {
		return nil, err
	}

	result := input.Result
	if result == "" {
		result = input.Name
	}
	deps.Store.Put(result, out)
	return MetadataOutput{Name: result, Rows: out.NumRows()}, nil
}

// Register registers the module's runners with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunStandardizeIndex", &registry.RegisteredRunner{
		NewInput:  func() any { return new(StandardizeInput) },
		InputType: reflect.TypeOf(StandardizeInput{}),
		NewDeps:   func() any { return new(Deps) },
		Fn:        OnRunStandardizeIndex,
	})
	r.RegisterRunner("OnRunRemoveOutliers", &registry.RegisteredRunner{
		NewInput:  func() any { return new(OutlierInput) },
		InputType: reflect.TypeOf(OutlierInput{}),
		NewDeps:   func() any { return new(Deps) },
		Fn:        OnRunRemoveOutliers,
	})
	r.RegisterRunner("OnRunCleanMetadata", &registry.RegisteredRunner{
		NewInput:  func() any { return new(MetadataInput) },
		InputType: reflect.TypeOf(MetadataInput{}),
		NewDeps:   func() any { return new(Deps) },
		Fn:        OnRunCleanMetadata,
	})
}

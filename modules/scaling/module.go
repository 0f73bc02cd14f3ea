// Package scaling provides runners that z-score stored omics tables and
// combine them into a single analysis-ready frame.
package scaling

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/omicsworks/gutmetrics/internal/frame"
	"github.com/omicsworks/gutmetrics/internal/registry"
	"github.com/omicsworks/gutmetrics/internal/scaling"
	"github.com/omicsworks/gutmetrics/internal/store"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Deps declares the frame store injected from the 'uses' block.
type Deps struct {
	Store *store.Store `gm:"store"`
}

// ScaleInput defines the arguments for the scale_frame runner.
type ScaleInput struct {
	Name           string   `gm:"name"`
	Omics          string   `gm:"omics"`
	ExcludeColumns []string `gm:"exclude_columns"`
	Result         string   `gm:"result"`
}

// ScaleOutput reports the scaled frame.
type ScaleOutput struct {
	Name     string   `cty:"name"`
	Features []string `cty:"features"`
}

// OnRunScaleFrame standardizes the named frame's feature columns while
// preserving its metadata columns. An empty exclude list selects the
// defaults for the given omics kind.
func OnRunScaleFrame(ctx context.Context, deps *Deps, input *ScaleInput) (any, error) {
	slog.Info("Scaling frame.", "name", input.Name, "omics", input.Omics)

	f, err := deps.Store.Get(input.Name)
	if err != nil {
		return nil, err
	}

	var exclude []string
	if len(input.ExcludeColumns) > 0 {
		exclude = input.ExcludeColumns
	}

	var out *frame.Frame
	switch input.Omics {
	case "metabolomics":
		out, err = scaling.ScaleMetabolomics(f, exclude)
	case "proteomics":
		out, err = scaling.ScaleProteomics(f, exclude)
	case "clinical":
		out, err = scaling.ScaleClinicalLabs(f, exclude)
	default:
		return nil, fmt.Errorf("unknown omics kind %q: must be 'metabolomics', 'proteomics' or 'clinical'", input.Omics)
	}
	if err != nil {
		return nil, err
	}

	result := input.Result
	if result == "" {
		result = input.Name
	}
	deps.Store.Put(result, out)
	return ScaleOutput{
		Name:     result,
		Features: scaling.ScaledFeatureNames(out, exclude),
	}, nil
}

// CombineInput defines the arguments for the combine_frames runner. The
// proteomics and clinical frames are optional.
type CombineInput struct {
	Metabolomics string `gm:"metabolomics"`
	Proteomics   string `gm:"proteomics"`
	Clinical     string `gm:"clinical"`
	Join         string `gm:"join"`
	Result       string `gm:"result"`
}

// CombineOutput reports the combined frame.
type CombineOutput struct {
	Name string `cty:"name"`
	Rows int    `cty:"rows"`
	Cols int    `cty:"cols"`
}

// OnRunCombineFrames scales each named omics frame with its default
// metadata exclusions and joins them on the sample index.
func OnRunCombineFrames(ctx context.Context, deps *Deps, input *CombineInput) (any, error) {
	slog.Info("Combining omics frames.",
		"metabolomics", input.Metabolomics,
		"proteomics", input.Proteomics,
		"clinical", input.Clinical,
		"join", input.Join)

	metabolomics, err := deps.Store.Get(input.Metabolomics)
	if err != nil {
		return nil, err
	}

	var proteomics, clinical *frame.Frame
	if input.Proteomics != "" {
		if proteomics, err = deps.Store.Get(input.Proteomics); err != nil {
			return nil, err
		}
	}
	if input.Clinical != "" {
		if clinical, err = deps.Store.Get(input.Clinical); err != nil {
			return nil, err
		}
	}

	combined, err := scaling.ScaleAndCombine(metabolomics, proteomics, clinical, input.Join)
	if err != nil {
		return nil, err
	}

	deps.Store.Put(input.Result, combined)
	return CombineOutput{
		Name: input.Result,
		Rows: combined.NumRows(),
		Cols: combined.NumCols(),
	}, nil
}

// Register registers the module's runners with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunScaleFrame", &registry.RegisteredRunner{
		NewInput:  func() any { return new(ScaleInput) },
		InputType: reflect.TypeOf(ScaleInput{}),
		NewDeps:   func() any { return new(Deps) },
		Fn:        OnRunScaleFrame,
	})
	r.RegisterRunner("OnRunCombineFrames", &registry.RegisteredRunner{
		NewInput:  func() any { return new(CombineInput) },
		InputType: reflect.TypeOf(CombineInput{}),
		NewDeps:   func() any { return new(Deps) },
		Fn:        OnRunCombineFrames,
	})
}

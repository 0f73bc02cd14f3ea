// Package validate provides the validate_frame runner, which checks stored
// omics tables against per-kind rules and fails the stage on violation.
package validate

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/omicsworks/gutmetrics/internal/cleaning"
	"github.com/omicsworks/gutmetrics/internal/registry"
	"github.com/omicsworks/gutmetrics/internal/store"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the validate_frame runner.
type Input struct {
	Name            string   `gm:"name"`
	Kind            string   `gm:"kind"`
	RequiredColumns []string `gm:"required_columns"`
	MinReads        int      `gm:"min_reads"`
}

// Deps declares the frame store injected from the 'uses' block.
type Deps struct {
	Store *store.Store `gm:"store"`
}

// Output is published on success.
type Output struct {
	Valid bool `cty:"valid"`
}

// OnRunValidateFrame validates the named frame as the given omics kind.
func OnRunValidateFrame(ctx context.Context, deps *Deps, input *Input) (any, error) {
	slog.Info("Validating frame.", "name", input.Name, "kind", input.Kind)

	f, err := deps.Store.Get(input.Name)
	if err != nil {
		return nil, err
	}

	switch input.Kind {
	case "metabolomics":
		var required []string
		if len(input.RequiredColumns) > 0 {
			required = input.RequiredColumns
		}
		err = cleaning.ValidateMetabolomics(f, required)
	case "microbiome":
		err = cleaning.ValidateMicrobiome(f, input.MinReads)
	default:
		return nil, fmt.Errorf("unknown validation kind %q: must be 'metabolomics' or 'microbiome'", input.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("validation of frame %q failed: %w", input.Name, err)
	}

	return Output{Valid: true}, nil
}

// Register registers the module's runner with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunValidateFrame", &registry.RegisteredRunner{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		NewDeps:   func() any { return new(Deps) },
		Fn:        OnRunValidateFrame,
	})
}

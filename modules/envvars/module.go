// Package envvars provides the env_vars runner, which exposes selected
// environment variables to downstream stages.
package envvars

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"

	"github.com/omicsworks/gutmetrics/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the env_vars runner.
type Input struct {
	Names    []string `gm:"names"`
	Required bool     `gm:"required"`
}

// Deps is empty because this runner does not use any resources.
type Deps struct{}

// Output maps each requested variable name to its value.
type Output struct {
	Values map[string]string `cty:"values"`
}

// OnRunEnvVars reads the requested environment variables. When Required is
// set, a missing variable fails the stage.
func OnRunEnvVars(ctx context.Context, deps *Deps, input *Input) (any, error) {
	slog.Info("Reading environment variables.", "count", len(input.Names))

	values := make(map[string]string, len(input.Names))
	for _, name := range input.Names {
		val, ok := os.LookupEnv(name)
		if !ok && input.Required {
			return nil, fmt.Errorf("required environment variable %q is not set", name)
		}
		values[name] = val
	}
	return Output{Values: values}, nil
}

// Register registers the module's runner with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunEnvVars", &registry.RegisteredRunner{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		NewDeps:   func() any { return new(Deps) },
		Fn:        OnRunEnvVars,
	})
}

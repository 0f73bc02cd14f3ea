// Package fetch provides the fetch runner, which downloads a study export
// over HTTP to a local file.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"

	"resty.dev/v3"

	"github.com/omicsworks/gutmetrics/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the fetch runner.
type Input struct {
	URL     string            `gm:"url"`
	Dest    string            `gm:"dest"`
	Headers map[string]string `gm:"headers"`
}

// Deps is empty because this runner does not use any resources.
type Deps struct{}

// Output reports the download result.
type Output struct {
	Dest   string `cty:"dest"`
	Status int    `cty:"status"`
	Bytes  int    `cty:"bytes"`
}

// OnRunFetch downloads the URL and writes the body to Dest, creating parent
// directories as needed.
func OnRunFetch(ctx context.Context, deps *Deps, input *Input) (any, error) {
	slog.Info("Fetching URL.", "url", input.URL, "dest", input.Dest)

	client := resty.New()
	defer client.Close()

	res, err := client.R().
		SetContext(ctx).
		SetHeaders(input.Headers).
		Get(input.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", input.URL, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetch of %s returned status %d", input.URL, res.StatusCode())
	}

	if dir := filepath.Dir(input.Dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	body := res.Bytes()
	if err := os.WriteFile(input.Dest, body, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", input.Dest, err)
	}

	slog.Info("Fetch finished.", "dest", input.Dest, "bytes", len(body))
	return Output{Dest: input.Dest, Status: res.StatusCode(), Bytes: len(body)}, nil
}

// Register registers the module's runner with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunFetch", &registry.RegisteredRunner{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		NewDeps:   func() any { return new(Deps) },
		Fn:        OnRunFetch,
	})
}

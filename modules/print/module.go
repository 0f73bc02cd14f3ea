// Package print provides the print runner: a run report stage that writes
// key/value lines and, when a frame name is given, a summary of that frame
// from the store.
package print

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strings"

	"github.com/omicsworks/gutmetrics/internal/registry"
	"github.com/omicsworks/gutmetrics/internal/store"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the print runner.
type Input struct {
	Values map[string]string `gm:"input"`
	Frame  string            `gm:"frame"`
}

// Deps optionally carries the frame store so a report can describe a frame.
type Deps struct {
	Store *store.Store `gm:"store"`
}

// renderReport formats the report. Split from the handler so the output is
// testable without capturing stdout.
func renderReport(deps *Deps, input *Input) (string, error) {
	var b strings.Builder

	keys := make([]string, 0, len(input.Values))
	for k := range input.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "      %s = %q\n", k, input.Values[k])
	}

	if input.Frame != "" {
		if deps.Store == nil {
			return "", fmt.Errorf("frame %q requested but no store attached via 'uses'", input.Frame)
		}
		f, err := deps.Store.Get(input.Frame)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "      frame %s: %d rows, %d columns\n", input.Frame, f.NumRows(), f.NumCols())
		if f.HasIndex {
			fmt.Fprintf(&b, "        index %s\n", f.IndexName)
		}
		for _, col := range f.Columns {
			fmt.Fprintf(&b, "        %s (%s)\n", col.Name, col.Kind)
		}
	}

	return b.String(), nil
}

// OnRunPrint is the handler for the 'print' runner's on_run lifecycle event.
func OnRunPrint(ctx context.Context, deps *Deps, input *Input) (any, error) {
	slog.Info("Printing run report.")

	report, err := renderReport(deps, input)
	if err != nil {
		return nil, err
	}
	fmt.Print(report)

	return nil, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunPrint", &registry.RegisteredRunner{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		NewDeps:   func() any { return new(Deps) },
		Fn:        OnRunPrint,
	})
}

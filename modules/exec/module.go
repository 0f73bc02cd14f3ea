// Package exec provides the exec runner, which shells out to development
// tooling (formatters, linters, test runners) as a pipeline stage.
package exec

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"reflect"

	"github.com/omicsworks/gutmetrics/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for the exec runner.
type Input struct {
	Command string            `gm:"command"`
	Args    []string          `gm:"args"`
	Dir     string            `gm:"dir"`
	Env     map[string]string `gm:"env"`
}

// Deps is empty because this runner does not use any resources.
type Deps struct{}

// Output captures the command's result for downstream stages.
type Output struct {
	Stdout   string `cty:"stdout"`
	ExitCode int    `cty:"exit_code"`
}

// OnRunExec runs the command and fails the stage on a non-zero exit.
func OnRunExec(ctx context.Context, deps *Deps, input *Input) (any, error) {
	slog.Info("Running command.", "command", input.Command, "args", input.Args)

	cmd := exec.CommandContext(ctx, input.Command, input.Args...)
	cmd.Dir = input.Dir
	cmd.Env = os.Environ()
	for k, v := range input.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if stderr.Len() > 0 {
		slog.Debug("Command stderr.", "command", input.Command, "stderr", stderr.String())
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("command '%s' exited with code %d: %s",
				input.Command, exitErr.ExitCode(), stderr.String())
		}
		return nil, fmt.Errorf("command '%s' failed to start: %w", input.Command, err)
	}

	slog.Info("Command finished.", "command", input.Command)
	return Output{Stdout: stdout.String(), ExitCode: 0}, nil
}

// Register registers the module's runner with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterRunner("OnRunExec", &registry.RegisteredRunner{
		NewInput:  func() any { return new(Input) },
		InputType: reflect.TypeOf(Input{}),
		NewDeps:   func() any { return new(Deps) },
		Fn:        OnRunExec,
	})
}

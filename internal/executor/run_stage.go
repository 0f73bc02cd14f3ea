package executor

import (
	"context"
	"fmt"
	"reflect"

	"github.com/omicsworks/gutmetrics/internal/ctxlog"
	"github.com/omicsworks/gutmetrics/internal/dag"
)

// runStageNode handles the execution of a single stage node.
func (e *Executor) runStageNode(ctx context.Context, node *dag.Node) error {
	logger := ctxlog.FromContext(ctx).With("stage", node.ID)
	logger.Info("▶️ Starting stage")

	runnerDef, ok := e.registry.DefinitionRegistry[node.StageConfig.RunnerType]
	if !ok {
		return fmt.Errorf("unknown runner type '%s'", node.StageConfig.RunnerType)
	}
	handlerName := runnerDef.Lifecycle.OnRun
	registeredHandler, ok := e.registry.HandlerRegistry[handlerName]
	if !ok {
		return fmt.Errorf("handler '%s' not registered", handlerName)
	}

	evalCtx := e.buildEvalContext(ctx, node)

	inputStruct := registeredHandler.NewInput()
	if inputStruct != nil {
		err := e.converter.DecodeBody(ctx, inputStruct, node.StageConfig.Arguments, runnerDef.Inputs, evalCtx)
		if err != nil {
			return fmt.Errorf("failed to decode arguments for stage %s: %w", node.ID, err)
		}
	}
	logger.Debug("Stage input decoded.", "data", formatValueForLogs(inputStruct))

	depsStruct, err := e.buildDepsStruct(ctx, node, registeredHandler)
	if err != nil {
		return err
	}

	logger.Debug("Calling stage run handler.", "handler", handlerName)
	handlerFunc := reflect.ValueOf(registeredHandler.Fn)
	callArgs := []reflect.Value{reflect.ValueOf(ctx), reflect.ValueOf(depsStruct)}

	if inputStruct == nil {
		inputType := handlerFunc.Type().In(2)
		callArgs = append(callArgs, reflect.Zero(inputType))
	} else {
		callArgs = append(callArgs, reflect.ValueOf(inputStruct))
	}

	results := handlerFunc.Call(callArgs)
	nativeOutput, errResult := results[0].Interface(), results[1].Interface()
	if errResult != nil {
		return errResult.(error)
	}

	if nativeOutput != nil {
		ctyOutput, err := e.converter.ToCtyValue(nativeOutput)
		if err != nil {
			return fmt.Errorf("failed to convert handler output to cty.Value for stage %s: %w", node.ID, err)
		}
		node.Output = ctyOutput
	}

	logger.Info("✅ Finished stage")
	return nil
}

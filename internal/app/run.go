package app

import (
	"context"

	"github.com/omicsworks/gutmetrics/internal/ctxlog"
	"github.com/omicsworks/gutmetrics/internal/dag"
	"github.com/omicsworks/gutmetrics/internal/executor"
)

// Run loads the pipeline, validates the registry against the loaded
// manifests, builds the execution graph and runs it to completion.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheck(ctx)
	}

	a.logger.Info("Loading configuration.",
		"pipeline", a.config.PipelinePath,
		"modules", a.config.ModulesPath)
	model, converter, err := a.loader.Load(ctx, a.config.ModulesPath, a.config.PipelinePath)
	if err != nil {
		return err
	}

	a.registry.PopulateDefinitionsFromModel(model)
	if err := a.registry.ValidateRegistry(ctx); err != nil {
		return err
	}

	graph, err := dag.Build(ctx, model, a.registry)
	if err != nil {
		return err
	}

	if a.config.Task != "" {
		if err := graph.PruneToTarget(ctx, a.config.Task); err != nil {
			return err
		}
		a.logger.Info("Graph pruned to task.", "task", a.config.Task, "nodes", len(graph.Nodes))
	}

	exec := executor.New(graph, a.config.WorkerCount, a.registry, converter)
	return exec.Run(ctx)
}

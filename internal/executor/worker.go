package executor

import (
	"context"

	"github.com/omicsworks/gutmetrics/internal/ctxlog"
	"github.com/omicsworks/gutmetrics/internal/dag"
)

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, readyChan chan *dag.Node, cancel context.CancelFunc, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for n := range readyChan {
		workerLogger := logger.With("workerID", workerID, "nodeID", n.ID)

		if ctx.Err() != nil {
			if n.TrySkip(ctx.Err()) {
				e.wg.Done()
				e.skipDependents(ctx, n, ctx.Err())
			}
			continue
		}

		workerLogger.Debug("Worker picked up node for execution.")
		n.SetState(dag.Running)

		var err error
		switch n.Type {
		case dag.ResourceNode:
			err = e.runResourceNode(ctx, n)
		case dag.StageNode:
			err = e.runStageNode(ctx, n)
		}

		if err != nil {
			workerLogger.Error("Node execution failed.", "error", err)
			n.SetState(dag.Failed)
			n.Error = err
			e.recordError(err)
			cancel()
			e.skipDependents(ctx, n, err)
			e.wg.Done()
			continue
		}

		workerLogger.Debug("Node execution succeeded.")
		n.SetState(dag.Done)

		// Unlock dependents whose last dependency just finished.
		for _, dependent := range n.Dependents {
			if dependent.DecrementDepCount() == 0 {
				workerLogger.Debug("Unlocking dependent node.", "dependentID", dependent.ID)
				readyChan <- dependent
			}
		}

		// When the last stage using a resource finishes, destroy it early.
		if n.Type == dag.StageNode {
			for _, dep := range n.Deps {
				if dep.Type == dag.ResourceNode && dep.DecrementDescendantCount() == 0 {
					workerLogger.Debug("Scheduling efficient destruction for resource.", "resourceID", dep.ID)
					go e.destroyResource(ctx, dep)
				}
			}
		}

		e.wg.Done()
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

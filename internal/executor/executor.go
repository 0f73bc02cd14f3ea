// Package executor orchestrates the concurrent execution of a built
// dependency graph: dispatching ready nodes to workers, failing fast on
// errors, and managing resource create/destroy lifecycles.
package executor

import (
	"context"
	"sync"

	"github.com/omicsworks/gutmetrics/internal/config"
	"github.com/omicsworks/gutmetrics/internal/ctxlog"
	"github.com/omicsworks/gutmetrics/internal/dag"
	"github.com/omicsworks/gutmetrics/internal/registry"
)

// Executor runs a dependency graph to completion with a fixed worker pool.
type Executor struct {
	Graph     *dag.Graph
	workers   int
	registry  *registry.Registry
	converter config.Converter

	wg                sync.WaitGroup
	resourceInstances sync.Map

	mu       sync.Mutex
	firstErr error
	cleanups map[string]func()
}

// New creates an executor for the given graph.
func New(graph *dag.Graph, workers int, r *registry.Registry, converter config.Converter) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{
		Graph:     graph,
		workers:   workers,
		registry:  r,
		converter: converter,
		cleanups:  make(map[string]func()),
	}
}

// Run executes the graph. It returns the first node error encountered, after
// all in-flight work has settled and all resources have been destroyed.
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.Graph.InitCounters()

	readyChan := make(chan *dag.Node, len(e.Graph.Nodes))
	e.wg.Add(len(e.Graph.Nodes))

	var workerWg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		workerWg.Add(1)
		go func(id int) {
			defer workerWg.Done()
			e.worker(ctx, readyChan, cancel, id)
		}(i)
	}

	// Seed the pool with all root nodes.
	roots := 0
	for _, n := range e.Graph.Nodes {
		if len(n.Deps) == 0 {
			readyChan <- n
			roots++
		}
	}
	logger.Debug("Executor seeded root nodes.", "roots", roots)

	e.wg.Wait()
	close(readyChan)
	workerWg.Wait()

	// Destroy any resources that were not already destroyed by the
	// descendant-count fast path (e.g. after a failure).
	e.runRemainingCleanups(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.firstErr
}

// recordError keeps the first error for the final result.
func (e *Executor) recordError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.firstErr == nil {
		e.firstErr = err
	}
}

// pushCleanup registers the destroy function for a created resource.
func (e *Executor) pushCleanup(node *dag.Node, fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cleanups[node.ID] = fn
}

// destroyResource runs and removes the cleanup for a single resource node.
func (e *Executor) destroyResource(ctx context.Context, node *dag.Node) {
	e.mu.Lock()
	fn, ok := e.cleanups[node.ID]
	delete(e.cleanups, node.ID)
	e.mu.Unlock()
	if ok {
		fn()
	}
}

// runRemainingCleanups destroys every resource still alive at the end of a run.
func (e *Executor) runRemainingCleanups(ctx context.Context) {
	e.mu.Lock()
	pending := make([]func(), 0, len(e.cleanups))
	for id, fn := range e.cleanups {
		pending = append(pending, fn)
		delete(e.cleanups, id)
	}
	e.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

// skipDependents transitively skips every pending dependent of a node.
func (e *Executor) skipDependents(ctx context.Context, n *dag.Node, cause error) {
	logger := ctxlog.FromContext(ctx)
	for _, dependent := range n.Dependents {
		if dependent.TrySkip(cause) {
			logger.Debug("Skipping dependent node.", "node", dependent.ID, "cause", cause)
			e.wg.Done()
			e.skipDependents(ctx, dependent, cause)
		}
	}
}

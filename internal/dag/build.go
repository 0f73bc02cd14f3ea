package dag

import (
	"context"
	"fmt"

	"github.com/omicsworks/gutmetrics/internal/config"
	"github.com/omicsworks/gutmetrics/internal/ctxlog"
	"github.com/omicsworks/gutmetrics/internal/registry"
)

// Build constructs a complete, validated dependency graph from a config model.
func Build(ctx context.Context, model *config.Model, r *registry.Registry) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")
	graph := &Graph{Nodes: make(map[string]*Node)}

	// First pass: create all nodes for stages and resources.
	createNodes(ctx, model.Pipeline, graph)
	logger.Debug("Build: Node creation complete.", "node_count", len(graph.Nodes))

	// Second pass: link dependencies.
	if err := linkNodes(ctx, model, graph); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.")

	if err := graph.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating dependency graph: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.")

	return graph, nil
}

// createNodes performs the first pass of graph creation.
func createNodes(ctx context.Context, pipeline *config.Pipeline, graph *Graph) {
	logger := ctxlog.FromContext(ctx)
	for _, s := range pipeline.Stages {
		id := fmt.Sprintf("stage.%s.%s", s.RunnerType, s.Name)
		if _, exists := graph.Nodes[id]; exists {
			logger.Warn("Duplicate stage definition found, it will be overwritten.", "id", id)
		}
		graph.Nodes[id] = &Node{
			ID:          id,
			Name:        s.Name,
			Type:        StageNode,
			StageConfig: s,
			Deps:        make(map[string]*Node),
			Dependents:  make(map[string]*Node),
		}
	}
	for _, r := range pipeline.Resources {
		id := fmt.Sprintf("resource.%s.%s", r.AssetType, r.Name)
		if _, exists := graph.Nodes[id]; exists {
			logger.Warn("Duplicate resource definition found, it will be overwritten.", "id", id)
		}
		graph.Nodes[id] = &Node{
			ID:             id,
			Name:           r.Name,
			Type:           ResourceNode,
			ResourceConfig: r,
			Deps:           make(map[string]*Node),
			Dependents:     make(map[string]*Node),
		}
	}
}

// InitCounters seeds every node's pending counters. Called once the graph has
// its final shape, after any target pruning.
func (g *Graph) InitCounters() {
	for _, n := range g.Nodes {
		n.SetInitialCounters()
	}
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// if a cycle is found, naming the first node involved in the detected cycle.
func (g *Graph) DetectCycles() error {
	// Classic depth-first search with three node sets:
	// permanent: fully visited, known not to be part of a cycle.
	// temporary: currently in the recursion stack.
	// unvisited: everything else.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if permanent[n.ID] {
			return nil
		}
		if temporary[n.ID] {
			return fmt.Errorf("cycle detected involving node '%s'", n.ID)
		}

		temporary[n.ID] = true
		for _, dependent := range n.Dependents {
			if err := visit(dependent); err != nil {
				return err
			}
		}
		delete(temporary, n.ID)
		permanent[n.ID] = true
		return nil
	}

	for _, n := range g.Nodes {
		if !permanent[n.ID] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}

	return nil
}

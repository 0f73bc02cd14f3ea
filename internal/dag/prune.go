package dag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/omicsworks/gutmetrics/internal/ctxlog"
)

// PruneToTarget reduces the graph to a single target node and its transitive
// dependencies. The target may be a full address ("exec.format") or a bare
// instance name ("format") when that name is unambiguous. Resources the kept
// stages rely on are kept automatically, since they are dependencies.
func (g *Graph) PruneToTarget(ctx context.Context, target string) error {
	logger := ctxlog.FromContext(ctx)

	var matches []*Node
	for _, n := range g.Nodes {
		if n.Address() == target || n.Name == target {
			matches = append(matches, n)
		}
	}

	if len(matches) == 0 {
		return fmt.Errorf("task target %q does not match any stage or resource", target)
	}
	if len(matches) > 1 {
		addrs := make([]string, len(matches))
		for i, n := range matches {
			addrs[i] = n.Address()
		}
		sort.Strings(addrs)
		return fmt.Errorf("task target %q is ambiguous: matches %s", target, strings.Join(addrs, ", "))
	}

	keep := make(map[string]bool)
	var mark func(n *Node)
	mark = func(n *Node) {
		if keep[n.ID] {
			return
		}
		keep[n.ID] = true
		for _, dep := range n.Deps {
			mark(dep)
		}
	}
	mark(matches[0])

	for id, n := range g.Nodes {
		if !keep[id] {
			delete(g.Nodes, id)
			continue
		}
		// Strip edges pointing at pruned nodes so counters stay consistent.
		for depID := range n.Dependents {
			if !keep[depID] {
				delete(n.Dependents, depID)
			}
		}
	}

	logger.Debug("Graph pruned to task target.", "target", matches[0].ID, "kept_nodes", len(g.Nodes))
	return nil
}

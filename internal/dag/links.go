package dag

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/omicsworks/gutmetrics/internal/config"
	"github.com/omicsworks/gutmetrics/internal/ctxlog"
)

// linkNodes performs the second pass, establishing dependency links.
func linkNodes(ctx context.Context, model *config.Model, graph *Graph) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting node linking pass.")

	for _, node := range graph.Nodes {
		var dependsOn []string
		var expressions []hcl.Expression

		if node.Type == StageNode {
			dependsOn = node.StageConfig.DependsOn
			for _, expr := range node.StageConfig.Arguments {
				expressions = append(expressions, expr)
			}
			for _, expr := range node.StageConfig.Uses {
				expressions = append(expressions, expr)
			}
		} else {
			dependsOn = node.ResourceConfig.DependsOn
			for _, expr := range node.ResourceConfig.Arguments {
				expressions = append(expressions, expr)
			}
		}

		if err := linkExplicitDeps(ctx, node, dependsOn, graph); err != nil {
			return err
		}
		for _, expr := range expressions {
			linkImplicitDeps(ctx, node, expr, graph)
		}
	}
	logger.Debug("Finished node linking pass.")
	return nil
}

// linkExplicitDeps resolves dependencies from a `depends_on` list. Addresses
// take the form "<runner_type>.<instance_name>" for stages and
// "<asset_type>.<instance_name>" for resources.
func linkExplicitDeps(ctx context.Context, node *Node, dependsOn []string, graph *Graph) error {
	logger := ctxlog.FromContext(ctx)

	for _, addr := range dependsOn {
		if err := validateDepAddress(addr); err != nil {
			return fmt.Errorf("node '%s': %w", node.ID, err)
		}

		stageID := "stage." + addr
		resourceID := "resource." + addr

		depNode, found := graph.Nodes[stageID]
		if !found {
			depNode, found = graph.Nodes[resourceID]
		}
		if !found {
			return fmt.Errorf("node '%s' depends on non-existent identifier '%s'", node.ID, addr)
		}
		if depNode.ID == node.ID {
			return fmt.Errorf("node '%s' cannot depend on itself", node.ID)
		}

		if _, exists := node.Deps[depNode.ID]; !exists {
			logger.Debug("Linking explicit dependency.", "from_node_id", node.ID, "to_node_id", depNode.ID)
			node.Deps[depNode.ID] = depNode
			depNode.Dependents[node.ID] = node
		}
	}
	return nil
}

// linkImplicitDeps parses an expression for variable traversals to create
// dependency links. Recognized roots are `stage.<runner>.<name>` and
// `resource.<asset>.<name>`; anything else is left for the evaluator.
func linkImplicitDeps(ctx context.Context, node *Node, expr hcl.Expression, graph *Graph) {
	logger := ctxlog.FromContext(ctx)

	for _, traversal := range expr.Variables() {
		root := traversal.RootName()
		if (root != "stage" && root != "resource") || len(traversal) < 3 {
			continue
		}

		typeAttr, typeOk := traversal[1].(hcl.TraverseAttr)
		nameAttr, nameOk := traversal[2].(hcl.TraverseAttr)
		if !typeOk || !nameOk {
			continue
		}

		depID := fmt.Sprintf("%s.%s.%s", root, typeAttr.Name, nameAttr.Name)
		depNode, found := graph.Nodes[depID]
		if !found || depNode.ID == node.ID {
			continue
		}

		if _, exists := node.Deps[depID]; !exists {
			logger.Debug("Linking implicit dependency.", "from", node.ID, "to", depID, "traversal", formatTraversal(traversal))
			node.Deps[depID] = depNode
			depNode.Dependents[node.ID] = node
		}
	}
}

package executor

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/omicsworks/gutmetrics/internal/ctxlog"
	"github.com/omicsworks/gutmetrics/internal/dag"
)

// buildEvalContext creates the HCL evaluation context for a node. Completed
// stage outputs are exposed as `stage.<runner_type>.<instance_name>.output`,
// giving later stages a consistent view of everything finished so far.
func (e *Executor) buildEvalContext(ctx context.Context, node *dag.Node) *hcl.EvalContext {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building HCL evaluation context.", "node", node.ID)

	// map[runner_type] -> map[instance_name] -> wrapped output
	outputsByRunner := make(map[string]map[string]cty.Value)
	for _, graphNode := range e.Graph.Nodes {
		if graphNode.Type != dag.StageNode || graphNode.GetState() != dag.Done || graphNode.Output == nil {
			continue
		}
		outVal, ok := graphNode.Output.(cty.Value)
		if !ok {
			continue
		}

		runnerType := graphNode.StageConfig.RunnerType
		if _, ok := outputsByRunner[runnerType]; !ok {
			outputsByRunner[runnerType] = make(map[string]cty.Value)
		}
		outputsByRunner[runnerType][graphNode.StageConfig.Name] = cty.ObjectVal(map[string]cty.Value{
			"output": outVal,
		})
	}

	finalStageOutputs := make(map[string]cty.Value)
	for runnerType, instances := range outputsByRunner {
		finalStageOutputs[runnerType] = cty.ObjectVal(instances)
	}

	vars := map[string]cty.Value{
		"stage": cty.ObjectVal(finalStageOutputs),
	}

	logger.Debug("Finished building HCL evaluation context.", "node", node.ID)
	return &hcl.EvalContext{Variables: vars}
}

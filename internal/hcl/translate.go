package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/typeexpr"
	"github.com/zclconf/go-cty/cty"

	"github.com/omicsworks/gutmetrics/internal/config"
	"github.com/omicsworks/gutmetrics/internal/schema"
)

// translateStage converts the HCL-specific stage schema into the agnostic model.
func (l *Loader) translateStage(s *schema.Stage) *config.Stage {
	return &config.Stage{
		RunnerType: s.RunnerType,
		Name:       s.Name,
		Arguments:  extractBodyAttributes(argsBody(s.Arguments)),
		Uses:       extractBodyAttributes(usesBody(s.Uses)),
		DependsOn:  s.DependsOn,
	}
}

// translateResource converts the HCL-specific resource schema into the agnostic model.
func (l *Loader) translateResource(s *schema.Resource) *config.Resource {
	return &config.Resource{
		AssetType: s.AssetType,
		Name:      s.Name,
		Arguments: extractBodyAttributes(argsBody(s.Arguments)),
		DependsOn: s.DependsOn,
	}
}

// translateRunnerDefinition converts the HCL-specific runner schema into the agnostic model.
func (l *Loader) translateRunnerDefinition(ctx context.Context, s *schema.RunnerDefinition) (*config.RunnerDefinition, error) {
	r := &config.RunnerDefinition{
		Type:        s.Type,
		Description: s.Description,
		Inputs:      make(map[string]*config.InputDefinition),
		Outputs:     make(map[string]*config.OutputDefinition),
		Uses:        make(map[string]*config.UsesDefinition),
	}
	if s.Lifecycle != nil {
		r.Lifecycle = &config.Lifecycle{OnRun: s.Lifecycle.OnRun}
	}
	for _, in := range s.Inputs {
		def, err := translateInput(in)
		if err != nil {
			return nil, err
		}
		r.Inputs[in.Name] = def
	}
	for _, out := range s.Outputs {
		ty, err := translateTypeExpr(out.Type)
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", out.Name, err)
		}
		r.Outputs[out.Name] = &config.OutputDefinition{
			Name:        out.Name,
			Type:        ty,
			Description: out.Description,
		}
	}
	for _, use := range s.Uses {
		r.Uses[use.LocalName] = &config.UsesDefinition{
			LocalName: use.LocalName,
			AssetType: use.AssetType,
		}
	}
	return r, nil
}

// translateAssetDefinition converts the HCL-specific asset schema into the agnostic model.
func (l *Loader) translateAssetDefinition(ctx context.Context, s *schema.AssetDefinition) (*config.AssetDefinition, error) {
	a := &config.AssetDefinition{
		Type:        s.Type,
		Description: s.Description,
		Inputs:      make(map[string]*config.InputDefinition),
		Outputs:     make(map[string]*config.OutputDefinition),
	}
	if s.Lifecycle != nil {
		a.Lifecycle = &config.AssetLifecycle{Create: s.Lifecycle.Create, Destroy: s.Lifecycle.Destroy}
	}
	for _, in := range s.Inputs {
		def, err := translateInput(in)
		if err != nil {
			return nil, err
		}
		a.Inputs[in.Name] = def
	}
	for _, out := range s.Outputs {
		ty, err := translateTypeExpr(out.Type)
		if err != nil {
			return nil, fmt.Errorf("output %q: %w", out.Name, err)
		}
		a.Outputs[out.Name] = &config.OutputDefinition{
			Name:        out.Name,
			Type:        ty,
			Description: out.Description,
		}
	}
	return a, nil
}

// translateInput converts one manifest input block, resolving its type
// constraint and default-driven optionality.
func translateInput(in *schema.InputDefinition) (*config.InputDefinition, error) {
	ty, err := translateTypeExpr(in.Type)
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", in.Name, err)
	}

	var defaultVal *cty.Value
	var isOptional bool
	if in.Default != nil && !in.Default.IsNull() {
		// A non-null default makes the input optional.
		defaultVal = in.Default
		isOptional = true
	}

	return &config.InputDefinition{
		Name:        in.Name,
		Type:        ty,
		Description: in.Description,
		Default:     defaultVal,
		Optional:    isOptional,
	}, nil
}

// translateTypeExpr resolves a manifest type expression (e.g. string,
// list(string), any) into a cty type constraint.
func translateTypeExpr(expr hcl.Expression) (cty.Type, error) {
	if expr == nil {
		return cty.DynamicPseudoType, nil
	}
	ty, diags := typeexpr.TypeConstraint(expr)
	if diags.HasErrors() {
		return cty.NilType, fmt.Errorf("invalid type constraint: %w", diags)
	}
	return ty, nil
}

// argsBody unwraps an optional arguments block.
func argsBody(args *schema.StageArgs) hcl.Body {
	if args == nil {
		return nil
	}
	return args.Body
}

// usesBody unwraps an optional uses block.
func usesBody(uses *schema.UsesBlock) hcl.Body {
	if uses == nil {
		return nil
	}
	return uses.Body
}

// extractBodyAttributes flattens a block body into a name -> expression map.
func extractBodyAttributes(body hcl.Body) map[string]hcl.Expression {
	out := make(map[string]hcl.Expression)
	if body == nil {
		return out
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		// Nested blocks inside arguments are not supported; attributes that
		// did decode are still returned.
		return out
	}
	for name, attr := range attrs {
		out[name] = attr.Expr
	}
	return out
}

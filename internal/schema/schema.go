// Package schema declares the HCL shapes for pipeline files and module
// manifests. These structs exist purely for gohcl decoding; the hcl package
// translates them into the format-agnostic config model.
package schema

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// --- Primary Pipeline Structures ---

// StageArgs represents the content of the 'arguments' block within a stage.
type StageArgs struct {
	Body hcl.Body `hcl:",remain"`
}

// UsesBlock represents the content of the 'uses' block within a stage.
type UsesBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// Stage represents a `stage` block from a user's pipeline file. It is a
// runnable instance of a defined runner.
type Stage struct {
	RunnerType string     `hcl:"runner_type,label"`
	Name       string     `hcl:"instance_name,label"`
	Arguments  *StageArgs `hcl:"arguments,block"`
	Uses       *UsesBlock `hcl:"uses,block"`
	DependsOn  []string   `hcl:"depends_on,optional"`
}

// Resource represents a `resource` block from a user's pipeline file. It is
// a managed, stateful instance of a defined asset.
type Resource struct {
	AssetType string     `hcl:"asset_type,label"`
	Name      string     `hcl:"instance_name,label"`
	Arguments *StageArgs `hcl:"arguments,block"`
	DependsOn []string   `hcl:"depends_on,optional"`
}

// --- Module Manifest Schemas ---

// Lifecycle defines the mapping from a runner's lifecycle event to a
// registered Go handler function.
type Lifecycle struct {
	OnRun string `hcl:"on_run,optional"`
}

// AssetLifecycle defines the mapping from a resource's lifecycle events
// (create, destroy) to registered Go handler functions.
type AssetLifecycle struct {
	Create  string `hcl:"create"`
	Destroy string `hcl:"destroy"`
}

// InputDefinition defines a single input variable for a runner or asset.
type InputDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
	Default     *cty.Value     `hcl:"default,optional"`
}

// OutputDefinition defines a single output value produced by a runner or asset.
type OutputDefinition struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Description string         `hcl:"description,optional"`
}

// UsesDefinition defines an asset dependency required by a runner.
type UsesDefinition struct {
	LocalName string `hcl:"local_name,label"`
	AssetType string `hcl:"asset_type"`
}

// RunnerDefinition represents the HCL manifest for a runnable `runner` type.
type RunnerDefinition struct {
	Type        string              `hcl:"type,label"`
	Description string              `hcl:"description,optional"`
	Lifecycle   *Lifecycle          `hcl:"lifecycle,block"`
	Inputs      []*InputDefinition  `hcl:"input,block"`
	Outputs     []*OutputDefinition `hcl:"output,block"`
	Uses        []*UsesDefinition   `hcl:"uses,block"`
}

// AssetDefinition represents the HCL manifest for a stateful `asset` type.
type AssetDefinition struct {
	Type        string              `hcl:"type,label"`
	Description string              `hcl:"description,optional"`
	Lifecycle   *AssetLifecycle     `hcl:"lifecycle,block"`
	Inputs      []*InputDefinition  `hcl:"input,block"`
	Outputs     []*OutputDefinition `hcl:"output,block"`
}

// FileConfig represents the top-level structure of any gutmetrics HCL file.
// Pipeline blocks and manifest blocks may coexist in one file; the loader
// merges everything into a single model.
type FileConfig struct {
	Stages    []*Stage           `hcl:"stage,block"`
	Resources []*Resource        `hcl:"resource,block"`
	Runners   []*RunnerDefinition `hcl:"runner,block"`
	Assets    []*AssetDefinition  `hcl:"asset,block"`
	Body      hcl.Body           `hcl:",remain"`
}

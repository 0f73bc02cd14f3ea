package registry_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/omicsworks/gutmetrics/internal/config"
	"github.com/omicsworks/gutmetrics/internal/frame"
	"github.com/omicsworks/gutmetrics/internal/registry"
	"github.com/omicsworks/gutmetrics/internal/store"
)

type scaleInput struct {
	Name           string   `gm:"name"`
	ExcludeColumns []string `gm:"exclude_columns"`
}

func runnerDef(inputs map[string]cty.Type) *config.RunnerDefinition {
	def := &config.RunnerDefinition{
		Type:      "scale_frame",
		Lifecycle: &config.Lifecycle{OnRun: "OnRunScaleFrame"},
		Inputs:    make(map[string]*config.InputDefinition),
	}
	for name, ty := range inputs {
		def.Inputs[name] = &config.InputDefinition{Name: name, Type: ty}
	}
	return def
}

func registerScaleHandler(r *registry.Registry) {
	r.RegisterRunner("OnRunScaleFrame", &registry.RegisteredRunner{
		NewInput:  func() any { return new(scaleInput) },
		InputType: reflect.TypeOf(scaleInput{}),
		NewDeps:   func() any { return new(struct{}) },
		Fn:        func(ctx context.Context, deps any, input any) (any, error) { return nil, nil },
	})
}

func TestValidateRegistryParity(t *testing.T) {
	r := registry.New()
	registerScaleHandler(r)
	r.DefinitionRegistry["scale_frame"] = runnerDef(map[string]cty.Type{
		"name":            cty.String,
		"exclude_columns": cty.List(cty.String),
	})

	assert.NoError(t, r.ValidateRegistry(context.Background()))
}

func TestValidateRegistryMissingHandler(t *testing.T) {
	r := registry.New()
	r.DefinitionRegistry["scale_frame"] = runnerDef(nil)

	err := r.ValidateRegistry(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler 'OnRunScaleFrame' is not registered")
}

func TestValidateRegistryInputMissingFromManifest(t *testing.T) {
	r := registry.New()
	registerScaleHandler(r)
	r.DefinitionRegistry["scale_frame"] = runnerDef(map[string]cty.Type{
		"name": cty.String,
	})

	err := r.ValidateRegistry(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'exclude_columns' which is not declared in manifest")
}

func TestValidateRegistryInputMissingFromStruct(t *testing.T) {
	r := registry.New()
	registerScaleHandler(r)
	r.DefinitionRegistry["scale_frame"] = runnerDef(map[string]cty.Type{
		"name":            cty.String,
		"exclude_columns": cty.List(cty.String),
		"extra":           cty.Number,
	})

	err := r.ValidateRegistry(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'extra' which is not found in Go struct")
}

func TestValidateRegistryTypeMismatch(t *testing.T) {
	r := registry.New()
	registerScaleHandler(r)
	r.DefinitionRegistry["scale_frame"] = runnerDef(map[string]cty.Type{
		"name":            cty.Number,
		"exclude_columns": cty.List(cty.String),
	})

	err := r.ValidateRegistry(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type mismatch")
}

type loadDeps struct {
	Store *store.Store `gm:"store"`
}

func registerLoadHandler(r *registry.Registry) {
	r.RegisterRunner("OnRunLoad", &registry.RegisteredRunner{
		NewInput:  func() any { return new(scaleInput) },
		InputType: reflect.TypeOf(scaleInput{}),
		NewDeps:   func() any { return new(loadDeps) },
		Fn:        func(ctx context.Context, deps any, input any) (any, error) { return nil, nil },
	})
}

func loadDef(uses map[string]string) *config.RunnerDefinition {
	def := &config.RunnerDefinition{
		Type:      "load_csv",
		Lifecycle: &config.Lifecycle{OnRun: "OnRunLoad"},
		Inputs: map[string]*config.InputDefinition{
			"name":            {Name: "name", Type: cty.String},
			"exclude_columns": {Name: "exclude_columns", Type: cty.List(cty.String)},
		},
		Uses: make(map[string]*config.UsesDefinition),
	}
	for local, assetType := range uses {
		def.Uses[local] = &config.UsesDefinition{LocalName: local, AssetType: assetType}
	}
	return def
}

func TestValidateRegistryUsesParity(t *testing.T) {
	r := registry.New()
	registerLoadHandler(r)
	r.RegisterAssetInterface("frame_store", reflect.TypeOf((*store.Store)(nil)))
	r.DefinitionRegistry["load_csv"] = loadDef(map[string]string{"store": "frame_store"})

	assert.NoError(t, r.ValidateRegistry(context.Background()))
}

func TestValidateRegistryUsesMissingFromDeps(t *testing.T) {
	r := registry.New()
	registerScaleHandler(r)
	def := runnerDef(map[string]cty.Type{
		"name":            cty.String,
		"exclude_columns": cty.List(cty.String),
	})
	def.Uses = map[string]*config.UsesDefinition{
		"store": {LocalName: "store", AssetType: "frame_store"},
	}
	r.DefinitionRegistry["scale_frame"] = def

	err := r.ValidateRegistry(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uses 'store' which is not found in Go deps struct")
}

func TestValidateRegistryUsesMissingFromManifest(t *testing.T) {
	r := registry.New()
	registerLoadHandler(r)
	r.RegisterAssetInterface("frame_store", reflect.TypeOf((*store.Store)(nil)))
	r.DefinitionRegistry["load_csv"] = loadDef(nil)

	err := r.ValidateRegistry(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uses 'store' which is not declared in manifest")
}

func TestValidateRegistryUsesUnknownContract(t *testing.T) {
	r := registry.New()
	registerLoadHandler(r)
	r.DefinitionRegistry["load_csv"] = loadDef(map[string]string{"store": "frame_store"})

	err := r.ValidateRegistry(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no Go contract registered for asset type 'frame_store'")
}

func TestValidateRegistryUsesContractMismatch(t *testing.T) {
	r := registry.New()
	registerLoadHandler(r)
	r.RegisterAssetInterface("frame_store", reflect.TypeOf((*frame.Frame)(nil)))
	r.DefinitionRegistry["load_csv"] = loadDef(map[string]string{"store": "frame_store"})

	err := r.ValidateRegistry(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not assignable to Go deps field 'Store'")
}

func TestValidateRegistryAssetLifecycle(t *testing.T) {
	r := registry.New()
	r.AssetDefinitionRegistry["frame_store"] = &config.AssetDefinition{
		Type:      "frame_store",
		Lifecycle: &config.AssetLifecycle{Create: "CreateFrameStore", Destroy: "DestroyFrameStore"},
	}

	err := r.ValidateRegistry(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create handler 'CreateFrameStore' is not registered")
	assert.Contains(t, err.Error(), "destroy handler 'DestroyFrameStore' is not registered")
}

func TestRegisterRunnerPanicsOnDuplicate(t *testing.T) {
	r := registry.New()
	registerScaleHandler(r)
	assert.Panics(t, func() { registerScaleHandler(r) })
}

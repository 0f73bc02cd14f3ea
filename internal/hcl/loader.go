package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/omicsworks/gutmetrics/internal/config"
	"github.com/omicsworks/gutmetrics/internal/ctxlog"
	"github.com/omicsworks/gutmetrics/internal/fsutil"
	"github.com/omicsworks/gutmetrics/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load walks the given paths for .hcl files, decodes every file into the
// schema structs, and translates the result into the format-agnostic model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)

	model := &config.Model{
		Runners:  make(map[string]*config.RunnerDefinition),
		Assets:   make(map[string]*config.AssetDefinition),
		Pipeline: &config.Pipeline{},
	}

	parser := hclparse.NewParser()
	for _, root := range paths {
		filePaths, err := fsutil.FindFilesByExtension(root, ".hcl")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to walk config path %q: %w", root, err)
		}
		if len(filePaths) == 0 {
			logger.Warn("No .hcl files found in path", "path", root)
			continue
		}
		logger.Debug("Found HCL files to load", "path", root, "files", filePaths)

		for _, filePath := range filePaths {
			hclFile, diags := parser.ParseHCLFile(filePath)
			if diags.HasErrors() {
				return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
			}

			var fileCfg schema.FileConfig
			if diags := gohcl.DecodeBody(hclFile.Body, nil, &fileCfg); diags.HasErrors() {
				return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
			}

			if err := l.mergeFile(ctx, model, &fileCfg, filePath); err != nil {
				return nil, nil, err
			}
			logger.Debug("Loaded definitions from HCL file", "file", filePath)
		}
	}

	logger.Debug("Configuration loading complete.",
		"runners", len(model.Runners),
		"assets", len(model.Assets),
		"stages", len(model.Pipeline.Stages),
		"resources", len(model.Pipeline.Resources),
	)
	return model, NewConverter(), nil
}

// mergeFile folds one decoded file into the accumulated model.
func (l *Loader) mergeFile(ctx context.Context, model *config.Model, fileCfg *schema.FileConfig, filePath string) error {
	for _, rn := range fileCfg.Runners {
		if _, exists := model.Runners[rn.Type]; exists {
			return fmt.Errorf("duplicate runner manifest for type %q (in %s)", rn.Type, filePath)
		}
		def, err := l.translateRunnerDefinition(ctx, rn)
		if err != nil {
			return fmt.Errorf("invalid runner manifest %q in %s: %w", rn.Type, filePath, err)
		}
		model.Runners[rn.Type] = def
	}
	for _, as := range fileCfg.Assets {
		if _, exists := model.Assets[as.Type]; exists {
			return fmt.Errorf("duplicate asset manifest for type %q (in %s)", as.Type, filePath)
		}
		def, err := l.translateAssetDefinition(ctx, as)
		if err != nil {
			return fmt.Errorf("invalid asset manifest %q in %s: %w", as.Type, filePath, err)
		}
		model.Assets[as.Type] = def
	}
	for _, s := range fileCfg.Stages {
		model.Pipeline.Stages = append(model.Pipeline.Stages, l.translateStage(s))
	}
	for _, r := range fileCfg.Resources {
		model.Pipeline.Resources = append(model.Pipeline.Resources, l.translateResource(r))
	}
	return nil
}

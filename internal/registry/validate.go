package registry

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/omicsworks/gutmetrics/internal/ctxlog"
)

// ValidateRegistry performs a strict parity check between manifests and Go code.
// It checks both the presence of inputs and the compatibility of their types.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for runnerType, def := range r.DefinitionRegistry {
		if def.Lifecycle == nil {
			errs = append(errs, fmt.Sprintf("runner '%s': manifest has no lifecycle block", runnerType))
			continue
		}
		handler, ok := r.HandlerRegistry[def.Lifecycle.OnRun]
		if !ok {
			errs = append(errs, fmt.Sprintf("runner '%s': handler '%s' is not registered", runnerType, def.Lifecycle.OnRun))
			continue
		}

		// Uses parity: every manifest 'uses' entry needs a deps-struct field
		// whose type satisfies the contract registered for the asset type,
		// and every deps field must be declared in the manifest.
		goDeps := make(map[string]reflect.StructField)
		if handler.NewDeps != nil {
			depsType := reflect.TypeOf(handler.NewDeps())
			if depsType != nil && depsType.Kind() == reflect.Pointer && depsType.Elem().Kind() == reflect.Struct {
				depsType = depsType.Elem()
				for i := 0; i < depsType.NumField(); i++ {
					field := depsType.Field(i)
					if !field.IsExported() {
						continue
					}
					tagName := strings.Split(field.Tag.Get("gm"), ",")[0]
					if tagName != "" && tagName != "-" {
						goDeps[tagName] = field
					}
				}
			}
		}
		for name := range goDeps {
			if _, ok := def.Uses[name]; !ok {
				errs = append(errs, fmt.Sprintf("runner '%s': Go deps struct has field for uses '%s' which is not declared in manifest", runnerType, name))
			}
		}
		for name, use := range def.Uses {
			goField, ok := goDeps[name]
			if !ok {
				errs = append(errs, fmt.Sprintf("runner '%s': manifest declares uses '%s' which is not found in Go deps struct", runnerType, name))
				continue
			}
			contract, ok := r.AssetInterfaceRegistry[use.AssetType]
			if !ok {
				errs = append(errs, fmt.Sprintf("runner '%s', uses '%s': no Go contract registered for asset type '%s'", runnerType, name, use.AssetType))
				continue
			}
			if goField.Type.Kind() == reflect.Interface {
				if !contract.Implements(goField.Type) {
					errs = append(errs, fmt.Sprintf("runner '%s', uses '%s': asset type '%s' provides '%s' which does not implement '%s'",
						runnerType, name, use.AssetType, contract.String(), goField.Type.String()))
				}
			} else if !contract.AssignableTo(goField.Type) {
				errs = append(errs, fmt.Sprintf("runner '%s', uses '%s': asset type '%s' provides '%s' which is not assignable to Go deps field '%s' of type '%s'",
					runnerType, name, use.AssetType, contract.String(), goField.Name, goField.Type.String()))
			}
		}

		if handler.InputType == nil {
			if len(def.Inputs) > 0 {
				errs = append(errs, fmt.Sprintf("runner '%s': manifest declares inputs, but Go handler has no input struct", runnerType))
			}
			continue
		}

		hclInputs := make(map[string]struct{})
		for name := range def.Inputs {
			hclInputs[name] = struct{}{}
		}

		goInputs := make(map[string]reflect.StructField)
		inputType := handler.InputType
		for i := 0; i < inputType.NumField(); i++ {
			field := inputType.Field(i)
			if !field.IsExported() {
				continue
			}
			tag := field.Tag.Get("gm")
			tagName := strings.Split(tag, ",")[0]
			if tagName != "" && tagName != "-" {
				goInputs[tagName] = field
			}
		}

		// Presence mismatches first.
		for name := range goInputs {
			if _, ok := hclInputs[name]; !ok {
				errs = append(errs, fmt.Sprintf("runner '%s': Go struct has field for input '%s' which is not declared in manifest", runnerType, name))
			}
		}
		for name := range hclInputs {
			if _, ok := goInputs[name]; !ok {
				errs = append(errs, fmt.Sprintf("runner '%s': manifest declares input '%s' which is not found in Go struct", runnerType, name))
			}
		}

		// Type mismatches.
		for name, inputDef := range def.Inputs {
			goField, ok := goInputs[name]
			if !ok {
				continue
			}

			manifestType := inputDef.Type
			if manifestType.Equals(cty.DynamicPseudoType) {
				logger.Warn("Manifest input uses 'type = any', which disables static type checking.", "runner", runnerType, "input", name)
				continue
			}

			goFieldType, err := gocty.ImpliedType(reflect.Zero(goField.Type).Interface())
			if err != nil {
				errs = append(errs, fmt.Sprintf("runner '%s', input '%s': could not imply cty type from Go field type %s: %v", runnerType, name, goField.Type, err))
				continue
			}

			if !manifestType.Equals(goFieldType) {
				errs = append(errs, fmt.Sprintf("runner '%s', input '%s': type mismatch. Manifest requires '%s' but Go struct field '%s' provides type '%s'",
					runnerType, name, manifestType.FriendlyName(), goField.Name, goFieldType.FriendlyName()))
			}
		}
	}

	for assetType, def := range r.AssetDefinitionRegistry {
		if def.Lifecycle == nil {
			errs = append(errs, fmt.Sprintf("asset '%s': manifest has no lifecycle block", assetType))
			continue
		}
		if h, ok := r.AssetHandlerRegistry[def.Lifecycle.Create]; !ok || h.CreateFn == nil {
			errs = append(errs, fmt.Sprintf("asset '%s': create handler '%s' is not registered", assetType, def.Lifecycle.Create))
		}
		if h, ok := r.AssetHandlerRegistry[def.Lifecycle.Destroy]; !ok || h.DestroyFn == nil {
			errs = append(errs, fmt.Sprintf("asset '%s': destroy handler '%s' is not registered", assetType, def.Lifecycle.Destroy))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

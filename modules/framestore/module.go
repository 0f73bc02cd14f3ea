// Package framestore provides the stateful frame_store asset: a shared,
// concurrency-safe table store that pipeline stages read and write through
// their 'uses' block.
package framestore

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/omicsworks/gutmetrics/internal/registry"
	"github.com/omicsworks/gutmetrics/internal/store"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// createFrameStore is the 'create' handler for the frame_store asset.
func createFrameStore(ctx context.Context, _ *struct{}) (*store.Store, error) {
	slog.Debug("Creating frame store.")
	return store.New(), nil
}

// destroyFrameStore is the 'destroy' handler. It drops all stored frames so
// large tables do not outlive the run.
func destroyFrameStore(s *store.Store) error {
	for _, name := range s.Names() {
		s.Delete(name)
	}
	return nil
}

// Register registers the asset's lifecycle handlers and contract type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterAssetHandler("CreateFrameStore", &registry.RegisteredAsset{
		CreateFn: createFrameStore,
	})
	r.RegisterAssetHandler("DestroyFrameStore", &registry.RegisteredAsset{
		DestroyFn: destroyFrameStore,
	})
	r.RegisterAssetInterface("frame_store", reflect.TypeOf((*store.Store)(nil)))
}

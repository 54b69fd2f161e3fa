package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/notekeep/pkg/adapters/fs"
	"github.com/aretw0/notekeep/pkg/core"
)

// New creates a Service over the store at path and loads its state.
//
//	svc, err := notekeep.New("~/.local/share/notekeep/notes-storage.json", notekeep.WithLogger(logger))
func New(path string, opts ...Option) (*core.Service, error) {
	o := apply(opts)

	store, err := Init(path, opts...)
	if err != nil {
		return nil, err
	}

	svcOpts := []core.ServiceOption{
		core.WithLogger(o.logger),
		core.WithLocale(o.locale),
		core.WithOptimisticWrites(o.optimistic),
	}
	if o.clock != nil {
		svcOpts = append(svcOpts, core.WithClock(o.clock))
	}

	service := core.NewService(store, svcOpts...)
	if err := service.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}
	return service, nil
}

// Init prepares the key/value store for path without loading any notes.
func Init(path string, opts ...Option) (core.KeyValueStore, error) {
	o := apply(opts)

	if o.store != nil {
		return o.store, nil
	}

	if path == "" {
		return nil, fmt.Errorf("storage path is empty")
	}

	// Read-only opens are inherently safe and always see the real file.
	forceTemp := o.forceTemp || (o.devSafety && !o.readOnly && IsDevRun())
	resolved := ResolvePath(path, forceTemp)
	if o.logger != nil && resolved != path {
		o.logger.Warn("dev safety: storage re-rooted", "requested", path, "path", resolved)
	}

	store := fs.NewStore(fs.Config{
		Path:         resolved,
		ReadOnly:     o.readOnly,
		Logger:       o.logger,
		ErrorHandler: o.errorHandler,
	})
	if err := store.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

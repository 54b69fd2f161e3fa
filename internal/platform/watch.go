package platform

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	lcadapter "github.com/aretw0/notekeep/pkg/adapters/lifecycle"
	"github.com/aretw0/notekeep/pkg/core"
)

// WatchAndReload reloads svc whenever store reports an external change.
// onEvent, if set, is called after each reload. It blocks until ctx ends or
// the watch stops.
func WatchAndReload(ctx context.Context, svc *core.Service, store core.KeyValueStore, logger *slog.Logger, onEvent func(core.Event)) error {
	w, ok := store.(core.Watchable)
	if !ok {
		return fmt.Errorf("store does not support watching")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	src := lcadapter.NewSource(w)
	if err := src.Start(ctx); err != nil {
		return err
	}

	for ev := range src.Events() {
		e, ok := ev.(core.Event)
		if !ok {
			continue
		}
		if err := svc.Reload(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		logger.Info("store changed externally, reloaded", "event", e.String(), "notes", len(svc.Notes()))
		if onEvent != nil {
			onEvent(e)
		}
	}
	return nil
}

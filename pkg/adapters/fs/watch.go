package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/debounce"
)

const watchDebounce = 50 * time.Millisecond

// Watch reports changes made to the document by other writers. Rewrites
// performed by this Store are filtered out. The channel is closed when ctx ends.
func (s *Store) Watch(ctx context.Context) (<-chan core.Event, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory: atomic renames replace the file's inode.
	dir := filepath.Dir(s.config.Path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	events := make(chan core.Event, 16)
	s.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer s.setWatcherActive(false)
		defer close(events)
		defer watcher.Close()

		runCtx, cancel := context.WithCancel(ctx)
		d := debounce.New(watchDebounce)
		// Cancel first so pending sends give up, then drain the debouncer
		// before events is closed.
		defer d.Stop(5 * time.Second)
		defer cancel()

		return s.watchLoop(runCtx, watcher, d, events)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.handleWatchError(fmt.Errorf("watcher panic: %w", err))
	}))

	return events, nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, d *debounce.Debouncer, events chan<- core.Event) error {
	name := filepath.Base(s.config.Path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Base(event.Name) != name {
				continue
			}

			eType := mapEventType(event)
			if eType == "" {
				continue
			}
			s.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())

			d.Schedule(func() {
				if eType == core.EventModify && s.isOwnWrite() {
					return
				}
				select {
				case events <- core.Event{Type: eType, ID: name, Timestamp: time.Now().Unix()}:
				case <-ctx.Done():
				}
			})

		case wErr, ok := <-watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			s.handleWatchError(wErr)
		}
	}
}

func mapEventType(event fsnotify.Event) core.EventType {
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		return core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return core.EventDelete
	}
	return ""
}

func (s *Store) handleWatchError(err error) {
	s.config.Logger.Error("fsnotify error", "error", err)
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	}
}

var _ core.Watchable = (*Store)(nil)

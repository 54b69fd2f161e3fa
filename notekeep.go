package notekeep

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/aretw0/notekeep/internal/platform"
	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/editor"
)

// --- Types ---

// Note is a public alias for the core note model.
type Note = core.Note

// Draft is a public alias for the user-settable note fields.
type Draft = core.Draft

// Patch is a public alias for a partial note update.
type Patch = core.Patch

// Service is a public alias for the note repository.
type Service = core.Service

// Session is a public alias for a debounced editor session.
type Session = editor.Session

// --- Configuration ---

// Option defines a functional option for configuring notekeep.
type Option = platform.Option

// WithLogger sets the logger for the store and service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore allows injecting a custom key/value store.
func WithStore(store core.KeyValueStore) Option {
	return platform.WithStore(store)
}

// WithReadOnly rejects every mutation with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithOptimisticWrites keeps failed mutations applied in memory.
func WithOptimisticWrites(enabled bool) Option {
	return platform.WithOptimisticWrites(enabled)
}

// WithDevSafety controls re-rooting of the storage file during `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithLocale sets the collation language used for name ordering.
func WithLocale(tag language.Tag) Option {
	return platform.WithLocale(tag)
}

// WithClock overrides the time source for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithWatcherErrorHandler registers a callback for file watcher errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a Service over the storage file at path and loads it.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Init prepares the storage for path without loading notes.
func Init(path string, opts ...Option) (core.KeyValueStore, error) {
	return platform.Init(path, opts...)
}

// OpenEditor starts an editor session for id, or a new note when id is empty.
func OpenEditor(ctx context.Context, svc *core.Service, id string, opts ...editor.Option) (*editor.Session, error) {
	return editor.Open(ctx, svc, id, opts...)
}

// --- Operations ---

// Watch reloads svc whenever the backing store changes outside this process.
// It blocks until ctx is cancelled.
func Watch(ctx context.Context, svc *core.Service, store core.KeyValueStore, logger *slog.Logger, onEvent func(core.Event)) error {
	return platform.WatchAndReload(ctx, svc, store, logger, onEvent)
}

package platform

import (
	"log/slog"
	"time"

	"golang.org/x/text/language"

	"github.com/aretw0/notekeep/pkg/core"
)

// options holds the internal configuration for the notekeep service.
type options struct {
	store        core.KeyValueStore
	logger       *slog.Logger
	readOnly     bool
	optimistic   bool
	devSafety    bool
	forceTemp    bool
	locale       language.Tag
	clock        func() time.Time
	errorHandler func(error)
}

// Option defines a functional option for configuring notekeep.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		devSafety: true,
		locale:    language.Und,
	}
}

func apply(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for the store and service.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore allows injecting a custom key/value store (e.g. an in-memory double).
// If provided, the default file store will be skipped.
func WithStore(store core.KeyValueStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Mutations return an error wrapping core.ErrReadOnly.
// 2. The data directory is not created.
// 3. Dev safety is bypassed (the real path is read).
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithOptimisticWrites keeps mutations applied in memory when their persist fails.
func WithOptimisticWrites(enabled bool) Option {
	return func(o *options) {
		o.optimistic = enabled
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true), the storage file is re-rooted into a temporary directory
// so development runs never touch real notes.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithLocale sets the collation language used for name ordering.
func WithLocale(tag language.Tag) Option {
	return func(o *options) {
		o.locale = tag
	}
}

// WithClock overrides the time source for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithWatcherErrorHandler registers a callback for errors raised while watching the file.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

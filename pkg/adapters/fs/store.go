package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/aretw0/notekeep/pkg/core"
)

// DefaultFileName is the name of the document inside the data directory.
const DefaultFileName = "notes-storage.json"

const filePerm = 0o644

// Config holds the configuration for the file store.
type Config struct {
	Path         string // Full path of the JSON document.
	ReadOnly     bool
	Logger       *slog.Logger
	ErrorHandler func(error) // Receives watcher failures.
}

// Store implements core.KeyValueStore on a single JSON document.
// Every write reads the document, merges the new pairs and rewrites it whole.
type Store struct {
	config Config

	// mu serializes read-modify-write cycles within the process.
	mu sync.Mutex

	stateMu       sync.RWMutex
	writes        int
	lastWrite     *time.Time
	lastHash      uint64
	watcherActive bool
}

// NewStore creates a new file store.
func NewStore(config Config) *Store {
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{config: config}
}

// Path returns the location of the document.
func (s *Store) Path() string {
	return s.config.Path
}

// Initialize ensures the parent directory exists.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.Path == "" {
		return fmt.Errorf("store path is empty")
	}
	if s.config.ReadOnly {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.config.Path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// Get returns the value for key. Any read or parse failure counts as absent.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	data, ok := s.readAll()
	if !ok {
		return "", false
	}
	v, ok := data[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Set merges {key: value} into the document.
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

// SetMany merges all pairs into the document in one rewrite.
func (s *Store) SetMany(ctx context.Context, values map[string]string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", core.ErrStorageWrite, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, _ := s.readAll()
	if data == nil {
		data = make(map[string]string, len(values))
	}
	maps.Copy(data, values)

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: failed to encode document: %w", core.ErrStorageWrite, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.config.Path), 0755); err != nil {
		return fmt.Errorf("%w: failed to create directories: %w", core.ErrStorageWrite, err)
	}
	if err := replaceDocument(s.config.Path, raw, filePerm); err != nil {
		return fmt.Errorf("%w: %w", core.ErrStorageWrite, err)
	}

	s.recordWrite(raw)
	s.config.Logger.Debug("store written", "path", s.config.Path, "keys", len(values), "bytes", len(raw))
	return nil
}

// readAll decodes the document. Values that are not JSON strings are kept as
// their raw JSON text so a hand-edited file with an inline array still loads.
func (s *Store) readAll() (map[string]string, bool) {
	raw, err := os.ReadFile(s.config.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.config.Logger.Warn("store unreadable, treating as empty", "path", s.config.Path, "error", err)
		}
		return nil, false
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.config.Logger.Warn("store unparsable, treating as empty", "path", s.config.Path, "error", err)
		return nil, false
	}

	out := make(map[string]string, len(doc))
	for k, v := range doc {
		v = bytes.TrimSpace(v)
		var str string
		if len(v) > 0 && v[0] == '"' && json.Unmarshal(v, &str) == nil {
			out[k] = str
			continue
		}
		if bytes.Equal(v, []byte("null")) {
			continue
		}
		out[k] = string(v)
	}
	return out, true
}

func (s *Store) recordWrite(raw []byte) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	now := time.Now()
	s.writes++
	s.lastWrite = &now
	s.lastHash = xxhash.Sum64(raw)
}

// isOwnWrite reports whether the document on disk is exactly what this store last wrote.
func (s *Store) isOwnWrite() bool {
	raw, err := os.ReadFile(s.config.Path)
	if err != nil {
		return false
	}
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.writes > 0 && xxhash.Sum64(raw) == s.lastHash
}

var _ core.KeyValueStore = (*Store)(nil)

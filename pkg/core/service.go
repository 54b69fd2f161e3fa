package core

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/text/language"
)

// Service is the note repository: it owns the in-memory notes and sort
// preference and persists them through a KeyValueStore.
//
// Mutations update memory first, then rewrite the whole collection. Rewrites
// are serialized and coalesced: a persist that finds its state already written
// by a later one returns without touching the store.
type Service struct {
	store      KeyValueStore
	logger     *slog.Logger
	now        func() time.Time
	locale     language.Tag
	optimistic bool

	mu      sync.RWMutex
	notes   []Note
	sorting Sorting
	gen     uint64
	entropy *ulid.MonotonicEntropy
	// inflight counts mutations applied in memory whose persist has not returned.
	inflight int

	writeMu sync.Mutex
	written uint64
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocale sets the collation language for name ordering.
func WithLocale(tag language.Tag) ServiceOption {
	return func(s *Service) {
		s.locale = tag
	}
}

// WithOptimisticWrites keeps a mutation applied in memory when its persist fails.
// By default the failed mutation is undone before the error is returned.
func WithOptimisticWrites(enabled bool) ServiceOption {
	return func(s *Service) {
		s.optimistic = enabled
	}
}

// NewService creates a new Service. Call Load before use to pick up stored state.
func NewService(store KeyValueStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
		locale:  language.Und,
		sorting: DefaultSorting,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with what the store holds. Absent or
// unparsable keys fall back to an empty collection, date and desc.
// While a mutation is still waiting to persist, the stored state is not
// applied: that mutation's rewrite supersedes it.
// Only context cancellation is reported.
func (s *Service) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var notes []Note
	if !s.decode(ctx, KeyNotes, &notes) {
		notes = nil
	}
	notes = s.sanitize(notes)

	sorting := DefaultSorting
	var opt SortOption
	if s.decode(ctx, KeySortOption, &opt) && opt.Valid() {
		sorting.Option = opt
	}
	var dir SortDirection
	if s.decode(ctx, KeySortDirection, &dir) && dir.Valid() {
		sorting.Direction = dir
	}

	s.mu.Lock()
	if s.inflight > 0 {
		pending := s.inflight
		s.mu.Unlock()
		s.logger.Debug("load skipped, local changes pending", "pending", pending)
		return nil
	}
	s.notes = notes
	s.sorting = sorting
	s.gen++
	s.written = s.gen
	s.mu.Unlock()

	s.logger.Debug("notes loaded", "count", len(notes), "sort", sorting.Option, "direction", sorting.Direction)
	return nil
}

// Reload re-reads the store, typically after an external change to the file.
func (s *Service) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

func (s *Service) decode(ctx context.Context, key string, v any) bool {
	raw, ok := s.store.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.Warn("ignoring unparsable stored value", "key", key, "error", err)
		return false
	}
	return true
}

// sanitize drops duplicate ids (first wins) and repairs inverted timestamps.
func (s *Service) sanitize(notes []Note) []Note {
	seen := make(map[string]bool, len(notes))
	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if n.ID == "" || seen[n.ID] {
			s.logger.Warn("dropping stored note with missing or duplicate id", "id", n.ID)
			continue
		}
		seen[n.ID] = true
		if n.UpdatedAt < n.CreatedAt {
			n.UpdatedAt = n.CreatedAt
		}
		out = append(out, n)
	}
	return out
}

// AddNote creates a note from the draft, appends it and persists the collection.
func (s *Service) AddNote(ctx context.Context, d Draft) (Note, error) {
	s.mu.Lock()
	now := s.now()
	n := Note{
		ID:              s.newID(now),
		Title:           d.Title,
		Content:         d.Content,
		BackgroundColor: d.BackgroundColor,
		HeaderImage:     d.HeaderImage,
		CreatedAt:       now.UnixMilli(),
		UpdatedAt:       now.UnixMilli(),
	}
	s.notes = append(s.notes, n)
	gen := s.begin()
	s.mu.Unlock()

	err := s.persist(ctx, gen, func() {
		if i := s.indexOf(n.ID); i >= 0 {
			s.notes = slices.Delete(s.notes, i, i+1)
		}
	})
	if err != nil {
		s.logger.Error("add note failed", "id", n.ID, "error", err)
		return Note{}, err
	}

	s.logger.Debug("note added", "id", n.ID)
	return n, nil
}

// UpdateNote merges the patch into the note with the given id and persists.
// An unknown id is a no-op.
func (s *Service) UpdateNote(ctx context.Context, id string, p Patch) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("update of unknown note ignored", "id", id)
		return nil
	}
	prev := s.notes[i]
	next := p.apply(prev)
	next.UpdatedAt = max(s.now().UnixMilli(), prev.UpdatedAt, prev.CreatedAt)
	s.notes[i] = next
	gen := s.begin()
	s.mu.Unlock()

	err := s.persist(ctx, gen, func() {
		// A later mutation of the same note supersedes this one.
		if j := s.indexOf(id); j >= 0 && s.notes[j] == next {
			s.notes[j] = prev
		}
	})
	if err != nil {
		s.logger.Error("update note failed", "id", id, "error", err)
		return err
	}

	s.logger.Debug("note updated", "id", id)
	return nil
}

// DeleteNote removes the note with the given id, if any, and persists.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	var removed Note
	if i >= 0 {
		removed = s.notes[i]
		s.notes = slices.Delete(s.notes, i, i+1)
	}
	gen := s.begin()
	s.mu.Unlock()

	err := s.persist(ctx, gen, func() {
		if i >= 0 && s.indexOf(id) < 0 {
			s.notes = slices.Insert(s.notes, min(i, len(s.notes)), removed)
		}
	})
	if err != nil {
		s.logger.Error("delete note failed", "id", id, "error", err)
		return err
	}

	s.logger.Debug("note deleted", "id", id, "existed", i >= 0)
	return nil
}

// GetNoteByID looks a note up in memory.
func (s *Service) GetNoteByID(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.notes[i], true
	}
	return Note{}, false
}

// Notes returns a copy of the collection in insertion order.
func (s *Service) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notes)
}

// Sorting returns the current sort preference.
func (s *Service) Sorting() Sorting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorting
}

// SetSorting persists both preference keys in one write, then applies them.
func (s *Service) SetSorting(ctx context.Context, option SortOption, direction SortDirection) error {
	sorting := Sorting{Option: option, Direction: direction}
	if err := sorting.Validate(); err != nil {
		return err
	}

	opt, _ := json.Marshal(option)
	dir, _ := json.Marshal(direction)

	s.writeMu.Lock()
	err := s.store.SetMany(ctx, map[string]string{
		KeySortOption:    string(opt),
		KeySortDirection: string(dir),
	})
	s.writeMu.Unlock()
	if err != nil {
		s.logger.Error("save sort preference failed", "error", err)
		return fmt.Errorf("%w: sort preference: %w", ErrPersistence, err)
	}

	s.mu.Lock()
	s.sorting = sorting
	s.mu.Unlock()
	return nil
}

// SortedNotes returns a freshly sorted copy of the collection.
func (s *Service) SortedNotes() []Note {
	s.mu.RLock()
	notes, sorting := s.notes, s.sorting
	out := SortNotes(notes, sorting, s.locale)
	s.mu.RUnlock()
	return out
}

// begin records a mutation just applied in memory. mu must be held.
func (s *Service) begin() uint64 {
	s.gen++
	s.inflight++
	return s.gen
}

// persist writes the collection unless a later persist already covered gen.
// On failure, undo runs under mu before the writer lock is released, so a
// queued persist never snapshots the failed mutation.
func (s *Service) persist(ctx context.Context, gen uint64, undo func()) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.write(ctx, gen)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if err != nil && !s.optimistic {
		undo()
	}
	return err
}

// write must be called with writeMu held.
func (s *Service) write(ctx context.Context, gen uint64) error {
	if s.written >= gen {
		return nil
	}

	s.mu.RLock()
	snapshot := slices.Clone(s.notes)
	current := s.gen
	s.mu.RUnlock()

	if snapshot == nil {
		snapshot = []Note{}
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%w: encode notes: %w", ErrPersistence, err)
	}
	if err := s.store.Set(ctx, KeyNotes, string(data)); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.written = current
	return nil
}

// newID must be called with mu held.
func (s *Service) newID(now time.Time) string {
	for {
		id := ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
		if s.indexOf(id) < 0 {
			return id
		}
	}
}

// indexOf must be called with mu held.
func (s *Service) indexOf(id string) int {
	return slices.IndexFunc(s.notes, func(n Note) bool { return n.ID == id })
}

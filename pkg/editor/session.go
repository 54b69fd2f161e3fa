// Package editor drives auto-save for a single note being edited.
//
// Edits accumulate in a Session and are written through the note repository
// once the debounce quiet period elapses. Flush writes immediately and is
// meant for the end of an editing session (navigating away, backgrounding).
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/debounce"
)

// ErrNoteNotFound is returned by Open for an id the repository does not hold.
var ErrNoteNotFound = errors.New("note not found")

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("editor session is closed")

// Repository is the subset of core.Service a session writes through.
type Repository interface {
	AddNote(ctx context.Context, d core.Draft) (core.Note, error)
	UpdateNote(ctx context.Context, id string, p core.Patch) error
	DeleteNote(ctx context.Context, id string) error
	GetNoteByID(id string) (core.Note, bool)
}

type options struct {
	delay   time.Duration
	logger  *slog.Logger
	onError func(error)
}

// Option configures a Session.
type Option func(*options)

// WithDelay sets the quiet period before an auto-save. Defaults to debounce.DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(o *options) {
		o.delay = d
	}
}

// WithLogger sets the logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithErrorHandler registers a callback for failed auto-saves, typically
// shown to the user as a dismissable notification. fn runs on the save path
// and must not call Flush or Close.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// Session holds the editor state of one note.
type Session struct {
	repo    Repository
	ctx     context.Context
	deb     *debounce.Debouncer
	logger  *slog.Logger
	onError func(error)

	mu      sync.Mutex
	draft   core.Draft
	noteID  string
	dirty   bool
	forced  bool
	retry   bool
	lastErr error
	closed  bool
}

// Open starts a session. An empty id edits a new note, created on first save.
// Saves outlive cancellation of ctx so a final flush is never dropped.
func Open(ctx context.Context, repo Repository, id string, opts ...Option) (*Session, error) {
	o := &options{delay: debounce.DefaultDelay}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Session{
		repo:    repo,
		ctx:     context.WithoutCancel(ctx),
		deb:     debounce.New(o.delay),
		logger:  o.logger,
		onError: o.onError,
		draft:   core.Draft{BackgroundColor: core.DefaultBackgroundColor},
	}

	if id != "" {
		n, ok := repo.GetNoteByID(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
		}
		s.noteID = n.ID
		s.draft = core.Draft{
			Title:           n.Title,
			Content:         n.Content,
			BackgroundColor: n.BackgroundColor,
			HeaderImage:     n.HeaderImage,
		}
	}
	return s, nil
}

// NoteID returns the id of the note being edited, empty until a new note is first saved.
func (s *Session) NoteID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.noteID
}

// Draft returns the current field values.
func (s *Session) Draft() core.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Dirty reports whether there are edits not yet written.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// ShareText formats the current draft for the clipboard.
func (s *Session) ShareText() string {
	d := s.Draft()
	return core.ShareText(core.Note{Title: d.Title, Content: d.Content})
}

// SetTitle records a title edit. A save is scheduled only when the note has
// some non-blank text, so an empty new note is never created.
func (s *Session) SetTitle(title string) {
	s.edit(func(d *core.Draft) { d.Title = title }, false)
}

// SetContent records a content edit, with the same rule as SetTitle.
func (s *Session) SetContent(content string) {
	s.edit(func(d *core.Draft) { d.Content = content }, false)
}

// SetBackgroundColor records a color change and always schedules a save.
func (s *Session) SetBackgroundColor(color string) {
	s.edit(func(d *core.Draft) { d.BackgroundColor = color }, true)
}

// SetHeaderImage records a header image change ("" removes it) and always schedules a save.
func (s *Session) SetHeaderImage(ref string) {
	s.edit(func(d *core.Draft) { d.HeaderImage = ref }, true)
}

func (s *Session) edit(apply func(*core.Draft), always bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	apply(&s.draft)
	s.dirty = true
	s.forced = s.forced || always
	schedule := always || !core.IsBlank(s.draft.Title, s.draft.Content)
	// Clearing the text of a note that does not exist yet withdraws its pending creation.
	withdraw := !schedule && s.noteID == "" && !s.forced
	s.mu.Unlock()

	switch {
	case schedule:
		s.deb.Schedule(s.save)
	case withdraw:
		s.deb.Cancel()
	}
}

// Flush writes the pending edit now, bypassing the quiet period, and returns
// the result of that write. A previously failed save is retried.
func (s *Session) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	retry := s.retry && s.dirty
	s.mu.Unlock()
	if retry {
		s.deb.Schedule(s.save)
	}

	s.deb.Flush()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close flushes any pending edit and releases the session's timer.
func (s *Session) Close(ctx context.Context) error {
	err := s.Flush(ctx)

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.deb.Stop(5 * time.Second)
	return err
}

// Delete drops any pending edit and removes the note. The session is closed afterwards.
func (s *Session) Delete(ctx context.Context) error {
	s.deb.Cancel()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	id := s.noteID
	s.closed = true
	s.dirty = false
	s.mu.Unlock()

	s.deb.Stop(5 * time.Second)

	if id == "" {
		return nil
	}
	if err := s.repo.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	return nil
}

// save runs on the debouncer; runs never overlap.
func (s *Session) save() {
	err := s.write(s.ctx)

	s.mu.Lock()
	s.lastErr = err
	s.retry = err != nil
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("auto-save failed", "id", s.NoteID(), "error", err)
		if s.onError != nil {
			s.onError(err)
		}
	}
}

func (s *Session) write(ctx context.Context) error {
	s.mu.Lock()
	draft, id, forced := s.draft, s.noteID, s.forced
	if id == "" && !forced && core.IsBlank(draft.Title, draft.Content) {
		// Only text edits so far and the text is blank: nothing to create.
		s.settle(draft)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if id == "" {
		n, err := s.repo.AddNote(ctx, draft)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.noteID = n.ID
		s.forced = false
		s.settle(draft)
		s.mu.Unlock()
		s.logger.Debug("note created from editor", "id", n.ID)
		return nil
	}

	if err := s.repo.UpdateNote(ctx, id, core.PatchFromDraft(draft)); err != nil {
		return err
	}
	s.mu.Lock()
	s.settle(draft)
	s.mu.Unlock()
	return nil
}

// settle clears dirty if no edit arrived while draft was being written. mu must be held.
func (s *Session) settle(written core.Draft) {
	if s.draft == written {
		s.dirty = false
	}
}

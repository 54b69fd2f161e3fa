package editor_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekeep/pkg/core"
	"github.com/aretw0/notekeep/pkg/debounce"
	"github.com/aretw0/notekeep/pkg/editor"
)

// mapStore implements core.KeyValueStore in memory and can be told to fail.
type mapStore struct {
	mu   sync.Mutex
	data map[string]string
	fail error
}

func (m *mapStore) Get(ctx context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok && v != ""
}

func (m *mapStore) Set(ctx context.Context, key, value string) error {
	return m.SetMany(ctx, map[string]string{key: value})
}

func (m *mapStore) SetMany(ctx context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	for k, v := range values {
		m.data[k] = v
	}
	return nil
}

func (m *mapStore) setFail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

// countingRepo records how the session calls into the service.
type countingRepo struct {
	*core.Service
	mu      sync.Mutex
	adds    int
	updates int
}

func (c *countingRepo) AddNote(ctx context.Context, d core.Draft) (core.Note, error) {
	c.mu.Lock()
	c.adds++
	c.mu.Unlock()
	return c.Service.AddNote(ctx, d)
}

func (c *countingRepo) UpdateNote(ctx context.Context, id string, p core.Patch) error {
	c.mu.Lock()
	c.updates++
	c.mu.Unlock()
	return c.Service.UpdateNote(ctx, id, p)
}

func (c *countingRepo) counts() (adds, updates int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adds, c.updates
}

func setup(t *testing.T) (*countingRepo, *mapStore) {
	t.Helper()
	store := &mapStore{data: make(map[string]string)}
	svc := core.NewService(store)
	require.NoError(t, svc.Load(context.Background()))
	return &countingRepo{Service: svc}, store
}

func TestSession_DebouncedCreate(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()

	s, err := editor.Open(ctx, repo, "", editor.WithDelay(30*time.Millisecond))
	require.NoError(t, err)
	defer s.Close(ctx)

	for _, prefix := range []string{"S", "Sh", "Sho", "Shop", "Shopping"} {
		s.SetTitle(prefix)
	}
	s.SetContent("milk")

	require.Eventually(t, func() bool { return !s.Dirty() }, time.Second, 5*time.Millisecond)
	adds, updates := repo.counts()
	assert.Equal(t, 1, adds, "keystroke burst must create one note")
	assert.Equal(t, 0, updates)

	notes := repo.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "Shopping", notes[0].Title)
	assert.Equal(t, "milk", notes[0].Content)
	assert.Equal(t, core.DefaultBackgroundColor, notes[0].BackgroundColor)
	assert.Equal(t, notes[0].ID, s.NoteID())

	// Later edits target the same note.
	s.SetContent("milk, eggs")
	require.Eventually(t, func() bool { return !s.Dirty() }, time.Second, 5*time.Millisecond)
	adds, updates = repo.counts()
	assert.Equal(t, 1, adds)
	assert.Equal(t, 1, updates)
	got, _ := repo.GetNoteByID(s.NoteID())
	assert.Equal(t, "milk, eggs", got.Content)
}

func TestSession_BlankNoteIsNotCreated(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()

	s, err := editor.Open(ctx, repo, "", editor.WithDelay(time.Millisecond))
	require.NoError(t, err)

	s.SetTitle("   ")
	s.SetContent("\n\t")
	time.Sleep(20 * time.Millisecond)

	require.NoError(t, s.Close(ctx))
	assert.Empty(t, repo.Notes())
	assert.Empty(t, s.NoteID())
}

func TestSession_ClearedTextIsNotCreated(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()

	s, err := editor.Open(ctx, repo, "", editor.WithDelay(20*time.Millisecond))
	require.NoError(t, err)

	s.SetTitle("a")
	s.SetTitle("")
	time.Sleep(100 * time.Millisecond)

	assert.Empty(t, repo.Notes(), "typing then clearing must not create a note")
	require.NoError(t, s.Close(ctx))
	assert.Empty(t, repo.Notes())
	assert.Empty(t, s.NoteID())
}

func TestSession_CloseAfterClearingText(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()

	s, err := editor.Open(ctx, repo, "", editor.WithDelay(time.Hour))
	require.NoError(t, err)

	s.SetContent("draft")
	s.SetContent("  ")
	require.NoError(t, s.Close(ctx))

	assert.Empty(t, repo.Notes())
	adds, _ := repo.counts()
	assert.Zero(t, adds)
}

func TestSession_ColorThenClearedTextStillCreates(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()

	s, err := editor.Open(ctx, repo, "", editor.WithDelay(time.Hour))
	require.NoError(t, err)

	s.SetBackgroundColor("#E3F2E1")
	s.SetTitle("x")
	s.SetTitle("")
	require.NoError(t, s.Close(ctx))

	notes := repo.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "#E3F2E1", notes[0].BackgroundColor)
	assert.Empty(t, notes[0].Title)
}

func TestSession_ColorChangeCreatesNote(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()

	s, err := editor.Open(ctx, repo, "", editor.WithDelay(time.Hour))
	require.NoError(t, err)

	s.SetBackgroundColor("#CCFF90")
	require.NoError(t, s.Close(ctx))

	notes := repo.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "#CCFF90", notes[0].BackgroundColor)
}

func TestSession_FlushBypassesDelay(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()

	s, err := editor.Open(ctx, repo, "", editor.WithDelay(time.Hour))
	require.NoError(t, err)
	defer s.Close(ctx)

	s.SetTitle("Draft")
	assert.Empty(t, repo.Notes(), "nothing written before the quiet period")

	require.NoError(t, s.Flush(ctx))
	assert.Len(t, repo.Notes(), 1)
	assert.False(t, s.Dirty())

	require.NoError(t, s.Flush(ctx), "flush with nothing pending is a no-op")
	adds, _ := repo.counts()
	assert.Equal(t, 1, adds)
}

func TestSession_CloseFlushes(t *testing.T) {
	repo, _ := setup(t)
	ctx, cancel := context.WithCancel(context.Background())

	a, err := repo.AddNote(ctx, core.Draft{Title: "Existing", Content: "old", BackgroundColor: "#FFF475"})
	require.NoError(t, err)

	s, err := editor.Open(ctx, repo, a.ID, editor.WithDelay(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "old", s.Draft().Content)
	assert.Equal(t, "#FFF475", s.Draft().BackgroundColor)

	s.SetContent("new")
	cancel() // the owning screen went away; the save must still land

	require.NoError(t, s.Close(context.Background()))
	got, _ := repo.GetNoteByID(a.ID)
	assert.Equal(t, "new", got.Content)
	assert.Equal(t, "Existing", got.Title)

	// Edits after close are ignored.
	s.SetContent("ignored")
	assert.False(t, s.Dirty())
}

func TestSession_SaveErrorIsReportedAndRetried(t *testing.T) {
	repo, store := setup(t)
	ctx := context.Background()

	var reported []error
	var mu sync.Mutex
	s, err := editor.Open(ctx, repo, "", editor.WithDelay(time.Hour), editor.WithErrorHandler(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, err)
	}))
	require.NoError(t, err)
	defer s.Close(ctx)

	diskFull := errors.New("disk full")
	store.setFail(diskFull)

	s.SetTitle("Unsaved")
	err = s.Flush(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPersistence)
	assert.ErrorIs(t, err, diskFull)
	assert.True(t, s.Dirty())
	mu.Lock()
	assert.Len(t, reported, 1)
	mu.Unlock()

	store.setFail(nil)
	require.NoError(t, s.Flush(ctx), "flush retries the failed save")
	assert.False(t, s.Dirty())
	assert.Len(t, repo.Notes(), 1)
}

func TestSession_Delete(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()

	s, err := editor.Open(ctx, repo, "", editor.WithDelay(time.Hour))
	require.NoError(t, err)
	s.SetTitle("Temp")
	require.NoError(t, s.Flush(ctx))
	id := s.NoteID()
	require.NotEmpty(t, id)

	s.SetContent("pending edit")
	require.NoError(t, s.Delete(ctx))

	_, ok := repo.GetNoteByID(id)
	assert.False(t, ok)
	assert.Empty(t, repo.Notes(), "cancelled pending save must not resurrect the note")
	assert.ErrorIs(t, s.Delete(ctx), editor.ErrClosed)
}

func TestOpen_UnknownNote(t *testing.T) {
	repo, _ := setup(t)
	_, err := editor.Open(context.Background(), repo, "missing")
	assert.ErrorIs(t, err, editor.ErrNoteNotFound)
}

func TestSession_ShareText(t *testing.T) {
	repo, _ := setup(t)
	s, err := editor.Open(context.Background(), repo, "", editor.WithDelay(debounce.DefaultDelay))
	require.NoError(t, err)
	defer s.Close(context.Background())

	s.SetTitle("Title")
	s.SetContent("Body")
	assert.Equal(t, "Title\n\nBody", s.ShareText())
}

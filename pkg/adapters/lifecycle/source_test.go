package lifecycle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekeep/pkg/adapters/lifecycle"
	"github.com/aretw0/notekeep/pkg/core"
)

type fakeWatchable struct {
	ch  chan core.Event
	err error
}

func (f *fakeWatchable) Watch(ctx context.Context) (<-chan core.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ch, nil
}

func TestSource_ForwardsEvents(t *testing.T) {
	store := &fakeWatchable{ch: make(chan core.Event, 1)}
	src := lifecycle.NewSource(store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, src.Start(ctx))

	store.ch <- core.Event{Type: core.EventModify, ID: "notes-storage.json"}

	select {
	case e := <-src.Events():
		assert.Equal(t, "MODIFY notes-storage.json", e.String())
	case <-time.After(time.Second):
		t.Fatal("event not forwarded")
	}

	close(store.ch)
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "events should close when the watch ends")
	case <-time.After(time.Second):
		t.Fatal("events not closed")
	}
}

func TestSource_StartError(t *testing.T) {
	boom := errors.New("boom")
	src := lifecycle.NewSource(&fakeWatchable{err: boom})
	err := src.Start(context.Background())
	assert.ErrorIs(t, err, boom)
}

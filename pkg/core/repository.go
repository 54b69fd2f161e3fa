package core

import (
	"context"
	"fmt"
)

// KeyValueStore defines the contract for the durable string store behind the Service.
// Adhering to this interface allows the core to be independent of the
// underlying storage mechanism (a JSON file, an in-memory map in tests).
type KeyValueStore interface {
	// Get returns the value stored under key. A missing key, a missing
	// backing file and an unreadable backing file all report ok == false.
	Get(ctx context.Context, key string) (value string, ok bool)

	// Set merges {key: value} into the stored mapping and rewrites it.
	Set(ctx context.Context, key, value string) error

	// SetMany merges all pairs into the stored mapping in a single rewrite.
	SetMany(ctx context.Context, values map[string]string) error
}

// Watchable defines an interface for stores that can report external changes.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// EventType represents the type of change observed on the backing storage.
type EventType string

const (
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the backing storage.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and lifecycle.Event).
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}

// Storage keys of the persisted document.
const (
	KeyNotes         = "notes"
	KeySortOption    = "sortOption"
	KeySortDirection = "sortDirection"
)

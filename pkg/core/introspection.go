package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	NoteCount         int           `json:"note_count"`
	SortOption        SortOption    `json:"sort_option"`
	SortDirection     SortDirection `json:"sort_direction"`
	Generation        uint64        `json:"generation"`
	WrittenGeneration uint64        `json:"written_generation"`
	PendingWrites     int           `json:"pending_writes"`
	Optimistic        bool          `json:"optimistic_writes"`
	StoreType         string        `json:"store_type"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.writeMu.Lock()
	written := s.written
	s.writeMu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()

	storeType := "unknown"
	if s.store != nil {
		storeType = "kv"
		if comp, ok := s.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	return ServiceState{
		NoteCount:         len(s.notes),
		SortOption:        s.sorting.Option,
		SortDirection:     s.sorting.Direction,
		Generation:        s.gen,
		WrittenGeneration: written,
		PendingWrites:     s.inflight,
		Optimistic:        s.optimistic,
		StoreType:         storeType,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)

package core

import "errors"

// Common errors.
var (
	ErrReadOnly = errors.New("store is in read-only mode")

	// ErrStorageWrite is returned by a KeyValueStore when the document cannot be rewritten.
	ErrStorageWrite = errors.New("storage write failed")

	// ErrPersistence is returned by Service mutations whose persist step failed.
	ErrPersistence = errors.New("failed to persist notes")

	// ErrInvalidSort is returned when a sort option or direction is not recognized.
	ErrInvalidSort = errors.New("invalid sort preference")
)

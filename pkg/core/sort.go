package core

import (
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortOption selects the key notes are ordered by.
type SortOption string

const (
	SortByName SortOption = "name"
	SortByDate SortOption = "date"
	SortBySize SortOption = "size"
)

// SortDirection selects ascending or descending order.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Sorting is the persisted display preference.
type Sorting struct {
	Option    SortOption    `json:"sortOption"`
	Direction SortDirection `json:"sortDirection"`
}

// DefaultSorting is used when no preference has been stored.
var DefaultSorting = Sorting{Option: SortByDate, Direction: Descending}

// Valid reports whether the option is one of the known values.
func (o SortOption) Valid() bool {
	switch o {
	case SortByName, SortByDate, SortBySize:
		return true
	}
	return false
}

// Valid reports whether the direction is one of the known values.
func (d SortDirection) Valid() bool {
	return d == Ascending || d == Descending
}

// Validate returns ErrInvalidSort if either field is unknown.
func (s Sorting) Validate() error {
	if !s.Option.Valid() {
		return fmt.Errorf("%w: option %q", ErrInvalidSort, s.Option)
	}
	if !s.Direction.Valid() {
		return fmt.Errorf("%w: direction %q", ErrInvalidSort, s.Direction)
	}
	return nil
}

// SortNotes returns a sorted copy of notes. The input is not modified and
// equal keys keep their relative order.
func SortNotes(notes []Note, s Sorting, tag language.Tag) []Note {
	out := slices.Clone(notes)
	cmp := comparator(s.Option, tag)
	if s.Direction == Descending {
		asc := cmp
		cmp = func(a, b Note) int { return -asc(a, b) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func comparator(opt SortOption, tag language.Tag) func(a, b Note) int {
	switch opt {
	case SortByName:
		// Collator keeps internal buffers; one per sort call.
		c := collate.New(tag)
		return func(a, b Note) int { return c.CompareString(a.Title, b.Title) }
	case SortByDate:
		return func(a, b Note) int { return compareInt64(a.CreatedAt, b.CreatedAt) }
	case SortBySize:
		return func(a, b Note) int { return a.Size() - b.Size() }
	default:
		return func(a, b Note) int { return 0 }
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

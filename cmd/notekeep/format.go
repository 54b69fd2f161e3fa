package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"

	"github.com/aretw0/notekeep/pkg/core"
)

// filterByTitle keeps notes whose title matches the glob, case-insensitively.
// An empty pattern keeps everything.
func filterByTitle(notes []core.Note, pattern string) ([]core.Note, error) {
	if pattern == "" {
		return notes, nil
	}
	pattern = strings.ToLower(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	var out []core.Note
	for _, n := range notes {
		ok, err := doublestar.Match(pattern, strings.ToLower(n.Title))
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// writeList prints one line per note: id, title, size and relative update time.
func writeList(w io.Writer, notes []core.Note, now time.Time) {
	for _, n := range notes {
		title := n.Title
		if strings.TrimSpace(title) == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(w, "%s  %-30s  %5d  %s\n",
			n.ID, title, n.Size(), humanize.RelTime(n.Updated(), now, "ago", "from now"))
	}
}

// exportDoc is the shape written by the export command.
type exportDoc struct {
	SortOption    core.SortOption    `json:"sortOption" yaml:"sortOption"`
	SortDirection core.SortDirection `json:"sortDirection" yaml:"sortDirection"`
	Notes         []core.Note        `json:"notes" yaml:"notes"`
}

func newExportDoc(svc *core.Service) exportDoc {
	s := svc.Sorting()
	notes := svc.SortedNotes()
	if notes == nil {
		notes = []core.Note{}
	}
	return exportDoc{SortOption: s.Option, SortDirection: s.Direction, Notes: notes}
}

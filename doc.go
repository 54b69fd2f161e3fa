// Package notekeep is the Composition Root for the notekeep note store.
//
// It wires the in-memory note repository (pkg/core) to the flat-file JSON
// key/value store (pkg/adapters/fs) and exposes the debounced editor session
// (pkg/editor) used by front ends.
//
// Features:
//
//   - **Single document**: all notes and the sort preference live in one JSON file.
//   - **Atomic rewrites**: every mutation rewrites the whole file via temp file and rename.
//   - **Debounced auto-save**: the editor session groups keystrokes into one save.
//   - **Computed ordering**: name, date or size, ascending or descending.
//   - **External change detection**: Watch reloads when another process edits the file.
//
// Usage:
//
//	svc, err := notekeep.New(path, notekeep.WithLogger(logger))
//
//	note, err := svc.AddNote(ctx, notekeep.Draft{Title: "Groceries", Content: "milk"})
//
//	sess, err := notekeep.OpenEditor(ctx, svc, note.ID)
//	sess.SetContent("milk, eggs")
//	defer sess.Close(ctx)
package notekeep

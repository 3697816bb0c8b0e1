// Package history keeps a bounded, linear undo/redo log of page snapshots.
package history

import "inknote/internal/note"

const DefaultCapacity = 50

// Tracker is an arena of snapshots indexed by position plus a cursor.
// Recording after an undo truncates the redo branch. Tracker is not safe for
// concurrent use; its owner serialises access.
type Tracker struct {
	entries  [][]note.Page
	cursor   int
	capacity int
}

// New seeds the log with initial as entry 0. A capacity below 1 uses
// DefaultCapacity.
func New(initial []note.Page, capacity int) *Tracker {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Tracker{
		entries:  [][]note.Page{note.ClonePages(initial)},
		capacity: capacity,
	}
}

// Record discards any redo branch, appends a snapshot of pages and evicts the
// oldest entry once the log is over capacity.
func (t *Tracker) Record(pages []note.Page) {
	clear(t.entries[t.cursor+1:])
	t.entries = append(t.entries[:t.cursor+1], note.ClonePages(pages))
	for len(t.entries) > t.capacity {
		t.entries[0] = nil
		t.entries = t.entries[1:]
	}
	t.cursor = len(t.entries) - 1
}

// Undo steps the cursor back and returns the snapshot there.
func (t *Tracker) Undo() ([]note.Page, bool) {
	if t.cursor == 0 {
		return nil, false
	}
	t.cursor--
	return note.ClonePages(t.entries[t.cursor]), true
}

// Redo steps the cursor forward and returns the snapshot there.
func (t *Tracker) Redo() ([]note.Page, bool) {
	if t.cursor >= len(t.entries)-1 {
		return nil, false
	}
	t.cursor++
	return note.ClonePages(t.entries[t.cursor]), true
}

// Current returns a copy of the snapshot under the cursor.
func (t *Tracker) Current() []note.Page {
	return note.ClonePages(t.entries[t.cursor])
}

// Reset drops every entry and seeds the log with pages.
func (t *Tracker) Reset(pages []note.Page) {
	t.entries = [][]note.Page{note.ClonePages(pages)}
	t.cursor = 0
}

func (t *Tracker) CanUndo() bool { return t.cursor > 0 }
func (t *Tracker) CanRedo() bool { return t.cursor < len(t.entries)-1 }
func (t *Tracker) Len() int      { return len(t.entries) }
func (t *Tracker) Cursor() int   { return t.cursor }
func (t *Tracker) Capacity() int { return t.capacity }

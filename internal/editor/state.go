package editor

import "inknote/internal/note"

type Stats struct {
	Chars int `json:"chars"`
	Words int `json:"words"`
}

// State is a read-only view of the coordinator for hosts.
type State struct {
	Pages        []note.Page `json:"pages"`
	CurrentIndex int         `json:"currentIndex"`
	CanUndo      bool        `json:"canUndo"`
	CanRedo      bool        `json:"canRedo"`
	PreviewStale bool        `json:"previewStale"`
	Processing   bool        `json:"processing"`
	HistoryLen   int         `json:"historyLength"`
	Stats        Stats       `json:"stats"`
}

// Active returns the page under CurrentIndex.
func (s State) Active() note.Page {
	return s.Pages[s.CurrentIndex]
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Coordinator) stateLocked() State {
	active := c.doc.Active()
	return State{
		Pages:        note.ClonePages(c.doc.Pages),
		CurrentIndex: c.doc.Current,
		CanUndo:      c.history.CanUndo(),
		CanRedo:      c.history.CanRedo(),
		PreviewStale: c.preview.Stale(),
		Processing:   c.processing,
		HistoryLen:   c.history.Len(),
		Stats: Stats{
			Chars: note.CharCount(active.Text),
			Words: note.WordCount(active.Text),
		},
	}
}

// Package editor owns the live note document. Every user intent goes through
// the Coordinator, which applies it to the page store, decides whether it is
// a history checkpoint, schedules persistence and feeds the debounced preview.
package editor

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"inknote/internal/debounce"
	"inknote/internal/history"
	"inknote/internal/intake"
	"inknote/internal/note"
)

const DefaultPreviewDelay = 400 * time.Millisecond

var (
	// ErrBusy is returned when an AI transform is requested while one runs.
	ErrBusy = errors.New("an AI transform is already running")
	// ErrUnknownTemplate is returned by ApplyTemplate for an unknown name.
	ErrUnknownTemplate = errors.New("unknown template")
)

// Persister stores page sequences in the background.
type Persister interface {
	Schedule(pages []note.Page)
	Close(ctx context.Context) error
}

// Transformer rewrites text. It never fails; on error it returns its input.
type Transformer interface {
	Refine(ctx context.Context, text string) string
	Summarize(ctx context.Context, text string) string
}

type Deps struct {
	Persister   Persister
	Transformer Transformer
	Clipboard   intake.Clipboard
}

type Options struct {
	PreviewDelay time.Duration
	HistoryLimit int
	NewID        func() string
	Logger       zerolog.Logger
}

// Update changes the active page. Text, when set, replaces the page text and
// takes precedence over Settings.Text; the rest of Settings is merged in the
// same step.
type Update struct {
	Text     *string
	Settings note.Patch
}

func TextUpdate(text string) Update          { return Update{Text: &text} }
func SettingsUpdate(patch note.Patch) Update { return Update{Settings: patch} }

// Coordinator serialises every state transition behind one mutex. The lock is
// never held across an AI call, a clipboard read or persistence I/O.
type Coordinator struct {
	mu         sync.Mutex
	doc        note.Document
	history    *history.Tracker
	processing bool

	persist   Persister
	ai        Transformer
	clipboard intake.Clipboard
	preview   *debounce.Value[note.Settings]
	newID     func() string
	log       zerolog.Logger

	subsMu sync.Mutex
	subs   []func(note.Settings)
}

// New starts a coordinator on doc. The history log is seeded with doc's pages.
func New(doc note.Document, deps Deps, opts Options) *Coordinator {
	if doc.Len() == 0 {
		doc = note.NewDocument()
	}
	if opts.PreviewDelay <= 0 {
		opts.PreviewDelay = DefaultPreviewDelay
	}
	if opts.NewID == nil {
		opts.NewID = note.NewPageID
	}
	if deps.Persister == nil {
		deps.Persister = discard{}
	}
	if deps.Transformer == nil {
		deps.Transformer = passthrough{}
	}
	if deps.Clipboard == nil {
		deps.Clipboard = intake.StaticClipboard{Err: intake.ErrClipboardDenied}
	}

	c := &Coordinator{
		doc:       doc.Clone(),
		history:   history.New(doc.Pages, opts.HistoryLimit),
		persist:   deps.Persister,
		ai:        deps.Transformer,
		clipboard: deps.Clipboard,
		newID:     opts.NewID,
		log:       opts.Logger.With().Str("component", "editor").Logger(),
	}
	c.preview = debounce.NewValue(doc.Active().Settings, opts.PreviewDelay,
		func(a, b note.Settings) bool { return a == b }, c.notify)
	return c
}

// Apply commits update to the active page. A major update is recorded as a
// history checkpoint.
func (c *Coordinator) Apply(update Update, major bool) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commit(c.apply(c.doc, update), major)
	return c.stateLocked()
}

func (c *Coordinator) apply(doc note.Document, update Update) note.Document {
	patch := update.Settings
	if update.Text != nil {
		patch.Text = update.Text
	}
	return doc.UpdateActiveSettings(patch)
}

// Type replaces the active text without recording history.
func (c *Coordinator) Type(text string) State {
	return c.Apply(TextUpdate(text), false)
}

// SetSettings patches the active settings without recording history.
func (c *Coordinator) SetSettings(patch note.Patch) State {
	return c.Apply(SettingsUpdate(patch), false)
}

// Blur records the current pages as a checkpoint unless they already match
// the entry under the history cursor.
func (c *Coordinator) Blur() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !note.EqualPages(c.doc.Pages, c.history.Current()) {
		c.history.Record(c.doc.Pages)
		c.log.Debug().Int("history", c.history.Len()).Msg("checkpoint on blur")
	}
	return c.stateLocked()
}

// ApplyTemplate merges a named preset into the active settings.
func (c *Coordinator) ApplyTemplate(name string) (State, error) {
	t, ok := note.TemplateByName(name)
	if !ok {
		return c.State(), ErrUnknownTemplate
	}
	return c.Apply(SettingsUpdate(t.Patch), true), nil
}

// Upload replaces the active text with an uploaded text file.
func (c *Coordinator) Upload(name, contentType string, r io.Reader) (State, error) {
	text, err := intake.ReadUpload(name, contentType, r)
	if err != nil {
		return c.State(), err
	}
	return c.Apply(TextUpdate(text), true), nil
}

// UploadFont installs an uploaded font file as the active page's custom font.
func (c *Coordinator) UploadFont(name, contentType string, r io.Reader) (State, error) {
	url, err := intake.ReadFont(name, contentType, r)
	if err != nil {
		return c.State(), err
	}
	return c.Apply(SettingsUpdate(note.Patch{
		UseCustomFont: note.Bool(true),
		CustomFontURL: note.String(url),
	}), true), nil
}

// Paste replaces the active text with the clipboard text. An empty clipboard
// changes nothing.
func (c *Coordinator) Paste(ctx context.Context) (State, error) {
	text, err := c.clipboard.ReadText(ctx)
	if err != nil {
		return c.State(), err
	}
	if text == "" {
		return c.State(), nil
	}
	return c.Apply(TextUpdate(text), true), nil
}

func (c *Coordinator) AddPage() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commit(c.doc.AddPage(c.newID()), true)
	return c.stateLocked()
}

func (c *Coordinator) DeletePage() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commit(c.doc.DeletePage(), true)
	return c.stateLocked()
}

// Clear empties the active page text.
func (c *Coordinator) Clear() State {
	return c.Apply(TextUpdate(""), true)
}

// Navigate moves between pages. It is not a history checkpoint.
func (c *Coordinator) Navigate(delta int) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commit(c.doc.Navigate(delta), false)
	return c.stateLocked()
}

func (c *Coordinator) Undo() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pages, ok := c.history.Undo(); ok {
		c.commit(c.doc.WithPages(pages), false)
	}
	return c.stateLocked()
}

func (c *Coordinator) Redo() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pages, ok := c.history.Redo(); ok {
		c.commit(c.doc.WithPages(pages), false)
	}
	return c.stateLocked()
}

// commit installs next as the live document. Callers hold c.mu.
func (c *Coordinator) commit(next note.Document, major bool) {
	changed := !note.EqualPages(c.doc.Pages, next.Pages)
	c.doc = next
	if major {
		c.history.Record(next.Pages)
	}
	if changed {
		c.persist.Schedule(next.Pages)
	}
	c.preview.Set(next.Active().Settings)
}

// OnPreview registers fn to receive every settled preview projection.
func (c *Coordinator) OnPreview(fn func(note.Settings)) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	c.subs = append(c.subs, fn)
}

func (c *Coordinator) notify(s note.Settings) {
	c.subsMu.Lock()
	subs := append([]func(note.Settings){}, c.subs...)
	c.subsMu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

// PreviewSettings returns the settled settings the renderer should draw.
func (c *Coordinator) PreviewSettings() note.Settings {
	return c.preview.Settled()
}

// FlushPreview settles the preview immediately.
func (c *Coordinator) FlushPreview() {
	c.preview.Flush()
}

// Document returns a copy of the live document.
func (c *Coordinator) Document() note.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Clone()
}

// Close cancels the preview timer and flushes pending persistence.
func (c *Coordinator) Close(ctx context.Context) error {
	c.preview.Close()
	return c.persist.Close(ctx)
}

type discard struct{}

func (discard) Schedule([]note.Page)        {}
func (discard) Close(context.Context) error { return nil }

type passthrough struct{}

func (passthrough) Refine(_ context.Context, text string) string    { return text }
func (passthrough) Summarize(_ context.Context, text string) string { return text }

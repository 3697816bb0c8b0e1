package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"inknote/internal/intake"
	"inknote/internal/note"
)

type recordingPersister struct {
	mu     sync.Mutex
	saves  [][]note.Page
	closed bool
}

func (p *recordingPersister) Schedule(pages []note.Page) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves = append(p.saves, note.ClonePages(pages))
}

func (p *recordingPersister) Close(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saves)
}

type fakeTransformer struct {
	release chan struct{}
	started chan struct{}
}

func (f *fakeTransformer) wait(ctx context.Context) {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
		}
	}
}

func (f *fakeTransformer) Refine(ctx context.Context, text string) string {
	f.wait(ctx)
	return "refined: " + text
}

func (f *fakeTransformer) Summarize(ctx context.Context, text string) string {
	f.wait(ctx)
	return "- " + text
}

func newTestCoordinator(t *testing.T, deps Deps) (*Coordinator, *recordingPersister) {
	t.Helper()
	persister := &recordingPersister{}
	if deps.Persister == nil {
		deps.Persister = persister
	}
	n := 0
	c := New(note.NewDocument(), deps, Options{
		PreviewDelay: time.Hour,
		NewID: func() string {
			n++
			return fmt.Sprintf("page-%d", n)
		},
		Logger: zerolog.Nop(),
	})
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c, persister
}

func TestTypeIsMinorAndBlurCheckpoints(t *testing.T) {
	c, persister := newTestCoordinator(t, Deps{})

	c.Type("h")
	c.Type("he")
	st := c.Type("hello")
	if st.CanUndo {
		t.Fatal("typing alone must not record history")
	}
	if st.Active().Text != "hello" || st.Active().Settings.Text != "hello" {
		t.Fatalf("unexpected active page %+v", st.Active())
	}
	if persister.count() != 3 {
		t.Fatalf("expected every change scheduled for persistence, got %d", persister.count())
	}

	st = c.Blur()
	if !st.CanUndo || st.HistoryLen != 2 {
		t.Fatalf("blur should record a checkpoint, got %+v", st)
	}
	st = c.Blur()
	if st.HistoryLen != 2 {
		t.Fatalf("repeated blur should not record a duplicate, got %d entries", st.HistoryLen)
	}

	st = c.Undo()
	if st.Active().Text != "" {
		t.Fatalf("undo should restore the blank page, got %q", st.Active().Text)
	}
	st = c.Redo()
	if st.Active().Text != "hello" {
		t.Fatalf("redo should restore typed text, got %q", st.Active().Text)
	}
}

func TestMajorIntentsRecordHistory(t *testing.T) {
	c, _ := newTestCoordinator(t, Deps{Clipboard: intake.StaticClipboard{Text: "pasted"}})

	steps := []struct {
		name string
		run  func() (State, error)
	}{
		{"template", func() (State, error) { return c.ApplyTemplate("study guide") }},
		{"upload", func() (State, error) {
			return c.Upload("a.txt", "text/plain", strings.NewReader("uploaded"))
		}},
		{"paste", func() (State, error) { return c.Paste(context.Background()) }},
		{"add page", func() (State, error) { return c.AddPage(), nil }},
		{"delete page", func() (State, error) { return c.DeletePage(), nil }},
		{"clear", func() (State, error) { return c.Clear(), nil }},
	}
	for i, step := range steps {
		st, err := step.run()
		if err != nil {
			t.Fatalf("%s failed: %v", step.name, err)
		}
		if st.HistoryLen != i+2 {
			t.Fatalf("%s: expected %d history entries, got %d", step.name, i+2, st.HistoryLen)
		}
	}

	st := c.State()
	if st.Active().Text != "" || st.Active().Settings.FontID != "kalam" {
		t.Fatalf("unexpected final page %+v", st.Active())
	}
}

func TestNavigateIsNotRecorded(t *testing.T) {
	c, persister := newTestCoordinator(t, Deps{})
	c.AddPage()
	before := persister.count()

	st := c.Navigate(-1)
	if st.CurrentIndex != 0 || st.HistoryLen != 2 {
		t.Fatalf("unexpected state after navigate %+v", st)
	}
	st = c.Navigate(-5)
	if st.CurrentIndex != 0 {
		t.Fatalf("navigate should clamp, got %d", st.CurrentIndex)
	}
	if persister.count() != before {
		t.Fatal("navigation should not schedule persistence")
	}
}

func TestUndoAfterTwoPages(t *testing.T) {
	c, _ := newTestCoordinator(t, Deps{})
	c.AddPage()
	c.AddPage()
	st := c.DeletePage()
	if len(st.Pages) != 2 || st.CurrentIndex != 1 {
		t.Fatalf("unexpected state after delete %+v", st)
	}
	st = c.Undo()
	if len(st.Pages) != 3 {
		t.Fatalf("undo should restore the deleted page, got %d pages", len(st.Pages))
	}
	c.Undo()
	st = c.Undo()
	if len(st.Pages) != 1 || st.CurrentIndex != 0 || st.CanUndo {
		t.Fatalf("unexpected state at history start %+v", st)
	}
}

func TestRecordingAfterUndoDropsRedo(t *testing.T) {
	c, _ := newTestCoordinator(t, Deps{})
	c.AddPage()
	c.Undo()
	st := c.Clear()
	if st.CanRedo {
		t.Fatal("recording after undo must discard the redo branch")
	}
}

func TestUploadRejectedLeavesStateUnchanged(t *testing.T) {
	c, _ := newTestCoordinator(t, Deps{})
	c.Type("keep")
	before := c.State()

	_, err := c.Upload("paper.pdf", "application/pdf", strings.NewReader("%PDF"))
	if !errors.Is(err, intake.ErrPDFUnsupported) {
		t.Fatalf("expected ErrPDFUnsupported, got %v", err)
	}
	_, err = c.Upload("photo.png", "image/png", strings.NewReader("x"))
	if !errors.Is(err, intake.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	after := c.State()
	if !note.EqualPages(before.Pages, after.Pages) || after.HistoryLen != before.HistoryLen {
		t.Fatal("rejected upload changed state")
	}
}

func TestUploadFont(t *testing.T) {
	c, _ := newTestCoordinator(t, Deps{})
	st, err := c.UploadFont("mine.woff2", "", strings.NewReader("font"))
	if err != nil {
		t.Fatalf("UploadFont failed: %v", err)
	}
	s := st.Active().Settings
	if !s.UseCustomFont || !strings.HasPrefix(s.CustomFontURL, "data:font/woff2;base64,") {
		t.Fatalf("unexpected settings %+v", s)
	}
}

func TestPaste(t *testing.T) {
	c, _ := newTestCoordinator(t, Deps{Clipboard: intake.StaticClipboard{}})
	st, err := c.Paste(context.Background())
	if err != nil || st.HistoryLen != 1 {
		t.Fatalf("empty clipboard should be a no-op, got %+v err=%v", st, err)
	}

	denied, _ := newTestCoordinator(t, Deps{Clipboard: intake.StaticClipboard{Err: intake.ErrClipboardDenied}})
	if _, err := denied.Paste(context.Background()); !errors.Is(err, intake.ErrClipboardDenied) {
		t.Fatalf("expected ErrClipboardDenied, got %v", err)
	}
}

func TestApplyTemplateUnknown(t *testing.T) {
	c, _ := newTestCoordinator(t, Deps{})
	if _, err := c.ApplyTemplate("nope"); !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
}

func TestSetSettingsKeepsText(t *testing.T) {
	c, _ := newTestCoordinator(t, Deps{})
	c.Type("body")
	st := c.SetSettings(note.Patch{FontSize: note.Float(40), InkColor: note.Ink(note.InkRed)})
	s := st.Active().Settings
	if s.FontSize != 40 || s.InkColor != note.InkRed || s.Text != "body" {
		t.Fatalf("unexpected settings %+v", s)
	}
	if st.CanUndo {
		t.Fatal("settings changes are minor")
	}
}

func TestApplyTextAndSettingsTogether(t *testing.T) {
	c, _ := newTestCoordinator(t, Deps{})
	text := "both"
	st := c.Apply(Update{
		Text:     &text,
		Settings: note.Patch{Text: note.String("ignored"), FontSize: note.Float(36)},
	}, true)
	p := st.Active()
	if p.Text != "both" || p.Settings.Text != "both" {
		t.Fatalf("text field should win, got page %q settings %q", p.Text, p.Settings.Text)
	}
	if p.Settings.FontSize != 36 {
		t.Fatalf("settings patch dropped, font size %v", p.Settings.FontSize)
	}
	if st.HistoryLen != 2 {
		t.Fatalf("expected one checkpoint, got %d entries", st.HistoryLen)
	}
}

func TestStats(t *testing.T) {
	c, _ := newTestCoordinator(t, Deps{})
	st := c.Type("  two words  ")
	if st.Stats.Words != 2 || st.Stats.Chars != 13 {
		t.Fatalf("unexpected stats %+v", st.Stats)
	}
}

func TestRefineAndSummarize(t *testing.T) {
	c, _ := newTestCoordinator(t, Deps{Transformer: &fakeTransformer{}})

	st, err := c.Refine(context.Background())
	if err != nil || st.HistoryLen != 1 {
		t.Fatalf("empty text should be a no-op, got %+v err=%v", st, err)
	}

	c.Type("notes")
	st, err = c.Refine(context.Background())
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if st.Active().Text != "refined: notes" || st.HistoryLen != 2 || st.Processing {
		t.Fatalf("unexpected state after refine %+v", st)
	}
	st, _ = c.Summarize(context.Background())
	if st.Active().Text != "- refined: notes" {
		t.Fatalf("unexpected summary %q", st.Active().Text)
	}
}

func TestSecondAIRequestIsBusy(t *testing.T) {
	fake := &fakeTransformer{release: make(chan struct{}), started: make(chan struct{}, 1)}
	c, _ := newTestCoordinator(t, Deps{Transformer: fake})
	c.Type("draft")

	done := make(chan State, 1)
	go func() {
		st, _ := c.Refine(context.Background())
		done <- st
	}()
	<-fake.started

	if !c.State().Processing {
		t.Fatal("expected processing while the transform runs")
	}
	if _, err := c.Summarize(context.Background()); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	// Editing stays possible while the transform runs.
	c.Type("draft edited")

	close(fake.release)
	st := <-done
	if st.Processing {
		t.Fatal("processing should clear after the transform")
	}
	if st.Active().Text != "refined: draft" {
		t.Fatalf("unexpected text %q", st.Active().Text)
	}
}

func TestAIResultFollowsOriginatingPage(t *testing.T) {
	fake := &fakeTransformer{release: make(chan struct{}), started: make(chan struct{}, 1)}
	c, _ := newTestCoordinator(t, Deps{Transformer: fake})
	c.Type("first")

	done := make(chan State, 1)
	go func() {
		st, _ := c.Refine(context.Background())
		done <- st
	}()
	<-fake.started
	c.AddPage()
	c.Type("second")

	close(fake.release)
	st := <-done
	if st.CurrentIndex != 1 {
		t.Fatalf("active page should stay on the second page, got %d", st.CurrentIndex)
	}
	if st.Pages[0].Text != "refined: first" || st.Pages[1].Text != "second" {
		t.Fatalf("result applied to the wrong page: %+v", st.Pages)
	}
}

func TestAIResultDroppedForDeletedPage(t *testing.T) {
	fake := &fakeTransformer{release: make(chan struct{}), started: make(chan struct{}, 1)}
	c, _ := newTestCoordinator(t, Deps{Transformer: fake})
	c.AddPage()
	c.Type("doomed")

	done := make(chan State, 1)
	go func() {
		st, _ := c.Refine(context.Background())
		done <- st
	}()
	<-fake.started
	c.DeletePage()

	close(fake.release)
	st := <-done
	for _, p := range st.Pages {
		if strings.Contains(p.Text, "refined") {
			t.Fatalf("result should be dropped, got %+v", st.Pages)
		}
	}
}

func TestAIResultLandsOnActivePageOfLoadedDocument(t *testing.T) {
	doc, ok := note.FromPages([]note.Page{{Text: "one"}, {Text: "two"}})
	if !ok {
		t.Fatal("expected document")
	}
	c := New(doc, Deps{Transformer: &fakeTransformer{}}, Options{PreviewDelay: time.Hour, Logger: zerolog.Nop()})
	defer c.Close(context.Background())

	c.Navigate(1)
	st, err := c.Refine(context.Background())
	if err != nil {
		t.Fatalf("Refine failed: %v", err)
	}
	if st.CurrentIndex != 1 || st.Pages[0].Text != "one" || st.Pages[1].Text != "refined: two" {
		t.Fatalf("refine applied to the wrong page: current=%d pages=%+v", st.CurrentIndex, st.Pages)
	}
}

func TestAICanceled(t *testing.T) {
	fake := &fakeTransformer{release: make(chan struct{}), started: make(chan struct{}, 1)}
	c, _ := newTestCoordinator(t, Deps{Transformer: fake})
	c.Type("draft")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Refine(ctx)
		done <- err
	}()
	<-fake.started
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if st := c.State(); st.Processing || st.Active().Text != "draft" {
		t.Fatalf("canceled transform changed state %+v", st)
	}
}

func TestPreviewSettlesAfterQuietPeriod(t *testing.T) {
	persister := &recordingPersister{}
	c := New(note.NewDocument(), Deps{Persister: persister}, Options{
		PreviewDelay: 20 * time.Millisecond,
		Logger:       zerolog.Nop(),
	})
	defer c.Close(context.Background())

	settled := make(chan note.Settings, 4)
	c.OnPreview(func(s note.Settings) { settled <- s })

	for _, size := range []float64{30, 31, 32} {
		c.SetSettings(note.Patch{FontSize: note.Float(size)})
	}
	if !c.State().PreviewStale {
		t.Fatal("preview should be stale inside the window")
	}

	select {
	case s := <-settled:
		if s.FontSize != 32 {
			t.Fatalf("expected only the last value projected, got %v", s.FontSize)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("preview never settled")
	}
	if c.State().PreviewStale || c.PreviewSettings().FontSize != 32 {
		t.Fatal("preview should be settled")
	}
	select {
	case s := <-settled:
		t.Fatalf("unexpected extra projection %+v", s)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestFlushPreview(t *testing.T) {
	c, _ := newTestCoordinator(t, Deps{})
	c.SetSettings(note.Patch{Tilt: note.Float(-2)})
	if c.PreviewSettings().Tilt == -2 {
		t.Fatal("preview settled too early")
	}
	c.FlushPreview()
	if c.PreviewSettings().Tilt != -2 {
		t.Fatal("flush should settle the preview")
	}
}

func TestCloseFlushesPersistence(t *testing.T) {
	persister := &recordingPersister{}
	c := New(note.NewDocument(), Deps{Persister: persister}, Options{Logger: zerolog.Nop()})
	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !persister.closed {
		t.Fatal("Close should close the persister")
	}
}

func TestHistoryLimitOption(t *testing.T) {
	c := New(note.NewDocument(), Deps{}, Options{HistoryLimit: 3, PreviewDelay: time.Hour, Logger: zerolog.Nop()})
	defer c.Close(context.Background())
	for i := 0; i < 10; i++ {
		c.Apply(TextUpdate(fmt.Sprint(i)), true)
	}
	st := c.State()
	if st.HistoryLen != 3 {
		t.Fatalf("expected 3 entries, got %d", st.HistoryLen)
	}
	c.Undo()
	st = c.Undo()
	if st.Active().Text != "7" || st.CanUndo {
		t.Fatalf("unexpected oldest entry %+v", st)
	}
}

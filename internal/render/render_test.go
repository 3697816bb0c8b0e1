package render

import (
	"strings"
	"testing"

	"inknote/internal/note"
)

func TestPageHasPreviewElement(t *testing.T) {
	s := note.DefaultSettings()
	s.Text = "Dear diary"
	out, err := Page(s)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	for _, want := range []string{`id="note-preview"`, "Dear diary", "Caveat", "font-size:22px", "#1d4ed8", "rotate(0.5deg)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestPageEscapesText(t *testing.T) {
	s := note.DefaultSettings()
	s.Text = "<script>alert(1)</script>"
	out, err := Page(s)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if strings.Contains(out, "<script>alert") {
		t.Fatal("text must be escaped")
	}
}

func TestEmptyTextShowsPlaceholder(t *testing.T) {
	out, err := Page(note.DefaultSettings())
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if !strings.Contains(out, "Welcome to InkNote.") {
		t.Fatal("expected placeholder text")
	}
}

func TestMarginLine(t *testing.T) {
	tests := []struct {
		paper note.PaperType
		want  bool
	}{
		{note.PaperRuled, true},
		{note.PaperYellowLegal, true},
		{note.PaperPlain, false},
		{note.PaperGrid, false},
		{note.PaperBlueprint, false},
	}
	for _, tt := range tests {
		s := note.DefaultSettings()
		s.PaperType = tt.paper
		s.Margin = 70
		out, err := Page(s)
		if err != nil {
			t.Fatalf("Page(%s) failed: %v", tt.paper, err)
		}
		got := strings.Contains(out, `class="note-margin"`)
		if got != tt.want {
			t.Errorf("%s: margin line = %v, want %v", tt.paper, got, tt.want)
		}
		if tt.want && !strings.Contains(out, "padding-left:94px") {
			t.Errorf("%s: expected text inset past the margin", tt.paper)
		}
	}
}

func TestBlueprintUsesWhiteInk(t *testing.T) {
	for _, ink := range note.InkColors {
		if got := InkHex(ink, note.PaperBlueprint); got != "#ffffff" {
			t.Errorf("blueprint %s ink = %s", ink, got)
		}
	}
	if got := InkHex(note.InkRed, note.PaperPlain); got != "#b91c1c" {
		t.Errorf("red ink = %s", got)
	}
	if got := InkHex("PURPLE", note.PaperPlain); got != "#1d4ed8" {
		t.Errorf("unknown ink should fall back to blue, got %s", got)
	}
}

func TestEveryPaperHasStyle(t *testing.T) {
	for _, p := range note.PaperTypes {
		if !strings.HasPrefix(PaperCSS(p), "background-color:") {
			t.Errorf("paper %s has no background", p)
		}
	}
}

func TestFontsCatalogue(t *testing.T) {
	if len(Fonts) != 13 {
		t.Fatalf("expected 13 fonts, got %d", len(Fonts))
	}
	if _, ok := FontByID(note.DefaultFontID); !ok {
		t.Fatal("default font missing from catalogue")
	}
	href := fontsHref([]note.Settings{{FontID: "indie"}, {FontID: "indie"}, {FontID: "kalam"}, {FontID: "nope"}})
	if href != "https://fonts.googleapis.com/css2?family=Indie+Flower&family=Kalam&display=swap" {
		t.Fatalf("unexpected fonts href %q", href)
	}
}

func TestCustomFont(t *testing.T) {
	s := note.DefaultSettings()
	s.UseCustomFont = true
	s.CustomFontURL = "data:font/ttf;base64,AAAA"
	out, err := Page(s)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if !strings.Contains(out, "@font-face") || !strings.Contains(out, customFontFamily) {
		t.Fatal("expected custom font face")
	}

	if got := fontFace(`javascript:alert(1)`); got != "" {
		t.Fatalf("expected unsafe url rejected, got %q", got)
	}
	if got := fontFace(`data:x");}body{color:red`); got != "" {
		t.Fatalf("expected quote-breaking url rejected, got %q", got)
	}
}

func TestDocumentRendersEveryPage(t *testing.T) {
	a, b := note.DefaultSettings(), note.DefaultSettings()
	a.Text, b.Text = "page one", "page two"
	out, err := Document([]note.Settings{a, b})
	if err != nil {
		t.Fatalf("Document failed: %v", err)
	}
	for _, want := range []string{`id="note-page-1"`, `id="note-page-2"`, "page one", "page two", "break-after: page"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if _, err := Document(nil); err == nil {
		t.Fatal("expected error for empty document")
	}
}

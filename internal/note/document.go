package note

import (
	"slices"
	"strings"
	"unicode/utf8"

	"inknote/internal/util"
)

// Page pairs raw text with its full render configuration. Text mirrors
// Settings.Text after every committed update.
type Page struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Settings Settings `json:"settings"`
}

// Document is an ordered, non-empty sequence of pages plus the active page
// pointer. Every method is a pure transform: the receiver is never modified
// and the returned Document shares no page storage with it.
type Document struct {
	Pages   []Page `json:"pages"`
	Current int    `json:"currentIndex"`
}

// NewPageID returns an identifier for a freshly created page.
func NewPageID() string {
	return util.NewID("page")
}

// NewDocument returns the default document: one blank page with default
// settings.
func NewDocument() Document {
	return Document{Pages: []Page{BlankPage(NewPageID(), DefaultSettings())}}
}

// BlankPage returns a page with empty text and a copy of settings.
func BlankPage(id string, settings Settings) Page {
	settings.Text = ""
	return Page{ID: id, Settings: settings}
}

// FromPages builds a document around a copy of pages, repairing any page
// whose settings text diverges from its text and giving a fresh id to any
// page whose id is empty or repeats an earlier one. It returns false for an
// empty sequence.
func FromPages(pages []Page) (Document, bool) {
	if len(pages) == 0 {
		return Document{}, false
	}
	out := ClonePages(pages)
	seen := make(map[string]bool, len(out))
	for i := range out {
		out[i].Settings.Text = out[i].Text
		if out[i].ID == "" || seen[out[i].ID] {
			out[i].ID = NewPageID()
		}
		seen[out[i].ID] = true
	}
	return Document{Pages: out}, true
}

// ClonePages copies a page sequence. Pages hold only value fields, so a
// shallow slice copy is a deep copy.
func ClonePages(pages []Page) []Page {
	return slices.Clone(pages)
}

// EqualPages reports whether two page sequences are identical.
func EqualPages(a, b []Page) bool {
	return slices.Equal(a, b)
}

func (d Document) Len() int { return len(d.Pages) }

// Active returns the active page. Out-of-range indexes fall back to the first
// page.
func (d Document) Active() Page {
	return d.Pages[d.index()]
}

func (d Document) index() int {
	if d.Current < 0 || d.Current >= len(d.Pages) {
		return 0
	}
	return d.Current
}

// Clone returns a copy sharing no page storage with d.
func (d Document) Clone() Document {
	return Document{Pages: ClonePages(d.Pages), Current: d.index()}
}

// Equal compares pages and the active index.
func (d Document) Equal(o Document) bool {
	return d.index() == o.index() && EqualPages(d.Pages, o.Pages)
}

// WithPages replaces the page sequence, keeping the active index clamped into
// the new range. An empty sequence leaves the document unchanged.
func (d Document) WithPages(pages []Page) Document {
	if len(pages) == 0 {
		return d.Clone()
	}
	return Document{Pages: ClonePages(pages), Current: clampIndex(d.Current, len(pages))}
}

// UpdateActiveText sets the active page text and mirrors it into its
// settings. No other page is touched.
func (d Document) UpdateActiveText(text string) Document {
	return d.UpdateActiveSettings(Patch{Text: &text})
}

// UpdateActiveSettings merges patch into the active page settings.
func (d Document) UpdateActiveSettings(patch Patch) Document {
	out := d.Clone()
	i := out.index()
	out.Pages[i] = merge(out.Pages[i], patch)
	return out
}

// merge is the only place page text and settings text are reconciled: an
// explicit text sets both, anything else forces settings text back to the
// page text.
func merge(page Page, patch Patch) Page {
	if patch.Text != nil {
		page.Text = *patch.Text
	}
	page.Settings = patch.Apply(page.Settings)
	page.Settings.Text = page.Text
	return page
}

// AddPage appends a blank page cloned from the active page settings and makes
// it active.
func (d Document) AddPage(id string) Document {
	out := d.Clone()
	out.Pages = append(out.Pages, BlankPage(id, d.Active().Settings))
	out.Current = len(out.Pages) - 1
	return out
}

// DeletePage removes the active page. The last remaining page is never
// removed; its text is cleared in place instead.
func (d Document) DeletePage() Document {
	if len(d.Pages) <= 1 {
		return d.UpdateActiveText("")
	}
	i := d.index()
	pages := make([]Page, 0, len(d.Pages)-1)
	pages = append(pages, d.Pages[:i]...)
	pages = append(pages, d.Pages[i+1:]...)
	return Document{Pages: pages, Current: max(0, i-1)}
}

// Navigate moves the active index by delta, clamped to the page range.
func (d Document) Navigate(delta int) Document {
	out := d.Clone()
	n := len(out.Pages)
	// Bounding delta first keeps the sum from overflowing.
	delta = min(max(delta, -n), n)
	out.Current = clampIndex(out.Current+delta, n)
	return out
}

// Select makes the page with id active.
func (d Document) Select(id string) (Document, bool) {
	i := slices.IndexFunc(d.Pages, func(p Page) bool { return p.ID == id })
	if i < 0 {
		return d, false
	}
	out := d.Clone()
	out.Current = i
	return out, true
}

func clampIndex(i, n int) int {
	return min(max(i, 0), n-1)
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// CharCount counts characters, not bytes.
func CharCount(text string) int {
	return utf8.RuneCountInString(text)
}

// Package render turns page settings into standalone HTML documents that
// draw the note as handwriting on paper.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"inknote/internal/note"
)

// PreviewID is the element id of the paper sheet in single-page output.
const PreviewID = "note-preview"

// Placeholder is shown on a page with no text.
const Placeholder = "Welcome to InkNote.\n\n" +
	"Type your content in the input field to see it transformed into high-quality handwriting. " +
	"You can adjust the font style, ink color, paper type, and even fine-tune the layout using the controls.\n\n" +
	"Try the refine tool to give your text a more conversational and natural flow!"

//go:embed templates/*.html
var templateFS embed.FS

var noteTemplate *template.Template

func init() {
	content, err := templateFS.ReadFile("templates/note.html")
	if err != nil {
		noteTemplate = template.Must(template.New("note").Parse(fallbackTemplate))
		return
	}
	noteTemplate = template.Must(template.New("note").Parse(string(content)))
}

type documentView struct {
	Title      string
	FontsHref  string
	CustomFont template.CSS
	Print      bool
	Sheets     []sheetView
}

type sheetView struct {
	ID          string
	Text        string
	SheetStyle  template.CSS
	TextStyle   template.CSS
	MarginLine  bool
	MarginStyle template.CSS
}

// Page renders one page with its sheet carrying the PreviewID element id.
func Page(s note.Settings) (string, error) {
	return execute([]note.Settings{s}, false)
}

// Document renders every page, one sheet per printed page.
func Document(pages []note.Settings) (string, error) {
	if len(pages) == 0 {
		return "", fmt.Errorf("render document: no pages")
	}
	return execute(pages, true)
}

func execute(pages []note.Settings, print bool) (string, error) {
	view := documentView{
		Title:     "InkNote",
		FontsHref: fontsHref(pages),
		Print:     print,
	}
	for i, s := range pages {
		if view.CustomFont == "" && s.UseCustomFont {
			view.CustomFont = fontFace(s.CustomFontURL)
		}
		sheet := newSheet(s)
		if print {
			sheet.ID = "note-page-" + strconv.Itoa(i+1)
		} else {
			sheet.ID = PreviewID
		}
		view.Sheets = append(view.Sheets, sheet)
	}

	var buf bytes.Buffer
	if err := noteTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render note template: %w", err)
	}
	return buf.String(), nil
}

func newSheet(s note.Settings) sheetView {
	margin := hasMarginLine(s.PaperType)
	contentLeft := 0.0
	if margin {
		contentLeft = s.Margin + 24
	}

	sheet := []string{
		PaperCSS(s.PaperType),
		"padding:" + px(s.PaddingY) + " " + px(s.PaddingX),
	}

	shadow := "0.2px 0.2px 0.5px rgba(0,0,0,0.1)"
	if s.PaperType == note.PaperBlueprint {
		shadow = "1px 1px 2px rgba(0,0,0,0.5)"
	}
	text := []string{
		"font-family:" + fontStack(s),
		"font-size:" + px(s.FontSize),
		"color:" + InkHex(s.InkColor, s.PaperType),
		"line-height:" + num(s.LineSpacing),
		"letter-spacing:" + px(s.LetterSpacing),
		"text-align:" + string(align(s.TextAlign)),
		"padding-left:" + px(contentLeft),
		"transform:rotate(" + num(s.Tilt) + "deg)",
		"text-shadow:" + shadow,
	}

	body := s.Text
	if body == "" {
		body = Placeholder
	}
	return sheetView{
		Text:        body,
		SheetStyle:  template.CSS(strings.Join(sheet, ";")),
		TextStyle:   template.CSS(strings.Join(text, ";")),
		MarginLine:  margin,
		MarginStyle: template.CSS("left:" + px(s.Margin)),
	}
}

// fontFace returns an @font-face rule for a custom font URL, or "" when the
// URL cannot be embedded in a CSS string safely.
func fontFace(src string) template.CSS {
	if src == "" || strings.ContainsAny(src, "\"\\\n\r<>") {
		return ""
	}
	if !strings.HasPrefix(src, "data:") && !strings.HasPrefix(src, "https://") {
		return ""
	}
	return template.CSS(`@font-face{font-family:"` + customFontFamily + `";src:url("` + src + `")}`)
}

func align(a note.TextAlign) note.TextAlign {
	for _, v := range note.TextAligns {
		if v == a {
			return a
		}
	}
	return note.AlignLeft
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
func px(v float64) string  { return num(v) + "px" }

const fallbackTemplate = `<!DOCTYPE html>
<html><head><meta charset="UTF-8"><title>{{.Title}}</title>
{{if .CustomFont}}<style>{{.CustomFont}}</style>{{end}}
</head><body>
{{range .Sheets}}<div id="{{.ID}}" style="{{.SheetStyle}}"><div style="white-space:pre-wrap;{{.TextStyle}}">{{.Text}}</div></div>
{{end}}</body></html>`

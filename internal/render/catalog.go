package render

import (
	"net/url"
	"strings"

	"inknote/internal/note"
)

// Font is one handwriting face offered to the user.
type Font struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Family string `json:"family"`
}

var Fonts = []Font{
	{ID: "caveat", Name: "Standard Caveat", Family: "Caveat"},
	{ID: "indie", Name: "Indie Casual", Family: "Indie Flower"},
	{ID: "patrick", Name: "Neat Patrick", Family: "Patrick Hand"},
	{ID: "shadows", Name: "Artistic Shadows", Family: "Shadows Into Light"},
	{ID: "gloria", Name: "Bold Hallelujah", Family: "Gloria Hallelujah"},
	{ID: "dancing", Name: "Elegant Dancing", Family: "Dancing Script"},
	{ID: "sacramento", Name: "Fancy Sacramento", Family: "Sacramento"},
	{ID: "homemade", Name: "Rustic Apple", Family: "Homemade Apple"},
	{ID: "reenie", Name: "Quick Note", Family: "Reenie Beanie"},
	{ID: "kalam", Name: "Modern Kalam", Family: "Kalam"},
	{ID: "zeyada", Name: "Flowing Zeyada", Family: "Zeyada"},
	{ID: "mrdafoe", Name: "Classic Dafoe", Family: "Mr Dafoe"},
	{ID: "grandhotel", Name: "Grand Hotel", Family: "Grand Hotel"},
}

// FontByID looks a font up by its catalogue id.
func FontByID(id string) (Font, bool) {
	for _, f := range Fonts {
		if f.ID == id {
			return f, true
		}
	}
	return Font{}, false
}

const customFontFamily = "InkNote-Custom-Handwriting"

// fontStack returns the CSS font-family for settings.
func fontStack(s note.Settings) string {
	if s.UseCustomFont && s.CustomFontURL != "" {
		return `"` + customFontFamily + `", cursive`
	}
	if f, ok := FontByID(s.FontID); ok {
		return `"` + f.Family + `", cursive`
	}
	return "cursive"
}

// fontsHref returns the web font stylesheet for every catalogue font used by
// pages, or "" when none is.
func fontsHref(pages []note.Settings) string {
	seen := map[string]bool{}
	var families []string
	for _, s := range pages {
		f, ok := FontByID(s.FontID)
		if !ok || seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		families = append(families, "family="+url.QueryEscape(f.Family))
	}
	if len(families) == 0 {
		return ""
	}
	return "https://fonts.googleapis.com/css2?" + strings.Join(families, "&") + "&display=swap"
}

var inkHex = map[note.InkColor]string{
	note.InkBlue:   "#1d4ed8",
	note.InkBlack:  "#1e293b",
	note.InkRed:    "#b91c1c",
	note.InkGreen:  "#15803d",
	note.InkPencil: "#4b5563",
}

// InkHex returns the display color of the ink on the given paper. Blueprint
// paper always uses white ink.
func InkHex(ink note.InkColor, paper note.PaperType) string {
	if paper == note.PaperBlueprint {
		return "#ffffff"
	}
	if hex, ok := inkHex[ink]; ok {
		return hex
	}
	return inkHex[note.InkBlue]
}

var paperCSS = map[note.PaperType]string{
	note.PaperPlain: "background-color:#ffffff",
	note.PaperRuled: "background-color:#ffffff;" +
		"background-image:linear-gradient(#e5e7eb 1px,transparent 1px);background-size:100% 2.5rem",
	note.PaperGrid: "background-color:#ffffff;" +
		"background-image:linear-gradient(#e5e7eb 1px,transparent 1px),linear-gradient(90deg,#e5e7eb 1px,transparent 1px);" +
		"background-size:2rem 2rem",
	note.PaperVintage: "background-color:#fdf6e3;" +
		"background-image:radial-gradient(#00000005 1px,transparent 0);background-size:4px 4px",
	note.PaperYellowLegal: "background-color:#fff9c4;" +
		"background-image:linear-gradient(#fdd83544 1px,transparent 1px);background-size:100% 2.5rem",
	note.PaperGraphite: "background-color:#e2e8f0;" +
		"background-image:radial-gradient(#0000000a 1px,transparent 0);background-size:2px 2px",
	note.PaperRecycled: "background-color:#d2b48c33;" +
		`background-image:url("https://www.transparenttextures.com/patterns/handmade-paper.png")`,
	note.PaperBlueprint: "background-color:#003366;" +
		"background-image:linear-gradient(#ffffff11 1px,transparent 1px),linear-gradient(90deg,#ffffff11 1px,transparent 1px);" +
		"background-size:2rem 2rem",
}

// PaperCSS returns the background declarations for a paper type.
func PaperCSS(p note.PaperType) string {
	if css, ok := paperCSS[p]; ok {
		return css
	}
	return paperCSS[note.PaperPlain]
}

// hasMarginLine reports whether the paper shows the vertical notebook rule.
func hasMarginLine(p note.PaperType) bool {
	return p == note.PaperRuled || p == note.PaperYellowLegal
}

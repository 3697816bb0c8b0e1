// Package note holds the handwritten note document model: per-page render
// settings, pages and the multi-page document with its page store transforms.
package note

type InkColor string

const (
	InkBlue   InkColor = "BLUE"
	InkBlack  InkColor = "BLACK"
	InkRed    InkColor = "RED"
	InkGreen  InkColor = "GREEN"
	InkPencil InkColor = "PENCIL"
)

var InkColors = []InkColor{InkBlue, InkBlack, InkRed, InkGreen, InkPencil}

type PaperType string

const (
	PaperPlain       PaperType = "PLAIN"
	PaperRuled       PaperType = "RULED"
	PaperGrid        PaperType = "GRID"
	PaperVintage     PaperType = "VINTAGE"
	PaperYellowLegal PaperType = "YELLOW_LEGAL"
	PaperGraphite    PaperType = "GRAPHITE"
	PaperRecycled    PaperType = "RECYCLED"
	PaperBlueprint   PaperType = "BLUEPRINT"
)

var PaperTypes = []PaperType{
	PaperPlain, PaperRuled, PaperGrid, PaperVintage,
	PaperYellowLegal, PaperGraphite, PaperRecycled, PaperBlueprint,
}

type TextAlign string

const (
	AlignLeft    TextAlign = "left"
	AlignCenter  TextAlign = "center"
	AlignRight   TextAlign = "right"
	AlignJustify TextAlign = "justify"
)

var TextAligns = []TextAlign{AlignLeft, AlignCenter, AlignRight, AlignJustify}

// Settings is the full render configuration of one page. Values are copied,
// never shared, so a Settings held by a snapshot cannot change underneath it.
type Settings struct {
	Text          string    `json:"text"`
	FontID        string    `json:"fontId"`
	FontSize      float64   `json:"fontSize"`
	InkColor      InkColor  `json:"inkColor"`
	PaperType     PaperType `json:"paperType"`
	LineSpacing   float64   `json:"lineSpacing"`
	LetterSpacing float64   `json:"letterSpacing"`
	Margin        float64   `json:"margin"`
	Tilt          float64   `json:"tilt"`
	TextAlign     TextAlign `json:"textAlign"`
	PaddingX      float64   `json:"paddingX"`
	PaddingY      float64   `json:"paddingY"`
	UseCustomFont bool      `json:"useCustomFont,omitempty"`
	CustomFontURL string    `json:"customFontUrl,omitempty"`
}

const DefaultFontID = "caveat"

// DefaultSettings returns the settings of a fresh blank page.
func DefaultSettings() Settings {
	return Settings{
		FontID:        DefaultFontID,
		FontSize:      22,
		InkColor:      InkBlue,
		PaperType:     PaperRuled,
		LineSpacing:   1.8,
		LetterSpacing: 0,
		Margin:        60,
		Tilt:          0.5,
		TextAlign:     AlignLeft,
		PaddingX:      40,
		PaddingY:      60,
	}
}

// Patch is a partial settings update. Nil fields are left untouched.
type Patch struct {
	Text          *string    `json:"text,omitempty"`
	FontID        *string    `json:"fontId,omitempty"`
	FontSize      *float64   `json:"fontSize,omitempty"`
	InkColor      *InkColor  `json:"inkColor,omitempty"`
	PaperType     *PaperType `json:"paperType,omitempty"`
	LineSpacing   *float64   `json:"lineSpacing,omitempty"`
	LetterSpacing *float64   `json:"letterSpacing,omitempty"`
	Margin        *float64   `json:"margin,omitempty"`
	Tilt          *float64   `json:"tilt,omitempty"`
	TextAlign     *TextAlign `json:"textAlign,omitempty"`
	PaddingX      *float64   `json:"paddingX,omitempty"`
	PaddingY      *float64   `json:"paddingY,omitempty"`
	UseCustomFont *bool      `json:"useCustomFont,omitempty"`
	CustomFontURL *string    `json:"customFontUrl,omitempty"`
}

// Apply returns s with every non-nil field of p copied over it.
func (p Patch) Apply(s Settings) Settings {
	if p.Text != nil {
		s.Text = *p.Text
	}
	if p.FontID != nil {
		s.FontID = *p.FontID
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.InkColor != nil {
		s.InkColor = *p.InkColor
	}
	if p.PaperType != nil {
		s.PaperType = *p.PaperType
	}
	if p.LineSpacing != nil {
		s.LineSpacing = *p.LineSpacing
	}
	if p.LetterSpacing != nil {
		s.LetterSpacing = *p.LetterSpacing
	}
	if p.Margin != nil {
		s.Margin = *p.Margin
	}
	if p.Tilt != nil {
		s.Tilt = *p.Tilt
	}
	if p.TextAlign != nil {
		s.TextAlign = *p.TextAlign
	}
	if p.PaddingX != nil {
		s.PaddingX = *p.PaddingX
	}
	if p.PaddingY != nil {
		s.PaddingY = *p.PaddingY
	}
	if p.UseCustomFont != nil {
		s.UseCustomFont = *p.UseCustomFont
	}
	if p.CustomFontURL != nil {
		s.CustomFontURL = *p.CustomFontURL
	}
	return s
}

// IsZero reports whether the patch changes nothing.
func (p Patch) IsZero() bool {
	return p == Patch{}
}

// Clamp returns a copy of the patch with every range-bound field clamped and
// unknown enum values dropped, the way the input controls bound user input.
func (p Patch) Clamp() Patch {
	clampPtr := func(v *float64, lo, hi float64) *float64 {
		if v == nil {
			return nil
		}
		c := clamp(*v, lo, hi)
		return &c
	}
	out := p
	out.FontSize = clampPtr(p.FontSize, MinFontSize, MaxFontSize)
	out.LineSpacing = clampPtr(p.LineSpacing, MinLineSpacing, MaxLineSpacing)
	out.LetterSpacing = clampPtr(p.LetterSpacing, 0, maxFloat)
	out.Margin = clampPtr(p.Margin, MinMargin, MaxMargin)
	out.Tilt = clampPtr(p.Tilt, MinTilt, MaxTilt)
	out.PaddingX = clampPtr(p.PaddingX, 0, maxFloat)
	out.PaddingY = clampPtr(p.PaddingY, 0, maxFloat)
	if p.InkColor != nil && !validInk(*p.InkColor) {
		out.InkColor = nil
	}
	if p.PaperType != nil && !validPaper(*p.PaperType) {
		out.PaperType = nil
	}
	if p.TextAlign != nil && !validAlign(*p.TextAlign) {
		out.TextAlign = nil
	}
	return out
}

func String(v string) *string      { return &v }
func Float(v float64) *float64     { return &v }
func Bool(v bool) *bool            { return &v }
func Ink(v InkColor) *InkColor     { return &v }
func Paper(v PaperType) *PaperType { return &v }
func Align(v TextAlign) *TextAlign { return &v }

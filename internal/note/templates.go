package note

import "strings"

// Template is a named partial settings preset.
type Template struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Patch Patch  `json:"settings"`
}

var Templates = []Template{
	{
		Name: "Formal Letter",
		Icon: "✉️",
		Patch: Patch{
			FontID:      String("patrick"),
			FontSize:    Float(18),
			InkColor:    Ink(InkBlack),
			PaperType:   Paper(PaperPlain),
			LineSpacing: Float(2.0),
			Margin:      Float(50),
			TextAlign:   Align(AlignLeft),
		},
	},
	{
		Name: "Casual Note",
		Icon: "✍️",
		Patch: Patch{
			FontID:      String("caveat"),
			FontSize:    Float(24),
			InkColor:    Ink(InkBlue),
			PaperType:   Paper(PaperRuled),
			LineSpacing: Float(1.6),
			Tilt:        Float(1.2),
		},
	},
	{
		Name: "Study Guide",
		Icon: "📖",
		Patch: Patch{
			FontID:      String("kalam"),
			FontSize:    Float(20),
			InkColor:    Ink(InkPencil),
			PaperType:   Paper(PaperGrid),
			LineSpacing: Float(1.4),
			PaddingX:    Float(50),
		},
	},
	{
		Name: "Old Journal",
		Icon: "📜",
		Patch: Patch{
			FontID:      String("homemade"),
			FontSize:    Float(22),
			InkColor:    Ink(InkBlack),
			PaperType:   Paper(PaperVintage),
			LineSpacing: Float(1.8),
			Tilt:        Float(-0.5),
		},
	},
	{
		Name: "Architect",
		Icon: "📐",
		Patch: Patch{
			FontID:        String("indie"),
			FontSize:      Float(16),
			InkColor:      Ink(InkBlue),
			PaperType:     Paper(PaperBlueprint),
			LineSpacing:   Float(1.5),
			LetterSpacing: Float(1),
		},
	},
}

// TemplateByName looks a template up case-insensitively.
func TemplateByName(name string) (Template, bool) {
	for _, t := range Templates {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return Template{}, false
}

package note

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

const (
	MinFontSize    = 12
	MaxFontSize    = 64
	MinLineSpacing = 1.0
	MaxLineSpacing = 3.0
	MinMargin      = 0
	MaxMargin      = 200
	MinTilt        = -5
	MaxTilt        = 5

	maxFloat = math.MaxFloat64
)

// ErrInvalidSettings wraps every range or enum violation reported by Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Validate reports every out-of-range or unknown field. The page store never
// calls it; hosts decide whether to reject or Clamp.
func (s Settings) Validate() error {
	var errs []error
	check := func(field string, v, lo, hi float64) {
		if math.IsNaN(v) || v < lo || v > hi {
			errs = append(errs, fmt.Errorf("%w: %s %v out of range [%v, %v]", ErrInvalidSettings, field, v, lo, hi))
		}
	}
	check("fontSize", s.FontSize, MinFontSize, MaxFontSize)
	check("lineSpacing", s.LineSpacing, MinLineSpacing, MaxLineSpacing)
	check("letterSpacing", s.LetterSpacing, 0, maxFloat)
	check("margin", s.Margin, MinMargin, MaxMargin)
	check("tilt", s.Tilt, MinTilt, MaxTilt)
	check("paddingX", s.PaddingX, 0, maxFloat)
	check("paddingY", s.PaddingY, 0, maxFloat)
	if !validInk(s.InkColor) {
		errs = append(errs, fmt.Errorf("%w: unknown inkColor %q", ErrInvalidSettings, s.InkColor))
	}
	if !validPaper(s.PaperType) {
		errs = append(errs, fmt.Errorf("%w: unknown paperType %q", ErrInvalidSettings, s.PaperType))
	}
	if !validAlign(s.TextAlign) {
		errs = append(errs, fmt.Errorf("%w: unknown textAlign %q", ErrInvalidSettings, s.TextAlign))
	}
	return errors.Join(errs...)
}

// Clamp returns a copy with every numeric field clamped into range and unknown
// enum values replaced by their defaults.
func (s Settings) Clamp() Settings {
	def := DefaultSettings()
	s.FontSize = clamp(s.FontSize, MinFontSize, MaxFontSize)
	s.LineSpacing = clamp(s.LineSpacing, MinLineSpacing, MaxLineSpacing)
	s.LetterSpacing = clamp(s.LetterSpacing, 0, maxFloat)
	s.Margin = clamp(s.Margin, MinMargin, MaxMargin)
	s.Tilt = clamp(s.Tilt, MinTilt, MaxTilt)
	s.PaddingX = clamp(s.PaddingX, 0, maxFloat)
	s.PaddingY = clamp(s.PaddingY, 0, maxFloat)
	if !validInk(s.InkColor) {
		s.InkColor = def.InkColor
	}
	if !validPaper(s.PaperType) {
		s.PaperType = def.PaperType
	}
	if !validAlign(s.TextAlign) {
		s.TextAlign = def.TextAlign
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

func validInk(c InkColor) bool    { return slices.Contains(InkColors, c) }
func validPaper(p PaperType) bool { return slices.Contains(PaperTypes, p) }
func validAlign(a TextAlign) bool { return slices.Contains(TextAligns, a) }

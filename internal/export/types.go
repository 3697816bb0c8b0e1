// Package export captures rendered notes as PNG, JPEG or PDF using headless
// Chrome and optionally uploads the result to object storage.
package export

import (
	"errors"
	"fmt"
	"strings"

	"inknote/internal/note"
)

// Format represents the export output format
type Format string

const (
	FormatPNG Format = "png"
	FormatJPG Format = "jpg"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts png, jpg, jpeg or pdf in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPG, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (f Format) MimeType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPG:
		return "image/jpeg"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Request contains parameters for an export operation. Images capture the
// page at Index; PDF prints every page.
type Request struct {
	Format Format
	Pages  []note.Settings
	Index  int
}

// Result contains the export output
type Result struct {
	Data     []byte
	Filename string
	MimeType string
	URL      string
}

var (
	// ErrBrowserMissing indicates no headless Chrome binary could be found.
	ErrBrowserMissing = errors.New("export browser missing")
	// ErrUnsupportedFormat indicates an unknown export format.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrNothingToExport indicates the request carried no pages.
	ErrNothingToExport = errors.New("nothing to export")
)

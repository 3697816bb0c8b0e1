// Package intake reads text and fonts brought in from outside the editor:
// uploaded files and the system clipboard.
package intake

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	MaxTextBytes = 1 << 20
	MaxFontBytes = 1 << 20
)

var (
	// ErrPDFUnsupported is returned for PDF uploads.
	ErrPDFUnsupported = errors.New("PDF support coming soon")
	// ErrUnsupportedType is returned for uploads that are not plain text.
	ErrUnsupportedType = errors.New("only .txt files are supported currently")
	// ErrTooLarge is returned when an upload exceeds its size limit.
	ErrTooLarge = errors.New("file is too large")
	// ErrNotUTF8 is returned for a text upload that is not valid UTF-8.
	ErrNotUTF8 = errors.New("failed to read file")
	// ErrImageFontBeta is returned for image uploads to the font slot.
	ErrImageFontBeta = errors.New("image-to-font processing is currently in beta; " +
		"please upload a .ttf or .otf handwriting font file")
)

// ReadUpload returns the text of an uploaded plain text file.
func ReadUpload(name, contentType string, r io.Reader) (string, error) {
	mediaType := mediaType(contentType)
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case mediaType == "text/plain" || ext == ".txt":
	case mediaType == "application/pdf" || ext == ".pdf":
		return "", ErrPDFUnsupported
	default:
		return "", ErrUnsupportedType
	}

	data, err := readLimited(r, MaxTextBytes)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrNotUTF8
	}
	return string(data), nil
}

var fontTypes = map[string]string{
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".woff":  "font/woff",
	".woff2": "font/woff2",
}

// ReadFont returns an uploaded font file as a data URL usable as a custom
// font source.
func ReadFont(name, contentType string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	fontType, ok := fontTypes[ext]
	if !ok {
		if strings.HasPrefix(mediaType(contentType), "image/") {
			return "", ErrImageFontBeta
		}
		return "", fmt.Errorf("%w: expected .ttf, .otf, .woff or .woff2", ErrUnsupportedType)
	}
	data, err := readLimited(r, MaxFontBytes)
	if err != nil {
		return "", err
	}
	return "data:" + fontType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mt
}

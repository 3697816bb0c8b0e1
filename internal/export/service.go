package export

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"inknote/internal/render"
)

// Sink stores an export and returns where it can be fetched.
type Sink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Service provides note export functionality
type Service struct {
	capturer Capturer
	sink     Sink
	log      zerolog.Logger
	now      func() time.Time
}

// NewService creates a new export service. sink may be nil.
func NewService(capturer Capturer, sink Sink, logger zerolog.Logger) *Service {
	return &Service{
		capturer: capturer,
		sink:     sink,
		log:      logger.With().Str("component", "export").Logger(),
		now:      time.Now,
	}
}

// HasSink reports whether results are uploaded.
func (s *Service) HasSink() bool { return s.sink != nil }

// Export generates an export in the requested format
func (s *Service) Export(ctx context.Context, req Request) (*Result, error) {
	if len(req.Pages) == 0 {
		return nil, ErrNothingToExport
	}
	if req.Index < 0 || req.Index >= len(req.Pages) {
		return nil, fmt.Errorf("%w: page %d of %d", ErrNothingToExport, req.Index+1, len(req.Pages))
	}

	var (
		data []byte
		err  error
	)
	switch req.Format {
	case FormatPNG, FormatJPG:
		data, err = s.image(ctx, req)
	case FormatPDF:
		data, err = s.pdf(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, req.Format)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Data:     data,
		Filename: Filename(req.Index, req.Format, s.now()),
		MimeType: req.Format.MimeType(),
	}
	if s.sink != nil {
		url, err := s.sink.Put(ctx, result.Filename, result.MimeType, data)
		if err != nil {
			return nil, fmt.Errorf("upload export: %w", err)
		}
		result.URL = url
	}
	s.log.Info().
		Str("format", string(req.Format)).
		Int("page", req.Index+1).
		Int("bytes", len(data)).
		Str("filename", result.Filename).
		Msg("note exported")
	return result, nil
}

func (s *Service) image(ctx context.Context, req Request) ([]byte, error) {
	html, err := render.Page(req.Pages[req.Index])
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return s.capturer.Screenshot(ctx, html, "#"+render.PreviewID, req.Format)
}

func (s *Service) pdf(ctx context.Context, req Request) ([]byte, error) {
	html, err := render.Document(req.Pages)
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return s.capturer.PrintPDF(ctx, html)
}

// Filename names an export inknote-p{page}-{unix millis}.{ext}.
func Filename(index int, format Format, at time.Time) string {
	return fmt.Sprintf("inknote-p%d-%d.%s", index+1, at.UnixMilli(), format)
}

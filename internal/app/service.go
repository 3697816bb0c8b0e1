package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"inknote/internal/editor"
	"inknote/internal/export"
	"inknote/internal/render"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Exporter produces image or PDF captures of the document.
type Exporter interface {
	Export(ctx context.Context, req export.Request) (*export.Result, error)
}

// Service wires the editor to its storage and export dependencies for the
// HTTP host.
type Service struct {
	editor   *editor.Coordinator
	store    Pinger
	exporter Exporter
	log      zerolog.Logger
}

func New(coordinator *editor.Coordinator, store Pinger, exporter Exporter, logger zerolog.Logger) *Service {
	return &Service{
		editor:   coordinator,
		store:    store,
		exporter: exporter,
		log:      logger,
	}
}

func (s *Service) Editor() *editor.Coordinator { return s.editor }

// Ping checks the health of service dependencies (blob store).
func (s *Service) Ping(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Ping(ctx)
}

// Preview renders the settled projection of the active page.
func (s *Service) Preview() (string, error) {
	html, err := render.Page(s.editor.PreviewSettings())
	if err != nil {
		return "", fmt.Errorf("render preview: %w", err)
	}
	return html, nil
}

// Export captures the live document. page is 1-based; 0 means the active
// page.
func (s *Service) Export(ctx context.Context, format export.Format, page int) (*export.Result, error) {
	if s.exporter == nil {
		return nil, domainError(http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "Export is not configured", nil)
	}
	doc := s.editor.Document()
	index := doc.Current
	if page > 0 {
		index = page - 1
	}
	if index >= doc.Len() {
		return nil, domainError(http.StatusBadRequest, "PAGE_OUT_OF_RANGE",
			fmt.Sprintf("Page %d does not exist", page), map[string]any{"pages": doc.Len()})
	}

	req := export.Request{Format: format, Index: index}
	for _, p := range doc.Pages {
		req.Pages = append(req.Pages, p.Settings)
	}
	result, err := s.exporter.Export(ctx, req)
	if err != nil {
		s.log.Warn().Err(err).Str("format", string(format)).Msg("export failed")
		return nil, err
	}
	return result, nil
}

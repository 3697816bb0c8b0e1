package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"inknote/internal/auth"
	"inknote/internal/editor"
	"inknote/internal/export"
	"inknote/internal/intake"
	"inknote/internal/note"
	"inknote/internal/render"
)

const maxUploadBytes = 2 << 20

type HTTPServer struct {
	service    *Service
	corsOrigin string
	apiSecret  []byte
	log        zerolog.Logger
}

func NewHTTPServer(service *Service, corsOrigin string, logger zerolog.Logger) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin, log: logger}
}

// RequireToken makes every route except health and readiness demand a bearer
// token signed with secret. An empty secret leaves the API open.
func (s *HTTPServer) RequireToken(secret []byte) *HTTPServer {
	s.apiSecret = secret
	return s
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		s.handleReady(w, r)
		return
	}

	if !s.authorized(w, r) {
		return
	}

	ed := s.service.Editor()
	switch r.Method + " " + r.URL.Path {
	case "GET /api/document":
		writeJSON(w, http.StatusOK, ed.State())

	case "PUT /api/document/text":
		var body struct {
			Text *string `json:"text"`
		}
		if !s.decode(w, r, &body) {
			return
		}
		if body.Text == nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "text is required", nil)
			return
		}
		writeJSON(w, http.StatusOK, ed.Type(*body.Text))

	case "POST /api/document/blur":
		writeJSON(w, http.StatusOK, ed.Blur())

	case "PATCH /api/document/settings":
		var patch note.Patch
		if !s.decode(w, r, &patch) {
			return
		}
		if patch.IsZero() {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "no settings given", nil)
			return
		}
		writeJSON(w, http.StatusOK, ed.SetSettings(patch.Clamp()))

	case "POST /api/document/template":
		var body struct {
			Name string `json:"name"`
		}
		if !s.decode(w, r, &body) {
			return
		}
		s.respond(w, r)(ed.ApplyTemplate(body.Name))

	case "POST /api/document/pages":
		writeJSON(w, http.StatusCreated, ed.AddPage())

	case "DELETE /api/document/pages/current":
		writeJSON(w, http.StatusOK, ed.DeletePage())

	case "POST /api/document/navigate":
		var body struct {
			Delta int `json:"delta"`
		}
		if !s.decode(w, r, &body) {
			return
		}
		writeJSON(w, http.StatusOK, ed.Navigate(body.Delta))

	case "POST /api/document/clear":
		writeJSON(w, http.StatusOK, ed.Clear())

	case "POST /api/document/undo":
		writeJSON(w, http.StatusOK, ed.Undo())

	case "POST /api/document/redo":
		writeJSON(w, http.StatusOK, ed.Redo())

	case "POST /api/document/refine":
		s.respond(w, r)(ed.Refine(r.Context()))

	case "POST /api/document/summarize":
		s.respond(w, r)(ed.Summarize(r.Context()))

	case "POST /api/document/upload":
		s.handleUpload(w, r, ed.Upload)

	case "POST /api/document/font":
		s.handleUpload(w, r, ed.UploadFont)

	case "POST /api/document/paste":
		s.respond(w, r)(ed.Paste(r.Context()))

	case "GET /api/preview":
		s.handlePreview(w, r)

	case "GET /api/export":
		s.handleExport(w, r)

	case "GET /api/templates":
		writeJSON(w, http.StatusOK, map[string]any{"items": note.Templates})

	case "GET /api/fonts":
		writeJSON(w, http.StatusOK, map[string]any{"items": render.Fonts})

	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

func (s *HTTPServer) authorized(w http.ResponseWriter, r *http.Request) bool {
	if len(s.apiSecret) == 0 {
		return true
	}
	token := auth.FromHeader(r.Header.Get("Authorization"))
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token", nil)
		return false
	}
	if _, err := auth.Parse(s.apiSecret, token, time.Now()); err != nil {
		code, message := "UNAUTHORIZED", "Invalid token"
		if errors.Is(err, auth.ErrExpiredToken) {
			code, message = "TOKEN_EXPIRED", "Token expired"
		}
		writeError(w, http.StatusUnauthorized, code, message, nil)
		return false
	}
	return true
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	statusCode := http.StatusOK
	checks := map[string]any{
		"store": map[string]any{"status": "ok"},
	}

	if err := s.service.Ping(ctx); err != nil {
		status = "not_ready"
		statusCode = http.StatusServiceUnavailable
		checks["store"] = map[string]any{
			"status": "error",
			"error":  err.Error(),
		}
	}

	writeJSON(w, statusCode, map[string]any{
		"ok":     status == "ready",
		"status": status,
		"checks": checks,
	})
}

func (s *HTTPServer) handleUpload(w http.ResponseWriter, r *http.Request, apply func(string, string, io.Reader) (editor.State, error)) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, r, intake.ErrTooLarge)
			return
		}
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "multipart form with a file field is required", nil)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "file is required", nil)
		return
	}
	defer file.Close()

	s.respond(w, r)(apply(header.Filename, contentType(header), file))
}

func contentType(header *multipart.FileHeader) string {
	return header.Header.Get("Content-Type")
}

func (s *HTTPServer) handlePreview(w http.ResponseWriter, r *http.Request) {
	html, err := s.service.Preview()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, html)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	format, err := export.ParseFormat(query.Get("format"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page := 0
	if raw := query.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "page must be a positive integer", nil)
			return
		}
	}

	result, err := s.service.Export(r.Context(), format, page)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if result.URL != "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"url":      result.URL,
			"filename": result.Filename,
			"mimeType": result.MimeType,
		})
		return
	}
	w.Header().Set("Content-Type", result.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

// respond writes the state on success or the mapped error.
func (s *HTTPServer) respond(w http.ResponseWriter, r *http.Request) func(editor.State, error) {
	return func(state editor.State, err error) {
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message, details := mapError(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().
			Err(err).
			Str("request_id", requestIDFrom(r.Context())).
			Str("code", code).
			Msg("request failed")
	}
	writeError(w, status, code, message, details)
}

func (s *HTTPServer) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := decodeBody(r, target); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return false
	}
	return true
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		s.log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", writer.status).
			Int64("duration_ms", time.Since(started).Milliseconds()).
			Msg("request")
	})
}

type requestIDKey struct{}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

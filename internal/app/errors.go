package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"inknote/internal/editor"
	"inknote/internal/export"
	"inknote/internal/intake"
)

type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

var errorTable = []struct {
	target  error
	status  int
	code    string
	message string
}{
	{editor.ErrBusy, http.StatusConflict, "BUSY", "An AI transform is already running"},
	{editor.ErrUnknownTemplate, http.StatusNotFound, "TEMPLATE_NOT_FOUND", "Unknown template"},
	{intake.ErrPDFUnsupported, http.StatusUnsupportedMediaType, "PDF_UNSUPPORTED", "PDF support coming soon!"},
	{intake.ErrImageFontBeta, http.StatusUnsupportedMediaType, "IMAGE_FONT_BETA", "Image-to-Font processing is currently in beta. Please upload a .ttf or .otf handwriting font file."},
	{intake.ErrUnsupportedType, http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE", "Only .txt files are supported currently."},
	{intake.ErrTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File is too large"},
	{intake.ErrNotUTF8, http.StatusBadRequest, "UNREADABLE_FILE", "Failed to read file."},
	{intake.ErrClipboardDenied, http.StatusForbidden, "CLIPBOARD_DENIED", "Clipboard access denied."},
	{export.ErrBrowserMissing, http.StatusServiceUnavailable, "EXPORT_UNAVAILABLE", "Export failed: no headless browser available"},
	{export.ErrUnsupportedFormat, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "Export format must be png, jpg or pdf"},
	{export.ErrNothingToExport, http.StatusBadRequest, "NOTHING_TO_EXPORT", "Nothing to export"},
	{context.Canceled, http.StatusRequestTimeout, "CANCELED", "Request canceled"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "TIMEOUT", "Request timed out"},
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	for _, entry := range errorTable {
		if errors.Is(err, entry.target) {
			return entry.status, entry.code, entry.message, nil
		}
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}

package intake

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrClipboardDenied is returned when the clipboard cannot be read.
var ErrClipboardDenied = errors.New("clipboard access denied")

// Clipboard reads text from a clipboard.
type Clipboard interface {
	ReadText(ctx context.Context) (string, error)
}

// SystemClipboard reads the clipboard of the machine running the server.
type SystemClipboard struct{}

func (SystemClipboard) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if clipboard.Unsupported {
		return "", fmt.Errorf("%w: no clipboard utility available", ErrClipboardDenied)
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClipboardDenied, err)
	}
	return text, nil
}

// StaticClipboard returns fixed text, or Err when set.
type StaticClipboard struct {
	Text string
	Err  error
}

func (c StaticClipboard) ReadText(context.Context) (string, error) {
	return c.Text, c.Err
}

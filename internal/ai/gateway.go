// Package ai rewrites note text through an OpenAI-compatible chat completion
// endpoint. Every failure degrades to returning the input unchanged.
package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// ErrUnavailable is returned by the completer used when no API key is set.
var ErrUnavailable = errors.New("ai completion unavailable")

// Request is a single-turn completion request.
type Request struct {
	Prompt      string
	Temperature float32
	TopP        float32
}

// Completer performs one completion round trip.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Gateway applies the refine and summarize transforms.
type Gateway struct {
	completer Completer
	log       zerolog.Logger
}

func NewGateway(completer Completer, logger zerolog.Logger) *Gateway {
	if completer == nil {
		completer = Unavailable{}
	}
	return &Gateway{
		completer: completer,
		log:       logger.With().Str("component", "ai").Logger(),
	}
}

// Refine rewrites text in a natural, conversational handwritten tone.
func (g *Gateway) Refine(ctx context.Context, text string) string {
	return g.transform(ctx, "refine", text, Request{
		Prompt:      refineInstruction + text,
		Temperature: 0.7,
		TopP:        0.9,
	})
}

// Summarize condenses text into a short list of bulleted study notes.
func (g *Gateway) Summarize(ctx context.Context, text string) string {
	return g.transform(ctx, "summarize", text, Request{
		Prompt:      summarizeInstruction + text,
		Temperature: 0.4,
	})
}

func (g *Gateway) transform(ctx context.Context, op, text string, req Request) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	out, err := g.completer.Complete(ctx, req)
	if err != nil {
		g.log.Warn().Err(err).Str("op", op).Msg("ai transform failed, keeping original text")
		return text
	}
	out = strings.TrimSpace(out)
	if out == "" {
		g.log.Warn().Str("op", op).Msg("ai transform returned empty text, keeping original text")
		return text
	}
	return out
}

// Unavailable is a Completer that always fails.
type Unavailable struct{}

func (Unavailable) Complete(context.Context, Request) (string, error) {
	return "", ErrUnavailable
}

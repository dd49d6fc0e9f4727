package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// provider is one generative backend. Generate returns the model's plain
// text answer for a single-turn exchange.
type provider interface {
	Name() string
	Generate(ctx context.Context, text string) (string, error)
}

// Reply carries the answer text and the model that produced it, so callers
// can record which backend served the request.
type Reply struct {
	Text  string
	Model string
}

// Responder answers free-text questions with the primary provider and
// falls back to the secondary exactly once when the primary fails. It
// never retries beyond that.
type Responder struct {
	primary  provider
	fallback provider // nil when no fallback key is configured
}

// NewResponder builds the Gemini-primary responder. A missing primary key
// is a deployment misconfiguration and fails here, at startup. A missing
// openaiKey only disables the fallback.
func NewResponder(ctx context.Context, geminiKey, openaiKey string) (*Responder, error) {
	if geminiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	primary, err := newGeminiProvider(ctx, geminiKey)
	if err != nil {
		return nil, err
	}

	r := &Responder{primary: primary}
	if openaiKey != "" {
		r.fallback = newOpenAIProvider(openaiKey)
	}
	return r, nil
}

// Answer runs the fallback chain. Empty output counts as failure. When
// everything fails the error is a single aggregate; callers must not
// retry automatically.
func (r *Responder) Answer(ctx context.Context, text string) (Reply, error) {
	out, err := r.primary.Generate(ctx, text)
	if err == nil && strings.TrimSpace(out) != "" {
		return Reply{Text: out, Model: r.primary.Name()}, nil
	}
	if err == nil {
		err = fmt.Errorf("%s returned no text", r.primary.Name())
	}

	if r.fallback == nil {
		log.Printf("ai: primary %s failed, fallback disabled: %v", r.primary.Name(), err)
		return Reply{}, fmt.Errorf("ai service unavailable: %w", err)
	}

	log.Printf("ai: primary %s failed, trying fallback %s: %v", r.primary.Name(), r.fallback.Name(), err)

	out, fbErr := r.fallback.Generate(ctx, text)
	if fbErr == nil && strings.TrimSpace(out) != "" {
		return Reply{Text: out, Model: r.fallback.Name()}, nil
	}
	if fbErr == nil {
		fbErr = fmt.Errorf("%s returned no text", r.fallback.Name())
	}

	log.Printf("ai: fallback %s also failed: %v", r.fallback.Name(), fbErr)
	return Reply{}, fmt.Errorf("ai service unavailable: primary: %v; fallback: %v", err, fbErr)
}

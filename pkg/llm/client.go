// Package llm provides clients for the locally-running language-model backends.
package llm

import (
	"context"
	"errors"
	"net/url"
	"time"
)

// ErrEmptyResponse is returned when a backend answers successfully but without any text.
var ErrEmptyResponse = errors.New("backend returned an empty response")

// Backend is a single local LLM service.
type Backend interface {
	// Name is the human-readable product name, e.g. "Ollama".
	Name() string
	// Address is the host:port the backend is expected to listen on.
	Address() string
	// Generate sends one user prompt and returns the complete reply.
	Generate(ctx context.Context, model, prompt string) (string, error)
	// ListModels returns the model identifiers the backend reports, in backend order.
	ListModels(ctx context.Context) ([]string, error)
}

// hostOf extracts host:port from a base URL, falling back to the raw string.
func hostOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}

// withTimeout bounds ctx by d. A zero d leaves ctx unbounded.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

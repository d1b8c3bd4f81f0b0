// Package provider abstracts over completion backends. Every backend
// implements the same narrow contract: send a prompt, receive text.
package provider

import (
	"context"
	"time"

	"notedeck/internal/fault"
)

// Kind identifies a backend family.
type Kind string

const (
	KindOpenAI      Kind = "openai"      // commercial API
	KindHuggingFace Kind = "huggingface" // hosted inference API
	KindOllama      Kind = "ollama"      // local model
)

// Params are the generation knobs forwarded with each call.
type Params struct {
	Temperature float64
	MaxTokens   int
}

// Config describes one run's provider selection. It is passed by value into
// each run and never cached; the credential lives only for the call's
// duration and is never logged.
type Config struct {
	Kind        Kind
	Model       string
	Credential  string
	Temperature float64
	MaxTokens   int

	// BaseURL overrides the backend endpoint (required for ollama and
	// huggingface, ignored by openai unless set).
	BaseURL string

	// Timeout bounds each provider call. MaxAttempts bounds retries on
	// transient failures.
	Timeout     time.Duration
	MaxAttempts int
}

// Params extracts the per-call generation parameters from the config.
func (c Config) Params() Params {
	return Params{Temperature: c.Temperature, MaxTokens: c.MaxTokens}
}

// Client is the uniform completion contract every backend implements.
type Client interface {
	Complete(ctx context.Context, prompt string, params Params) (string, error)
}

// New selects a backend from cfg.Kind and wraps it with the retry and
// timeout policy. Unknown kinds fail here, at configuration time, before
// any network call is attempted.
func New(cfg Config) (Client, error) {
	var (
		backend Client
		err     error
	)
	switch cfg.Kind {
	case KindOpenAI:
		backend, err = newOpenAI(cfg)
	case KindHuggingFace:
		backend, err = newHuggingFace(cfg)
	case KindOllama:
		backend, err = newOllama(cfg)
	default:
		return nil, &fault.UnsupportedProviderError{Kind: string(cfg.Kind)}
	}
	if err != nil {
		return nil, err
	}
	return newRetrier(backend, cfg), nil
}

// Package fault defines the error taxonomy shared across the pipeline.
// Every error carries a stable machine-readable code so callers can branch
// on outcomes without string matching.
package fault

import (
	"errors"
	"fmt"
)

// Code identifies a failure reason.
type Code string

const (
	// Extraction
	CodeUnsupportedFormat Code = "unsupported_format"
	CodeCorruptDocument   Code = "corrupt_document"
	CodeEmptyDocument     Code = "empty_document"

	// Provider configuration
	CodeUnsupportedProvider Code = "unsupported_provider"

	// Provider invocation
	CodeInvalidCredential   Code = "invalid_credential"
	CodeInvalidModel        Code = "invalid_model"
	CodeQuotaExhausted      Code = "quota_exhausted"
	CodeRateLimited         Code = "rate_limited"
	CodeProviderUnavailable Code = "provider_unavailable"
	CodeEmptyCompletion     Code = "empty_completion"
	CodeTimeout             Code = "timeout"

	// Parsing
	CodeEmptySummary Code = "empty_summary"
	CodeNoFlashcards Code = "no_flashcards"
)

// ExtractionError reports that a document could not be turned into text.
type ExtractionError struct {
	Code Code
	Msg  string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract: %s: %v", e.Msg, e.Err)
	}
	return "extract: " + e.Msg
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// UnsupportedProviderError reports a provider kind no backend is registered
// for. Raised at configuration time, before any network call.
type UnsupportedProviderError struct {
	Kind string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider kind %q", e.Kind)
}

// ProviderError reports a failed provider call. Transient errors (network,
// rate limit, 5xx) may be retried; the rest propagate immediately.
type ProviderError struct {
	Code      Code
	Msg       string
	Transient bool
	Err       error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider: %s (%s): %v", e.Msg, e.Code, e.Err)
	}
	return fmt.Sprintf("provider: %s (%s)", e.Msg, e.Code)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// TimeoutError reports that a provider call exceeded its per-call timeout on
// every attempt. Kept distinct from ProviderError so callers can suggest
// trying a smaller document.
type TimeoutError struct {
	Attempts int
	Err      error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider call timed out after %d attempt(s)", e.Attempts)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ParseError reports that a completion yielded zero usable structured output.
type ParseError struct {
	Code Code
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: %s (%s)", e.Msg, e.Code)
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Transient
	}
	return false
}

// CodeOf returns the machine-readable code carried by err, or "" when err
// carries none.
func CodeOf(err error) Code {
	var (
		ee *ExtractionError
		ue *UnsupportedProviderError
		pe *ProviderError
		te *TimeoutError
		se *ParseError
	)
	switch {
	case errors.As(err, &ee):
		return ee.Code
	case errors.As(err, &ue):
		return CodeUnsupportedProvider
	case errors.As(err, &pe):
		return pe.Code
	case errors.As(err, &te):
		return CodeTimeout
	case errors.As(err, &se):
		return se.Code
	}
	return ""
}

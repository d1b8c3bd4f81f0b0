package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"notedeck/internal/fault"
)

// classifyStatus maps an HTTP status from a provider into the error
// taxonomy. Credential, model, and quota problems are final; rate limits
// and server errors are transient.
func classifyStatus(status int, body string) error {
	msg := fmt.Sprintf("backend returned %d: %s", status, snippet(body))
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &fault.ProviderError{Code: fault.CodeInvalidCredential, Msg: msg}
	case status == http.StatusNotFound:
		return &fault.ProviderError{Code: fault.CodeInvalidModel, Msg: msg}
	case status == http.StatusPaymentRequired:
		return &fault.ProviderError{Code: fault.CodeQuotaExhausted, Msg: msg}
	case status == http.StatusTooManyRequests:
		return &fault.ProviderError{Code: fault.CodeRateLimited, Msg: msg, Transient: true}
	case status >= 500:
		return &fault.ProviderError{Code: fault.CodeProviderUnavailable, Msg: msg, Transient: true}
	default:
		return &fault.ProviderError{Code: fault.CodeProviderUnavailable, Msg: msg}
	}
}

// classifyTransport maps a failed round trip. Context errors pass through
// untouched so the retrier can tell timeouts from cancellation.
func classifyTransport(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("request timed out: %w", context.DeadlineExceeded)
	}
	return &fault.ProviderError{
		Code:      fault.CodeProviderUnavailable,
		Msg:       "request failed",
		Transient: true,
		Err:       err,
	}
}

// isTimeout reports whether err means the per-call deadline was hit.
func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

func snippet(body string) string {
	const max = 200
	if len(body) > max {
		return body[:max] + "..."
	}
	return body
}

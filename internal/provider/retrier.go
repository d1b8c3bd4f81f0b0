package provider

import (
	"context"
	"time"

	"notedeck/internal/fault"
	"notedeck/internal/retry"
)

const (
	defaultTimeout     = 60 * time.Second
	defaultMaxAttempts = 3
	backoffBase        = 500 * time.Millisecond
)

// retrier applies the bounded retry policy around a backend: up to
// MaxAttempts on transient failures with exponential backoff, a per-call
// timeout on every attempt, and immediate propagation of final errors.
type retrier struct {
	next     Client
	attempts int
	timeout  time.Duration
}

func newRetrier(next Client, cfg Config) *retrier {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &retrier{next: next, attempts: attempts, timeout: timeout}
}

func (r *retrier) Complete(ctx context.Context, prompt string, params Params) (string, error) {
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(retry.ExponentialBackoff(attempt-1, backoffBase)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		text, err := r.next.Complete(callCtx, prompt, params)
		cancel()
		if err == nil {
			return text, nil
		}
		lastErr = err

		// The caller abandoning the run is not a provider failure.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !isTimeout(err) && !fault.IsTransient(err) {
			return "", err
		}
	}

	if isTimeout(lastErr) {
		return "", &fault.TimeoutError{Attempts: r.attempts, Err: lastErr}
	}
	return "", lastErr
}

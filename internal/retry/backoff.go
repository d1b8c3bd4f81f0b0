package retry

import "time"

// maxDelay caps the backoff so late attempts against a slow provider do not
// sleep past any reasonable per-run patience.
const maxDelay = 30 * time.Second

// ExponentialBackoff returns delay based on attempt number.
// The delay doubles with each attempt (base * 2^attempt) up to a fixed cap.
func ExponentialBackoff(attempt int, base time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// 1<<attempt overflows for large attempt counts; the cap makes anything
	// past 2^20 moot.
	if attempt > 20 {
		return maxDelay
	}
	d := base * (1 << attempt)
	if d > maxDelay || d <= 0 {
		return maxDelay
	}
	return d
}

// ABOUTME: Retry utilities for network calls with exponential backoff
// ABOUTME: Used by the Bluesky client to retry transient XRPC failures
package util

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// maxBackoff caps a single wait between attempts
const maxBackoff = 30 * time.Second

// CalculateBackoff returns exponential backoff with jitter.
// Base delay is doubled each attempt, with random jitter up to 25%.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > maxBackoff || backoff <= 0 {
		backoff = maxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(backoff)/2+1)) - backoff/4
	return backoff + jitter
}

// permanentError marks an error that must not be retried
type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so Retry returns it without further attempts
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry calls fn until it succeeds, returns a Permanent error, the context
// ends, or maxRetries retries have been spent. The last error is returned
// with any Permanent wrapper removed.
func Retry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(attempt int) error) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(CalculateBackoff(baseDelay, attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return errors.Join(ctx.Err(), err)
			case <-timer.C:
			}
		}

		err = fn(attempt)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
	}
	return err
}

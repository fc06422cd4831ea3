package embedder

import (
	"context"
	"errors"
)

var (
	// ErrRateLimited reports a provider quota rejection.
	ErrRateLimited = errors.New("embedder: rate limited")

	// ErrUnavailable reports a transient provider failure.
	ErrUnavailable = errors.New("embedder: unavailable")
)

// IsRetryable reports whether err should be retried on a later cycle rather
// than surfaced as a fault. Timeouts count as transient.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, context.DeadlineExceeded)
}

package embedder

import "context"

// Embedder turns text into a fixed-length vector. Implementations wrap
// provider failures with ErrRateLimited or ErrUnavailable so callers can
// tell retryable conditions from misuse.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

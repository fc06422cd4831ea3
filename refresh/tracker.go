package refresh

import (
	"context"
	"time"
)

// Tracker records the start timestamp of the last fully-committed ingestion
// cycle. It is persisted separately from the embedding store so a missing
// tracker next to an existing store reads as "never refreshed" and the whole
// corpus is reprocessed.
type Tracker interface {
	// Last returns the committed timestamp, or the zero time when no cycle
	// has ever committed.
	Last(ctx context.Context) (time.Time, error)
	// Mark durably records t. Callers must only invoke it after the
	// corresponding store writes are durable.
	Mark(ctx context.Context, t time.Time) error
}

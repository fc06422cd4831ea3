package store

import (
	"context"
	"iter"
)

// Store is a durable mapping from offer id to embedding entry.
//
// Implementations fix a single vector dimensionality at construction time or
// on the first accepted Put; a Put with a different vector length fails with
// ErrDimensionMismatch and leaves the store unchanged. A Put with an existing
// id replaces the prior entry in place, keeping its original position in the
// All iteration order.
type Store interface {
	Put(ctx context.Context, entry Entry) error
	Get(ctx context.Context, id string) (Entry, error)
	// All yields every entry in insertion order. The sequence is finite and
	// restartable; ranging over it again starts from the beginning.
	All() iter.Seq[Entry]
	Count() int
	// Dimensions reports the fixed vector length, or 0 while the store is
	// still empty and no dimensionality has been established.
	Dimensions() int
	// Flush makes all accepted entries durable. Observers of the durable
	// representation never see a partial write. Backends that persist on
	// every Put may make this a no-op.
	Flush(ctx context.Context) error
	Close() error
}

package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/vie-scout/vigie/store"
)

// ErrInvalidLimit reports a non-positive k. This is caller misuse, never
// retried.
var ErrInvalidLimit = errors.New("search: limit must be positive")

// Match is one ranked entry. Score is the cosine similarity to the query
// vector, in [-1, 1], 0 when either vector has zero norm.
type Match struct {
	Entry store.Entry
	Score float64
}

// nearestSearcher is implemented by backends that can push the ranking down
// (e.g. pgvector). The contract matches Query's: ascending cosine distance,
// ties broken by ascending id.
type nearestSearcher interface {
	Nearest(ctx context.Context, vector []float32, k int) ([]store.Entry, []float64, error)
}

// Engine ranks stored entries against a query vector. It never mutates the
// store and is safe for concurrent Query calls.
type Engine struct {
	store store.Store
}

func NewEngine(s store.Store) *Engine {
	return &Engine{store: s}
}

// Query returns up to k entries ranked by descending cosine similarity to
// vector. Equal scores are ordered by ascending id so repeated queries
// against an unchanged store are reproducible. k is capped at the store
// size; the scan is exhaustive over all entries.
func (e *Engine) Query(ctx context.Context, vector []float32, k int, opts ...QueryOption) ([]Match, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, k)
	}

	if dims := e.store.Dimensions(); dims != 0 && len(vector) != dims {
		return nil, fmt.Errorf("%w: query has %d, store has %d", store.ErrDimensionMismatch, len(vector), dims)
	}

	options := NewQueryOptions(opts...)

	if options.Filter == nil {
		if ns, ok := e.store.(nearestSearcher); ok {
			return e.nearest(ctx, ns, vector, k)
		}
	}

	matches := make([]Match, 0, e.store.Count())
	for entry := range e.store.All() {
		if options.Filter != nil && !options.Filter.Matches(entry.Metadata) {
			continue
		}
		matches = append(matches, Match{
			Entry: entry,
			Score: CosineSimilarity(vector, entry.Vector),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Entry.ID < matches[j].Entry.ID
	})

	if len(matches) > k {
		matches = matches[:k]
	}

	return matches, nil
}

func (e *Engine) nearest(ctx context.Context, ns nearestSearcher, vector []float32, k int) ([]Match, error) {
	entries, scores, err := ns.Nearest(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(entries))
	for i, entry := range entries {
		matches = append(matches, Match{Entry: entry, Score: scores[i]})
	}

	return matches, nil
}

// CosineSimilarity is the normalized dot product of a and b. Mismatched
// lengths or a zero-norm vector score 0 rather than erroring.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

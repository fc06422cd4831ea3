package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vie-scout/vigie/offer"
	"github.com/vie-scout/vigie/store"
	"github.com/vie-scout/vigie/store/memory"
)

func seed(t *testing.T, entries ...store.Entry) store.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	for _, entry := range entries {
		require.NoError(t, s.Put(ctx, entry))
	}
	return s
}

func entry(id string, vector []float32, metadata map[string]any) store.Entry {
	return store.Entry{
		ID:        id,
		Vector:    vector,
		Text:      "offer " + id,
		Metadata:  metadata,
		UpdatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestQueryRanksByCosineSimilarity(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(seed(t,
		entry("east", []float32{1, 0}, nil),
		entry("north", []float32{0, 1}, nil),
		entry("near-east", []float32{0.9, 0.1}, nil),
	))

	matches, err := engine.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "east", matches[0].Entry.ID)
	assert.Equal(t, "near-east", matches[1].Entry.ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestQueryTieBreaksByAscendingID(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(seed(t,
		entry("zulu", []float32{2, 0}, nil),
		entry("alpha", []float32{1, 0}, nil),
		entry("mike", []float32{3, 0}, nil),
	))

	// all three are colinear with the query, so scores are identical
	matches, err := engine.Query(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "alpha", matches[0].Entry.ID)
	assert.Equal(t, "mike", matches[1].Entry.ID)
	assert.Equal(t, "zulu", matches[2].Entry.ID)
}

func TestQueryIsReproducible(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(seed(t,
		entry("b", []float32{1, 1}, nil),
		entry("a", []float32{1, 1}, nil),
		entry("c", []float32{0, 1}, nil),
	))

	first, err := engine.Query(ctx, []float32{1, 1}, 3)
	require.NoError(t, err)
	second, err := engine.Query(ctx, []float32{1, 1}, 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestQueryCapsKAtStoreSize(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(seed(t,
		entry("a", []float32{1, 0}, nil),
		entry("b", []float32{0, 1}, nil),
	))

	matches, err := engine.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestQueryRejectsNonPositiveK(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(seed(t, entry("a", []float32{1, 0}, nil)))

	_, err := engine.Query(ctx, []float32{1, 0}, 0)
	require.ErrorIs(t, err, ErrInvalidLimit)

	_, err = engine.Query(ctx, []float32{1, 0}, -3)
	require.ErrorIs(t, err, ErrInvalidLimit)
}

func TestQueryRejectsMismatchedDimensions(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(seed(t, entry("a", []float32{1, 0}, nil)))

	_, err := engine.Query(ctx, []float32{1, 0, 0}, 1)
	require.ErrorIs(t, err, store.ErrDimensionMismatch)
}

func TestQueryEmptyStore(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(memory.NewStore())

	matches, err := engine.Query(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestZeroNormVectorScoresZero(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(seed(t,
		entry("zero", []float32{0, 0}, nil),
		entry("east", []float32{1, 0}, nil),
	))

	matches, err := engine.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "east", matches[0].Entry.ID)
	assert.Equal(t, "zero", matches[1].Entry.ID)
	assert.Equal(t, 0.0, matches[1].Score)
}

func TestQueryDoesNotMutateStore(t *testing.T) {
	ctx := context.Background()
	s := seed(t, entry("a", []float32{1, 0}, nil))
	engine := NewEngine(s)

	matches, err := engine.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)

	matches[0].Entry.Vector[0] = 42

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, float32(1), got.Vector[0])
}

func TestQueryWithFilter(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(seed(t,
		entry("tokyo", []float32{1, 0}, map[string]any{
			offer.MetaCountry: "JAPON",
			offer.MetaCity:    "TOKYO",
		}),
		entry("berlin", []float32{0.99, 0.01}, map[string]any{
			offer.MetaCountry: "ALLEMAGNE",
			offer.MetaCity:    "BERLIN",
		}),
	))

	matches, err := engine.Query(ctx, []float32{1, 0}, 5, WithFilter(&Filter{
		Countries: []string{"ALLEMAGNE"},
	}))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "berlin", matches[0].Entry.ID)
}

func TestQueryWithFilterNoResults(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine(seed(t,
		entry("tokyo", []float32{1, 0}, map[string]any{offer.MetaCountry: "JAPON"}),
	))

	matches, err := engine.Query(ctx, []float32{1, 0}, 5, WithFilter(&Filter{
		Countries: []string{"BRÉSIL"},
	}))
	require.NoError(t, err, "an empty filtered result is not an error")
	assert.Empty(t, matches)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero norm", []float32{0, 0}, []float32{1, 0}, 0},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vie-scout/vigie/store"
)

func testEntry(id string, vector []float32) store.Entry {
	return store.Entry{
		ID:     id,
		Vector: vector,
		Text:   "offer " + id,
		Metadata: map[string]any{
			"title": "title " + id,
		},
		UpdatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		StoredAt:  time.Date(2026, 8, 2, 12, 0, 0, 0, time.UTC),
	}
}

func newTestStore(t *testing.T) (store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "embeddings.json")
	return NewStore(store.WithLocation(path)), path
}

func TestPutAndGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	want := testEntry("vie-1", []float32{1, 2, 3})
	require.NoError(t, s.Put(ctx, want))

	got, err := s.Get(ctx, "vie-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetUnknownID(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPutValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.ErrorIs(t, s.Put(ctx, testEntry("", []float32{1})), store.ErrEmptyID)
	require.ErrorIs(t, s.Put(ctx, testEntry("vie-1", nil)), store.ErrEmptyVector)
}

func TestDimensionGuard(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Put(ctx, testEntry("vie-1", []float32{1, 0})))

	err := s.Put(ctx, testEntry("vie-2", []float32{1, 0, 0}))
	require.ErrorIs(t, err, store.ErrDimensionMismatch)

	// the rejected write must not alter the store
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, 2, s.Dimensions())
	_, err = s.Get(ctx, "vie-2")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestConfiguredDimensions(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "embeddings.json")
	s := NewStore(store.WithLocation(path), store.WithDimensions(3))

	require.ErrorIs(t, s.Put(ctx, testEntry("vie-1", []float32{1, 0})), store.ErrDimensionMismatch)
	require.NoError(t, s.Put(ctx, testEntry("vie-1", []float32{1, 0, 0})))
}

func TestPutReplacesKeepingOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Put(ctx, testEntry("vie-1", []float32{1, 0})))
	require.NoError(t, s.Put(ctx, testEntry("vie-2", []float32{0, 1})))

	updated := testEntry("vie-1", []float32{0.5, 0.5})
	updated.Text = "updated"
	require.NoError(t, s.Put(ctx, updated))

	var ids []string
	var texts []string
	for entry := range s.All() {
		ids = append(ids, entry.ID)
		texts = append(texts, entry.Text)
	}

	assert.Equal(t, []string{"vie-1", "vie-2"}, ids)
	assert.Equal(t, "updated", texts[0])
	assert.Equal(t, 2, s.Count())
}

func TestAllIsRestartable(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Put(ctx, testEntry("vie-1", []float32{1, 0})))
	require.NoError(t, s.Put(ctx, testEntry("vie-2", []float32{0, 1})))

	seq := s.All()

	first := 0
	for range seq {
		first++
		break
	}
	require.Equal(t, 1, first)

	second := 0
	for range seq {
		second++
	}
	assert.Equal(t, 2, second)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "embeddings.json")

	s := NewStore(store.WithLocation(path))
	entries := []store.Entry{
		testEntry("vie-1", []float32{0.1234567, -0.7654321, 0.5}),
		testEntry("vie-2", []float32{1, 0, 0}),
		testEntry("vie-3", []float32{0, 1e-7, 12345.678}),
	}
	for _, entry := range entries {
		require.NoError(t, s.Put(ctx, entry))
	}
	require.NoError(t, s.Flush(ctx))

	reloaded := NewStore(store.WithLocation(path))
	require.Equal(t, len(entries), reloaded.Count())
	require.Equal(t, 3, reloaded.Dimensions())

	for _, want := range entries {
		got, err := reloaded.Get(ctx, want.ID)
		require.NoError(t, err)

		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Text, got.Text)
		assert.Equal(t, want.Metadata, got.Metadata)
		assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt))
		assert.True(t, want.StoredAt.Equal(got.StoredAt))

		require.Len(t, got.Vector, len(want.Vector))
		for i := range want.Vector {
			assert.InDelta(t, want.Vector[i], got.Vector[i], 1e-6)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := NewStore(store.WithLocation(filepath.Join(t.TempDir(), "nope.json")))
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 0, s.Dimensions())
}

func TestLoadCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "embeddings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewStore(store.WithLocation(path))
	assert.Equal(t, 0, s.Count())

	// a corrupt file must not block subsequent writes
	require.NoError(t, s.Put(ctx, testEntry("vie-1", []float32{1})))
	require.NoError(t, s.Flush(ctx))

	reloaded := NewStore(store.WithLocation(path))
	assert.Equal(t, 1, reloaded.Count())
}

func TestFlushLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)

	require.NoError(t, s.Put(ctx, testEntry("vie-1", []float32{1, 0})))
	require.NoError(t, s.Flush(ctx))
	require.NoError(t, s.Put(ctx, testEntry("vie-2", []float32{0, 1})))
	require.NoError(t, s.Flush(ctx))

	files, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Base(path), files[0].Name())

	// the visible file is always a complete snapshot
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var snap snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Len(t, snap.Entries, 2)
}

func TestFlushCreatesDirectory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dir", "embeddings.json")

	s := NewStore(store.WithLocation(path))
	require.NoError(t, s.Put(ctx, testEntry("vie-1", []float32{1})))
	require.NoError(t, s.Flush(ctx))

	_, err := os.Stat(path)
	require.NoError(t, err)
}

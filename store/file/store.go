package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vie-scout/vigie/store"
)

// snapshot is the durable representation: one JSON document holding every
// entry plus the established dimensionality.
type snapshot struct {
	Dimensions int           `json:"dimensions"`
	SavedAt    time.Time     `json:"saved_at"`
	Entries    []store.Entry `json:"entries"`
}

type fileStore struct {
	options store.Options
	path    string
	mtx     sync.RWMutex
	entries map[string]store.Entry
	order   []string
	dims    int
}

func (s *fileStore) Put(ctx context.Context, entry store.Entry) error {
	if len(entry.ID) == 0 {
		return store.ErrEmptyID
	}
	if len(entry.Vector) == 0 {
		return store.ErrEmptyVector
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.dims == 0 {
		s.dims = len(entry.Vector)
	} else if len(entry.Vector) != s.dims {
		return fmt.Errorf("%w: got %d, store has %d", store.ErrDimensionMismatch, len(entry.Vector), s.dims)
	}

	if _, exists := s.entries[entry.ID]; !exists {
		s.order = append(s.order, entry.ID)
	}
	s.entries[entry.ID] = entry.Clone()

	return nil
}

func (s *fileStore) Get(ctx context.Context, id string) (store.Entry, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	entry, exists := s.entries[id]
	if !exists {
		return store.Entry{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}

	return entry.Clone(), nil
}

func (s *fileStore) All() iter.Seq[store.Entry] {
	return func(yield func(store.Entry) bool) {
		s.mtx.RLock()
		entries := make([]store.Entry, 0, len(s.order))
		for _, id := range s.order {
			entries = append(entries, s.entries[id].Clone())
		}
		s.mtx.RUnlock()

		for _, entry := range entries {
			if !yield(entry) {
				return
			}
		}
	}
}

func (s *fileStore) Count() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return len(s.entries)
}

func (s *fileStore) Dimensions() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.dims
}

// Flush writes the full snapshot to a temp file in the same directory and
// renames it over the target, so a concurrent reader in another process sees
// either the old snapshot or the new one, never a partial write.
func (s *fileStore) Flush(ctx context.Context) error {
	s.mtx.RLock()
	snap := snapshot{
		Dimensions: s.dims,
		SavedAt:    time.Now().UTC(),
		Entries:    make([]store.Entry, 0, len(s.order)),
	}
	for _, id := range s.order {
		snap.Entries = append(snap.Entries, s.entries[id])
	}
	s.mtx.RUnlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}

	return nil
}

func (s *fileStore) Close() error {
	return nil
}

// load reads the snapshot from disk. A missing or unreadable file yields an
// empty store so first runs and corrupted files both bootstrap cleanly.
func (s *fileStore) load() {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		slog.Warn("failed to read embedding store, starting empty", "path", s.path, "error", err)
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("corrupt embedding store, starting empty", "path", s.path, "error", err)
		return
	}

	if s.dims != 0 && snap.Dimensions != 0 && snap.Dimensions != s.dims {
		slog.Warn("embedding store dimensionality differs from configuration, starting empty",
			"path", s.path, "stored", snap.Dimensions, "configured", s.dims)
		return
	}

	if snap.Dimensions != 0 {
		s.dims = snap.Dimensions
	}

	for _, entry := range snap.Entries {
		if s.dims != 0 && len(entry.Vector) != s.dims {
			slog.Warn("dropping entry with mismatched vector", "id", entry.ID, "length", len(entry.Vector))
			continue
		}
		if _, exists := s.entries[entry.ID]; !exists {
			s.order = append(s.order, entry.ID)
		}
		s.entries[entry.ID] = entry
	}
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	s := &fileStore{
		options: options,
		path:    options.Location,
		entries: map[string]store.Entry{},
		dims:    options.Dimensions,
	}

	if len(s.path) == 0 {
		s.path = "vigie_embeddings.json"
	}

	s.load()

	return s
}

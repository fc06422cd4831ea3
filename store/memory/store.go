package memory

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/vie-scout/vigie/store"
)

// memoryStore keeps entries in process memory only. Flush is a no-op, so it
// is suitable for tests and throwaway runs, not for incremental ingestion.
type memoryStore struct {
	options store.Options
	mtx     sync.RWMutex
	entries map[string]store.Entry
	order   []string
	dims    int
}

func (s *memoryStore) Put(ctx context.Context, entry store.Entry) error {
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

func (s *memoryStore) Get(ctx context.Context, id string) (store.Entry, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	entry, exists := s.entries[id]
	if !exists {
		return store.Entry{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}

	return entry.Clone(), nil
}

func (s *memoryStore) All() iter.Seq[store.Entry] {
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

func (s *memoryStore) Count() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return len(s.entries)
}

func (s *memoryStore) Dimensions() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return s.dims
}

func (s *memoryStore) Flush(ctx context.Context) error {
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}

func NewStore(opts ...store.Option) store.Store {
	options := store.NewOptions(opts...)

	s := &memoryStore{
		options: options,
		entries: map[string]store.Entry{},
		dims:    options.Dimensions,
	}

	return s
}

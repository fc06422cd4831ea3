package store

import "time"

// Entry is one embedded offer. Metadata is denormalized from the offer so
// retrieval needs no second lookup. UpdatedAt carries the source-side change
// marker; StoredAt is the time of the last write into the store.
type Entry struct {
	ID        string         `json:"id"`
	Vector    []float32      `json:"vector"`
	Text      string         `json:"text"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
	StoredAt  time.Time      `json:"stored_at"`
}

// Clone returns a deep-enough copy: the vector is copied so callers cannot
// alias a stored entry's backing array. Metadata values are shared.
func (e Entry) Clone() Entry {
	cpy := e
	cpy.Vector = make([]float32, len(e.Vector))
	copy(cpy.Vector, e.Vector)
	if e.Metadata != nil {
		cpy.Metadata = make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			cpy.Metadata[k] = v
		}
	}
	return cpy
}

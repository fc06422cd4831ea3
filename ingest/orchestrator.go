package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vie-scout/vigie/embedder"
	"github.com/vie-scout/vigie/refresh"
	"github.com/vie-scout/vigie/source"
	"github.com/vie-scout/vigie/store"
)

// Stats summarizes one ingestion cycle.
type Stats struct {
	// Seen counts offers yielded by the source.
	Seen int
	// Stored counts offers embedded and written this cycle.
	Stored int
	// Unchanged counts offers already stored with the same update marker.
	Unchanged int
	// Skipped counts offers dropped on a transient embedder failure; they
	// are retried next cycle.
	Skipped int

	Since      time.Time
	CycleStart time.Time
}

// Orchestrator bridges the offer source and the embedding store. One Run is
// one cycle: pull everything changed since the last committed cycle, embed
// and store it in batches, then advance the refresh tracker.
type Orchestrator struct {
	options  Options
	source   source.Source
	embedder embedder.Embedder
	store    store.Store
	tracker  refresh.Tracker
}

func New(src source.Source, emb embedder.Embedder, st store.Store, tracker refresh.Tracker, opts ...Option) *Orchestrator {
	options := NewOptions(opts...)

	return &Orchestrator{
		options:  options,
		source:   src,
		embedder: emb,
		store:    st,
		tracker:  tracker,
	}
}

// Run executes one cycle. The tracker is marked with the cycle start time,
// and only after the final flush succeeds, so a crash or cancellation at any
// point re-ingests rather than loses offers. Returning an error always means
// the tracker was not advanced.
func (o *Orchestrator) Run(ctx context.Context) (Stats, error) {
	since, err := o.tracker.Last(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("read last refresh: %w", err)
	}

	stats := Stats{
		Since:      since,
		CycleStart: time.Now().UTC(),
	}

	pending := 0

	for off, err := range o.source.Offers(ctx, since) {
		if err != nil {
			// Already-flushed entries stay; the unadvanced tracker
			// re-pulls the rest next cycle.
			if flushErr := o.store.Flush(ctx); flushErr != nil {
				slog.Error("failed to flush after source failure", "error", flushErr)
			}
			return stats, fmt.Errorf("pull offers: %w", err)
		}

		stats.Seen++

		existing, getErr := o.store.Get(ctx, off.ID)
		if getErr == nil && !off.UpdatedAt.After(existing.UpdatedAt) {
			stats.Unchanged++
			continue
		}
		if getErr != nil && !errors.Is(getErr, store.ErrNotFound) {
			return stats, fmt.Errorf("check offer %s: %w", off.ID, getErr)
		}

		vector, embedErr := o.embedder.Embed(ctx, off.Text)
		if embedErr != nil {
			if embedder.IsRetryable(embedErr) && ctx.Err() == nil {
				slog.Warn("skipping offer on transient embed failure", "id", off.ID, "error", embedErr)
				stats.Skipped++
				continue
			}
			return stats, fmt.Errorf("embed offer %s: %w", off.ID, embedErr)
		}

		entry := store.Entry{
			ID:        off.ID,
			Vector:    vector,
			Text:      off.Text,
			Metadata:  off.Metadata,
			UpdatedAt: off.UpdatedAt,
			StoredAt:  time.Now().UTC(),
		}

		if err := o.store.Put(ctx, entry); err != nil {
			return stats, fmt.Errorf("store offer %s: %w", off.ID, err)
		}

		stats.Stored++
		pending++

		if pending >= o.options.BatchSize {
			if err := o.store.Flush(ctx); err != nil {
				return stats, fmt.Errorf("flush batch: %w", err)
			}
			pending = 0

			if err := ctx.Err(); err != nil {
				return stats, err
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	if err := o.store.Flush(ctx); err != nil {
		return stats, fmt.Errorf("flush cycle: %w", err)
	}

	if err := o.tracker.Mark(ctx, stats.CycleStart); err != nil {
		return stats, fmt.Errorf("mark refresh: %w", err)
	}

	slog.Info("ingestion cycle committed",
		"seen", stats.Seen,
		"stored", stats.Stored,
		"unchanged", stats.Unchanged,
		"skipped", stats.Skipped,
		"since", stats.Since,
		"cycle_start", stats.CycleStart,
	)

	return stats, nil
}

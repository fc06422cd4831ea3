package source

import (
	"context"
	"iter"
	"time"

	"github.com/vie-scout/vigie/offer"
)

// Source produces job offers changed since a given marker. The sequence is
// lazy and finite: implementations drain their own pagination and stop after
// the last page. A fetch failure is yielded as a non-nil error and ends the
// sequence; the caller treats it as transient and retries next cycle.
type Source interface {
	// Offers yields offers whose update marker is strictly after since.
	// A zero since yields everything.
	Offers(ctx context.Context, since time.Time) iter.Seq2[offer.Offer, error]
}

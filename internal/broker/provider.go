// Package broker defines the contracts the strategy consumes from the
// brokerage collaborator. Authentication, rate-limit pacing, and retries
// live behind these interfaces, outside this module.
package broker

import (
	"context"

	"github.com/quantfold/etf-strategy/internal/models"
)

// QuoteProvider supplies a point-in-time quote snapshot for a symbol set.
type QuoteProvider interface {
	Quotes(ctx context.Context, symbols []string) (models.QuoteSnapshot, error)
}

// PositionProvider supplies position snapshots. SellablePositions returns
// only holdings past the commission-free holding period; the LIFO
// partition into sellable and locked is the provider's job.
type PositionProvider interface {
	SellablePositions(ctx context.Context) ([]models.Position, error)
	AllPositions(ctx context.Context) ([]models.Position, error)
}

// WatchlistProvider supplies the buy-candidate universe: watchlist symbols
// that are neither held nor covered by an open order.
type WatchlistProvider interface {
	BuyCandidates(ctx context.Context) ([]string, error)
}

// StaticQuotes is a QuoteProvider over a fixed snapshot, for tests and
// offline runs.
type StaticQuotes models.QuoteSnapshot

// Quotes returns the subset of the snapshot covering the requested
// symbols. Unknown symbols are simply absent from the result.
func (s StaticQuotes) Quotes(_ context.Context, symbols []string) (models.QuoteSnapshot, error) {
	out := make(models.QuoteSnapshot, len(symbols))
	for _, symbol := range symbols {
		if q, ok := s[symbol]; ok {
			out[symbol] = q
		}
	}
	return out, nil
}

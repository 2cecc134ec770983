package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quantfold/etf-strategy/internal/models"
)

// QuoteCache is a read-through cache in front of a QuoteProvider. Quotes
// are served from redis while fresh; misses fall through to the underlying
// provider in one batched call and are written back with a TTL.
type QuoteCache struct {
	provider QuoteProvider
	client   *redis.Client
	ttl      time.Duration
}

// NewQuoteCache wraps a provider with a redis-backed cache.
func NewQuoteCache(provider QuoteProvider, client *redis.Client, ttl time.Duration) *QuoteCache {
	return &QuoteCache{
		provider: provider,
		client:   client,
		ttl:      ttl,
	}
}

// Quotes returns a snapshot for the requested symbols, fetching only the
// symbols not already cached.
func (c *QuoteCache) Quotes(ctx context.Context, symbols []string) (models.QuoteSnapshot, error) {
	snapshot := make(models.QuoteSnapshot, len(symbols))
	var missing []string

	for _, symbol := range symbols {
		data, err := c.client.Get(ctx, quoteKey(symbol)).Bytes()
		if err == redis.Nil {
			missing = append(missing, symbol)
			continue
		}
		if err != nil {
			log.Printf("quote cache: redis get %s: %v", symbol, err)
			missing = append(missing, symbol)
			continue
		}
		var q models.Quote
		if err := json.Unmarshal(data, &q); err != nil {
			log.Printf("quote cache: bad cached quote for %s: %v", symbol, err)
			missing = append(missing, symbol)
			continue
		}
		snapshot[symbol] = q
	}

	if len(missing) == 0 {
		return snapshot, nil
	}

	fresh, err := c.provider.Quotes(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes: %w", err)
	}
	for symbol, q := range fresh {
		snapshot[symbol] = q
		data, err := json.Marshal(q)
		if err != nil {
			continue
		}
		if err := c.client.Set(ctx, quoteKey(symbol), data, c.ttl).Err(); err != nil {
			log.Printf("quote cache: redis set %s: %v", symbol, err)
		}
	}
	return snapshot, nil
}

func quoteKey(symbol string) string {
	return "quote:" + symbol
}

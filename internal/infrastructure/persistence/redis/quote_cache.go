package redis

import (
	"context"
	"errors"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/quote"
)

// QuoteCache holds the resolved quote per day ordinal. Keys carry the day so
// a stale entry can never leak across the midnight boundary.
type QuoteCache struct {
	cache *Cache
}

// NewQuoteCache creates a new QuoteCache.
func NewQuoteCache(cache *Cache) *QuoteCache {
	return &QuoteCache{cache: cache}
}

// GetDaily returns the cached quote for a day ordinal.
// Returns quote.ErrQuoteNotFound on a miss.
func (c *QuoteCache) GetDaily(ctx context.Context, dayOrdinal int) (*quote.Quote, error) {
	var q quote.Quote
	if err := c.cache.Get(ctx, DailyQuoteKey(dayOrdinal), &q); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, quote.ErrQuoteNotFound
		}
		return nil, err
	}
	return &q, nil
}

// SetDaily stores the quote for a day ordinal.
func (c *QuoteCache) SetDaily(ctx context.Context, dayOrdinal int, q *quote.Quote) error {
	return c.cache.Set(ctx, DailyQuoteKey(dayOrdinal), q, TTLDailyQuote)
}

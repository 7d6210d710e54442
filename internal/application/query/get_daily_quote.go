package query

import (
	"context"
	"errors"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/quote"
	"github.com/chrysalis-app/mindfulness-hub/pkg/logger"
	"github.com/chrysalis-app/mindfulness-hub/pkg/timeutil"
)

// DailyQuoteCache caches the selected quote for a UTC day so the
// catalog is consulted at most once per day per process.
type DailyQuoteCache interface {
	GetDaily(ctx context.Context, dayOrdinal int) (*quote.Quote, error)
	SetDaily(ctx context.Context, dayOrdinal int, q *quote.Quote) error
}

// GetDailyQuoteQuery fetches the quote of the day. Day defaults to
// the current UTC day when zero.
type GetDailyQuoteQuery struct {
	Day time.Time
}

// GetDailyQuoteResult contains the selected quote.
type GetDailyQuoteResult struct {
	Quote     *quote.Quote
	Day       time.Time
	FromCache bool
}

// GetDailyQuoteHandler handles the GetDailyQuoteQuery.
type GetDailyQuoteHandler struct {
	quotes quote.Repository
	cache  DailyQuoteCache
	logger *logger.Logger
}

// NewGetDailyQuoteHandler creates a new handler. The cache is
// optional; a nil cache reads the catalog on every call.
func NewGetDailyQuoteHandler(quotes quote.Repository, cache DailyQuoteCache, log *logger.Logger) *GetDailyQuoteHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetDailyQuoteHandler{quotes: quotes, cache: cache, logger: log}
}

// Handle executes the query. Every caller sees the same quote for a
// given UTC day; the selection rotates through the catalog as days
// pass.
func (h *GetDailyQuoteHandler) Handle(ctx context.Context, q GetDailyQuoteQuery) (*GetDailyQuoteResult, error) {
	day := q.Day
	if day.IsZero() {
		day = time.Now().UTC()
	}
	day = timeutil.StartOfDay(day.UTC())
	ordinal := timeutil.DayOrdinal(day)

	if h.cache != nil {
		if cached, err := h.cache.GetDaily(ctx, ordinal); err == nil {
			return &GetDailyQuoteResult{Quote: cached, Day: day, FromCache: true}, nil
		} else if !errors.Is(err, quote.ErrQuoteNotFound) {
			h.logger.Warn("daily quote cache read failed", logger.Err(err))
		}
	}

	size, err := h.quotes.Count(ctx)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, quote.ErrQuoteNotFound
	}

	selected, err := h.quotes.GetByIndex(ctx, quote.IndexForDay(ordinal, size))
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.SetDaily(ctx, ordinal, selected); err != nil {
			h.logger.Warn("daily quote cache write failed", logger.Err(err))
		}
	}

	return &GetDailyQuoteResult{Quote: selected, Day: day}, nil
}

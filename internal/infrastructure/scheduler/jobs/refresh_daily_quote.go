package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/quote"
	"github.com/chrysalis-app/mindfulness-hub/pkg/logger"
	"github.com/chrysalis-app/mindfulness-hub/pkg/timeutil"
)

// QuoteCache stores the resolved quote for a day ordinal.
type QuoteCache interface {
	SetDaily(ctx context.Context, dayOrdinal int, q *quote.Quote) error
}

// RefreshDailyQuote pre-resolves the new day's quote right after midnight so
// the first reader of the day gets a warm cache.
type RefreshDailyQuote struct {
	repo   quote.Repository
	cache  QuoteCache
	logger *logger.Logger
}

// NewRefreshDailyQuote creates the job.
func NewRefreshDailyQuote(repo quote.Repository, cache QuoteCache, log *logger.Logger) *RefreshDailyQuote {
	if log == nil {
		log = logger.Default()
	}
	return &RefreshDailyQuote{
		repo:   repo,
		cache:  cache,
		logger: log.With(logger.Component("refresh_daily_quote")),
	}
}

// Name returns the unique name of the job.
func (j *RefreshDailyQuote) Name() string {
	return "refresh_daily_quote"
}

// Run resolves today's quote from the catalog and caches it.
func (j *RefreshDailyQuote) Run(ctx context.Context) error {
	day := timeutil.DayOrdinal(time.Now().UTC())

	size, err := j.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("refresh: catalog count failed: %w", err)
	}

	index := quote.IndexForDay(day, size)
	q, err := j.repo.GetByIndex(ctx, index)
	if err != nil {
		if errors.Is(err, quote.ErrQuoteNotFound) {
			j.logger.Warn("quote catalog is empty, nothing to cache")
			return nil
		}
		return fmt.Errorf("refresh: quote lookup failed: %w", err)
	}

	if err := j.cache.SetDaily(ctx, day, q); err != nil {
		return fmt.Errorf("refresh: cache write failed: %w", err)
	}

	j.logger.Debug("daily quote refreshed", logger.Int("day_ordinal", day))
	return nil
}

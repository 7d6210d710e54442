package redis

import (
	"context"
	"errors"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/leaderboard"
)

// ErrLeaderboardMiss is returned when no cached view is present.
var ErrLeaderboardMiss = errors.New("leaderboard_cache: view not cached")

// LeaderboardCache implements leaderboard.Cache over the generic Cache.
// Only the global view is cached: friends and group views are per-caller and
// would fragment the keyspace for little hit rate.
type LeaderboardCache struct {
	cache *Cache
}

// NewLeaderboardCache creates a new LeaderboardCache.
func NewLeaderboardCache(cache *Cache) *LeaderboardCache {
	return &LeaderboardCache{cache: cache}
}

// GetGlobal returns the cached global top, truncated to limit.
// Returns ErrLeaderboardMiss when the cached view is absent or too short to
// satisfy the requested limit.
func (c *LeaderboardCache) GetGlobal(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	var entries []leaderboard.Entry
	if err := c.cache.Get(ctx, GlobalLeaderboardKey(), &entries); err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, ErrLeaderboardMiss
		}
		return nil, err
	}

	if len(entries) < limit {
		// A shorter cached view cannot prove the tail is empty.
		return nil, ErrLeaderboardMiss
	}

	return entries[:limit], nil
}

// SetGlobal stores the global top with the standard TTL.
func (c *LeaderboardCache) SetGlobal(ctx context.Context, entries []leaderboard.Entry) error {
	return c.cache.Set(ctx, GlobalLeaderboardKey(), entries, TTLLeaderboardCache)
}

// Invalidate drops all cached leaderboard views.
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	return c.cache.DeleteByPattern(ctx, PrefixLeaderboard+"*")
}

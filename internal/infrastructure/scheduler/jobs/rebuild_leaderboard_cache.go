// Package jobs contains the scheduled background jobs.
package jobs

import (
	"context"
	"fmt"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/leaderboard"
	"github.com/chrysalis-app/mindfulness-hub/pkg/logger"
)

// RebuildLeaderboardCache periodically refreshes the cached global
// leaderboard view so reads after an invalidation do not all stampede the
// database at once.
type RebuildLeaderboardCache struct {
	repo   leaderboard.Repository
	cache  leaderboard.Cache
	logger *logger.Logger
}

// NewRebuildLeaderboardCache creates the job.
func NewRebuildLeaderboardCache(repo leaderboard.Repository, cache leaderboard.Cache, log *logger.Logger) *RebuildLeaderboardCache {
	if log == nil {
		log = logger.Default()
	}
	return &RebuildLeaderboardCache{
		repo:   repo,
		cache:  cache,
		logger: log.With(logger.Component("rebuild_leaderboard_cache")),
	}
}

// Name returns the unique name of the job.
func (j *RebuildLeaderboardCache) Name() string {
	return "rebuild_leaderboard_cache"
}

// Run queries the top of the global board and stores it.
func (j *RebuildLeaderboardCache) Run(ctx context.Context) error {
	entries, err := j.repo.Global(ctx, leaderboard.MaxLimit)
	if err != nil {
		return fmt.Errorf("rebuild: global query failed: %w", err)
	}

	if err := j.cache.SetGlobal(ctx, entries); err != nil {
		return fmt.Errorf("rebuild: cache write failed: %w", err)
	}

	j.logger.Debug("leaderboard cache rebuilt", logger.Int("entries", len(entries)))
	return nil
}

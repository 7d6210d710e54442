// Package eventhandler wires domain events to their side effects.
// Handlers run after the producing transaction has committed, so
// they must tolerate replays and treat their work as best effort.
package eventhandler

import (
	"context"
	"fmt"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/leaderboard"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"
	"github.com/chrysalis-app/mindfulness-hub/pkg/logger"
)

// OnSessionCompleted reacts to committed session completions by
// dropping the cached global leaderboard. The next read rebuilds it
// from the aggregates the completion just changed.
type OnSessionCompleted struct {
	cache  leaderboard.Cache
	logger *logger.Logger
}

// NewOnSessionCompleted creates the handler.
func NewOnSessionCompleted(cache leaderboard.Cache, log *logger.Logger) *OnSessionCompleted {
	if log == nil {
		log = logger.Default()
	}
	return &OnSessionCompleted{cache: cache, logger: log}
}

// Handle processes a SessionCompletedEvent.
func (h *OnSessionCompleted) Handle(ctx context.Context, event shared.Event) error {
	completed, ok := event.(shared.SessionCompletedEvent)
	if !ok {
		return fmt.Errorf("on_session_completed: unexpected event type %s", event.EventType())
	}

	if err := h.cache.Invalidate(ctx); err != nil {
		// Stale for at most the cache TTL; no need to fail the dispatch.
		h.logger.Warn("leaderboard cache invalidation failed",
			logger.AccountID(completed.AggregateID()),
			logger.Err(err),
		)
		return nil
	}

	h.logger.Debug("leaderboard cache invalidated",
		logger.AccountID(completed.AggregateID()),
		logger.SessionID(completed.SessionID),
		logger.XPAmount(completed.XPGained),
	)
	return nil
}

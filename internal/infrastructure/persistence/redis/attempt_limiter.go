package redis

import (
	"context"
	"fmt"
	"time"
)

// AttemptLimiter throttles sensitive actions (login, registration, friend
// requests) with keyed counters. State lives in Redis so limits hold across
// restarts and across replicas, and expiry is handled by key TTL instead of
// an in-process sweep.
type AttemptLimiter struct {
	cache  *Cache
	limit  int64
	window time.Duration
}

// NewAttemptLimiter creates a limiter allowing limit attempts per window.
func NewAttemptLimiter(cache *Cache, limit int, window time.Duration) *AttemptLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = TTLAttemptWindow
	}
	return &AttemptLimiter{
		cache:  cache,
		limit:  int64(limit),
		window: window,
	}
}

// Allow records an attempt and reports whether it is within the limit.
// Fails open on Redis errors: throttling is protection, not correctness.
func (l *AttemptLimiter) Allow(ctx context.Context, identifier, action string) (bool, error) {
	key := AttemptKey(identifier, action)

	count, err := l.cache.Incr(ctx, key)
	if err != nil {
		return true, fmt.Errorf("attempt_limiter: incr failed: %w", err)
	}

	// First attempt in the window starts the expiry clock.
	if count == 1 {
		if err := l.cache.Expire(ctx, key, l.window); err != nil {
			return true, fmt.Errorf("attempt_limiter: expire failed: %w", err)
		}
	}

	return count <= l.limit, nil
}

// Remaining returns how many attempts are left in the current window.
func (l *AttemptLimiter) Remaining(ctx context.Context, identifier, action string) (int, error) {
	key := AttemptKey(identifier, action)

	val, err := l.cache.GetString(ctx, key)
	if err != nil {
		if err == ErrCacheMiss {
			return int(l.limit), nil
		}
		return 0, err
	}

	var used int64
	if _, err := fmt.Sscanf(val, "%d", &used); err != nil {
		return 0, fmt.Errorf("attempt_limiter: bad counter value %q", val)
	}

	remaining := l.limit - used
	if remaining < 0 {
		remaining = 0
	}
	return int(remaining), nil
}

// Reset clears the counter for an identifier/action pair.
func (l *AttemptLimiter) Reset(ctx context.Context, identifier, action string) error {
	return l.cache.Delete(ctx, AttemptKey(identifier, action))
}

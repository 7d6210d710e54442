// Package redis implements Redis caching and attempt limiting for the
// mindfulness hub.
//
// Key components:
//   - Cache: General-purpose caching with TTL management
//   - LeaderboardCache: Hot global leaderboard views
//   - QuoteCache: Per-day resolved daily quote
//   - AttemptLimiter: Keyed counters for throttling sensitive endpoints
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds the Redis client settings.
type Config struct {
	Host     string
	Port     int
	Password string

	// DB is the logical database number (0-15).
	DB int

	// Connection pool sizing.
	PoolSize     int
	MinIdleConns int

	// MaxRetries bounds automatic command retries.
	MaxRetries int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
}

// DefaultConfig returns the client tuning used in production.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}
}

// Addr renders "host:port".
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

var (
	// ErrCacheMiss: the key is not present. Callers treat this as a
	// normal fall-through, not a failure.
	ErrCacheMiss = errors.New("cache: key not found")

	// ErrCacheConnection: the initial ping failed.
	ErrCacheConnection = errors.New("cache: connection failed")

	// ErrCacheSerialization: JSON encode/decode of a cached value failed.
	ErrCacheSerialization = errors.New("cache: serialization failed")

	// ErrCacheInvalidTTL: a negative TTL was supplied.
	ErrCacheInvalidTTL = errors.New("cache: invalid TTL")

	// ErrCacheKeyEmpty: an empty key was supplied.
	ErrCacheKeyEmpty = errors.New("cache: key cannot be empty")

	// ErrCacheNilValue: a nil value was supplied to Set.
	ErrCacheNilValue = errors.New("cache: value cannot be nil")
)

// Key namespaces. Every key in the instance starts with one of these,
// which keeps Invalidate-by-pattern scoped and the keyspace legible.
const (
	PrefixAccount     = "account:"
	PrefixLeaderboard = "leaderboard:"
	PrefixQuote       = "quote:"
	PrefixAttempt     = "attempt:"
)

const (
	// TTLLeaderboardCache is short by intent: a completion anywhere in
	// the system makes the cached view stale.
	TTLLeaderboardCache = 2 * time.Minute

	// TTLAccountCache bounds staleness of cached account projections.
	TTLAccountCache = 10 * time.Minute

	// TTLDailyQuote outlives the day on purpose. Midnight rollovers are
	// handled by keying on the day ordinal; the TTL just bounds memory.
	TTLDailyQuote = 25 * time.Hour

	// TTLAttemptWindow is the default throttle window.
	TTLAttemptWindow = 1 * time.Minute
)

// Cache wraps the go-redis client with JSON serialization and the
// keyspace conventions above.
type Cache struct {
	client *redis.Client
}

// NewCache connects and verifies the server with a ping bounded by the
// dial timeout.
func NewCache(cfg Config) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}

	return &Cache{client: client}, nil
}

// Client exposes the raw go-redis client for operations the wrapper
// doesn't cover.
func (c *Cache) Client() *redis.Client {
	return c.client
}

// Close releases the client's connections.
func (c *Cache) Close() error {
	return c.client.Close()
}

// Ping probes the server. Used as a readiness check.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Set stores value as JSON under key with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}
	if value == nil {
		return ErrCacheNilValue
	}
	if ttl < 0 {
		return ErrCacheInvalidTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// SetString stores a raw string without JSON encoding.
func (c *Cache) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}
	if ttl < 0 {
		return ErrCacheInvalidTTL
	}
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Get decodes the JSON value under key into dest. Returns ErrCacheMiss
// when absent.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}
	return nil
}

// GetString reads a raw string. Returns ErrCacheMiss when absent.
func (c *Cache) GetString(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrCacheKeyEmpty
	}

	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", err
	}
	return val, nil
}

// Delete removes the given keys. Missing keys are not an error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Exists reports whether key is present.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrCacheKeyEmpty
	}

	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Expire replaces the TTL on an existing key.
func (c *Cache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}
	if ttl < 0 {
		return ErrCacheInvalidTTL
	}
	return c.client.Expire(ctx, key, ttl).Err()
}

// TTL returns the remaining lifetime of key. go-redis reports -2 for a
// missing key and -1 for a key with no expiry.
func (c *Cache) TTL(ctx context.Context, key string) (time.Duration, error) {
	if key == "" {
		return 0, ErrCacheKeyEmpty
	}
	return c.client.TTL(ctx, key).Result()
}

// Incr increments the counter at key, creating it at 1.
func (c *Cache) Incr(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, ErrCacheKeyEmpty
	}
	return c.client.Incr(ctx, key).Result()
}

// IncrBy increments the counter at key by delta.
func (c *Cache) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	if key == "" {
		return 0, ErrCacheKeyEmpty
	}
	return c.client.IncrBy(ctx, key, delta).Result()
}

// DeleteByPattern removes every key matching pattern, scanning in
// batches so a large keyspace never blocks the server.
func (c *Cache) DeleteByPattern(ctx context.Context, pattern string) error {
	if pattern == "" {
		return ErrCacheKeyEmpty
	}

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}
	return nil
}

// Key builders.

// AccountKey keys a cached account projection.
func AccountKey(accountID string) string {
	return PrefixAccount + accountID
}

// GlobalLeaderboardKey keys the cached global leaderboard view.
func GlobalLeaderboardKey() string {
	return PrefixLeaderboard + "global"
}

// DailyQuoteKey keys the resolved quote for a day ordinal.
func DailyQuoteKey(dayOrdinal int) string {
	return fmt.Sprintf("%sday:%d", PrefixQuote, dayOrdinal)
}

// AttemptKey keys a throttle counter for one identifier and action.
func AttemptKey(identifier, action string) string {
	return PrefixAttempt + identifier + ":" + action
}

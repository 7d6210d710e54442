// Package postgres implements the PostgreSQL persistence layer for the
// mindfulness hub. It owns the connection pool, embedded migrations and the
// repositories for accounts, sessions, the social graph and leaderboards.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrConnectionClosed is returned by any operation after Close.
	ErrConnectionClosed = errors.New("postgres: connection pool is closed")

	// ErrMigrationFailed wraps schema migration failures.
	ErrMigrationFailed = errors.New("postgres: migration failed")

	// ErrTransactionFailed wraps transaction begin failures.
	ErrTransactionFailed = errors.New("postgres: transaction failed")

	// ErrNoRows aliases pgx.ErrNoRows so repositories don't import pgx
	// just for the sentinel.
	ErrNoRows = pgx.ErrNoRows
)

// ══════════════════════════════════════════════════════════════════════════════
// CONNECTION POOL
// ══════════════════════════════════════════════════════════════════════════════

// Config describes a component-wise Postgres connection. Deployments with
// a single DSN use NewConnectionFromURL instead.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string

	// SSLMode: disable, require, verify-ca or verify-full.
	SSLMode string

	// Pool sizing and recycling.
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration

	// HealthCheckPeriod is how often the pool probes idle connections.
	HealthCheckPeriod time.Duration

	// ConnectTimeout bounds the initial dial.
	ConnectTimeout time.Duration
}

// DefaultConfig returns the pool tuning used in production.
func DefaultConfig() Config {
	return Config{
		Port:              5432,
		Database:          "mindfulness",
		User:              "postgres",
		SSLMode:           "require",
		MaxConns:          10,
		MinConns:          2,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
		ConnectTimeout:    10 * time.Second,
	}
}

// DSN renders the config as a keyword/value connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s connect_timeout=%d",
		c.Host, c.Port, c.Database, c.User, c.Password, c.SSLMode,
		int(c.ConnectTimeout.Seconds()),
	)
}

// Connection wraps a pgx pool with closed-state tracking so a shutdown
// races cleanly with in-flight queries.
type Connection struct {
	pool   *pgxpool.Pool
	closed bool
	mu     sync.RWMutex
}

// NewConnection opens a pool from component config and verifies it with a
// ping before returning.
func NewConnection(ctx context.Context, cfg Config) (*Connection, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to parse connection string: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod

	return openPool(ctx, poolCfg)
}

// NewConnectionFromURL opens a pool from a single DSN, the shape managed
// Postgres providers hand out. Pool tuning not present in the URL gets
// the DefaultConfig values.
func NewConnectionFromURL(ctx context.Context, databaseURL string) (*Connection, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to parse database URL: %w", err)
	}

	defaults := DefaultConfig()
	if poolCfg.MaxConns == 0 {
		poolCfg.MaxConns = defaults.MaxConns
	}
	if poolCfg.MinConns == 0 {
		poolCfg.MinConns = defaults.MinConns
	}
	poolCfg.MaxConnLifetime = defaults.MaxConnLifetime
	poolCfg.MaxConnIdleTime = defaults.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = defaults.HealthCheckPeriod

	return openPool(ctx, poolCfg)
}

func openPool(ctx context.Context, poolCfg *pgxpool.Config) (*Connection, error) {
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: failed to ping database: %w", err)
	}

	return &Connection{pool: pool}, nil
}

// Pool exposes the underlying pgx pool for code that needs pool-level
// APIs directly.
func (c *Connection) Pool() *pgxpool.Pool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pool
}

// Close shuts the pool down. Idempotent.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.pool.Close()
}

// IsClosed reports whether Close has run.
func (c *Connection) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Ping probes the database. Used as a readiness check.
func (c *Connection) Ping(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrConnectionClosed
	}
	return c.pool.Ping(ctx)
}

// PoolStat is a point-in-time snapshot of pool utilization, serialized
// into diagnostics endpoints.
type PoolStat struct {
	Healthy       bool
	Error         string
	CheckedAt     time.Time
	PingLatency   time.Duration
	TotalConns    int32
	IdleConns     int32
	AcquiredConns int32
	MaxConns      int32
}

// Stat pings the database and reports pool utilization.
func (c *Connection) Stat(ctx context.Context) (*PoolStat, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrConnectionClosed
	}

	st := &PoolStat{CheckedAt: time.Now().UTC()}

	start := time.Now()
	if err := c.pool.Ping(ctx); err != nil {
		st.Error = err.Error()
		return st, nil
	}
	st.PingLatency = time.Since(start)
	st.Healthy = true

	stats := c.pool.Stat()
	st.TotalConns = stats.TotalConns()
	st.IdleConns = stats.IdleConns()
	st.AcquiredConns = stats.AcquiredConns()
	st.MaxConns = stats.MaxConns()

	return st, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TRANSACTIONS AND QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// TxOptions selects isolation and access mode for a transaction.
type TxOptions struct {
	IsoLevel       pgx.TxIsoLevel
	AccessMode     pgx.TxAccessMode
	DeferrableMode pgx.TxDeferrableMode
}

// DefaultTxOptions: read committed, read-write.
func DefaultTxOptions() TxOptions {
	return TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite}
}

// ReadOnlyTxOptions: read committed, read-only.
func ReadOnlyTxOptions() TxOptions {
	return TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadOnly}
}

// BeginTx starts a transaction. Callers must commit or roll back; prefer
// WithTx unless the transaction spans helper boundaries.
func (c *Connection) BeginTx(ctx context.Context, opts TxOptions) (pgx.Tx, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrConnectionClosed
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:       opts.IsoLevel,
		AccessMode:     opts.AccessMode,
		DeferrableMode: opts.DeferrableMode,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransactionFailed, err)
	}
	return tx, nil
}

// WithTx runs fn inside a transaction: commit on nil, rollback on error
// or panic (the panic is re-raised after rollback).
func (c *Connection) WithTx(ctx context.Context, opts TxOptions, fn func(pgx.Tx) error) error {
	tx, err := c.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit error: %w", err)
	}
	return nil
}

// Querier is the query surface shared by *pgxpool.Pool, pgx.Tx and
// *Connection, so repository helpers run identically in and out of a
// transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (c *Connection) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return pgconn.CommandTag{}, ErrConnectionClosed
	}
	return c.pool.Exec(ctx, sql, args...)
}

func (c *Connection) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrConnectionClosed
	}
	return c.pool.Query(ctx, sql, args...)
}

func (c *Connection) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pool.QueryRow(ctx, sql, args...)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports a unique constraint violation (23505).
func IsUniqueViolation(err error) bool { return pgErrCode(err) == "23505" }

// IsForeignKeyViolation reports a foreign key violation (23503).
func IsForeignKeyViolation(err error) bool { return pgErrCode(err) == "23503" }

// IsNotNullViolation reports a not-null violation (23502).
func IsNotNullViolation(err error) bool { return pgErrCode(err) == "23502" }

// IsNoRows reports the pgx no-rows sentinel.
func IsNoRows(err error) bool { return errors.Is(err, pgx.ErrNoRows) }

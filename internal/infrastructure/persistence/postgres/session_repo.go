package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/session"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION LEDGER IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SessionRepository implements session.Ledger for PostgreSQL.
type SessionRepository struct {
	conn *Connection
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(conn *Connection) *SessionRepository {
	return &SessionRepository{conn: conn}
}

const sessionColumns = `
	id, account_id, duration_minutes, frequency, state, paused, pause_count,
	actual_duration_minutes, xp_gained, started_at, completed_at, updated_at
`

// ─────────────────────────────────────────────────────────────────────────────
// Lifecycle Operations
// ─────────────────────────────────────────────────────────────────────────────

// CreateActive persists a newly started session.
func (r *SessionRepository) CreateActive(ctx context.Context, sess *session.Session) error {
	query := `
		INSERT INTO sessions (
			id, account_id, duration_minutes, frequency, state, paused,
			pause_count, actual_duration_minutes, xp_gained, started_at,
			completed_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.conn.Exec(ctx, query,
		sess.ID,
		sess.AccountID,
		sess.DurationMinutes,
		string(sess.Frequency),
		string(sess.State),
		sess.Paused,
		sess.PauseCount,
		sess.ActualDurationMinutes,
		sess.XPGained,
		sess.StartedAt,
		sess.CompletedAt,
		sess.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return account.ErrAccountNotFound
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID returns a session by ID.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return scanSession(row)
}

// UpdateState persists pause/resume mutations of an uncompleted session. The
// state guard keeps a pause that raced a concurrent completion from rewriting
// the completed row; once completed_at is set the record is append-only.
func (r *SessionRepository) UpdateState(ctx context.Context, sess *session.Session) error {
	query := `
		UPDATE sessions SET
			state = $1,
			paused = $2,
			pause_count = $3,
			updated_at = $4
		WHERE id = $5 AND state != 'completed'
	`

	result, err := r.conn.Exec(ctx, query,
		string(sess.State),
		sess.Paused,
		sess.PauseCount,
		sess.UpdatedAt,
		sess.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update session state: %w", err)
	}

	if result.RowsAffected() == 0 {
		var exists bool
		scanErr := r.conn.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1)`, sess.ID,
		).Scan(&exists)
		if scanErr == nil && !exists {
			return session.ErrSessionNotFound
		}
		return session.ErrAlreadyCompleted
	}

	return nil
}

// Complete runs fn with the owning account row-locked, then writes the
// completed session entry and the account's new aggregates in the same
// transaction. The lock serializes concurrent completions per account so the
// streak and experience read-modify-write cannot interleave.
func (r *SessionRepository) Complete(ctx context.Context, accountID string, fn session.CompletionFunc) (*session.Session, *account.Account, error) {
	var (
		completed *session.Session
		acct      *account.Account
	)

	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		lockQuery := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

		locked, err := scanAccount(tx.QueryRow(ctx, lockQuery, accountID))
		if err != nil {
			return err
		}

		sess, err := fn(locked)
		if err != nil {
			return err
		}

		// Guard against a concurrent completion that won the lock first:
		// the state check done before entering the transaction is stale by
		// now, so re-assert it here.
		updateSession := `
			UPDATE sessions SET
				state = $1,
				paused = $2,
				actual_duration_minutes = $3,
				xp_gained = $4,
				completed_at = $5,
				updated_at = $6
			WHERE id = $7 AND state != 'completed'
		`
		result, err := tx.Exec(ctx, updateSession,
			string(sess.State),
			sess.Paused,
			sess.ActualDurationMinutes,
			sess.XPGained,
			sess.CompletedAt,
			sess.UpdatedAt,
			sess.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to write completed session: %w", err)
		}
		if result.RowsAffected() == 0 {
			var exists bool
			scanErr := tx.QueryRow(ctx,
				`SELECT EXISTS(SELECT 1 FROM sessions WHERE id = $1)`, sess.ID,
			).Scan(&exists)
			if scanErr == nil && !exists {
				return session.ErrSessionNotFound
			}
			return session.ErrAlreadyCompleted
		}

		updateAggregates := `
			UPDATE accounts SET
				experience = $1,
				level = $2,
				total_sessions = $3,
				total_minutes = $4,
				current_streak = $5,
				longest_streak = $6,
				last_session_date = $7,
				updated_at = $8
			WHERE id = $9
		`
		_, err = tx.Exec(ctx, updateAggregates,
			int(locked.Stats.Experience),
			int(locked.Stats.Level),
			locked.Stats.TotalSessions,
			locked.Stats.TotalMinutes,
			locked.Stats.CurrentStreak,
			locked.Stats.LongestStreak,
			locked.Stats.LastSessionDate,
			time.Now().UTC(),
			locked.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to write account aggregates: %w", err)
		}

		completed = sess
		acct = locked
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return completed, acct, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// History Queries
// ─────────────────────────────────────────────────────────────────────────────

// ListCompletedByAccount returns completed sessions for an account, newest
// first.
func (r *SessionRepository) ListCompletedByAccount(ctx context.Context, accountID string, limit, offset int) ([]*session.Session, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM sessions
		WHERE account_id = $1 AND state = 'completed'
		ORDER BY completed_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.conn.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query session history: %w", err)
	}
	defer rows.Close()

	sessions := make([]*session.Session, 0)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// CountCompletedByAccount returns the number of completed sessions.
func (r *SessionRepository) CountCompletedByAccount(ctx context.Context, accountID string) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM sessions WHERE account_id = $1 AND state = 'completed'`,
		accountID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning Helpers
// ─────────────────────────────────────────────────────────────────────────────

func scanSession(row rowScanner) (*session.Session, error) {
	var (
		sess        session.Session
		frequency   string
		state       string
		completedAt *time.Time
	)

	err := row.Scan(
		&sess.ID,
		&sess.AccountID,
		&sess.DurationMinutes,
		&frequency,
		&state,
		&sess.Paused,
		&sess.PauseCount,
		&sess.ActualDurationMinutes,
		&sess.XPGained,
		&sess.StartedAt,
		&completedAt,
		&sess.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}

	sess.Frequency = session.Frequency(frequency)
	sess.State = session.State(state)
	if completedAt != nil {
		t := completedAt.UTC()
		sess.CompletedAt = &t
	}

	return &sess, nil
}

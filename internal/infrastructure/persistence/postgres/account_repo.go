package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AccountRepository implements account.Repository for PostgreSQL.
type AccountRepository struct {
	conn *Connection
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(conn *Connection) *AccountRepository {
	return &AccountRepository{conn: conn}
}

const accountColumns = `
	id, email, password_hash, display_name, avatar_url,
	experience, level, total_sessions, total_minutes,
	current_streak, longest_streak, last_session_date,
	created_at, updated_at
`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, acct *account.Account) error {
	query := `
		INSERT INTO accounts (
			id, email, password_hash, display_name, avatar_url,
			experience, level, total_sessions, total_minutes,
			current_streak, longest_streak, last_session_date,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.conn.Exec(ctx, query,
		acct.ID,
		acct.Email.String(),
		acct.PasswordHash,
		acct.DisplayName,
		acct.AvatarURL,
		int(acct.Stats.Experience),
		int(acct.Stats.Level),
		acct.Stats.TotalSessions,
		acct.Stats.TotalMinutes,
		acct.Stats.CurrentStreak,
		acct.Stats.LongestStreak,
		acct.Stats.LastSessionDate,
		acct.CreatedAt,
		acct.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return account.ErrAccountAlreadyExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID returns an account by internal ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return scanAccount(row)
}

// GetByEmail returns an account by normalized email.
func (r *AccountRepository) GetByEmail(ctx context.Context, email account.Email) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	row := r.conn.QueryRow(ctx, query, email.String())
	return scanAccount(row)
}

// GetByIDs returns accounts for a set of IDs. Missing IDs are omitted.
func (r *AccountRepository) GetByIDs(ctx context.Context, ids []string) ([]*account.Account, error) {
	if len(ids) == 0 {
		return []*account.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1)`

	rows, err := r.conn.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	return scanAccounts(rows)
}

// UpdateProfile applies an allow-listed profile edit and returns the updated
// record. Aggregate columns are never touched here.
func (r *AccountRepository) UpdateProfile(ctx context.Context, id string, update account.ProfileUpdate) (*account.Account, error) {
	query := `
		UPDATE accounts SET
			display_name = COALESCE($1, display_name),
			avatar_url = COALESCE($2, avatar_url),
			updated_at = $3
		WHERE id = $4
		RETURNING ` + accountColumns

	row := r.conn.QueryRow(ctx, query,
		update.DisplayName,
		update.AvatarURL,
		time.Now().UTC(),
		id,
	)
	return scanAccount(row)
}

// ─────────────────────────────────────────────────────────────────────────────
// Existence & Counting
// ─────────────────────────────────────────────────────────────────────────────

// Exists checks existence by ID.
func (r *AccountRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}

// ExistsByEmail checks existence by normalized email.
func (r *AccountRepository) ExistsByEmail(ctx context.Context, email account.Email) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`, email.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// Count returns the total number of accounts.
func (r *AccountRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning Helpers
// ─────────────────────────────────────────────────────────────────────────────

// rowScanner abstracts pgx.Row and pgx.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*account.Account, error) {
	var (
		acct            account.Account
		email           string
		experience      int
		level           int
		lastSessionDate *time.Time
	)

	err := row.Scan(
		&acct.ID,
		&email,
		&acct.PasswordHash,
		&acct.DisplayName,
		&acct.AvatarURL,
		&experience,
		&level,
		&acct.Stats.TotalSessions,
		&acct.Stats.TotalMinutes,
		&acct.Stats.CurrentStreak,
		&acct.Stats.LongestStreak,
		&lastSessionDate,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, account.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	acct.Email = account.Email(email)
	acct.Stats.Experience = account.Experience(experience)
	acct.Stats.Level = account.Level(level)
	if lastSessionDate != nil {
		d := lastSessionDate.UTC()
		acct.Stats.LastSessionDate = &d
	}

	return &acct, nil
}

func scanAccounts(rows pgx.Rows) ([]*account.Account, error) {
	accounts := make([]*account.Account, 0)
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}

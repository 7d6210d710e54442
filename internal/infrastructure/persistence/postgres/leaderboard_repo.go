package postgres

import (
	"context"
	"fmt"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/leaderboard"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardRepository implements leaderboard.Repository for PostgreSQL.
// Every query shares the same ordering (experience DESC, total_minutes DESC,
// then id for a stable tail) and the same eligibility filter
// (total_sessions > 0); ranks are assigned by position after the scan.
type LeaderboardRepository struct {
	conn *Connection
}

// NewLeaderboardRepository creates a new LeaderboardRepository.
func NewLeaderboardRepository(conn *Connection) *LeaderboardRepository {
	return &LeaderboardRepository{conn: conn}
}

const entryColumns = `
	a.id, a.display_name, a.avatar_url, a.level, a.experience,
	a.total_minutes, a.total_sessions, a.current_streak
`

const entryOrdering = `ORDER BY a.experience DESC, a.total_minutes DESC, a.id ASC`

// Global returns the top eligible accounts overall.
func (r *LeaderboardRepository) Global(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM accounts a
		WHERE a.total_sessions > 0
		` + entryOrdering + `
		LIMIT $1
	`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query global leaderboard: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Friends returns the top eligible accounts with an accepted friendship edge
// to the requester. The requester is excluded by construction: the edge scan
// only ever yields the other endpoint.
func (r *LeaderboardRepository) Friends(ctx context.Context, accountID string, limit int) ([]leaderboard.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM accounts a
		JOIN (
			SELECT CASE WHEN user_id_1 = $1 THEN user_id_2 ELSE user_id_1 END AS friend_id
			FROM friendships
			WHERE (user_id_1 = $1 OR user_id_2 = $1) AND status = 'accepted'
		) f ON f.friend_id = a.id
		WHERE a.total_sessions > 0
		` + entryOrdering + `
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query friends leaderboard: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Group returns the top eligible members of a group. The membership check for
// the caller happens at the application layer.
func (r *LeaderboardRepository) Group(ctx context.Context, groupID string, limit int) ([]leaderboard.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM accounts a
		JOIN group_members gm ON gm.account_id = a.id
		WHERE gm.group_id = $1 AND a.total_sessions > 0
		` + entryOrdering + `
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, groupID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query group leaderboard: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GlobalRank returns the 1-based global rank of an account, or 0 when the
// account is absent or not yet eligible.
func (r *LeaderboardRepository) GlobalRank(ctx context.Context, accountID string) (int, error) {
	query := `
		SELECT ranked.rank FROM (
			SELECT id, ROW_NUMBER() OVER (` + entryOrdering + `) AS rank
			FROM accounts a
			WHERE a.total_sessions > 0
		) ranked
		WHERE ranked.id = $1
	`

	var rank int
	err := r.conn.QueryRow(ctx, query, accountID).Scan(&rank)
	if err != nil {
		if IsNoRows(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to query global rank: %w", err)
	}
	return rank, nil
}

func scanEntries(rows pgx.Rows) ([]leaderboard.Entry, error) {
	entries := make([]leaderboard.Entry, 0)
	for rows.Next() {
		var e leaderboard.Entry
		err := rows.Scan(
			&e.AccountID,
			&e.DisplayName,
			&e.AvatarURL,
			&e.Level,
			&e.Experience,
			&e.TotalMinutes,
			&e.TotalSessions,
			&e.CurrentStreak,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	leaderboard.AssignRanks(entries)
	return entries, nil
}

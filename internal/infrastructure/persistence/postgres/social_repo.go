package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// SOCIAL GRAPH REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SocialRepository bundles the friendship and group stores for PostgreSQL.
type SocialRepository struct {
	friendships *FriendshipRepository
	groups      *GroupRepository
}

// NewSocialRepository creates a new SocialRepository.
func NewSocialRepository(conn *Connection) *SocialRepository {
	return &SocialRepository{
		friendships: NewFriendshipRepository(conn),
		groups:      NewGroupRepository(conn),
	}
}

// Friendships returns the friendship store.
func (r *SocialRepository) Friendships() social.FriendshipRepository {
	return r.friendships
}

// Groups returns the group store.
func (r *SocialRepository) Groups() social.GroupRepository {
	return r.groups
}

// ─────────────────────────────────────────────────────────────────────────────
// Friendship Repository
// ─────────────────────────────────────────────────────────────────────────────

// FriendshipRepository implements social.FriendshipRepository for PostgreSQL.
type FriendshipRepository struct {
	conn *Connection
}

// NewFriendshipRepository creates a new FriendshipRepository.
func NewFriendshipRepository(conn *Connection) *FriendshipRepository {
	return &FriendshipRepository{conn: conn}
}

const friendshipColumns = `id, user_id_1, user_id_2, status, created_at, updated_at`

// CreateRequest inserts a pending edge. The unique index over the normalized
// pair rejects a second edge for the same two accounts in either direction.
func (r *FriendshipRepository) CreateRequest(ctx context.Context, f *social.Friendship) error {
	query := `
		INSERT INTO friendships (id, user_id_1, user_id_2, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.conn.Exec(ctx, query,
		f.ID,
		f.UserID1,
		f.UserID2,
		string(f.Status),
		f.CreatedAt,
		f.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return social.ErrFriendshipExists
		}
		return fmt.Errorf("failed to create friend request: %w", err)
	}

	return nil
}

// GetByID returns an edge by id.
func (r *FriendshipRepository) GetByID(ctx context.Context, id string) (*social.Friendship, error) {
	query := `SELECT ` + friendshipColumns + ` FROM friendships WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return scanFriendship(row)
}

// GetBetween returns the edge connecting the pair, in either direction.
func (r *FriendshipRepository) GetBetween(ctx context.Context, a, b string) (*social.Friendship, error) {
	query := `
		SELECT ` + friendshipColumns + `
		FROM friendships
		WHERE (user_id_1 = $1 AND user_id_2 = $2)
		   OR (user_id_1 = $2 AND user_id_2 = $1)
	`

	row := r.conn.QueryRow(ctx, query, a, b)
	return scanFriendship(row)
}

// Accept transitions a pending edge to accepted in place. Column order is
// preserved so the initiator/recipient roles stay readable after acceptance.
func (r *FriendshipRepository) Accept(ctx context.Context, f *social.Friendship) error {
	query := `
		UPDATE friendships SET status = $1, updated_at = $2
		WHERE id = $3 AND status = 'pending'
	`

	result, err := r.conn.Exec(ctx, query,
		string(social.FriendshipAccepted),
		f.UpdatedAt,
		f.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to accept friend request: %w", err)
	}

	if result.RowsAffected() == 0 {
		return social.ErrRequestNotFound
	}

	return nil
}

// Delete removes an edge.
func (r *FriendshipRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM friendships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}

	if result.RowsAffected() == 0 {
		return social.ErrFriendshipNotFound
	}

	return nil
}

// ListFriendIDs returns accounts with an accepted edge to the given account.
func (r *FriendshipRepository) ListFriendIDs(ctx context.Context, accountID string) ([]string, error) {
	query := `
		SELECT CASE WHEN user_id_1 = $1 THEN user_id_2 ELSE user_id_1 END
		FROM friendships
		WHERE (user_id_1 = $1 OR user_id_2 = $1) AND status = 'accepted'
	`

	rows, err := r.conn.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query friend ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan friend id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListPendingReceived returns pending requests addressed to the account.
func (r *FriendshipRepository) ListPendingReceived(ctx context.Context, accountID string) ([]*social.Friendship, error) {
	query := `
		SELECT ` + friendshipColumns + `
		FROM friendships
		WHERE user_id_2 = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`
	return r.queryFriendships(ctx, query, accountID)
}

// ListPendingSent returns pending requests the account initiated.
func (r *FriendshipRepository) ListPendingSent(ctx context.Context, accountID string) ([]*social.Friendship, error) {
	query := `
		SELECT ` + friendshipColumns + `
		FROM friendships
		WHERE user_id_1 = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`
	return r.queryFriendships(ctx, query, accountID)
}

func (r *FriendshipRepository) queryFriendships(ctx context.Context, query string, args ...interface{}) ([]*social.Friendship, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query friendships: %w", err)
	}
	defer rows.Close()

	edges := make([]*social.Friendship, 0)
	for rows.Next() {
		f, err := scanFriendship(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, f)
	}
	return edges, rows.Err()
}

func scanFriendship(row rowScanner) (*social.Friendship, error) {
	var (
		f      social.Friendship
		status string
	)

	err := row.Scan(&f.ID, &f.UserID1, &f.UserID2, &status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, social.ErrFriendshipNotFound
		}
		return nil, fmt.Errorf("failed to scan friendship: %w", err)
	}

	f.Status = social.FriendshipStatus(status)
	return &f, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Group Repository
// ─────────────────────────────────────────────────────────────────────────────

// GroupRepository implements social.GroupRepository for PostgreSQL.
type GroupRepository struct {
	conn *Connection
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(conn *Connection) *GroupRepository {
	return &GroupRepository{conn: conn}
}

const groupColumns = `
	id, name, description, creator_id, is_public, code,
	member_count, max_members, created_at, updated_at
`

// CreateWithAdmin inserts the group row and the creator's admin membership
// edge in one transaction.
func (r *GroupRepository) CreateWithAdmin(ctx context.Context, g *social.Group) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		insertGroup := `
			INSERT INTO groups (
				id, name, description, creator_id, is_public, code,
				member_count, max_members, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := tx.Exec(ctx, insertGroup,
			g.ID,
			g.Name,
			g.Description,
			g.CreatorID,
			g.IsPublic,
			string(g.Code),
			g.MemberCount,
			g.MaxMembers,
			g.CreatedAt,
			g.UpdatedAt,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return social.ErrGroupCodeTaken
			}
			return fmt.Errorf("failed to create group: %w", err)
		}

		insertMember := `
			INSERT INTO group_members (group_id, account_id, role, joined_at)
			VALUES ($1, $2, $3, $4)
		`
		_, err = tx.Exec(ctx, insertMember,
			g.ID,
			g.CreatorID,
			string(social.RoleAdmin),
			g.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create admin membership: %w", err)
		}

		return nil
	})
}

// GetByID returns a group by id.
func (r *GroupRepository) GetByID(ctx context.Context, id string) (*social.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, id)
	return scanGroup(row)
}

// GetByCode returns a group by its join code. Codes are stored normalized so
// the lookup is exact after normalization.
func (r *GroupRepository) GetByCode(ctx context.Context, code social.GroupCode) (*social.Group, error) {
	query := `SELECT ` + groupColumns + ` FROM groups WHERE code = $1`

	row := r.conn.QueryRow(ctx, query, string(code))
	return scanGroup(row)
}

// Join inserts a member edge and increments member_count in one transaction.
// The group row is locked first so the cap check and the counter update
// cannot interleave with a concurrent join or leave.
func (r *GroupRepository) Join(ctx context.Context, groupID, accountID string) (*social.Membership, error) {
	var member *social.Membership

	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		var memberCount, maxMembers int
		err := tx.QueryRow(ctx,
			`SELECT member_count, max_members FROM groups WHERE id = $1 FOR UPDATE`,
			groupID,
		).Scan(&memberCount, &maxMembers)
		if err != nil {
			if IsNoRows(err) {
				return social.ErrGroupNotFound
			}
			return fmt.Errorf("failed to lock group: %w", err)
		}

		if memberCount >= maxMembers {
			return social.ErrGroupFull
		}

		now := time.Now().UTC()
		insertMember := `
			INSERT INTO group_members (group_id, account_id, role, joined_at)
			VALUES ($1, $2, $3, $4)
		`
		_, err = tx.Exec(ctx, insertMember, groupID, accountID, string(social.RoleMember), now)
		if err != nil {
			if IsUniqueViolation(err) {
				return social.ErrAlreadyMember
			}
			return fmt.Errorf("failed to insert membership: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE groups SET member_count = member_count + 1, updated_at = $1 WHERE id = $2`,
			now, groupID,
		)
		if err != nil {
			return fmt.Errorf("failed to increment member count: %w", err)
		}

		member = &social.Membership{
			GroupID:   groupID,
			AccountID: accountID,
			Role:      social.RoleMember,
			JoinedAt:  now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

// Leave deletes the member edge and decrements member_count in one
// transaction. When the leaver was the sole admin, the role transfers to the
// longest-tenured remaining member; a group emptied by its last member's
// departure is deleted outright.
func (r *GroupRepository) Leave(ctx context.Context, groupID, accountID string) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		var memberCount int
		err := tx.QueryRow(ctx,
			`SELECT member_count FROM groups WHERE id = $1 FOR UPDATE`,
			groupID,
		).Scan(&memberCount)
		if err != nil {
			if IsNoRows(err) {
				return social.ErrGroupNotFound
			}
			return fmt.Errorf("failed to lock group: %w", err)
		}

		var role string
		err = tx.QueryRow(ctx,
			`DELETE FROM group_members WHERE group_id = $1 AND account_id = $2 RETURNING role`,
			groupID, accountID,
		).Scan(&role)
		if err != nil {
			if IsNoRows(err) {
				return social.ErrNotMember
			}
			return fmt.Errorf("failed to delete membership: %w", err)
		}

		if memberCount <= 1 {
			if _, err := tx.Exec(ctx, `DELETE FROM groups WHERE id = $1`, groupID); err != nil {
				return fmt.Errorf("failed to delete empty group: %w", err)
			}
			return nil
		}

		now := time.Now().UTC()
		_, err = tx.Exec(ctx,
			`UPDATE groups SET member_count = member_count - 1, updated_at = $1 WHERE id = $2`,
			now, groupID,
		)
		if err != nil {
			return fmt.Errorf("failed to decrement member count: %w", err)
		}

		if social.GroupRole(role) != social.RoleAdmin {
			return nil
		}

		var adminCount int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM group_members WHERE group_id = $1 AND role = 'admin'`,
			groupID,
		).Scan(&adminCount)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if adminCount > 0 {
			return nil
		}

		// Sole admin left: promote the longest-tenured remaining member.
		promote := `
			UPDATE group_members SET role = 'admin'
			WHERE (group_id, account_id) = (
				SELECT group_id, account_id FROM group_members
				WHERE group_id = $1
				ORDER BY joined_at ASC, account_id ASC
				LIMIT 1
			)
		`
		if _, err := tx.Exec(ctx, promote, groupID); err != nil {
			return fmt.Errorf("failed to transfer admin role: %w", err)
		}

		return nil
	})
}

// GetMembership returns the edge for (group, account).
func (r *GroupRepository) GetMembership(ctx context.Context, groupID, accountID string) (*social.Membership, error) {
	query := `
		SELECT group_id, account_id, role, joined_at
		FROM group_members
		WHERE group_id = $1 AND account_id = $2
	`

	row := r.conn.QueryRow(ctx, query, groupID, accountID)
	m, err := scanMembership(row)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMembers returns the group's membership edges, oldest first.
func (r *GroupRepository) ListMembers(ctx context.Context, groupID string) ([]*social.Membership, error) {
	query := `
		SELECT group_id, account_id, role, joined_at
		FROM group_members
		WHERE group_id = $1
		ORDER BY joined_at ASC, account_id ASC
	`

	rows, err := r.conn.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	members := make([]*social.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ListPublic returns public groups, newest first.
func (r *GroupRepository) ListPublic(ctx context.Context, limit, offset int) ([]*social.Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM groups
		WHERE is_public
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryGroups(ctx, query, limit, offset)
}

// ListByAccount returns the groups an account belongs to.
func (r *GroupRepository) ListByAccount(ctx context.Context, accountID string) ([]*social.Group, error) {
	query := `
		SELECT g.id, g.name, g.description, g.creator_id, g.is_public, g.code,
			   g.member_count, g.max_members, g.created_at, g.updated_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.account_id = $1
		ORDER BY gm.joined_at ASC
	`
	return r.queryGroups(ctx, query, accountID)
}

// MemberEdgeCount returns the live count of membership edges for a group.
func (r *GroupRepository) MemberEdgeCount(ctx context.Context, groupID string) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		`SELECT COUNT(*) FROM group_members WHERE group_id = $1`, groupID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count member edges: %w", err)
	}
	return count, nil
}

func (r *GroupRepository) queryGroups(ctx context.Context, query string, args ...interface{}) ([]*social.Group, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	groups := make([]*social.Group, 0)
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func scanGroup(row rowScanner) (*social.Group, error) {
	var (
		g    social.Group
		code string
	)

	err := row.Scan(
		&g.ID,
		&g.Name,
		&g.Description,
		&g.CreatorID,
		&g.IsPublic,
		&code,
		&g.MemberCount,
		&g.MaxMembers,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, social.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to scan group: %w", err)
	}

	g.Code = social.GroupCode(code)
	return &g, nil
}

func scanMembership(row rowScanner) (*social.Membership, error) {
	var (
		m    social.Membership
		role string
	)

	err := row.Scan(&m.GroupID, &m.AccountID, &role, &m.JoinedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, social.ErrNotMember
		}
		return nil, fmt.Errorf("failed to scan membership: %w", err)
	}

	m.Role = social.GroupRole(role)
	return &m, nil
}

package social

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// The store is responsible for the edge invariants: unordered-pair uniqueness
// for friendships, (group, account) uniqueness for memberships, and keeping
// member_count atomic with edge inserts/deletes.
// ══════════════════════════════════════════════════════════════════════════════

// FriendshipRepository defines the friendship edge operations.
type FriendshipRepository interface {
	// CreateRequest inserts a pending edge.
	// Returns ErrFriendshipExists if any edge already connects the pair,
	// in either direction and regardless of status.
	CreateRequest(ctx context.Context, f *Friendship) error

	// GetByID returns an edge by id.
	// Returns ErrFriendshipNotFound if absent.
	GetByID(ctx context.Context, id string) (*Friendship, error)

	// GetBetween returns the edge connecting the pair, in either direction.
	// Returns ErrFriendshipNotFound if absent.
	GetBetween(ctx context.Context, a, b string) (*Friendship, error)

	// Accept transitions a pending edge to accepted in place (no new row).
	Accept(ctx context.Context, f *Friendship) error

	// Delete removes an edge (decline for pending, removal for accepted).
	// Returns ErrFriendshipNotFound if absent.
	Delete(ctx context.Context, id string) error

	// ListFriendIDs returns the ids of accounts with an accepted edge to
	// the given account.
	ListFriendIDs(ctx context.Context, accountID string) ([]string, error)

	// ListPendingReceived returns pending requests addressed to the account.
	ListPendingReceived(ctx context.Context, accountID string) ([]*Friendship, error)

	// ListPendingSent returns pending requests the account initiated.
	ListPendingSent(ctx context.Context, accountID string) ([]*Friendship, error)
}

// GroupRepository defines group and membership edge operations.
type GroupRepository interface {
	// CreateWithAdmin inserts the group row and the creator's admin
	// membership edge in one transaction, with member_count = 1.
	CreateWithAdmin(ctx context.Context, g *Group) error

	// GetByID returns a group by id.
	// Returns ErrGroupNotFound if absent.
	GetByID(ctx context.Context, id string) (*Group, error)

	// GetByCode returns a group by its join code (case-insensitive).
	// Returns ErrGroupNotFound if absent.
	GetByCode(ctx context.Context, code GroupCode) (*Group, error)

	// Join inserts a member edge and increments member_count atomically.
	// Returns ErrAlreadyMember on a duplicate edge and ErrGroupFull when
	// the cap is reached; neither leaves member_count changed.
	Join(ctx context.Context, groupID, accountID string) (*Membership, error)

	// Leave deletes the member edge and decrements member_count atomically.
	// When the leaving member was the sole admin, the admin role transfers
	// to the longest-tenured remaining member; a group emptied by its last
	// member's departure is deleted.
	// Returns ErrNotMember if no edge exists.
	Leave(ctx context.Context, groupID, accountID string) error

	// GetMembership returns the edge for (group, account).
	// Returns ErrNotMember if absent.
	GetMembership(ctx context.Context, groupID, accountID string) (*Membership, error)

	// ListMembers returns the group's membership edges, oldest first.
	ListMembers(ctx context.Context, groupID string) ([]*Membership, error)

	// ListPublic returns public groups, newest first.
	ListPublic(ctx context.Context, limit, offset int) ([]*Group, error)

	// ListByAccount returns the groups an account belongs to.
	ListByAccount(ctx context.Context, accountID string) ([]*Group, error)

	// MemberEdgeCount returns the live count of membership edges for a
	// group. Exists so divergence from the cached member_count is
	// detectable in tests and maintenance checks.
	MemberEdgeCount(ctx context.Context, groupID string) (int, error)
}

// Repository bundles the social graph stores.
type Repository interface {
	Friendships() FriendshipRepository
	Groups() GroupRepository
}

// Package social contains the social graph domain model: friendship edges
// between accounts and group membership edges. Core business logic with no
// external dependencies.
package social

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS & ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// FriendshipStatus defines the state of a friendship edge.
type FriendshipStatus string

const (
	// FriendshipPending - an outstanding request from UserID1 to UserID2.
	FriendshipPending FriendshipStatus = "pending"

	// FriendshipAccepted - a confirmed friendship.
	FriendshipAccepted FriendshipStatus = "accepted"
)

// IsValid checks that the status is known.
func (s FriendshipStatus) IsValid() bool {
	return s == FriendshipPending || s == FriendshipAccepted
}

// GroupRole defines a member's role within a group.
type GroupRole string

const (
	// RoleMember - ordinary group member.
	RoleMember GroupRole = "member"

	// RoleAdmin - group administrator.
	RoleAdmin GroupRole = "admin"
)

// IsValid checks that the role is known.
func (r GroupRole) IsValid() bool {
	return r == RoleMember || r == RoleAdmin
}

// GroupCode is the short human-shareable identifier used to join a group.
// Case-insensitive: stored and compared in upper case.
type GroupCode string

// GroupCodeLength is the fixed length of generated group codes.
const GroupCodeLength = 6

// NormalizeGroupCode upper-cases and trims a user-supplied code.
func NormalizeGroupCode(raw string) GroupCode {
	return GroupCode(strings.ToUpper(strings.TrimSpace(raw)))
}

// IsValid checks the code shape.
func (c GroupCode) IsValid() bool {
	if len(c) != GroupCodeLength {
		return false
	}
	for _, r := range c {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// String returns the string representation.
func (c GroupCode) String() string {
	return string(c)
}

// ══════════════════════════════════════════════════════════════════════════════
// FRIENDSHIP EDGE
// ══════════════════════════════════════════════════════════════════════════════

// Friendship is an edge between two accounts. While pending, UserID1 is the
// initiator and UserID2 the recipient; once accepted the edge is undirected.
// The unordered pair is unique: no second edge may connect the same two
// accounts in either direction.
type Friendship struct {
	ID        string
	UserID1   string
	UserID2   string
	Status    FriendshipStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewFriendRequest creates a pending edge from initiator to recipient.
func NewFriendRequest(id, from, to string) (*Friendship, error) {
	if id == "" {
		return nil, errors.New("friendship id is required")
	}
	if from == "" || to == "" {
		return nil, errors.New("both account ids are required")
	}
	if from == to {
		return nil, ErrSelfFriendship
	}

	now := time.Now().UTC()

	return &Friendship{
		ID:        id,
		UserID1:   from,
		UserID2:   to,
		Status:    FriendshipPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Accept transitions the edge to accepted in place. Only the designated
// recipient may accept.
func (f *Friendship) Accept(recipientID string) error {
	if f.Status != FriendshipPending {
		return ErrNotPending
	}
	if f.UserID2 != recipientID {
		return ErrNotRecipient
	}

	f.Status = FriendshipAccepted
	f.UpdatedAt = time.Now().UTC()
	return nil
}

// Connects reports whether the edge connects the given pair, in either
// direction.
func (f *Friendship) Connects(a, b string) bool {
	return (f.UserID1 == a && f.UserID2 == b) || (f.UserID1 == b && f.UserID2 == a)
}

// Involves reports whether the account is one of the edge's endpoints.
func (f *Friendship) Involves(accountID string) bool {
	return f.UserID1 == accountID || f.UserID2 == accountID
}

// Other returns the opposite endpoint for the given account.
func (f *Friendship) Other(accountID string) string {
	if f.UserID1 == accountID {
		return f.UserID2
	}
	return f.UserID1
}

// ══════════════════════════════════════════════════════════════════════════════
// GROUP & MEMBERSHIP EDGE
// ══════════════════════════════════════════════════════════════════════════════

// DefaultMaxMembers is the member cap applied when a group does not set one.
const DefaultMaxMembers = 50

// Group is a named circle of accounts joined by code or id.
type Group struct {
	ID          string
	Name        string
	Description string
	CreatorID   string
	IsPublic    bool

	// Code is the short shareable join code, unique case-insensitively.
	Code GroupCode

	// MemberCount is a denormalized cache of membership edges. It is
	// maintained atomically with every join/leave; any divergence from the
	// live edge count is a bug.
	MemberCount int

	// MaxMembers is the membership cap.
	MaxMembers int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGroupParams contains the parameters for creating a group.
type NewGroupParams struct {
	ID          string
	Name        string
	Description string
	CreatorID   string
	IsPublic    bool
	Code        GroupCode
	MaxMembers  int
}

// NewGroup creates a group. The creator is added as its first member with
// role admin by the store, so MemberCount starts at 1.
func NewGroup(params NewGroupParams) (*Group, error) {
	if params.ID == "" {
		return nil, errors.New("group id is required")
	}
	if params.CreatorID == "" {
		return nil, errors.New("creator id is required")
	}

	name := strings.TrimSpace(params.Name)
	if len(name) == 0 || len(name) > 100 {
		return nil, ErrInvalidGroupName
	}

	if !params.Code.IsValid() {
		return nil, ErrInvalidGroupCode
	}

	maxMembers := params.MaxMembers
	if maxMembers <= 0 {
		maxMembers = DefaultMaxMembers
	}

	now := time.Now().UTC()

	return &Group{
		ID:          params.ID,
		Name:        name,
		Description: strings.TrimSpace(params.Description),
		CreatorID:   params.CreatorID,
		IsPublic:    params.IsPublic,
		Code:        params.Code,
		MemberCount: 1,
		MaxMembers:  maxMembers,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsFull reports whether the group reached its member cap.
func (g *Group) IsFull() bool {
	return g.MemberCount >= g.MaxMembers
}

// String returns a string representation for logging.
func (g *Group) String() string {
	return fmt.Sprintf("Group{ID: %s, Name: %q, Code: %s, Members: %d/%d}",
		g.ID, g.Name, g.Code, g.MemberCount, g.MaxMembers)
}

// Membership is an edge between a group and an account. Unique per
// (group, account) pair.
type Membership struct {
	GroupID   string
	AccountID string
	Role      GroupRole
	JoinedAt  time.Time
}

// NewMembership creates a membership edge.
func NewMembership(groupID, accountID string, role GroupRole) (*Membership, error) {
	if groupID == "" || accountID == "" {
		return nil, errors.New("group id and account id are required")
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	return &Membership{
		GroupID:   groupID,
		AccountID: accountID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	}, nil
}

// IsAdmin reports whether the member holds the admin role.
func (m *Membership) IsAdmin() bool {
	return m.Role == RoleAdmin
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// Sentinels carry a shared kind so callers can match either the exact error
// or its class (shared.IsNotFound, shared.IsConflict, ...).
var (
	// ErrSelfFriendship - an account cannot befriend itself.
	ErrSelfFriendship = shared.NewDomainError("social", "SendRequest", shared.ErrInvalidInput, "cannot send friend request to self")

	// ErrFriendshipExists - an edge (pending or accepted, either direction)
	// already connects the pair.
	ErrFriendshipExists = shared.NewDomainError("social", "SendRequest", shared.ErrAlreadyExists, "friendship already exists")

	// ErrFriendshipNotFound - no matching edge.
	ErrFriendshipNotFound = shared.NewDomainError("social", "FindFriendship", shared.ErrNotFound, "friendship not found")

	// ErrRequestNotFound - no matching pending request.
	ErrRequestNotFound = shared.NewDomainError("social", "FindRequest", shared.ErrNotFound, "friend request not found")

	// ErrNotPending - the edge is not in the pending state.
	ErrNotPending = shared.NewDomainError("social", "RespondRequest", shared.ErrStateTransition, "friend request is not pending")

	// ErrNotRecipient - only the designated recipient can respond.
	ErrNotRecipient = shared.NewDomainError("social", "RespondRequest", shared.ErrUnauthorized, "only the recipient can respond to a request")

	// ErrGroupNotFound - no group for the given code or id.
	ErrGroupNotFound = shared.NewDomainError("social", "FindGroup", shared.ErrNotFound, "group not found")

	// ErrAlreadyMember - joining twice is a conflict, not a duplicate row.
	ErrAlreadyMember = shared.NewDomainError("social", "JoinGroup", shared.ErrAlreadyExists, "already a member of this group")

	// ErrNotMember - no membership edge for the account.
	ErrNotMember = shared.NewDomainError("social", "Membership", shared.ErrForbidden, "not a member of this group")

	// ErrGroupFull - the group reached its member cap.
	ErrGroupFull = shared.NewDomainError("social", "JoinGroup", shared.ErrCapacityExceeded, "group is full")

	// ErrGroupCodeTaken - the generated join code collided with an
	// existing group.
	ErrGroupCodeTaken = shared.NewDomainError("social", "CreateGroup", shared.ErrAlreadyExists, "group code already taken")

	// ErrInvalidGroupName - group name out of bounds.
	ErrInvalidGroupName = shared.NewDomainError("social", "Validate", shared.ErrInvalidInput, "invalid group name: must be 1-100 chars")

	// ErrInvalidGroupCode - code failed shape validation.
	ErrInvalidGroupCode = shared.NewDomainError("social", "Validate", shared.ErrInvalidFormat, "invalid group code")

	// ErrInvalidRole - unknown group role.
	ErrInvalidRole = shared.NewDomainError("social", "Validate", shared.ErrInvalidInput, "invalid group role")
)

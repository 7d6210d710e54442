package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFriendRequest(t *testing.T) {
	f, err := NewFriendRequest("f-1", "alice", "bob")
	require.NoError(t, err)

	assert.Equal(t, FriendshipPending, f.Status)
	assert.Equal(t, "alice", f.UserID1)
	assert.Equal(t, "bob", f.UserID2)

	_, err = NewFriendRequest("f-2", "alice", "alice")
	assert.ErrorIs(t, err, ErrSelfFriendship)
}

func TestFriendship_Accept(t *testing.T) {
	f, err := NewFriendRequest("f-1", "alice", "bob")
	require.NoError(t, err)

	// Only the designated recipient can accept.
	assert.ErrorIs(t, f.Accept("alice"), ErrNotRecipient)
	assert.ErrorIs(t, f.Accept("carol"), ErrNotRecipient)
	assert.Equal(t, FriendshipPending, f.Status)

	require.NoError(t, f.Accept("bob"))
	assert.Equal(t, FriendshipAccepted, f.Status)

	// Accepting twice fails: the transition happens in place, once.
	assert.ErrorIs(t, f.Accept("bob"), ErrNotPending)
}

func TestFriendship_Connects(t *testing.T) {
	f, err := NewFriendRequest("f-1", "alice", "bob")
	require.NoError(t, err)

	assert.True(t, f.Connects("alice", "bob"))
	assert.True(t, f.Connects("bob", "alice"), "the pair is unordered")
	assert.False(t, f.Connects("alice", "carol"))
	assert.Equal(t, "bob", f.Other("alice"))
	assert.Equal(t, "alice", f.Other("bob"))
}

func TestNormalizeGroupCode(t *testing.T) {
	assert.Equal(t, GroupCode("ZEN123"), NormalizeGroupCode("  zen123 "))
	assert.True(t, GroupCode("ZEN123").IsValid())
	assert.False(t, GroupCode("zen123").IsValid(), "codes are stored upper case")
	assert.False(t, GroupCode("ZEN12").IsValid())
	assert.False(t, GroupCode("ZEN-12").IsValid())
}

func TestNewGroup(t *testing.T) {
	g, err := NewGroup(NewGroupParams{
		ID:        "g-1",
		Name:      "  Morning Sitters ",
		CreatorID: "alice",
		IsPublic:  true,
		Code:      "ZEN123",
	})
	require.NoError(t, err)

	assert.Equal(t, "Morning Sitters", g.Name)
	assert.Equal(t, 1, g.MemberCount, "creator is the first member")
	assert.Equal(t, DefaultMaxMembers, g.MaxMembers)
	assert.False(t, g.IsFull())

	_, err = NewGroup(NewGroupParams{ID: "g-2", Name: "", CreatorID: "alice", Code: "ZEN123"})
	assert.ErrorIs(t, err, ErrInvalidGroupName)

	_, err = NewGroup(NewGroupParams{ID: "g-3", Name: "x", CreatorID: "alice", Code: "bad"})
	assert.ErrorIs(t, err, ErrInvalidGroupCode)
}

func TestGroup_IsFull(t *testing.T) {
	g, err := NewGroup(NewGroupParams{
		ID:         "g-1",
		Name:       "Tiny",
		CreatorID:  "alice",
		Code:       "ABC123",
		MaxMembers: 2,
	})
	require.NoError(t, err)

	assert.False(t, g.IsFull())
	g.MemberCount = 2
	assert.True(t, g.IsFull())
}

func TestNewMembership(t *testing.T) {
	m, err := NewMembership("g-1", "alice", RoleAdmin)
	require.NoError(t, err)
	assert.True(t, m.IsAdmin())

	m, err = NewMembership("g-1", "bob", RoleMember)
	require.NoError(t, err)
	assert.False(t, m.IsAdmin())

	_, err = NewMembership("g-1", "bob", "owner")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

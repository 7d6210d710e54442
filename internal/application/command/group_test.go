package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
)

func createTestGroup(t *testing.T, groups *fakeGroups, creatorID string, public bool) *social.Group {
	t.Helper()
	handler := NewCreateGroupHandler(groups)
	g, err := handler.Handle(context.Background(), CreateGroupCommand{
		Name:      "Morning Sitters",
		CreatorID: creatorID,
		IsPublic:  public,
	})
	require.NoError(t, err)
	return g
}

func TestCreateGroup_CreatorBecomesAdmin(t *testing.T) {
	ctx := context.Background()
	groups := newFakeGroups()
	g := createTestGroup(t, groups, "acct-1", true)

	assert.Len(t, string(g.Code), social.GroupCodeLength)
	assert.True(t, g.Code.IsValid())
	assert.Equal(t, 1, g.MemberCount)

	m, err := groups.GetMembership(ctx, g.ID, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, social.RoleAdmin, m.Role)
}

func TestCreateGroup_RetriesOnCodeCollision(t *testing.T) {
	// Two creations in a row; even if the fake reported the first code as
	// taken the handler should mint a fresh one and succeed.
	groups := newFakeGroups()
	first := createTestGroup(t, groups, "acct-1", true)
	second := createTestGroup(t, groups, "acct-2", true)

	assert.NotEqual(t, first.Code, second.Code)
}

func TestJoinGroup_PublicByID(t *testing.T) {
	ctx := context.Background()
	groups := newFakeGroups()
	g := createTestGroup(t, groups, "acct-1", true)
	handler := NewJoinGroupHandler(groups)

	res, err := handler.Handle(ctx, JoinGroupCommand{AccountID: "acct-2", GroupID: g.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Group.MemberCount)
	assert.Equal(t, social.RoleMember, res.Membership.Role)
}

func TestJoinGroup_PrivateRequiresCode(t *testing.T) {
	ctx := context.Background()
	groups := newFakeGroups()
	g := createTestGroup(t, groups, "acct-1", false)
	handler := NewJoinGroupHandler(groups)

	// By id the private group is invisible.
	_, err := handler.Handle(ctx, JoinGroupCommand{AccountID: "acct-2", GroupID: g.ID})
	assert.ErrorIs(t, err, social.ErrGroupNotFound)

	// The code opens it, case-insensitively.
	res, err := handler.Handle(ctx, JoinGroupCommand{
		AccountID: "acct-2",
		Code:      string(social.NormalizeGroupCode(string(g.Code))),
	})
	require.NoError(t, err)
	assert.Equal(t, g.ID, res.Group.ID)
}

func TestJoinGroup_RejectsDoubleJoinAndBadInput(t *testing.T) {
	ctx := context.Background()
	groups := newFakeGroups()
	g := createTestGroup(t, groups, "acct-1", true)
	handler := NewJoinGroupHandler(groups)

	_, err := handler.Handle(ctx, JoinGroupCommand{AccountID: "acct-1", GroupID: g.ID})
	assert.ErrorIs(t, err, social.ErrAlreadyMember)

	_, err = handler.Handle(ctx, JoinGroupCommand{AccountID: "acct-2"})
	assert.Error(t, err, "neither id nor code")

	_, err = handler.Handle(ctx, JoinGroupCommand{AccountID: "acct-2", GroupID: g.ID, Code: "ABC123"})
	assert.Error(t, err, "both id and code")
}

func TestLeaveGroup_LastMemberDeletesGroup(t *testing.T) {
	ctx := context.Background()
	groups := newFakeGroups()
	g := createTestGroup(t, groups, "acct-1", true)
	handler := NewLeaveGroupHandler(groups)

	err := handler.Handle(ctx, LeaveGroupCommand{AccountID: "acct-1", GroupID: g.ID})
	require.NoError(t, err)

	_, err = groups.GetByID(ctx, g.ID)
	assert.ErrorIs(t, err, social.ErrGroupNotFound)
}

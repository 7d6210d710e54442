package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
)

func TestFriendRequest_FullCycle(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts(testAccount(t, "alice"), testAccount(t, "bob"))
	friendships := newFakeFriendships()
	send := NewSendFriendRequestHandler(friendships, accounts)
	accept := NewAcceptFriendRequestHandler(friendships)
	remove := NewRemoveFriendHandler(friendships)

	edge, err := send.Handle(ctx, SendFriendRequestCommand{InitiatorID: "alice", RecipientID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, social.FriendshipPending, edge.Status)
	assert.Equal(t, "alice", edge.UserID1)
	assert.Equal(t, "bob", edge.UserID2)

	accepted, err := accept.Handle(ctx, AcceptFriendRequestCommand{AccountID: "bob", FriendshipID: edge.ID})
	require.NoError(t, err)
	assert.Equal(t, social.FriendshipAccepted, accepted.Status)

	ids, err := friendships.ListFriendIDs(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, ids)

	require.NoError(t, remove.Handle(ctx, RemoveFriendCommand{AccountID: "alice", FriendID: "bob"}))
	ids, err = friendships.ListFriendIDs(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSendFriendRequest_Rejections(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts(testAccount(t, "alice"), testAccount(t, "bob"))
	friendships := newFakeFriendships()
	send := NewSendFriendRequestHandler(friendships, accounts)

	_, err := send.Handle(ctx, SendFriendRequestCommand{InitiatorID: "alice", RecipientID: "alice"})
	assert.ErrorIs(t, err, social.ErrSelfFriendship)

	_, err = send.Handle(ctx, SendFriendRequestCommand{InitiatorID: "alice", RecipientID: "ghost"})
	assert.Error(t, err)

	_, err = send.Handle(ctx, SendFriendRequestCommand{InitiatorID: "alice", RecipientID: "bob"})
	require.NoError(t, err)

	// A second edge between the pair is a conflict in either direction.
	_, err = send.Handle(ctx, SendFriendRequestCommand{InitiatorID: "bob", RecipientID: "alice"})
	assert.ErrorIs(t, err, social.ErrFriendshipExists)
}

func TestAcceptFriendRequest_OnlyRecipient(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts(testAccount(t, "alice"), testAccount(t, "bob"))
	friendships := newFakeFriendships()
	send := NewSendFriendRequestHandler(friendships, accounts)
	accept := NewAcceptFriendRequestHandler(friendships)

	edge, err := send.Handle(ctx, SendFriendRequestCommand{InitiatorID: "alice", RecipientID: "bob"})
	require.NoError(t, err)

	// The initiator cannot accept their own request.
	_, err = accept.Handle(ctx, AcceptFriendRequestCommand{AccountID: "alice", FriendshipID: edge.ID})
	assert.ErrorIs(t, err, social.ErrNotRecipient)

	_, err = accept.Handle(ctx, AcceptFriendRequestCommand{AccountID: "bob", FriendshipID: "missing"})
	assert.ErrorIs(t, err, social.ErrRequestNotFound)
}

func TestDeclineFriendRequest(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts(testAccount(t, "alice"), testAccount(t, "bob"))
	friendships := newFakeFriendships()
	send := NewSendFriendRequestHandler(friendships, accounts)
	decline := NewDeclineFriendRequestHandler(friendships)

	edge, err := send.Handle(ctx, SendFriendRequestCommand{InitiatorID: "alice", RecipientID: "bob"})
	require.NoError(t, err)

	err = decline.Handle(ctx, DeclineFriendRequestCommand{AccountID: "alice", FriendshipID: edge.ID})
	assert.ErrorIs(t, err, social.ErrNotRecipient)

	require.NoError(t, decline.Handle(ctx, DeclineFriendRequestCommand{AccountID: "bob", FriendshipID: edge.ID}))

	// Declining removes the edge entirely; a fresh request is possible.
	_, err = send.Handle(ctx, SendFriendRequestCommand{InitiatorID: "alice", RecipientID: "bob"})
	assert.NoError(t, err)
}

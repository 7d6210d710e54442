package command

import (
	"context"
	"errors"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
)

// AcceptFriendRequestCommand accepts a pending request. Only the recipient
// may accept; the edge flips to accepted in place.
type AcceptFriendRequestCommand struct {
	AccountID    string
	FriendshipID string
}

// Validate validates the command.
func (c AcceptFriendRequestCommand) Validate() error {
	if c.AccountID == "" {
		return validationError("accept_friend_request", "account_id is required")
	}
	if c.FriendshipID == "" {
		return validationError("accept_friend_request", "friendship_id is required")
	}
	return nil
}

// AcceptFriendRequestHandler handles the AcceptFriendRequestCommand.
type AcceptFriendRequestHandler struct {
	friendships social.FriendshipRepository
}

// NewAcceptFriendRequestHandler creates a new handler.
func NewAcceptFriendRequestHandler(friendships social.FriendshipRepository) *AcceptFriendRequestHandler {
	return &AcceptFriendRequestHandler{friendships: friendships}
}

// Handle executes the command and returns the accepted edge.
func (h *AcceptFriendRequestHandler) Handle(ctx context.Context, cmd AcceptFriendRequestCommand) (*social.Friendship, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	edge, err := h.friendships.GetByID(ctx, cmd.FriendshipID)
	if err != nil {
		if errors.Is(err, social.ErrFriendshipNotFound) {
			return nil, social.ErrRequestNotFound
		}
		return nil, err
	}

	if err := edge.Accept(cmd.AccountID); err != nil {
		return nil, err
	}

	if err := h.friendships.Accept(ctx, edge); err != nil {
		return nil, err
	}

	return edge, nil
}

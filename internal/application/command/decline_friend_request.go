package command

import (
	"context"
	"errors"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
)

// DeclineFriendRequestCommand deletes a pending request. Only the recipient
// may decline; the pair may send a fresh request later.
type DeclineFriendRequestCommand struct {
	AccountID    string
	FriendshipID string
}

// Validate validates the command.
func (c DeclineFriendRequestCommand) Validate() error {
	if c.AccountID == "" {
		return validationError("decline_friend_request", "account_id is required")
	}
	if c.FriendshipID == "" {
		return validationError("decline_friend_request", "friendship_id is required")
	}
	return nil
}

// DeclineFriendRequestHandler handles the DeclineFriendRequestCommand.
type DeclineFriendRequestHandler struct {
	friendships social.FriendshipRepository
}

// NewDeclineFriendRequestHandler creates a new handler.
func NewDeclineFriendRequestHandler(friendships social.FriendshipRepository) *DeclineFriendRequestHandler {
	return &DeclineFriendRequestHandler{friendships: friendships}
}

// Handle executes the command.
func (h *DeclineFriendRequestHandler) Handle(ctx context.Context, cmd DeclineFriendRequestCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	edge, err := h.friendships.GetByID(ctx, cmd.FriendshipID)
	if err != nil {
		if errors.Is(err, social.ErrFriendshipNotFound) {
			return social.ErrRequestNotFound
		}
		return err
	}

	if edge.Status != social.FriendshipPending {
		return social.ErrNotPending
	}
	if edge.UserID2 != cmd.AccountID {
		return social.ErrNotRecipient
	}

	return h.friendships.Delete(ctx, edge.ID)
}

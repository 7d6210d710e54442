package command

import (
	"context"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
)

// RemoveFriendCommand deletes an accepted friendship. Either endpoint may
// remove it.
type RemoveFriendCommand struct {
	AccountID string
	FriendID  string
}

// Validate validates the command.
func (c RemoveFriendCommand) Validate() error {
	if c.AccountID == "" {
		return validationError("remove_friend", "account_id is required")
	}
	if c.FriendID == "" {
		return validationError("remove_friend", "friend_id is required")
	}
	return nil
}

// RemoveFriendHandler handles the RemoveFriendCommand.
type RemoveFriendHandler struct {
	friendships social.FriendshipRepository
}

// NewRemoveFriendHandler creates a new handler.
func NewRemoveFriendHandler(friendships social.FriendshipRepository) *RemoveFriendHandler {
	return &RemoveFriendHandler{friendships: friendships}
}

// Handle executes the command.
func (h *RemoveFriendHandler) Handle(ctx context.Context, cmd RemoveFriendCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	edge, err := h.friendships.GetBetween(ctx, cmd.AccountID, cmd.FriendID)
	if err != nil {
		return err
	}

	if !edge.Involves(cmd.AccountID) {
		return social.ErrFriendshipNotFound
	}
	if edge.Status != social.FriendshipAccepted {
		return social.ErrFriendshipNotFound
	}

	return h.friendships.Delete(ctx, edge.ID)
}

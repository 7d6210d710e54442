package command

import (
	"context"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// FRIEND REQUEST COMMANDS
// One edge per unordered pair: the store refuses a second edge regardless of
// direction or status.
// ══════════════════════════════════════════════════════════════════════════════

// SendFriendRequestCommand creates a pending edge from initiator to
// recipient.
type SendFriendRequestCommand struct {
	InitiatorID string
	RecipientID string
}

// Validate validates the command.
func (c SendFriendRequestCommand) Validate() error {
	if c.InitiatorID == "" {
		return validationError("send_friend_request", "initiator_id is required")
	}
	if c.RecipientID == "" {
		return validationError("send_friend_request", "recipient_id is required")
	}
	if c.InitiatorID == c.RecipientID {
		return social.ErrSelfFriendship
	}
	return nil
}

// SendFriendRequestHandler handles the SendFriendRequestCommand.
type SendFriendRequestHandler struct {
	friendships social.FriendshipRepository
	accounts    account.Repository
}

// NewSendFriendRequestHandler creates a new handler.
func NewSendFriendRequestHandler(friendships social.FriendshipRepository, accounts account.Repository) *SendFriendRequestHandler {
	return &SendFriendRequestHandler{
		friendships: friendships,
		accounts:    accounts,
	}
}

// Handle executes the command and returns the pending edge.
func (h *SendFriendRequestHandler) Handle(ctx context.Context, cmd SendFriendRequestCommand) (*social.Friendship, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	exists, err := h.accounts.Exists(ctx, cmd.RecipientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, account.ErrAccountNotFound
	}

	edge, err := social.NewFriendRequest(uuid.New().String(), cmd.InitiatorID, cmd.RecipientID)
	if err != nil {
		return nil, err
	}

	if err := h.friendships.CreateRequest(ctx, edge); err != nil {
		return nil, err
	}

	return edge, nil
}

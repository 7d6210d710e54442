package query

import (
	"context"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
)

// PendingRequestView is a pending friend request with the counterpart
// resolved for display.
type PendingRequestView struct {
	FriendshipID string    `json:"friendship_id"`
	AccountID    string    `json:"account_id"`
	DisplayName  string    `json:"display_name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	SentAt       time.Time `json:"sent_at"`

	// Incoming is true when the caller is the recipient.
	Incoming bool `json:"incoming"`
}

// GetPendingRequestsQuery lists requests involving the caller, both
// directions.
type GetPendingRequestsQuery struct {
	AccountID string
}

// Validate validates the query.
func (q GetPendingRequestsQuery) Validate() error {
	if q.AccountID == "" {
		return validationError("get_pending_requests", "account_id is required")
	}
	return nil
}

// GetPendingRequestsHandler handles the GetPendingRequestsQuery.
type GetPendingRequestsHandler struct {
	friendships social.FriendshipRepository
	accounts    account.Repository
}

// NewGetPendingRequestsHandler creates a new handler.
func NewGetPendingRequestsHandler(friendships social.FriendshipRepository, accounts account.Repository) *GetPendingRequestsHandler {
	return &GetPendingRequestsHandler{
		friendships: friendships,
		accounts:    accounts,
	}
}

// Handle executes the query. Incoming requests come first.
func (h *GetPendingRequestsHandler) Handle(ctx context.Context, q GetPendingRequestsQuery) ([]PendingRequestView, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	received, err := h.friendships.ListPendingReceived(ctx, q.AccountID)
	if err != nil {
		return nil, err
	}
	sent, err := h.friendships.ListPendingSent(ctx, q.AccountID)
	if err != nil {
		return nil, err
	}

	counterparts := make([]string, 0, len(received)+len(sent))
	for _, edge := range received {
		counterparts = append(counterparts, edge.UserID1)
	}
	for _, edge := range sent {
		counterparts = append(counterparts, edge.UserID2)
	}

	accounts, err := h.accounts.GetByIDs(ctx, counterparts)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*account.Account, len(accounts))
	for _, acct := range accounts {
		byID[acct.ID] = acct
	}

	views := make([]PendingRequestView, 0, len(received)+len(sent))
	for _, edge := range received {
		views = append(views, pendingView(edge, edge.UserID1, byID, true))
	}
	for _, edge := range sent {
		views = append(views, pendingView(edge, edge.UserID2, byID, false))
	}
	return views, nil
}

func pendingView(edge *social.Friendship, counterpartID string, byID map[string]*account.Account, incoming bool) PendingRequestView {
	view := PendingRequestView{
		FriendshipID: edge.ID,
		AccountID:    counterpartID,
		SentAt:       edge.CreatedAt,
		Incoming:     incoming,
	}
	if acct, ok := byID[counterpartID]; ok {
		view.DisplayName = acct.DisplayName
		view.AvatarURL = acct.AvatarURL
	}
	return view
}

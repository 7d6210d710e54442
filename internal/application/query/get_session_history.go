package query

import (
	"context"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/session"
)

// Pagination bounds for history queries.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// GetSessionHistoryQuery lists the caller's completed sessions.
type GetSessionHistoryQuery struct {
	AccountID string
	Limit     int
	Offset    int
}

// Validate validates the query.
func (q GetSessionHistoryQuery) Validate() error {
	if q.AccountID == "" {
		return validationError("get_session_history", "account_id is required")
	}
	if q.Offset < 0 {
		return validationError("get_session_history", "offset cannot be negative")
	}
	return nil
}

// GetSessionHistoryResult contains a page of completed sessions.
type GetSessionHistoryResult struct {
	Sessions []*session.Session
	Total    int
	Limit    int
	Offset   int
}

// GetSessionHistoryHandler handles the GetSessionHistoryQuery.
type GetSessionHistoryHandler struct {
	ledger session.Ledger
}

// NewGetSessionHistoryHandler creates a new handler.
func NewGetSessionHistoryHandler(ledger session.Ledger) *GetSessionHistoryHandler {
	return &GetSessionHistoryHandler{ledger: ledger}
}

// Handle executes the query.
func (h *GetSessionHistoryHandler) Handle(ctx context.Context, q GetSessionHistoryQuery) (*GetSessionHistoryResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	sessions, err := h.ledger.ListCompletedByAccount(ctx, q.AccountID, limit, q.Offset)
	if err != nil {
		return nil, err
	}

	total, err := h.ledger.CountCompletedByAccount(ctx, q.AccountID)
	if err != nil {
		return nil, err
	}

	return &GetSessionHistoryResult{
		Sessions: sessions,
		Total:    total,
		Limit:    limit,
		Offset:   q.Offset,
	}, nil
}

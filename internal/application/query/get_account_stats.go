package query

import (
	"context"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/leaderboard"
)

// GetAccountStatsQuery fetches an account's gamification aggregates.
type GetAccountStatsQuery struct {
	AccountID string
}

// Validate validates the query.
func (q GetAccountStatsQuery) Validate() error {
	if q.AccountID == "" {
		return validationError("get_account_stats", "account_id is required")
	}
	return nil
}

// GetAccountStatsResult bundles the aggregates with the account's
// global rank. GlobalRank is zero for accounts that have not
// completed a session yet.
type GetAccountStatsResult struct {
	AccountID   string
	DisplayName string
	Stats       account.Aggregates
	GlobalRank  int
	FetchedAt   time.Time
}

// GetAccountStatsHandler handles the GetAccountStatsQuery.
type GetAccountStatsHandler struct {
	accounts account.Repository
	boards   leaderboard.Repository
}

// NewGetAccountStatsHandler creates a new handler.
func NewGetAccountStatsHandler(accounts account.Repository, boards leaderboard.Repository) *GetAccountStatsHandler {
	return &GetAccountStatsHandler{accounts: accounts, boards: boards}
}

// Handle executes the query.
func (h *GetAccountStatsHandler) Handle(ctx context.Context, q GetAccountStatsQuery) (*GetAccountStatsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	acct, err := h.accounts.GetByID(ctx, q.AccountID)
	if err != nil {
		return nil, err
	}

	rank, err := h.boards.GlobalRank(ctx, q.AccountID)
	if err != nil {
		return nil, err
	}

	return &GetAccountStatsResult{
		AccountID:   acct.ID,
		DisplayName: acct.DisplayName,
		Stats:       acct.Stats,
		GlobalRank:  rank,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

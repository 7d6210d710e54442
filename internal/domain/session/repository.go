package session

import (
	"context"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEDGER INTERFACE
// The ledger is the source of truth for recomputing aggregates. Completion
// appends the session entry and replaces the account aggregate in one unit of
// work; a crash between the two must not be observable.
// ══════════════════════════════════════════════════════════════════════════════

// CompletionFunc derives the completed session and the next aggregate state
// from the account as read under the ledger's row lock. It must be pure apart
// from mutating its arguments: the ledger may retry it on serialization
// failures.
type CompletionFunc func(acct *account.Account) (*Session, error)

// Ledger defines the session store operations.
type Ledger interface {
	// CreateActive persists a newly started session in its active state.
	CreateActive(ctx context.Context, sess *Session) error

	// GetByID returns a session by ID.
	// Returns ErrSessionNotFound if absent.
	GetByID(ctx context.Context, id string) (*Session, error)

	// UpdateState persists pause/resume mutations of an uncompleted session.
	// Returns ErrSessionNotFound if absent.
	UpdateState(ctx context.Context, sess *Session) error

	// Complete runs fn with the owning account locked for update, then
	// writes the completed session entry and the account's new aggregates
	// in the same transaction.
	// Returns account.ErrAccountNotFound if the account is absent.
	Complete(ctx context.Context, accountID string, fn CompletionFunc) (*Session, *account.Account, error)

	// ListCompletedByAccount returns completed sessions for an account,
	// newest first.
	ListCompletedByAccount(ctx context.Context, accountID string, limit, offset int) ([]*Session, error)

	// CountCompletedByAccount returns the number of completed sessions for
	// an account.
	CountCompletedByAccount(ctx context.Context, accountID string) (int, error)
}

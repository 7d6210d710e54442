package account

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// These interfaces define the storage contract; implementations live in
// infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines the account store operations.
type Repository interface {
	// Create creates a new account.
	// Returns ErrAccountAlreadyExists if the email is taken.
	Create(ctx context.Context, acct *Account) error

	// GetByID returns an account by internal ID.
	// Returns ErrAccountNotFound if absent.
	GetByID(ctx context.Context, id string) (*Account, error)

	// GetByEmail returns an account by normalized email.
	// Returns ErrAccountNotFound if absent.
	GetByEmail(ctx context.Context, email Email) (*Account, error)

	// GetByIDs returns accounts for a set of IDs. Missing IDs are silently
	// omitted from the result.
	GetByIDs(ctx context.Context, ids []string) ([]*Account, error)

	// UpdateProfile applies an allow-listed profile edit. Aggregates are
	// never written by this operation.
	// Returns ErrAccountNotFound if absent.
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*Account, error)

	// Exists checks existence by ID.
	Exists(ctx context.Context, id string) (bool, error)

	// ExistsByEmail checks existence by normalized email.
	ExistsByEmail(ctx context.Context, email Email) (bool, error)

	// Count returns the total number of accounts.
	Count(ctx context.Context) (int, error)
}

package quote

import (
	"context"
)

// Repository defines the quote catalog operations.
type Repository interface {
	// Count returns the catalog size.
	Count(ctx context.Context) (int, error)

	// GetByIndex returns the quote at a stable catalog position (ordered by
	// creation, oldest first).
	// Returns ErrQuoteNotFound when the catalog is empty.
	GetByIndex(ctx context.Context, index int) (*Quote, error)

	// Add inserts a quote into the catalog.
	Add(ctx context.Context, q *Quote) error
}

package postgres

import (
	"context"
	"fmt"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/quote"
)

// QuoteRepository implements quote.Repository for PostgreSQL. The catalog is
// ordered by creation time so a day's index always resolves to the same row.
type QuoteRepository struct {
	conn *Connection
}

// NewQuoteRepository creates a new QuoteRepository.
func NewQuoteRepository(conn *Connection) *QuoteRepository {
	return &QuoteRepository{conn: conn}
}

// Count returns the catalog size.
func (r *QuoteRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count quotes: %w", err)
	}
	return count, nil
}

// GetByIndex returns the quote at a stable catalog position.
func (r *QuoteRepository) GetByIndex(ctx context.Context, index int) (*quote.Quote, error) {
	query := `
		SELECT id, text, author, created_at
		FROM quotes
		ORDER BY created_at ASC, id ASC
		LIMIT 1 OFFSET $1
	`

	var q quote.Quote
	err := r.conn.QueryRow(ctx, query, index).Scan(&q.ID, &q.Text, &q.Author, &q.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, quote.ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to query quote: %w", err)
	}
	return &q, nil
}

// Add inserts a quote into the catalog.
func (r *QuoteRepository) Add(ctx context.Context, q *quote.Quote) error {
	query := `
		INSERT INTO quotes (id, text, author, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.Exec(ctx, query, q.ID, q.Text, q.Author, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

package command

import (
	"context"
	"strings"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/quote"

	"github.com/google/uuid"
)

// AddQuoteCommand appends a quote to the catalog. New quotes join the daily
// rotation at the end of the stable catalog order.
type AddQuoteCommand struct {
	Text   string
	Author string
}

// Validate validates the command.
func (c AddQuoteCommand) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return validationError("add_quote", "text is required")
	}
	return nil
}

// AddQuoteHandler handles the AddQuoteCommand.
type AddQuoteHandler struct {
	quotes quote.Repository
}

// NewAddQuoteHandler creates a new handler.
func NewAddQuoteHandler(quotes quote.Repository) *AddQuoteHandler {
	return &AddQuoteHandler{quotes: quotes}
}

// Handle executes the command and returns the stored quote.
func (h *AddQuoteHandler) Handle(ctx context.Context, cmd AddQuoteCommand) (*quote.Quote, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q := &quote.Quote{
		ID:        uuid.New().String(),
		Text:      strings.TrimSpace(cmd.Text),
		Author:    strings.TrimSpace(cmd.Author),
		CreatedAt: time.Now().UTC(),
	}

	if err := h.quotes.Add(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

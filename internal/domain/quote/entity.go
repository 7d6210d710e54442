// Package quote contains the daily wisdom quote domain model. One quote is
// shown per calendar day, rotating deterministically through the catalog.
package quote

import (
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"
)

// Quote is a single wisdom quote.
type Quote struct {
	ID        string
	Text      string
	Author    string
	CreatedAt time.Time
}

// ErrQuoteNotFound - no quote in the catalog.
var ErrQuoteNotFound = shared.NewDomainError("quote", "Find", shared.ErrNotFound, "quote not found")

// IndexForDay returns the catalog index for a day ordinal. Rotation is
// deterministic: the same day always yields the same quote.
func IndexForDay(dayOrdinal, catalogSize int) int {
	if catalogSize <= 0 {
		return 0
	}
	idx := dayOrdinal % catalogSize
	if idx < 0 {
		idx += catalogSize
	}
	return idx
}

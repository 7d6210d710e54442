package leaderboard

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY & CACHE INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// Repository produces ordered leaderboard views. Every variant shares the
// same ordering contract (experience DESC, total_minutes DESC) and the same
// eligibility rule (total_sessions > 0); ranks are assigned 1-based by
// position.
type Repository interface {
	// Global returns the top eligible accounts overall.
	Global(ctx context.Context, limit int) ([]Entry, error)

	// Friends returns the top eligible accounts holding an accepted
	// friendship edge with the requester. The requester never appears in
	// the result.
	Friends(ctx context.Context, accountID string, limit int) ([]Entry, error)

	// Group returns the top eligible members of a group. Callers are
	// responsible for the membership check before invoking this.
	Group(ctx context.Context, groupID string, limit int) ([]Entry, error)

	// GlobalRank returns the 1-based global rank of an account, or 0 when
	// the account is not eligible.
	GlobalRank(ctx context.Context, accountID string) (int, error)
}

// Cache holds hot leaderboard views with a short TTL. A nil/absent cache is
// always safe to bypass.
type Cache interface {
	// GetGlobal returns the cached global top, or a miss error.
	GetGlobal(ctx context.Context, limit int) ([]Entry, error)

	// SetGlobal stores the global top.
	SetGlobal(ctx context.Context, entries []Entry) error

	// Invalidate drops all cached views.
	Invalidate(ctx context.Context) error
}

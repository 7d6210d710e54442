// Package leaderboard contains the ranking domain model: ordered views over
// account aggregates scoped by the social graph.
package leaderboard

import (
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCOPES & LIMITS
// ══════════════════════════════════════════════════════════════════════════════

// Scope selects which accounts a leaderboard covers.
type Scope string

const (
	// ScopeGlobal - every eligible account.
	ScopeGlobal Scope = "global"

	// ScopeFriends - eligible accounts with an accepted friendship edge to
	// the requester. The requester is excluded from their own board.
	ScopeFriends Scope = "friends"

	// ScopeGroup - eligible accounts holding a membership edge for a group.
	// The caller must itself be a member.
	ScopeGroup Scope = "group"
)

// IsValid checks that the scope is known.
func (s Scope) IsValid() bool {
	switch s {
	case ScopeGlobal, ScopeFriends, ScopeGroup:
		return true
	default:
		return false
	}
}

// Limit bounds for leaderboard queries.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ClampLimit normalizes a requested limit into the 1-100 range.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTRIES
// ══════════════════════════════════════════════════════════════════════════════

// Entry is one ranked row of a leaderboard view.
type Entry struct {
	// Rank is 1-based, assigned by position in the ordered sequence.
	Rank int

	// AccountID is the ranked account.
	AccountID string

	// DisplayName and AvatarURL are denormalized for presentation.
	DisplayName string
	AvatarURL   string

	// Aggregate fields at query time.
	Level         int
	Experience    int
	TotalMinutes  int
	TotalSessions int
	CurrentStreak int
}

// Ordering contract: experience descending, then total minutes descending.
// The store appends an account-id tail so full ties page deterministically;
// that tail only orders entries whose stats are identical, so Less itself
// stays id-blind.
func Less(a, b Entry) bool {
	if a.Experience != b.Experience {
		return a.Experience > b.Experience
	}
	return a.TotalMinutes > b.TotalMinutes
}

// EntryFromAccount builds an unranked entry from an account record.
func EntryFromAccount(acct *account.Account) Entry {
	return Entry{
		AccountID:     acct.ID,
		DisplayName:   acct.DisplayName,
		AvatarURL:     acct.AvatarURL,
		Level:         int(acct.Stats.Level),
		Experience:    int(acct.Stats.Experience),
		TotalMinutes:  acct.Stats.TotalMinutes,
		TotalSessions: acct.Stats.TotalSessions,
		CurrentStreak: acct.Stats.CurrentStreak,
	}
}

// AssignRanks numbers an already-ordered slice 1..n in place.
func AssignRanks(entries []Entry) {
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidScope - unknown leaderboard scope.
	ErrInvalidScope = shared.NewDomainError("leaderboard", "Validate", shared.ErrInvalidInput, "invalid leaderboard scope")

	// ErrGroupRequired - group scope requested without a group id.
	ErrGroupRequired = shared.NewDomainError("leaderboard", "Validate", shared.ErrValidation, "group id is required for group scope")

	// ErrScopeAccess - the caller is outside the requested scope.
	ErrScopeAccess = shared.NewDomainError("leaderboard", "Query", shared.ErrUnauthorized, "caller is not a member of the requested scope")
)

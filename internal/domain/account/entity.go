// Package account contains the account domain model: identity, credentials
// reference, and the cumulative gamification aggregates. This is core business
// logic with no external dependencies.
package account

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Email represents a lowercase-normalized account email.
type Email string

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NewEmail normalizes and validates an email address.
func NewEmail(raw string) (Email, error) {
	e := strings.ToLower(strings.TrimSpace(raw))
	if !emailRegex.MatchString(e) {
		return "", ErrInvalidEmail
	}
	return Email(e), nil
}

// String returns the string representation.
func (e Email) String() string {
	return string(e)
}

// Experience represents accumulated experience points. Monotonically
// non-decreasing except by explicit administrative reset.
type Experience int

// IsValid checks that experience is non-negative.
func (x Experience) IsValid() bool {
	return x >= 0
}

// Add returns the experience after gaining delta points.
func (x Experience) Add(delta int) Experience {
	return x + Experience(delta)
}

// Level represents the account level derived from experience.
type Level int

// ExperiencePerLevel is the amount of experience required per level.
const ExperiencePerLevel = 100

// LevelForExperience derives the level from cumulative experience.
// Every 100 XP is one level; level is always at least 1. Recomputing from the
// same experience value always yields the same level.
func LevelForExperience(xp Experience) Level {
	if xp < 0 {
		return 1
	}
	return Level(int(xp)/ExperiencePerLevel + 1)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: ACCOUNT
// ══════════════════════════════════════════════════════════════════════════════

// Aggregates holds the cumulative gamification state stored on an account.
// Mutated only by the statistics engine in response to session completion.
type Aggregates struct {
	// Experience is total accumulated XP.
	Experience Experience

	// Level is derived from Experience (stored for query convenience,
	// always recomputable).
	Level Level

	// TotalSessions is the count of completed sessions.
	TotalSessions int

	// TotalMinutes is the sum of completed session durations.
	TotalMinutes int

	// CurrentStreak is the count of consecutive calendar days with at least
	// one completed session.
	CurrentStreak int

	// LongestStreak is the best streak ever reached. Invariant:
	// LongestStreak >= CurrentStreak.
	LongestStreak int

	// LastSessionDate is the calendar date (no time-of-day) of the most
	// recent completed session. Nil until the first session.
	LastSessionDate *time.Time
}

// ZeroAggregates returns the aggregate state of a freshly registered account.
func ZeroAggregates() Aggregates {
	return Aggregates{
		Experience:      0,
		Level:           1,
		TotalSessions:   0,
		TotalMinutes:    0,
		CurrentStreak:   0,
		LongestStreak:   0,
		LastSessionDate: nil,
	}
}

// Validate checks aggregate invariants.
func (a Aggregates) Validate() error {
	if !a.Experience.IsValid() {
		return ErrInvalidExperience
	}
	if a.Level != LevelForExperience(a.Experience) {
		return ErrLevelMismatch
	}
	if a.TotalSessions < 0 || a.TotalMinutes < 0 {
		return ErrInvalidTotals
	}
	if a.LongestStreak < a.CurrentStreak {
		return ErrStreakInvariant
	}
	return nil
}

// Account is the central identity entity.
type Account struct {
	// ID is the internal unique identifier (UUID in string form).
	ID string

	// Email is the unique, lowercase-normalized address.
	Email Email

	// DisplayName is the name shown on leaderboards and rosters.
	DisplayName string

	// AvatarURL is an optional reference to a hosted avatar image.
	AvatarURL string

	// PasswordHash is opaque to the domain; hashing lives in infrastructure.
	PasswordHash string

	// Stats are the cumulative gamification aggregates.
	Stats Aggregates

	// CreatedAt is when the account was registered.
	CreatedAt time.Time

	// UpdatedAt is when the record was last modified.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// Sentinels carry a shared kind so callers can match either the exact error
// or its class (shared.IsNotFound, shared.IsValidation, ...).
var (
	// ErrInvalidEmail - email failed normalization or format checks.
	ErrInvalidEmail = shared.NewDomainError("account", "Validate", shared.ErrInvalidFormat, "invalid email address")

	// ErrInvalidDisplayName - display name out of bounds.
	ErrInvalidDisplayName = shared.NewDomainError("account", "Validate", shared.ErrInvalidInput, "invalid display name: must be 1-100 chars")

	// ErrInvalidExperience - negative experience.
	ErrInvalidExperience = shared.NewDomainError("account", "Validate", shared.ErrValueOutOfRange, "invalid experience: must be non-negative")

	// ErrLevelMismatch - stored level disagrees with the level derived from
	// experience.
	ErrLevelMismatch = shared.NewDomainError("account", "Validate", shared.ErrValidation, "stored level does not match experience")

	// ErrInvalidTotals - negative session or minute totals.
	ErrInvalidTotals = shared.NewDomainError("account", "Validate", shared.ErrValueOutOfRange, "invalid totals: must be non-negative")

	// ErrStreakInvariant - longest streak fell below current streak.
	ErrStreakInvariant = shared.NewDomainError("account", "Validate", shared.ErrValidation, "longest streak must be >= current streak")

	// ErrAccountNotFound - account not found.
	ErrAccountNotFound = shared.NewDomainError("account", "Find", shared.ErrNotFound, "account not found")

	// ErrAccountAlreadyExists - duplicate account (email taken).
	ErrAccountAlreadyExists = shared.NewDomainError("account", "Create", shared.ErrAlreadyExists, "account already exists")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewAccountParams contains the parameters for registering an account.
type NewAccountParams struct {
	ID           string
	Email        string
	DisplayName  string
	AvatarURL    string
	PasswordHash string
}

// NewAccount creates a new account with all aggregates zeroed and level 1.
func NewAccount(params NewAccountParams) (*Account, error) {
	if params.ID == "" {
		return nil, errors.New("account id is required")
	}

	email, err := NewEmail(params.Email)
	if err != nil {
		return nil, err
	}

	displayName := strings.TrimSpace(params.DisplayName)
	if len(displayName) == 0 || len(displayName) > 100 {
		return nil, ErrInvalidDisplayName
	}

	if params.PasswordHash == "" {
		return nil, errors.New("password hash is required")
	}

	now := time.Now().UTC()

	return &Account{
		ID:           params.ID,
		Email:        email,
		DisplayName:  displayName,
		AvatarURL:    params.AvatarURL,
		PasswordHash: params.PasswordHash,
		Stats:        ZeroAggregates(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// ApplyAggregates replaces the account's aggregate state. The caller (the
// statistics engine via the ledger transaction) is responsible for having
// derived the new state correctly; invariants are re-checked here.
func (a *Account) ApplyAggregates(next Aggregates) error {
	if err := next.Validate(); err != nil {
		return err
	}
	a.Stats = next
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// UpdateProfile edits profile fields only. Aggregates are never touched here.
func (a *Account) UpdateProfile(update ProfileUpdate) error {
	if update.DisplayName != nil {
		name := strings.TrimSpace(*update.DisplayName)
		if len(name) == 0 || len(name) > 100 {
			return ErrInvalidDisplayName
		}
		a.DisplayName = name
	}
	if update.AvatarURL != nil {
		a.AvatarURL = *update.AvatarURL
	}
	a.UpdatedAt = time.Now().UTC()
	return nil
}

// ProfileUpdate is an explicit allow-list of editable profile fields.
// Nil means "leave unchanged". This replaces dynamic field-list updates so
// only named columns can ever be written.
type ProfileUpdate struct {
	DisplayName *string
	AvatarURL   *string
}

// IsEmpty returns true if the update changes nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.DisplayName == nil && u.AvatarURL == nil
}

// Eligible returns true if the account appears on leaderboards. New accounts
// are excluded until their first completed session.
func (a *Account) Eligible() bool {
	return a.Stats.TotalSessions > 0
}

// String returns a string representation for logging.
func (a *Account) String() string {
	return fmt.Sprintf(
		"Account{ID: %s, Email: %s, XP: %d, Level: %d, Streak: %d}",
		a.ID, a.Email, a.Stats.Experience, a.Stats.Level, a.Stats.CurrentStreak,
	)
}

// Clone creates a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	if a.Stats.LastSessionDate != nil {
		d := *a.Stats.LastSessionDate
		clone.Stats.LastSessionDate = &d
	}
	return &clone
}

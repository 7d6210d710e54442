// Package session contains the meditation session domain model and the
// append-only session ledger contract. A session moves through a small state
// machine while in progress and becomes an immutable ledger entry once
// completion is recorded.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS & ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Duration limits for a planned session, in minutes.
const (
	MinDurationMinutes = 1
	MaxDurationMinutes = 120
)

// Frequency is the binaural frequency band used for a session.
type Frequency string

const (
	// FrequencyAlpha - relaxed focus (8-13 Hz).
	FrequencyAlpha Frequency = "alpha"
	// FrequencyTheta - deep meditation (4-8 Hz).
	FrequencyTheta Frequency = "theta"
	// FrequencyBeta - active concentration (13-30 Hz).
	FrequencyBeta Frequency = "beta"
	// FrequencyDelta - deep rest (0.5-4 Hz).
	FrequencyDelta Frequency = "delta"
)

// IsValid checks that the frequency is one of the fixed bands.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyAlpha, FrequencyTheta, FrequencyBeta, FrequencyDelta:
		return true
	default:
		return false
	}
}

// ValidDuration checks the planned duration range.
func ValidDuration(minutes int) bool {
	return minutes >= MinDurationMinutes && minutes <= MaxDurationMinutes
}

// State is the in-progress state of a session.
type State string

const (
	// StateActive - the session is running.
	StateActive State = "active"
	// StatePaused - the session is paused by the user.
	StatePaused State = "paused"
	// StateCompleted - terminal; the record is append-only from here on.
	StateCompleted State = "completed"
)

// IsValid checks that the state is known.
func (s State) IsValid() bool {
	switch s {
	case StateActive, StatePaused, StateCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for the completed state.
func (s State) IsTerminal() bool {
	return s == StateCompleted
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: SESSION
// ══════════════════════════════════════════════════════════════════════════════

// Session is a meditation session owned by exactly one account.
type Session struct {
	// ID is the internal unique identifier (UUID in string form).
	ID string

	// AccountID is the owning account. No ownership transfer.
	AccountID string

	// DurationMinutes is the planned duration (1-120).
	DurationMinutes int

	// Frequency is the chosen frequency band.
	Frequency Frequency

	// State is the current state machine position.
	State State

	// Paused marks a currently paused session.
	Paused bool

	// PauseCount counts how many times the session was paused.
	PauseCount int

	// ActualDurationMinutes is the measured duration at completion. Zero
	// until completed.
	ActualDurationMinutes int

	// XPGained is computed at completion and immutable after.
	XPGained int

	// StartedAt is when the session started.
	StartedAt time.Time

	// CompletedAt is set exactly once, at completion.
	CompletedAt *time.Time

	// UpdatedAt is when the record was last modified.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// Sentinels carry a shared kind so callers can match either the exact error
// or its class (shared.IsNotFound, shared.IsConflict, ...).
var (
	// ErrInvalidDuration - planned duration out of the 1-120 range.
	ErrInvalidDuration = shared.NewDomainError("session", "Validate", shared.ErrValueOutOfRange, "invalid session duration: must be 1-120 minutes")

	// ErrInvalidFrequency - unknown frequency band.
	ErrInvalidFrequency = shared.NewDomainError("session", "Validate", shared.ErrInvalidInput, "invalid frequency: must be alpha, theta, beta or delta")

	// ErrAlreadyCompleted - transition attempted on a completed session.
	ErrAlreadyCompleted = shared.NewDomainError("session", "Transition", shared.ErrStateTransition, "session already completed")

	// ErrNotPaused - resume attempted on a session that is not paused.
	ErrNotPaused = shared.NewDomainError("session", "Resume", shared.ErrStateTransition, "session is not paused")

	// ErrSessionNotFound - session not found.
	ErrSessionNotFound = shared.NewDomainError("session", "Find", shared.ErrNotFound, "session not found")

	// ErrNotOwner - the acting account does not own the session.
	ErrNotOwner = shared.NewDomainError("session", "Authorize", shared.ErrUnauthorized, "session belongs to another account")
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & STATE MACHINE
// ══════════════════════════════════════════════════════════════════════════════

// NewSessionParams contains the parameters for starting a session.
type NewSessionParams struct {
	ID              string
	AccountID       string
	DurationMinutes int
	Frequency       Frequency
}

// NewSession starts a new active session after validating its inputs.
func NewSession(params NewSessionParams) (*Session, error) {
	if params.ID == "" {
		return nil, errors.New("session id is required")
	}
	if params.AccountID == "" {
		return nil, errors.New("account id is required")
	}
	if !ValidDuration(params.DurationMinutes) {
		return nil, ErrInvalidDuration
	}
	if !params.Frequency.IsValid() {
		return nil, ErrInvalidFrequency
	}

	now := time.Now().UTC()

	return &Session{
		ID:              params.ID,
		AccountID:       params.AccountID,
		DurationMinutes: params.DurationMinutes,
		Frequency:       params.Frequency,
		State:           StateActive,
		StartedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Pause transitions Active -> Paused. Pausing an already paused session is a
// no-op rather than an error; pausing a completed one fails.
func (s *Session) Pause() error {
	if s.State.IsTerminal() {
		return ErrAlreadyCompleted
	}
	if s.State == StatePaused {
		return nil
	}

	s.State = StatePaused
	s.Paused = true
	s.PauseCount++
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Resume transitions Paused -> Active.
func (s *Session) Resume() error {
	if s.State.IsTerminal() {
		return ErrAlreadyCompleted
	}
	if s.State != StatePaused {
		return ErrNotPaused
	}

	s.State = StateActive
	s.Paused = false
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete transitions any non-terminal state to Completed exactly once.
// Completion is permitted from Paused as well as Active. xpGained is the
// value computed by the statistics engine; actualMinutes defaults to the
// planned duration when non-positive.
func (s *Session) Complete(xpGained, actualMinutes int, at time.Time) error {
	if s.State.IsTerminal() {
		return ErrAlreadyCompleted
	}

	if actualMinutes <= 0 {
		actualMinutes = s.DurationMinutes
	}

	completed := at.UTC()
	s.State = StateCompleted
	s.Paused = false
	s.ActualDurationMinutes = actualMinutes
	s.XPGained = xpGained
	s.CompletedAt = &completed
	s.UpdatedAt = completed
	return nil
}

// IsCompleted reports whether the session reached its terminal state.
func (s *Session) IsCompleted() bool {
	return s.State.IsTerminal()
}

// OwnedBy checks session ownership.
func (s *Session) OwnedBy(accountID string) bool {
	return s.AccountID == accountID
}

// String returns a string representation for logging.
func (s *Session) String() string {
	return fmt.Sprintf(
		"Session{ID: %s, Account: %s, Duration: %dm, Freq: %s, State: %s}",
		s.ID, s.AccountID, s.DurationMinutes, s.Frequency, s.State,
	)
}

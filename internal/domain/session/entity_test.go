package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(NewSessionParams{
		ID:              "sess-1",
		AccountID:       "acct-1",
		DurationMinutes: 20,
		Frequency:       FrequencyTheta,
	})
	require.NoError(t, err)
	return s
}

func TestNewSession_Validation(t *testing.T) {
	tests := []struct {
		name    string
		params  NewSessionParams
		wantErr error
	}{
		{
			name:    "duration too short",
			params:  NewSessionParams{ID: "s", AccountID: "a", DurationMinutes: 0, Frequency: FrequencyAlpha},
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "duration too long",
			params:  NewSessionParams{ID: "s", AccountID: "a", DurationMinutes: 121, Frequency: FrequencyAlpha},
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "unknown frequency",
			params:  NewSessionParams{ID: "s", AccountID: "a", DurationMinutes: 10, Frequency: "gamma"},
			wantErr: ErrInvalidFrequency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSession(tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Boundary durations are accepted.
	for _, d := range []int{1, 120} {
		s, err := NewSession(NewSessionParams{ID: "s", AccountID: "a", DurationMinutes: d, Frequency: FrequencyDelta})
		require.NoError(t, err)
		assert.Equal(t, StateActive, s.State)
	}
}

func TestSession_PauseResume(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.Pause())
	assert.Equal(t, StatePaused, s.State)
	assert.True(t, s.Paused)
	assert.Equal(t, 1, s.PauseCount)

	// Pausing again is a no-op, not a second pause.
	require.NoError(t, s.Pause())
	assert.Equal(t, 1, s.PauseCount)

	require.NoError(t, s.Resume())
	assert.Equal(t, StateActive, s.State)
	assert.False(t, s.Paused)

	// Resuming an active session fails.
	assert.ErrorIs(t, s.Resume(), ErrNotPaused)

	// Pause counts accumulate across cycles.
	require.NoError(t, s.Pause())
	assert.Equal(t, 2, s.PauseCount)
}

func TestSession_CompleteFromActive(t *testing.T) {
	s := newTestSession(t)
	at := time.Date(2025, time.April, 2, 9, 30, 0, 0, time.UTC)

	require.NoError(t, s.Complete(40, 20, at))

	assert.True(t, s.IsCompleted())
	assert.Equal(t, 40, s.XPGained)
	assert.Equal(t, 20, s.ActualDurationMinutes)
	require.NotNil(t, s.CompletedAt)
	assert.Equal(t, at, *s.CompletedAt)
}

func TestSession_CompleteFromPaused(t *testing.T) {
	// Pausing does not block completion.
	s := newTestSession(t)
	require.NoError(t, s.Pause())

	require.NoError(t, s.Complete(40, 0, time.Now()))
	assert.True(t, s.IsCompleted())
	assert.False(t, s.Paused)
	// Actual duration defaults to the planned duration.
	assert.Equal(t, s.DurationMinutes, s.ActualDurationMinutes)
}

func TestSession_TerminalStateIsFinal(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Complete(40, 20, time.Now()))

	assert.ErrorIs(t, s.Complete(40, 20, time.Now()), ErrAlreadyCompleted)
	assert.ErrorIs(t, s.Pause(), ErrAlreadyCompleted)
	assert.ErrorIs(t, s.Resume(), ErrAlreadyCompleted)
}

func TestSession_Ownership(t *testing.T) {
	s := newTestSession(t)
	assert.True(t, s.OwnedBy("acct-1"))
	assert.False(t, s.OwnedBy("acct-2"))
}

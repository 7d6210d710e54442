package shared_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/leaderboard"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/session"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
)

func TestPredicates_ClassifyDomainSentinels(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		predicate func(error) bool
	}{
		{"account not found", account.ErrAccountNotFound, shared.IsNotFound},
		{"session not found", session.ErrSessionNotFound, shared.IsNotFound},
		{"group not found", social.ErrGroupNotFound, shared.IsNotFound},
		{"duplicate account", account.ErrAccountAlreadyExists, shared.IsConflict},
		{"repeated completion", session.ErrAlreadyCompleted, shared.IsConflict},
		{"double join", social.ErrAlreadyMember, shared.IsConflict},
		{"bad duration", session.ErrInvalidDuration, shared.IsValidation},
		{"bad email", account.ErrInvalidEmail, shared.IsValidation},
		{"bad group code", social.ErrInvalidGroupCode, shared.IsValidation},
		{"foreign session", session.ErrNotOwner, shared.IsUnauthorized},
		{"non-member board", leaderboard.ErrScopeAccess, shared.IsUnauthorized},
		{"non-recipient response", social.ErrNotRecipient, shared.IsUnauthorized},
		{"full group", social.ErrGroupFull, shared.IsCapacityExceeded},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.predicate(tc.err))
			// Wrapping must not hide the class.
			assert.True(t, tc.predicate(fmt.Errorf("handling request: %w", tc.err)))
		})
	}
}

func TestPredicates_DoNotCrossMatch(t *testing.T) {
	// Same kind, different sentinels: class matches, identity does not.
	assert.NotErrorIs(t, account.ErrAccountNotFound, session.ErrSessionNotFound)
	assert.NotErrorIs(t, session.ErrAlreadyCompleted, session.ErrNotPaused)

	assert.False(t, shared.IsNotFound(session.ErrAlreadyCompleted))
	assert.False(t, shared.IsConflict(account.ErrAccountNotFound))
	assert.False(t, shared.IsValidation(fmt.Errorf("disk on fire")))
}

func TestDomainError_MessageAndUnwrap(t *testing.T) {
	err := shared.NewDomainError("session", "Find", shared.ErrNotFound, "session not found")
	assert.Equal(t, "session.Find: session not found", err.Error())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	cause := fmt.Errorf("connection reset")
	wrapped := shared.WrapError("account", "Create", shared.ErrAlreadyExists, "account already exists", cause)
	assert.Equal(t, "account.Create: account already exists: connection reset", wrapped.Error())
	assert.ErrorIs(t, wrapped, shared.ErrAlreadyExists)
	assert.ErrorIs(t, wrapped, cause)
	require.True(t, shared.IsConflict(wrapped))
}

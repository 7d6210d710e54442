package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
)

func TestRegisterAccount_CreatesAccountWithToken(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts()
	handler := NewRegisterAccountHandler(accounts, fakeHasher{}, fakeTokens{})

	res, err := handler.Handle(ctx, RegisterAccountCommand{
		Email:       "Zen@Example.COM",
		Password:    "correct horse",
		DisplayName: "Zen Walker",
	})
	require.NoError(t, err)

	assert.Equal(t, account.Email("zen@example.com"), res.Account.Email)
	assert.Equal(t, "Zen Walker", res.Account.DisplayName)
	assert.Equal(t, "hashed:correct horse", res.Account.PasswordHash)
	assert.Equal(t, "token-for-"+res.Account.ID, res.Token)
	assert.Equal(t, account.ZeroAggregates(), res.Account.Stats)
	assert.False(t, res.Account.Eligible(), "new accounts stay off leaderboards")
}

func TestRegisterAccount_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts()
	handler := NewRegisterAccountHandler(accounts, fakeHasher{}, fakeTokens{})

	_, err := handler.Handle(ctx, RegisterAccountCommand{
		Email: "zen@example.com", Password: "pw", DisplayName: "First",
	})
	require.NoError(t, err)

	_, err = handler.Handle(ctx, RegisterAccountCommand{
		Email: "ZEN@example.com", Password: "pw", DisplayName: "Second",
	})
	assert.ErrorIs(t, err, account.ErrAccountAlreadyExists)
}

func TestAuthenticate_Success(t *testing.T) {
	ctx := context.Background()
	accounts := newFakeAccounts()
	register := NewRegisterAccountHandler(accounts, fakeHasher{}, fakeTokens{})
	authenticate := NewAuthenticateHandler(accounts, fakeHasher{}, fakeTokens{})

	reg, err := register.Handle(ctx, RegisterAccountCommand{
		Email: "zen@example.com", Password: "correct horse", DisplayName: "Zen",
	})
	require.NoError(t, err)

	res, err := authenticate.Handle(ctx, AuthenticateCommand{
		Email: "zen@example.com", Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, reg.Account.ID, res.Account.ID)
	assert.NotEmpty(t, res.Token)
}

func TestAuthenticate_CollapsesFailureModes(t *testing.T) {
	// Unknown email and wrong password are indistinguishable to the
	// caller; neither reveals whether the account exists.
	ctx := context.Background()
	accounts := newFakeAccounts()
	register := NewRegisterAccountHandler(accounts, fakeHasher{}, fakeTokens{})
	authenticate := NewAuthenticateHandler(accounts, fakeHasher{}, fakeTokens{})

	_, err := register.Handle(ctx, RegisterAccountCommand{
		Email: "zen@example.com", Password: "correct horse", DisplayName: "Zen",
	})
	require.NoError(t, err)

	_, err = authenticate.Handle(ctx, AuthenticateCommand{
		Email: "nobody@example.com", Password: "correct horse",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = authenticate.Handle(ctx, AuthenticateCommand{
		Email: "zen@example.com", Password: "wrong horse",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = authenticate.Handle(ctx, AuthenticateCommand{
		Email: "not-an-email", Password: "correct horse",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barzarena/backend/internal/auth"
	"github.com/barzarena/backend/internal/repos/accounts"
	"github.com/barzarena/backend/internal/services/wagering"
)

func TestLogin_LoadsBalanceAndHistory(t *testing.T) {
	ctx := context.Background()

	store := new(MockAccountStore)
	lg := new(MockLedger)
	authn := new(MockAuthenticator)
	svc := newTestService(store, lg, authn)

	account := &accounts.Account{ID: 7, Username: "samuel", BalanceMinor: 1000}
	history := []wagering.Wager{{AccountID: 7, Stake: 100, Outcome: wagering.OutcomeLoss}}

	authn.On("Authenticate", ctx, "samuel", "arena123").Return(account, nil)
	lg.On("ListForAccount", ctx, int64(7)).Return(history, nil)

	snap, err := svc.Login(ctx, "samuel", "arena123")

	require.NoError(t, err)
	assert.True(t, snap.LoggedIn)
	assert.Equal(t, int64(7), snap.AccountID)
	assert.Equal(t, "samuel", snap.Username)
	assert.Equal(t, int64(1000), snap.BalanceMinor)
	assert.True(t, svc.LoggedIn())

	authn.AssertExpectations(t)
	lg.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()

	store := new(MockAccountStore)
	lg := new(MockLedger)
	authn := new(MockAuthenticator)
	svc := newTestService(store, lg, authn)

	authn.On("Authenticate", ctx, "samuel", "wrong").Return(nil, auth.ErrInvalidCredentials)

	_, err := svc.Login(ctx, "samuel", "wrong")

	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.False(t, svc.LoggedIn())
	lg.AssertNotCalled(t, "ListForAccount")
}

func TestLogout_ClearsSessionOnly(t *testing.T) {
	ctx := context.Background()

	store := new(MockAccountStore)
	lg := new(MockLedger)
	authn := new(MockAuthenticator)
	svc := newTestService(store, lg, authn)

	authn.On("Authenticate", ctx, "samuel", "arena123").
		Return(&accounts.Account{ID: 7, Username: "samuel", BalanceMinor: 1000}, nil)
	lg.On("ListForAccount", ctx, int64(7)).Return([]wagering.Wager{}, nil)

	_, err := svc.Login(ctx, "samuel", "arena123")
	require.NoError(t, err)

	svc.Logout()

	assert.False(t, svc.LoggedIn())
	assert.Equal(t, Snapshot{}, svc.Current())

	// A second logout is harmless.
	svc.Logout()
	assert.False(t, svc.LoggedIn())

	// No durable mutation happened at any point.
	store.AssertNotCalled(t, "SetBalance")
	store.AssertNotCalled(t, "DecreaseBalance")
}

// Cache updates carry the commit sequence; an update from an earlier
// commit arriving after a later one must not roll the snapshot back.
func TestSetBalance_DropsOutOfOrderUpdates(t *testing.T) {
	store := new(MockAccountStore)
	lg := new(MockLedger)
	svc := loggedInService(t, store, lg, 1000)

	older := svc.nextSeq()
	newer := svc.nextSeq()

	svc.setBalance(newer, 7, 1500, nil)
	svc.setBalance(older, 7, 1200, nil)

	assert.Equal(t, int64(1500), svc.Current().BalanceMinor)

	// Replaying an already-applied sequence is also a no-op.
	svc.setBalance(newer, 7, 1200, nil)
	assert.Equal(t, int64(1500), svc.Current().BalanceMinor)
}

func TestSubscribe_ReceivesStateChanges(t *testing.T) {
	ctx := context.Background()

	store := new(MockAccountStore)
	lg := new(MockLedger)
	authn := new(MockAuthenticator)
	svc := newTestService(store, lg, authn)

	updates, cancel := svc.Subscribe()
	defer cancel()

	authn.On("Authenticate", ctx, "samuel", "arena123").
		Return(&accounts.Account{ID: 7, Username: "samuel", BalanceMinor: 1000}, nil)
	lg.On("ListForAccount", ctx, int64(7)).Return([]wagering.Wager{}, nil)

	_, err := svc.Login(ctx, "samuel", "arena123")
	require.NoError(t, err)

	snap := <-updates
	assert.True(t, snap.LoggedIn)
	assert.Equal(t, int64(1000), snap.BalanceMinor)

	svc.Logout()

	snap = <-updates
	assert.False(t, snap.LoggedIn)
}

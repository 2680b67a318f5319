package session

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"

	"github.com/barzarena/backend/internal/repos/accounts"
	"github.com/barzarena/backend/internal/repos/contests"
	"github.com/barzarena/backend/internal/services/wagering"
)

// passthroughTx runs the closure directly; repo mocks ignore the tx handle.
func passthroughTx(_ context.Context, fn func(*sql.Tx) error) error {
	return fn(nil)
}

func newTestService(store accounts.Store, lg *MockLedger, authn *MockAuthenticator) *Service {
	return &Service{
		runTx:    passthroughTx,
		accounts: store,
		ledger:   lg,
		catalog:  contests.ActiveBattles(),
		authn:    authn,
		subs:     make(map[uint64]chan Snapshot),
	}
}

type MockAccountStore struct{ mock.Mock }

func (m *MockAccountStore) CreateAccount(tx *sql.Tx, name string, initialBalance int64) (int64, error) {
	args := m.Called(tx, name, initialBalance)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountStore) GetByName(ctx context.Context, name string) (*accounts.Account, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

func (m *MockAccountStore) Exists(tx *sql.Tx, accountID int64) error {
	return m.Called(tx, accountID).Error(0)
}

func (m *MockAccountStore) GetBalance(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountStore) LockAndGetBalance(tx *sql.Tx, accountID int64) (int64, error) {
	args := m.Called(tx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountStore) SetBalance(tx *sql.Tx, accountID, newBalance int64) error {
	return m.Called(tx, accountID, newBalance).Error(0)
}

func (m *MockAccountStore) IncreaseBalance(tx *sql.Tx, accountID, amount int64) error {
	return m.Called(tx, accountID, amount).Error(0)
}

func (m *MockAccountStore) DecreaseBalance(tx *sql.Tx, accountID, amount int64) error {
	return m.Called(tx, accountID, amount).Error(0)
}

type MockLedger struct{ mock.Mock }

func (m *MockLedger) Append(tx *sql.Tx, w *wagering.Wager) error {
	return m.Called(tx, w).Error(0)
}

func (m *MockLedger) ListForAccount(ctx context.Context, accountID int64) ([]wagering.Wager, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]wagering.Wager), args.Error(1)
}

type MockAuthenticator struct{ mock.Mock }

func (m *MockAuthenticator) Authenticate(ctx context.Context, username, password string) (*accounts.Account, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Account), args.Error(1)
}

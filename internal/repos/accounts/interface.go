package accounts

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrDuplicateName     = errors.New("username already registered")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Account is the durable identity and balance record. Balance is in minor
// units (points); BalanceMinor never holds a floating representation.
type Account struct {
	ID           int64
	Username     string
	BalanceMinor int64
	CreatedAt    time.Time
}

// Store is a dumb balance store. It enforces no business policy beyond
// username uniqueness and the guarded decrease; stake checks belong to the
// resolver. Methods taking *sql.Tx participate in the caller's transaction,
// which is how per-account mutations get serialized (FOR UPDATE row lock).
type Store interface {
	CreateAccount(tx *sql.Tx, name string, initialBalance int64) (int64, error)
	GetByName(ctx context.Context, name string) (*Account, error)
	Exists(tx *sql.Tx, accountID int64) error

	GetBalance(ctx context.Context, accountID int64) (int64, error)
	LockAndGetBalance(tx *sql.Tx, accountID int64) (int64, error)
	SetBalance(tx *sql.Tx, accountID int64, newBalance int64) error
	IncreaseBalance(tx *sql.Tx, accountID int64, amount int64) error
	DecreaseBalance(tx *sql.Tx, accountID int64, amount int64) error
}

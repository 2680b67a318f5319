// Package auth is the credential collaborator of the session controller.
// The ledger core only depends on the Authenticator interface; the
// Postgres-backed implementation stores SHA-256 credential hashes and
// issues HS256 bearer tokens.
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/barzarena/backend/internal/infra/pgutils"
	"github.com/barzarena/backend/internal/repos/accounts"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Authenticator verifies credentials and returns the matching account.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*accounts.Account, error)
}

type Service struct {
	db             *sql.DB
	accounts       accounts.Store
	initialBalance int64
}

var _ Authenticator = (*Service)(nil)

func NewService(db *sql.DB, store accounts.Store, initialBalance int64) *Service {
	return &Service{
		db:             db,
		accounts:       store,
		initialBalance: initialBalance,
	}
}

// Register creates an account with the fixed initial grant and stores its
// credential, both in one transaction. A taken username maps to
// accounts.ErrDuplicateName.
func (s *Service) Register(ctx context.Context, username, password string) (int64, error) {
	if username == "" || password == "" {
		return 0, ErrInvalidCredentials
	}

	var accountID int64

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		id, err := s.accounts.CreateAccount(tx, username, s.initialBalance)
		if err != nil {
			return fmt.Errorf("create account: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO credentials (account_id, password_hash)
			VALUES ($1, $2)
		`, id, hashPassword(password))
		if err != nil {
			return fmt.Errorf("insert credential: %w", err)
		}

		accountID = id

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("register: %w", err)
	}

	return accountID, nil
}

// Authenticate checks username/password and returns the account snapshot.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*accounts.Account, error) {
	acc, err := s.accounts.GetByName(ctx, username)
	if err != nil {
		if errors.Is(err, accounts.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("look up account: %w", err)
	}

	var storedHash string

	err = s.db.QueryRowContext(ctx, `
		SELECT password_hash
		FROM credentials
		WHERE account_id = $1
	`, acc.ID).Scan(&storedHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("look up credential: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(storedHash), []byte(hashPassword(password))) != 1 {
		return nil, ErrInvalidCredentials
	}

	return acc, nil
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))

	return hex.EncodeToString(sum[:])
}

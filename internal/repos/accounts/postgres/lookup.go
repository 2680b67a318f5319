package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/barzarena/backend/internal/repos/accounts"
)

func (r *accountsRepo) GetByName(ctx context.Context, name string) (*accounts.Account, error) {
	var acc accounts.Account

	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, balance, created_at
		FROM accounts
		WHERE username = $1
	`, name).Scan(&acc.ID, &acc.Username, &acc.BalanceMinor, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accounts.ErrAccountNotFound
		}

		return nil, fmt.Errorf("get account by name: %w", err)
	}

	return &acc, nil
}

func (r *accountsRepo) Exists(tx *sql.Tx, accountID int64) error {
	var one int

	err := tx.QueryRow(`
		SELECT 1
		FROM accounts
		WHERE id = $1
	`, accountID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return accounts.ErrAccountNotFound
		}

		return fmt.Errorf("check account exists: %w", err)
	}

	return nil
}

package accounts

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/barzarena/backend/internal/repos/accounts"
)

// CreateAccount registers a new account with the initial grant. Username
// uniqueness is exact-match (case-sensitive, backed by the unique index).
func (r *accountsRepo) CreateAccount(tx *sql.Tx, name string, initialBalance int64) (int64, error) {
	var id int64

	err := tx.QueryRow(`
		INSERT INTO accounts (username, balance)
		VALUES ($1, $2)
		RETURNING id
	`, name, initialBalance).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return 0, accounts.ErrDuplicateName
		}

		return 0, fmt.Errorf("insert account: %w", err)
	}

	return id, nil
}

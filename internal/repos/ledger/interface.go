package ledger

import (
	"context"
	"database/sql"

	"github.com/barzarena/backend/internal/services/wagering"
)

// Ledger is the append-only history of resolved wagers. Entries are
// immutable once appended; there is no update or delete.
type Ledger interface {
	// Append inserts a resolved wager inside the caller's transaction.
	Append(tx *sql.Tx, wager *wagering.Wager) error

	// ListForAccount returns the account's wagers newest-first (resolution
	// time descending, ties broken by insertion order). No wagers is an
	// empty slice, not an error. Each call re-reads durable state, so two
	// calls with no intervening writes observe identical sequences.
	ListForAccount(ctx context.Context, accountID int64) ([]wagering.Wager, error)
}

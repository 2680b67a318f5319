package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/barzarena/backend/internal/repos/ledger"
	"github.com/barzarena/backend/internal/services/wagering"
)

var _ ledger.Ledger = (*ledgerRepo)(nil)

type ledgerRepo struct{ db *sql.DB }

func New(db *sql.DB) *ledgerRepo {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) Append(tx *sql.Tx, w *wagering.Wager) error {
	_, err := tx.Exec(`
		INSERT INTO wagers (id, account_id, contest_id, details, chosen_side, stake, outcome, payout_delta, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, w.ID, w.AccountID, w.ContestID, w.Details, w.ChosenSide, w.Stake, string(w.Outcome), w.PayoutDelta, w.PlacedAt)
	if err != nil {
		return fmt.Errorf("insert wager: %w", err)
	}

	return nil
}

func (r *ledgerRepo) ListForAccount(ctx context.Context, accountID int64) ([]wagering.Wager, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, account_id, contest_id, details, chosen_side, stake, outcome, payout_delta, placed_at
		FROM wagers
		WHERE account_id = $1
		ORDER BY placed_at DESC, seq DESC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("query wagers: %w", err)
	}
	defer rows.Close()

	wagers := []wagering.Wager{}

	for rows.Next() {
		var (
			w       wagering.Wager
			outcome string
		)

		err = rows.Scan(
			&w.ID, &w.AccountID, &w.ContestID, &w.Details,
			&w.ChosenSide, &w.Stake, &outcome, &w.PayoutDelta, &w.PlacedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan wager: %w", err)
		}

		w.Outcome = wagering.Outcome(outcome)
		wagers = append(wagers, w)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate wagers: %w", err)
	}

	return wagers, nil
}

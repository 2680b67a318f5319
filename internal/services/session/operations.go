package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/barzarena/backend/internal/repos/accounts"
	"github.com/barzarena/backend/internal/services/wagering"
)

// Recharge adds a positive amount to the logged-in account's balance:
//
// 1) Simulated payment processing (cancellable).
// 2) Lock account row (FOR UPDATE).
// 3) Increase balance, commit.
func (s *Service) Recharge(ctx context.Context, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	accountID, err := s.currentAccountID()
	if err != nil {
		return 0, err
	}

	err = s.wait(ctx)
	if err != nil {
		return 0, err
	}

	var (
		newBalance int64
		seq        uint64
	)

	err = s.runTx(ctx, func(tx *sql.Tx) error {
		balance, err := s.accounts.LockAndGetBalance(tx, accountID)
		if err != nil {
			return fmt.Errorf("lock and get balance: %w", err)
		}

		err = s.accounts.IncreaseBalance(tx, accountID, amount)
		if err != nil {
			return fmt.Errorf("increase balance: %w", err)
		}

		newBalance = balance + amount
		seq = s.nextSeq()

		return nil
	})
	if err != nil {
		return 0, classify(fmt.Errorf("recharge: %w", err))
	}

	s.setBalance(seq, accountID, newBalance, nil)

	return newBalance, nil
}

// PlaceWager resolves a stake against the contest's predetermined winner
// and commits the new balance together with the ledger entry. Both become
// observable at once or not at all:
//
// 1) Simulated processing (cancellable, nothing persisted yet).
// 2) Lock account row, read balance.
// 3) Pure resolution (win/loss, signed delta).
// 4) Persist balance AND append wager in the same transaction.
func (s *Service) PlaceWager(ctx context.Context, contestID int64, chosenSide string, stake int64) (*WagerReceipt, error) {
	accountID, err := s.currentAccountID()
	if err != nil {
		return nil, err
	}

	contest, err := s.catalog.GetByID(ctx, contestID)
	if err != nil {
		return nil, fmt.Errorf("look up contest: %w", err)
	}

	err = s.wait(ctx)
	if err != nil {
		return nil, err
	}

	var (
		wager      wagering.Wager
		resolution wagering.Resolution
		seq        uint64
	)

	err = s.runTx(ctx, func(tx *sql.Tx) error {
		balance, err := s.accounts.LockAndGetBalance(tx, accountID)
		if err != nil {
			return fmt.Errorf("lock and get balance: %w", err)
		}

		resolution, err = wagering.Resolve(contest, chosenSide, stake, balance)
		if err != nil {
			return fmt.Errorf("resolve: %w", err)
		}

		err = s.accounts.SetBalance(tx, accountID, resolution.NewBalance)
		if err != nil {
			return fmt.Errorf("set balance: %w", err)
		}

		wager = wagering.Wager{
			ID:          uuid.New(),
			AccountID:   accountID,
			ContestID:   contest.ID,
			Details:     contest.SideA + " vs " + contest.SideB,
			ChosenSide:  chosenSide,
			Stake:       stake,
			Outcome:     resolution.Outcome,
			PayoutDelta: resolution.PayoutDelta,
			PlacedAt:    time.Now().UTC(),
		}

		err = s.ledger.Append(tx, &wager)
		if err != nil {
			return fmt.Errorf("append wager: %w", err)
		}

		seq = s.nextSeq()

		return nil
	})
	if err != nil {
		return nil, classify(fmt.Errorf("place wager: %w", err))
	}

	s.setBalance(seq, accountID, resolution.NewBalance, &wager)

	return &WagerReceipt{
		Wager:      wager,
		Outcome:    resolution.Outcome,
		NewBalance: resolution.NewBalance,
	}, nil
}

// Checkout settles a cart total against the balance. Insufficient funds is
// (false, nil), not an error, so callers can render a message instead of
// handling a failure.
func (s *Service) Checkout(ctx context.Context, cartTotal int64) (bool, error) {
	if cartTotal <= 0 {
		return false, ErrInvalidAmount
	}

	accountID, err := s.currentAccountID()
	if err != nil {
		return false, err
	}

	var (
		newBalance int64
		seq        uint64
	)

	err = s.runTx(ctx, func(tx *sql.Tx) error {
		balance, err := s.accounts.LockAndGetBalance(tx, accountID)
		if err != nil {
			return fmt.Errorf("lock and get balance: %w", err)
		}

		err = s.accounts.DecreaseBalance(tx, accountID, cartTotal)
		if err != nil {
			return fmt.Errorf("decrease balance: %w", err)
		}

		newBalance = balance - cartTotal
		seq = s.nextSeq()

		return nil
	})
	if err != nil {
		if errors.Is(err, accounts.ErrInsufficientFunds) {
			return false, nil
		}

		return false, classify(fmt.Errorf("checkout: %w", err))
	}

	s.setBalance(seq, accountID, newBalance, nil)

	return true, nil
}

// History returns the logged-in account's wagers newest-first, straight
// from durable storage.
func (s *Service) History(ctx context.Context) ([]wagering.Wager, error) {
	accountID, err := s.currentAccountID()
	if err != nil {
		return nil, err
	}

	wagers, err := s.ledger.ListForAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: list wagers: %w", ErrPersistence, err)
	}

	return wagers, nil
}

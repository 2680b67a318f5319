package wagering

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/barzarena/backend/internal/repos/contests"
)

var (
	ErrInvalidStake        = errors.New("stake must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidSelection    = errors.New("chosen side is not a contestant")
)

// Outcome is a wager result. Pending exists only between creation and
// resolution; it is never persisted.
type Outcome string

const (
	OutcomeWin     Outcome = "WIN"
	OutcomeLoss    Outcome = "LOSS"
	OutcomePending Outcome = "PENDING"
)

// Wager is a resolved, immutable bet. Ownership passes to the ledger once
// resolved.
type Wager struct {
	ID          uuid.UUID
	AccountID   int64
	ContestID   int64
	Details     string
	ChosenSide  string
	Stake       int64
	Outcome     Outcome
	PayoutDelta int64
	PlacedAt    time.Time
}

// Resolution is the effect of a wager on a balance.
type Resolution struct {
	Outcome     Outcome
	PayoutDelta int64
	NewBalance  int64
}

// Resolve computes the outcome of staking on chosenSide against the
// contest's predetermined winner. It is a pure function: persistence of the
// new balance and the ledger entry belongs to the caller.
//
// A win credits 2*stake in total (the stake back plus winnings), so the net
// delta is +stake; a loss debits the stake. |PayoutDelta| == stake always.
//
// A chosenSide that matches neither contestant is a caller error, never a
// silent loss.
func Resolve(contest contests.Contest, chosenSide string, stake, currentBalance int64) (Resolution, error) {
	if stake <= 0 {
		return Resolution{}, ErrInvalidStake
	}

	if !contest.HasSide(chosenSide) {
		return Resolution{}, ErrInvalidSelection
	}

	if stake > currentBalance {
		return Resolution{}, ErrInsufficientBalance
	}

	outcome := OutcomeLoss
	delta := -stake

	if chosenSide == contest.Winner() {
		outcome = OutcomeWin
		delta = stake
	}

	return Resolution{
		Outcome:     outcome,
		PayoutDelta: delta,
		NewBalance:  currentBalance + delta,
	}, nil
}

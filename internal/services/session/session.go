// Package session owns the logged-in account view and serializes every
// balance-mutating operation behind one transaction boundary: lock the
// account row, mutate, persist balance, append the ledger entry.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/barzarena/backend/internal/auth"
	"github.com/barzarena/backend/internal/infra/pgutils"
	"github.com/barzarena/backend/internal/repos/accounts"
	"github.com/barzarena/backend/internal/repos/contests"
	"github.com/barzarena/backend/internal/repos/ledger"
	"github.com/barzarena/backend/internal/services/wagering"
)

var (
	ErrNotLoggedIn   = errors.New("no active session")
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrPersistence marks a failed commit, as opposed to an invalid
	// operation. The resolution itself is pure, so the caller may retry
	// the whole operation.
	ErrPersistence = errors.New("persistence failure")
)

// Snapshot is the immutable in-memory view of the current session. The
// zero value means logged out.
type Snapshot struct {
	LoggedIn     bool
	AccountID    int64
	Username     string
	BalanceMinor int64
}

// WagerReceipt is what a caller gets back from PlaceWager.
type WagerReceipt struct {
	Wager      wagering.Wager
	Outcome    wagering.Outcome
	NewBalance int64
}

// TxRunner runs fn inside a storage transaction, committing on nil.
type TxRunner func(ctx context.Context, fn func(*sql.Tx) error) error

// Service is the session controller. All mutations for the logged-in
// account run through runTx with a FOR UPDATE lock on the account row, so
// concurrent recharges, wagers and checkouts linearize per account.
type Service struct {
	runTx    TxRunner
	accounts accounts.Store
	ledger   ledger.Ledger
	catalog  contests.Catalog
	authn    auth.Authenticator

	// Simulated payment/wager processing time. Cancellation during the
	// delay leaves balance and ledger untouched; once the transaction
	// starts there is no cancellation.
	delay time.Duration

	// seq orders committed mutations against their cache updates: it is
	// taken inside the transaction, so the row lock makes seq order equal
	// commit order.
	seq atomic.Uint64

	mu         sync.RWMutex
	current    Snapshot
	history    []wagering.Wager
	appliedSeq uint64
	subs       map[uint64]chan Snapshot
	nextSub    uint64
}

func New(db *sql.DB, store accounts.Store, lg ledger.Ledger, catalog contests.Catalog, authn auth.Authenticator, processingDelay time.Duration) *Service {
	return &Service{
		runTx: func(ctx context.Context, fn func(*sql.Tx) error) error {
			return pgutils.WithTx(ctx, db, fn)
		},
		accounts: store,
		ledger:   lg,
		catalog:  catalog,
		authn:    authn,
		delay:    processingDelay,
		subs:     make(map[uint64]chan Snapshot),
	}
}

// Login verifies credentials through the auth collaborator and loads the
// account's balance and wager history into the session.
func (s *Service) Login(ctx context.Context, username, password string) (Snapshot, error) {
	acc, err := s.authn.Authenticate(ctx, username, password)
	if err != nil {
		return Snapshot{}, fmt.Errorf("authenticate: %w", err)
	}

	history, err := s.ledger.ListForAccount(ctx, acc.ID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: load history: %w", ErrPersistence, err)
	}

	snap := Snapshot{
		LoggedIn:     true,
		AccountID:    acc.ID,
		Username:     acc.Username,
		BalanceMinor: acc.BalanceMinor,
	}

	s.mu.Lock()
	s.current = snap
	s.history = history
	// Mutations committed before this login are stale for the new view.
	s.appliedSeq = s.nextSeq()
	s.mu.Unlock()

	s.notify(snap)

	return snap, nil
}

// Logout clears the in-memory session. It always succeeds and never
// touches durable state.
func (s *Service) Logout() {
	s.mu.Lock()
	s.current = Snapshot{}
	s.history = nil
	s.mu.Unlock()

	s.notify(Snapshot{})
}

// Current returns the session snapshot; the zero value when logged out.
func (s *Service) Current() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// LoggedIn reports whether a session is active.
func (s *Service) LoggedIn() bool {
	return s.Current().LoggedIn
}

// Subscribe returns a channel receiving session snapshots after every
// state change, plus a cancel func. Slow subscribers miss updates rather
// than block the session.
func (s *Service) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}

	return ch, cancel
}

func (s *Service) notify(snap Snapshot) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Service) currentAccountID() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.current.LoggedIn {
		return 0, ErrNotLoggedIn
	}

	return s.current.AccountID, nil
}

func (s *Service) nextSeq() uint64 {
	return s.seq.Add(1)
}

// setBalance refreshes the cached balance after a committed mutation. The
// session may have been logged out (or switched) meanwhile, or a later
// commit may already be cached; then the update is dropped, durable state
// already holds the truth.
func (s *Service) setBalance(seq uint64, accountID, newBalance int64, placed *wagering.Wager) {
	s.mu.Lock()

	if !s.current.LoggedIn || s.current.AccountID != accountID || seq <= s.appliedSeq {
		s.mu.Unlock()
		return
	}

	s.appliedSeq = seq
	s.current.BalanceMinor = newBalance
	if placed != nil {
		s.history = append([]wagering.Wager{*placed}, s.history...)
	}

	snap := s.current
	s.mu.Unlock()

	s.notify(snap)
}

// wait simulates the processing delay. A cancellation here happens before
// persistence, so no partial credit or debit can exist.
func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(s.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// domainErrs are the caller-visible, recoverable conditions. Anything else
// escaping a transaction is a persistence failure.
var domainErrs = []error{
	accounts.ErrAccountNotFound,
	accounts.ErrDuplicateName,
	accounts.ErrInsufficientFunds,
	wagering.ErrInvalidStake,
	wagering.ErrInsufficientBalance,
	wagering.ErrInvalidSelection,
	contests.ErrContestNotFound,
	ErrInvalidAmount,
	ErrNotLoggedIn,
	context.Canceled,
	context.DeadlineExceeded,
}

func classify(err error) error {
	if err == nil {
		return nil
	}

	for _, derr := range domainErrs {
		if errors.Is(err, derr) {
			return err
		}
	}

	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

package contests

import (
	"context"
	"errors"
	"fmt"
)

var ErrContestNotFound = errors.New("contest not found")

// Contest is a two-sided battle with a predetermined winner. The winner is
// unexported so it can never leak into a client-facing payload before
// resolution; resolution code reads it through Winner.
type Contest struct {
	ID    int64
	SideA string
	SideB string

	winner string
}

// New builds a Contest, enforcing that the predetermined winner is one of
// the two registered sides.
func New(id int64, sideA, sideB, winner string) (Contest, error) {
	if winner != sideA && winner != sideB {
		return Contest{}, fmt.Errorf("winner %q is neither %q nor %q", winner, sideA, sideB)
	}

	return Contest{ID: id, SideA: sideA, SideB: sideB, winner: winner}, nil
}

// Winner returns the predetermined winning side.
func (c Contest) Winner() string {
	return c.winner
}

// HasSide reports whether name exactly matches one of the contestants.
func (c Contest) HasSide(name string) bool {
	return name == c.SideA || name == c.SideB
}

// Catalog is a read-only contest provider. Contests are created by an
// external catalog source; the core never mutates them.
type Catalog interface {
	GetByID(ctx context.Context, id int64) (Contest, error)
	List(ctx context.Context) ([]Contest, error)
}

package contests

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNew_RejectsForeignWinner(t *testing.T) {
	t.Parallel()

	_, err := New(1, "Trueno", "Dani", "Wos")
	if err == nil {
		t.Fatal("expected error for winner outside the contest")
	}
}

func TestMemoryCatalog(t *testing.T) {
	t.Parallel()

	cat := ActiveBattles()
	ctx := context.Background()

	list, err := cat.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("want 3 contests, got %d", len(list))
	}

	c, err := cat.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if c.SideA != "Trueno" || c.SideB != "Dani" || c.Winner() != "Trueno" {
		t.Fatalf("unexpected contest: %+v winner=%s", c, c.Winner())
	}

	_, err = cat.GetByID(ctx, 99)
	if !errors.Is(err, ErrContestNotFound) {
		t.Fatalf("want ErrContestNotFound, got %v", err)
	}
}

// The predetermined winner must never reach a serialized payload.
func TestContest_WinnerNotMarshaled(t *testing.T) {
	t.Parallel()

	c, err := New(1, "Trueno", "Dani", "Trueno")
	if err != nil {
		t.Fatalf("new contest: %v", err)
	}

	raw, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if strings.Contains(strings.ToLower(string(raw)), "winner") {
		t.Fatalf("winner leaked into JSON: %s", raw)
	}
}

package main

import (
	"testing"

	"github.com/barzarena/backend/internal/infra/pgtestutil"
)

// The base migrations leave schema_migrations at their top version, so the
// seed source must use its own version table or its versions can never run.
func TestDevSeed_AppliesAfterBaseMigrations(t *testing.T) {
	t.Parallel()

	// NewTestDB applies all base migrations with the default version table,
	// exactly the state the DEV seed run starts from.
	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	if err := runMigrations(db, devFS, "test_data", seedMigrationsTable); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	var balance int64
	err := db.QueryRow(`SELECT balance FROM accounts WHERE username = 'samuel'`).Scan(&balance)
	if err != nil {
		t.Fatalf("demo account missing after seed: %v", err)
	}
	if balance != 50000 {
		t.Fatalf("demo balance: want 50000, got %d", balance)
	}

	var credentials int
	err = db.QueryRow(`
		SELECT count(*)
		FROM credentials c
		JOIN accounts a ON a.id = c.account_id
		WHERE a.username = 'samuel'
	`).Scan(&credentials)
	if err != nil {
		t.Fatalf("count credentials: %v", err)
	}
	if credentials != 1 {
		t.Fatalf("want 1 demo credential, got %d", credentials)
	}

	// A second run is a no-op, not a duplicate insert.
	if err := runMigrations(db, devFS, "test_data", seedMigrationsTable); err != nil {
		t.Fatalf("rerun: %v", err)
	}

	var count int
	err = db.QueryRow(`SELECT count(*) FROM accounts WHERE username = 'samuel'`).Scan(&count)
	if err != nil {
		t.Fatalf("count demo accounts: %v", err)
	}
	if count != 1 {
		t.Fatalf("want 1 demo account, got %d", count)
	}
}

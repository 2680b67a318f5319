package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/barzarena/backend/internal/api"
	"github.com/barzarena/backend/internal/auth"
	"github.com/barzarena/backend/internal/infra/logging"
	"github.com/barzarena/backend/internal/infra/pgutils"
	"github.com/barzarena/backend/internal/repos/accounts"
	pgaccounts "github.com/barzarena/backend/internal/repos/accounts/postgres"
	"github.com/barzarena/backend/internal/repos/contests"
	pgledger "github.com/barzarena/backend/internal/repos/ledger/postgres"
	"github.com/barzarena/backend/internal/services/session"
	"github.com/barzarena/backend/pkg/envconf"
	"github.com/barzarena/backend/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	dbConns, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		slog.Info("Close database")

		return dbConns.Close()
	})

	// --- Core wiring ---
	var accountStore accounts.Store = pgaccounts.New(dbConns)
	ledgerRepo := pgledger.New(dbConns)
	catalog := contests.ActiveBattles()

	authSvc := auth.NewService(dbConns, accountStore, cfg.Arena.InitialBalance)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	sess := session.New(dbConns, accountStore, ledgerRepo, catalog, authSvc, cfg.Arena.ProcessingDelay)

	// --- HTTP server ---
	router := api.NewRouter(sess, authSvc, tokens, catalog)
	srv := api.NewServer(cfg.Port, router)

	// Register HTTP server graceful shutdown
	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}

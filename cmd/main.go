package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tinoosan/fintrack/internal/config"
	httpapi "github.com/tinoosan/fintrack/internal/httpapi/v1"
	"github.com/tinoosan/fintrack/internal/service/account"
	"github.com/tinoosan/fintrack/internal/service/applock"
	"github.com/tinoosan/fintrack/internal/service/backup"
	"github.com/tinoosan/fintrack/internal/service/balance"
	"github.com/tinoosan/fintrack/internal/service/category"
	"github.com/tinoosan/fintrack/internal/service/demo"
	"github.com/tinoosan/fintrack/internal/service/report"
	"github.com/tinoosan/fintrack/internal/service/settings"
	"github.com/tinoosan/fintrack/internal/service/transaction"
	"github.com/tinoosan/fintrack/internal/storage/memory"
	pgstore "github.com/tinoosan/fintrack/internal/storage/postgres"
)

// store is everything the services need from a storage backend.
// Both the memory and the Postgres store satisfy it.
type store interface {
	transaction.Repo
	transaction.Writer
	account.Repo
	account.Writer
	category.Store
	settings.Repo
	backup.Store
	demo.Store
	applock.Store
	httpapi.ReadyChecker
}

func main() {
	issue := flag.String("issue-token", "", "print a bearer token for the given subject and exit")
	ttl := flag.Duration("token-ttl", 24*time.Hour, "lifetime of a token printed by -issue-token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := cfg.Logger()
	slog.SetDefault(logger)

	if *issue != "" {
		if cfg.JWTSecret == "" {
			logger.Error("JWT_HS256_SECRET is not set")
			os.Exit(1)
		}
		tok, err := httpapi.IssueToken(httpapi.AuthConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, *issue, *ttl)
		if err != nil {
			logger.Error("issue token failed", "err", err)
			os.Exit(1)
		}
		fmt.Println(tok)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st store
	var closeFn func()
	if cfg.DatabaseURL != "" {
		pg, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		st, closeFn = pg, pg.Close
		logger.Info("storage backend: postgres")
	} else {
		st = memory.New()
		logger.Info("storage backend: memory")
	}

	deps, err := buildDeps(ctx, cfg, st, logger)
	if err != nil {
		logger.Error("startup failed", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.New(deps).Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("fintrack listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

// buildDeps wires the services over st and seeds the defaults when configured.
func buildDeps(ctx context.Context, cfg config.Config, st store, logger *slog.Logger) (httpapi.Deps, error) {
	editor := transaction.New(st, st, transaction.WithLogger(logger))
	cats := category.New(st)
	accts := account.New(st, st)
	sets := settings.New(st)

	if cfg.SeedDefaults {
		if _, err := cats.EnsureDefaults(ctx); err != nil {
			return httpapi.Deps{}, fmt.Errorf("seed categories: %w", err)
		}
		if _, err := accts.EnsureDefaults(ctx); err != nil {
			return httpapi.Deps{}, fmt.Errorf("seed payment methods: %w", err)
		}
		n, err := accts.RepairIcons(ctx)
		if err != nil {
			return httpapi.Deps{}, fmt.Errorf("repair icons: %w", err)
		}
		if n > 0 {
			logger.Info("repaired payment method icons", "count", n)
		}
	}

	deps := httpapi.Deps{
		Transactions: editor,
		Accounts:     accts,
		Balances:     balance.New(st),
		Categories:   cats,
		Settings:     sets,
		Reports:      report.New(st, cats, sets),
		Backup:       backup.New(st, editor, cats, accts, backup.WithLogger(logger)),
		Demo:         demo.New(st, editor, demo.WithLogger(logger)),
		AppLock:      applock.New(st),
		Ready:        st,
		Logger:       logger,
	}
	if cfg.JWTSecret != "" {
		deps.Auth = &httpapi.AuthConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}
		logger.Info("bearer token auth enabled")
	}
	return deps, nil
}

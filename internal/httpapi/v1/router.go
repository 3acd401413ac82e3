// Package v1 wires the HTTP surface of the finance tracker.
// It keeps handlers thin, delegating business rules to the service layer.
package v1

import (
    "context"
    "log/slog"
    "net/http"
    "time"

    chi "github.com/go-chi/chi/v5"
    chimw "github.com/go-chi/chi/v5/middleware"
    "github.com/tinoosan/fintrack/internal/service/account"
    "github.com/tinoosan/fintrack/internal/service/applock"
    "github.com/tinoosan/fintrack/internal/service/backup"
    "github.com/tinoosan/fintrack/internal/service/balance"
    "github.com/tinoosan/fintrack/internal/service/category"
    "github.com/tinoosan/fintrack/internal/service/demo"
    "github.com/tinoosan/fintrack/internal/service/report"
    "github.com/tinoosan/fintrack/internal/service/settings"
    "github.com/tinoosan/fintrack/internal/service/transaction"
)

// ReadyChecker is optionally implemented by stores to indicate readiness.
type ReadyChecker interface {
    Ready(ctx context.Context) error
}

// Deps are the services the API delegates to. Ready, Auth and Now are optional.
type Deps struct {
    Transactions transaction.Service
    Accounts     account.Service
    Balances     balance.Service
    Categories   category.Service
    Settings     settings.Service
    Reports      report.Service
    Backup       backup.Service
    // Demo and AppLock add their routes when set.
    Demo         demo.Service
    AppLock      applock.Service
    Ready        ReadyChecker
    // Auth enables bearer token checks when non-nil.
    Auth   *AuthConfig
    Logger *slog.Logger
    Now    func() time.Time
}

// Server wires handlers and middleware using Chi.
type Server struct {
    txs      transaction.Service
    accounts account.Service
    balances balance.Service
    cats     category.Service
    settings settings.Service
    reports  report.Service
    backup   backup.Service
    demo     demo.Service
    lock     applock.Service
    ready    ReadyChecker
    idem     *idempotencyStore
    now      func() time.Time
    log      *slog.Logger
    rt       *chi.Mux
}

// New constructs the HTTP server with routes and middleware.
// The logger is used by request logging and panic recovery.
func New(d Deps) *Server {
    logger := d.Logger
    if logger == nil { logger = slog.Default() }
    now := d.Now
    if now == nil { now = time.Now }

    r := chi.NewRouter()
    r.Use(chimw.RequestID)
    r.Use(requestLogger(logger))
    r.Use(recoverer(logger))
    r.Use(metricsMiddleware)
    if d.Auth != nil { r.Use(authJWT(*d.Auth)) }

    s := &Server{
        txs:      d.Transactions,
        accounts: d.Accounts,
        balances: d.Balances,
        cats:     d.Categories,
        settings: d.Settings,
        reports:  d.Reports,
        backup:   d.Backup,
        demo:     d.Demo,
        lock:     d.AppLock,
        ready:    d.Ready,
        idem:     newIdempotencyStore(idempotencyCapacity),
        now:      now,
        log:      logger,
        rt:       r,
    }
    s.routes()
    return s
}

// Handler exposes the configured http.Handler.
func (s *Server) Handler() http.Handler { return s.rt }

// routes declares the public HTTP API endpoints and attaches any per-route middleware.
func (s *Server) routes() {
    // Transactions
    s.rt.With(s.validateListTransactions()).Get("/v1/transactions", s.listTransactions)
    s.rt.With(s.liveOnly, s.idempotent, s.validateTransaction()).Post("/v1/transactions", s.postTransaction)
    s.rt.Get("/v1/transactions/recent", s.recentTransactions)
    s.rt.Get("/v1/transactions/{id}", s.getTransaction)
    s.rt.With(s.liveOnly, s.validateTransaction()).Put("/v1/transactions/{id}", s.putTransaction)
    s.rt.With(s.liveOnly).Delete("/v1/transactions/{id}", s.deleteTransaction)
    // Payment methods (accounts)
    s.rt.Get("/v1/accounts", s.listAccounts)
    s.rt.With(s.validateAccount()).Post("/v1/accounts", s.postAccount)
    s.rt.Get("/v1/accounts/balances", s.listAccountBalances)
    s.rt.Get("/v1/accounts/{id}", s.getAccount)
    s.rt.Get("/v1/accounts/{id}/balance", s.getAccountBalance)
    s.rt.With(s.validateAccount()).Put("/v1/accounts/{id}", s.putAccount)
    s.rt.Delete("/v1/accounts/{id}", s.deleteAccount)
    // Categories
    s.rt.Get("/v1/categories", s.listCategories)
    s.rt.With(s.validateCategory()).Post("/v1/categories", s.postCategory)
    s.rt.Get("/v1/categories/{id}", s.getCategory)
    s.rt.With(s.validateCategory()).Put("/v1/categories/{id}", s.putCategory)
    s.rt.Delete("/v1/categories/{id}", s.deleteCategory)
    // Settings
    s.rt.Get("/v1/settings", s.getSettings)
    s.rt.Patch("/v1/settings", s.patchSettings)
    s.rt.Put("/v1/settings/{key}", s.putSetting)
    // Reports
    s.rt.Get("/v1/reports/summary", s.getSummary)
    s.rt.Get("/v1/reports/budget", s.getBudget)
    s.rt.Get("/v1/reports/analysis", s.getAnalysis)
    s.rt.Get("/v1/reports/insights", s.getInsights)
    s.rt.Get("/v1/reports/balances", s.getBalancesReport)
    // Backup, export and reset
    s.rt.Get("/v1/backup", s.exportBackup)
    s.rt.With(s.liveOnly).Post("/v1/backup", s.importBackup)
    s.rt.Get("/v1/export/transactions.csv", s.exportCSV)
    s.rt.Get("/v1/export/transactions.xlsx", s.exportXLSX)
    s.rt.With(s.liveOnly).Post("/v1/reset", s.reset)
    // Demo mode and app lock
    if s.demo != nil {
        s.rt.Get("/v1/demo", s.getDemo)
        s.rt.Post("/v1/demo", s.enableDemo)
        s.rt.Delete("/v1/demo", s.disableDemo)
    }
    if s.lock != nil {
        s.rt.Get("/v1/applock", s.getAppLock)
        s.rt.Patch("/v1/applock", s.patchAppLock)
        s.rt.Put("/v1/applock/pin", s.putPIN)
        s.rt.Delete("/v1/applock/pin", s.forgetPIN)
        s.rt.Post("/v1/applock/verify", s.verifyPIN)
    }
    // Dictionary
    s.rt.Get("/v1/dictionary/categories", s.getCategoryDictionary)
    s.rt.Get("/v1/dictionary/payment-methods", s.getPaymentMethodDictionary)
    // Health and metrics (unversioned)
    s.rt.Get("/healthz", s.healthz)
    s.rt.Get("/readyz", s.readyz)
    s.rt.Handle("/metrics", metricsHandler())
}

// Package transaction implements the transaction editor: validation, transfer
// solvency and commit of create/update/delete against the ledger store.
package transaction

import (
    "context"
    "fmt"
    "log/slog"
    "strings"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"
    "github.com/tinoosan/fintrack/internal/errs"
    "github.com/tinoosan/fintrack/internal/ledger"
    "github.com/tinoosan/fintrack/internal/service/balance"
    "github.com/tinoosan/fintrack/internal/slug"
)

type Repo interface {
    ListTransactions(ctx context.Context) ([]ledger.Transaction, error)
    GetTransaction(ctx context.Context, id uuid.UUID) (ledger.Transaction, error)
    ListAccounts(ctx context.Context) ([]ledger.Account, error)
}

type Writer interface {
    CreateTransaction(ctx context.Context, t ledger.Transaction) (ledger.Transaction, error)
    UpdateTransaction(ctx context.Context, t ledger.Transaction) (ledger.Transaction, error)
    DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// Draft is the unvalidated form input for a create or an edit.
// Amount stays textual so a missing or non-numeric value can be told apart from zero.
type Draft struct {
    Type          ledger.TransactionType
    Amount        string
    Category      string
    PaymentMethod string
    TransferFrom  string
    TransferTo    string
    Date          time.Time
    Note          string
}

type Service interface {
    // Submit validates d and commits it. A zero editingID creates a new record;
    // otherwise the record with that id is replaced in full.
    Submit(ctx context.Context, d Draft, editingID uuid.UUID) (ledger.Transaction, error)
    Delete(ctx context.Context, id uuid.UUID) error
    Get(ctx context.Context, id uuid.UUID) (ledger.Transaction, error)
    List(ctx context.Context, q Query) ([]ledger.Transaction, error)
    Recent(ctx context.Context, limit int) ([]ledger.Transaction, error)
    // Exclusive runs fn while holding the editor's write lock.
    Exclusive(ctx context.Context, fn func(ctx context.Context) error) error
}

type Option func(*service)

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option { return func(s *service) { s.now = now } }

// WithLogger sets the logger used for rejections and commits.
func WithLogger(l *slog.Logger) Option { return func(s *service) { s.log = l } }

type service struct {
    repo   Repo
    writer Writer
    now    func() time.Time
    log    *slog.Logger
    // mu serializes every write so the solvency check and the commit it guards
    // observe the same ledger.
    mu sync.Mutex
}

func New(repo Repo, writer Writer, opts ...Option) Service {
    s := &service{repo: repo, writer: writer, now: time.Now, log: slog.Default()}
    for _, o := range opts { o(s) }
    return s
}

func (s *service) Exclusive(ctx context.Context, fn func(ctx context.Context) error) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    return fn(ctx)
}

func (s *service) Submit(ctx context.Context, d Draft, editingID uuid.UUID) (ledger.Transaction, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    op := "create"
    if editingID != uuid.Nil { op = "update" }
    t, err := s.validateLocked(ctx, d, editingID)
    if err != nil {
        rejectedTotal.WithLabelValues(rejectReason(err)).Inc()
        s.log.Debug("transaction rejected", "op", op, "type", string(d.Type), "err", err)
        return ledger.Transaction{}, err
    }

    var out ledger.Transaction
    if editingID != uuid.Nil {
        out, err = s.writer.UpdateTransaction(ctx, t)
    } else {
        out, err = s.writer.CreateTransaction(ctx, t)
    }
    if err != nil {
        s.log.Error("transaction commit failed", "op", op, "id", t.ID.String(), "err", err)
        return ledger.Transaction{}, err
    }
    committedTotal.WithLabelValues(string(out.Type), op).Inc()
    return out, nil
}

// validateLocked applies the editor rules in order and returns the record to commit.
func (s *service) validateLocked(ctx context.Context, d Draft, editingID uuid.UUID) (ledger.Transaction, error) {
    amount, err := parseAmount(d.Amount)
    if err != nil { return ledger.Transaction{}, err }
    if !d.Type.Valid() {
        return ledger.Transaction{}, fmt.Errorf("type %q: %w", d.Type, errs.ErrInvalidType)
    }

    var existing ledger.Transaction
    if editingID != uuid.Nil {
        existing, err = s.repo.GetTransaction(ctx, editingID)
        if err != nil { return ledger.Transaction{}, err }
    }

    accounts, err := s.repo.ListAccounts(ctx)
    if err != nil { return ledger.Transaction{}, err }

    t := ledger.Transaction{
        Type:   d.Type,
        Amount: amount,
        Date:   ledger.DateOf(d.Date),
        Note:   strings.TrimSpace(d.Note),
    }
    if d.Date.IsZero() { t.Date = ledger.DateOf(s.now()) }

    switch d.Type {
    case ledger.TransactionIncome, ledger.TransactionExpense:
        category := strings.TrimSpace(d.Category)
        method := strings.TrimSpace(d.PaymentMethod)
        if category == "" || method == "" || ledger.IsSentinel(category) || ledger.IsSentinel(method) {
            return ledger.Transaction{}, errs.ErrMissingCategoryOrPaymentMethod
        }
        t.Category = category
        t.PaymentMethodID, t.PaymentMethod = resolve(accounts, method)
    case ledger.TransactionTransfer:
        from := strings.TrimSpace(d.TransferFrom)
        to := strings.TrimSpace(d.TransferTo)
        if from == "" || to == "" || ledger.IsSentinel(from) || ledger.IsSentinel(to) {
            return ledger.Transaction{}, errs.ErrMissingTransferAccount
        }
        t.TransferFromID, t.TransferFrom = resolve(accounts, from)
        t.TransferToID, t.TransferTo = resolve(accounts, to)
        if sameAccount(t.TransferFromID, t.TransferFrom, t.TransferToID, t.TransferTo) {
            return ledger.Transaction{}, errs.ErrSameAccountTransfer
        }
        all, err := s.repo.ListTransactions(ctx)
        if err != nil { return ledger.Transaction{}, err }
        source := balance.AccountBalance(balance.Ref{ID: t.TransferFromID, Name: t.TransferFrom}, all, editingID)
        if !source.IsPositive() {
            return ledger.Transaction{}, fmt.Errorf("no funds available in %s (balance %s): %w", t.TransferFrom, source.String(), errs.ErrInsufficientFunds)
        }
        if amount.GreaterThan(source) {
            return ledger.Transaction{}, fmt.Errorf("insufficient funds in %s, available %s: %w", t.TransferFrom, source.String(), errs.ErrInsufficientFunds)
        }
    }

    if editingID != uuid.Nil {
        t.ID = existing.ID
        t.CreatedAt = existing.CreatedAt
    } else {
        t.ID = uuid.New()
        t.CreatedAt = s.now().UTC()
    }
    return t, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    t, err := s.repo.GetTransaction(ctx, id)
    if err != nil { return err }
    if err := s.writer.DeleteTransaction(ctx, id); err != nil { return err }
    committedTotal.WithLabelValues(string(t.Type), "delete").Inc()
    return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
    return s.repo.GetTransaction(ctx, id)
}

// parseAmount rejects missing, non-numeric, out-of-range, zero and negative amounts.
func parseAmount(raw string) (decimal.Decimal, error) {
    raw = strings.TrimSpace(raw)
    if raw == "" { return decimal.Zero, fmt.Errorf("amount is required: %w", errs.ErrInvalidAmount) }
    amount, err := ledger.ParseAmount(raw)
    if err != nil { return decimal.Zero, fmt.Errorf("amount: %v: %w", err, errs.ErrInvalidAmount) }
    if !amount.IsPositive() { return decimal.Zero, fmt.Errorf("amount must be > 0: %w", errs.ErrInvalidAmount) }
    return amount, nil
}

// resolve maps a submitted account name to the registered account, returning its id
// and canonical name. Unknown names are kept as-is with a zero id.
func resolve(accounts []ledger.Account, name string) (uuid.UUID, string) {
    for _, a := range accounts {
        if a.Name == name { return a.ID, a.Name }
    }
    for _, a := range accounts {
        if slug.Equal(a.Name, name) { return a.ID, a.Name }
    }
    return uuid.Nil, name
}

func sameAccount(fromID uuid.UUID, from string, toID uuid.UUID, to string) bool {
    if fromID != uuid.Nil && toID != uuid.Nil { return fromID == toID }
    return from == to
}

func rejectReason(err error) string {
    if code := errs.Code(err); code != "" { return code }
    return "error"
}

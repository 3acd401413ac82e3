// Package demo swaps the user's transactions for a sample ledger and back.
//
// Enabling saves the real transactions, monthly budget and user name in device
// state, then replaces them with sample data dated relative to today. Disabling
// puts the saved data back. Categories and payment methods are not touched.
package demo

import (
    "bytes"
    "context"
    "fmt"
    "log/slog"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"

    "github.com/tinoosan/fintrack/internal/errs"
    "github.com/tinoosan/fintrack/internal/ledger"
    "github.com/tinoosan/fintrack/internal/meta"
    "github.com/tinoosan/fintrack/internal/service/backup"
    "github.com/tinoosan/fintrack/internal/slug"
)

const (
    keySince = "demo.since"
    keySaved = "demo.saved"

    Budget   = "40000"
    UserName = "Demo User"
)

// savedSettings are the settings demo mode overrides and restores.
var savedSettings = []string{ledger.SettingMonthlyBudget, ledger.SettingUserName}

type Store interface {
    backup.Store
    State(ctx context.Context, key string) (string, bool, error)
    PutState(ctx context.Context, key, value string) error
    DeleteState(ctx context.Context, key string) error
}

type Status struct {
    Active bool       `json:"active"`
    Since  *time.Time `json:"since,omitempty"`
}

type Service interface {
    Status(ctx context.Context) (Status, error)
    Active(ctx context.Context) (bool, error)
    Enable(ctx context.Context) (Status, error)
    Disable(ctx context.Context) error
}

type Option func(*service)

func WithClock(now func() time.Time) Option { return func(s *service) { s.now = now } }

func WithLogger(l *slog.Logger) Option { return func(s *service) { s.log = l } }

type service struct {
    store Store
    lock  backup.Locker
    now   func() time.Time
    log   *slog.Logger
}

// New builds the service. lock is the transaction editor, so a swap never
// interleaves with an edit.
func New(store Store, lock backup.Locker, opts ...Option) Service {
    s := &service{store: store, lock: lock, now: time.Now, log: slog.Default()}
    for _, o := range opts { o(s) }
    return s
}

func (s *service) Status(ctx context.Context) (Status, error) {
    raw, ok, err := s.store.State(ctx, keySince)
    if err != nil || !ok { return Status{}, err }
    st := Status{Active: true}
    if since, err := time.Parse(time.RFC3339, raw); err == nil { st.Since = &since }
    return st, nil
}

func (s *service) Active(ctx context.Context) (bool, error) {
    _, ok, err := s.store.State(ctx, keySince)
    return ok, err
}

func (s *service) Enable(ctx context.Context) (Status, error) {
    now := s.now().UTC()
    err := s.lock.Exclusive(ctx, func(ctx context.Context) error {
        active, err := s.Active(ctx)
        if err != nil { return err }
        if active { return fmt.Errorf("demo mode is already on: %w", errs.ErrConflict) }
        snap, err := s.store.Snapshot(ctx)
        if err != nil { return err }

        keep := ledger.Dataset{Transactions: snap.Transactions, Settings: meta.New(nil)}
        for _, k := range savedSettings {
            if v, ok := snap.Settings[k]; ok { keep.Settings[k] = v }
        }
        var buf bytes.Buffer
        if err := (backup.JSONCodec{}).Encode(&buf, backup.ToDocument(keep, now)); err != nil { return err }
        if err := s.store.PutState(ctx, keySaved, buf.String()); err != nil { return err }
        if err := s.store.PutState(ctx, keySince, now.Format(time.RFC3339)); err != nil { return err }

        sample := snap
        sample.Transactions = Transactions(snap.PaymentMethods, now)
        sample.Settings = snap.Settings.Clone()
        sample.Settings[ledger.SettingMonthlyBudget] = Budget
        sample.Settings[ledger.SettingUserName] = UserName
        if err := s.store.Replace(ctx, sample); err != nil {
            _ = s.store.DeleteState(ctx, keySince)
            _ = s.store.DeleteState(ctx, keySaved)
            return err
        }
        s.log.Info("demo mode enabled", "saved_transactions", len(snap.Transactions))
        return nil
    })
    if err != nil { return Status{}, err }
    return Status{Active: true, Since: &now}, nil
}

func (s *service) Disable(ctx context.Context) error {
    return s.lock.Exclusive(ctx, func(ctx context.Context) error {
        active, err := s.Active(ctx)
        if err != nil { return err }
        if !active { return fmt.Errorf("demo mode is off: %w", errs.ErrConflict) }
        snap, err := s.store.Snapshot(ctx)
        if err != nil { return err }

        restored := snap
        restored.Transactions = nil
        restored.Settings = snap.Settings.Clone()
        for _, k := range savedSettings { delete(restored.Settings, k) }
        raw, ok, err := s.store.State(ctx, keySaved)
        if err != nil { return err }
        if ok {
            doc, err := (backup.JSONCodec{}).Decode(strings.NewReader(raw))
            if err != nil { return fmt.Errorf("saved data: %w", err) }
            saved, err := backup.FromDocument(doc)
            if err != nil { return fmt.Errorf("saved data: %w", err) }
            restored.Transactions = saved.Transactions
            for k, v := range saved.Settings { restored.Settings[k] = v }
        }
        if err := s.store.Replace(ctx, restored); err != nil { return err }
        if err := s.store.DeleteState(ctx, keySaved); err != nil { return err }
        if err := s.store.DeleteState(ctx, keySince); err != nil { return err }
        s.log.Info("demo mode disabled", "restored_transactions", len(restored.Transactions))
        return nil
    })
}

type sampleTx struct {
    daysAgo int
    typ     ledger.TransactionType
    amount  int64
    cat     string
    account string
    note    string
}

var samples = []sampleTx{
    {5, ledger.TransactionIncome, 50000, "Salary", "Bank", "Monthly salary"},
    {3, ledger.TransactionIncome, 15000, "Freelance", "Bank", "Web design project"},
    {0, ledger.TransactionExpense, 350, "Food", "Cash", "Lunch at restaurant"},
    {0, ledger.TransactionExpense, 120, "Transport", "Card", "Uber ride"},
    {1, ledger.TransactionExpense, 1200, "Shopping", "Card", "Clothes shopping"},
    {1, ledger.TransactionExpense, 850, "Food", "Cash", "Grocery shopping"},
    {2, ledger.TransactionExpense, 2500, "Bills", "Bank", "Electricity & water bills"},
    {2, ledger.TransactionExpense, 450, "Entertainment", "Card", "Movie tickets"},
    {3, ledger.TransactionExpense, 680, "Food", "Mobile Banking", "Dinner with friends"},
    {4, ledger.TransactionExpense, 200, "Transport", "Cash", "Taxi fare"},
    {4, ledger.TransactionExpense, 520, "Food", "Card", "Restaurant"},
    {5, ledger.TransactionExpense, 3500, "Shopping", "Card", "New laptop accessories"},
    {5, ledger.TransactionExpense, 800, "Medical", "Cash", "Medical checkup"},
}

// Transactions builds the sample ledger for now, linking payment methods to
// accounts by name where one exists.
func Transactions(accounts []ledger.Account, now time.Time) []ledger.Transaction {
    today := ledger.DateOf(now)
    out := make([]ledger.Transaction, 0, len(samples))
    for i, x := range samples {
        name, id := x.account, uuid.Nil
        for _, a := range accounts {
            if slug.Equal(a.Name, x.account) { name, id = a.Name, a.ID; break }
        }
        date := today.AddDate(0, 0, -x.daysAgo)
        created := date.Add(time.Duration(i) * time.Minute)
        if x.daysAgo == 0 { created = now.Add(-time.Duration(i) * time.Hour) }
        out = append(out, ledger.Transaction{
            ID:              uuid.New(),
            Type:            x.typ,
            Amount:          decimal.NewFromInt(x.amount),
            Category:        x.cat,
            PaymentMethod:   name,
            PaymentMethodID: id,
            Date:            date,
            CreatedAt:       created.UTC(),
            Note:            x.note,
        })
    }
    return out
}

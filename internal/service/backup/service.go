// Package backup exports the whole store as one document, restores it wholesale
// and resets the store to its seeded defaults.
package backup

import (
    "context"
    "fmt"
    "log/slog"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/tinoosan/fintrack/internal/errs"
    "github.com/tinoosan/fintrack/internal/ledger"
    "github.com/tinoosan/fintrack/internal/meta"
    "github.com/tinoosan/fintrack/internal/service/settings"
)

type Store interface {
    Snapshot(ctx context.Context) (ledger.Dataset, error)
    Replace(ctx context.Context, d ledger.Dataset) error
}

// Locker serializes restore and reset with transaction edits.
type Locker interface {
    Exclusive(ctx context.Context, fn func(ctx context.Context) error) error
}

type CategorySeeder interface {
    EnsureDefaults(ctx context.Context) ([]ledger.Category, error)
    Invalidate()
}

type AccountSeeder interface {
    EnsureDefaults(ctx context.Context) ([]ledger.Account, error)
}

// Result counts what a restore wrote.
type Result struct {
    Transactions   int `json:"transactions"`
    Categories     int `json:"categories"`
    PaymentMethods int `json:"paymentMethods"`
    Settings       int `json:"settings"`
}

type Service interface {
    Export(ctx context.Context) (Document, error)
    // Import validates d completely, then replaces the store content with it.
    Import(ctx context.Context, d Document) (Result, error)
    // Reset clears everything and re-seeds default categories and payment methods.
    Reset(ctx context.Context) error
    Transactions(ctx context.Context) ([]ledger.Transaction, error)
}

type Option func(*service)

func WithClock(now func() time.Time) Option { return func(s *service) { s.now = now } }

func WithLogger(l *slog.Logger) Option { return func(s *service) { s.log = l } }

type service struct {
    store      Store
    lock       Locker
    categories CategorySeeder
    accounts   AccountSeeder
    now        func() time.Time
    log        *slog.Logger
}

func New(store Store, lock Locker, categories CategorySeeder, accounts AccountSeeder, opts ...Option) Service {
    s := &service{store: store, lock: lock, categories: categories, accounts: accounts, now: time.Now, log: slog.Default()}
    for _, o := range opts { o(s) }
    return s
}

func (s *service) Transactions(ctx context.Context) ([]ledger.Transaction, error) {
    d, err := s.store.Snapshot(ctx)
    if err != nil { return nil, err }
    return d.Transactions, nil
}

func (s *service) Export(ctx context.Context) (Document, error) {
    d, err := s.store.Snapshot(ctx)
    if err != nil { return Document{}, err }
    return ToDocument(d, s.now().UTC()), nil
}

func (s *service) Import(ctx context.Context, doc Document) (Result, error) {
    d, err := FromDocument(doc)
    if err != nil { return Result{}, err }
    err = s.lock.Exclusive(ctx, func(ctx context.Context) error {
        defer s.categories.Invalidate()
        return s.store.Replace(ctx, d)
    })
    if err != nil { return Result{}, err }
    res := Result{Transactions: len(d.Transactions), Categories: len(d.Categories), PaymentMethods: len(d.PaymentMethods), Settings: len(d.Settings)}
    s.log.Info("backup restored", "transactions", res.Transactions, "categories", res.Categories, "payment_methods", res.PaymentMethods)
    return res, nil
}

func (s *service) Reset(ctx context.Context) error {
    return s.lock.Exclusive(ctx, func(ctx context.Context) error {
        if err := s.store.Replace(ctx, ledger.Dataset{Settings: meta.New(nil)}); err != nil { return err }
        s.categories.Invalidate()
        if _, err := s.categories.EnsureDefaults(ctx); err != nil { return err }
        if _, err := s.accounts.EnsureDefaults(ctx); err != nil { return err }
        s.log.Info("store reset to defaults")
        return nil
    })
}

// ToDocument renders a dataset as a backup document.
func ToDocument(d ledger.Dataset, exported time.Time) Document {
    doc := Document{
        Version:        FormatVersion,
        ExportDate:     exported,
        Transactions:   make([]TransactionDoc, 0, len(d.Transactions)),
        Categories:     make([]CategoryDoc, 0, len(d.Categories)),
        PaymentMethods: make([]AccountDoc, 0, len(d.PaymentMethods)),
        Settings:       d.Settings.Clone(),
    }
    for _, t := range d.Transactions {
        doc.Transactions = append(doc.Transactions, TransactionDoc{
            ID:              ID(t.ID.String()),
            Type:            string(t.Type),
            Amount:          Number(t.Amount),
            Category:        t.Category,
            PaymentMethod:   t.PaymentMethod,
            PaymentMethodID: idOrEmpty(t.PaymentMethodID),
            TransferFrom:    t.TransferFrom,
            TransferFromID:  idOrEmpty(t.TransferFromID),
            TransferTo:      t.TransferTo,
            TransferToID:    idOrEmpty(t.TransferToID),
            Date:            t.Date.Format(time.DateOnly),
            CreatedAt:       t.CreatedAt.UTC().Format(time.RFC3339Nano),
            Note:            t.Note,
        })
    }
    for _, c := range d.Categories {
        doc.Categories = append(doc.Categories, CategoryDoc{ID: ID(c.ID.String()), Name: c.Name, Type: string(c.Type), Emoji: c.Icon, Color: c.Color})
    }
    for _, a := range d.PaymentMethods {
        doc.PaymentMethods = append(doc.PaymentMethods, AccountDoc{ID: ID(a.ID.String()), Name: a.Name, Icon: a.Icon, Color: a.Color})
    }
    return doc
}

func idOrEmpty(id uuid.UUID) ID {
    if id == uuid.Nil { return "" }
    return ID(id.String())
}

// recordID maps a backup id onto a UUID. UUIDs are kept; legacy ids map to a
// stable name-based UUID so references between records survive; blank ids get a fresh one.
func recordID(kind string, id ID) uuid.UUID {
    raw := strings.TrimSpace(string(id))
    if raw == "" { return uuid.New() }
    if u, err := uuid.Parse(raw); err == nil { return u }
    return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+":"+raw))
}

func refID(id ID) uuid.UUID {
    if strings.TrimSpace(string(id)) == "" { return uuid.Nil }
    return recordID("paymentMethod", id)
}

func invalid(format string, args ...any) error {
    return fmt.Errorf(format+": %w", append(args, errs.ErrInvalidBackup)...)
}

// FromDocument validates doc and converts it into a dataset. Missing collections
// restore as empty; a document with none of them is rejected. A record without
// createdAt is stamped with its own date.
func FromDocument(doc Document) (ledger.Dataset, error) {
    if !doc.hasContent() { return ledger.Dataset{}, invalid("no transactions, categories, paymentMethods or settings") }
    d := ledger.Dataset{Settings: meta.New(nil)}

    byName := map[string]uuid.UUID{}
    seenAcc := map[uuid.UUID]bool{}
    for i, a := range doc.PaymentMethods {
        name := strings.TrimSpace(a.Name)
        if name == "" { return ledger.Dataset{}, invalid("paymentMethods[%d]: name is required", i) }
        id := recordID("paymentMethod", a.ID)
        if seenAcc[id] { return ledger.Dataset{}, invalid("paymentMethods[%d]: duplicate id %q", i, a.ID) }
        seenAcc[id] = true
        byName[name] = id
        d.PaymentMethods = append(d.PaymentMethods, ledger.Account{ID: id, Name: name, Icon: a.Icon, Color: a.Color})
    }

    seenCat := map[uuid.UUID]bool{}
    for i, c := range doc.Categories {
        name := strings.TrimSpace(c.Name)
        if name == "" { return ledger.Dataset{}, invalid("categories[%d]: name is required", i) }
        typ := ledger.CategoryType(c.Type)
        if !typ.Valid() { return ledger.Dataset{}, invalid("categories[%d]: type %q", i, c.Type) }
        id := recordID("category", c.ID)
        if seenCat[id] { return ledger.Dataset{}, invalid("categories[%d]: duplicate id %q", i, c.ID) }
        seenCat[id] = true
        icon := c.Icon
        if icon == "" { icon = c.Emoji }
        d.Categories = append(d.Categories, ledger.Category{ID: id, Name: name, Type: typ, Icon: icon, Color: c.Color})
    }

    accountRef := func(id ID, name string) uuid.UUID {
        if u := refID(id); u != uuid.Nil { return u }
        return byName[name]
    }
    seenTx := map[uuid.UUID]bool{}
    for i, td := range doc.Transactions {
        typ := ledger.TransactionType(td.Type)
        if !typ.Valid() { return ledger.Dataset{}, invalid("transactions[%d]: type %q", i, td.Type) }
        amount := td.Amount.Decimal()
        if !amount.IsPositive() { return ledger.Dataset{}, invalid("transactions[%d]: amount must be positive", i) }
        date, err := ledger.ParseDate(td.Date)
        if err != nil { return ledger.Dataset{}, invalid("transactions[%d]: date %q", i, td.Date) }
        id := recordID("transaction", td.ID)
        if seenTx[id] { return ledger.Dataset{}, invalid("transactions[%d]: duplicate id %q", i, td.ID) }
        seenTx[id] = true
        created := date
        if td.CreatedAt != "" {
            if created, err = time.Parse(time.RFC3339Nano, td.CreatedAt); err != nil {
                return ledger.Dataset{}, invalid("transactions[%d]: createdAt %q", i, td.CreatedAt)
            }
        }
        t := ledger.Transaction{ID: id, Type: typ, Amount: amount, Date: date, CreatedAt: created.UTC(), Note: td.Note}
        if typ == ledger.TransactionTransfer {
            t.TransferFrom, t.TransferTo = strings.TrimSpace(td.TransferFrom), strings.TrimSpace(td.TransferTo)
            t.TransferFromID = accountRef(td.TransferFromID, t.TransferFrom)
            t.TransferToID = accountRef(td.TransferToID, t.TransferTo)
        } else {
            t.Category, t.PaymentMethod = strings.TrimSpace(td.Category), strings.TrimSpace(td.PaymentMethod)
            t.PaymentMethodID = accountRef(td.PaymentMethodID, t.PaymentMethod)
        }
        d.Transactions = append(d.Transactions, t)
    }

    for _, k := range meta.Metadata(doc.Settings).Keys() {
        v := doc.Settings[k]
        if err := settings.Validate(k, v); err != nil { return ledger.Dataset{}, invalid("settings: %v", err) }
        d.Settings[k] = v
    }
    if err := d.Settings.Validate(); err != nil { return ledger.Dataset{}, invalid("settings: %v", err) }
    return d, nil
}

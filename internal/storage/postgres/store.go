// Package postgres provides a pgx-backed store with the same read/write surface as
// the memory store. The schema lives in db/migrations. Amounts travel as numeric
// text so no precision is lost between shopspring/decimal and Postgres.
package postgres

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/google/uuid"
    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgconn"
    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/shopspring/decimal"

    "github.com/tinoosan/fintrack/internal/errs"
    "github.com/tinoosan/fintrack/internal/ledger"
    "github.com/tinoosan/fintrack/internal/meta"
)

// Store holds a pgx connection pool. All methods are safe for concurrent use.
type Store struct {
    pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
    cfg, err := pgxpool.ParseConfig(dsn)
    if err != nil { return nil, err }
    cfg.MaxConns = 5
    cfg.MinConns = 1
    cfg.MaxConnIdleTime = 2 * time.Minute
    pool, err := pgxpool.NewWithConfig(ctx, cfg)
    if err != nil { return nil, err }
    if err := pool.Ping(ctx); err != nil { pool.Close(); return nil, err }
    return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() { if s.pool != nil { s.pool.Close() } }

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// querier is satisfied by both the pool and a pgx.Tx.
type querier interface {
    Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
    Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
    QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
    tx, err := s.pool.Begin(ctx)
    if err != nil { return err }
    defer func() { _ = tx.Rollback(ctx) }()
    if err := fn(tx); err != nil { return err }
    return tx.Commit(ctx)
}

func isUniqueViolation(err error) bool {
    var pgErr *pgconn.PgError
    return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// --- Transactions ---

const txColumns = `id, type, amount::text, category, payment_method, payment_method_id,
    transfer_from, transfer_from_id, transfer_to, transfer_to_id, date, created_at, note`

func scanTransaction(row pgx.Row) (ledger.Transaction, error) {
    var t ledger.Transaction
    var amount string
    if err := row.Scan(&t.ID, &t.Type, &amount, &t.Category, &t.PaymentMethod, &t.PaymentMethodID,
        &t.TransferFrom, &t.TransferFromID, &t.TransferTo, &t.TransferToID, &t.Date, &t.CreatedAt, &t.Note); err != nil {
        return ledger.Transaction{}, err
    }
    d, err := decimal.NewFromString(amount)
    if err != nil { return ledger.Transaction{}, fmt.Errorf("amount %q: %w", amount, err) }
    t.Amount = d
    t.Date = ledger.DateOf(t.Date)
    t.CreatedAt = t.CreatedAt.UTC()
    return t, nil
}

// ListTransactions returns every transaction ordered by date, then createdAt.
func (s *Store) ListTransactions(ctx context.Context) ([]ledger.Transaction, error) {
    rows, err := s.pool.Query(ctx, `select `+txColumns+` from transactions order by date, created_at, id`)
    if err != nil { return nil, err }
    defer rows.Close()
    out := make([]ledger.Transaction, 0)
    for rows.Next() {
        t, err := scanTransaction(rows)
        if err != nil { return nil, err }
        out = append(out, t)
    }
    return out, rows.Err()
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (ledger.Transaction, error) {
    t, err := scanTransaction(s.pool.QueryRow(ctx, `select `+txColumns+` from transactions where id = $1`, id))
    if errors.Is(err, pgx.ErrNoRows) { return ledger.Transaction{}, errs.ErrNotFound }
    return t, err
}

func insertTransaction(ctx context.Context, q querier, t ledger.Transaction) error {
    _, err := q.Exec(ctx, `
        insert into transactions (id, type, amount, category, payment_method, payment_method_id,
            transfer_from, transfer_from_id, transfer_to, transfer_to_id, date, created_at, note)
        values ($1,$2,$3::numeric,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    `, t.ID, string(t.Type), t.Amount.String(), t.Category, t.PaymentMethod, t.PaymentMethodID,
        t.TransferFrom, t.TransferFromID, t.TransferTo, t.TransferToID, ledger.DateOf(t.Date), t.CreatedAt.UTC(), t.Note)
    return err
}

func (s *Store) CreateTransaction(ctx context.Context, t ledger.Transaction) (ledger.Transaction, error) {
    if err := insertTransaction(ctx, s.pool, t); err != nil {
        if isUniqueViolation(err) { return ledger.Transaction{}, errs.ErrConflict }
        return ledger.Transaction{}, err
    }
    return t, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, t ledger.Transaction) (ledger.Transaction, error) {
    ct, err := s.pool.Exec(ctx, `
        update transactions
        set type=$1, amount=$2::numeric, category=$3, payment_method=$4, payment_method_id=$5,
            transfer_from=$6, transfer_from_id=$7, transfer_to=$8, transfer_to_id=$9,
            date=$10, created_at=$11, note=$12
        where id=$13
    `, string(t.Type), t.Amount.String(), t.Category, t.PaymentMethod, t.PaymentMethodID,
        t.TransferFrom, t.TransferFromID, t.TransferTo, t.TransferToID,
        ledger.DateOf(t.Date), t.CreatedAt.UTC(), t.Note, t.ID)
    if err != nil { return ledger.Transaction{}, err }
    if ct.RowsAffected() == 0 { return ledger.Transaction{}, errs.ErrNotFound }
    return t, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
    ct, err := s.pool.Exec(ctx, `delete from transactions where id = $1`, id)
    if err != nil { return err }
    if ct.RowsAffected() == 0 { return errs.ErrNotFound }
    return nil
}

// --- Accounts ---

func listAccounts(ctx context.Context, q querier) ([]ledger.Account, error) {
    rows, err := q.Query(ctx, `select id, name, icon, color from accounts order by position`)
    if err != nil { return nil, err }
    defer rows.Close()
    out := make([]ledger.Account, 0)
    for rows.Next() {
        var a ledger.Account
        if err := rows.Scan(&a.ID, &a.Name, &a.Icon, &a.Color); err != nil { return nil, err }
        out = append(out, a)
    }
    return out, rows.Err()
}

// ListAccounts returns accounts in creation order.
func (s *Store) ListAccounts(ctx context.Context) ([]ledger.Account, error) { return listAccounts(ctx, s.pool) }

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (ledger.Account, error) {
    var a ledger.Account
    err := s.pool.QueryRow(ctx, `select id, name, icon, color from accounts where id = $1`, id).Scan(&a.ID, &a.Name, &a.Icon, &a.Color)
    if errors.Is(err, pgx.ErrNoRows) { return ledger.Account{}, errs.ErrNotFound }
    if err != nil { return ledger.Account{}, err }
    return a, nil
}

func insertAccount(ctx context.Context, q querier, a ledger.Account) error {
    _, err := q.Exec(ctx, `insert into accounts (id, name, icon, color) values ($1,$2,$3,$4)`, a.ID, a.Name, a.Icon, a.Color)
    return err
}

func (s *Store) CreateAccount(ctx context.Context, a ledger.Account) (ledger.Account, error) {
    if err := insertAccount(ctx, s.pool, a); err != nil {
        if isUniqueViolation(err) { return ledger.Account{}, errs.ErrConflict }
        return ledger.Account{}, err
    }
    return a, nil
}

// UpdateAccount updates name, icon and color. The id never changes.
// UpdateAccount also links name-only transactions recorded under the previous name.
func (s *Store) UpdateAccount(ctx context.Context, a ledger.Account) (ledger.Account, error) {
    err := s.inTx(ctx, func(tx pgx.Tx) error {
        var prev string
        err := tx.QueryRow(ctx, `select name from accounts where id = $1 for update`, a.ID).Scan(&prev)
        if errors.Is(err, pgx.ErrNoRows) { return errs.ErrNotFound }
        if err != nil { return err }
        for _, q := range []string{
            `update transactions set payment_method_id = $1 where payment_method_id = $3 and payment_method = $2`,
            `update transactions set transfer_from_id = $1 where transfer_from_id = $3 and transfer_from = $2`,
            `update transactions set transfer_to_id = $1 where transfer_to_id = $3 and transfer_to = $2`,
        } {
            if _, err := tx.Exec(ctx, q, a.ID, prev, uuid.Nil); err != nil { return err }
        }
        _, err = tx.Exec(ctx, `update accounts set name=$1, icon=$2, color=$3 where id=$4`, a.Name, a.Icon, a.Color, a.ID)
        return err
    })
    if err != nil { return ledger.Account{}, err }
    return a, nil
}

func (s *Store) DeleteAccount(ctx context.Context, id uuid.UUID) error {
    ct, err := s.pool.Exec(ctx, `delete from accounts where id = $1`, id)
    if err != nil { return err }
    if ct.RowsAffected() == 0 { return errs.ErrNotFound }
    return nil
}

// --- Categories ---

func listCategories(ctx context.Context, q querier) ([]ledger.Category, error) {
    rows, err := q.Query(ctx, `select id, name, type, icon, color from categories order by position`)
    if err != nil { return nil, err }
    defer rows.Close()
    out := make([]ledger.Category, 0)
    for rows.Next() {
        var c ledger.Category
        if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Icon, &c.Color); err != nil { return nil, err }
        out = append(out, c)
    }
    return out, rows.Err()
}

func (s *Store) ListCategories(ctx context.Context) ([]ledger.Category, error) { return listCategories(ctx, s.pool) }

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (ledger.Category, error) {
    var c ledger.Category
    err := s.pool.QueryRow(ctx, `select id, name, type, icon, color from categories where id = $1`, id).Scan(&c.ID, &c.Name, &c.Type, &c.Icon, &c.Color)
    if errors.Is(err, pgx.ErrNoRows) { return ledger.Category{}, errs.ErrNotFound }
    if err != nil { return ledger.Category{}, err }
    return c, nil
}

func insertCategory(ctx context.Context, q querier, c ledger.Category) error {
    _, err := q.Exec(ctx, `insert into categories (id, name, type, icon, color) values ($1,$2,$3,$4,$5)`, c.ID, c.Name, string(c.Type), c.Icon, c.Color)
    return err
}

func (s *Store) CreateCategory(ctx context.Context, c ledger.Category) (ledger.Category, error) {
    if err := insertCategory(ctx, s.pool, c); err != nil {
        if isUniqueViolation(err) { return ledger.Category{}, errs.ErrConflict }
        return ledger.Category{}, err
    }
    return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c ledger.Category) (ledger.Category, error) {
    ct, err := s.pool.Exec(ctx, `update categories set name=$1, type=$2, icon=$3, color=$4 where id=$5`, c.Name, string(c.Type), c.Icon, c.Color, c.ID)
    if err != nil { return ledger.Category{}, err }
    if ct.RowsAffected() == 0 { return ledger.Category{}, errs.ErrNotFound }
    return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
    ct, err := s.pool.Exec(ctx, `delete from categories where id = $1`, id)
    if err != nil { return err }
    if ct.RowsAffected() == 0 { return errs.ErrNotFound }
    return nil
}

// --- Settings ---

func loadSettings(ctx context.Context, q querier) (meta.Metadata, error) {
    rows, err := q.Query(ctx, `select key, value from settings`)
    if err != nil { return nil, err }
    defer rows.Close()
    out := meta.New(nil)
    for rows.Next() {
        var k, v string
        if err := rows.Scan(&k, &v); err != nil { return nil, err }
        out[k] = v
    }
    return out, rows.Err()
}

// Settings returns the stored settings (no defaults applied).
func (s *Store) Settings(ctx context.Context) (meta.Metadata, error) { return loadSettings(ctx, s.pool) }

// PutSettings merges values into the stored settings, rejecting a result over the limits.
func (s *Store) PutSettings(ctx context.Context, values meta.Metadata) error {
    return s.inTx(ctx, func(tx pgx.Tx) error {
        current, err := loadSettings(ctx, tx)
        if err != nil { return err }
        for k, v := range values { current[k] = v }
        if err := current.Validate(); err != nil { return fmt.Errorf("%v: %w", err, errs.ErrInvalid) }
        for _, k := range values.Keys() {
            if _, err := tx.Exec(ctx, `
                insert into settings (key, value) values ($1, $2)
                on conflict (key) do update set value = excluded.value
            `, k, values[k]); err != nil { return err }
        }
        return nil
    })
}

// --- Dataset ---

// Snapshot reads every collection inside one repeatable-read transaction.
func (s *Store) Snapshot(ctx context.Context) (ledger.Dataset, error) {
    var d ledger.Dataset
    tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
    if err != nil { return d, err }
    defer func() { _ = tx.Rollback(ctx) }()

    rows, err := tx.Query(ctx, `select `+txColumns+` from transactions order by date, created_at, id`)
    if err != nil { return d, err }
    d.Transactions = make([]ledger.Transaction, 0)
    for rows.Next() {
        t, err := scanTransaction(rows)
        if err != nil { rows.Close(); return d, err }
        d.Transactions = append(d.Transactions, t)
    }
    rows.Close()
    if err := rows.Err(); err != nil { return d, err }

    if d.PaymentMethods, err = listAccounts(ctx, tx); err != nil { return d, err }
    if d.Categories, err = listCategories(ctx, tx); err != nil { return d, err }
    if d.Settings, err = loadSettings(ctx, tx); err != nil { return d, err }
    return d, tx.Commit(ctx)
}

// Replace swaps the store content for d in one transaction.
func (s *Store) Replace(ctx context.Context, d ledger.Dataset) error {
    if err := d.Settings.Validate(); err != nil { return fmt.Errorf("%v: %w", err, errs.ErrInvalid) }
    return s.inTx(ctx, func(tx pgx.Tx) error {
        if _, err := tx.Exec(ctx, `truncate table transactions, accounts, categories, settings`); err != nil { return err }
        for _, a := range d.PaymentMethods {
            if err := insertAccount(ctx, tx, a); err != nil { return fmt.Errorf("insert account %s: %w", a.ID, err) }
        }
        for _, c := range d.Categories {
            if err := insertCategory(ctx, tx, c); err != nil { return fmt.Errorf("insert category %s: %w", c.ID, err) }
        }
        for _, t := range d.Transactions {
            if err := insertTransaction(ctx, tx, t); err != nil { return fmt.Errorf("insert transaction %s: %w", t.ID, err) }
        }
        for _, k := range d.Settings.Keys() {
            if _, err := tx.Exec(ctx, `insert into settings (key, value) values ($1, $2)`, k, d.Settings[k]); err != nil { return err }
        }
        return nil
    })
}

// --- App state ---

func (s *Store) State(ctx context.Context, key string) (string, bool, error) {
    var v string
    err := s.pool.QueryRow(ctx, `select value from app_state where key = $1`, key).Scan(&v)
    if errors.Is(err, pgx.ErrNoRows) { return "", false, nil }
    if err != nil { return "", false, err }
    return v, true, nil
}

func (s *Store) PutState(ctx context.Context, key, value string) error {
    _, err := s.pool.Exec(ctx, `insert into app_state (key, value) values ($1, $2)
        on conflict (key) do update set value = excluded.value`, key, value)
    return err
}

func (s *Store) DeleteState(ctx context.Context, key string) error {
    _, err := s.pool.Exec(ctx, `delete from app_state where key = $1`, key)
    return err
}

// Package memory provides the default in-process store used for local runs and tests.
// Every collection lives behind one RWMutex, so Replace swaps the whole dataset atomically.
package memory

import (
    "context"
    "fmt"
    "sort"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/tinoosan/fintrack/internal/errs"
    "github.com/tinoosan/fintrack/internal/ledger"
    "github.com/tinoosan/fintrack/internal/meta"
)

// txKey tracks ordering for transactions: sorted asc by (Date, CreatedAt, ID).
type txKey struct {
    Date      time.Time
    CreatedAt time.Time
    ID        uuid.UUID
}

func (k txKey) less(o txKey) bool {
    if !k.Date.Equal(o.Date) { return k.Date.Before(o.Date) }
    if !k.CreatedAt.Equal(o.CreatedAt) { return k.CreatedAt.Before(o.CreatedAt) }
    return k.ID.String() < o.ID.String()
}

func keyOf(t ledger.Transaction) txKey { return txKey{Date: t.Date, CreatedAt: t.CreatedAt, ID: t.ID} }

// Store is an in-memory implementation of every repository and writer the services use.
type Store struct {
    mu           sync.RWMutex
    transactions map[uuid.UUID]ledger.Transaction
    txKeys       []txKey
    accounts     map[uuid.UUID]ledger.Account
    accountOrder []uuid.UUID
    categories   map[uuid.UUID]ledger.Category
    catOrder     []uuid.UUID
    settings     meta.Metadata
    // state survives Replace and Reset; it is not part of the dataset.
    state map[string]string
}

// New constructs an empty in-memory store.
func New() *Store {
    s := &Store{state: map[string]string{}}
    s.resetLocked()
    return s
}

func (s *Store) resetLocked() {
    s.transactions = map[uuid.UUID]ledger.Transaction{}
    s.txKeys = nil
    s.accounts = map[uuid.UUID]ledger.Account{}
    s.accountOrder = nil
    s.categories = map[uuid.UUID]ledger.Category{}
    s.catOrder = nil
    s.settings = meta.Metadata{}
}

// Reset drops every collection.
func (s *Store) Reset() {
    s.mu.Lock()
    s.resetLocked()
    s.mu.Unlock()
}

// Ready always succeeds for the in-memory store.
func (s *Store) Ready(context.Context) error { return nil }

// Seed helpers for tests.
func (s *Store) SeedAccount(a ledger.Account)         { s.mu.Lock(); s.putAccountLocked(a); s.mu.Unlock() }
func (s *Store) SeedCategory(c ledger.Category)       { s.mu.Lock(); s.putCategoryLocked(c); s.mu.Unlock() }
func (s *Store) SeedTransaction(t ledger.Transaction) { s.mu.Lock(); s.insertTxLocked(t); s.mu.Unlock() }

// --- Transactions ---

// ListTransactions returns all transactions ordered by (date, createdAt, id).
func (s *Store) ListTransactions(_ context.Context) ([]ledger.Transaction, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    out := make([]ledger.Transaction, 0, len(s.txKeys))
    for _, k := range s.txKeys {
        if t, ok := s.transactions[k.ID]; ok {
            out = append(out, t)
        }
    }
    return out, nil
}

// GetTransaction returns a single transaction.
func (s *Store) GetTransaction(_ context.Context, id uuid.UUID) (ledger.Transaction, error) {
    s.mu.RLock(); defer s.mu.RUnlock()
    t, ok := s.transactions[id]
    if !ok { return ledger.Transaction{}, errs.ErrNotFound }
    return t, nil
}

// CreateTransaction inserts a new record; the id must be unused.
func (s *Store) CreateTransaction(_ context.Context, t ledger.Transaction) (ledger.Transaction, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.transactions[t.ID]; ok { return ledger.Transaction{}, errs.ErrConflict }
    s.insertTxLocked(t)
    return t, nil
}

// UpdateTransaction replaces an existing record in full.
func (s *Store) UpdateTransaction(_ context.Context, t ledger.Transaction) (ledger.Transaction, error) {
    s.mu.Lock(); defer s.mu.Unlock()
    old, ok := s.transactions[t.ID]
    if !ok { return ledger.Transaction{}, errs.ErrNotFound }
    s.removeTxKeyLocked(keyOf(old))
    s.insertTxLocked(t)
    return t, nil
}

// DeleteTransaction removes a record by id.
func (s *Store) DeleteTransaction(_ context.Context, id uuid.UUID) error {
    s.mu.Lock(); defer s.mu.Unlock()
    old, ok := s.transactions[id]
    if !ok { return errs.ErrNotFound }
    s.removeTxKeyLocked(keyOf(old))
    delete(s.transactions, id)
    return nil
}

func (s *Store) insertTxLocked(t ledger.Transaction) {
    s.transactions[t.ID] = t
    k := keyOf(t)
    i := sort.Search(len(s.txKeys), func(i int) bool { return !s.txKeys[i].less(k) })
    s.txKeys = append(s.txKeys, txKey{})
    copy(s.txKeys[i+1:], s.txKeys[i:])
    s.txKeys[i] = k
}

func (s *Store) removeTxKeyLocked(k txKey) {
    for i := range s.txKeys {
        if s.txKeys[i].ID == k.ID {
            s.txKeys = append(s.txKeys[:i], s.txKeys[i+1:]...)
            return
        }
    }
}

// --- Accounts ---

// ListAccounts returns payment methods in creation order.
func (s *Store) ListAccounts(_ context.Context) ([]ledger.Account, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    out := make([]ledger.Account, 0, len(s.accountOrder))
    for _, id := range s.accountOrder {
        out = append(out, s.accounts[id])
    }
    return out, nil
}

func (s *Store) GetAccount(_ context.Context, id uuid.UUID) (ledger.Account, error) {
    s.mu.RLock(); defer s.mu.RUnlock()
    a, ok := s.accounts[id]
    if !ok { return ledger.Account{}, errs.ErrNotFound }
    return a, nil
}

func (s *Store) CreateAccount(_ context.Context, a ledger.Account) (ledger.Account, error) {
    s.mu.Lock(); defer s.mu.Unlock()
    if _, ok := s.accounts[a.ID]; ok { return ledger.Account{}, errs.ErrConflict }
    s.putAccountLocked(a)
    return a, nil
}

// UpdateAccount also links name-only transactions recorded under the previous
// name to the account id, so a rename cannot orphan them.
func (s *Store) UpdateAccount(_ context.Context, a ledger.Account) (ledger.Account, error) {
    s.mu.Lock(); defer s.mu.Unlock()
    prev, ok := s.accounts[a.ID]
    if !ok { return ledger.Account{}, errs.ErrNotFound }
    for id, t := range s.transactions {
        if linkAccount(&t, prev) { s.transactions[id] = t }
    }
    s.accounts[a.ID] = a
    return a, nil
}

func linkAccount(t *ledger.Transaction, a ledger.Account) bool {
    changed := false
    if t.PaymentMethodID == uuid.Nil && t.PaymentMethod == a.Name { t.PaymentMethodID = a.ID; changed = true }
    if t.TransferFromID == uuid.Nil && t.TransferFrom == a.Name { t.TransferFromID = a.ID; changed = true }
    if t.TransferToID == uuid.Nil && t.TransferTo == a.Name { t.TransferToID = a.ID; changed = true }
    return changed
}

func (s *Store) DeleteAccount(_ context.Context, id uuid.UUID) error {
    s.mu.Lock(); defer s.mu.Unlock()
    if _, ok := s.accounts[id]; !ok { return errs.ErrNotFound }
    delete(s.accounts, id)
    s.accountOrder = without(s.accountOrder, id)
    return nil
}

func (s *Store) putAccountLocked(a ledger.Account) {
    if _, ok := s.accounts[a.ID]; !ok {
        s.accountOrder = append(s.accountOrder, a.ID)
    }
    s.accounts[a.ID] = a
}

// --- Categories ---

func (s *Store) ListCategories(_ context.Context) ([]ledger.Category, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    out := make([]ledger.Category, 0, len(s.catOrder))
    for _, id := range s.catOrder {
        out = append(out, s.categories[id])
    }
    return out, nil
}

func (s *Store) GetCategory(_ context.Context, id uuid.UUID) (ledger.Category, error) {
    s.mu.RLock(); defer s.mu.RUnlock()
    c, ok := s.categories[id]
    if !ok { return ledger.Category{}, errs.ErrNotFound }
    return c, nil
}

func (s *Store) CreateCategory(_ context.Context, c ledger.Category) (ledger.Category, error) {
    s.mu.Lock(); defer s.mu.Unlock()
    if _, ok := s.categories[c.ID]; ok { return ledger.Category{}, errs.ErrConflict }
    s.putCategoryLocked(c)
    return c, nil
}

func (s *Store) UpdateCategory(_ context.Context, c ledger.Category) (ledger.Category, error) {
    s.mu.Lock(); defer s.mu.Unlock()
    if _, ok := s.categories[c.ID]; !ok { return ledger.Category{}, errs.ErrNotFound }
    s.categories[c.ID] = c
    return c, nil
}

func (s *Store) DeleteCategory(_ context.Context, id uuid.UUID) error {
    s.mu.Lock(); defer s.mu.Unlock()
    if _, ok := s.categories[id]; !ok { return errs.ErrNotFound }
    delete(s.categories, id)
    s.catOrder = without(s.catOrder, id)
    return nil
}

func (s *Store) putCategoryLocked(c ledger.Category) {
    if _, ok := s.categories[c.ID]; !ok {
        s.catOrder = append(s.catOrder, c.ID)
    }
    s.categories[c.ID] = c
}

// --- Settings ---

// Settings returns a copy of the stored settings (no defaults applied).
func (s *Store) Settings(_ context.Context) (meta.Metadata, error) {
    s.mu.RLock(); defer s.mu.RUnlock()
    return s.settings.Clone(), nil
}

// PutSettings merges values into the stored settings.
func (s *Store) PutSettings(_ context.Context, values meta.Metadata) error {
    s.mu.Lock(); defer s.mu.Unlock()
    next := s.settings.Clone()
    for k, v := range values { next[k] = v }
    if err := next.Validate(); err != nil { return fmt.Errorf("%v: %w", err, errs.ErrInvalid) }
    s.settings = next
    return nil
}

// --- Dataset ---

// Snapshot returns every collection as one consistent read.
func (s *Store) Snapshot(_ context.Context) (ledger.Dataset, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    d := ledger.Dataset{
        Transactions:   make([]ledger.Transaction, 0, len(s.txKeys)),
        PaymentMethods: make([]ledger.Account, 0, len(s.accountOrder)),
        Categories:     make([]ledger.Category, 0, len(s.catOrder)),
        Settings:       s.settings.Clone(),
    }
    for _, k := range s.txKeys { d.Transactions = append(d.Transactions, s.transactions[k.ID]) }
    for _, id := range s.accountOrder { d.PaymentMethods = append(d.PaymentMethods, s.accounts[id]) }
    for _, id := range s.catOrder { d.Categories = append(d.Categories, s.categories[id]) }
    return d, nil
}

// Replace swaps the store content for d in one step.
func (s *Store) Replace(_ context.Context, d ledger.Dataset) error {
    if err := d.Settings.Validate(); err != nil { return fmt.Errorf("%v: %w", err, errs.ErrInvalid) }
    s.mu.Lock()
    defer s.mu.Unlock()
    s.resetLocked()
    for _, t := range d.Transactions {
        if prev, dup := s.transactions[t.ID]; dup { s.removeTxKeyLocked(keyOf(prev)) }
        s.insertTxLocked(t)
    }
    for _, a := range d.PaymentMethods { s.putAccountLocked(a) }
    for _, c := range d.Categories { s.putCategoryLocked(c) }
    s.settings = d.Settings.Clone()
    return nil
}

func without(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
    for i := range ids {
        if ids[i] == id {
            return append(ids[:i], ids[i+1:]...)
        }
    }
    return ids
}

// --- App state ---

func (s *Store) State(_ context.Context, key string) (string, bool, error) {
    s.mu.RLock(); defer s.mu.RUnlock()
    v, ok := s.state[key]
    return v, ok, nil
}

func (s *Store) PutState(_ context.Context, key, value string) error {
    s.mu.Lock(); defer s.mu.Unlock()
    s.state[key] = value
    return nil
}

func (s *Store) DeleteState(_ context.Context, key string) error {
    s.mu.Lock(); defer s.mu.Unlock()
    delete(s.state, key)
    return nil
}

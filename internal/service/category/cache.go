package category

import (
    "context"
    "sync"

    "github.com/google/uuid"
    "github.com/tinoosan/fintrack/internal/errs"
    "github.com/tinoosan/fintrack/internal/ledger"
)

// CachedRepo keeps the category list in memory and drops it on every write
// made through it. Writes that bypass it (restore, reset) must call Invalidate.
type CachedRepo struct {
    inner Store
    mu    sync.RWMutex
    list  []ledger.Category
    gen   uint64 // bumped by Invalidate
}

// Store is the combined read/write side the cache wraps.
type Store interface {
    Repo
    Writer
}

func NewCachedRepo(inner Store) *CachedRepo {
    return &CachedRepo{inner: inner}
}

func (r *CachedRepo) ListCategories(ctx context.Context) ([]ledger.Category, error) {
    r.mu.RLock()
    if r.list != nil {
        defer r.mu.RUnlock()
        return append([]ledger.Category(nil), r.list...), nil
    }
    gen := r.gen
    r.mu.RUnlock()

    cats, err := r.inner.ListCategories(ctx)
    if err != nil { return nil, err }
    r.mu.Lock()
    // An Invalidate during the load means cats may already be stale.
    if r.gen == gen {
        r.list = append([]ledger.Category{}, cats...)
    }
    r.mu.Unlock()
    return cats, nil
}

func (r *CachedRepo) GetCategory(ctx context.Context, id uuid.UUID) (ledger.Category, error) {
    cats, err := r.ListCategories(ctx)
    if err != nil { return ledger.Category{}, err }
    for _, c := range cats {
        if c.ID == id { return c, nil }
    }
    return ledger.Category{}, errs.ErrNotFound
}

func (r *CachedRepo) CreateCategory(ctx context.Context, c ledger.Category) (ledger.Category, error) {
    defer r.Invalidate()
    return r.inner.CreateCategory(ctx, c)
}

func (r *CachedRepo) UpdateCategory(ctx context.Context, c ledger.Category) (ledger.Category, error) {
    defer r.Invalidate()
    return r.inner.UpdateCategory(ctx, c)
}

func (r *CachedRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
    defer r.Invalidate()
    return r.inner.DeleteCategory(ctx, id)
}

// Invalidate drops the cached list; the next read goes to the store.
func (r *CachedRepo) Invalidate() {
    r.mu.Lock()
    r.list = nil
    r.gen++
    r.mu.Unlock()
}

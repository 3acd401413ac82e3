// Package category manages the typed labels used to group income and expenses.
package category

import (
    "context"
    "fmt"
    "strings"

    "github.com/google/uuid"
    "github.com/tinoosan/fintrack/internal/dictionary"
    "github.com/tinoosan/fintrack/internal/errs"
    "github.com/tinoosan/fintrack/internal/ledger"
    "github.com/tinoosan/fintrack/internal/slug"
)

type Repo interface {
    ListCategories(ctx context.Context) ([]ledger.Category, error)
    GetCategory(ctx context.Context, id uuid.UUID) (ledger.Category, error)
}

type Writer interface {
    CreateCategory(ctx context.Context, c ledger.Category) (ledger.Category, error)
    UpdateCategory(ctx context.Context, c ledger.Category) (ledger.Category, error)
    DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type Service interface {
    Create(ctx context.Context, c ledger.Category) (ledger.Category, error)
    Get(ctx context.Context, id uuid.UUID) (ledger.Category, error)
    // List returns every category; a non-empty type keeps that type plus "both".
    List(ctx context.Context, t ledger.TransactionType) ([]ledger.Category, error)
    Update(ctx context.Context, c ledger.Category) (ledger.Category, error)
    Delete(ctx context.Context, id uuid.UUID) error
    EnsureDefaults(ctx context.Context) ([]ledger.Category, error)
    // Invalidate drops cached reads after the store was replaced underneath.
    Invalidate()
}

type service struct {
    repo *CachedRepo
}

// New wraps store in a CachedRepo and builds the service on top of it.
func New(store Store) Service { return &service{repo: NewCachedRepo(store)} }

func validate(c ledger.Category) error {
    name := strings.TrimSpace(c.Name)
    if name == "" { return fmt.Errorf("name is required: %w", errs.ErrInvalid) }
    if ledger.IsSentinel(name) { return fmt.Errorf("name %q is reserved: %w", name, errs.ErrInvalid) }
    if !c.Type.Valid() { return fmt.Errorf("type %q: %w", c.Type, errs.ErrInvalid) }
    return nil
}

func (s *service) Create(ctx context.Context, c ledger.Category) (ledger.Category, error) {
    if err := validate(c); err != nil { return ledger.Category{}, err }
    c.Name = strings.TrimSpace(c.Name)
    if err := s.ensureUniqueName(ctx, c.Name, uuid.Nil); err != nil { return ledger.Category{}, err }
    c.Icon = dictionary.CategoryIcon(strings.TrimSpace(c.Icon), c.Name)
    c.ID = uuid.New()
    return s.repo.CreateCategory(ctx, c)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (ledger.Category, error) {
    return s.repo.GetCategory(ctx, id)
}

func (s *service) List(ctx context.Context, t ledger.TransactionType) ([]ledger.Category, error) {
    all, err := s.repo.ListCategories(ctx)
    if err != nil { return nil, err }
    if t == "" || t == "all" { return all, nil }
    out := make([]ledger.Category, 0, len(all))
    for _, c := range all {
        if c.Type.Applies(t) { out = append(out, c) }
    }
    return out, nil
}

func (s *service) Update(ctx context.Context, c ledger.Category) (ledger.Category, error) {
    if c.ID == uuid.Nil { return ledger.Category{}, errs.ErrInvalid }
    if err := validate(c); err != nil { return ledger.Category{}, err }
    current, err := s.repo.GetCategory(ctx, c.ID)
    if err != nil { return ledger.Category{}, err }
    c.Name = strings.TrimSpace(c.Name)
    if !slug.Equal(current.Name, c.Name) {
        if err := s.ensureUniqueName(ctx, c.Name, c.ID); err != nil { return ledger.Category{}, err }
    }
    if strings.TrimSpace(c.Icon) == "" { c.Icon = current.Icon }
    c.Icon = dictionary.CategoryIcon(c.Icon, c.Name)
    if c.Color == "" { c.Color = current.Color }
    return s.repo.UpdateCategory(ctx, c)
}

// Delete removes the category; transactions keep the name they were written with.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
    if id == uuid.Nil { return errs.ErrInvalid }
    return s.repo.DeleteCategory(ctx, id)
}

func (s *service) EnsureDefaults(ctx context.Context) ([]ledger.Category, error) {
    existing, err := s.repo.ListCategories(ctx)
    if err != nil { return nil, err }
    if len(existing) > 0 { return existing, nil }
    created := make([]ledger.Category, 0, len(dictionary.Categories()))
    for _, def := range dictionary.Categories() {
        c, err := s.repo.CreateCategory(ctx, ledger.Category{ID: uuid.New(), Name: def.Name, Type: def.Type, Icon: def.Icon, Color: def.Color})
        if err != nil { return nil, err }
        created = append(created, c)
    }
    return created, nil
}

func (s *service) Invalidate() { s.repo.Invalidate() }

func (s *service) ensureUniqueName(ctx context.Context, name string, self uuid.UUID) error {
    list, err := s.repo.ListCategories(ctx)
    if err != nil { return err }
    for _, other := range list {
        if other.ID != self && slug.Equal(other.Name, name) {
            return fmt.Errorf("category %q: %w", name, errs.ErrNameExists)
        }
    }
    return nil
}

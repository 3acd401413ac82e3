// Package account implements the payment method registry: unique display names,
// stable ids that survive renames, curated defaults and icon repair.
package account

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
    ListAccounts(ctx context.Context) ([]ledger.Account, error)
    GetAccount(ctx context.Context, id uuid.UUID) (ledger.Account, error)
}

type Writer interface {
    CreateAccount(ctx context.Context, a ledger.Account) (ledger.Account, error)
    // UpdateAccount stores a and attaches transactions that reference the previous
    // name without an id to a.ID.
    UpdateAccount(ctx context.Context, a ledger.Account) (ledger.Account, error)
    DeleteAccount(ctx context.Context, id uuid.UUID) error
}

type Service interface {
    ValidateCreate(a ledger.Account) error
    Create(ctx context.Context, a ledger.Account) (ledger.Account, error)
    Get(ctx context.Context, id uuid.UUID) (ledger.Account, error)
    FindByName(ctx context.Context, name string) (ledger.Account, error)
    List(ctx context.Context) ([]ledger.Account, error)
    Update(ctx context.Context, a ledger.Account) (ledger.Account, error)
    // Delete removes the account. Transactions that reference it are left untouched.
    Delete(ctx context.Context, id uuid.UUID) error
    // EnsureDefaults seeds the curated payment methods when the registry is empty.
    EnsureDefaults(ctx context.Context) ([]ledger.Account, error)
    // RepairIcons fills in missing icons and reports how many accounts changed.
    RepairIcons(ctx context.Context) (int, error)
}

type service struct {
    repo   Repo
    writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

func (s *service) ValidateCreate(a ledger.Account) error {
    name := strings.TrimSpace(a.Name)
    if name == "" { return fmt.Errorf("name is required: %w", errs.ErrInvalid) }
    if ledger.IsSentinel(name) { return fmt.Errorf("name %q is reserved: %w", name, errs.ErrInvalid) }
    if len(name) > 64 { return fmt.Errorf("name too long: %w", errs.ErrInvalid) }
    return nil
}

func (s *service) Create(ctx context.Context, a ledger.Account) (ledger.Account, error) {
    if err := s.ValidateCreate(a); err != nil { return ledger.Account{}, err }
    a.Name = strings.TrimSpace(a.Name)
    if err := s.ensureUniqueName(ctx, a.Name, uuid.Nil); err != nil { return ledger.Account{}, err }
    if strings.TrimSpace(a.Icon) == "" { a.Icon, _ = dictionary.PaymentMethodIcon(a.Name) }
    a.ID = uuid.New()
    return s.writer.CreateAccount(ctx, a)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (ledger.Account, error) {
    if id == uuid.Nil { return ledger.Account{}, errs.ErrInvalid }
    return s.repo.GetAccount(ctx, id)
}

func (s *service) FindByName(ctx context.Context, name string) (ledger.Account, error) {
    list, err := s.repo.ListAccounts(ctx)
    if err != nil { return ledger.Account{}, err }
    for _, a := range list {
        if slug.Equal(a.Name, name) { return a, nil }
    }
    return ledger.Account{}, errs.ErrNotFound
}

func (s *service) List(ctx context.Context) ([]ledger.Account, error) {
    return s.repo.ListAccounts(ctx)
}

// Update replaces name, icon and color. The id is the identity, so a rename keeps
// every transaction that references the id attributed to this account.
func (s *service) Update(ctx context.Context, a ledger.Account) (ledger.Account, error) {
    if a.ID == uuid.Nil { return ledger.Account{}, errs.ErrInvalid }
    if err := s.ValidateCreate(a); err != nil { return ledger.Account{}, err }
    current, err := s.repo.GetAccount(ctx, a.ID)
    if err != nil { return ledger.Account{}, err }
    a.Name = strings.TrimSpace(a.Name)
    if !slug.Equal(current.Name, a.Name) {
        if err := s.ensureUniqueName(ctx, a.Name, a.ID); err != nil { return ledger.Account{}, err }
    }
    if strings.TrimSpace(a.Icon) == "" { a.Icon = current.Icon }
    return s.writer.UpdateAccount(ctx, a)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
    if id == uuid.Nil { return errs.ErrInvalid }
    return s.writer.DeleteAccount(ctx, id)
}

func (s *service) EnsureDefaults(ctx context.Context) ([]ledger.Account, error) {
    existing, err := s.repo.ListAccounts(ctx)
    if err != nil { return nil, err }
    if len(existing) > 0 { return existing, nil }
    created := make([]ledger.Account, 0, len(dictionary.PaymentMethods()))
    for _, def := range dictionary.PaymentMethods() {
        a, err := s.writer.CreateAccount(ctx, ledger.Account{ID: uuid.New(), Name: def.Name, Icon: def.Icon})
        if err != nil { return nil, err }
        created = append(created, a)
    }
    return created, nil
}

func (s *service) RepairIcons(ctx context.Context) (int, error) {
    list, err := s.repo.ListAccounts(ctx)
    if err != nil { return 0, err }
    fixed := 0
    for _, a := range list {
        if icon := strings.TrimSpace(a.Icon); icon != "" && icon != "undefined" { continue }
        a.Icon, _ = dictionary.PaymentMethodIcon(a.Name)
        if _, err := s.writer.UpdateAccount(ctx, a); err != nil { return fixed, err }
        fixed++
    }
    return fixed, nil
}

// ErrNameExists is returned when another account already uses the name.
var ErrNameExists = errs.ErrNameExists

func (s *service) ensureUniqueName(ctx context.Context, name string, self uuid.UUID) error {
    list, err := s.repo.ListAccounts(ctx)
    if err != nil { return err }
    for _, other := range list {
        if other.ID != self && slug.Equal(other.Name, name) {
            return fmt.Errorf("payment method %q: %w", name, ErrNameExists)
        }
    }
    return nil
}

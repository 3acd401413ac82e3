// Package settings reads and writes the flat key/value preferences collection.
package settings

import (
    "context"
    "fmt"
    "strings"
    "unicode/utf8"

    "github.com/shopspring/decimal"
    "github.com/tinoosan/fintrack/internal/errs"
    "github.com/tinoosan/fintrack/internal/ledger"
    "github.com/tinoosan/fintrack/internal/meta"
)

type Repo interface {
    Settings(ctx context.Context) (meta.Metadata, error)
    PutSettings(ctx context.Context, values meta.Metadata) error
}

// Defaults applied on read for keys that were never written.
func Defaults() meta.Metadata {
    return meta.New(map[string]string{
        ledger.SettingCurrency: ledger.DefaultCurrency,
        ledger.SettingLanguage: "en",
        ledger.SettingTheme:    "system",
    })
}

type Service interface {
    // Get returns stored settings with defaults filled in.
    Get(ctx context.Context) (meta.Metadata, error)
    Set(ctx context.Context, key, value string) error
    // SetMany validates every pair before writing any of them.
    SetMany(ctx context.Context, values meta.Metadata) error
    Currency(ctx context.Context) (string, error)
    // MonthlyBudget returns the configured budget and whether one is set.
    MonthlyBudget(ctx context.Context) (decimal.Decimal, bool, error)
}

type service struct {
    repo Repo
}

func New(repo Repo) Service { return &service{repo: repo} }

// Validate checks a single pair. Keys outside the known set are accepted as
// free-form preferences within the metadata limits.
func Validate(key, value string) error {
    value = strings.TrimSpace(value)
    switch key {
    case ledger.SettingCurrency:
        if !ledger.ValidCurrency(value) { return fmt.Errorf("currency %q: %w", value, errs.ErrInvalid) }
    case ledger.SettingLanguage:
        if value != "en" && value != "bn" { return fmt.Errorf("language %q: %w", value, errs.ErrInvalid) }
    case ledger.SettingTheme:
        switch value {
        case "light", "dark", "system":
        default:
            return fmt.Errorf("theme %q: %w", value, errs.ErrInvalid)
        }
    case ledger.SettingMonthlyBudget:
        if value == "" { return nil }
        d, err := ledger.ParseAmount(value)
        if err != nil || d.IsNegative() { return fmt.Errorf("monthlyBudget %q: %w", value, errs.ErrInvalid) }
    case ledger.SettingUserName:
        if utf8.RuneCountInString(value) > 64 { return fmt.Errorf("userName too long: %w", errs.ErrInvalid) }
    }
    return nil
}

func normalize(key, value string) string {
    value = strings.TrimSpace(value)
    if key == ledger.SettingCurrency { return strings.ToUpper(value) }
    return value
}

func (s *service) Get(ctx context.Context) (meta.Metadata, error) {
    stored, err := s.repo.Settings(ctx)
    if err != nil { return nil, err }
    return stored.WithDefaults(Defaults()), nil
}

func (s *service) Set(ctx context.Context, key, value string) error {
    return s.SetMany(ctx, meta.Metadata{key: value})
}

func (s *service) SetMany(ctx context.Context, values meta.Metadata) error {
    if len(values) == 0 { return nil }
    clean := meta.New(nil)
    for _, k := range values.Keys() {
        if strings.TrimSpace(k) == "" { return fmt.Errorf("empty key: %w", errs.ErrInvalid) }
        if err := Validate(k, values[k]); err != nil { return err }
        clean[k] = normalize(k, values[k])
    }
    if err := clean.Validate(); err != nil { return fmt.Errorf("%v: %w", err, errs.ErrInvalid) }
    return s.repo.PutSettings(ctx, clean)
}

func (s *service) Currency(ctx context.Context) (string, error) {
    all, err := s.Get(ctx)
    if err != nil { return "", err }
    return all[ledger.SettingCurrency], nil
}

func (s *service) MonthlyBudget(ctx context.Context) (decimal.Decimal, bool, error) {
    all, err := s.Get(ctx)
    if err != nil { return decimal.Zero, false, err }
    raw := strings.TrimSpace(all[ledger.SettingMonthlyBudget])
    if raw == "" { return decimal.Zero, false, nil }
    d, err := ledger.ParseAmount(raw)
    if err != nil { return decimal.Zero, false, nil }
    return d, d.IsPositive(), nil
}

package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/tinoosan/fintrack/internal/errs"
	"github.com/tinoosan/fintrack/internal/ledger"
	"github.com/tinoosan/fintrack/internal/meta"
	"github.com/tinoosan/fintrack/internal/storage/memory"
)

func TestGetAppliesDefaults(t *testing.T) {
	svc := New(memory.New())
	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got[ledger.SettingCurrency] != "BDT" || got[ledger.SettingLanguage] != "en" || got[ledger.SettingTheme] != "system" {
		t.Fatalf("unexpected defaults: %v", got)
	}
	if _, ok, _ := svc.MonthlyBudget(context.Background()); ok {
		t.Fatalf("no budget should be reported by default")
	}
}

func TestSetValidatesKnownKeys(t *testing.T) {
	svc := New(memory.New())
	ctx := context.Background()
	cases := []struct {
		key, value string
		ok         bool
	}{
		{ledger.SettingCurrency, "usd", true},
		{ledger.SettingCurrency, "XYZ1", false},
		{ledger.SettingLanguage, "bn", true},
		{ledger.SettingLanguage, "fr", false},
		{ledger.SettingTheme, "dark", true},
		{ledger.SettingTheme, "blue", false},
		{ledger.SettingMonthlyBudget, "5000.50", true},
		{ledger.SettingMonthlyBudget, "-1", false},
		{ledger.SettingMonthlyBudget, "lots", false},
		{ledger.SettingMonthlyBudget, "1e200000000", false},
		{"dashboardLayout", "compact", true},
	}
	for _, c := range cases {
		err := svc.Set(ctx, c.key, c.value)
		if c.ok && err != nil {
			t.Fatalf("%s=%s: unexpected error %v", c.key, c.value, err)
		}
		if !c.ok && !errors.Is(err, errs.ErrInvalid) {
			t.Fatalf("%s=%s: expected ErrInvalid, got %v", c.key, c.value, err)
		}
	}
	cur, _ := svc.Currency(ctx)
	if cur != "USD" {
		t.Fatalf("currency should be normalized, got %q", cur)
	}
	budget, ok, err := svc.MonthlyBudget(ctx)
	if err != nil || !ok || budget.String() != "5000.5" {
		t.Fatalf("unexpected budget %s ok=%v err=%v", budget, ok, err)
	}
}

func TestSetManyIsAllOrNothing(t *testing.T) {
	svc := New(memory.New())
	ctx := context.Background()
	err := svc.SetMany(ctx, meta.Metadata{ledger.SettingTheme: "dark", ledger.SettingLanguage: "xx"})
	if !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	got, _ := svc.Get(ctx)
	if got[ledger.SettingTheme] != "system" {
		t.Fatalf("theme must not change when another pair fails, got %q", got[ledger.SettingTheme])
	}
}

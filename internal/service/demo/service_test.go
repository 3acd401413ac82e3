package demo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tinoosan/fintrack/internal/errs"
	"github.com/tinoosan/fintrack/internal/ledger"
	"github.com/tinoosan/fintrack/internal/meta"
	"github.com/tinoosan/fintrack/internal/service/balance"
	"github.com/tinoosan/fintrack/internal/service/transaction"
	"github.com/tinoosan/fintrack/internal/storage/memory"
)

var now = time.Date(2024, time.May, 10, 15, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*memory.Store, Service) {
	t.Helper()
	store := memory.New()
	store.SeedAccount(ledger.Account{ID: uuid.New(), Name: "Cash"})
	store.SeedAccount(ledger.Account{ID: uuid.New(), Name: "Bank"})
	editor := transaction.New(store, store)
	return store, New(store, editor, WithClock(func() time.Time { return now }))
}

func TestEnableDisableRestoresUserData(t *testing.T) {
	store, svc := setup(t)
	ctx := context.Background()
	own := ledger.Transaction{
		ID: uuid.New(), Type: ledger.TransactionIncome, Amount: decimal.RequireFromString("123.45"),
		Category: "Salary", PaymentMethod: "Cash", Date: ledger.DateOf(now), CreatedAt: now, Note: "mine",
	}
	store.SeedTransaction(own)
	if err := store.PutSettings(ctx, meta.New(map[string]string{ledger.SettingUserName: "Rafi", ledger.SettingTheme: "dark"})); err != nil {
		t.Fatalf("settings: %v", err)
	}

	st, err := svc.Enable(ctx)
	if err != nil || !st.Active || st.Since == nil || !st.Since.Equal(now) {
		t.Fatalf("enable: %+v %v", st, err)
	}
	snap, _ := store.Snapshot(ctx)
	if len(snap.Transactions) != len(samples) {
		t.Fatalf("expected %d sample transactions, got %d", len(samples), len(snap.Transactions))
	}
	if snap.Settings[ledger.SettingUserName] != UserName || snap.Settings[ledger.SettingMonthlyBudget] != Budget || snap.Settings[ledger.SettingTheme] != "dark" {
		t.Fatalf("unexpected demo settings: %+v", snap.Settings)
	}
	if len(snap.PaymentMethods) != 2 {
		t.Fatalf("payment methods must be kept, got %d", len(snap.PaymentMethods))
	}
	if _, err := svc.Enable(ctx); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("second enable: expected ErrConflict, got %v", err)
	}

	if err := svc.Disable(ctx); err != nil {
		t.Fatalf("disable: %v", err)
	}
	snap, _ = store.Snapshot(ctx)
	if len(snap.Transactions) != 1 {
		t.Fatalf("expected the user's transaction back, got %d", len(snap.Transactions))
	}
	got := snap.Transactions[0]
	if got.ID != own.ID || !got.Amount.Equal(own.Amount) || got.Note != "mine" || !got.CreatedAt.Equal(own.CreatedAt) {
		t.Fatalf("restored transaction differs: %+v", got)
	}
	if snap.Settings[ledger.SettingUserName] != "Rafi" {
		t.Fatalf("user name should be restored, got %+v", snap.Settings)
	}
	if _, ok := snap.Settings[ledger.SettingMonthlyBudget]; ok {
		t.Fatalf("budget was never set and must not survive demo mode: %+v", snap.Settings)
	}
	if st, _ := svc.Status(ctx); st.Active {
		t.Fatalf("status should be inactive after disable")
	}
	if err := svc.Disable(ctx); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("second disable: expected ErrConflict, got %v", err)
	}
}

func TestSampleLedgerBalances(t *testing.T) {
	accounts := []ledger.Account{{ID: uuid.New(), Name: "Bank"}, {ID: uuid.New(), Name: "Cash"}}
	txs := Transactions(accounts, now)
	bank := balance.AccountBalance(balance.RefOf(accounts[0]), txs, uuid.Nil)
	if !bank.Equal(decimal.NewFromInt(62500)) {
		t.Fatalf("expected Bank 62500, got %s", bank)
	}
	cash := balance.AccountBalance(balance.RefOf(accounts[1]), txs, uuid.Nil)
	if !cash.Equal(decimal.NewFromInt(-2200)) {
		t.Fatalf("expected Cash -2200, got %s", cash)
	}
	for _, tx := range txs {
		if tx.PaymentMethod == "Card" && tx.PaymentMethodID != uuid.Nil {
			t.Fatalf("unregistered Card must stay name-only: %+v", tx)
		}
		if tx.Date.After(ledger.DateOf(now)) {
			t.Fatalf("sample dated in the future: %+v", tx)
		}
	}
}

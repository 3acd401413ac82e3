package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tinoosan/fintrack/internal/errs"
	"github.com/tinoosan/fintrack/internal/ledger"
	"github.com/tinoosan/fintrack/internal/service/balance"
	"github.com/tinoosan/fintrack/internal/storage/memory"
)

func TestCreateValidatesAndDedupes(t *testing.T) {
	store := memory.New()
	svc := New(store, store)
	ctx := context.Background()

	if _, err := svc.Create(ctx, ledger.Account{Name: "  "}); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for blank name, got %v", err)
	}
	if _, err := svc.Create(ctx, ledger.Account{Name: ledger.SentinelNewPaymentMethod}); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for sentinel name, got %v", err)
	}
	bank, err := svc.Create(ctx, ledger.Account{Name: " Bank "})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if bank.ID == uuid.Nil || bank.Name != "Bank" || bank.Icon != "fa-university" {
		t.Fatalf("unexpected account: %+v", bank)
	}
	if _, err := svc.Create(ctx, ledger.Account{Name: "bank"}); !errors.Is(err, ErrNameExists) {
		t.Fatalf("expected ErrNameExists, got %v", err)
	}
	piggy, _ := svc.Create(ctx, ledger.Account{Name: "Piggy"})
	if piggy.Icon != "fa-wallet" {
		t.Fatalf("expected wallet icon for unknown name, got %s", piggy.Icon)
	}
}

func TestRenameKeepsIdentity(t *testing.T) {
	store := memory.New()
	svc := New(store, store)
	ctx := context.Background()
	bank, _ := svc.Create(ctx, ledger.Account{Name: "Bank"})
	cash, _ := svc.Create(ctx, ledger.Account{Name: "Cash"})

	renamed, err := svc.Update(ctx, ledger.Account{ID: bank.ID, Name: "Savings"})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.ID != bank.ID || renamed.Icon != bank.Icon {
		t.Fatalf("rename lost identity or icon: %+v", renamed)
	}
	if _, err := svc.Update(ctx, ledger.Account{ID: bank.ID, Name: "cash"}); !errors.Is(err, ErrNameExists) {
		t.Fatalf("expected ErrNameExists renaming onto Cash, got %v", err)
	}
	if _, err := svc.Update(ctx, ledger.Account{ID: cash.ID, Name: "CASH"}); err != nil {
		t.Fatalf("case-only rename of self should pass: %v", err)
	}
	found, err := svc.FindByName(ctx, "savings")
	if err != nil || found.ID != bank.ID {
		t.Fatalf("find by name: %+v %v", found, err)
	}
	if _, err := svc.Update(ctx, ledger.Account{ID: uuid.New(), Name: "X"}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRenameLinksNameOnlyTransactions(t *testing.T) {
	store := memory.New()
	svc := New(store, store)
	ctx := context.Background()
	bank, _ := svc.Create(ctx, ledger.Account{Name: "Bank"})
	day := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	store.SeedTransaction(ledger.Transaction{ID: uuid.New(), Type: ledger.TransactionIncome, Amount: decimal.NewFromInt(100), Category: "Salary", PaymentMethod: "Bank", Date: day})
	store.SeedTransaction(ledger.Transaction{ID: uuid.New(), Type: ledger.TransactionTransfer, Amount: decimal.NewFromInt(30), TransferFrom: "Bank", TransferTo: "Cash", Date: day})

	renamed, err := svc.Update(ctx, ledger.Account{ID: bank.ID, Name: "Savings"})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	txs, _ := store.ListTransactions(ctx)
	if got := balance.AccountBalance(balance.RefOf(renamed), txs, uuid.Nil); !got.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("legacy records should follow the rename, balance %s", got)
	}
	for _, tx := range txs {
		if tx.TransferToID != uuid.Nil {
			t.Fatalf("unregistered Cash must stay name-only: %+v", tx)
		}
	}
}

func TestDeleteDoesNotCascade(t *testing.T) {
	store := memory.New()
	svc := New(store, store)
	ctx := context.Background()
	bank, _ := svc.Create(ctx, ledger.Account{Name: "Bank"})
	store.SeedTransaction(ledger.Transaction{ID: uuid.New(), Type: ledger.TransactionIncome, PaymentMethod: "Bank", PaymentMethodID: bank.ID})
	if err := svc.Delete(ctx, bank.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	txs, _ := store.ListTransactions(ctx)
	if len(txs) != 1 {
		t.Fatalf("transactions must survive account deletion")
	}
	if err := svc.Delete(ctx, bank.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEnsureDefaultsAndRepairIcons(t *testing.T) {
	store := memory.New()
	svc := New(store, store)
	ctx := context.Background()
	seeded, err := svc.EnsureDefaults(ctx)
	if err != nil || len(seeded) != 4 {
		t.Fatalf("expected 4 defaults, got %d err=%v", len(seeded), err)
	}
	again, _ := svc.EnsureDefaults(ctx)
	if len(again) != 4 {
		t.Fatalf("defaults must not be seeded twice, got %d", len(again))
	}

	store.SeedAccount(ledger.Account{ID: uuid.New(), Name: "Card 2"})
	store.SeedAccount(ledger.Account{ID: uuid.New(), Name: "Card", Icon: "undefined"})
	fixed, err := svc.RepairIcons(ctx)
	if err != nil || fixed != 2 {
		t.Fatalf("expected 2 repaired icons, got %d err=%v", fixed, err)
	}
	card, _ := svc.FindByName(ctx, "Card")
	if card.Icon != "fa-credit-card" {
		t.Fatalf("expected curated card icon, got %s", card.Icon)
	}
	other, _ := svc.FindByName(ctx, "Card 2")
	if other.Icon != "fa-wallet" {
		t.Fatalf("expected wallet icon, got %s", other.Icon)
	}
}

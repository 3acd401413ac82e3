package backup

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/tinoosan/fintrack/internal/errs"
	"github.com/tinoosan/fintrack/internal/ledger"
	"github.com/tinoosan/fintrack/internal/service/account"
	"github.com/tinoosan/fintrack/internal/service/balance"
	"github.com/tinoosan/fintrack/internal/service/category"
	"github.com/tinoosan/fintrack/internal/service/transaction"
	"github.com/tinoosan/fintrack/internal/storage/memory"
	"github.com/xuri/excelize/v2"
)

var fixedNow = time.Date(2024, time.May, 2, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store  *memory.Store
	editor transaction.Service
	cats   category.Service
	svc    Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	editor := transaction.New(store, store, transaction.WithLogger(logger))
	cats := category.New(store)
	accts := account.New(store, store)
	svc := New(store, editor, cats, accts, WithClock(func() time.Time { return fixedNow }), WithLogger(logger))
	return fixture{store: store, editor: editor, cats: cats, svc: svc}
}

func may(d int) time.Time { return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC) }

func seedLedger(t *testing.T, f fixture) {
	t.Helper()
	ctx := context.Background()
	f.store.SeedAccount(ledger.Account{ID: uuid.New(), Name: "Bank", Icon: "fa-university"})
	f.store.SeedAccount(ledger.Account{ID: uuid.New(), Name: "Cash"})
	if _, err := f.cats.EnsureDefaults(ctx); err != nil {
		t.Fatalf("categories: %v", err)
	}
	drafts := []transaction.Draft{
		{Type: "income", Amount: "1000.25", Category: "Salary", PaymentMethod: "Bank", Date: may(1)},
		{Type: "expense", Amount: "40", Category: "Food", PaymentMethod: "Cash", Date: may(1), Note: "lunch, with \"friends\""},
		{Type: "transfer", Amount: "300", TransferFrom: "Bank", TransferTo: "Cash", Date: may(2)},
	}
	for _, d := range drafts {
		if _, err := f.editor.Submit(ctx, d, uuid.Nil); err != nil {
			t.Fatalf("submit %+v: %v", d, err)
		}
	}
}

func balancesOf(t *testing.T, store *memory.Store) map[string]string {
	t.Helper()
	rows, err := balance.New(store).Balances(context.Background())
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	out := map[string]string{}
	for _, r := range rows {
		out[r.Account.Name] = r.Balance.String()
	}
	return out
}

func TestRoundTripThroughCodecs(t *testing.T) {
	for _, codec := range []Codec{JSONCodec{}, YAMLCodec{}} {
		t.Run(codec.Name(), func(t *testing.T) {
			src := newFixture(t)
			seedLedger(t, src)
			ctx := context.Background()
			doc, err := src.svc.Export(ctx)
			if err != nil {
				t.Fatalf("export: %v", err)
			}
			if doc.Version != FormatVersion || !doc.ExportDate.Equal(fixedNow) {
				t.Fatalf("unexpected header: %d %v", doc.Version, doc.ExportDate)
			}
			var buf bytes.Buffer
			if err := codec.Encode(&buf, doc); err != nil {
				t.Fatalf("encode: %v", err)
			}
			decoded, err := codec.Decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}

			dst := newFixture(t)
			res, err := dst.svc.Import(ctx, decoded)
			if err != nil {
				t.Fatalf("import: %v", err)
			}
			if res.Transactions != 3 || res.PaymentMethods != 2 || res.Categories != 10 {
				t.Fatalf("unexpected result: %+v", res)
			}
			want, _ := src.store.Snapshot(ctx)
			got, _ := dst.store.Snapshot(ctx)
			for i := range want.Transactions {
				w, g := want.Transactions[i], got.Transactions[i]
				if w.ID != g.ID || !w.Amount.Equal(g.Amount) || w.Note != g.Note || w.PaymentMethodID != g.PaymentMethodID ||
					w.TransferFromID != g.TransferFromID || !w.Date.Equal(g.Date) || !w.CreatedAt.Equal(g.CreatedAt) {
					t.Fatalf("transaction %d differs:\nwant %+v\ngot  %+v", i, w, g)
				}
			}
			wb, gb := balancesOf(t, src.store), balancesOf(t, dst.store)
			if wb["Bank"] != gb["Bank"] || wb["Cash"] != gb["Cash"] || gb["Bank"] != "700.25" {
				t.Fatalf("balances differ: %v vs %v", wb, gb)
			}
		})
	}
}

func TestImportLegacyDocument(t *testing.T) {
	f := newFixture(t)
	raw := `{
	  "transactions": [
	    {"id": 1, "type": "income", "amount": 500, "category": "Salary", "paymentMethod": "Cash", "date": "2024-04-01"},
	    {"id": 2, "type": "expense", "amount": "120.5", "category": "Food", "paymentMethod": "Cash", "date": "2024-04-02T10:00:00Z"}
	  ],
	  "categories": [{"id": 7, "name": "Food", "type": "expense", "emoji": "🍔", "color": "#FF6B6B"}],
	  "settings": {"currency": "USD"}
	}`
	doc, err := JSONCodec{}.Decode(strings.NewReader(raw))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.PaymentMethods != nil {
		t.Fatalf("absent collection should decode as nil")
	}
	if _, err := f.svc.Import(context.Background(), doc); err != nil {
		t.Fatalf("import: %v", err)
	}
	snap, _ := f.store.Snapshot(context.Background())
	if len(snap.Transactions) != 2 || len(snap.PaymentMethods) != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	legacyID := uuid.NewSHA1(uuid.NameSpaceOID, []byte("transaction:1"))
	if snap.Transactions[0].ID != legacyID {
		t.Fatalf("legacy id should map deterministically, got %s", snap.Transactions[0].ID)
	}
	if snap.Categories[0].Icon != "🍔" || snap.Settings[ledger.SettingCurrency] != "USD" {
		t.Fatalf("unexpected category/settings: %+v %v", snap.Categories, snap.Settings)
	}
	if got := balance.ComputeBalance("Cash", snap.Transactions, uuid.Nil); got.String() != "379.5" {
		t.Fatalf("expected Cash 379.5, got %s", got)
	}
}

func TestImportRejectsInvalidDocuments(t *testing.T) {
	f := newFixture(t)
	seedLedger(t, f)
	before, _ := f.store.Snapshot(context.Background())
	cases := map[string]string{
		"empty":        `{"version": 1}`,
		"bad type":     `{"transactions": [{"id": "a", "type": "gift", "amount": 1, "date": "2024-01-01"}]}`,
		"zero amount":  `{"transactions": [{"id": "a", "type": "expense", "amount": 0, "date": "2024-01-01"}]}`,
		"huge amount":  `{"transactions": [{"id": "a", "type": "income", "amount": 1e200000000, "date": "2024-01-01"}]}`,
		"tiny amount":  `{"transactions": [{"id": "a", "type": "income", "amount": "1e-200000000", "date": "2024-01-01"}]}`,
		"bad date":     `{"transactions": [{"id": "a", "type": "expense", "amount": 1, "date": "yesterday"}]}`,
		"duplicate id": `{"transactions": [{"id": 1, "type": "expense", "amount": 1, "date": "2024-01-01"}, {"id": "1", "type": "expense", "amount": 2, "date": "2024-01-01"}]}`,
		"bad setting":  `{"settings": {"theme": "neon"}}`,
	}
	for name, raw := range cases {
		doc, err := JSONCodec{}.Decode(strings.NewReader(raw))
		if err == nil {
			_, err = f.svc.Import(context.Background(), doc)
		}
		if !errors.Is(err, errs.ErrInvalidBackup) {
			t.Fatalf("%s: expected ErrInvalidBackup, got %v", name, err)
		}
	}
	yamlDoc := "transactions:\n  - id: a\n    type: income\n    amount: 1e200000000\n    date: 2024-01-01\n"
	if _, err := (YAMLCodec{}).Decode(strings.NewReader(yamlDoc)); !errors.Is(err, errs.ErrInvalidBackup) {
		t.Fatalf("expected ErrInvalidBackup for out-of-range yaml amount, got %v", err)
	}
	if _, err := (JSONCodec{}).Decode(strings.NewReader("not json")); !errors.Is(err, errs.ErrInvalidBackup) {
		t.Fatalf("expected ErrInvalidBackup for malformed file, got %v", err)
	}
	after, _ := f.store.Snapshot(context.Background())
	if len(after.Transactions) != len(before.Transactions) {
		t.Fatalf("rejected import must leave the store untouched")
	}
}

func TestResetSeedsDefaults(t *testing.T) {
	f := newFixture(t)
	seedLedger(t, f)
	ctx := context.Background()
	if err := f.svc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	snap, _ := f.store.Snapshot(ctx)
	if len(snap.Transactions) != 0 || len(snap.Settings) != 0 {
		t.Fatalf("reset should clear transactions and settings: %+v", snap)
	}
	if len(snap.Categories) != 10 || len(snap.PaymentMethods) != 4 {
		t.Fatalf("expected seeded defaults, got %d categories %d payment methods", len(snap.Categories), len(snap.PaymentMethods))
	}
	cats, _ := f.cats.List(ctx, "")
	if len(cats) != 10 {
		t.Fatalf("category cache should see the reseeded list, got %d", len(cats))
	}
}

func TestSheetExports(t *testing.T) {
	f := newFixture(t)
	seedLedger(t, f)
	txs, err := f.svc.Transactions(context.Background())
	if err != nil {
		t.Fatalf("transactions: %v", err)
	}

	var csvBuf bytes.Buffer
	if err := WriteCSV(&csvBuf, txs); err != nil {
		t.Fatalf("csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csvBuf.String()), "\n")
	if len(lines) != 4 || lines[0] != "Date,Type,Category,Payment Method,From,To,Amount,Note" {
		t.Fatalf("unexpected csv:\n%s", csvBuf.String())
	}
	if !strings.Contains(csvBuf.String(), `"lunch, with ""friends"""`) {
		t.Fatalf("note should be quoted:\n%s", csvBuf.String())
	}

	var xlsx bytes.Buffer
	if err := WriteXLSX(&xlsx, txs); err != nil {
		t.Fatalf("xlsx: %v", err)
	}
	book, err := excelize.OpenReader(&xlsx)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer book.Close()
	rows, err := book.GetRows("Transactions")
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 4 || rows[0][6] != "Amount" || rows[3][4] != "Bank" {
		t.Fatalf("unexpected sheet rows: %v", rows)
	}
}

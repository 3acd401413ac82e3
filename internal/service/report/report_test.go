package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tinoosan/fintrack/internal/ledger"
	"github.com/tinoosan/fintrack/internal/service/category"
	"github.com/tinoosan/fintrack/internal/service/settings"
	"github.com/tinoosan/fintrack/internal/storage/memory"
)

var now = time.Date(2024, time.March, 15, 14, 0, 0, 0, time.UTC) // a Friday

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func seedTx(store *memory.Store, typ ledger.TransactionType, amount string, cat string, date time.Time, created time.Time) {
	store.SeedTransaction(ledger.Transaction{
		ID:            uuid.New(),
		Type:          typ,
		Amount:        decimal.RequireFromString(amount),
		Category:      cat,
		PaymentMethod: "Cash",
		Date:          date,
		CreatedAt:     created,
	})
}

func newFixture(t *testing.T) (*memory.Store, Service, settings.Service) {
	t.Helper()
	store := memory.New()
	store.SeedAccount(ledger.Account{ID: uuid.New(), Name: "Cash"})
	cats := category.New(store)
	if _, err := cats.EnsureDefaults(context.Background()); err != nil {
		t.Fatalf("defaults: %v", err)
	}
	st := settings.New(store)
	return store, New(store, cats, st), st
}

func TestSummaryForCurrentMonth(t *testing.T) {
	store, svc, _ := newFixture(t)
	base := now.Add(-time.Hour)
	seedTx(store, ledger.TransactionIncome, "1000", "Salary", day(2024, 3, 1), base)
	seedTx(store, ledger.TransactionExpense, "200", "Food", day(2024, 3, 10), base.Add(time.Minute))
	seedTx(store, ledger.TransactionExpense, "50", "Food", day(2024, 3, 15), base.Add(2*time.Minute))
	seedTx(store, ledger.TransactionExpense, "999", "Rent", day(2024, 2, 28), base.Add(3*time.Minute))
	seedTx(store, ledger.TransactionExpense, "1", "Food", day(2024, 3, 14), base.Add(4*time.Minute))

	s, err := svc.Summary(context.Background(), now)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.Month != "2024-03" || s.Income.String() != "1000" || s.Expense.String() != "251" {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if s.TodayExpense.String() != "50" || s.Savings.String() != "749" || s.SavingsPercent.String() != "74.9" {
		t.Fatalf("unexpected today/savings: %+v", s)
	}
	if len(s.Recent) != RecentLimit || s.Recent[0].Amount.String() != "1" {
		t.Fatalf("recent should be newest createdAt first, got %+v", s.Recent)
	}
}

func TestSavingsProgressIsClamped(t *testing.T) {
	store, svc, _ := newFixture(t)
	seedTx(store, ledger.TransactionIncome, "100", "Salary", day(2024, 3, 1), now)
	seedTx(store, ledger.TransactionExpense, "300", "Food", day(2024, 3, 2), now)
	s, _ := svc.Summary(context.Background(), now)
	if s.SavingsPercent.String() != "-200" || !s.SavingsProgress.IsZero() {
		t.Fatalf("expected raw -200%% and progress 0, got %s / %s", s.SavingsPercent, s.SavingsProgress)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		budget, spent, status string
	}{
		{"0", "10", BudgetUnset},
		{"100", "80", BudgetOK},
		{"100", "80.01", BudgetWarning},
		{"100", "100", BudgetWarning},
		{"100", "100.5", BudgetExceeded},
	}
	for _, c := range cases {
		got := StatusFor(decimal.RequireFromString(c.budget), decimal.RequireFromString(c.spent))
		if got.Status != c.status {
			t.Fatalf("budget %s spent %s: want %s got %s", c.budget, c.spent, c.status, got.Status)
		}
	}
}

func TestAnalysisBuckets(t *testing.T) {
	store, svc, st := newFixture(t)
	ctx := context.Background()
	if err := st.Set(ctx, ledger.SettingMonthlyBudget, "400"); err != nil {
		t.Fatalf("budget: %v", err)
	}
	seedTx(store, ledger.TransactionExpense, "10", "Food", day(2024, 3, 10), now) // Sunday
	seedTx(store, ledger.TransactionExpense, "20", "Transport", day(2024, 3, 15), now)
	seedTx(store, ledger.TransactionExpense, "70", "Transport", day(2024, 3, 31), now)
	seedTx(store, ledger.TransactionIncome, "500", "Salary", day(2024, 3, 11), now)

	week, err := svc.Analysis(ctx, PeriodWeek, now)
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if !week.Start.Equal(day(2024, 3, 10)) || week.Series[0].String() != "10" || week.Series[5].String() != "20" {
		t.Fatalf("unexpected week analysis: %+v", week)
	}
	if week.AverageDaily.String() != "4.29" || week.Budget != nil {
		t.Fatalf("unexpected week avg/budget: %s %+v", week.AverageDaily, week.Budget)
	}

	month, _ := svc.Analysis(ctx, PeriodMonth, now)
	if len(month.Series) != 5 || month.Series[1].String() != "10" || month.Series[2].String() != "20" || month.Series[4].String() != "70" {
		t.Fatalf("unexpected month series: %v", month.Series)
	}
	if month.Highest == nil || month.Highest.Name != "Transport" || month.Highest.Color == "" {
		t.Fatalf("unexpected highest: %+v", month.Highest)
	}
	if month.Budget == nil || month.Budget.Remaining.String() != "300" || month.Budget.Status != BudgetOK {
		t.Fatalf("unexpected month budget: %+v", month.Budget)
	}
	if month.AverageDaily.String() != "3.23" {
		t.Fatalf("expected 100/31 = 3.23, got %s", month.AverageDaily)
	}

	year, _ := svc.Analysis(ctx, PeriodYear, now)
	if len(year.Series) != 12 || year.Series[2].String() != "100" {
		t.Fatalf("unexpected year series: %v", year.Series)
	}
}

func TestInsightsCompareMonths(t *testing.T) {
	store, svc, _ := newFixture(t)
	seedTx(store, ledger.TransactionExpense, "100", "Food", day(2024, 2, 5), now)
	seedTx(store, ledger.TransactionExpense, "150", "Food", day(2024, 3, 5), now)
	seedTx(store, ledger.TransactionIncome, "100", "Salary", day(2024, 3, 1), now)

	got, err := svc.Insights(context.Background(), now)
	if err != nil {
		t.Fatalf("insights: %v", err)
	}
	codes := map[string]Insight{}
	for _, in := range got {
		codes[in.Code] = in
	}
	if up, ok := codes["spending_up"]; !ok || up.Value.String() != "50" || up.Kind != InsightWarning {
		t.Fatalf("expected spending_up 50%%, got %+v", got)
	}
	if top := codes["top_category"]; top.Message != "Most spent on Food" {
		t.Fatalf("unexpected top category: %+v", top)
	}
	if rate := codes["savings_rate"]; rate.Kind != InsightWarning || rate.Value.String() != "-50" {
		t.Fatalf("unexpected savings rate: %+v", rate)
	}
	if _, ok := codes["overspending"]; !ok {
		t.Fatalf("expected overspending insight, got %+v", got)
	}
}

func TestBalancesInMinorUnits(t *testing.T) {
	store, svc, st := newFixture(t)
	ctx := context.Background()
	_ = st.Set(ctx, ledger.SettingCurrency, "USD")
	seedTx(store, ledger.TransactionIncome, "10.555", "Salary", day(2024, 3, 1), now)
	lines, err := svc.Balances(ctx)
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	if len(lines) != 1 || lines[0].Currency != "USD" || lines[0].MinorUnits != 1056 {
		t.Fatalf("unexpected balances: %+v", lines)
	}
}

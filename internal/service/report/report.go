// Package report derives read-only views over the ledger: the home summary,
// budget status, period analysis, month-over-month insights and the balances overview.
// Nothing here writes; every figure is recomputed from the transactions on each call.
package report

import (
    "context"
    "sort"
    "strings"
    "time"

    "github.com/shopspring/decimal"
    "github.com/tinoosan/fintrack/internal/ledger"
    "github.com/tinoosan/fintrack/internal/service/balance"
    "github.com/tinoosan/fintrack/internal/service/transaction"
)

type Repo interface {
    ListTransactions(ctx context.Context) ([]ledger.Transaction, error)
    ListAccounts(ctx context.Context) ([]ledger.Account, error)
}

type Categories interface {
    List(ctx context.Context, t ledger.TransactionType) ([]ledger.Category, error)
}

type Settings interface {
    Currency(ctx context.Context) (string, error)
    MonthlyBudget(ctx context.Context) (decimal.Decimal, bool, error)
}

// Budget statuses.
const (
    BudgetUnset    = "unset"
    BudgetOK       = "ok"
    BudgetWarning  = "warning"
    BudgetExceeded = "exceeded"
)

// Analysis periods.
const (
    PeriodWeek  = "week"
    PeriodMonth = "month"
    PeriodYear  = "year"
)

// RecentLimit is how many transactions the home summary lists.
const RecentLimit = 4

var hundred = decimal.NewFromInt(100)

type Summary struct {
    Month           string               `json:"month"`
    Income          decimal.Decimal      `json:"income"`
    Expense         decimal.Decimal      `json:"expense"`
    Balance         decimal.Decimal      `json:"balance"`
    TodayExpense    decimal.Decimal      `json:"todayExpense"`
    Savings         decimal.Decimal      `json:"savings"`
    SavingsPercent  decimal.Decimal      `json:"savingsPercent"`
    SavingsProgress decimal.Decimal      `json:"savingsProgress"`
    Recent          []ledger.Transaction `json:"-"`
}

type BudgetStatus struct {
    Budget    decimal.Decimal `json:"budget"`
    Spent     decimal.Decimal `json:"spent"`
    Remaining decimal.Decimal `json:"remaining"`
    Percent   decimal.Decimal `json:"percent"`
    Status    string          `json:"status"`
}

type CategoryTotal struct {
    Name  string          `json:"name"`
    Total decimal.Decimal `json:"total"`
    Color string          `json:"color,omitempty"`
}

type Analysis struct {
    Period       string            `json:"period"`
    Start        time.Time         `json:"start"`
    End          time.Time         `json:"end"`
    Labels       []string          `json:"labels"`
    Series       []decimal.Decimal `json:"series"`
    Categories   []CategoryTotal   `json:"categories"`
    TotalExpense decimal.Decimal   `json:"totalExpense"`
    AverageDaily decimal.Decimal   `json:"averageDaily"`
    Highest      *CategoryTotal    `json:"highest,omitempty"`
    Budget       *BudgetStatus     `json:"budget,omitempty"`
}

// Insight kinds.
const (
    InsightInfo    = "info"
    InsightSuccess = "success"
    InsightWarning = "warning"
)

type Insight struct {
    Kind    string          `json:"kind"`
    Code    string          `json:"code"`
    Message string          `json:"message"`
    Value   decimal.Decimal `json:"value"`
}

type BalanceLine struct {
    Account    ledger.Account  `json:"-"`
    Balance    decimal.Decimal `json:"balance"`
    Currency   string          `json:"currency"`
    MinorUnits int64           `json:"minorUnits"`
}

type Service interface {
    Summary(ctx context.Context, now time.Time) (Summary, error)
    Budget(ctx context.Context, now time.Time) (BudgetStatus, error)
    Analysis(ctx context.Context, period string, now time.Time) (Analysis, error)
    Insights(ctx context.Context, now time.Time) ([]Insight, error)
    Balances(ctx context.Context) ([]BalanceLine, error)
}

type service struct {
    repo       Repo
    categories Categories
    settings   Settings
}

func New(repo Repo, categories Categories, settings Settings) Service {
    return &service{repo: repo, categories: categories, settings: settings}
}

// ValidPeriod reports whether p names a known analysis period.
func ValidPeriod(p string) bool { return p == PeriodWeek || p == PeriodMonth || p == PeriodYear }

// Range is a half-open date interval [Start, End).
type Range struct{ Start, End time.Time }

func (r Range) contains(d time.Time) bool { return !d.Before(r.Start) && d.Before(r.End) }

// Days is the number of calendar days in r.
func (r Range) Days() int { return int(r.End.Sub(r.Start).Hours() / 24) }

func MonthRange(now time.Time, offset int) Range {
    y, m, _ := now.Date()
    start := time.Date(y, m+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
    return Range{Start: start, End: start.AddDate(0, 1, 0)}
}

// WeekRange is the Sunday-to-Saturday week containing now.
func WeekRange(now time.Time) Range {
    day := ledger.DateOf(now)
    start := day.AddDate(0, 0, -int(day.Weekday()))
    return Range{Start: start, End: start.AddDate(0, 0, 7)}
}

func YearRange(now time.Time) Range {
    start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
    return Range{Start: start, End: start.AddDate(1, 0, 0)}
}

func within(txs []ledger.Transaction, r Range) []ledger.Transaction {
    out := make([]ledger.Transaction, 0, len(txs))
    for _, t := range txs {
        if r.contains(ledger.DateOf(t.Date)) { out = append(out, t) }
    }
    return out
}

// Totals sums income and expense; transfers move money between accounts and count as neither.
func Totals(txs []ledger.Transaction) (income, expense decimal.Decimal) {
    income, expense = decimal.Zero, decimal.Zero
    for _, t := range txs {
        switch t.Type {
        case ledger.TransactionIncome:
            income = income.Add(t.Amount)
        case ledger.TransactionExpense:
            expense = expense.Add(t.Amount)
        }
    }
    return income, expense
}

// percentOf returns part/whole*100 rounded to 2 places, or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
    if whole.IsZero() { return decimal.Zero }
    return part.Div(whole).Mul(hundred).Round(2)
}

func clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
    if d.LessThan(lo) { return lo }
    if d.GreaterThan(hi) { return hi }
    return d
}

func (s *service) Summary(ctx context.Context, now time.Time) (Summary, error) {
    txs, err := s.repo.ListTransactions(ctx)
    if err != nil { return Summary{}, err }
    month := MonthRange(now, 0)
    income, expense := Totals(within(txs, month))
    today := ledger.DateOf(now)
    _, todayExpense := Totals(within(txs, Range{Start: today, End: today.AddDate(0, 0, 1)}))
    savings := income.Sub(expense)
    pct := percentOf(savings, income)
    return Summary{
        Month:           month.Start.Format("2006-01"),
        Income:          income,
        Expense:         expense,
        Balance:         savings,
        TodayExpense:    todayExpense,
        Savings:         savings,
        SavingsPercent:  pct,
        SavingsProgress: clamp(pct, decimal.Zero, hundred),
        Recent:          transaction.MostRecent(txs, RecentLimit),
    }, nil
}

// StatusFor grades spending against a budget. A non-positive budget is unset.
func StatusFor(budget, spent decimal.Decimal) BudgetStatus {
    st := BudgetStatus{Budget: budget, Spent: spent, Remaining: budget.Sub(spent), Status: BudgetUnset}
    if !budget.IsPositive() { return st }
    st.Percent = percentOf(spent, budget)
    switch {
    case st.Percent.GreaterThan(hundred):
        st.Status = BudgetExceeded
    case st.Percent.GreaterThan(decimal.NewFromInt(80)):
        st.Status = BudgetWarning
    default:
        st.Status = BudgetOK
    }
    return st
}

func (s *service) Budget(ctx context.Context, now time.Time) (BudgetStatus, error) {
    budget, _, err := s.settings.MonthlyBudget(ctx)
    if err != nil { return BudgetStatus{}, err }
    txs, err := s.repo.ListTransactions(ctx)
    if err != nil { return BudgetStatus{}, err }
    _, spent := Totals(within(txs, MonthRange(now, 0)))
    return StatusFor(budget, spent), nil
}

var (
    weekLabels  = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
    monthLabels = []string{"Week 1", "Week 2", "Week 3", "Week 4", "Week 5"}
    yearLabels  = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

func (s *service) Analysis(ctx context.Context, period string, now time.Time) (Analysis, error) {
    var (
        r      Range
        labels []string
        bucket func(time.Time) int
    )
    switch period {
    case PeriodWeek:
        r, labels = WeekRange(now), weekLabels
        bucket = func(d time.Time) int { return int(d.Weekday()) }
    case PeriodYear:
        r, labels = YearRange(now), yearLabels
        bucket = func(d time.Time) int { return int(d.Month()) - 1 }
    default:
        period = PeriodMonth
        r, labels = MonthRange(now, 0), monthLabels
        bucket = func(d time.Time) int { return (d.Day() - 1) / 7 }
    }
    txs, err := s.repo.ListTransactions(ctx)
    if err != nil { return Analysis{}, err }

    series := make([]decimal.Decimal, len(labels))
    for i := range series { series[i] = decimal.Zero }
    var expenses []ledger.Transaction
    for _, t := range within(txs, r) {
        if t.Type != ledger.TransactionExpense { continue }
        expenses = append(expenses, t)
        if i := bucket(t.Date); i >= 0 && i < len(series) { series[i] = series[i].Add(t.Amount) }
    }

    colors, err := s.categoryColors(ctx)
    if err != nil { return Analysis{}, err }
    breakdown := ByCategory(expenses, colors)
    _, total := Totals(expenses)
    a := Analysis{
        Period:       period,
        Start:        r.Start,
        End:          r.End,
        Labels:       append([]string(nil), labels...),
        Series:       series,
        Categories:   breakdown,
        TotalExpense: total,
        AverageDaily: total.Div(decimal.NewFromInt(int64(r.Days()))).Round(2),
    }
    if len(breakdown) > 0 {
        top := breakdown[0]
        a.Highest = &top
    }
    if period == PeriodMonth {
        budget, ok, err := s.settings.MonthlyBudget(ctx)
        if err != nil { return Analysis{}, err }
        if ok {
            st := StatusFor(budget, total)
            a.Budget = &st
        }
    }
    return a, nil
}

func (s *service) categoryColors(ctx context.Context) (map[string]string, error) {
    cats, err := s.categories.List(ctx, "")
    if err != nil { return nil, err }
    out := make(map[string]string, len(cats))
    for _, c := range cats { out[strings.ToLower(c.Name)] = c.Color }
    return out, nil
}

// ByCategory groups txs by category name, largest total first, ties by name.
func ByCategory(txs []ledger.Transaction, colors map[string]string) []CategoryTotal {
    idx := map[string]int{}
    var out []CategoryTotal
    for _, t := range txs {
        i, ok := idx[t.Category]
        if !ok {
            i = len(out)
            idx[t.Category] = i
            out = append(out, CategoryTotal{Name: t.Category, Total: decimal.Zero, Color: colors[strings.ToLower(t.Category)]})
        }
        out[i].Total = out[i].Total.Add(t.Amount)
    }
    sort.SliceStable(out, func(i, j int) bool {
        if !out[i].Total.Equal(out[j].Total) { return out[i].Total.GreaterThan(out[j].Total) }
        return out[i].Name < out[j].Name
    })
    return out
}

func (s *service) Insights(ctx context.Context, now time.Time) ([]Insight, error) {
    txs, err := s.repo.ListTransactions(ctx)
    if err != nil { return nil, err }
    current := within(txs, MonthRange(now, 0))
    previous := within(txs, MonthRange(now, -1))
    return Compare(current, previous), nil
}

// Compare derives insights for the current month against the previous one.
func Compare(current, previous []ledger.Transaction) []Insight {
    income, expense := Totals(current)
    _, lastExpense := Totals(previous)
    var out []Insight

    if lastExpense.IsPositive() {
        change := percentOf(expense.Sub(lastExpense), lastExpense)
        switch {
        case change.IsPositive():
            out = append(out, Insight{Kind: InsightWarning, Code: "spending_up", Message: "Spending is up " + change.String() + "% compared to last month", Value: change})
        case change.IsNegative():
            out = append(out, Insight{Kind: InsightSuccess, Code: "spending_down", Message: "Spending is down " + change.Abs().String() + "% compared to last month", Value: change})
        }
    }

    var expenses []ledger.Transaction
    for _, t := range current {
        if t.Type == ledger.TransactionExpense { expenses = append(expenses, t) }
    }
    if cats := ByCategory(expenses, nil); len(cats) > 0 {
        out = append(out, Insight{Kind: InsightInfo, Code: "top_category", Message: "Most spent on " + cats[0].Name, Value: cats[0].Total})
    }

    if income.IsPositive() {
        rate := percentOf(income.Sub(expense), income)
        kind := InsightSuccess
        if !rate.IsPositive() { kind = InsightWarning }
        out = append(out, Insight{Kind: kind, Code: "savings_rate", Message: "Savings rate is " + rate.String() + "%", Value: rate})
    }
    if expense.GreaterThan(income) {
        over := expense.Sub(income)
        out = append(out, Insight{Kind: InsightWarning, Code: "overspending", Message: "Expenses exceed income by " + over.String(), Value: over})
    }
    return out
}

// Balances reports every account's derived balance in the settings currency.
func (s *service) Balances(ctx context.Context) ([]BalanceLine, error) {
    currency, err := s.settings.Currency(ctx)
    if err != nil { return nil, err }
    accounts, err := s.repo.ListAccounts(ctx)
    if err != nil { return nil, err }
    txs, err := s.repo.ListTransactions(ctx)
    if err != nil { return nil, err }
    rows := balance.Balances(accounts, txs)
    out := make([]BalanceLine, 0, len(rows))
    for _, row := range rows {
        units, err := ledger.MinorUnits(currency, row.Balance)
        if err != nil { return nil, err }
        out = append(out, BalanceLine{Account: row.Account, Balance: row.Balance, Currency: currency, MinorUnits: units})
    }
    return out, nil
}

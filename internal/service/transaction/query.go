package transaction

import (
    "context"
    "sort"
    "strings"

    "github.com/tinoosan/fintrack/internal/ledger"
)

// Sort orders for List.
const (
    SortNewest  = "newest"
    SortOldest  = "oldest"
    SortHighest = "highest"
    SortLowest  = "lowest"
)

// Query filters and orders a transaction listing. Zero value lists everything newest first.
type Query struct {
    // Type restricts to one transaction type; empty or "all" keeps every type.
    Type   ledger.TransactionType
    Search string
    Sort   string
}

// ValidSort reports whether s names a known sort order (empty means newest).
func ValidSort(s string) bool {
    switch s {
    case "", SortNewest, SortOldest, SortHighest, SortLowest:
        return true
    }
    return false
}

func (s *service) List(ctx context.Context, q Query) ([]ledger.Transaction, error) {
    all, err := s.repo.ListTransactions(ctx)
    if err != nil { return nil, err }
    return Apply(all, q), nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]ledger.Transaction, error) {
    all, err := s.repo.ListTransactions(ctx)
    if err != nil { return nil, err }
    return MostRecent(all, limit), nil
}

// Apply filters txs by type and search text, then sorts per q.Sort. txs is not modified.
func Apply(txs []ledger.Transaction, q Query) []ledger.Transaction {
    needle := strings.ToLower(strings.TrimSpace(q.Search))
    out := make([]ledger.Transaction, 0, len(txs))
    for _, t := range txs {
        if q.Type != "" && q.Type != "all" && t.Type != q.Type { continue }
        if needle != "" && !matches(t, needle) { continue }
        out = append(out, t)
    }
    sort.SliceStable(out, func(i, j int) bool {
        a, b := out[i], out[j]
        switch q.Sort {
        case SortOldest:
            return chronological(a, b)
        case SortHighest:
            return a.Amount.GreaterThan(b.Amount)
        case SortLowest:
            return a.Amount.LessThan(b.Amount)
        default:
            return chronological(b, a)
        }
    })
    return out
}

// chronological orders by date, then by createdAt within the same date.
func chronological(a, b ledger.Transaction) bool {
    if !a.Date.Equal(b.Date) { return a.Date.Before(b.Date) }
    return a.CreatedAt.Before(b.CreatedAt)
}

func matches(t ledger.Transaction, needle string) bool {
    for _, field := range []string{t.Category, t.Note, t.PaymentMethod, t.TransferFrom, t.TransferTo, t.Amount.String()} {
        if field != "" && strings.Contains(strings.ToLower(field), needle) { return true }
    }
    return false
}

// MostRecent returns up to limit transactions ordered by createdAt, newest first.
func MostRecent(txs []ledger.Transaction, limit int) []ledger.Transaction {
    out := append([]ledger.Transaction(nil), txs...)
    sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
    if limit > 0 && len(out) > limit { out = out[:limit] }
    return out
}

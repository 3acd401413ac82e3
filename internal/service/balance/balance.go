// Package balance derives account balances by folding the transaction list.
// Nothing is cached: every call reads the current transactions.
package balance

import (
    "context"
    "errors"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"
    "github.com/tinoosan/fintrack/internal/ledger"
)

// ComputeBalance folds transactions into the signed balance of the account named accountName.
// Income and transfer-in add, expense and transfer-out subtract, everything else is ignored.
// When excludeID is not uuid.Nil exactly one record with that id is left out.
func ComputeBalance(accountName string, transactions []ledger.Transaction, excludeID uuid.UUID) decimal.Decimal {
    return fold(Ref{Name: accountName}, transactions, excludeID)
}

// Ref identifies the account a fold is for. A record that carries an account ID is
// matched by ID; a record without one (legacy data) is matched by name.
type Ref struct {
    ID   uuid.UUID
    Name string
}

// RefOf builds the fold reference for a registered account.
func RefOf(a ledger.Account) Ref { return Ref{ID: a.ID, Name: a.Name} }

func (r Ref) matches(id uuid.UUID, name string) bool {
    if r.ID != uuid.Nil && id != uuid.Nil {
        return r.ID == id
    }
    return name != "" && name == r.Name
}

// AccountBalance is ComputeBalance keyed by stable account identity.
func AccountBalance(ref Ref, transactions []ledger.Transaction, excludeID uuid.UUID) decimal.Decimal {
    return fold(ref, transactions, excludeID)
}

// Contribution returns the signed effect of t on the account identified by ref.
func Contribution(ref Ref, t ledger.Transaction) decimal.Decimal {
    switch t.Type {
    case ledger.TransactionIncome:
        if ref.matches(t.PaymentMethodID, t.PaymentMethod) { return t.Amount }
    case ledger.TransactionExpense:
        if ref.matches(t.PaymentMethodID, t.PaymentMethod) { return t.Amount.Neg() }
    case ledger.TransactionTransfer:
        net := decimal.Zero
        if ref.matches(t.TransferFromID, t.TransferFrom) { net = net.Sub(t.Amount) }
        if ref.matches(t.TransferToID, t.TransferTo) { net = net.Add(t.Amount) }
        return net
    }
    return decimal.Zero
}

func fold(ref Ref, transactions []ledger.Transaction, excludeID uuid.UUID) decimal.Decimal {
    total := decimal.Zero
    excluded := excludeID == uuid.Nil
    for _, t := range transactions {
        if !excluded && t.ID == excludeID {
            excluded = true
            continue
        }
        total = total.Add(Contribution(ref, t))
    }
    return total
}

// AccountBalanceRow pairs an account with its derived balance.
type AccountBalanceRow struct {
    Account ledger.Account
    Balance decimal.Decimal
}

// Balances folds every account in a single pass over transactions.
// Rows come back in the order of accounts.
func Balances(accounts []ledger.Account, transactions []ledger.Transaction) []AccountBalanceRow {
    rows := make([]AccountBalanceRow, len(accounts))
    refs := make([]Ref, len(accounts))
    for i, a := range accounts {
        rows[i] = AccountBalanceRow{Account: a, Balance: decimal.Zero}
        refs[i] = RefOf(a)
    }
    for _, t := range transactions {
        for i := range refs {
            if c := Contribution(refs[i], t); !c.IsZero() {
                rows[i].Balance = rows[i].Balance.Add(c)
            }
        }
    }
    return rows
}

// Repo is the read side the balance service needs.
type Repo interface {
    ListTransactions(ctx context.Context) ([]ledger.Transaction, error)
    ListAccounts(ctx context.Context) ([]ledger.Account, error)
    GetAccount(ctx context.Context, id uuid.UUID) (ledger.Account, error)
}

type Service interface {
    // Balance returns the current balance of a registered account.
    Balance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
    // BalanceByName folds by name only, matching records exactly as ComputeBalance does.
    BalanceByName(ctx context.Context, name string) (decimal.Decimal, error)
    Balances(ctx context.Context) ([]AccountBalanceRow, error)
}

type service struct {
    repo Repo
}

func New(repo Repo) Service { return &service{repo: repo} }

func (s *service) Balance(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
    if accountID == uuid.Nil { return decimal.Zero, errors.New("account_id is required") }
    acc, err := s.repo.GetAccount(ctx, accountID)
    if err != nil { return decimal.Zero, err }
    txs, err := s.repo.ListTransactions(ctx)
    if err != nil { return decimal.Zero, err }
    return AccountBalance(RefOf(acc), txs, uuid.Nil), nil
}

func (s *service) BalanceByName(ctx context.Context, name string) (decimal.Decimal, error) {
    txs, err := s.repo.ListTransactions(ctx)
    if err != nil { return decimal.Zero, err }
    return ComputeBalance(name, txs, uuid.Nil), nil
}

func (s *service) Balances(ctx context.Context) ([]AccountBalanceRow, error) {
    accs, err := s.repo.ListAccounts(ctx)
    if err != nil { return nil, err }
    txs, err := s.repo.ListTransactions(ctx)
    if err != nil { return nil, err }
    return Balances(accs, txs), nil
}

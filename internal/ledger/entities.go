package ledger

import (
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"
    "github.com/tinoosan/fintrack/internal/meta"
)

// TransactionType encodes the direction of a transaction. Amounts are always positive.
type TransactionType string

const (
	// TransactionIncome adds to the payment method it names.
	TransactionIncome TransactionType = "income"
	// TransactionExpense subtracts from the payment method it names.
	TransactionExpense TransactionType = "expense"
	// TransactionTransfer moves value from one account to another.
	TransactionTransfer TransactionType = "transfer"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
    switch t {
    case TransactionIncome, TransactionExpense, TransactionTransfer:
        return true
    }
    return false
}

// Placeholder values a form submits while the user is still creating a new
// category or payment method. They never name a real record.
const (
    SentinelNewCategory      = "__add_new__"
    SentinelNewPaymentMethod = "__add_new_payment__"
)

// IsSentinel reports whether s is one of the "add new" placeholders.
func IsSentinel(s string) bool {
    return s == SentinelNewCategory || s == SentinelNewPaymentMethod
}

// Transaction is the single mutable financial fact.
// Income and expense use Category + PaymentMethod; transfers use TransferFrom + TransferTo.
// Account references carry both the stable account ID and the name at the time of
// writing. A zero ID means the record predates stable IDs and is attributed by name.
type Transaction struct {
    ID              uuid.UUID
    Type            TransactionType
    Amount          decimal.Decimal
    Category        string
    PaymentMethod   string
    PaymentMethodID uuid.UUID
    TransferFrom    string
    TransferFromID  uuid.UUID
    TransferTo      string
    TransferToID    uuid.UUID
    // Date is the user-assigned calendar date (midnight UTC).
    Date      time.Time
    CreatedAt time.Time
    Note      string
}

// IsTransfer is shorthand for Type == TransactionTransfer.
func (t Transaction) IsTransfer() bool { return t.Type == TransactionTransfer }

// Account is a named bucket ("payment method"). Its balance is always derived.
type Account struct {
    ID    uuid.UUID
    Name  string
    Icon  string
    Color string
}

// CategoryType tells which transaction types a category applies to.
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
	CategoryBoth    CategoryType = "both"
)

// Valid reports whether c is a known category type.
func (c CategoryType) Valid() bool {
    return c == CategoryIncome || c == CategoryExpense || c == CategoryBoth
}

// Applies reports whether a category of type c can label a transaction of type t.
func (c CategoryType) Applies(t TransactionType) bool {
    if c == CategoryBoth {
        return t == TransactionIncome || t == TransactionExpense
    }
    return string(c) == string(t)
}

// Category is a typed label used for grouping. It has no effect on balances.
type Category struct {
    ID    uuid.UUID
    Name  string
    Type  CategoryType
    Icon  string
    Color string
}

// Setting keys of the flat settings collection.
const (
    SettingCurrency      = "currency"
    SettingLanguage      = "language"
    SettingTheme         = "theme"
    SettingMonthlyBudget = "monthlyBudget"
    SettingUserName      = "userName"
)

// Dataset is the complete store content, used for backup and restore.
type Dataset struct {
    Transactions   []Transaction
    Categories     []Category
    PaymentMethods []Account
    Settings       meta.Metadata
}

// DateOf truncates t to its calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
    y, m, d := t.Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date. RFC3339 timestamps are accepted and truncated.
func ParseDate(s string) (time.Time, error) {
    s = strings.TrimSpace(s)
    if t, err := time.Parse(time.DateOnly, s); err == nil {
        return t, nil
    }
    t, err := time.Parse(time.RFC3339, s)
    if err != nil {
        return time.Time{}, err
    }
    return DateOf(t), nil
}

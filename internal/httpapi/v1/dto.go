package v1

import (
    "bytes"
    "encoding/json"
    "time"

    "github.com/google/uuid"
    "github.com/shopspring/decimal"
    "github.com/tinoosan/fintrack/internal/ledger"
    "github.com/tinoosan/fintrack/internal/service/transaction"
)

// amountText keeps the raw amount so the editor can reject missing or
// non-numeric input itself. It accepts a JSON number or a string.
type amountText string

func (a *amountText) UnmarshalJSON(b []byte) error {
    b = bytes.TrimSpace(b)
    if bytes.Equal(b, []byte("null")) { *a = ""; return nil }
    if len(b) > 0 && b[0] == '"' {
        var s string
        if err := json.Unmarshal(b, &s); err != nil { return err }
        *a = amountText(s)
        return nil
    }
    *a = amountText(b)
    return nil
}

// transactionRequest is the create/edit form. Which fields matter depends on type.
type transactionRequest struct {
    Type          string     `json:"type"`
    Amount        amountText `json:"amount"`
    Category      string     `json:"category" validate:"max=64"`
    PaymentMethod string     `json:"paymentMethod" validate:"max=64"`
    TransferFrom  string     `json:"transferFrom" validate:"max=64"`
    TransferTo    string     `json:"transferTo" validate:"max=64"`
    Date          string     `json:"date" validate:"omitempty,calendar_date"`
    Note          string     `json:"note" validate:"max=500"`
}

func (req transactionRequest) draft() transaction.Draft {
    d := transaction.Draft{
        Type:          ledger.TransactionType(req.Type),
        Amount:        string(req.Amount),
        Category:      req.Category,
        PaymentMethod: req.PaymentMethod,
        TransferFrom:  req.TransferFrom,
        TransferTo:    req.TransferTo,
        Note:          req.Note,
    }
    if req.Date != "" { d.Date, _ = ledger.ParseDate(req.Date) }
    return d
}

type transactionResponse struct {
    ID              uuid.UUID              `json:"id"`
    Type            ledger.TransactionType `json:"type"`
    Amount          decimal.Decimal        `json:"amount"`
    Category        string                 `json:"category,omitempty"`
    PaymentMethod   string                 `json:"paymentMethod,omitempty"`
    PaymentMethodID string                 `json:"paymentMethodId,omitempty"`
    TransferFrom    string                 `json:"transferFrom,omitempty"`
    TransferFromID  string                 `json:"transferFromId,omitempty"`
    TransferTo      string                 `json:"transferTo,omitempty"`
    TransferToID    string                 `json:"transferToId,omitempty"`
    Date            string                 `json:"date"`
    CreatedAt       time.Time              `json:"createdAt"`
    Note            string                 `json:"note,omitempty"`
}

func idString(id uuid.UUID) string {
    if id == uuid.Nil { return "" }
    return id.String()
}

func toTransactionResponse(t ledger.Transaction) transactionResponse {
    return transactionResponse{
        ID:              t.ID,
        Type:            t.Type,
        Amount:          t.Amount,
        Category:        t.Category,
        PaymentMethod:   t.PaymentMethod,
        PaymentMethodID: idString(t.PaymentMethodID),
        TransferFrom:    t.TransferFrom,
        TransferFromID:  idString(t.TransferFromID),
        TransferTo:      t.TransferTo,
        TransferToID:    idString(t.TransferToID),
        Date:            t.Date.Format(time.DateOnly),
        CreatedAt:       t.CreatedAt,
        Note:            t.Note,
    }
}

func toTransactionResponses(txs []ledger.Transaction) []transactionResponse {
    out := make([]transactionResponse, 0, len(txs))
    for _, t := range txs { out = append(out, toTransactionResponse(t)) }
    return out
}

type accountRequest struct {
    Name  string `json:"name" validate:"required,max=64"`
    Icon  string `json:"icon" validate:"max=64"`
    Color string `json:"color" validate:"omitempty,hex_color"`
}

type accountResponse struct {
    ID    uuid.UUID `json:"id"`
    Name  string    `json:"name"`
    Icon  string    `json:"icon,omitempty"`
    Color string    `json:"color,omitempty"`
}

func toAccountResponse(a ledger.Account) accountResponse {
    return accountResponse{ID: a.ID, Name: a.Name, Icon: a.Icon, Color: a.Color}
}

type accountBalanceResponse struct {
    AccountID uuid.UUID       `json:"account_id"`
    Name      string          `json:"name"`
    Balance   decimal.Decimal `json:"balance"`
}

type categoryRequest struct {
    Name  string `json:"name" validate:"required,max=64"`
    Type  string `json:"type" validate:"required,category_type"`
    Icon  string `json:"icon" validate:"max=64"`
    Color string `json:"color" validate:"omitempty,hex_color"`
}

func (req categoryRequest) category(id uuid.UUID) ledger.Category {
    return ledger.Category{ID: id, Name: req.Name, Type: ledger.CategoryType(req.Type), Icon: req.Icon, Color: req.Color}
}

type categoryResponse struct {
    ID    uuid.UUID           `json:"id"`
    Name  string              `json:"name"`
    Type  ledger.CategoryType `json:"type"`
    Icon  string              `json:"icon"`
    Color string              `json:"color,omitempty"`
}

func toCategoryResponse(c ledger.Category) categoryResponse {
    return categoryResponse{ID: c.ID, Name: c.Name, Type: c.Type, Icon: c.Icon, Color: c.Color}
}

type settingRequest struct {
    Value string `json:"value" validate:"max=256"`
}

type pinRequest struct {
    CurrentPIN string `json:"currentPin" validate:"omitempty,len=4,numeric"`
    PIN        string `json:"pin" validate:"required,len=4,numeric"`
}

type verifyPINRequest struct {
    PIN string `json:"pin" validate:"required,len=4,numeric"`
}

type appLockRequest struct {
    Enabled *bool `json:"enabled" validate:"required"`
}

package backup

import (
    "bytes"
    "encoding/json"
    "fmt"
    "strings"
    "time"

    "github.com/shopspring/decimal"
    "gopkg.in/yaml.v3"

    "github.com/tinoosan/fintrack/internal/ledger"
)

// FormatVersion is written into every exported document.
const FormatVersion = 1

// Document is the backup file. A nil collection was absent from the file;
// an empty one was present and empty.
type Document struct {
    Version        int               `json:"version" yaml:"version"`
    ExportDate     time.Time         `json:"exportDate" yaml:"exportDate"`
    Transactions   []TransactionDoc  `json:"transactions" yaml:"transactions"`
    Categories     []CategoryDoc     `json:"categories" yaml:"categories"`
    PaymentMethods []AccountDoc      `json:"paymentMethods" yaml:"paymentMethods"`
    Settings       map[string]string `json:"settings" yaml:"settings"`
}

func (d Document) hasContent() bool {
    return d.Transactions != nil || d.Categories != nil || d.PaymentMethods != nil || d.Settings != nil
}

type TransactionDoc struct {
    ID              ID     `json:"id" yaml:"id"`
    Type            string `json:"type" yaml:"type"`
    Amount          Number `json:"amount" yaml:"amount"`
    Category        string `json:"category,omitempty" yaml:"category,omitempty"`
    PaymentMethod   string `json:"paymentMethod,omitempty" yaml:"paymentMethod,omitempty"`
    PaymentMethodID ID     `json:"paymentMethodId,omitempty" yaml:"paymentMethodId,omitempty"`
    TransferFrom    string `json:"transferFrom,omitempty" yaml:"transferFrom,omitempty"`
    TransferFromID  ID     `json:"transferFromId,omitempty" yaml:"transferFromId,omitempty"`
    TransferTo      string `json:"transferTo,omitempty" yaml:"transferTo,omitempty"`
    TransferToID    ID     `json:"transferToId,omitempty" yaml:"transferToId,omitempty"`
    Date            string `json:"date" yaml:"date"`
    CreatedAt       string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
    Note            string `json:"note,omitempty" yaml:"note,omitempty"`
}

// CategoryDoc keeps the legacy "emoji" field name; "icon" is read as well.
type CategoryDoc struct {
    ID    ID     `json:"id" yaml:"id"`
    Name  string `json:"name" yaml:"name"`
    Type  string `json:"type" yaml:"type"`
    Emoji string `json:"emoji,omitempty" yaml:"emoji,omitempty"`
    Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
    Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

type AccountDoc struct {
    ID    ID     `json:"id" yaml:"id"`
    Name  string `json:"name" yaml:"name"`
    Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
    Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// ID is a record id as found in a backup: a UUID, or a legacy number or string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
    b = bytes.TrimSpace(b)
    if bytes.Equal(b, []byte("null")) { *id = ""; return nil }
    if len(b) > 0 && b[0] == '"' {
        var s string
        if err := json.Unmarshal(b, &s); err != nil { return err }
        *id = ID(strings.TrimSpace(s))
        return nil
    }
    var n json.Number
    if err := json.Unmarshal(b, &n); err != nil { return fmt.Errorf("id: %w", err) }
    *id = ID(n.String())
    return nil
}

// Number is an amount written as a bare JSON/YAML number without losing precision.
type Number decimal.Decimal

func (n Number) Decimal() decimal.Decimal { return decimal.Decimal(n) }

func (n Number) MarshalJSON() ([]byte, error) { return []byte(n.Decimal().String()), nil }

func (n *Number) UnmarshalJSON(b []byte) error {
    s := strings.Trim(strings.TrimSpace(string(b)), `"`)
    if s == "" || s == "null" { *n = Number(decimal.Zero); return nil }
    d, err := ledger.ParseAmount(s)
    if err != nil { return fmt.Errorf("amount: %w", err) }
    *n = Number(d)
    return nil
}

func (n Number) MarshalYAML() (interface{}, error) {
    return &yaml.Node{Kind: yaml.ScalarNode, Value: n.Decimal().String()}, nil
}

func (n *Number) UnmarshalYAML(node *yaml.Node) error {
    s := strings.TrimSpace(node.Value)
    if s == "" { *n = Number(decimal.Zero); return nil }
    d, err := ledger.ParseAmount(s)
    if err != nil { return fmt.Errorf("amount: %w", err) }
    *n = Number(d)
    return nil
}

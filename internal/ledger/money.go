package ledger

import (
    "fmt"
    "math"
    "math/big"
    "strings"

    "github.com/govalues/money"
    "github.com/shopspring/decimal"
)

// DefaultCurrency is the display currency used until the user picks another.
const DefaultCurrency = "BDT"

// ValidCurrency reports whether code is a known ISO 4217 currency.
func ValidCurrency(code string) bool {
    _, err := money.NewAmountFromMinorUnits(strings.ToUpper(strings.TrimSpace(code)), 0)
    return err == nil
}

// Amounts outside these bounds are rejected on entry.
const (
    MaxAmountScale  = 18
    MaxAmountDigits = 15
)

// ParseAmount parses a decimal amount with at most MaxAmountDigits integer digits
// and MaxAmountScale fractional digits. Sign is not checked.
func ParseAmount(raw string) (decimal.Decimal, error) {
    d, err := decimal.NewFromString(strings.TrimSpace(raw))
    if err != nil { return decimal.Zero, err }
    if err := checkBounds(d); err != nil { return decimal.Zero, err }
    return d, nil
}

func checkBounds(d decimal.Decimal) error {
    exp := int64(d.Exponent())
    if exp < -MaxAmountScale { return fmt.Errorf("more than %d decimal places", MaxAmountScale) }
    digits := int64(len(new(big.Int).Abs(d.Coefficient()).String()))
    if digits+exp > MaxAmountDigits { return fmt.Errorf("more than %d integer digits", MaxAmountDigits) }
    return nil
}

var (
    maxUnits = decimal.NewFromInt(math.MaxInt64)
    minUnits = decimal.NewFromInt(math.MinInt64)
)

// ToMoney rounds d to the minor units of code. Currency only affects display;
// stored amounts stay as entered.
func ToMoney(code string, d decimal.Decimal) (money.Amount, error) {
    code = strings.ToUpper(strings.TrimSpace(code))
    zero, err := money.NewAmountFromMinorUnits(code, 0)
    if err != nil { return money.Amount{}, fmt.Errorf("currency %q: %w", code, err) }
    shifted := d.Shift(int32(zero.Curr().Scale())).Round(0)
    if shifted.GreaterThan(maxUnits) || shifted.LessThan(minUnits) {
        return money.Amount{}, fmt.Errorf("amount %s overflows %s minor units", d, code)
    }
    return money.NewAmountFromMinorUnits(code, shifted.IntPart())
}

// MinorUnits is ToMoney reduced to its integer minor units.
func MinorUnits(code string, d decimal.Decimal) (int64, error) {
    amt, err := ToMoney(code, d)
    if err != nil { return 0, err }
    units, ok := amt.MinorUnits()
    if !ok { return 0, fmt.Errorf("amount %s overflows minor units", d) }
    return units, nil
}

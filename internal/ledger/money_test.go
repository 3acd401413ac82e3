package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMinorUnitsRoundsToCurrencyScale(t *testing.T) {
	units, err := MinorUnits("USD", decimal.RequireFromString("12.345"))
	if err != nil {
		t.Fatalf("minor units: %v", err)
	}
	if units != 1235 {
		t.Fatalf("expected 1235, got %d", units)
	}
	units, err = MinorUnits("JPY", decimal.RequireFromString("99.6"))
	if err != nil || units != 100 {
		t.Fatalf("expected 100 yen, got %d (%v)", units, err)
	}
	if _, err := MinorUnits("NOPE", decimal.NewFromInt(1)); err == nil {
		t.Fatalf("expected error for unknown currency")
	}
}

func TestValidCurrency(t *testing.T) {
	if !ValidCurrency("bdt") || !ValidCurrency(DefaultCurrency) {
		t.Fatalf("BDT should be valid")
	}
	if ValidCurrency("") || ValidCurrency("ZZZZ") {
		t.Fatalf("blank and unknown codes should be rejected")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	if err != nil || d.Day() != 5 || d.Month() != 3 {
		t.Fatalf("unexpected date %v (%v)", d, err)
	}
	d, err = ParseDate("2024-03-05T18:30:00Z")
	if err != nil || d.Hour() != 0 || d.Day() != 5 {
		t.Fatalf("timestamp should truncate to date, got %v (%v)", d, err)
	}
	if _, err := ParseDate("05/03/2024"); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
}

func TestMinorUnitsOverflow(t *testing.T) {
	if _, err := MinorUnits("USD", decimal.RequireFromString("1e20")); err == nil {
		t.Fatalf("expected overflow error for 1e20 USD")
	}
	if _, err := MinorUnits("USD", decimal.RequireFromString("-1e20")); err == nil {
		t.Fatalf("expected overflow error for -1e20 USD")
	}
	units, err := MinorUnits("USD", decimal.RequireFromString("999999999999999.99"))
	if err != nil || units != 99999999999999999 {
		t.Fatalf("largest accepted amount should fit, got %d (%v)", units, err)
	}
}

func TestParseAmountBounds(t *testing.T) {
	for _, raw := range []string{"12.5", "999999999999999", "0.000000000000000001", "-3"} {
		if _, err := ParseAmount(raw); err != nil {
			t.Fatalf("%q should parse: %v", raw, err)
		}
	}
	for _, raw := range []string{"1e200000000", "0e999999999", "1e-19", "1000000000000000", "x"} {
		if _, err := ParseAmount(raw); err == nil {
			t.Fatalf("%q should be rejected", raw)
		}
	}
}

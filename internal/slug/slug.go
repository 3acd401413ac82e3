// Package slug normalizes display names of categories and payment methods.
package slug

import (
	"strings"
	"unicode"
)

const maxSlugLen = 40

// Key normalizes a display name for lookups and uniqueness checks:
// surrounding space trimmed, inner whitespace runs collapsed, lowercased.
// "  Mobile   Banking " and "mobile banking" share a key.
func Key(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Equal reports whether two display names refer to the same record.
func Equal(a, b string) bool { return Key(a) == Key(b) }

// Slugify turns a display name into an ASCII identifier used as a translation key:
// "Mobile Banking" -> "mobile_banking", "Food & Drinks" -> "food_drinks".
// Runs of separators collapse to one underscore and the result is capped at 40 bytes.
func Slugify(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '_' || unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	var b strings.Builder
	for _, w := range words {
		clean := strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') { return r }
			return -1
		}, w)
		if clean == "" { continue }
		if b.Len() > 0 { b.WriteByte('_') }
		b.WriteString(clean)
		if b.Len() >= maxSlugLen { break }
	}
	out := b.String()
	if len(out) > maxSlugLen { out = strings.TrimRight(out[:maxSlugLen], "_") }
	return out
}

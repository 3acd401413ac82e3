package dictionary

import (
	"strings"

	"github.com/tinoosan/fintrack/internal/ledger"
	"github.com/tinoosan/fintrack/internal/slug"
)

// CategoryDef is a curated category seeded into an empty store.
type CategoryDef struct {
	// Key is the translation key clients use to localize Name.
	Key   string              `json:"key"`
	Name  string              `json:"name"`
	Type  ledger.CategoryType `json:"type"`
	Icon  string              `json:"icon"`
	Color string              `json:"color"`
}

// PaymentMethodDef is a curated payment method seeded into an empty store.
type PaymentMethodDef struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

const (
	// DefaultCategoryIcon is used when neither emoji nor name resolve to an icon.
	DefaultCategoryIcon = "fas fa-circle"
	// DefaultPaymentMethodIcon is used for payment methods without a curated icon.
	DefaultPaymentMethodIcon = "fa-wallet"
)

var categories = []CategoryDef{
	{Name: "Food", Type: ledger.CategoryExpense, Icon: "fas fa-utensils", Color: "#FF6B6B"},
	{Name: "Transport", Type: ledger.CategoryExpense, Icon: "fas fa-car", Color: "#4ECDC4"},
	{Name: "Bills", Type: ledger.CategoryExpense, Icon: "fas fa-file-invoice-dollar", Color: "#FFE66D"},
	{Name: "Shopping", Type: ledger.CategoryExpense, Icon: "fas fa-shopping-bag", Color: "#A8E6CF"},
	{Name: "Medical", Type: ledger.CategoryExpense, Icon: "fas fa-hospital", Color: "#FF8B94"},
	{Name: "Education", Type: ledger.CategoryExpense, Icon: "fas fa-graduation-cap", Color: "#95E1D3"},
	{Name: "Rent", Type: ledger.CategoryExpense, Icon: "fas fa-home", Color: "#F38181"},
	{Name: "Salary", Type: ledger.CategoryIncome, Icon: "fas fa-money-bill-wave", Color: "#34C759"},
	{Name: "Investment", Type: ledger.CategoryIncome, Icon: "fas fa-chart-line", Color: "#5AC8FA"},
	{Name: "Others", Type: ledger.CategoryBoth, Icon: "fas fa-plus-circle", Color: "#8E8E93"},
}

var paymentMethods = []PaymentMethodDef{
	{Name: "Cash", Icon: "fa-money-bill-wave"},
	{Name: "Card", Icon: "fa-credit-card"},
	{Name: "Mobile Banking", Icon: "fa-mobile-alt"},
	{Name: "Bank", Icon: "fa-university"},
}

var emojiIcons = map[string]string{
	"🍔": "fas fa-utensils",
	"🚗": "fas fa-car",
	"💡": "fas fa-file-invoice-dollar",
	"🛍️": "fas fa-shopping-bag",
	"🏥": "fas fa-hospital",
	"📚": "fas fa-graduation-cap",
	"🏠": "fas fa-home",
	"💰": "fas fa-money-bill-wave",
	"📈": "fas fa-chart-line",
	"➕": "fas fa-plus-circle",
	"🎮": "fas fa-gamepad",
	"☕": "fas fa-coffee",
	"🎬": "fas fa-film",
	"✈️": "fas fa-plane",
	"🎁": "fas fa-gift",
	"💊": "fas fa-pills",
	"🔧": "fas fa-tools",
	"💻": "fas fa-laptop-code",
	"🎵": "fas fa-music",
	"🎭": "fas fa-theater-masks",
}

// keywordIcons is checked in order; the first rule with a matching keyword wins.
var keywordIcons = []struct {
	keywords []string
	icon     string
}{
	{[]string{"food"}, "fas fa-utensils"},
	{[]string{"transport"}, "fas fa-car"},
	{[]string{"bill"}, "fas fa-file-invoice-dollar"},
	{[]string{"shop"}, "fas fa-shopping-bag"},
	{[]string{"medical", "health"}, "fas fa-hospital"},
	{[]string{"education", "school"}, "fas fa-graduation-cap"},
	{[]string{"rent", "home"}, "fas fa-home"},
	{[]string{"salary", "income"}, "fas fa-money-bill-wave"},
	{[]string{"investment"}, "fas fa-chart-line"},
	{[]string{"freelance", "work"}, "fas fa-laptop-code"},
	{[]string{"entertainment", "fun"}, "fas fa-theater-masks"},
	{[]string{"game", "gaming"}, "fas fa-gamepad"},
	{[]string{"coffee", "cafe"}, "fas fa-coffee"},
	{[]string{"movie", "film"}, "fas fa-film"},
	{[]string{"travel", "trip"}, "fas fa-plane"},
	{[]string{"gift", "present"}, "fas fa-gift"},
	{[]string{"medicine", "pharmacy"}, "fas fa-pills"},
	{[]string{"repair", "maintenance"}, "fas fa-tools"},
	{[]string{"music", "concert"}, "fas fa-music"},
}

// Categories returns a copy of the curated default categories with their keys set.
func Categories() []CategoryDef {
	out := append([]CategoryDef(nil), categories...)
	for i := range out {
		out[i].Key = slug.Slugify(out[i].Name)
	}
	return out
}

// PaymentMethods returns a copy of the curated default payment methods with their keys set.
func PaymentMethods() []PaymentMethodDef {
	out := append([]PaymentMethodDef(nil), paymentMethods...)
	for i := range out {
		out[i].Key = slug.Slugify(out[i].Name)
	}
	return out
}

// CategoryIcon resolves a display icon for a category. An icon class passes through,
// an emoji is looked up, and otherwise the name is matched against keyword rules.
func CategoryIcon(icon, name string) string {
	if strings.HasPrefix(icon, "fa") {
		return icon
	}
	if mapped, ok := emojiIcons[icon]; ok {
		return mapped
	}
	lower := strings.ToLower(name)
	for _, rule := range keywordIcons {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.icon
			}
		}
	}
	return DefaultCategoryIcon
}

// PaymentMethodIcon returns the curated icon for a known payment method name and
// reports whether the name was known.
func PaymentMethodIcon(name string) (string, bool) {
	for _, pm := range paymentMethods {
		if slug.Equal(pm.Name, name) {
			return pm.Icon, true
		}
	}
	return DefaultPaymentMethodIcon, false
}

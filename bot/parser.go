package bot

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseExpense extracts an (amount, category, note) triple from one line
// of text. A leading "/spent" or "add" token is stripped, so "50 food
// lunch" and "/spent 50 food lunch" parse identically. Commas in the
// amount token are ignored ("1,200" reads as 1200). Returns ok=false
// when there is no amount or it is not a plain decimal.
func ParseExpense(text string) (amount decimal.Decimal, category, note string, ok bool) {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "/spent") {
		t = strings.TrimSpace(strings.TrimPrefix(t, "/spent"))
	}
	if strings.HasPrefix(strings.ToLower(t), "add ") {
		t = strings.TrimSpace(t[len("add "):])
	}

	parts := strings.Fields(t)
	if len(parts) == 0 {
		return decimal.Decimal{}, "", "", false
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(parts[0], ",", ""))
	if err != nil {
		return decimal.Decimal{}, "", "", false
	}
	if len(parts) > 1 {
		category = parts[1]
	}
	if len(parts) > 2 {
		note = strings.Join(parts[2:], " ")
	}
	return amount, category, note, true
}

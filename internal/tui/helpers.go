package tui

import (
	"unicode/utf8"

	"github.com/andy/proinvoice/internal/render"
	"github.com/shopspring/decimal"
)

// formatMoney formats an amount the way printed invoices do
func formatMoney(amount decimal.Decimal, currency string) string {
	return render.Money(amount, currency)
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// clampCursor keeps a list cursor inside [0, n)
func clampCursor(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.French)

// zeroDecimalCurrencies are printed without minor units
var zeroDecimalCurrencies = map[string]bool{
	"FCFA": true,
	"XAF":  true,
	"XOF":  true,
	"CFA":  true,
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// normalizeSpaces turns the locale's non-breaking group separators into plain spaces
func normalizeSpaces(s string) string {
	return strings.NewReplacer("\u202f", " ", "\u00a0", " ").Replace(s)
}

// Money formats an amount the French way ("1 234,50 EUR"), followed by the currency
func Money(amount decimal.Decimal, currency string) string {
	scale := 2
	if zeroDecimalCurrencies[strings.ToUpper(currency)] {
		scale = 0
	}
	f, _ := amount.Round(int32(scale)).Float64()
	s := normalizeSpaces(printer.Sprint(number.Decimal(f, number.Scale(scale))))
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// Quantity formats a quantity with a decimal comma and no trailing zeros
func Quantity(q decimal.Decimal) string {
	return strings.Replace(q.String(), ".", ",", 1)
}

// Rate formats a tax percentage ("19,25%")
func Rate(r decimal.Decimal) string {
	return Quantity(r) + "%"
}

// LongDate formats a date as "5 mars 2024"
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}

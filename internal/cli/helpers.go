package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/render"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// parseDate accepts YYYY-MM-DD, DD/MM/YYYY, "today" and "tomorrow"
func parseDate(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return domain.DateOf(now), nil
	case "tomorrow":
		return domain.DateOf(now).AddDate(0, 0, 1), nil
	}
	for _, layout := range []string{dateLayout, "02/01/2006"} {
		if t, err := time.ParseInLocation(layout, strings.TrimSpace(s), time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("expected format: YYYY-MM-DD, DD/MM/YYYY, 'today' or 'tomorrow'")
}

// parseDecimal accepts both "1.5" and "1,5"
func parseDecimal(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// parseItemSpec reads "description:quantity:unit price"
func parseItemSpec(spec string) (domain.InvoiceItem, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return domain.InvoiceItem{}, fmt.Errorf("item %q: expected description:quantity:price", spec)
	}
	qty, err := parseDecimal(parts[1])
	if err != nil {
		return domain.InvoiceItem{}, fmt.Errorf("item %q: %w", spec, err)
	}
	price, err := parseDecimal(parts[2])
	if err != nil {
		return domain.InvoiceItem{}, fmt.Errorf("item %q: %w", spec, err)
	}
	return domain.NewInvoiceItem(parts[0], qty, price), nil
}

// parseServiceSpec reads "service[:quantity]"; quantity defaults to 1
func parseServiceSpec(spec string) (string, decimal.Decimal, error) {
	ref, qtyStr, found := strings.Cut(spec, ":")
	if !found {
		return ref, decimal.NewFromInt(1), nil
	}
	qty, err := parseDecimal(qtyStr)
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("service %q: %w", spec, err)
	}
	return ref, qty, nil
}

// itemAt resolves a 1-based line position
func itemAt(inv *domain.Invoice, position string) (domain.InvoiceItem, error) {
	n, err := strconv.Atoi(position)
	if err != nil || n < 1 || n > len(inv.Items) {
		return domain.InvoiceItem{}, fmt.Errorf("line %q not found: invoice %s has %d line(s)", position, inv.Number, len(inv.Items))
	}
	return inv.Items[n-1], nil
}

func money(amount decimal.Decimal) string {
	return render.Money(amount, appInstance.Config.Invoice.Currency)
}

// shortID keeps the first block of a UUID for tables
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}

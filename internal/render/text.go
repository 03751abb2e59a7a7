package render

import (
	"fmt"
	"io"
	"strings"
)

const textWidth = 80

// TextRenderer prints a fixed-width plain-text invoice
type TextRenderer struct{}

func (TextRenderer) Extension() string { return "txt" }

func (TextRenderer) Render(w io.Writer, doc Document) error {
	var b strings.Builder
	inv := doc.Invoice
	c := doc.Company

	b.WriteString(strings.Repeat("=", textWidth) + "\n")
	fmt.Fprintf(&b, "%-40s%40s\n", strings.ToUpper(c.Name), "FACTURE")
	b.WriteString(strings.Repeat("=", textWidth) + "\n")
	writeLines(&b, c.Address, c.Email, c.Phone)
	b.WriteString("\n")

	fmt.Fprintf(&b, "N° %s\n", inv.Number)
	fmt.Fprintf(&b, "Date : %s\n", LongDate(inv.IssueDate))
	fmt.Fprintf(&b, "Échéance : %s\n", LongDate(inv.DueDate))
	b.WriteString("\n")

	b.WriteString("FACTURER À\n")
	b.WriteString(doc.ClientName() + "\n")
	if doc.Client != nil {
		writeLines(&b, doc.Client.Address, doc.Client.Phone, doc.Client.Email)
	}
	b.WriteString("\n")

	b.WriteString(strings.Repeat("-", textWidth) + "\n")
	fmt.Fprintf(&b, "%-38s %8s %15s %16s\n", "Description", "Qté", "Prix Unit.", "Total")
	b.WriteString(strings.Repeat("-", textWidth) + "\n")
	for _, item := range inv.Items {
		fmt.Fprintf(&b, "%-38s %8s %15s %16s\n",
			truncate(item.Description, 38),
			Quantity(item.Quantity),
			Money(item.UnitPrice, doc.Currency),
			Money(item.Amount(), doc.Currency),
		)
	}
	b.WriteString(strings.Repeat("-", textWidth) + "\n")

	fmt.Fprintf(&b, "%62s %17s\n", "Total HT", Money(doc.Totals.Subtotal, doc.Currency))
	if doc.ShowTax() {
		fmt.Fprintf(&b, "%62s %17s\n", "TVA ("+Rate(inv.TaxRate)+")", Money(doc.Totals.TaxAmount, doc.Currency))
	}
	fmt.Fprintf(&b, "%62s %17s\n", "Total TTC", Money(doc.Totals.Total, doc.Currency))
	if !doc.ShowTax() {
		fmt.Fprintf(&b, "%80s\n", TaxExemptText)
	}

	if strings.TrimSpace(inv.Notes) != "" {
		b.WriteString("\nNOTES\n")
		b.WriteString(inv.Notes + "\n")
	}

	b.WriteString("\n" + strings.Repeat("-", textWidth) + "\n")
	b.WriteString("INFORMATIONS DE PAIEMENT\n")
	if c.IBAN != "" {
		fmt.Fprintf(&b, "IBAN: %s\n", c.IBAN)
	}
	if c.BIC != "" {
		fmt.Fprintf(&b, "BIC: %s\n", c.BIC)
	}
	if c.IBAN == "" {
		b.WriteString(FallbackPaymentText + "\n")
	}

	b.WriteString("\nMENTIONS LÉGALES\n")
	if c.RegistrationID != "" {
		fmt.Fprintf(&b, "NIF/RCCM: %s\n", c.RegistrationID)
	}
	if c.FooterText != "" {
		b.WriteString(c.FooterText + "\n")
	}
	b.WriteString(strings.Repeat("=", textWidth) + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeLines(b *strings.Builder, lines ...string) {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			b.WriteString(l + "\n")
		}
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

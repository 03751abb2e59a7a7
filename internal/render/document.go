// Package render produces the printable invoice document in text and HTML form.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/shopspring/decimal"
)

// FallbackPaymentText is printed when the company has no IBAN
const FallbackPaymentText = "Veuillez effectuer le règlement par les moyens convenus (Chèque / Virement / Mobile Money)."

// TaxExemptText is printed when the tax rate is zero
const TaxExemptText = "Exonéré de TVA"

// Document is everything needed to print one invoice
type Document struct {
	Invoice  *domain.Invoice
	Client   *domain.Client // nil when the client was deleted
	Company  *domain.CompanyProfile
	Totals   domain.Totals
	Currency string
}

// NewDocument resolves the invoice's client and computes its totals
func NewDocument(inv *domain.Invoice, clients []*domain.Client, company *domain.CompanyProfile, currency string) Document {
	if company == nil {
		company = domain.DefaultCompanyProfile()
	}
	return Document{
		Invoice:  inv,
		Client:   domain.FindClient(clients, inv.ClientID),
		Company:  company,
		Totals:   inv.ComputeTotals(),
		Currency: currency,
	}
}

// ClientName returns the bill-to name, or the unknown-client placeholder
func (d Document) ClientName() string {
	if d.Client == nil {
		return domain.UnknownClientName
	}
	return d.Client.Name
}

// ShowTax reports whether the tax line is printed
func (d Document) ShowTax() bool {
	return d.Invoice.TaxRate.GreaterThan(decimal.Zero)
}

// Renderer writes a document in one output format
type Renderer interface {
	Render(w io.Writer, doc Document) error
	Extension() string
}

// ByFormat returns the renderer for "text" or "html"
func ByFormat(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "text", "txt":
		return TextRenderer{}, nil
	case "html":
		return NewHTMLRenderer()
	default:
		return nil, fmt.Errorf("unknown format %q (expected text or html)", format)
	}
}

// FileName returns the conventional file name for a rendered invoice
func FileName(inv *domain.Invoice, r Renderer) string {
	return fmt.Sprintf("Facture_%s.%s", inv.Number, r.Extension())
}

package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/andy/proinvoice/internal/media"
	"github.com/shopspring/decimal"
)

//go:embed templates/invoice.html.tmpl
var templateFS embed.FS

// HTMLRenderer prints a standalone, printable HTML invoice
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded invoice template
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("invoice.html.tmpl").Funcs(template.FuncMap{
		"date":     LongDate,
		"quantity": Quantity,
		"rate":     Rate,
	}).ParseFS(templateFS, "templates/invoice.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

func (r *HTMLRenderer) Extension() string { return "html" }

type htmlView struct {
	Document
	Logo template.URL
}

// Money formats an amount in the document currency
func (v htmlView) Money(d decimal.Decimal) string {
	return Money(d, v.Currency)
}

func (r *HTMLRenderer) Render(w io.Writer, doc Document) error {
	view := htmlView{Document: doc}
	// Only image data URLs are trusted as <img> sources
	if media.IsImageDataURL(doc.Company.LogoDataURL) {
		view.Logo = template.URL(doc.Company.LogoDataURL)
	}

	if err := r.tmpl.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render invoice: %w", err)
	}
	return nil
}

package export

import (
	"fmt"
	"io"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	invoiceSheet = "Factures"
	itemSheet    = "Lignes"
	dateFormat   = "2006-01-02"
)

var invoiceHeaders = []string{"Numéro", "Date", "Échéance", "Client", "Statut", "Total HT", "TVA %", "Montant TVA", "Total TTC", "Notes"}

var itemHeaders = []string{"Facture", "Position", "Description", "Quantité", "Prix unitaire", "Montant", "Service"}

// WriteRegister writes invoices and their lines to a two-sheet XLSX workbook
func WriteRegister(w io.Writer, invoices []*domain.Invoice, clients []*domain.Client, services []*domain.Service) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet becomes the invoice sheet
	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(itemSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	// Built-in number format 4 is "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeHeader(f, invoiceSheet, invoiceHeaders, boldStyle); err != nil {
		return err
	}
	if err := writeHeader(f, itemSheet, itemHeaders, boldStyle); err != nil {
		return err
	}

	itemRow := 2
	for idx, inv := range invoices {
		row := idx + 2
		totals := inv.ComputeTotals()
		values := []interface{}{
			inv.Number,
			inv.IssueDate.Format(dateFormat),
			inv.DueDate.Format(dateFormat),
			domain.ClientName(clients, inv.ClientID),
			inv.Status.Label(),
			totals.Subtotal.InexactFloat64(),
			inv.TaxRate.InexactFloat64(),
			totals.TaxAmount.InexactFloat64(),
			totals.Total.InexactFloat64(),
			inv.Notes,
		}
		if err := writeRow(f, invoiceSheet, row, values); err != nil {
			return err
		}
		if err := setStyle(f, invoiceSheet, "F", "I", row, moneyStyle); err != nil {
			return err
		}

		for pos, item := range inv.Items {
			serviceName := ""
			if svc := domain.FindService(services, item.ServiceID); svc != nil {
				serviceName = svc.Name
			}
			values := []interface{}{
				inv.Number,
				pos + 1,
				item.Description,
				item.Quantity.InexactFloat64(),
				item.UnitPrice.InexactFloat64(),
				item.Amount().InexactFloat64(),
				serviceName,
			}
			if err := writeRow(f, itemSheet, itemRow, values); err != nil {
				return err
			}
			if err := setStyle(f, itemSheet, "E", "F", itemRow, moneyStyle); err != nil {
				return err
			}
			itemRow++
		}
	}

	widths := map[string]float64{"A": 16, "B": 12, "C": 12, "D": 28, "E": 16, "F": 14, "G": 8, "H": 14, "I": 14, "J": 40}
	for col, width := range widths {
		if err := f.SetColWidth(invoiceSheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	if err := f.SetColWidth(itemSheet, "C", "C", 40); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := writeRow(f, sheet, 1, values); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return setStyle(f, sheet, "A", last, 1, style)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func setStyle(f *excelize.File, sheet, fromCol, toCol string, row, style int) error {
	from := fmt.Sprintf("%s%d", fromCol, row)
	to := fmt.Sprintf("%s%d", toCol, row)
	if err := f.SetCellStyle(sheet, from, to, style); err != nil {
		return fmt.Errorf("failed to style %s: %w", sheet, err)
	}
	return nil
}

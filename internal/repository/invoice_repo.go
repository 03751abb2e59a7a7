package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/andy/proinvoice/internal/db"
	"github.com/andy/proinvoice/internal/domain"
)

// InvoiceRepo is a SQLite implementation of InvoiceRepository
type InvoiceRepo struct {
	db *db.DB
}

// NewInvoiceRepo creates a new InvoiceRepo
func NewInvoiceRepo(database *db.DB) *InvoiceRepo {
	return &InvoiceRepo{db: database}
}

// List retrieves all invoices in insertion order with their line items
func (r *InvoiceRepo) List(ctx context.Context) ([]*domain.Invoice, error) {
	query := `
		SELECT id, invoice_number, client_id, issue_date, due_date,
		       status, tax_rate, notes, created_at, updated_at
		FROM invoices
		ORDER BY rowid
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]*domain.Invoice, 0)
	byID := make(map[string]*domain.Invoice)
	for rows.Next() {
		invoice := &domain.Invoice{Items: make([]domain.InvoiceItem, 0)}
		var issueDate, dueDate, status, createdAt, updatedAt string

		err := rows.Scan(
			&invoice.ID,
			&invoice.Number,
			&invoice.ClientID,
			&issueDate,
			&dueDate,
			&status,
			&invoice.TaxRate,
			&invoice.Notes,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}

		if err := scanInvoice(invoice, issueDate, dueDate, status, createdAt, updatedAt); err != nil {
			return nil, err
		}

		invoices = append(invoices, invoice)
		byID[invoice.ID] = invoice
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}

	if err := r.loadItems(ctx, byID); err != nil {
		return nil, err
	}

	return invoices, nil
}

// loadItems attaches line items to their invoices, preserving position order
func (r *InvoiceRepo) loadItems(ctx context.Context, byID map[string]*domain.Invoice) error {
	if len(byID) == 0 {
		return nil
	}

	query := `
		SELECT id, invoice_id, service_id, description, quantity, unit_price
		FROM invoice_items
		ORDER BY invoice_id, position
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to get line items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.InvoiceItem
		var invoiceID string

		err := rows.Scan(
			&item.ID,
			&invoiceID,
			&item.ServiceID,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("failed to scan line item: %w", err)
		}

		if inv, ok := byID[invoiceID]; ok {
			inv.Items = append(inv.Items, item)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating line items: %w", err)
	}

	return nil
}

// Upsert inserts or replaces an invoice and rewrites its line items in one transaction
func (r *InvoiceRepo) Upsert(ctx context.Context, invoice *domain.Invoice) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO invoices (
			id, invoice_number, client_id, issue_date, due_date,
			status, tax_rate, notes, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			invoice_number = excluded.invoice_number,
			client_id = excluded.client_id,
			issue_date = excluded.issue_date,
			due_date = excluded.due_date,
			status = excluded.status,
			tax_rate = excluded.tax_rate,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`

	_, err = tx.ExecContext(ctx, query,
		invoice.ID,
		invoice.Number,
		invoice.ClientID,
		formatDate(invoice.IssueDate),
		formatDate(invoice.DueDate),
		string(invoice.Status),
		invoice.TaxRate.String(),
		invoice.Notes,
		formatTime(invoice.CreatedAt),
		formatTime(invoice.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert invoice: %w", err)
	}

	if err := replaceItems(ctx, tx, invoice); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit invoice: %w", err)
	}

	return nil
}

func replaceItems(ctx context.Context, tx *sql.Tx, invoice *domain.Invoice) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM invoice_items WHERE invoice_id = ?", invoice.ID); err != nil {
		return fmt.Errorf("failed to clear line items: %w", err)
	}

	query := `
		INSERT INTO invoice_items (id, invoice_id, position, service_id, description, quantity, unit_price)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	for pos, item := range invoice.Items {
		_, err := tx.ExecContext(ctx, query,
			item.ID,
			invoice.ID,
			pos,
			item.ServiceID,
			item.Description,
			item.Quantity.String(),
			item.UnitPrice.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to add line item: %w", err)
		}
	}

	return nil
}

// Delete removes an invoice and its line items. Unknown ids are ignored.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return nil
}

// scanInvoice converts scanned string columns to their domain types
func scanInvoice(invoice *domain.Invoice, issueDate, dueDate, status, createdAt, updatedAt string) error {
	var err error

	if invoice.IssueDate, err = parseDate(issueDate); err != nil {
		return fmt.Errorf("failed to parse issue_date: %w", err)
	}
	if invoice.DueDate, err = parseDate(dueDate); err != nil {
		return fmt.Errorf("failed to parse due_date: %w", err)
	}

	invoice.Status = domain.InvoiceStatus(status)

	if invoice.CreatedAt, err = parseTime(createdAt); err != nil {
		return fmt.Errorf("failed to parse created_at: %w", err)
	}
	if invoice.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return nil
}

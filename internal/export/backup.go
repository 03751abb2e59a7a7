// Package export writes the invoice register to spreadsheets and snapshots all data as JSON.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/andy/proinvoice/internal/domain"
)

// BackupVersion is the document version written by this build
const BackupVersion = 1

var ErrUnsupportedBackup = errors.New("unsupported backup version")

// Backup is a full snapshot of every collection
type Backup struct {
	Version    int                    `json:"version" jsonschema:"minimum=1"`
	ExportedAt time.Time              `json:"exportedAt"`
	Company    *domain.CompanyProfile `json:"company"`
	Clients    []*domain.Client       `json:"clients"`
	Services   []*domain.Service      `json:"services"`
	Invoices   []*domain.Invoice      `json:"invoices"`
}

// WriteJSON writes an indented backup document
func WriteJSON(w io.Writer, b *Backup) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// ReadJSON decodes and checks a backup document
func ReadJSON(r io.Reader) (*Backup, error) {
	var b Backup
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if err := b.Check(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Check rejects documents that cannot be restored safely
func (b *Backup) Check() error {
	if b.Version < 1 || b.Version > BackupVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedBackup, b.Version)
	}

	seen := make(map[string]string)
	claim := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("invalid backup: %s without id", kind)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("invalid backup: id %s used by %s and %s", id, prev, kind)
		}
		seen[id] = kind
		return nil
	}

	for _, c := range b.Clients {
		if err := claim("client", c.ID); err != nil {
			return err
		}
	}
	for _, s := range b.Services {
		if err := claim("service", s.ID); err != nil {
			return err
		}
	}
	for _, inv := range b.Invoices {
		if err := claim("invoice", inv.ID); err != nil {
			return err
		}
		if st, err := domain.ParseInvoiceStatus(string(inv.Status)); err != nil || st != inv.Status {
			return fmt.Errorf("invalid backup: invoice %s has status %q", inv.Number, inv.Status)
		}
		// line ids share one key space across invoices
		for _, item := range inv.Items {
			if err := claim("line of invoice "+inv.Number, item.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

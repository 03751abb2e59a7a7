package repository

import (
	"context"
	"fmt"

	"github.com/andy/proinvoice/internal/db"
	"github.com/andy/proinvoice/internal/domain"
)

// ClientRepo is a SQLite implementation of ClientRepository
type ClientRepo struct {
	db *db.DB
}

// NewClientRepo creates a new ClientRepo
func NewClientRepo(database *db.DB) *ClientRepo {
	return &ClientRepo{db: database}
}

// List retrieves all clients in insertion order
func (r *ClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	query := `
		SELECT id, name, email, phone, address, notes, created_at, updated_at
		FROM clients
		ORDER BY rowid
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client := &domain.Client{}
		var createdAt, updatedAt string

		err := rows.Scan(
			&client.ID,
			&client.Name,
			&client.Email,
			&client.Phone,
			&client.Address,
			&client.Notes,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}

		if client.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if client.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}

		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, nil
}

// Upsert inserts the client or replaces the stored one with the same ID
func (r *ClientRepo) Upsert(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, name, email, phone, address, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			phone = excluded.phone,
			address = excluded.address,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.Email,
		client.Phone,
		client.Address,
		client.Notes,
		formatTime(client.CreatedAt),
		formatTime(client.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert client: %w", err)
	}

	return nil
}

// Delete removes a client. Invoices referencing it are left untouched.
func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM clients WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	return nil
}

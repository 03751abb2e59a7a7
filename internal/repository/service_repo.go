package repository

import (
	"context"
	"fmt"

	"github.com/andy/proinvoice/internal/db"
	"github.com/andy/proinvoice/internal/domain"
)

// ServiceRepo is a SQLite implementation of ServiceRepository
type ServiceRepo struct {
	db *db.DB
}

// NewServiceRepo creates a new ServiceRepo
func NewServiceRepo(database *db.DB) *ServiceRepo {
	return &ServiceRepo{db: database}
}

// List retrieves the catalog in insertion order
func (r *ServiceRepo) List(ctx context.Context) ([]*domain.Service, error) {
	query := `
		SELECT id, name, description, unit_price, pricing, created_at, updated_at
		FROM services
		ORDER BY rowid
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		svc := &domain.Service{}
		var pricing, createdAt, updatedAt string

		err := rows.Scan(
			&svc.ID,
			&svc.Name,
			&svc.Description,
			&svc.UnitPrice,
			&pricing,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}

		svc.Pricing = domain.PricingType(pricing)
		if svc.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if svc.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}

		services = append(services, svc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating services: %w", err)
	}

	return services, nil
}

// Upsert inserts the service or replaces the stored one with the same ID
func (r *ServiceRepo) Upsert(ctx context.Context, svc *domain.Service) error {
	query := `
		INSERT INTO services (id, name, description, unit_price, pricing, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			unit_price = excluded.unit_price,
			pricing = excluded.pricing,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		svc.ID,
		svc.Name,
		svc.Description,
		svc.UnitPrice.String(),
		string(svc.Pricing),
		formatTime(svc.CreatedAt),
		formatTime(svc.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert service: %w", err)
	}

	return nil
}

// Delete removes a catalog entry. Invoice items copied from it keep their values.
func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM services WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return nil
}

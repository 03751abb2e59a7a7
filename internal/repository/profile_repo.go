package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/proinvoice/internal/db"
	"github.com/andy/proinvoice/internal/domain"
)

// ProfileRepo is a SQLite implementation of ProfileRepository
type ProfileRepo struct {
	db *db.DB
}

// NewProfileRepo creates a new ProfileRepo
func NewProfileRepo(database *db.DB) *ProfileRepo {
	return &ProfileRepo{db: database}
}

// Get returns the company profile, creating the default one on first access
func (r *ProfileRepo) Get(ctx context.Context) (*domain.CompanyProfile, error) {
	query := `
		SELECT name, email, address, phone, registration_id, iban, bic,
		       logo_data_url, footer_text, updated_at
		FROM company_profile
		WHERE id = 1
	`

	p := &domain.CompanyProfile{}
	var updatedAt string

	err := r.db.QueryRowContext(ctx, query).Scan(
		&p.Name,
		&p.Email,
		&p.Address,
		&p.Phone,
		&p.RegistrationID,
		&p.IBAN,
		&p.BIC,
		&p.LogoDataURL,
		&p.FooterText,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			p = domain.DefaultCompanyProfile()
			if err := r.Save(ctx, p); err != nil {
				return nil, err
			}
			return p, nil
		}
		return nil, fmt.Errorf("failed to get company profile: %w", err)
	}

	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return p, nil
}

// Save replaces the stored company profile
func (r *ProfileRepo) Save(ctx context.Context, p *domain.CompanyProfile) error {
	query := `
		INSERT INTO company_profile (
			id, name, email, address, phone, registration_id, iban, bic,
			logo_data_url, footer_text, updated_at
		)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			address = excluded.address,
			phone = excluded.phone,
			registration_id = excluded.registration_id,
			iban = excluded.iban,
			bic = excluded.bic,
			logo_data_url = excluded.logo_data_url,
			footer_text = excluded.footer_text,
			updated_at = excluded.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.Email,
		p.Address,
		p.Phone,
		p.RegistrationID,
		p.IBAN,
		p.BIC,
		p.LogoDataURL,
		p.FooterText,
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save company profile: %w", err)
	}

	return nil
}

package repository

import (
	"context"

	"github.com/andy/proinvoice/internal/domain"
)

// ClientRepository manages client persistence
type ClientRepository interface {
	List(ctx context.Context) ([]*domain.Client, error)
	Upsert(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id string) error // No error if the id is unknown
}

// ServiceRepository manages catalog persistence
type ServiceRepository interface {
	List(ctx context.Context) ([]*domain.Service, error)
	Upsert(ctx context.Context, service *domain.Service) error
	Delete(ctx context.Context, id string) error
}

// InvoiceRepository manages invoice persistence, line items included
type InvoiceRepository interface {
	List(ctx context.Context) ([]*domain.Invoice, error)
	Upsert(ctx context.Context, invoice *domain.Invoice) error
	Delete(ctx context.Context, id string) error
}

// ProfileRepository manages the company profile (singleton)
type ProfileRepository interface {
	Get(ctx context.Context) (*domain.CompanyProfile, error) // Creates the default profile when none exists
	Save(ctx context.Context, profile *domain.CompanyProfile) error
}

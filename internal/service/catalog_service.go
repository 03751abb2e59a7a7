package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CatalogService manages the reusable service catalog
type CatalogService interface {
	Create(ctx context.Context, name, description string, unitPrice decimal.Decimal, pricing domain.PricingType) (*domain.Service, error)
	Get(ctx context.Context, id string) (*domain.Service, error)
	Find(ctx context.Context, ref string) (*domain.Service, error)
	List(ctx context.Context) ([]*domain.Service, error)

	Describe(ctx context.Context, id, name, description string) (*domain.Service, error)
	Reprice(ctx context.Context, id string, unitPrice decimal.Decimal, pricing domain.PricingType) (*domain.Service, error)

	// Delete removes a catalog entry. Invoice lines copied from it are unaffected.
	Delete(ctx context.Context, id string) error
}

type catalogService struct {
	repo repository.ServiceRepository
	log  zerolog.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo repository.ServiceRepository, log zerolog.Logger) CatalogService {
	return &catalogService{repo: repo, log: log}
}

func (s *catalogService) Create(ctx context.Context, name, description string, unitPrice decimal.Decimal, pricing domain.PricingType) (*domain.Service, error) {
	svc := domain.NewService(name, unitPrice, pricing)
	svc.Description = description

	if err := s.save(ctx, svc); err != nil {
		return nil, err
	}

	s.log.Info().Str("service_id", svc.ID).Str("name", svc.Name).Msg("service created")
	return svc, nil
}

func (s *catalogService) Get(ctx context.Context, id string) (*domain.Service, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	svc := domain.FindService(services, id)
	if svc == nil {
		return nil, fmt.Errorf("service %s: %w", id, domain.ErrNotFound)
	}
	return svc, nil
}

func (s *catalogService) Find(ctx context.Context, ref string) (*domain.Service, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if svc := domain.FindService(services, ref); svc != nil {
		return svc, nil
	}
	for _, svc := range services {
		if strings.EqualFold(svc.Name, strings.TrimSpace(ref)) {
			return svc, nil
		}
	}
	return nil, fmt.Errorf("service %s: %w", ref, domain.ErrNotFound)
}

func (s *catalogService) List(ctx context.Context) ([]*domain.Service, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return services, nil
}

func (s *catalogService) Describe(ctx context.Context, id, name, description string) (*domain.Service, error) {
	svc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	svc.Describe(name, description)
	if err := s.save(ctx, svc); err != nil {
		return nil, err
	}
	s.log.Info().Str("service_id", svc.ID).Msg("service renamed")
	return svc, nil
}

func (s *catalogService) Reprice(ctx context.Context, id string, unitPrice decimal.Decimal, pricing domain.PricingType) (*domain.Service, error) {
	svc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if pricing == "" {
		pricing = svc.Pricing
	}
	svc.Reprice(unitPrice, pricing)
	if err := s.save(ctx, svc); err != nil {
		return nil, err
	}
	s.log.Info().Str("service_id", svc.ID).Str("unit_price", unitPrice.String()).Msg("service repriced")
	return svc, nil
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}
	s.log.Info().Str("service_id", id).Msg("service deleted")
	return nil
}

func (s *catalogService) save(ctx context.Context, svc *domain.Service) error {
	if err := svc.Validate(); err != nil {
		return err
	}
	if err := s.repo.Upsert(ctx, svc); err != nil {
		return fmt.Errorf("failed to save service: %w", err)
	}
	return nil
}

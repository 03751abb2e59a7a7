package service

import (
	"context"
	"fmt"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/export"
	"github.com/andy/proinvoice/internal/repository"
	"github.com/rs/zerolog"
)

// BackupService snapshots, restores and wipes the whole data set
type BackupService interface {
	Snapshot(ctx context.Context) (*export.Backup, error)

	// Restore replaces every collection with the backup contents
	Restore(ctx context.Context, b *export.Backup) error

	ResetInvoices(ctx context.Context) (int, error)
	ResetAll(ctx context.Context) error
}

type backupService struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	catalogRepo repository.ServiceRepository
	profileRepo repository.ProfileRepository
	now         Clock
	log         zerolog.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	catalogRepo repository.ServiceRepository,
	profileRepo repository.ProfileRepository,
	now Clock,
	log zerolog.Logger,
) BackupService {
	return &backupService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		catalogRepo: catalogRepo,
		profileRepo: profileRepo,
		now:         now,
		log:         log,
	}
}

func (s *backupService) Snapshot(ctx context.Context) (*export.Backup, error) {
	company, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load company profile: %w", err)
	}
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	services, err := s.catalogRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	return &export.Backup{
		Version:    export.BackupVersion,
		ExportedAt: s.now(),
		Company:    company,
		Clients:    clients,
		Services:   services,
		Invoices:   invoices,
	}, nil
}

// Restore replaces every collection with the backup. If writing fails midway the
// previous data is put back.
func (s *backupService) Restore(ctx context.Context, b *export.Backup) error {
	if err := b.Check(); err != nil {
		return err
	}

	prev, err := s.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to snapshot current data: %w", err)
	}

	if err := s.replace(ctx, b); err != nil {
		if rerr := s.replace(ctx, prev); rerr != nil {
			s.log.Error().Err(rerr).Msg("rollback after failed restore")
			return fmt.Errorf("%w (previous data could not be put back: %v)", err, rerr)
		}
		s.log.Warn().Err(err).Msg("restore failed, previous data kept")
		return err
	}

	s.log.Info().
		Int("clients", len(b.Clients)).
		Int("services", len(b.Services)).
		Int("invoices", len(b.Invoices)).
		Msg("backup restored")
	return nil
}

func (s *backupService) replace(ctx context.Context, b *export.Backup) error {
	if _, err := s.ResetInvoices(ctx); err != nil {
		return err
	}
	if err := s.clearCatalog(ctx); err != nil {
		return err
	}
	if err := s.clearClients(ctx); err != nil {
		return err
	}

	company := b.Company
	if company == nil {
		company = domain.DefaultCompanyProfile()
	}
	if err := s.profileRepo.Save(ctx, company); err != nil {
		return fmt.Errorf("failed to restore company profile: %w", err)
	}
	for _, c := range b.Clients {
		if err := s.clientRepo.Upsert(ctx, c); err != nil {
			return fmt.Errorf("failed to restore client %s: %w", c.Name, err)
		}
	}
	for _, svc := range b.Services {
		if err := s.catalogRepo.Upsert(ctx, svc); err != nil {
			return fmt.Errorf("failed to restore service %s: %w", svc.Name, err)
		}
	}
	for _, inv := range b.Invoices {
		if err := s.invoiceRepo.Upsert(ctx, inv); err != nil {
			return fmt.Errorf("failed to restore invoice %s: %w", inv.Number, err)
		}
	}
	return nil
}

func (s *backupService) ResetInvoices(ctx context.Context) (int, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	for _, inv := range invoices {
		if err := s.invoiceRepo.Delete(ctx, inv.ID); err != nil {
			return 0, fmt.Errorf("failed to delete invoice %s: %w", inv.Number, err)
		}
	}
	s.log.Warn().Int("count", len(invoices)).Msg("invoices reset")
	return len(invoices), nil
}

func (s *backupService) ResetAll(ctx context.Context) error {
	if _, err := s.ResetInvoices(ctx); err != nil {
		return err
	}
	if err := s.clearCatalog(ctx); err != nil {
		return err
	}
	if err := s.clearClients(ctx); err != nil {
		return err
	}
	if err := s.profileRepo.Save(ctx, domain.DefaultCompanyProfile()); err != nil {
		return fmt.Errorf("failed to reset company profile: %w", err)
	}
	s.log.Warn().Msg("all data reset")
	return nil
}

func (s *backupService) clearClients(ctx context.Context) error {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}
	for _, c := range clients {
		if err := s.clientRepo.Delete(ctx, c.ID); err != nil {
			return fmt.Errorf("failed to delete client %s: %w", c.Name, err)
		}
	}
	return nil
}

func (s *backupService) clearCatalog(ctx context.Context) error {
	services, err := s.catalogRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list services: %w", err)
	}
	for _, svc := range services {
		if err := s.catalogRepo.Delete(ctx, svc.ID); err != nil {
			return fmt.Errorf("failed to delete service %s: %w", svc.Name, err)
		}
	}
	return nil
}

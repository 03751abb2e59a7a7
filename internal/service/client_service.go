package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/repository"
	"github.com/rs/zerolog"
)

// ClientService manages the client roster
type ClientService interface {
	Create(ctx context.Context, name string, contact domain.ClientContact, notes string) (*domain.Client, error)
	Get(ctx context.Context, id string) (*domain.Client, error)

	// Find resolves a client by ID or by case-insensitive name
	Find(ctx context.Context, ref string) (*domain.Client, error)
	List(ctx context.Context) ([]*domain.Client, error)

	Rename(ctx context.Context, id, name string) (*domain.Client, error)
	UpdateContact(ctx context.Context, id string, contact domain.ClientContact) (*domain.Client, error)
	UpdateNotes(ctx context.Context, id, notes string) (*domain.Client, error)

	// Delete removes a client. Its invoices keep the dangling reference.
	Delete(ctx context.Context, id string) error
}

type clientService struct {
	repo repository.ClientRepository
	log  zerolog.Logger
}

// NewClientService creates a new client service
func NewClientService(repo repository.ClientRepository, log zerolog.Logger) ClientService {
	return &clientService{repo: repo, log: log}
}

func (s *clientService) Create(ctx context.Context, name string, contact domain.ClientContact, notes string) (*domain.Client, error) {
	client := domain.NewClient(name)
	client.SetContact(contact)
	client.SetNotes(notes)

	if err := s.save(ctx, client); err != nil {
		return nil, err
	}

	s.log.Info().Str("client_id", client.ID).Str("name", client.Name).Msg("client created")
	return client, nil
}

func (s *clientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	client := domain.FindClient(clients, id)
	if client == nil {
		return nil, fmt.Errorf("client %s: %w", id, domain.ErrNotFound)
	}
	return client, nil
}

func (s *clientService) Find(ctx context.Context, ref string) (*domain.Client, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	if client := domain.FindClient(clients, ref); client != nil {
		return client, nil
	}
	for _, client := range clients {
		if strings.EqualFold(client.Name, strings.TrimSpace(ref)) {
			return client, nil
		}
	}
	return nil, fmt.Errorf("client %s: %w", ref, domain.ErrNotFound)
}

func (s *clientService) List(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	return clients, nil
}

func (s *clientService) update(ctx context.Context, id string, fn func(*domain.Client)) (*domain.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(client)
	if err := s.save(ctx, client); err != nil {
		return nil, err
	}
	s.log.Info().Str("client_id", client.ID).Msg("client updated")
	return client, nil
}

func (s *clientService) Rename(ctx context.Context, id, name string) (*domain.Client, error) {
	return s.update(ctx, id, func(c *domain.Client) { c.Rename(name) })
}

func (s *clientService) UpdateContact(ctx context.Context, id string, contact domain.ClientContact) (*domain.Client, error) {
	return s.update(ctx, id, func(c *domain.Client) { c.SetContact(contact) })
}

func (s *clientService) UpdateNotes(ctx context.Context, id, notes string) (*domain.Client, error) {
	return s.update(ctx, id, func(c *domain.Client) { c.SetNotes(notes) })
}

func (s *clientService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.log.Info().Str("client_id", id).Msg("client deleted")
	return nil
}

func (s *clientService) save(ctx context.Context, client *domain.Client) error {
	if err := client.Validate(); err != nil {
		return err
	}
	if err := s.repo.Upsert(ctx, client); err != nil {
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

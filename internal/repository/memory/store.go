// Package memory provides in-process repositories. Values are copied on the way in and out,
// so callers never share state with the store.
package memory

import (
	"context"
	"sync"

	"github.com/andy/proinvoice/internal/domain"
)

// Store holds every collection behind a single lock
type Store struct {
	mu       sync.RWMutex
	clients  collection[domain.Client]
	services collection[domain.Service]
	invoices collection[domain.Invoice]
	profile  *domain.CompanyProfile
}

// New creates an empty store
func New() *Store {
	return &Store{
		clients:  newCollection(func(c *domain.Client) string { return c.ID }, cloneClient),
		services: newCollection(func(s *domain.Service) string { return s.ID }, cloneService),
		invoices: newCollection(func(i *domain.Invoice) string { return i.ID }, (*domain.Invoice).Clone),
	}
}

// collection keeps entities in insertion order; an upsert of a known id keeps its position
type collection[T any] struct {
	order []string
	items map[string]*T
	id    func(*T) string
	clone func(*T) *T
}

func newCollection[T any](id func(*T) string, clone func(*T) *T) collection[T] {
	return collection[T]{items: make(map[string]*T), id: id, clone: clone}
}

func (c *collection[T]) list() []*T {
	out := make([]*T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.clone(c.items[id]))
	}
	return out
}

func (c *collection[T]) upsert(v *T) {
	id := c.id(v)
	if _, ok := c.items[id]; !ok {
		c.order = append(c.order, id)
	}
	c.items[id] = c.clone(v)
}

func (c *collection[T]) remove(id string) {
	if _, ok := c.items[id]; !ok {
		return
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
}

func cloneClient(c *domain.Client) *domain.Client {
	cp := *c
	return &cp
}

func cloneService(s *domain.Service) *domain.Service {
	cp := *s
	return &cp
}

// Clients returns a ClientRepository view of the store
func (s *Store) Clients() *ClientRepo { return &ClientRepo{s: s} }

// Services returns a ServiceRepository view of the store
func (s *Store) Services() *ServiceRepo { return &ServiceRepo{s: s} }

// Invoices returns an InvoiceRepository view of the store
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s: s} }

// Profile returns a ProfileRepository view of the store
func (s *Store) Profile() *ProfileRepo { return &ProfileRepo{s: s} }

type ClientRepo struct{ s *Store }

func (r *ClientRepo) List(ctx context.Context) ([]*domain.Client, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.clients.list(), nil
}

func (r *ClientRepo) Upsert(ctx context.Context, c *domain.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.clients.upsert(c)
	return nil
}

func (r *ClientRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.clients.remove(id)
	return nil
}

type ServiceRepo struct{ s *Store }

func (r *ServiceRepo) List(ctx context.Context) ([]*domain.Service, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.services.list(), nil
}

func (r *ServiceRepo) Upsert(ctx context.Context, svc *domain.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.services.upsert(svc)
	return nil
}

func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.services.remove(id)
	return nil
}

type InvoiceRepo struct{ s *Store }

func (r *InvoiceRepo) List(ctx context.Context) ([]*domain.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.invoices.list(), nil
}

func (r *InvoiceRepo) Upsert(ctx context.Context, inv *domain.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.invoices.upsert(inv)
	return nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.invoices.remove(id)
	return nil
}

type ProfileRepo struct{ s *Store }

func (r *ProfileRepo) Get(ctx context.Context) (*domain.CompanyProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.profile == nil {
		r.s.profile = domain.DefaultCompanyProfile()
	}
	cp := *r.s.profile
	return &cp, nil
}

func (r *ProfileRepo) Save(ctx context.Context, p *domain.CompanyProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.profile = &cp
	return nil
}

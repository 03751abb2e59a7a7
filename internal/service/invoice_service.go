package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/mail"
	"github.com/andy/proinvoice/internal/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Clock returns the current time
type Clock func() time.Time

// InvoiceDefaults holds the values applied to new invoices
type InvoiceDefaults struct {
	NumberPrefix string
	DueDays      int
	TaxRate      decimal.Decimal // percentage
}

// NewInvoiceInput describes an invoice to create. Zero dates and a nil tax rate take the defaults.
type NewInvoiceInput struct {
	ClientID  string
	IssueDate time.Time
	DueDate   time.Time
	TaxRate   *decimal.Decimal
	Notes     string
	Items     []domain.InvoiceItem
}

// InvoiceService manages invoice numbering, editing and lifecycle
// InvoiceHeader holds the invoice fields edited outside the line items
type InvoiceHeader struct {
	IssueDate time.Time
	DueDate   time.Time
	TaxRate   decimal.Decimal
	Notes     string
}

type InvoiceService interface {
	// NextNumber returns the number the next invoice of the current year will get. Nothing is reserved.
	NextNumber(ctx context.Context) (string, error)

	// Create validates and stores a new draft invoice with the next number
	Create(ctx context.Context, input NewInvoiceInput) (*domain.Invoice, error)

	// Get retrieves an invoice by ID
	Get(ctx context.Context, id string) (*domain.Invoice, error)

	// Find retrieves an invoice by ID or by display number
	Find(ctx context.Context, ref string) (*domain.Invoice, error)

	// List returns all invoices in storage order
	List(ctx context.Context) ([]*domain.Invoice, error)

	UpdateSchedule(ctx context.Context, id string, issueDate, dueDate time.Time) (*domain.Invoice, error)
	UpdateBilling(ctx context.Context, id, clientID string, taxRate decimal.Decimal) (*domain.Invoice, error)
	UpdateNotes(ctx context.Context, id, notes string) (*domain.Invoice, error)

	// UpdateHeader applies dates, tax rate and notes together; nothing is saved if any part is rejected
	UpdateHeader(ctx context.Context, id string, header InvoiceHeader) (*domain.Invoice, error)

	AddItem(ctx context.Context, id, description string, quantity, unitPrice decimal.Decimal) (*domain.Invoice, error)

	// AddCatalogItem copies a catalog entry's name and price into a new line
	AddCatalogItem(ctx context.Context, id, serviceID string, quantity decimal.Decimal) (*domain.Invoice, error)

	UpdateItem(ctx context.Context, id, itemID, description string, quantity, unitPrice decimal.Decimal) (*domain.Invoice, error)
	RemoveItem(ctx context.Context, id, itemID string) (*domain.Invoice, error)

	// SetStatus applies an explicit status change to a non-paid invoice
	SetStatus(ctx context.Context, id string, status domain.InvoiceStatus) (*domain.Invoice, error)

	// Dispatch composes the invoice e-mail and hands it to sender.
	// A draft becomes sent only after the sender succeeds.
	Dispatch(ctx context.Context, id string, sender mail.Sender) (*domain.Invoice, mail.Message, error)

	// Delete removes a non-paid invoice. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	catalogRepo repository.ServiceRepository
	profileRepo repository.ProfileRepository
	defaults    InvoiceDefaults
	now         Clock
	log         zerolog.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	catalogRepo repository.ServiceRepository,
	profileRepo repository.ProfileRepository,
	defaults InvoiceDefaults,
	now Clock,
	log zerolog.Logger,
) InvoiceService {
	if now == nil {
		now = time.Now
	}
	if defaults.NumberPrefix == "" {
		defaults.NumberPrefix = domain.DefaultNumberPrefix
	}
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		catalogRepo: catalogRepo,
		profileRepo: profileRepo,
		defaults:    defaults,
		now:         now,
		log:         log,
	}
}

func (s *invoiceService) NextNumber(ctx context.Context) (string, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load invoices: %w", err)
	}
	return domain.NextInvoiceNumber(s.defaults.NumberPrefix, s.now().Year(), invoices), nil
}

func (s *invoiceService) Create(ctx context.Context, input NewInvoiceInput) (*domain.Invoice, error) {
	number, err := s.NextNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invoice number: %w", err)
	}

	today := s.now()
	issue := input.IssueDate
	if issue.IsZero() {
		issue = today
	}
	due := input.DueDate
	if due.IsZero() {
		due = issue.AddDate(0, 0, s.defaults.DueDays)
	}
	taxRate := s.defaults.TaxRate
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}

	invoice := domain.NewInvoice(number, strings.TrimSpace(input.ClientID), issue, due, taxRate)
	invoice.Notes = input.Notes
	for _, item := range input.Items {
		if err := invoice.AddItem(item); err != nil {
			return nil, err
		}
	}

	if err := invoice.ValidateForSave(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Upsert(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.log.Info().
		Str("invoice_id", invoice.ID).
		Str("number", invoice.Number).
		Str("total", invoice.Total().String()).
		Msg("invoice created")

	return invoice, nil
}

func (s *invoiceService) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	invoice := domain.FindInvoice(invoices, id)
	if invoice == nil {
		return nil, fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	return invoice, nil
}

func (s *invoiceService) Find(ctx context.Context, ref string) (*domain.Invoice, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	if invoice := domain.FindInvoice(invoices, ref); invoice != nil {
		return invoice, nil
	}
	for _, invoice := range invoices {
		if strings.EqualFold(invoice.Number, ref) {
			return invoice, nil
		}
	}
	return nil, fmt.Errorf("invoice %s: %w", ref, domain.ErrNotFound)
}

func (s *invoiceService) List(ctx context.Context) ([]*domain.Invoice, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	return invoices, nil
}

// edit loads the invoice, applies fn and stores the result if it still validates
func (s *invoiceService) edit(ctx context.Context, id, action string, fn func(*domain.Invoice) error) (*domain.Invoice, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := fn(invoice); err != nil {
		return nil, err
	}

	if err := invoice.ValidateForSave(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Upsert(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}

	s.log.Info().
		Str("invoice_id", invoice.ID).
		Str("number", invoice.Number).
		Str("action", action).
		Msg("invoice updated")

	return invoice, nil
}

func (s *invoiceService) UpdateSchedule(ctx context.Context, id string, issueDate, dueDate time.Time) (*domain.Invoice, error) {
	return s.edit(ctx, id, "schedule", func(inv *domain.Invoice) error {
		return inv.SetSchedule(issueDate, dueDate)
	})
}

func (s *invoiceService) UpdateBilling(ctx context.Context, id, clientID string, taxRate decimal.Decimal) (*domain.Invoice, error) {
	return s.edit(ctx, id, "billing", func(inv *domain.Invoice) error {
		return inv.SetBilling(strings.TrimSpace(clientID), taxRate)
	})
}

func (s *invoiceService) UpdateNotes(ctx context.Context, id, notes string) (*domain.Invoice, error) {
	return s.edit(ctx, id, "notes", func(inv *domain.Invoice) error {
		return inv.SetNotes(notes)
	})
}

func (s *invoiceService) UpdateHeader(ctx context.Context, id string, header InvoiceHeader) (*domain.Invoice, error) {
	return s.edit(ctx, id, "header", func(inv *domain.Invoice) error {
		if err := inv.SetSchedule(header.IssueDate, header.DueDate); err != nil {
			return err
		}
		if err := inv.SetBilling(inv.ClientID, header.TaxRate); err != nil {
			return err
		}
		return inv.SetNotes(header.Notes)
	})
}

func (s *invoiceService) AddItem(ctx context.Context, id, description string, quantity, unitPrice decimal.Decimal) (*domain.Invoice, error) {
	return s.edit(ctx, id, "add_item", func(inv *domain.Invoice) error {
		return inv.AddItem(domain.NewInvoiceItem(description, quantity, unitPrice))
	})
}

func (s *invoiceService) AddCatalogItem(ctx context.Context, id, serviceID string, quantity decimal.Decimal) (*domain.Invoice, error) {
	services, err := s.catalogRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	svc := domain.FindService(services, serviceID)
	if svc == nil {
		return nil, fmt.Errorf("service %s: %w", serviceID, domain.ErrNotFound)
	}

	return s.edit(ctx, id, "add_catalog_item", func(inv *domain.Invoice) error {
		return inv.AddItem(domain.ItemFromService(svc, quantity))
	})
}

func (s *invoiceService) UpdateItem(ctx context.Context, id, itemID, description string, quantity, unitPrice decimal.Decimal) (*domain.Invoice, error) {
	return s.edit(ctx, id, "update_item", func(inv *domain.Invoice) error {
		return inv.UpdateItem(itemID, description, quantity, unitPrice)
	})
}

func (s *invoiceService) RemoveItem(ctx context.Context, id, itemID string) (*domain.Invoice, error) {
	return s.edit(ctx, id, "remove_item", func(inv *domain.Invoice) error {
		return inv.RemoveItem(itemID)
	})
}

func (s *invoiceService) SetStatus(ctx context.Context, id string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	if _, err := domain.ParseInvoiceStatus(string(status)); err != nil {
		return nil, err
	}
	return s.edit(ctx, id, "status:"+string(status), func(inv *domain.Invoice) error {
		return inv.SetStatus(status)
	})
}

func (s *invoiceService) Dispatch(ctx context.Context, id string, sender mail.Sender) (*domain.Invoice, mail.Message, error) {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return nil, mail.Message{}, err
	}

	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, mail.Message{}, fmt.Errorf("failed to load clients: %w", err)
	}
	profile, err := s.profileRepo.Get(ctx)
	if err != nil {
		return nil, mail.Message{}, fmt.Errorf("failed to load company profile: %w", err)
	}

	msg, err := mail.Compose(invoice, domain.FindClient(clients, invoice.ClientID), profile)
	if err != nil {
		return nil, mail.Message{}, err
	}

	if err := sender.Send(ctx, msg); err != nil {
		s.log.Warn().Err(err).Str("number", invoice.Number).Msg("dispatch failed")
		return invoice, msg, fmt.Errorf("failed to send invoice %s: %w", invoice.Number, err)
	}

	if invoice.MarkDispatched() {
		if err := s.invoiceRepo.Upsert(ctx, invoice); err != nil {
			return nil, msg, fmt.Errorf("failed to save invoice: %w", err)
		}
	}

	s.log.Info().
		Str("invoice_id", invoice.ID).
		Str("number", invoice.Number).
		Str("status", string(invoice.Status)).
		Msg("invoice dispatched")

	return invoice, msg, nil
}

func (s *invoiceService) Delete(ctx context.Context, id string) error {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load invoices: %w", err)
	}

	invoice := domain.FindInvoice(invoices, id)
	if invoice == nil {
		return nil
	}
	if !invoice.CanDelete() {
		return fmt.Errorf("%w: %s", domain.ErrLockedInvoice, invoice.Number)
	}

	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.log.Info().Str("invoice_id", id).Str("number", invoice.Number).Msg("invoice deleted")
	return nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/repository"
	"github.com/shopspring/decimal"
)

// recentLimit is the number of invoices shown on the dashboard
const recentLimit = 5

// Dashboard holds the headline figures of the invoice register
type Dashboard struct {
	Revenue       decimal.Decimal // subtotals of every non-draft invoice
	Outstanding   decimal.Decimal // subtotals of sent, pending and late invoices
	CountByStatus map[domain.InvoiceStatus]int
	InvoiceCount  int
	ClientCount   int
	ServiceCount  int
	Recent        []*domain.Invoice // most recently created first
}

// ClientSummary aggregates the invoices of one client
type ClientSummary struct {
	ClientID     string
	ClientName   string
	InvoiceCount int
	Billed       decimal.Decimal
	Outstanding  decimal.Decimal
}

// ReportService provides aggregations over the invoice register
type ReportService interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
	GetClientSummaries(ctx context.Context) ([]ClientSummary, error)
	GetRevenueByMonth(ctx context.Context, year int) (map[time.Month]decimal.Decimal, error)
}

type reportService struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	catalogRepo repository.ServiceRepository
}

// NewReportService creates a new report service
func NewReportService(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	catalogRepo repository.ServiceRepository,
) ReportService {
	return &reportService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		catalogRepo: catalogRepo,
	}
}

func (s *reportService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}
	services, err := s.catalogRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	d := &Dashboard{
		Revenue:       decimal.Zero,
		Outstanding:   decimal.Zero,
		CountByStatus: make(map[domain.InvoiceStatus]int),
		InvoiceCount:  len(invoices),
		ClientCount:   len(clients),
		ServiceCount:  len(services),
	}

	for _, inv := range invoices {
		d.CountByStatus[inv.Status]++
		subtotal := inv.Subtotal()
		if inv.Status != domain.InvoiceStatusDraft {
			d.Revenue = d.Revenue.Add(subtotal)
		}
		if inv.IsOutstanding() {
			d.Outstanding = d.Outstanding.Add(subtotal)
		}
	}

	// Storage order is insertion order; walk it backwards for the newest first
	for i := len(invoices) - 1; i >= 0 && len(d.Recent) < recentLimit; i-- {
		d.Recent = append(d.Recent, invoices[i])
	}

	return d, nil
}

func (s *reportService) GetClientSummaries(ctx context.Context) ([]ClientSummary, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}

	index := make(map[string]int)
	summaries := make([]ClientSummary, 0, len(clients))
	for _, c := range clients {
		index[c.ID] = len(summaries)
		summaries = append(summaries, ClientSummary{
			ClientID:    c.ID,
			ClientName:  c.Name,
			Billed:      decimal.Zero,
			Outstanding: decimal.Zero,
		})
	}

	for _, inv := range invoices {
		i, ok := index[inv.ClientID]
		if !ok {
			// Invoices of deleted clients are grouped under a single unknown entry
			i = len(summaries)
			index[inv.ClientID] = i
			summaries = append(summaries, ClientSummary{
				ClientID:    inv.ClientID,
				ClientName:  domain.UnknownClientName,
				Billed:      decimal.Zero,
				Outstanding: decimal.Zero,
			})
		}

		sum := &summaries[i]
		sum.InvoiceCount++
		if inv.Status != domain.InvoiceStatusDraft {
			sum.Billed = sum.Billed.Add(inv.Subtotal())
		}
		if inv.IsOutstanding() {
			sum.Outstanding = sum.Outstanding.Add(inv.Subtotal())
		}
	}

	return summaries, nil
}

func (s *reportService) GetRevenueByMonth(ctx context.Context, year int) (map[time.Month]decimal.Decimal, error) {
	invoices, err := s.invoiceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}

	revenue := make(map[time.Month]decimal.Decimal)
	for _, inv := range invoices {
		if inv.Status == domain.InvoiceStatusDraft || inv.IssueDate.Year() != year {
			continue
		}
		m := inv.IssueDate.Month()
		revenue[m] = revenue[m].Add(inv.Subtotal())
	}

	return revenue, nil
}

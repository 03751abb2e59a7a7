package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/andy/proinvoice/internal/app"
	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

// DashboardModel represents the dashboard home screen
type DashboardModel struct {
	app *app.App

	dashboard *service.Dashboard
	byMonth   map[time.Month]decimal.Decimal
	clients   []*domain.Client
	year      int

	loading bool
	err     error
}

type dashboardDataMsg struct {
	dashboard *service.Dashboard
	byMonth   map[time.Month]decimal.Decimal
	clients   []*domain.Client
	err       error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(a *app.App) tea.Model {
	return &DashboardModel{
		app:     a,
		year:    time.Now().Year(),
		loading: true,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *DashboardModel) loadData() tea.Cmd {
	year := m.year
	return func() tea.Msg {
		ctx := context.Background()

		dash, err := m.app.ReportService.GetDashboard(ctx)
		if err != nil {
			return dashboardDataMsg{err: fmt.Errorf("dashboard: %w", err)}
		}
		byMonth, err := m.app.ReportService.GetRevenueByMonth(ctx, year)
		if err != nil {
			return dashboardDataMsg{err: fmt.Errorf("monthly revenue: %w", err)}
		}
		clients, err := m.app.ClientService.List(ctx)
		if err != nil {
			return dashboardDataMsg{err: err}
		}

		return dashboardDataMsg{dashboard: dash, byMonth: byMonth, clients: clients}
	}
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.dashboard = msg.dashboard
		m.byMonth = msg.byMonth
		m.clients = msg.clients
		return m, nil

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "[":
			m.year--
			return m, m.loadData()
		case "right", "]":
			m.year++
			return m, m.loadData()
		case "enter":
			return m, func() tea.Msg { return SwitchScreenMsg{Screen: ScreenInvoices} }
		}
	}

	return m, nil
}

func (m *DashboardModel) View() string {
	if m.loading {
		return "Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	currency := m.app.Config.Invoice.Currency
	d := m.dashboard

	var s string
	s += fmt.Sprintf("  Revenue:      %s\n", amountStyle.Render(formatMoney(d.Revenue, currency)))
	s += fmt.Sprintf("  Outstanding:  %s\n", amountStyle.Render(formatMoney(d.Outstanding, currency)))
	s += fmt.Sprintf("  Invoices: %d   Clients: %d   Services: %d\n", d.InvoiceCount, d.ClientCount, d.ServiceCount)

	s += "\n  "
	for _, st := range domain.InvoiceStatuses {
		s += statusStyle(st).Render(fmt.Sprintf("%s %d", st.Label(), d.CountByStatus[st])) + "   "
	}
	s += "\n"

	s += "\n" + m.renderRecent()
	s += "\n" + m.renderMonths()
	s += "\n" + helpStyle.Render("  ←/→: change year  enter: invoices")
	return s
}

func (m *DashboardModel) renderRecent() string {
	header := "  Recent Invoices\n"
	if len(m.dashboard.Recent) == 0 {
		return header + subtitleStyle.Render("  No invoices yet. Press 'i' then 'n' to create one.") + "\n"
	}

	currency := m.app.Config.Invoice.Currency
	s := header
	for _, inv := range m.dashboard.Recent {
		s += fmt.Sprintf("  %-15s %-22s %16s  %s\n",
			inv.Number,
			truncateStr(domain.ClientName(m.clients, inv.ClientID), 22),
			formatMoney(inv.Total(), currency),
			statusStyle(inv.Status).Render(inv.Status.Label()),
		)
	}
	return s
}

func (m *DashboardModel) renderMonths() string {
	s := fmt.Sprintf("  Revenue %d\n", m.year)
	currency := m.app.Config.Invoice.Currency
	found := false
	for month := time.January; month <= time.December; month++ {
		amount, ok := m.byMonth[month]
		if !ok || amount.IsZero() {
			continue
		}
		found = true
		s += fmt.Sprintf("  %-10s %16s\n", monthNames[month-1], formatMoney(amount, currency))
	}
	if !found {
		s += subtitleStyle.Render("  Nothing invoiced this year") + "\n"
	}
	return s
}

var monthNames = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

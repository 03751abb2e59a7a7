package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/proinvoice/internal/app"
	"github.com/andy/proinvoice/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

const (
	serviceFieldName = iota
	serviceFieldDescription
	serviceFieldPrice
	serviceFieldPricing
)

// CatalogModel lists the billable services and edits them
type CatalogModel struct {
	app       *app.App
	services  []*domain.Service
	cursor    int
	loading   bool
	err       error
	statusMsg string

	form          *form
	editingID     string
	confirmDelete bool
}

type catalogDataMsg struct {
	services []*domain.Service
	err      error
}

// NewCatalogModel creates a new catalog screen model
func NewCatalogModel(a *app.App) tea.Model {
	return &CatalogModel{app: a, loading: true}
}

// IsCapturingInput returns true when the form is active
func (m *CatalogModel) IsCapturingInput() bool {
	return m.form != nil
}

func (m *CatalogModel) Init() tea.Cmd {
	return m.loadServices()
}

func (m *CatalogModel) loadServices() tea.Cmd {
	return func() tea.Msg {
		services, err := m.app.CatalogService.List(context.Background())
		return catalogDataMsg{services: services, err: err}
	}
}

func (m *CatalogModel) openForm(editing *domain.Service) tea.Cmd {
	title := "New Service"
	name, description, price, pricing := "", "", "", string(domain.PricingFlat)
	m.editingID = ""
	if editing != nil {
		title = "Edit Service"
		m.editingID = editing.ID
		name, description = editing.Name, editing.Description
		price, pricing = editing.UnitPrice.String(), string(editing.Pricing)
	}

	m.form = newForm(title,
		formField{label: "Name:", placeholder: "Consulting", value: name, limit: 100},
		formField{label: "Description:", placeholder: "Optional description", value: description, width: 60},
		formField{label: "Unit price:", placeholder: "50000", value: price, limit: 20, width: 20},
		formField{label: "Pricing (flat, hourly, daily):", placeholder: "flat", value: pricing, limit: 10, width: 10},
	)
	return m.form.focusCmd()
}

func (m *CatalogModel) saveService() tea.Cmd {
	f := m.form
	id := m.editingID
	name := f.value(serviceFieldName)
	description := f.value(serviceFieldDescription)
	priceStr := strings.ReplaceAll(f.value(serviceFieldPrice), ",", ".")
	pricingStr := f.value(serviceFieldPricing)

	return func() tea.Msg {
		ctx := context.Background()
		catalog := m.app.CatalogService

		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return savedMsg{err: fmt.Errorf("invalid unit price: %q", priceStr)}
		}
		pricing, err := domain.ParsePricingType(pricingStr)
		if err != nil {
			return savedMsg{err: err}
		}

		if id == "" {
			svc, err := catalog.Create(ctx, name, description, price, pricing)
			if err != nil {
				return savedMsg{err: err}
			}
			return savedMsg{text: fmt.Sprintf("Saved: %s", svc.Name)}
		}

		draft := domain.NewService(name, price, pricing)
		if err := draft.Validate(); err != nil {
			return savedMsg{err: err}
		}

		if _, err := catalog.Describe(ctx, id, name, description); err != nil {
			return savedMsg{err: err}
		}
		if _, err := catalog.Reprice(ctx, id, price, pricing); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{text: fmt.Sprintf("Saved: %s", name)}
	}
}

func (m *CatalogModel) deleteService(svc *domain.Service) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.CatalogService.Delete(context.Background(), svc.ID); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{text: fmt.Sprintf("Deleted: %s", svc.Name)}
	}
}

func (m *CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if saved, ok := msg.(savedMsg); ok {
		if saved.err != nil {
			if m.form != nil {
				m.form.err = saved.err
			} else {
				m.err = saved.err
			}
			return m, nil
		}
		m.form = nil
		m.statusMsg = saved.text
		m.loading = true
		return m, m.loadServices()
	}

	if m.form != nil {
		action, cmd := m.form.update(msg)
		switch action {
		case formCancel:
			m.form = nil
			return m, nil
		case formSubmit:
			return m, m.saveService()
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadServices()

	case catalogDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.services = msg.services
			m.cursor = clampCursor(m.cursor, len(m.services))
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		if m.confirmDelete {
			m.confirmDelete = false
			if key.Matches(msg, DefaultKeyMap.Confirm) && len(m.services) > 0 {
				return m, m.deleteService(m.services[m.cursor])
			}
			m.statusMsg = "Cancelled"
			return m, nil
		}

		m.statusMsg = ""
		m.err = nil

		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.services)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.New):
			return m, m.openForm(nil)
		case key.Matches(msg, DefaultKeyMap.Select):
			if len(m.services) > 0 {
				return m, m.openForm(m.services[m.cursor])
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			if len(m.services) > 0 {
				m.confirmDelete = true
			}
		}
	}

	return m, nil
}

func (m *CatalogModel) View() string {
	if m.form != nil {
		return m.form.view()
	}

	if m.loading {
		return "Loading services..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	var s string
	s += titleStyle.Render("Service Catalog") + "\n\n"

	if m.confirmDelete && len(m.services) > 0 {
		s += lipgloss.NewStyle().Foreground(warningColor).
			Render(fmt.Sprintf("  Delete %s? Existing invoice lines are kept. [y/N]", m.services[m.cursor].Name)) + "\n\n"
	} else if m.statusMsg != "" {
		s += successStyle.Render("  "+m.statusMsg) + "\n\n"
	}

	if len(m.services) == 0 {
		s += subtitleStyle.Render("  No services yet. Press 'n' to add one.") + "\n"
		return s
	}

	currency := m.app.Config.Invoice.Currency
	for i, svc := range m.services {
		indicator := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			indicator = "> "
			style = selectedStyle
		}
		s += style.Render(fmt.Sprintf("%s%-30s %16s  %s",
			indicator,
			truncateStr(svc.Name, 30),
			formatMoney(svc.UnitPrice, currency),
			svc.Pricing.Label(),
		)) + "\n"
		if svc.Description != "" {
			s += subtitleStyle.Render("    "+truncateStr(svc.Description, 70)) + "\n"
		}
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  n: new  enter: edit  d: delete")
	return s
}

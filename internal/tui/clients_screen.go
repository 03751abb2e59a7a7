package tui

import (
	"context"
	"fmt"

	"github.com/andy/proinvoice/internal/app"
	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// client form field indices
const (
	clientFieldName = iota
	clientFieldEmail
	clientFieldPhone
	clientFieldAddress
	clientFieldNotes
)

// ClientsModel displays a navigable list of clients with create/edit forms
type ClientsModel struct {
	app       *app.App
	clients   []*domain.Client
	summaries map[string]service.ClientSummary
	cursor    int
	loading   bool
	err       error
	statusMsg string

	form          *form
	editingID     string // empty for a new client
	confirmDelete bool
	autoNewClient bool // open new client form after data loads
}

type clientsDataMsg struct {
	clients   []*domain.Client
	summaries map[string]service.ClientSummary
	err       error
}

// NewClientsModel creates a new clients screen model
func NewClientsModel(a *app.App) tea.Model {
	return &ClientsModel{
		app:     a,
		loading: true,
	}
}

// IsCapturingInput returns true when the form is active
func (m *ClientsModel) IsCapturingInput() bool {
	return m.form != nil
}

func (m *ClientsModel) Init() tea.Cmd {
	return m.loadClients()
}

func (m *ClientsModel) loadClients() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		clients, err := m.app.ClientService.List(ctx)
		if err != nil {
			return clientsDataMsg{err: err}
		}
		summaries, err := m.app.ReportService.GetClientSummaries(ctx)
		if err != nil {
			return clientsDataMsg{err: err}
		}

		byID := make(map[string]service.ClientSummary, len(summaries))
		for _, s := range summaries {
			byID[s.ClientID] = s
		}
		return clientsDataMsg{clients: clients, summaries: byID}
	}
}

func (m *ClientsModel) openForm(editing *domain.Client) tea.Cmd {
	var c domain.Client
	title := "New Client"
	if len(m.clients) == 0 {
		title = "Welcome to proinvoice! Let's set up your first client."
	}
	m.editingID = ""
	if editing != nil {
		c = *editing
		title = "Edit Client"
		m.editingID = editing.ID
	}

	m.form = newForm(title,
		formField{label: "Name:", placeholder: "Client name", value: c.Name, limit: 100},
		formField{label: "Email:", placeholder: "billing@example.com", value: c.Email, limit: 100},
		formField{label: "Phone:", placeholder: "+237 6 00 00 00 00", value: c.Phone, limit: 40, width: 20},
		formField{label: "Address:", placeholder: "Street, city", value: c.Address, width: 60},
		formField{label: "Notes:", placeholder: "Optional notes", value: c.Notes, width: 60},
	)
	return m.form.focusCmd()
}

func (m *ClientsModel) saveClient() tea.Cmd {
	f := m.form
	id := m.editingID
	name := f.value(clientFieldName)
	contact := domain.ClientContact{
		Email:   f.value(clientFieldEmail),
		Phone:   f.value(clientFieldPhone),
		Address: f.value(clientFieldAddress),
	}
	notes := f.value(clientFieldNotes)

	return func() tea.Msg {
		ctx := context.Background()
		clients := m.app.ClientService

		if id == "" {
			c, err := clients.Create(ctx, name, contact, notes)
			if err != nil {
				return savedMsg{err: err}
			}
			return savedMsg{text: fmt.Sprintf("Saved: %s", c.Name)}
		}

		// three saves follow, so check the whole form first
		draft := domain.NewClient(name)
		draft.SetContact(contact)
		if err := draft.Validate(); err != nil {
			return savedMsg{err: err}
		}

		if _, err := clients.Rename(ctx, id, name); err != nil {
			return savedMsg{err: err}
		}
		if _, err := clients.UpdateContact(ctx, id, contact); err != nil {
			return savedMsg{err: err}
		}
		if _, err := clients.UpdateNotes(ctx, id, notes); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{text: fmt.Sprintf("Saved: %s", name)}
	}
}

func (m *ClientsModel) deleteClient(c *domain.Client) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.ClientService.Delete(context.Background(), c.ID); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{text: fmt.Sprintf("Deleted: %s", c.Name)}
	}
}

func (m *ClientsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle OpenNewClientFormMsg at the top so it works regardless of mode
	if _, ok := msg.(OpenNewClientFormMsg); ok {
		if m.loading {
			m.autoNewClient = true
			return m, nil
		}
		return m, m.openForm(nil)
	}

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
		return m, m.loadClients()
	}

	if m.form != nil {
		action, cmd := m.form.update(msg)
		switch action {
		case formCancel:
			m.form = nil
			return m, nil
		case formSubmit:
			return m, m.saveClient()
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadClients()

	case clientsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.clients = msg.clients
			m.summaries = msg.summaries
			m.cursor = clampCursor(m.cursor, len(m.clients))
		}
		if m.autoNewClient {
			m.autoNewClient = false
			return m, m.openForm(nil)
		}
		return m, nil

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}

		if m.confirmDelete {
			m.confirmDelete = false
			if key.Matches(msg, DefaultKeyMap.Confirm) && len(m.clients) > 0 {
				return m, m.deleteClient(m.clients[m.cursor])
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
			if m.cursor < len(m.clients)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.New):
			return m, m.openForm(nil)
		case key.Matches(msg, DefaultKeyMap.Select):
			if len(m.clients) > 0 {
				return m, m.openForm(m.clients[m.cursor])
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			if len(m.clients) > 0 {
				m.confirmDelete = true
			}
		}
	}

	return m, nil
}

func (m *ClientsModel) View() string {
	if m.form != nil {
		return m.form.view()
	}
	return m.viewList()
}

func (m *ClientsModel) viewList() string {
	if m.loading {
		return "Loading clients..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	var s string
	s += titleStyle.Render("Clients") + "\n\n"

	if m.confirmDelete && len(m.clients) > 0 {
		s += lipgloss.NewStyle().Foreground(warningColor).
			Render(fmt.Sprintf("  Delete %s? Invoices keep their reference. [y/N]", m.clients[m.cursor].Name)) + "\n\n"
	} else if m.statusMsg != "" {
		s += successStyle.Render("  "+m.statusMsg) + "\n\n"
	}

	if len(m.clients) == 0 {
		s += subtitleStyle.Render("  No clients yet. Press 'n' to add one.") + "\n"
		return s
	}

	for i, client := range m.clients {
		s += m.renderClient(i, client) + "\n"
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  n: new  enter: edit  d: delete")
	return s
}

func (m *ClientsModel) renderClient(index int, client *domain.Client) string {
	selected := index == m.cursor
	currency := m.app.Config.Invoice.Currency

	indicator := "  "
	nameStyle := lipgloss.NewStyle()
	if selected {
		indicator = "> "
		nameStyle = selectedStyle
	}

	line1 := fmt.Sprintf("%s%s", indicator, client.Name)

	summary := m.summaries[client.ID]
	line2 := fmt.Sprintf("    %d invoice(s)  |  Billed: %s  |  Outstanding: %s",
		summary.InvoiceCount,
		formatMoney(summary.Billed, currency),
		formatMoney(summary.Outstanding, currency),
	)

	contact := client.Email
	if client.Phone != "" {
		if contact != "" {
			contact += "  "
		}
		contact += client.Phone
	}

	result := nameStyle.Render(line1) + "\n" + subtitleStyle.Render(line2)
	if contact != "" {
		result += "\n" + subtitleStyle.Render("    "+truncateStr(contact, 70))
	}
	return result
}

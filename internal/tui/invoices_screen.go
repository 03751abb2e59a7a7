package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andy/proinvoice/internal/app"
	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/mail"
	"github.com/andy/proinvoice/internal/render"
	"github.com/andy/proinvoice/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

type invoiceViewMode int

const (
	invoiceViewList        invoiceViewMode = iota
	invoiceViewDetail                      // Viewing a single invoice
	invoiceViewPickClient                  // New invoice, step 1
	invoiceViewPickService                 // Adding a catalog line
	invoiceViewPickStatus
	invoiceViewForm
)

type invoiceFormPurpose int

const (
	formNewInvoice invoiceFormPurpose = iota
	formAddLine
	formEditLine
	formCatalogQty
	formHeader
)

const inputDateLayout = "2006-01-02"

// InvoicesModel displays invoices in list and detail views
type InvoicesModel struct {
	app       *app.App
	mode      invoiceViewMode
	invoices  []*domain.Invoice
	clients   []*domain.Client
	services  []*domain.Service
	company   *domain.CompanyProfile
	cursor    int
	loading   bool
	err       error
	statusMsg string

	// Detail state
	selectedID    string
	lineCursor    int
	confirmDelete bool

	// Picker and form state
	pickCursor   int
	pendingID    string // client or service picked before the form
	form         *form
	formPurpose  invoiceFormPurpose
	statusFilter domain.InvoiceStatus
}

type invoicesDataMsg struct {
	invoices []*domain.Invoice
	clients  []*domain.Client
	services []*domain.Service
	company  *domain.CompanyProfile
	err      error
}

// invoiceSavedMsg reports a mutation; id selects the invoice to show afterwards
type invoiceSavedMsg struct {
	text string
	id   string
	err  error
}

// NewInvoicesModel creates a new invoices screen model
func NewInvoicesModel(a *app.App) tea.Model {
	return &InvoicesModel{
		app:     a,
		mode:    invoiceViewList,
		loading: true,
	}
}

// IsCapturingInput returns true while a picker or form is open
func (m *InvoicesModel) IsCapturingInput() bool {
	return m.mode != invoiceViewList && m.mode != invoiceViewDetail
}

func (m *InvoicesModel) Init() tea.Cmd {
	return m.loadInvoices()
}

func (m *InvoicesModel) loadInvoices() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var msg invoicesDataMsg

		if msg.invoices, msg.err = m.app.InvoiceService.List(ctx); msg.err != nil {
			return msg
		}
		if msg.clients, msg.err = m.app.ClientService.List(ctx); msg.err != nil {
			return msg
		}
		if msg.services, msg.err = m.app.CatalogService.List(ctx); msg.err != nil {
			return msg
		}
		msg.company, msg.err = m.app.ProfileService.Get(ctx)
		return msg
	}
}

// visible returns the invoices matching the status filter, newest first
func (m *InvoicesModel) visible() []*domain.Invoice {
	out := make([]*domain.Invoice, 0, len(m.invoices))
	for i := len(m.invoices) - 1; i >= 0; i-- {
		inv := m.invoices[i]
		if m.statusFilter == "" || inv.Status == m.statusFilter {
			out = append(out, inv)
		}
	}
	return out
}

func (m *InvoicesModel) selected() *domain.Invoice {
	return domain.FindInvoice(m.invoices, m.selectedID)
}

func (m *InvoicesModel) currency() string {
	return m.app.Config.Invoice.Currency
}

// mutate runs fn in the background and reports the outcome for invoice id
func (m *InvoicesModel) mutate(id, text string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return invoiceSavedMsg{err: err}
		}
		return invoiceSavedMsg{text: text, id: id}
	}
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadInvoices()

	case invoicesDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.invoices = msg.invoices
			m.clients = msg.clients
			m.services = msg.services
			m.company = msg.company
			m.cursor = clampCursor(m.cursor, len(m.visible()))
			if inv := m.selected(); inv != nil {
				m.lineCursor = clampCursor(m.lineCursor, len(inv.Items))
			} else if m.mode == invoiceViewDetail {
				m.mode = invoiceViewList
			}
		}
		return m, nil

	case invoiceSavedMsg:
		if msg.err != nil {
			if m.form != nil {
				m.form.err = msg.err
			} else {
				m.err = msg.err
			}
			return m, nil
		}
		m.form = nil
		m.statusMsg = msg.text
		if msg.id != "" {
			m.selectedID = msg.id
			m.mode = invoiceViewDetail
		} else {
			m.mode = invoiceViewList
		}
		m.loading = true
		return m, m.loadInvoices()
	}

	switch m.mode {
	case invoiceViewForm:
		return m.updateForm(msg)
	case invoiceViewPickClient, invoiceViewPickService, invoiceViewPickStatus:
		return m.updatePicker(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.loading {
		return m, nil
	}

	if m.confirmDelete {
		m.confirmDelete = false
		inv := m.selected()
		if key.Matches(keyMsg, DefaultKeyMap.Confirm) && inv != nil {
			return m, m.mutate("", fmt.Sprintf("Deleted: %s", inv.Number), func(ctx context.Context) error {
				return m.app.InvoiceService.Delete(ctx, inv.ID)
			})
		}
		m.statusMsg = "Cancelled"
		return m, nil
	}

	m.statusMsg = ""
	m.err = nil

	if m.mode == invoiceViewDetail {
		return m.updateDetail(keyMsg)
	}
	return m.updateList(keyMsg)
}

func (m *InvoicesModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visible()

	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, DefaultKeyMap.Select):
		if len(visible) > 0 {
			m.selectedID = visible[m.cursor].ID
			m.lineCursor = 0
			m.mode = invoiceViewDetail
		}
	case key.Matches(msg, DefaultKeyMap.New):
		if len(m.clients) == 0 {
			m.err = errors.New("add a client first (press 'c')")
			return m, nil
		}
		m.pickCursor = 0
		m.mode = invoiceViewPickClient
	case key.Matches(msg, DefaultKeyMap.Delete):
		if len(visible) > 0 {
			m.selectedID = visible[m.cursor].ID
			m.confirmDelete = true
		}
	case msg.String() == "f":
		m.statusFilter = nextStatusFilter(m.statusFilter)
		m.cursor = 0
	}
	return m, nil
}

// nextStatusFilter cycles all, draft, sent, ... , late, all
func nextStatusFilter(current domain.InvoiceStatus) domain.InvoiceStatus {
	if current == "" {
		return domain.InvoiceStatuses[0]
	}
	for i, st := range domain.InvoiceStatuses {
		if st == current && i+1 < len(domain.InvoiceStatuses) {
			return domain.InvoiceStatuses[i+1]
		}
	}
	return ""
}

func (m *InvoicesModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	inv := m.selected()
	if inv == nil {
		m.mode = invoiceViewList
		return m, nil
	}

	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		m.mode = invoiceViewList
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.lineCursor > 0 {
			m.lineCursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.lineCursor < len(inv.Items)-1 {
			m.lineCursor++
		}
	case key.Matches(msg, DefaultKeyMap.Select):
		if len(inv.Items) > 0 {
			return m, m.openLineForm(formEditLine, &inv.Items[m.lineCursor])
		}
	case key.Matches(msg, DefaultKeyMap.Delete):
		m.confirmDelete = true
	case msg.String() == "a":
		return m, m.openLineForm(formAddLine, nil)
	case msg.String() == "l":
		if len(m.services) == 0 {
			m.err = errors.New("the service catalog is empty (press 's')")
			return m, nil
		}
		m.pickCursor = 0
		m.mode = invoiceViewPickService
	case msg.String() == "r":
		if len(inv.Items) > 0 {
			item := inv.Items[m.lineCursor]
			return m, m.mutate(inv.ID, fmt.Sprintf("Removed: %s", item.Description), func(ctx context.Context) error {
				_, err := m.app.InvoiceService.RemoveItem(ctx, inv.ID, item.ID)
				return err
			})
		}
	case msg.String() == "e":
		return m, m.openHeaderForm(inv)
	case msg.String() == "t":
		m.pickCursor = 0
		for i, st := range domain.InvoiceStatuses {
			if st == inv.Status {
				m.pickCursor = i
			}
		}
		m.mode = invoiceViewPickStatus
	case msg.String() == "m":
		return m, m.dispatch(inv)
	case msg.String() == "w":
		return m, m.writeHTML(inv)
	}
	return m, nil
}

func (m *InvoicesModel) pickerLen() int {
	switch m.mode {
	case invoiceViewPickClient:
		return len(m.clients)
	case invoiceViewPickService:
		return len(m.services)
	default:
		return len(domain.InvoiceStatuses)
	}
}

func (m *InvoicesModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case keyMsg.String() == "esc":
		if m.mode == invoiceViewPickClient {
			m.mode = invoiceViewList
		} else {
			m.mode = invoiceViewDetail
		}
	case key.Matches(keyMsg, DefaultKeyMap.Up):
		if m.pickCursor > 0 {
			m.pickCursor--
		}
	case key.Matches(keyMsg, DefaultKeyMap.Down):
		if m.pickCursor < m.pickerLen()-1 {
			m.pickCursor++
		}
	case key.Matches(keyMsg, DefaultKeyMap.Select):
		if m.pickerLen() == 0 {
			return m, nil
		}
		switch m.mode {
		case invoiceViewPickClient:
			m.pendingID = m.clients[m.pickCursor].ID
			return m, m.openNewInvoiceForm()
		case invoiceViewPickService:
			svc := m.services[m.pickCursor]
			m.pendingID = svc.ID
			m.formPurpose = formCatalogQty
			m.form = newForm("Add "+svc.Name,
				formField{label: "Quantity:", placeholder: "1", value: "1", limit: 12, width: 12},
			)
			m.mode = invoiceViewForm
			return m, m.form.focusCmd()
		case invoiceViewPickStatus:
			inv := m.selected()
			if inv == nil {
				m.mode = invoiceViewList
				return m, nil
			}
			status := domain.InvoiceStatuses[m.pickCursor]
			m.mode = invoiceViewDetail
			return m, m.mutate(inv.ID, fmt.Sprintf("%s is now %s", inv.Number, status.Label()), func(ctx context.Context) error {
				_, err := m.app.InvoiceService.SetStatus(ctx, inv.ID, status)
				return err
			})
		}
	}
	return m, nil
}

func (m *InvoicesModel) openNewInvoiceForm() tea.Cmd {
	cfg := m.app.Config.Invoice
	today := domain.DateOf(time.Now())
	m.formPurpose = formNewInvoice
	m.form = newForm("New Invoice for "+domain.ClientName(m.clients, m.pendingID),
		formField{label: "First line description:", placeholder: "Prestation", width: 60},
		formField{label: "Quantity:", placeholder: "1", value: "1", limit: 12, width: 12},
		formField{label: "Unit price:", placeholder: "50000", limit: 20, width: 20},
		formField{label: "Issue date (YYYY-MM-DD):", value: today.Format(inputDateLayout), limit: 10, width: 12},
		formField{label: "Due date (YYYY-MM-DD):", value: today.AddDate(0, 0, cfg.DefaultDueDays).Format(inputDateLayout), limit: 10, width: 12},
		formField{label: "Tax rate (%):", value: decimal.NewFromFloat(cfg.DefaultTaxRate).String(), limit: 8, width: 8},
		formField{label: "Notes:", placeholder: "Optional notes", width: 60},
	)
	m.mode = invoiceViewForm
	return m.form.focusCmd()
}

func (m *InvoicesModel) openLineForm(purpose invoiceFormPurpose, item *domain.InvoiceItem) tea.Cmd {
	title, desc, qty, price := "Add Line", "", "1", ""
	if item != nil {
		title = "Edit Line"
		desc, qty, price = item.Description, item.Quantity.String(), item.UnitPrice.String()
		m.pendingID = item.ID
	}
	m.formPurpose = purpose
	m.form = newForm(title,
		formField{label: "Description:", value: desc, width: 60},
		formField{label: "Quantity:", value: qty, limit: 12, width: 12},
		formField{label: "Unit price:", value: price, limit: 20, width: 20},
	)
	m.mode = invoiceViewForm
	return m.form.focusCmd()
}

func (m *InvoicesModel) openHeaderForm(inv *domain.Invoice) tea.Cmd {
	m.formPurpose = formHeader
	m.form = newForm("Edit "+inv.Number,
		formField{label: "Issue date (YYYY-MM-DD):", value: inv.IssueDate.Format(inputDateLayout), limit: 10, width: 12},
		formField{label: "Due date (YYYY-MM-DD):", value: inv.DueDate.Format(inputDateLayout), limit: 10, width: 12},
		formField{label: "Tax rate (%):", value: inv.TaxRate.String(), limit: 8, width: 8},
		formField{label: "Notes:", value: inv.Notes, width: 60},
	)
	m.mode = invoiceViewForm
	return m.form.focusCmd()
}

func (m *InvoicesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	action, cmd := m.form.update(msg)
	switch action {
	case formCancel:
		m.form = nil
		if m.formPurpose == formNewInvoice {
			m.mode = invoiceViewList
		} else {
			m.mode = invoiceViewDetail
		}
		return m, nil
	case formSubmit:
		submit, err := m.submitForm()
		if err != nil {
			m.form.err = err
			return m, nil
		}
		return m, submit
	}
	return m, cmd
}

// submitForm parses the open form and returns the command persisting it
func (m *InvoicesModel) submitForm() (tea.Cmd, error) {
	f := m.form
	svc := m.app.InvoiceService
	inv := m.selected()
	pending := m.pendingID

	switch m.formPurpose {
	case formNewInvoice:
		qty, err := parseAmount(f.value(1), "quantity")
		if err != nil {
			return nil, err
		}
		price, err := parseAmount(f.value(2), "unit price")
		if err != nil {
			return nil, err
		}
		issue, err := parseInputDate(f.value(3))
		if err != nil {
			return nil, err
		}
		due, err := parseInputDate(f.value(4))
		if err != nil {
			return nil, err
		}
		rate, err := parseAmount(f.value(5), "tax rate")
		if err != nil {
			return nil, err
		}
		if rate.IsNegative() {
			return nil, domain.ErrNegativeTaxRate
		}
		input := service.NewInvoiceInput{
			ClientID:  pending,
			IssueDate: issue,
			DueDate:   due,
			TaxRate:   &rate,
			Notes:     f.value(6),
			Items:     []domain.InvoiceItem{domain.NewInvoiceItem(f.value(0), qty, price)},
		}
		return func() tea.Msg {
			created, err := svc.Create(context.Background(), input)
			if err != nil {
				return invoiceSavedMsg{err: err}
			}
			return invoiceSavedMsg{text: "Created: " + created.Number, id: created.ID}
		}, nil

	case formAddLine, formEditLine:
		qty, err := parseAmount(f.value(1), "quantity")
		if err != nil {
			return nil, err
		}
		price, err := parseAmount(f.value(2), "unit price")
		if err != nil {
			return nil, err
		}
		desc := f.value(0)
		if m.formPurpose == formAddLine {
			return m.mutate(inv.ID, "Line added", func(ctx context.Context) error {
				_, err := svc.AddItem(ctx, inv.ID, desc, qty, price)
				return err
			}), nil
		}
		return m.mutate(inv.ID, "Line updated", func(ctx context.Context) error {
			_, err := svc.UpdateItem(ctx, inv.ID, pending, desc, qty, price)
			return err
		}), nil

	case formCatalogQty:
		qty, err := parseAmount(f.value(0), "quantity")
		if err != nil {
			return nil, err
		}
		return m.mutate(inv.ID, "Service added", func(ctx context.Context) error {
			_, err := svc.AddCatalogItem(ctx, inv.ID, pending, qty)
			return err
		}), nil

	case formHeader:
		issue, err := parseInputDate(f.value(0))
		if err != nil {
			return nil, err
		}
		due, err := parseInputDate(f.value(1))
		if err != nil {
			return nil, err
		}
		rate, err := parseAmount(f.value(2), "tax rate")
		if err != nil {
			return nil, err
		}
		if rate.IsNegative() {
			return nil, domain.ErrNegativeTaxRate
		}
		header := service.InvoiceHeader{IssueDate: issue, DueDate: due, TaxRate: rate, Notes: f.value(3)}
		return m.mutate(inv.ID, inv.Number+" updated", func(ctx context.Context) error {
			_, err := svc.UpdateHeader(ctx, inv.ID, header)
			return err
		}), nil
	}
	return nil, fmt.Errorf("unknown form")
}

func (m *InvoicesModel) dispatch(inv *domain.Invoice) tea.Cmd {
	return func() tea.Msg {
		sent, msg, err := m.app.InvoiceService.Dispatch(context.Background(), inv.ID, mail.NewOpenerSender())
		if err != nil {
			return invoiceSavedMsg{err: err}
		}
		return invoiceSavedMsg{text: fmt.Sprintf("Mail to %s opened (%s)", msg.To, sent.Status.Label()), id: sent.ID}
	}
}

func (m *InvoicesModel) writeHTML(inv *domain.Invoice) tea.Cmd {
	doc := render.NewDocument(inv, m.clients, m.company, m.currency())
	dir := m.app.Config.Invoice.OutputDir
	return func() tea.Msg {
		renderer, err := render.NewHTMLRenderer()
		if err != nil {
			return invoiceSavedMsg{err: err}
		}
		path := filepath.Join(dir, render.FileName(inv, renderer))
		f, err := os.Create(path)
		if err != nil {
			return invoiceSavedMsg{err: fmt.Errorf("failed to create %s: %w", path, err)}
		}
		defer f.Close()
		if err := renderer.Render(f, doc); err != nil {
			return invoiceSavedMsg{err: err}
		}
		return invoiceSavedMsg{text: "Saved to " + path, id: inv.ID}
	}
}

func parseAmount(s, field string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %q", field, s)
	}
	return v, nil
}

func parseInputDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(inputDateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func (m *InvoicesModel) View() string {
	if m.loading && m.invoices == nil {
		return "Loading invoices..."
	}

	switch m.mode {
	case invoiceViewForm:
		return m.form.view()
	case invoiceViewPickClient:
		return m.viewPicker("Choose a client", len(m.clients), func(i int) string { return m.clients[i].Name })
	case invoiceViewPickService:
		return m.viewPicker("Choose a service", len(m.services), func(i int) string {
			svc := m.services[i]
			return fmt.Sprintf("%-30s %16s  %s", truncateStr(svc.Name, 30), formatMoney(svc.UnitPrice, m.currency()), svc.Pricing.Label())
		})
	case invoiceViewPickStatus:
		return m.viewPicker("Set status", len(domain.InvoiceStatuses), func(i int) string {
			st := domain.InvoiceStatuses[i]
			return statusStyle(st).Render(st.Label())
		})
	case invoiceViewDetail:
		return m.viewDetail()
	}
	return m.viewList()
}

func (m *InvoicesModel) viewBanner() string {
	switch {
	case m.confirmDelete:
		number := ""
		if inv := m.selected(); inv != nil {
			number = inv.Number
		}
		return lipgloss.NewStyle().Foreground(warningColor).Render(fmt.Sprintf("  Delete %s? [y/N]", number)) + "\n\n"
	case m.err != nil:
		return errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	case m.statusMsg != "":
		return successStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	return ""
}

func (m *InvoicesModel) viewList() string {
	var s string
	title := "Invoices"
	if m.statusFilter != "" {
		title += subtitleStyle.Render("  (" + m.statusFilter.Label() + ")")
	}
	s += titleStyle.Render(title) + "\n\n"
	s += m.viewBanner()

	visible := m.visible()
	if len(visible) == 0 {
		s += subtitleStyle.Render("  No invoices. Press 'n' to create one.") + "\n"
	}

	for i, inv := range visible {
		indicator := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			indicator = "> "
			style = selectedStyle
		}
		row := fmt.Sprintf("%s%-15s %-22s %-11s %16s  ",
			indicator,
			inv.Number,
			truncateStr(domain.ClientName(m.clients, inv.ClientID), 22),
			inv.DueDate.Format("02/01/2006"),
			formatMoney(inv.Total(), m.currency()),
		)
		s += style.Render(row) + statusStyle(inv.Status).Render(inv.Status.Label()) + "\n"
	}

	s += "\n" + helpStyle.Render("  j/k: navigate  enter: open  n: new  d: delete  f: filter by status")
	return s
}

func (m *InvoicesModel) viewDetail() string {
	inv := m.selected()
	if inv == nil {
		return "Invoice not found"
	}
	currency := m.currency()
	totals := inv.ComputeTotals()

	var s string
	s += titleStyle.Render("Facture "+inv.Number) + "  " + statusStyle(inv.Status).Render(inv.Status.Label()) + "\n\n"
	s += m.viewBanner()

	s += fmt.Sprintf("  Client:   %s\n", domain.ClientName(m.clients, inv.ClientID))
	s += fmt.Sprintf("  Date:     %s\n", render.LongDate(inv.IssueDate))
	s += fmt.Sprintf("  Échéance: %s\n\n", render.LongDate(inv.DueDate))

	for i, item := range inv.Items {
		indicator := "  "
		style := lipgloss.NewStyle()
		if i == m.lineCursor {
			indicator = "> "
			style = selectedStyle
		}
		s += style.Render(fmt.Sprintf("%s%-34s %8s x %14s = %16s",
			indicator,
			truncateStr(item.Description, 34),
			render.Quantity(item.Quantity),
			formatMoney(item.UnitPrice, currency),
			formatMoney(item.Amount(), currency),
		)) + "\n"
	}

	s += "\n"
	s += fmt.Sprintf("  %-20s %16s\n", "Total HT", formatMoney(totals.Subtotal, currency))
	if inv.TaxRate.IsPositive() {
		s += fmt.Sprintf("  %-20s %16s\n", "TVA ("+render.Rate(inv.TaxRate)+")", formatMoney(totals.TaxAmount, currency))
	}
	s += fmt.Sprintf("  %-20s %16s\n", "Total TTC", amountStyle.Render(formatMoney(totals.Total, currency)))

	if inv.Notes != "" {
		s += "\n" + subtitleStyle.Render("  "+inv.Notes) + "\n"
	}

	if inv.IsLocked() {
		s += "\n" + subtitleStyle.Render("  Paid invoices are locked.") + "\n"
		s += "\n" + helpStyle.Render("  m: send again  w: save HTML  esc: back")
		return s
	}
	s += "\n" + helpStyle.Render("  j/k: lines  enter: edit line  a: add line  l: add service  r: remove line")
	s += "\n" + helpStyle.Render("  e: dates/tax/notes  t: status  m: send by mail  w: save HTML  d: delete  esc: back")
	return s
}

func (m *InvoicesModel) viewPicker(title string, n int, label func(int) string) string {
	var s string
	s += titleStyle.Render(title) + "\n\n"
	if n == 0 {
		s += subtitleStyle.Render("  Nothing to choose from") + "\n"
	}
	for i := 0; i < n; i++ {
		indicator := "  "
		if i == m.pickCursor {
			indicator = "> "
		}
		s += indicator + label(i) + "\n"
	}
	s += "\n" + helpStyle.Render("  j/k: navigate  enter: choose  esc: cancel")
	return s
}

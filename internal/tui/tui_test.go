package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andy/proinvoice/internal/app"
	"github.com/andy/proinvoice/internal/config"
	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/repository/memory"
	"github.com/andy/proinvoice/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func testApp(t *testing.T) *app.App {
	t.Helper()
	store := memory.New()
	log := zerolog.Nop()
	now := func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.Local) }

	return &app.App{
		Config:         config.DefaultConfig(),
		ClientService:  service.NewClientService(store.Clients(), log),
		CatalogService: service.NewCatalogService(store.Services(), log),
		InvoiceService: service.NewInvoiceService(
			store.Invoices(), store.Clients(), store.Services(), store.Profile(),
			service.InvoiceDefaults{NumberPrefix: "FAC", DueDays: 30, TaxRate: decimal.Zero},
			now, log,
		),
		ProfileService: service.NewProfileService(store.Profile(), log),
		ReportService:  service.NewReportService(store.Invoices(), store.Clients(), store.Services()),
	}
}

func TestFormNavigation(t *testing.T) {
	f := newForm("Test",
		formField{label: "A", value: "one"},
		formField{label: "B", value: " two "},
	)

	if action, _ := f.update(tea.KeyMsg{Type: tea.KeyTab}); action != formContinue || f.focus != 1 {
		t.Fatalf("tab: action=%v focus=%d", action, f.focus)
	}
	if action, _ := f.update(tea.KeyMsg{Type: tea.KeyShiftTab}); action != formContinue || f.focus != 0 {
		t.Fatalf("shift+tab: action=%v focus=%d", action, f.focus)
	}
	if action, _ := f.update(tea.KeyMsg{Type: tea.KeyEnter}); action != formContinue || f.focus != 1 {
		t.Fatalf("enter on first field should advance, focus=%d", f.focus)
	}
	if action, _ := f.update(tea.KeyMsg{Type: tea.KeyEnter}); action != formSubmit {
		t.Fatalf("enter on last field should submit, got %v", action)
	}
	if action, _ := f.update(tea.KeyMsg{Type: tea.KeyEsc}); action != formCancel {
		t.Fatalf("esc should cancel, got %v", action)
	}
	if got := f.value(1); got != "two" {
		t.Errorf("value(1) = %q, want trimmed", got)
	}
}

func TestNextStatusFilter(t *testing.T) {
	var got []domain.InvoiceStatus
	filter := domain.InvoiceStatus("")
	for range len(domain.InvoiceStatuses) + 1 {
		filter = nextStatusFilter(filter)
		got = append(got, filter)
	}

	for i, st := range domain.InvoiceStatuses {
		if got[i] != st {
			t.Errorf("step %d = %q, want %q", i, got[i], st)
		}
	}
	if last := got[len(got)-1]; last != "" {
		t.Errorf("cycle should return to all, got %q", last)
	}
}

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"Acme", 10, "Acme"},
		{"Établissements Dupont", 10, "Établis..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncateStr(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestClampCursor(t *testing.T) {
	if got := clampCursor(5, 3); got != 2 {
		t.Errorf("clampCursor(5, 3) = %d", got)
	}
	if got := clampCursor(2, 0); got != 0 {
		t.Errorf("clampCursor(2, 0) = %d", got)
	}
}

func TestInvoicesModelLoadsAndFilters(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	client, err := a.ClientService.Create(ctx, "Acme", domain.ClientContact{}, "")
	if err != nil {
		t.Fatal(err)
	}
	items := []domain.InvoiceItem{domain.NewInvoiceItem("Design", decimal.NewFromInt(1), decimal.NewFromInt(100))}
	first, err := a.InvoiceService.Create(ctx, service.NewInvoiceInput{ClientID: client.ID, Items: items})
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.InvoiceService.Create(ctx, service.NewInvoiceInput{ClientID: client.ID, Items: items})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.InvoiceService.SetStatus(ctx, first.ID, domain.InvoiceStatusPaid); err != nil {
		t.Fatal(err)
	}

	m := NewInvoicesModel(a).(*InvoicesModel)
	m.Update(m.Init()())

	visible := m.visible()
	if len(visible) != 2 || visible[0].ID != second.ID {
		t.Fatalf("visible() should list newest first, got %d invoices", len(visible))
	}

	m.statusFilter = domain.InvoiceStatusPaid
	visible = m.visible()
	if len(visible) != 1 || visible[0].ID != first.ID {
		t.Fatalf("paid filter = %+v", visible)
	}

	// The detail view leaves global keys alone; the line form captures them
	m.statusFilter = ""
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != invoiceViewDetail || m.selectedID != second.ID {
		t.Fatalf("enter should open the selected invoice, mode=%v", m.mode)
	}
	if m.IsCapturingInput() {
		t.Error("detail view should not capture input")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if m.mode != invoiceViewForm || !m.IsCapturingInput() {
		t.Errorf("'a' should open the add line form, mode=%v", m.mode)
	}
}

func TestDashboardModelView(t *testing.T) {
	a := testApp(t)
	m := NewDashboardModel(a).(*DashboardModel)
	m.Update(m.Init()())

	if m.err != nil {
		t.Fatalf("dashboard error = %v", m.err)
	}
	if view := m.View(); view == "" {
		t.Error("empty dashboard view")
	}
}

func TestFirstRunOpensClients(t *testing.T) {
	a := testApp(t)
	m := New(a)

	msg := m.checkFirstRun()()
	check, ok := msg.(firstRunCheckMsg)
	if !ok {
		t.Fatalf("checkFirstRun() = %T, want firstRunCheckMsg", msg)
	}
	if check.hasClients {
		t.Fatal("empty store reported clients")
	}

	next, _ := m.Update(check)
	if got := next.(Model).currentScreen; got != ScreenClients {
		t.Errorf("currentScreen = %v, want %v", got, ScreenClients)
	}
}

func TestDashboardEnterSwitchesToInvoices(t *testing.T) {
	a := testApp(t)
	m := NewDashboardModel(a).(*DashboardModel)
	m.Update(m.Init()())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	sw, ok := cmd().(SwitchScreenMsg)
	if !ok || sw.Screen != ScreenInvoices {
		t.Errorf("enter produced %#v, want switch to invoices", sw)
	}
}

func TestInvoicesHeaderFormSavesAllOrNothing(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	client, err := a.ClientService.Create(ctx, "Acme", domain.ClientContact{}, "")
	if err != nil {
		t.Fatal(err)
	}
	items := []domain.InvoiceItem{domain.NewInvoiceItem("Design", decimal.NewFromInt(1), decimal.NewFromInt(100))}
	inv, err := a.InvoiceService.Create(ctx, service.NewInvoiceInput{ClientID: client.ID, Items: items})
	if err != nil {
		t.Fatal(err)
	}

	m := NewInvoicesModel(a).(*InvoicesModel)
	m.Update(m.Init()())
	m.selectedID = inv.ID
	m.mode = invoiceViewDetail

	// a negative rate is refused by the form, before any save
	m.openHeaderForm(inv)
	m.form.inputs[0].SetValue("2020-01-01")
	m.form.inputs[2].SetValue("-5")
	if _, err := m.submitForm(); !errors.Is(err, domain.ErrNegativeTaxRate) {
		t.Fatalf("submitForm() error = %v, want ErrNegativeTaxRate", err)
	}

	stored, _ := a.InvoiceService.Get(ctx, inv.ID)
	if !stored.IssueDate.Equal(inv.IssueDate) {
		t.Fatalf("issue date changed to %s by a rejected form", stored.IssueDate.Format("2006-01-02"))
	}

	// a valid form updates every header field in one save
	m.form.inputs[2].SetValue("20")
	m.form.inputs[3].SetValue("Paiement à 30 jours")
	cmd, err := m.submitForm()
	if err != nil {
		t.Fatalf("submitForm() error = %v", err)
	}
	if msg := cmd().(invoiceSavedMsg); msg.err != nil {
		t.Fatalf("save error = %v", msg.err)
	}
	stored, _ = a.InvoiceService.Get(ctx, inv.ID)
	if stored.IssueDate.Format("2006-01-02") != "2020-01-01" || !stored.TaxRate.Equal(decimal.NewFromInt(20)) || stored.Notes != "Paiement à 30 jours" {
		t.Errorf("header not saved: %s %s %q", stored.IssueDate.Format("2006-01-02"), stored.TaxRate, stored.Notes)
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/mail"
	"github.com/andy/proinvoice/internal/repository/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.Local)

func fixedClock() time.Time { return fixedNow }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store    *memory.Store
	invoices InvoiceService
	clients  ClientService
	catalog  CatalogService
	client   *domain.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	log := zerolog.Nop()

	f := &fixture{
		store: store,
		invoices: NewInvoiceService(
			store.Invoices(), store.Clients(), store.Services(), store.Profile(),
			InvoiceDefaults{NumberPrefix: "FAC", DueDays: 30, TaxRate: decimal.Zero},
			fixedClock, log,
		),
		clients: NewClientService(store.Clients(), log),
		catalog: NewCatalogService(store.Services(), log),
	}

	client, err := f.clients.Create(context.Background(), "ACME", domain.ClientContact{Email: "billing@acme.test"}, "")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	f.client = client
	return f
}

func (f *fixture) createInvoice(t *testing.T, items ...domain.InvoiceItem) *domain.Invoice {
	t.Helper()
	if len(items) == 0 {
		items = []domain.InvoiceItem{domain.NewInvoiceItem("Design", d("2"), d("150"))}
	}
	inv, err := f.invoices.Create(context.Background(), NewInvoiceInput{ClientID: f.client.ID, Items: items})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	return inv
}

func (f *fixture) forceStatus(t *testing.T, id string, status domain.InvoiceStatus) {
	t.Helper()
	ctx := context.Background()
	inv, err := f.invoices.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	inv.Status = status
	if err := f.store.Invoices().Upsert(ctx, inv); err != nil {
		t.Fatal(err)
	}
}

// recordingSender remembers what it was asked to send
type recordingSender struct {
	sent []mail.Message
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg mail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func TestCreate_Defaults(t *testing.T) {
	f := newFixture(t)
	inv := f.createInvoice(t)

	if inv.Number != "FAC-2024-001" {
		t.Errorf("number = %q", inv.Number)
	}
	if inv.Status != domain.InvoiceStatusDraft {
		t.Errorf("status = %s, want draft", inv.Status)
	}
	wantIssue := domain.DateOf(fixedNow)
	if !inv.IssueDate.Equal(wantIssue) || !inv.DueDate.Equal(wantIssue.AddDate(0, 0, 30)) {
		t.Errorf("dates = %s / %s", inv.IssueDate, inv.DueDate)
	}
	if !inv.TaxRate.IsZero() {
		t.Errorf("tax rate = %s, want 0", inv.TaxRate)
	}

	second := f.createInvoice(t)
	if second.Number != "FAC-2024-002" {
		t.Errorf("second number = %q", second.Number)
	}
}

func TestCreate_ValidationNeverPersists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input NewInvoiceInput
		want  error
	}{
		{name: "no items", input: NewInvoiceInput{ClientID: f.client.ID}, want: domain.ErrEmptyItems},
		{name: "no client", input: NewInvoiceInput{Items: []domain.InvoiceItem{domain.NewInvoiceItem("A", d("1"), d("1"))}}, want: domain.ErrMissingClient},
		{name: "neither", input: NewInvoiceInput{}, want: domain.ErrMissingClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.invoices.Create(ctx, tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	all, _ := f.invoices.List(ctx)
	if len(all) != 0 {
		t.Fatalf("invalid invoices were persisted: %d", len(all))
	}
}

func TestCreate_DanglingClientTolerated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv := f.createInvoice(t)
	if err := f.clients.Delete(ctx, f.client.ID); err != nil {
		t.Fatalf("delete client: %v", err)
	}

	got, err := f.invoices.Get(ctx, inv.ID)
	if err != nil {
		t.Fatalf("invoice should survive client deletion: %v", err)
	}
	clients, _ := f.clients.List(ctx)
	if domain.ClientName(clients, got.ClientID) != domain.UnknownClientName {
		t.Fatal("expected unknown client name")
	}
}

func TestNextNumber_DoesNotReserve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, _ := f.invoices.NextNumber(ctx)
	b, _ := f.invoices.NextNumber(ctx)
	if a != "FAC-2024-001" || a != b {
		t.Fatalf("got %q and %q", a, b)
	}
}

func TestPaidInvoiceIsLocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.createInvoice(t)
	f.forceStatus(t, inv.ID, domain.InvoiceStatusPaid)

	ops := map[string]func() error{
		"schedule": func() error { _, err := f.invoices.UpdateSchedule(ctx, inv.ID, fixedNow, fixedNow); return err },
		"billing":  func() error { _, err := f.invoices.UpdateBilling(ctx, inv.ID, f.client.ID, d("20")); return err },
		"notes":    func() error { _, err := f.invoices.UpdateNotes(ctx, inv.ID, "x"); return err },
		"add":      func() error { _, err := f.invoices.AddItem(ctx, inv.ID, "B", d("1"), d("1")); return err },
		"update":   func() error { _, err := f.invoices.UpdateItem(ctx, inv.ID, inv.Items[0].ID, "X", d("1"), d("1")); return err },
		"remove":   func() error { _, err := f.invoices.RemoveItem(ctx, inv.ID, inv.Items[0].ID); return err },
		"status":   func() error { _, err := f.invoices.SetStatus(ctx, inv.ID, domain.InvoiceStatusSent); return err },
		"delete":   func() error { return f.invoices.Delete(ctx, inv.ID) },
	}

	for name, op := range ops {
		if err := op(); !errors.Is(err, domain.ErrLockedInvoice) {
			t.Errorf("%s: expected ErrLockedInvoice, got %v", name, err)
		}
	}

	got, err := f.invoices.Get(ctx, inv.ID)
	if err != nil {
		t.Fatalf("paid invoice disappeared: %v", err)
	}
	if got.Status != domain.InvoiceStatusPaid || len(got.Items) != 1 || got.Notes != "" {
		t.Fatalf("paid invoice was modified: %+v", got)
	}
}

func TestEditUnknownInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.invoices.UpdateNotes(ctx, "missing", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.invoices.AddCatalogItem(ctx, "missing", "no-service", d("1")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.createInvoice(t)

	for i := 0; i < 2; i++ {
		if err := f.invoices.Delete(ctx, inv.ID); err != nil {
			t.Fatalf("Delete #%d: %v", i+1, err)
		}
	}
	if err := f.invoices.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("Delete unknown: %v", err)
	}
	all, _ := f.invoices.List(ctx)
	if len(all) != 0 {
		t.Fatalf("expected empty register, got %d", len(all))
	}
}

func TestEditing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.createInvoice(t)

	svc, err := f.catalog.Create(ctx, "Hosting", "", d("99.50"), domain.PricingFlat)
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	inv, err = f.invoices.AddCatalogItem(ctx, inv.ID, svc.ID, d("2"))
	if err != nil {
		t.Fatalf("AddCatalogItem: %v", err)
	}
	if len(inv.Items) != 2 || inv.Items[1].ServiceID != svc.ID || inv.Items[1].Description != "Hosting" {
		t.Fatalf("catalog item not copied: %+v", inv.Items)
	}

	// Catalog edits never reach existing lines
	if _, err := f.catalog.Reprice(ctx, svc.ID, d("500"), ""); err != nil {
		t.Fatalf("Reprice: %v", err)
	}

	inv, err = f.invoices.UpdateBilling(ctx, inv.ID, f.client.ID, d("20"))
	if err != nil {
		t.Fatalf("UpdateBilling: %v", err)
	}

	got, _ := f.invoices.Get(ctx, inv.ID)
	totals := got.ComputeTotals()
	// 2*150 + 2*99.50 = 499; tax 20% = 99.8
	if !totals.Subtotal.Equal(d("499")) || !totals.TaxAmount.Equal(d("99.8")) || !totals.Total.Equal(d("598.8")) {
		t.Fatalf("unexpected totals %+v", totals)
	}

	if _, err := f.invoices.UpdateItem(ctx, inv.ID, got.Items[0].ID, "Design v2", d("1"), d("150")); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	got, err = f.invoices.RemoveItem(ctx, inv.ID, got.Items[1].ID)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Description != "Design v2" {
		t.Fatalf("unexpected items %+v", got.Items)
	}

	// Removing the last line would leave an unsaveable invoice
	if _, err := f.invoices.RemoveItem(ctx, inv.ID, got.Items[0].ID); !errors.Is(err, domain.ErrEmptyItems) {
		t.Fatalf("expected ErrEmptyItems, got %v", err)
	}
	stored, _ := f.invoices.Get(ctx, inv.ID)
	if len(stored.Items) != 1 {
		t.Fatalf("rejected edit was persisted")
	}

	if _, err := f.invoices.UpdateBilling(ctx, inv.ID, f.client.ID, d("-5")); !errors.Is(err, domain.ErrNegativeTaxRate) {
		t.Fatalf("expected negative tax rejection, got %v", err)
	}
}

func TestCreateRejectsNegativeTaxRate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rate := d("-20")
	_, err := f.invoices.Create(ctx, NewInvoiceInput{
		ClientID: f.client.ID,
		Items:    []domain.InvoiceItem{domain.NewInvoiceItem("Design", d("1"), d("100"))},
		TaxRate:  &rate,
	})
	if !errors.Is(err, domain.ErrNegativeTaxRate) {
		t.Fatalf("Create() error = %v, want ErrNegativeTaxRate", err)
	}
	invoices, _ := f.invoices.List(ctx)
	if len(invoices) != 0 {
		t.Errorf("rejected invoice was stored")
	}
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.createInvoice(t)

	for _, st := range []domain.InvoiceStatus{
		domain.InvoiceStatusSent,
		domain.InvoiceStatusLate,
		domain.InvoiceStatusPendingPayment,
		domain.InvoiceStatusDraft,
		domain.InvoiceStatusPaid,
	} {
		got, err := f.invoices.SetStatus(ctx, inv.ID, st)
		if err != nil {
			t.Fatalf("SetStatus(%s): %v", st, err)
		}
		if got.Status != st {
			t.Fatalf("status = %s, want %s", got.Status, st)
		}
	}

	if _, err := f.invoices.SetStatus(ctx, inv.ID, domain.InvoiceStatus("archived")); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestDispatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.createInvoice(t)

	sender := &recordingSender{}
	got, msg, err := f.invoices.Dispatch(ctx, inv.ID, sender)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if got.Status != domain.InvoiceStatusSent {
		t.Fatalf("status = %s, want sent", got.Status)
	}
	if len(sender.sent) != 1 || msg.Subject != "Facture FAC-2024-001 - Votre Entreprise" {
		t.Fatalf("unexpected message %+v", msg)
	}

	// A repeated dispatch sends again but leaves other statuses alone
	f.forceStatus(t, inv.ID, domain.InvoiceStatusPaid)
	got, _, err = f.invoices.Dispatch(ctx, inv.ID, sender)
	if err != nil {
		t.Fatalf("re-dispatch: %v", err)
	}
	if got.Status != domain.InvoiceStatusPaid || len(sender.sent) != 2 {
		t.Fatalf("paid invoice changed on dispatch: %s", got.Status)
	}
}

func TestDispatch_SenderFailureKeepsDraft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.createInvoice(t)

	sender := &recordingSender{err: errors.New("no mail client")}
	if _, _, err := f.invoices.Dispatch(ctx, inv.ID, sender); err == nil {
		t.Fatal("expected sender failure")
	}

	got, _ := f.invoices.Get(ctx, inv.ID)
	if got.Status != domain.InvoiceStatusDraft {
		t.Fatalf("status = %s, want draft", got.Status)
	}
}

func TestDispatch_NoEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.clients.UpdateContact(ctx, f.client.ID, domain.ClientContact{}); err != nil {
		t.Fatal(err)
	}
	inv := f.createInvoice(t)

	sender := &recordingSender{}
	if _, _, err := f.invoices.Dispatch(ctx, inv.ID, sender); !errors.Is(err, domain.ErrNoClientEmail) {
		t.Fatalf("expected ErrNoClientEmail, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("sender should not be called")
	}
}

// failingInvoiceRepo fails every call
type failingInvoiceRepo struct{ err error }

func (m *failingInvoiceRepo) List(ctx context.Context) ([]*domain.Invoice, error) { return nil, m.err }
func (m *failingInvoiceRepo) Upsert(ctx context.Context, inv *domain.Invoice) error {
	return m.err
}
func (m *failingInvoiceRepo) Delete(ctx context.Context, id string) error { return m.err }

func TestRepositoryErrorsPropagate(t *testing.T) {
	boom := errors.New("disk full")
	store := memory.New()
	svc := NewInvoiceService(&failingInvoiceRepo{err: boom}, store.Clients(), store.Services(), store.Profile(),
		InvoiceDefaults{}, fixedClock, zerolog.Nop())

	if _, err := svc.NextNumber(context.Background()); !errors.Is(err, boom) {
		t.Errorf("NextNumber: expected wrapped error, got %v", err)
	}
	if err := svc.Delete(context.Background(), "x"); !errors.Is(err, boom) {
		t.Errorf("Delete: expected wrapped error, got %v", err)
	}
}

func TestUpdateHeader(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv := f.createInvoice(t)

	issue := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.Local)
	rejected := InvoiceHeader{IssueDate: issue, DueDate: issue.AddDate(0, 0, 30), TaxRate: d("-1"), Notes: "x"}
	if _, err := f.invoices.UpdateHeader(ctx, inv.ID, rejected); !errors.Is(err, domain.ErrNegativeTaxRate) {
		t.Fatalf("UpdateHeader() error = %v, want ErrNegativeTaxRate", err)
	}
	stored, _ := f.invoices.Get(ctx, inv.ID)
	if !stored.IssueDate.Equal(inv.IssueDate) || stored.Notes != inv.Notes {
		t.Fatalf("rejected header was partly saved: %v %q", stored.IssueDate, stored.Notes)
	}

	accepted := rejected
	accepted.TaxRate = d("5.5")
	got, err := f.invoices.UpdateHeader(ctx, inv.ID, accepted)
	if err != nil {
		t.Fatalf("UpdateHeader() error = %v", err)
	}
	if !got.IssueDate.Equal(issue) || !got.TaxRate.Equal(d("5.5")) || got.Notes != "x" {
		t.Errorf("UpdateHeader() = %v %s %q", got.IssueDate, got.TaxRate, got.Notes)
	}
}

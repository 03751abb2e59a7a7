package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestInvoice(items ...InvoiceItem) *Invoice {
	inv := NewInvoice("FAC-2024-001", "client-1", time.Now(), time.Now().AddDate(0, 0, 30), decimal.Zero)
	inv.Items = append(inv.Items, items...)
	return inv
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []InvoiceItem
		taxRate  string
		subtotal string
		tax      string
		total    string
	}{
		{name: "no items", taxRate: "20", subtotal: "0", tax: "0", total: "0"},
		{
			name:     "no tax",
			items:    []InvoiceItem{NewInvoiceItem("Design", dec("2"), dec("150"))},
			taxRate:  "0",
			subtotal: "300", tax: "0", total: "300",
		},
		{
			name: "fractional quantity with tax",
			items: []InvoiceItem{
				NewInvoiceItem("Consulting", dec("1.5"), dec("400")),
				NewInvoiceItem("Hosting", dec("1"), dec("99.99")),
			},
			taxRate:  "19.25",
			subtotal: "699.99", tax: "134.748075", total: "834.738075",
		},
		{
			name:     "twenty percent",
			items:    []InvoiceItem{NewInvoiceItem("Audit", dec("3"), dec("1000"))},
			taxRate:  "20",
			subtotal: "3000", tax: "600", total: "3600",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := newTestInvoice(tt.items...)
			inv.TaxRate = dec(tt.taxRate)

			got := inv.ComputeTotals()
			if !got.Subtotal.Equal(dec(tt.subtotal)) {
				t.Errorf("subtotal = %s, want %s", got.Subtotal, tt.subtotal)
			}
			if !got.TaxAmount.Equal(dec(tt.tax)) {
				t.Errorf("tax = %s, want %s", got.TaxAmount, tt.tax)
			}
			if !got.Total.Equal(dec(tt.total)) {
				t.Errorf("total = %s, want %s", got.Total, tt.total)
			}

			// total == subtotal + subtotal*rate/100
			want := got.Subtotal.Add(got.Subtotal.Mul(inv.TaxRate).Div(decimal.NewFromInt(100)))
			if !inv.Total().Equal(want) {
				t.Errorf("Total() = %s, want %s", inv.Total(), want)
			}
		})
	}
}

func TestComputeTotals_RecomputedAfterChange(t *testing.T) {
	inv := newTestInvoice(NewInvoiceItem("A", dec("1"), dec("10")))
	if !inv.Subtotal().Equal(dec("10")) {
		t.Fatalf("unexpected subtotal %s", inv.Subtotal())
	}

	if err := inv.AddItem(NewInvoiceItem("B", dec("2"), dec("5"))); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := inv.SetBilling(inv.ClientID, dec("10")); err != nil {
		t.Fatalf("SetBilling: %v", err)
	}

	totals := inv.ComputeTotals()
	if !totals.Subtotal.Equal(dec("20")) || !totals.Total.Equal(dec("22")) {
		t.Fatalf("totals not recomputed: %+v", totals)
	}
}

func TestCanEditCanDelete(t *testing.T) {
	for _, status := range InvoiceStatuses {
		inv := newTestInvoice()
		inv.Status = status
		want := status != InvoiceStatusPaid
		if inv.CanEdit() != want {
			t.Errorf("CanEdit(%s) = %v, want %v", status, inv.CanEdit(), want)
		}
		if inv.CanDelete() != want {
			t.Errorf("CanDelete(%s) = %v, want %v", status, inv.CanDelete(), want)
		}
	}
}

func TestPaidInvoiceRejectsMutation(t *testing.T) {
	inv := newTestInvoice(NewInvoiceItem("A", dec("1"), dec("10")))
	inv.Status = InvoiceStatusPaid

	mutations := map[string]func() error{
		"schedule": func() error { return inv.SetSchedule(time.Now(), time.Now()) },
		"billing":  func() error { return inv.SetBilling("other", dec("5")) },
		"notes":    func() error { return inv.SetNotes("changed") },
		"add":      func() error { return inv.AddItem(NewInvoiceItem("B", dec("1"), dec("1"))) },
		"update":   func() error { return inv.UpdateItem(inv.Items[0].ID, "X", dec("1"), dec("1")) },
		"remove":   func() error { return inv.RemoveItem(inv.Items[0].ID) },
		"status":   func() error { return inv.SetStatus(InvoiceStatusSent) },
	}

	for name, mutate := range mutations {
		if err := mutate(); !errors.Is(err, ErrLockedInvoice) {
			t.Errorf("%s: expected ErrLockedInvoice, got %v", name, err)
		}
	}
	if len(inv.Items) != 1 || inv.Items[0].Description != "A" || inv.Status != InvoiceStatusPaid {
		t.Fatalf("paid invoice was modified: %+v", inv)
	}
}

func TestValidateForSave(t *testing.T) {
	item := NewInvoiceItem("A", dec("1"), dec("10"))

	tests := []struct {
		name     string
		clientID string
		items    []InvoiceItem
		taxRate  string
		want     error
	}{
		{name: "valid", clientID: "c1", items: []InvoiceItem{item}, want: nil},
		{name: "client without items", clientID: "c1", want: ErrEmptyItems},
		{name: "items without client", items: []InvoiceItem{item}, want: ErrMissingClient},
		{name: "neither prefers missing client", want: ErrMissingClient},
		{name: "blank client id", clientID: "   ", items: []InvoiceItem{item}, want: ErrMissingClient},
		{name: "negative tax rate", clientID: "c1", items: []InvoiceItem{item}, taxRate: "-20", want: ErrNegativeTaxRate},
		{name: "missing client before tax rate", items: []InvoiceItem{item}, taxRate: "-20", want: ErrMissingClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invoice{ClientID: tt.clientID, Items: tt.items}
			if tt.taxRate != "" {
				inv.TaxRate = dec(tt.taxRate)
			}
			err := inv.ValidateForSave()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !IsValidation(err) {
				t.Fatalf("expected a ValidationError, got %T", err)
			}
		})
	}

	if errors.Is(ErrMissingClient, ErrEmptyItems) {
		t.Fatal("validation reasons must be distinguishable")
	}
}

func TestNewInvoiceStartsDraft(t *testing.T) {
	inv := NewInvoice("FAC-2024-001", "c1", time.Now(), time.Now(), decimal.Zero)
	if inv.Status != InvoiceStatusDraft {
		t.Fatalf("expected draft, got %s", inv.Status)
	}
	if inv.ID == "" {
		t.Fatal("expected an identifier")
	}
}

func TestMarkDispatched(t *testing.T) {
	for _, status := range InvoiceStatuses {
		inv := newTestInvoice()
		inv.Status = status

		changed := inv.MarkDispatched()
		if status == InvoiceStatusDraft {
			if !changed || inv.Status != InvoiceStatusSent {
				t.Errorf("draft should become sent, got %s", inv.Status)
			}
			continue
		}
		if changed || inv.Status != status {
			t.Errorf("%s should be unaffected by dispatch, got %s", status, inv.Status)
		}
	}
}

func TestRemoveItemKeepsOrder(t *testing.T) {
	a := NewInvoiceItem("A", dec("1"), dec("1"))
	b := NewInvoiceItem("B", dec("1"), dec("1"))
	c := NewInvoiceItem("C", dec("1"), dec("1"))
	inv := newTestInvoice(a, b, c)
	original := inv.Clone()

	if err := inv.RemoveItem(b.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(inv.Items) != 2 || inv.Items[0].ID != a.ID || inv.Items[1].ID != c.ID {
		t.Fatalf("unexpected order after removal: %+v", inv.Items)
	}
	if len(original.Items) != 3 || original.Items[1].ID != b.ID {
		t.Fatalf("clone was affected by removal: %+v", original.Items)
	}

	if err := inv.RemoveItem("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestItemFromServiceCopiesByValue(t *testing.T) {
	svc := NewService("Logo design", dec("250"), PricingFlat)
	item := ItemFromService(svc, dec("2"))

	svc.Reprice(dec("999"), PricingDaily)
	svc.Describe("Renamed", "")

	if item.Description != "Logo design" || !item.UnitPrice.Equal(dec("250")) {
		t.Fatalf("catalog edit leaked into item: %+v", item)
	}
	if item.ServiceID != svc.ID {
		t.Fatalf("expected provenance %s, got %s", svc.ID, item.ServiceID)
	}
	if !item.Amount().Equal(dec("500")) {
		t.Fatalf("amount = %s, want 500", item.Amount())
	}
}

func TestParseInvoiceStatus(t *testing.T) {
	tests := map[string]InvoiceStatus{
		"draft":           InvoiceStatusDraft,
		"Sent":            InvoiceStatusSent,
		"pending":         InvoiceStatusPendingPayment,
		"pending payment": InvoiceStatusPendingPayment,
		"PAID":            InvoiceStatusPaid,
		" late ":          InvoiceStatusLate,
	}
	for in, want := range tests {
		got, err := ParseInvoiceStatus(in)
		if err != nil || got != want {
			t.Errorf("ParseInvoiceStatus(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseInvoiceStatus("overdue"); !IsValidation(err) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
}

func TestDateOfKeepsCalendarDay(t *testing.T) {
	hawaii := time.FixedZone("HST", -10*3600)
	tests := []struct {
		name string
		in   time.Time
	}{
		{"local evening", time.Date(2024, 3, 5, 23, 59, 0, 0, time.Local)},
		{"other zone late", time.Date(2024, 3, 5, 22, 0, 0, 0, hawaii)},
		{"utc morning", time.Date(2024, 3, 5, 1, 0, 0, 0, time.UTC)},
	}
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateOf(tt.in); !got.Equal(want) || got.Location() != time.Local {
				t.Errorf("DateOf(%v) = %v, want %v", tt.in, got, want)
			}
		})
	}
}

package cli

import (
	"testing"
	"time"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 18, 45, 0, 0, time.Local)

	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "today", want: time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local)},
		{in: "Tomorrow", want: time.Date(2024, 6, 16, 0, 0, 0, 0, time.Local)},
		{in: "2024-03-05", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)},
		{in: "05/03/2024", want: time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)},
		{in: "March 5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDate(tt.in, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("parseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1.5", want: "1.5"},
		{in: "1,5", want: "1.5"},
		{in: " 150000 ", want: "150000"},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseDecimal(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseDecimal(%q) error = %v", tt.in, err)
		}
		if !tt.wantErr && !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("parseDecimal(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseItemSpec(t *testing.T) {
	item, err := parseItemSpec("Design:2:150")
	if err != nil {
		t.Fatalf("parseItemSpec() error = %v", err)
	}
	if item.Description != "Design" || !item.Amount().Equal(decimal.NewFromInt(300)) {
		t.Errorf("parseItemSpec() = %+v", item)
	}

	if _, err := parseItemSpec("Design:2"); err == nil {
		t.Error("parseItemSpec() with two fields should fail")
	}
}

func TestParseServiceSpec(t *testing.T) {
	ref, qty, err := parseServiceSpec("Audit")
	if err != nil || ref != "Audit" || !qty.Equal(decimal.NewFromInt(1)) {
		t.Errorf("parseServiceSpec(Audit) = %q %s %v", ref, qty, err)
	}

	ref, qty, err = parseServiceSpec("Audit:2,5")
	if err != nil || ref != "Audit" || !qty.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("parseServiceSpec(Audit:2,5) = %q %s %v", ref, qty, err)
	}
}

func TestItemAt(t *testing.T) {
	inv := domain.NewInvoice("FAC-2024-001", "c1", time.Now(), time.Now(), decimal.Zero)
	_ = inv.AddItem(domain.NewInvoiceItem("A", decimal.NewFromInt(1), decimal.NewFromInt(1)))
	_ = inv.AddItem(domain.NewInvoiceItem("B", decimal.NewFromInt(1), decimal.NewFromInt(1)))

	item, err := itemAt(inv, "2")
	if err != nil || item.Description != "B" {
		t.Errorf("itemAt(2) = %+v, %v", item, err)
	}
	for _, bad := range []string{"0", "3", "x"} {
		if _, err := itemAt(inv, bad); err == nil {
			t.Errorf("itemAt(%q) should fail", bad)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Société Générale", 10); got != "Société..." {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
}

package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestClientValidate(t *testing.T) {
	tests := []struct {
		name    string
		client  *Client
		field   string
		wantErr bool
	}{
		{name: "valid minimal", client: NewClient("ACME")},
		{name: "blank name", client: NewClient("   "), field: "name", wantErr: true},
		{name: "bad email", client: func() *Client {
			c := NewClient("ACME")
			c.Email = "not-an-email"
			return c
		}(), field: "email", wantErr: true},
		{name: "good email", client: func() *Client {
			c := NewClient("ACME")
			c.SetContact(ClientContact{Email: "billing@acme.test", Phone: "+237 600"})
			return c
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.client.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			want := &ValidationError{Reason: ReasonInvalidField, Field: tt.field}
			if !errors.Is(err, want) {
				t.Fatalf("expected invalid %s, got %v", tt.field, err)
			}
		})
	}
}

func TestClientName_Unknown(t *testing.T) {
	c := NewClient("ACME")
	roster := []*Client{c}

	if got := ClientName(roster, c.ID); got != "ACME" {
		t.Fatalf("got %q", got)
	}
	if got := ClientName(roster, "deleted-id"); got != UnknownClientName {
		t.Fatalf("expected unknown client, got %q", got)
	}
}

func TestServiceValidate(t *testing.T) {
	ok := NewService("Hosting", decimal.NewFromInt(10), PricingHourly)
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	negative := NewService("Refund", decimal.NewFromInt(-1), PricingFlat)
	if err := negative.Validate(); !errors.Is(err, &ValidationError{Reason: ReasonInvalidField, Field: "unitPrice"}) {
		t.Fatalf("expected negative price rejection, got %v", err)
	}

	bad := NewService("Odd", decimal.NewFromInt(1), PricingType("weekly"))
	if err := bad.Validate(); !errors.Is(err, &ValidationError{Reason: ReasonInvalidField, Field: "pricing"}) {
		t.Fatalf("expected pricing rejection, got %v", err)
	}
}

func TestCompanyProfileDefaults(t *testing.T) {
	p := DefaultCompanyProfile()
	if p.Name != DefaultCompanyName {
		t.Fatalf("got %q", p.Name)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("default profile should be valid: %v", err)
	}
}

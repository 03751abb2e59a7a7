package service

import (
	"context"
	"errors"
	"testing"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/repository/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func TestCatalogService(t *testing.T) {
	ctx := context.Background()
	svc := NewCatalogService(memory.New().Services(), zerolog.Nop())

	if _, err := svc.Create(ctx, "Audit", "", decimal.NewFromInt(-1), domain.PricingFlat); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for a negative price, got %v", err)
	}

	s, err := svc.Create(ctx, "Audit", "Security review", decimal.RequireFromString("650"), domain.PricingDaily)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := svc.Find(ctx, "audit")
	if err != nil || found.ID != s.ID {
		t.Fatalf("Find by name: %v", err)
	}

	// an empty pricing keeps the current one
	if _, err := svc.Reprice(ctx, s.ID, decimal.RequireFromString("700"), ""); err != nil {
		t.Fatalf("Reprice: %v", err)
	}
	got, _ := svc.Get(ctx, s.ID)
	if got.Pricing != domain.PricingDaily || !got.UnitPrice.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("after Reprice: %s %s", got.Pricing, got.UnitPrice)
	}

	if _, err := svc.Describe(ctx, s.ID, "", ""); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for a blank name, got %v", err)
	}

	if err := svc.Delete(ctx, s.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, s.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Get after delete: %v", err)
	}
}

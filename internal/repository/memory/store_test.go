package memory

import (
	"context"
	"testing"
	"time"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ClientRepository  = (*ClientRepo)(nil)
	_ repository.ServiceRepository = (*ServiceRepo)(nil)
	_ repository.InvoiceRepository = (*InvoiceRepo)(nil)
	_ repository.ProfileRepository = (*ProfileRepo)(nil)
)

func TestInvoiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := New().Invoices()

	inv := domain.NewInvoice("FAC-2024-001", "c1", time.Now(), time.Now().AddDate(0, 0, 30), decimal.NewFromInt(20))
	inv.Items = append(inv.Items,
		domain.NewInvoiceItem("A", decimal.NewFromInt(1), decimal.NewFromInt(10)),
		domain.NewInvoiceItem("B", decimal.NewFromInt(2), decimal.NewFromInt(5)),
	)
	if err := repo.Upsert(ctx, inv); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// Mutating the caller's copy must not leak into the store
	inv.Items[0].Description = "changed"

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 invoice, got %d", len(got))
	}
	if got[0].Items[0].Description != "A" || got[0].Items[1].Description != "B" {
		t.Fatalf("items not preserved in order: %+v", got[0].Items)
	}
	if !got[0].Total().Equal(decimal.NewFromInt(24)) {
		t.Fatalf("total = %s, want 24", got[0].Total())
	}

	// Mutating a listed copy must not leak either
	got[0].Items = nil
	again, _ := repo.List(ctx)
	if len(again[0].Items) != 2 {
		t.Fatalf("listed copy shares state with the store")
	}
}

func TestUpsertKeepsPosition(t *testing.T) {
	ctx := context.Background()
	repo := New().Clients()

	a, b, c := domain.NewClient("A"), domain.NewClient("B"), domain.NewClient("C")
	for _, cl := range []*domain.Client{a, b, c} {
		if err := repo.Upsert(ctx, cl); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	b.Rename("B2")
	if err := repo.Upsert(ctx, b); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, _ := repo.List(ctx)
	if len(got) != 3 {
		t.Fatalf("expected 3 clients, got %d", len(got))
	}
	if got[0].Name != "A" || got[1].Name != "B2" || got[2].Name != "C" {
		t.Fatalf("unexpected order: %s %s %s", got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := New().Services()

	svc := domain.NewService("Hosting", decimal.NewFromInt(10), domain.PricingFlat)
	if err := repo.Upsert(ctx, svc); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.Delete(ctx, svc.ID); err != nil {
			t.Fatalf("Delete #%d: %v", i+1, err)
		}
	}
	if err := repo.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("Delete unknown: %v", err)
	}

	got, _ := repo.List(ctx)
	if len(got) != 0 {
		t.Fatalf("expected empty catalog, got %d", len(got))
	}
}

func TestProfileDefault(t *testing.T) {
	ctx := context.Background()
	repo := New().Profile()

	p, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Name != domain.DefaultCompanyName {
		t.Fatalf("got %q", p.Name)
	}

	p.SetIdentity(domain.CompanyIdentity{Name: "Studio Nkolo", Email: "hello@nkolo.test"})
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _ := repo.Get(ctx)
	if got.Name != "Studio Nkolo" {
		t.Fatalf("profile not saved: %q", got.Name)
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/andy/proinvoice/internal/export"
	"github.com/andy/proinvoice/internal/repository/memory"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func newBackupService(store *memory.Store) BackupService {
	return NewBackupService(store.Invoices(), store.Clients(), store.Services(), store.Profile(), fixedClock, zerolog.Nop())
}

func TestBackupSnapshotAndRestore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv := f.createInvoice(t)
	if _, err := f.catalog.Create(ctx, "Audit", "", d("1000"), domain.PricingFlat); err != nil {
		t.Fatal(err)
	}

	backups := newBackupService(f.store)
	snap, err := backups.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.Version != export.BackupVersion || !snap.ExportedAt.Equal(fixedNow) {
		t.Errorf("Snapshot() header = %d %v", snap.Version, snap.ExportedAt)
	}
	if len(snap.Clients) != 1 || len(snap.Services) != 1 || len(snap.Invoices) != 1 {
		t.Fatalf("Snapshot() counts = %d/%d/%d", len(snap.Clients), len(snap.Services), len(snap.Invoices))
	}

	// Restore into a fresh store
	target := memory.New()
	if err := newBackupService(target).Restore(ctx, snap); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	invoices, _ := target.Invoices().List(ctx)
	if len(invoices) != 1 || invoices[0].ID != inv.ID {
		t.Fatalf("restored invoices = %+v", invoices)
	}
	if !invoices[0].Total().Equal(inv.Total()) {
		t.Errorf("restored total = %s, want %s", invoices[0].Total(), inv.Total())
	}
}

func TestBackupRestoreReplacesExisting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createInvoice(t)

	backups := newBackupService(f.store)
	empty := &export.Backup{Version: export.BackupVersion}
	if err := backups.Restore(ctx, empty); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	clients, _ := f.store.Clients().List(ctx)
	invoices, _ := f.store.Invoices().List(ctx)
	if len(clients) != 0 || len(invoices) != 0 {
		t.Errorf("after restore clients=%d invoices=%d, want 0", len(clients), len(invoices))
	}
	profile, _ := f.store.Profile().Get(ctx)
	if profile.Name != domain.DefaultCompanyProfile().Name {
		t.Errorf("profile name = %q, want default", profile.Name)
	}
}

func TestBackupRestoreRejectsBadVersion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createInvoice(t)

	err := newBackupService(f.store).Restore(ctx, &export.Backup{Version: 42})
	if err == nil {
		t.Fatal("Restore() error = nil")
	}
	invoices, _ := f.store.Invoices().List(ctx)
	if len(invoices) != 1 {
		t.Errorf("rejected restore must keep data, got %d invoices", len(invoices))
	}
}

func TestResetInvoicesKeepsClients(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createInvoice(t)
	f.createInvoice(t)

	n, err := newBackupService(f.store).ResetInvoices(ctx)
	if err != nil {
		t.Fatalf("ResetInvoices() error = %v", err)
	}
	if n != 2 {
		t.Errorf("ResetInvoices() = %d, want 2", n)
	}
	clients, _ := f.store.Clients().List(ctx)
	if len(clients) != 1 {
		t.Errorf("clients = %d, want 1", len(clients))
	}
}

func TestResetAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.createInvoice(t)

	profiles := NewProfileService(f.store.Profile(), zerolog.Nop())
	if _, err := profiles.UpdateFooter(ctx, "Merci"); err != nil {
		t.Fatal(err)
	}

	if err := newBackupService(f.store).ResetAll(ctx); err != nil {
		t.Fatalf("ResetAll() error = %v", err)
	}
	clients, _ := f.store.Clients().List(ctx)
	invoices, _ := f.store.Invoices().List(ctx)
	if len(clients) != 0 || len(invoices) != 0 {
		t.Errorf("after reset clients=%d invoices=%d", len(clients), len(invoices))
	}
	profile, _ := f.store.Profile().Get(ctx)
	if profile.FooterText != "" {
		t.Errorf("footer = %q, want empty", profile.FooterText)
	}
}

func TestBackupRestoreRejectsSharedLineIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	existing := f.createInvoice(t)

	a := domain.NewInvoice("FAC-2024-010", f.client.ID, fixedNow, fixedNow, decimal.Zero)
	b := domain.NewInvoice("FAC-2024-011", f.client.ID, fixedNow, fixedNow, decimal.Zero)
	line := domain.NewInvoiceItem("Design", d("1"), d("100"))
	line.ID = "same"
	a.Items = append(a.Items, line)
	b.Items = append(b.Items, line)

	backup := &export.Backup{Version: export.BackupVersion, Clients: []*domain.Client{f.client}, Invoices: []*domain.Invoice{a, b}}
	if err := newBackupService(f.store).Restore(ctx, backup); err == nil {
		t.Fatal("Restore() error = nil for shared line ids")
	}

	invoices, _ := f.store.Invoices().List(ctx)
	if len(invoices) != 1 || invoices[0].ID != existing.ID {
		t.Errorf("rejected restore changed data: %d invoices", len(invoices))
	}
}

// failingInvoices refuses to store one invoice number
type failingInvoices struct {
	*memory.InvoiceRepo
	number string
}

var errStoreFull = errors.New("store full")

func (r failingInvoices) Upsert(ctx context.Context, inv *domain.Invoice) error {
	if inv.Number == r.number {
		return errStoreFull
	}
	return r.InvoiceRepo.Upsert(ctx, inv)
}

func TestBackupRestoreRollsBackOnWriteFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	existing := f.createInvoice(t)

	invoices := failingInvoices{InvoiceRepo: f.store.Invoices(), number: "FAC-2024-099"}
	backups := NewBackupService(invoices, f.store.Clients(), f.store.Services(), f.store.Profile(), fixedClock, zerolog.Nop())

	ok := domain.NewInvoice("FAC-2024-050", f.client.ID, fixedNow, fixedNow.Add(24*time.Hour), decimal.Zero)
	bad := domain.NewInvoice("FAC-2024-099", f.client.ID, fixedNow, fixedNow, decimal.Zero)
	backup := &export.Backup{Version: export.BackupVersion, Invoices: []*domain.Invoice{ok, bad}}

	if err := backups.Restore(ctx, backup); !errors.Is(err, errStoreFull) {
		t.Fatalf("Restore() error = %v, want errStoreFull", err)
	}

	got, _ := f.store.Invoices().List(ctx)
	if len(got) != 1 || got[0].ID != existing.ID {
		t.Fatalf("after failed restore invoices = %d, want only the original", len(got))
	}
	clients, _ := f.store.Clients().List(ctx)
	if len(clients) != 1 || clients[0].ID != f.client.ID {
		t.Errorf("after failed restore clients = %d, want the original client", len(clients))
	}
}

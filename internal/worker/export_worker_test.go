package worker

import (
	"context"
	"testing"
	"time"

	"gigbook/internal/core"
	"gigbook/internal/sheets/memory"
	"gigbook/internal/storage"
)

func TestExporterRunOnce(t *testing.T) {
	store := storage.NewMemoryStore()
	target := memory.New()
	exp := NewExporter(store, target, target)
	exp.nowFn = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	client, err := store.CreateClient(ctx, core.Client{Name: "Acme", Email: "a@x.test", Status: core.ClientActive})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	inv, err := store.CreateInvoice(ctx, core.Invoice{
		Number: "INV-1", ClientID: client.ID,
		Total: core.Money{Cents: 100000}, DueDate: core.NewDate(2026, 8, 1),
		Status: core.InvoicePartiallyPaid,
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if _, err := store.CreatePayment(ctx, core.Payment{
		InvoiceID: inv.ID, ClientID: client.ID,
		Amount: core.Money{Cents: 40000}, Date: core.NewDate(2026, 8, 10),
		Status: core.PaymentCompleted,
	}); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}

	if err := exp.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	ledger := target.Ledger()
	if len(ledger) != 1 {
		t.Fatalf("ledger rows = %d, want 1", len(ledger))
	}
	row := ledger[0]
	if row.ClientName != "Acme" {
		t.Errorf("client = %q, want Acme", row.ClientName)
	}
	if row.Paid.Cents != 40000 {
		t.Errorf("paid = %d, want 40000", row.Paid.Cents)
	}
	if row.Outstanding.Cents != 60000 {
		t.Errorf("outstanding = %d, want 60000", row.Outstanding.Cents)
	}

	points := target.Earnings()
	if len(points) != trendMonths {
		t.Fatalf("trend points = %d, want %d", len(points), trendMonths)
	}
	last := points[len(points)-1]
	if last.Year != 2026 || last.Month != time.August {
		t.Errorf("last point = %d/%v, want 2026/August", last.Year, last.Month)
	}
	if last.Amount.Cents != 40000 {
		t.Errorf("august earnings = %d, want 40000", last.Amount.Cents)
	}
}

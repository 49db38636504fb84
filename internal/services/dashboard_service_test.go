package services

import (
	"context"
	"testing"
	"time"

	"gigbook/internal/cache"
	"gigbook/internal/core"
	"gigbook/internal/storage"
)

func TestMetricsDerivedFromStore(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	client, err := store.CreateClient(ctx, core.Client{Name: "Acme", Email: "a@x.test", Status: core.ClientActive})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	inv, err := store.CreateInvoice(ctx, core.Invoice{
		Number: "INV-1", ClientID: client.ID,
		Total: core.Money{Cents: 100000}, DueDate: core.NewDate(2026, 8, 1),
		Status: core.InvoicePending,
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

	svc := NewDashboardService(store, nil)
	svc.nowFn = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	m, err := svc.Metrics(ctx)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if m.TotalRevenue.Cents != 40000 {
		t.Errorf("TotalRevenue = %d, want 40000", m.TotalRevenue.Cents)
	}
	if m.UnpaidAmount.Cents != 60000 {
		t.Errorf("UnpaidAmount = %d, want 60000", m.UnpaidAmount.Cents)
	}
	if m.ActiveClients != 1 || m.TotalClients != 1 {
		t.Errorf("clients = %d/%d, want 1/1", m.ActiveClients, m.TotalClients)
	}
	if len(m.OverdueInvoices) != 1 {
		t.Fatalf("overdue invoices = %d, want 1", len(m.OverdueInvoices))
	}
	if m.OverdueInvoices[0].Outstanding.Cents != 60000 {
		t.Errorf("outstanding = %d, want 60000", m.OverdueInvoices[0].Outstanding.Cents)
	}
}

func TestMetricsCachedUntilInvalidated(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	client, err := store.CreateClient(ctx, core.Client{Name: "Acme", Email: "a@x.test", Status: core.ClientActive})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}

	metricsCache := cache.NewLRUCache[core.Metrics](4, time.Hour)
	svc := NewDashboardService(store, metricsCache)
	svc.nowFn = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	first, err := svc.Metrics(ctx)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if first.TotalClients != 1 {
		t.Fatalf("TotalClients = %d, want 1", first.TotalClients)
	}

	// Write behind the cache: stale value must still be served.
	if _, err := store.CreateClient(ctx, core.Client{Name: "Beta", Email: "b@x.test", Status: core.ClientActive}); err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	_ = client

	stale, err := svc.Metrics(ctx)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if stale.TotalClients != 1 {
		t.Fatalf("cached TotalClients = %d, want 1", stale.TotalClients)
	}

	svc.Invalidate()
	fresh, err := svc.Metrics(ctx)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if fresh.TotalClients != 2 {
		t.Fatalf("fresh TotalClients = %d, want 2", fresh.TotalClients)
	}
}

func TestTrendOldestFirst(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	client, err := store.CreateClient(ctx, core.Client{Name: "Acme", Email: "a@x.test", Status: core.ClientActive})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	add := func(y int, m int, cents int64) {
		t.Helper()
		if _, err := store.CreatePayment(ctx, core.Payment{
			ClientID: client.ID,
			Amount:   core.Money{Cents: cents},
			Date:     core.NewDate(y, m, 5),
			Status:   core.PaymentCompleted,
		}); err != nil {
			t.Fatalf("CreatePayment: %v", err)
		}
	}
	add(2026, 8, 30000)
	add(2026, 7, 20000)
	add(2026, 1, 99999) // outside the trailing 3 months

	svc := NewDashboardService(store, nil)
	svc.nowFn = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	trend, err := svc.Trend(ctx, 3)
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	if len(trend) != 3 {
		t.Fatalf("len = %d, want 3", len(trend))
	}
	if trend[0].Month != time.June || trend[0].Amount.Cents != 0 {
		t.Errorf("trend[0] = %+v, want June/0", trend[0])
	}
	if trend[1].Month != time.July || trend[1].Amount.Cents != 20000 {
		t.Errorf("trend[1] = %+v, want July/20000", trend[1])
	}
	if trend[2].Month != time.August || trend[2].Amount.Cents != 30000 {
		t.Errorf("trend[2] = %+v, want August/30000", trend[2])
	}
}

func TestTrendJanuaryWrapsYear(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewDashboardService(store, nil)
	svc.nowFn = func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) }

	trend, err := svc.Trend(context.Background(), 2)
	if err != nil {
		t.Fatalf("Trend: %v", err)
	}
	if trend[0].Year != 2025 || trend[0].Month != time.December {
		t.Errorf("trend[0] = %d/%v, want 2025/December", trend[0].Year, trend[0].Month)
	}
	if trend[1].Year != 2026 || trend[1].Month != time.January {
		t.Errorf("trend[1] = %d/%v, want 2026/January", trend[1].Year, trend[1].Month)
	}
}

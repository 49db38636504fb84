package services

import (
	"context"
	"errors"
	"testing"

	"gigbook/internal/core"
	"gigbook/internal/storage"
)

type fakePublisher struct {
	published []string
	err       error
}

func (f *fakePublisher) PublishReminder(_ context.Context, invoiceID, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, invoiceID)
	return nil
}

func seedInvoice(t *testing.T, store *storage.MemoryStore, totalCents int64) core.Invoice {
	t.Helper()
	ctx := context.Background()
	client, err := store.CreateClient(ctx, core.Client{Name: "C", Email: "c@x.test", Status: core.ClientActive})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	inv, err := store.CreateInvoice(ctx, core.Invoice{
		Number:   "INV-100",
		ClientID: client.ID,
		Total:    core.Money{Cents: totalCents},
		DueDate:  core.NewDate(2026, 8, 1),
		Status:   core.InvoicePending,
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	return inv
}

func TestNextInvoiceStatus(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		paid  int64
		want  core.InvoiceStatus
	}{
		{"nothing paid", 100000, 0, core.InvoicePending},
		{"partial", 100000, 40000, core.InvoicePartiallyPaid},
		{"exact", 100000, 100000, core.InvoicePaid},
		{"overpaid", 100000, 120000, core.InvoicePaid},
		{"zero total", 0, 0, core.InvoicePaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextInvoiceStatus(core.Money{Cents: tt.total}, core.Money{Cents: tt.paid})
			if got != tt.want {
				t.Errorf("NextInvoiceStatus(%d, %d) = %q, want %q", tt.total, tt.paid, got, tt.want)
			}
		})
	}
}

func TestRecordPaymentRollsInvoiceForward(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewBillingService(store, nil)
	ctx := context.Background()
	inv := seedInvoice(t, store, 100000)

	pay := func(cents int64) {
		t.Helper()
		_, err := svc.RecordPayment(ctx, core.Payment{
			InvoiceID: inv.ID,
			ClientID:  inv.ClientID,
			Amount:    core.Money{Cents: cents},
			Date:      core.NewDate(2026, 8, 10),
			Status:    core.PaymentCompleted,
		})
		if err != nil {
			t.Fatalf("RecordPayment: %v", err)
		}
	}

	pay(40000)
	got, err := store.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if got.Status != core.InvoicePartiallyPaid {
		t.Fatalf("status after partial = %q, want partially-paid", got.Status)
	}

	pay(60000)
	got, err = store.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if got.Status != core.InvoicePaid {
		t.Fatalf("status after full = %q, want paid", got.Status)
	}
}

func TestRecordPaymentPendingDoesNotAdvanceStatus(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewBillingService(store, nil)
	ctx := context.Background()
	inv := seedInvoice(t, store, 100000)

	_, err := svc.RecordPayment(ctx, core.Payment{
		InvoiceID: inv.ID,
		ClientID:  inv.ClientID,
		Amount:    core.Money{Cents: 100000},
		Date:      core.NewDate(2026, 8, 10),
		Status:    core.PaymentPending,
	})
	if err != nil {
		t.Fatalf("RecordPayment: %v", err)
	}

	got, err := store.GetInvoice(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetInvoice: %v", err)
	}
	if got.Status != core.InvoicePending {
		t.Fatalf("status = %q, want pending (pending payments do not count)", got.Status)
	}
}

func TestRecordPaymentUnknownInvoice(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewBillingService(store, nil)

	_, err := svc.RecordPayment(context.Background(), core.Payment{
		InvoiceID: "missing",
		ClientID:  "c1",
		Amount:    core.Money{Cents: 1000},
		Date:      core.NewDate(2026, 8, 10),
		Status:    core.PaymentCompleted,
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRecordPaymentRejectsInvalid(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewBillingService(store, nil)

	_, err := svc.RecordPayment(context.Background(), core.Payment{
		ClientID: "c1",
		Amount:   core.Money{Cents: 0},
		Date:     core.NewDate(2026, 8, 10),
		Status:   core.PaymentCompleted,
	})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestQueueReminder(t *testing.T) {
	store := storage.NewMemoryStore()
	pub := &fakePublisher{}
	svc := NewBillingService(store, pub)
	ctx := context.Background()
	inv := seedInvoice(t, store, 100000)

	if err := svc.QueueReminder(ctx, inv.ID, "email"); err != nil {
		t.Fatalf("QueueReminder: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0] != inv.ID {
		t.Fatalf("published = %v, want [%s]", pub.published, inv.ID)
	}
}

func TestQueueReminderPaidInvoiceRejected(t *testing.T) {
	store := storage.NewMemoryStore()
	pub := &fakePublisher{}
	svc := NewBillingService(store, pub)
	ctx := context.Background()
	inv := seedInvoice(t, store, 100000)

	if err := store.UpdateInvoiceStatus(ctx, inv.ID, core.InvoicePaid); err != nil {
		t.Fatalf("UpdateInvoiceStatus: %v", err)
	}
	if err := svc.QueueReminder(ctx, inv.ID, "email"); err == nil {
		t.Fatal("expected error for paid invoice")
	}
	if len(pub.published) != 0 {
		t.Fatalf("published = %v, want none", pub.published)
	}
}

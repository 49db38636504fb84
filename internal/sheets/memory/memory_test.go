package memory

import (
	"context"
	"testing"
	"time"

	"gigbook/internal/core"
	ports "gigbook/internal/sheets"
)

func TestWriteLedgerReplaces(t *testing.T) {
	store := New()
	ctx := context.Background()

	first := []ports.LedgerRow{{InvoiceNumber: "INV-1", ClientName: "Acme", Total: core.Money{Cents: 100000}}}
	if err := store.WriteLedger(ctx, first); err != nil {
		t.Fatalf("WriteLedger: %v", err)
	}

	second := []ports.LedgerRow{
		{InvoiceNumber: "INV-2", ClientName: "Beta", Total: core.Money{Cents: 5000}},
		{InvoiceNumber: "INV-3", ClientName: "Beta", Total: core.Money{Cents: 7000}},
	}
	if err := store.WriteLedger(ctx, second); err != nil {
		t.Fatalf("WriteLedger: %v", err)
	}

	got := store.Ledger()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (export replaces, not appends)", len(got))
	}
	if got[0].InvoiceNumber != "INV-2" {
		t.Errorf("row 0 = %q, want INV-2", got[0].InvoiceNumber)
	}
	if store.Writes() != 2 {
		t.Errorf("writes = %d, want 2", store.Writes())
	}
}

func TestWriteEarnings(t *testing.T) {
	store := New()
	points := []core.MonthEarnings{
		{Year: 2026, Month: time.July, Amount: core.Money{Cents: 20000}},
		{Year: 2026, Month: time.August, Amount: core.Money{Cents: 30000}},
	}
	if err := store.WriteEarnings(context.Background(), points); err != nil {
		t.Fatalf("WriteEarnings: %v", err)
	}

	got := store.Earnings()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[1].Amount.Cents != 30000 {
		t.Errorf("august = %d, want 30000", got[1].Amount.Cents)
	}
}

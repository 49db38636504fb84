package google

import (
	"testing"

	"gigbook/internal/config"
)

func TestClientUsesConfiguredSheetNames(t *testing.T) {
	cfg := &config.Config{
		GoogleSpreadsheetID: "sheet-123",
		GoogleLedgerSheet:   "Fatture",
		GoogleEarningsSheet: "Guadagni",
	}

	c := newClient(nil, cfg)

	if c.spreadsheetID != "sheet-123" {
		t.Errorf("spreadsheetID = %q, want %q", c.spreadsheetID, "sheet-123")
	}
	if c.ledgerSheet != "Fatture" {
		t.Errorf("ledgerSheet = %q, want %q", c.ledgerSheet, "Fatture")
	}
	if c.earningsSheet != "Guadagni" {
		t.Errorf("earningsSheet = %q, want %q", c.earningsSheet, "Guadagni")
	}
}

func TestClientDefaultSheetNames(t *testing.T) {
	c := newClient(nil, &config.Config{GoogleSpreadsheetID: "sheet-123"})

	if c.ledgerSheet != "Ledger" {
		t.Errorf("ledgerSheet = %q, want %q", c.ledgerSheet, "Ledger")
	}
	if c.earningsSheet != "Earnings" {
		t.Errorf("earningsSheet = %q, want %q", c.earningsSheet, "Earnings")
	}
}

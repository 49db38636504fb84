package sheets

import (
	"context"

	"gigbook/internal/core"
)

// LedgerRow is one invoice line of the exported ledger.
type LedgerRow struct {
	InvoiceNumber string
	ClientName    string
	Total         core.Money
	Paid          core.Money
	Outstanding   core.Money
	DueDate       core.Date
	Status        core.InvoiceStatus
}

// Ports for outbound adapters.
type (
	LedgerWriter interface {
		WriteLedger(ctx context.Context, rows []LedgerRow) error
	}

	// EarningsWriter exports the monthly earnings trend.
	EarningsWriter interface {
		WriteEarnings(ctx context.Context, points []core.MonthEarnings) error
	}
)

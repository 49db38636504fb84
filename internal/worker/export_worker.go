package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gigbook/internal/core"
	"gigbook/internal/services"
	"gigbook/internal/sheets"
)

const trendMonths = 6

// Exporter mirrors the invoice ledger and earnings trend into an
// external spreadsheet.
type Exporter struct {
	store    services.Store
	ledger   sheets.LedgerWriter
	earnings sheets.EarningsWriter
	nowFn    func() time.Time
}

func NewExporter(store services.Store, ledger sheets.LedgerWriter, earnings sheets.EarningsWriter) *Exporter {
	return &Exporter{
		store:    store,
		ledger:   ledger,
		earnings: earnings,
		nowFn:    time.Now,
	}
}

// RunOnce exports the current ledger and trend.
func (e *Exporter) RunOnce(ctx context.Context) error {
	clients, err := e.store.ListClients(ctx)
	if err != nil {
		return fmt.Errorf("list clients: %w", err)
	}
	invoices, err := e.store.ListInvoices(ctx)
	if err != nil {
		return fmt.Errorf("list invoices: %w", err)
	}
	payments, err := e.store.ListPayments(ctx)
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}

	nameByID := make(map[string]string, len(clients))
	for _, c := range clients {
		nameByID[c.ID] = c.Name
	}

	rows := make([]sheets.LedgerRow, 0, len(invoices))
	for _, inv := range invoices {
		outstanding := core.OutstandingBalance(inv, payments)
		rows = append(rows, sheets.LedgerRow{
			InvoiceNumber: inv.Number,
			ClientName:    nameByID[inv.ClientID],
			Total:         inv.Total,
			Paid:          core.Money{Cents: inv.Total.Cents - outstanding.Cents},
			Outstanding:   outstanding,
			DueDate:       inv.DueDate,
			Status:        inv.Status,
		})
	}

	if err := e.ledger.WriteLedger(ctx, rows); err != nil {
		return fmt.Errorf("export ledger: %w", err)
	}

	now := e.nowFn()
	points := make([]core.MonthEarnings, 0, trendMonths)
	year, month := now.Year(), now.Month()
	for i := 0; i < trendMonths; i++ {
		points = append(points, core.MonthEarnings{
			Year:   year,
			Month:  month,
			Amount: core.MonthlyEarnings(payments, year, month),
		})
		month--
		if month == 0 {
			month = time.December
			year--
		}
	}
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}

	if err := e.earnings.WriteEarnings(ctx, points); err != nil {
		return fmt.Errorf("export earnings: %w", err)
	}

	slog.InfoContext(ctx, "Ledger export completed",
		"invoices", len(rows),
		"trend_months", len(points))

	return nil
}

// Run exports on the given interval until the context ends.
func (e *Exporter) Run(ctx context.Context, interval time.Duration) error {
	if err := e.RunOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial ledger export failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := e.RunOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Ledger export failed", "error", err)
			}
		}
	}
}

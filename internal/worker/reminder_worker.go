package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gigbook/internal/amqp"
	"gigbook/internal/core"
	"gigbook/internal/services"
)

// Reminder is everything a notification channel needs to nudge a client.
type Reminder struct {
	Invoice     core.Invoice
	Client      core.Client
	Outstanding core.Money
	DaysOverdue int
	Channel     string
}

// Notifier delivers a reminder over some channel.
type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

// LogNotifier writes reminders to the log. The default channel when no
// outbound integration is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, r Reminder) error {
	slog.InfoContext(ctx, "Payment reminder",
		"invoice", r.Invoice.Number,
		"client", r.Client.Name,
		"outstanding_cents", r.Outstanding.Cents,
		"days_overdue", r.DaysOverdue,
		"channel", r.Channel)
	return nil
}

// ReminderWorker consumes reminder messages, resolves the invoice state
// and hands the reminder to the notifier.
type ReminderWorker struct {
	store    services.Store
	notifier Notifier
	nowFn    func() time.Time
}

func NewReminderWorker(store services.Store, notifier Notifier) *ReminderWorker {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &ReminderWorker{
		store:    store,
		notifier: notifier,
		nowFn:    time.Now,
	}
}

// HandleReminderMessage processes one queued reminder.
func (w *ReminderWorker) HandleReminderMessage(ctx context.Context, msg *amqp.ReminderMessage) error {
	inv, err := w.store.GetInvoice(ctx, msg.InvoiceID)
	if err != nil {
		return fmt.Errorf("get invoice %s: %w", msg.InvoiceID, err)
	}

	// The invoice may have been settled after the message was queued.
	if inv.Status == core.InvoicePaid {
		slog.InfoContext(ctx, "Skipping reminder for settled invoice",
			"invoice", inv.Number)
		return nil
	}

	client, err := w.store.GetClient(ctx, inv.ClientID)
	if err != nil {
		return fmt.Errorf("get client %s: %w", inv.ClientID, err)
	}

	payments, err := w.store.ListPaymentsByInvoice(ctx, inv.ID)
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}

	now := w.nowFn()
	reminder := Reminder{
		Invoice:     inv,
		Client:      client,
		Outstanding: core.OutstandingBalance(inv, payments),
		DaysOverdue: core.DaysOverdue(inv.DueDate, now),
		Channel:     msg.Channel,
	}

	if err := w.notifier.Notify(ctx, reminder); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	if err := w.store.RecordReminder(ctx, inv.ID, msg.Channel, now); err != nil {
		slog.ErrorContext(ctx, "Failed to record reminder",
			"invoice_id", inv.ID, "error", err)
		// The reminder went out; losing the log entry only risks an
		// extra nudge on the next scan.
	}

	return nil
}

// OverdueScanner periodically walks unpaid invoices and queues reminders
// for those whose escalation cadence says so.
type OverdueScanner struct {
	store     services.Store
	publisher services.ReminderPublisher
	batchSize int
	nowFn     func() time.Time
}

func NewOverdueScanner(store services.Store, publisher services.ReminderPublisher, batchSize int) *OverdueScanner {
	if batchSize <= 0 {
		batchSize = 25
	}
	return &OverdueScanner{
		store:     store,
		publisher: publisher,
		batchSize: batchSize,
		nowFn:     time.Now,
	}
}

// ScanOnce queues reminders for overdue invoices that are due a nudge.
// Returns the number of reminders queued.
func (s *OverdueScanner) ScanOnce(ctx context.Context) (int, error) {
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return 0, fmt.Errorf("list invoices: %w", err)
	}

	now := s.nowFn()
	queued := 0
	for _, inv := range invoices {
		if queued >= s.batchSize {
			break
		}
		if inv.Status == core.InvoicePaid || inv.DueDate.IsEmpty() {
			continue
		}
		daysOverdue := core.DaysOverdue(inv.DueDate, now)
		if daysOverdue <= 0 {
			continue
		}

		last, err := s.store.LastReminder(ctx, inv.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to read reminder history",
				"invoice_id", inv.ID, "error", err)
			continue
		}

		if !services.CheckerFor(daysOverdue).IsDue(last, now) {
			continue
		}

		if err := s.publisher.PublishReminder(ctx, inv.ID, "email"); err != nil {
			slog.ErrorContext(ctx, "Failed to queue reminder",
				"invoice_id", inv.ID, "error", err)
			continue
		}
		queued++
	}

	if queued > 0 {
		slog.InfoContext(ctx, "Overdue scan queued reminders", "count", queued)
	}
	return queued, nil
}

// Run scans on the given interval until the context ends. A scan runs
// immediately on startup.
func (s *OverdueScanner) Run(ctx context.Context, interval time.Duration) error {
	if _, err := s.ScanOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial overdue scan failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.ScanOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "Overdue scan failed", "error", err)
			}
		}
	}
}

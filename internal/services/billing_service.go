package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gigbook/internal/core"
	applog "gigbook/internal/log"
)

// ErrInvoiceSettled is returned when a reminder is requested for an
// invoice that is already paid.
var ErrInvoiceSettled = errors.New("invoice already settled")

// BillingService orchestrates payment recording and invoice status
// rollforward across SQLite and AMQP.
type BillingService struct {
	store     Store
	publisher ReminderPublisher
	logs      *applog.StructuredLogger
}

func NewBillingService(store Store, publisher ReminderPublisher) *BillingService {
	return &BillingService{
		store:     store,
		publisher: publisher,
		logs:      applog.NewStructuredLogger(applog.New(applog.Config{Component: applog.ComponentBilling})),
	}
}

// NextInvoiceStatus is the rollforward rule applied after every payment:
// fully covered invoices become paid, anything with at least one completed
// payment is partially paid, the rest stay pending.
func NextInvoiceStatus(total, paid core.Money) core.InvoiceStatus {
	switch {
	case paid.Cents >= total.Cents:
		return core.InvoicePaid
	case paid.Cents > 0:
		return core.InvoicePartiallyPaid
	default:
		return core.InvoicePending
	}
}

// RecordPayment saves a payment and rolls the invoice status forward.
// The payment is the source of truth; a failed status update is logged
// and does not unwind the save.
func (s *BillingService) RecordPayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	if err := p.Validate(); err != nil {
		return core.Payment{}, err
	}

	if p.InvoiceID != "" {
		if _, err := s.store.GetInvoice(ctx, p.InvoiceID); err != nil {
			return core.Payment{}, fmt.Errorf("resolve invoice %s: %w", p.InvoiceID, err)
		}
	}

	saved, err := s.store.CreatePayment(ctx, p)
	if err != nil {
		return core.Payment{}, fmt.Errorf("save payment: %w", err)
	}

	s.logs.LogPaymentRecorded(ctx, saved.ID, saved.InvoiceID, saved.Amount.Cents)

	if saved.InvoiceID != "" {
		if err := s.rollForwardInvoice(ctx, saved.InvoiceID); err != nil {
			slog.ErrorContext(ctx, "Failed to roll invoice status forward",
				applog.FieldInvoiceID, saved.InvoiceID, applog.FieldError, err)
			// Don't fail the request - payment is saved
		}
	}

	return saved, nil
}

func (s *BillingService) rollForwardInvoice(ctx context.Context, invoiceID string) error {
	inv, err := s.store.GetInvoice(ctx, invoiceID)
	if err != nil {
		return fmt.Errorf("get invoice: %w", err)
	}

	payments, err := s.store.ListPaymentsByInvoice(ctx, invoiceID)
	if err != nil {
		return fmt.Errorf("list payments: %w", err)
	}

	var paid int64
	for _, p := range payments {
		if p.Status == core.PaymentCompleted {
			paid += p.Amount.Cents
		}
	}

	next := NextInvoiceStatus(inv.Total, core.Money{Cents: paid})
	if next == inv.Status {
		return nil
	}

	if err := s.store.UpdateInvoiceStatus(ctx, invoiceID, next); err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}

	slog.InfoContext(ctx, "Invoice status rolled forward",
		"invoice_id", invoiceID,
		"from", inv.Status,
		"to", next)

	return nil
}

// QueueReminder publishes a payment reminder for the invoice. Paid
// invoices are never reminded.
func (s *BillingService) QueueReminder(ctx context.Context, invoiceID, channel string) error {
	inv, err := s.store.GetInvoice(ctx, invoiceID)
	if err != nil {
		return fmt.Errorf("resolve invoice %s: %w", invoiceID, err)
	}

	if inv.Status == core.InvoicePaid {
		return fmt.Errorf("invoice %s: %w", inv.Number, ErrInvoiceSettled)
	}

	if s.publisher == nil {
		slog.WarnContext(ctx, "Reminder publisher not available, skipping",
			"invoice_id", invoiceID)
		return nil
	}

	if err := s.publisher.PublishReminder(ctx, invoiceID, channel); err != nil {
		return fmt.Errorf("publish reminder: %w", err)
	}

	slog.InfoContext(ctx, "Reminder queued",
		"invoice_id", invoiceID,
		"channel", channel)

	return nil
}

// QueueExport publishes a ledger export trigger. It is a no-op when the
// configured publisher cannot carry export messages.
func (s *BillingService) QueueExport(ctx context.Context) error {
	pub, ok := s.publisher.(ExportPublisher)
	if !ok {
		slog.WarnContext(ctx, "Export publisher not available, skipping")
		return nil
	}

	if err := pub.PublishExport(ctx); err != nil {
		return fmt.Errorf("publish export: %w", err)
	}

	slog.InfoContext(ctx, "Ledger export queued")
	return nil
}

package services

import (
	"context"
	"time"

	"gigbook/internal/core"
)

// Store is the persistence surface the services need. SQLiteRepository and
// MemoryStore both satisfy it.
type Store interface {
	CreateClient(ctx context.Context, c core.Client) (core.Client, error)
	GetClient(ctx context.Context, id string) (core.Client, error)
	UpdateClient(ctx context.Context, c core.Client) error
	DeleteClient(ctx context.Context, id string) error
	ListClients(ctx context.Context) ([]core.Client, error)

	CreateTask(ctx context.Context, t core.Task) (core.Task, error)
	GetTask(ctx context.Context, id string) (core.Task, error)
	UpdateTask(ctx context.Context, t core.Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context) ([]core.Task, error)

	CreateInvoice(ctx context.Context, inv core.Invoice) (core.Invoice, error)
	GetInvoice(ctx context.Context, id string) (core.Invoice, error)
	UpdateInvoice(ctx context.Context, inv core.Invoice) error
	UpdateInvoiceStatus(ctx context.Context, id string, status core.InvoiceStatus) error
	DeleteInvoice(ctx context.Context, id string) error
	ListInvoices(ctx context.Context) ([]core.Invoice, error)

	CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error)
	GetPayment(ctx context.Context, id string) (core.Payment, error)
	DeletePayment(ctx context.Context, id string) error
	ListPayments(ctx context.Context) ([]core.Payment, error)
	ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]core.Payment, error)

	RecordReminder(ctx context.Context, invoiceID, channel string, sentAt time.Time) error
	LastReminder(ctx context.Context, invoiceID string) (time.Time, error)
}

// ReminderPublisher queues a payment reminder for asynchronous delivery.
type ReminderPublisher interface {
	PublishReminder(ctx context.Context, invoiceID, channel string) error
}

// ExportPublisher queues a ledger export trigger. Publishers that also
// implement it get export requests routed through the same queue.
type ExportPublisher interface {
	PublishExport(ctx context.Context) error
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gigbook/internal/core"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// formatDate renders a date for storage, empty string when unset.
func formatDate(d core.Date) string {
	if d.IsEmpty() {
		return ""
	}
	return d.Format(dateLayout)
}

func parseDate(s string) core.Date {
	if s == "" {
		return core.Date{}
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return core.Date{}
	}
	return core.Date{Time: t}
}

// Clients

func (r *SQLiteRepository) CreateClient(ctx context.Context, c core.Client) (core.Client, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (id, name, email, phone, company, address, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Email, c.Phone, c.Company, c.Address, string(c.Status))
	if err != nil {
		return core.Client{}, fmt.Errorf("create client: %w", err)
	}

	slog.InfoContext(ctx, "Client saved to SQLite",
		"id", c.ID,
		"name", c.Name,
		"status", c.Status)

	return c, nil
}

func (r *SQLiteRepository) GetClient(ctx context.Context, id string) (core.Client, error) {
	var c core.Client
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, company, address, status FROM clients WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address, &c.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Client{}, ErrNotFound
	}
	if err != nil {
		return core.Client{}, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateClient(ctx context.Context, c core.Client) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET name = ?, email = ?, phone = ?, company = ?, address = ?, status = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		c.Name, c.Email, c.Phone, c.Company, c.Address, string(c.Status), c.ID)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return rowsAffected(res, "client")
}

func (r *SQLiteRepository) DeleteClient(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	return rowsAffected(res, "client")
}

func (r *SQLiteRepository) ListClients(ctx context.Context) ([]core.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, phone, company, address, status FROM clients ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []core.Client
	for rows.Next() {
		var c core.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address, &c.Status); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// Tasks

func (r *SQLiteRepository) CreateTask(ctx context.Context, t core.Task) (core.Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, client_id, due_date, status, priority, price_cents)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.ClientID, formatDate(t.DueDate), string(t.Status), t.Priority, t.Price.Cents)
	if err != nil {
		return core.Task{}, fmt.Errorf("create task: %w", err)
	}

	slog.InfoContext(ctx, "Task saved to SQLite",
		"id", t.ID,
		"title", t.Title,
		"client_id", t.ClientID,
		"status", t.Status)

	return t, nil
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (core.Task, error) {
	var (
		t   core.Task
		due string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, client_id, due_date, status, priority, price_cents
		 FROM tasks WHERE id = ?`, id).
		Scan(&t.ID, &t.Title, &t.Description, &t.ClientID, &due, &t.Status, &t.Priority, &t.Price.Cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Task{}, ErrNotFound
	}
	if err != nil {
		return core.Task{}, fmt.Errorf("get task: %w", err)
	}
	t.DueDate = parseDate(due)
	return t, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, t core.Task) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, client_id = ?, due_date = ?, status = ?,
		 priority = ?, price_cents = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		t.Title, t.Description, t.ClientID, formatDate(t.DueDate), string(t.Status), t.Priority, t.Price.Cents, t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return rowsAffected(res, "task")
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return rowsAffected(res, "task")
}

func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]core.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, client_id, due_date, status, priority, price_cents
		 FROM tasks ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []core.Task
	for rows.Next() {
		var (
			t   core.Task
			due string
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.ClientID, &due, &t.Status, &t.Priority, &t.Price.Cents); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.DueDate = parseDate(due)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Invoices

func (r *SQLiteRepository) CreateInvoice(ctx context.Context, inv core.Invoice) (core.Invoice, error) {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (id, number, client_id, total_cents, due_date, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Number, inv.ClientID, inv.Total.Cents, formatDate(inv.DueDate), string(inv.Status))
	if err != nil {
		return core.Invoice{}, fmt.Errorf("create invoice: %w", err)
	}

	slog.InfoContext(ctx, "Invoice saved to SQLite",
		"id", inv.ID,
		"number", inv.Number,
		"total_cents", inv.Total.Cents,
		"client_id", inv.ClientID)

	return inv, nil
}

func (r *SQLiteRepository) GetInvoice(ctx context.Context, id string) (core.Invoice, error) {
	var (
		inv core.Invoice
		due string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, number, client_id, total_cents, due_date, status FROM invoices WHERE id = ?`, id).
		Scan(&inv.ID, &inv.Number, &inv.ClientID, &inv.Total.Cents, &due, &inv.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Invoice{}, ErrNotFound
	}
	if err != nil {
		return core.Invoice{}, fmt.Errorf("get invoice: %w", err)
	}
	inv.DueDate = parseDate(due)
	return inv, nil
}

func (r *SQLiteRepository) UpdateInvoice(ctx context.Context, inv core.Invoice) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET number = ?, client_id = ?, total_cents = ?, due_date = ?, status = ?,
		 updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		inv.Number, inv.ClientID, inv.Total.Cents, formatDate(inv.DueDate), string(inv.Status), inv.ID)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return rowsAffected(res, "invoice")
}

func (r *SQLiteRepository) UpdateInvoiceStatus(ctx context.Context, id string, status core.InvoiceStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		string(status), id)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return rowsAffected(res, "invoice")
}

func (r *SQLiteRepository) DeleteInvoice(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return rowsAffected(res, "invoice")
}

func (r *SQLiteRepository) ListInvoices(ctx context.Context) ([]core.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, number, client_id, total_cents, due_date, status FROM invoices ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []core.Invoice
	for rows.Next() {
		var (
			inv core.Invoice
			due string
		)
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.ClientID, &inv.Total.Cents, &due, &inv.Status); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		inv.DueDate = parseDate(due)
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// Payments

func (r *SQLiteRepository) CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (id, invoice_id, client_id, amount_cents, paid_on, method, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.InvoiceID, p.ClientID, p.Amount.Cents, formatDate(p.Date), p.Method, string(p.Status))
	if err != nil {
		return core.Payment{}, fmt.Errorf("create payment: %w", err)
	}

	slog.InfoContext(ctx, "Payment saved to SQLite",
		"id", p.ID,
		"invoice_id", p.InvoiceID,
		"amount_cents", p.Amount.Cents,
		"status", p.Status)

	return p, nil
}

func (r *SQLiteRepository) GetPayment(ctx context.Context, id string) (core.Payment, error) {
	var (
		p    core.Payment
		paid string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, invoice_id, client_id, amount_cents, paid_on, method, status FROM payments WHERE id = ?`, id).
		Scan(&p.ID, &p.InvoiceID, &p.ClientID, &p.Amount.Cents, &paid, &p.Method, &p.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Payment{}, ErrNotFound
	}
	if err != nil {
		return core.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	p.Date = parseDate(paid)
	return p, nil
}

func (r *SQLiteRepository) DeletePayment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return rowsAffected(res, "payment")
}

func (r *SQLiteRepository) ListPayments(ctx context.Context) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, invoice_id, client_id, amount_cents, paid_on, method, status
		 FROM payments ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *SQLiteRepository) ListPaymentsByInvoice(ctx context.Context, invoiceID string) ([]core.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, invoice_id, client_id, amount_cents, paid_on, method, status
		 FROM payments WHERE invoice_id = ? ORDER BY created_at`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments by invoice: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

func scanPayments(rows *sql.Rows) ([]core.Payment, error) {
	var payments []core.Payment
	for rows.Next() {
		var (
			p    core.Payment
			paid string
		)
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.ClientID, &p.Amount.Cents, &paid, &p.Method, &p.Status); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		p.Date = parseDate(paid)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// Reminders

// RecordReminder logs that a reminder for an invoice went out.
func (r *SQLiteRepository) RecordReminder(ctx context.Context, invoiceID, channel string, sentAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reminders (id, invoice_id, channel, sent_at) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), invoiceID, channel, sentAt.UTC())
	if err != nil {
		return fmt.Errorf("record reminder: %w", err)
	}

	slog.InfoContext(ctx, "Reminder recorded",
		"invoice_id", invoiceID,
		"channel", channel)

	return nil
}

// LastReminder returns when the invoice was last reminded, zero time if never.
func (r *SQLiteRepository) LastReminder(ctx context.Context, invoiceID string) (time.Time, error) {
	var sentAt time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT sent_at FROM reminders WHERE invoice_id = ? ORDER BY sent_at DESC LIMIT 1`, invoiceID).
		Scan(&sentAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("last reminder: %w", err)
	}
	return sentAt, nil
}

func rowsAffected(res sql.Result, kind string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", kind, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

package core

import (
	"errors"
	"strings"
	"time"
)

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"

	TaskTodo       TaskStatus = "todo"
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"

	InvoicePending       InvoiceStatus = "pending"
	InvoicePartiallyPaid InvoiceStatus = "partially-paid"
	InvoicePaid          InvoiceStatus = "paid"

	PaymentCompleted PaymentStatus = "completed"
	PaymentPending   PaymentStatus = "pending"
	PaymentFailed    PaymentStatus = "failed"
)

type (
	ClientStatus  string
	TaskStatus    string
	InvoiceStatus string
	PaymentStatus string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Client struct {
		ID      string
		Name    string
		Email   string
		Phone   string
		Company string
		Address string
		Status  ClientStatus
	}

	Task struct {
		ID          string
		Title       string
		Description string
		ClientID    string
		DueDate     Date // zero means no due date
		Status      TaskStatus
		Priority    string
		Price       Money
	}

	Invoice struct {
		ID       string
		Number   string
		ClientID string
		Total    Money
		DueDate  Date
		Status   InvoiceStatus
	}

	Payment struct {
		ID        string
		InvoiceID string // empty for payments not attributed to an invoice
		ClientID  string
		Amount    Money
		Date      Date
		Method    string
		Status    PaymentStatus
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyEmail    = errors.New("empty email")
	ErrEmptyTitle    = errors.New("empty title")
	ErrEmptyClient   = errors.New("empty client reference")
	ErrEmptyNumber   = errors.New("empty invoice number")
	ErrInvalidStatus = errors.New("invalid status")
)

// NewDate creates a Date at UTC midnight of the given calendar day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty returns true if no date was set.
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// SameDay reports whether d falls on the same calendar day as t.
func (d Date) SameDay(t time.Time) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (s ClientStatus) Valid() bool {
	return s == ClientActive || s == ClientInactive
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoicePending, InvoicePartiallyPaid, InvoicePaid:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentCompleted, PaymentPending, PaymentFailed:
		return true
	}
	return false
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if strings.TrimSpace(c.Email) == "" {
		return ErrEmptyEmail
	}
	if !c.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if len(t.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if strings.TrimSpace(t.ClientID) == "" {
		return ErrEmptyClient
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	return t.Price.Validate()
}

func (i Invoice) Validate() error {
	if strings.TrimSpace(i.Number) == "" {
		return ErrEmptyNumber
	}
	if strings.TrimSpace(i.ClientID) == "" {
		return ErrEmptyClient
	}
	if i.DueDate.IsZero() {
		return ErrInvalidDate
	}
	if !i.Status.Valid() {
		return ErrInvalidStatus
	}
	return i.Total.Validate()
}

func (p Payment) Validate() error {
	if strings.TrimSpace(p.ClientID) == "" {
		return ErrEmptyClient
	}
	if p.Date.IsZero() {
		return ErrInvalidDate
	}
	if !p.Status.Valid() {
		return ErrInvalidStatus
	}
	if p.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

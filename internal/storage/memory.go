package storage

import (
	"context"
	"sync"
	"time"

	"gigbook/internal/core"

	"github.com/google/uuid"
)

// MemoryStore keeps all records in process memory. It backs tests and
// carries the same method set as SQLiteRepository.
type MemoryStore struct {
	mu        sync.RWMutex
	clients   map[string]core.Client
	tasks     map[string]core.Task
	invoices  map[string]core.Invoice
	payments  map[string]core.Payment
	reminders map[string][]reminderEntry

	// insertion order, so List results are stable like the SQL ORDER BY created_at
	clientOrder  []string
	taskOrder    []string
	invoiceOrder []string
	paymentOrder []string
}

type reminderEntry struct {
	channel string
	sentAt  time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		clients:   make(map[string]core.Client),
		tasks:     make(map[string]core.Task),
		invoices:  make(map[string]core.Invoice),
		payments:  make(map[string]core.Payment),
		reminders: make(map[string][]reminderEntry),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateClient(_ context.Context, c core.Client) (core.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.clients[c.ID] = c
	s.clientOrder = append(s.clientOrder, c.ID)
	return c, nil
}

func (s *MemoryStore) GetClient(_ context.Context, id string) (core.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return core.Client{}, ErrNotFound
	}
	return c, nil
}

func (s *MemoryStore) UpdateClient(_ context.Context, c core.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c.ID]; !ok {
		return ErrNotFound
	}
	s.clients[c.ID] = c
	return nil
}

func (s *MemoryStore) DeleteClient(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[id]; !ok {
		return ErrNotFound
	}
	delete(s.clients, id)
	s.clientOrder = remove(s.clientOrder, id)
	return nil
}

func (s *MemoryStore) ListClients(_ context.Context) ([]core.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Client, 0, len(s.clientOrder))
	for _, id := range s.clientOrder {
		out = append(out, s.clients[id])
	}
	return out, nil
}

func (s *MemoryStore) CreateTask(_ context.Context, t core.Task) (core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.tasks[t.ID] = t
	s.taskOrder = append(s.taskOrder, t.ID)
	return t, nil
}

func (s *MemoryStore) GetTask(_ context.Context, id string) (core.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return core.Task{}, ErrNotFound
	}
	return t, nil
}

func (s *MemoryStore) UpdateTask(_ context.Context, t core.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		return ErrNotFound
	}
	s.tasks[t.ID] = t
	return nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	s.taskOrder = remove(s.taskOrder, id)
	return nil
}

func (s *MemoryStore) ListTasks(_ context.Context) ([]core.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Task, 0, len(s.taskOrder))
	for _, id := range s.taskOrder {
		out = append(out, s.tasks[id])
	}
	return out, nil
}

func (s *MemoryStore) CreateInvoice(_ context.Context, inv core.Invoice) (core.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	s.invoices[inv.ID] = inv
	s.invoiceOrder = append(s.invoiceOrder, inv.ID)
	return inv, nil
}

func (s *MemoryStore) GetInvoice(_ context.Context, id string) (core.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.invoices[id]
	if !ok {
		return core.Invoice{}, ErrNotFound
	}
	return inv, nil
}

func (s *MemoryStore) UpdateInvoice(_ context.Context, inv core.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[inv.ID]; !ok {
		return ErrNotFound
	}
	s.invoices[inv.ID] = inv
	return nil
}

func (s *MemoryStore) UpdateInvoiceStatus(_ context.Context, id string, status core.InvoiceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return ErrNotFound
	}
	inv.Status = status
	s.invoices[id] = inv
	return nil
}

func (s *MemoryStore) DeleteInvoice(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[id]; !ok {
		return ErrNotFound
	}
	delete(s.invoices, id)
	s.invoiceOrder = remove(s.invoiceOrder, id)
	return nil
}

func (s *MemoryStore) ListInvoices(_ context.Context) ([]core.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Invoice, 0, len(s.invoiceOrder))
	for _, id := range s.invoiceOrder {
		out = append(out, s.invoices[id])
	}
	return out, nil
}

func (s *MemoryStore) CreatePayment(_ context.Context, p core.Payment) (core.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.payments[p.ID] = p
	s.paymentOrder = append(s.paymentOrder, p.ID)
	return p, nil
}

func (s *MemoryStore) GetPayment(_ context.Context, id string) (core.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return core.Payment{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) DeletePayment(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[id]; !ok {
		return ErrNotFound
	}
	delete(s.payments, id)
	s.paymentOrder = remove(s.paymentOrder, id)
	return nil
}

func (s *MemoryStore) ListPayments(_ context.Context) ([]core.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Payment, 0, len(s.paymentOrder))
	for _, id := range s.paymentOrder {
		out = append(out, s.payments[id])
	}
	return out, nil
}

func (s *MemoryStore) ListPaymentsByInvoice(_ context.Context, invoiceID string) ([]core.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []core.Payment
	for _, id := range s.paymentOrder {
		if p := s.payments[id]; p.InvoiceID == invoiceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) RecordReminder(_ context.Context, invoiceID, channel string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders[invoiceID] = append(s.reminders[invoiceID], reminderEntry{channel: channel, sentAt: sentAt})
	return nil
}

func (s *MemoryStore) LastReminder(_ context.Context, invoiceID string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.reminders[invoiceID]
	var last time.Time
	for _, e := range entries {
		if e.sentAt.After(last) {
			last = e.sentAt
		}
	}
	return last, nil
}

func remove(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

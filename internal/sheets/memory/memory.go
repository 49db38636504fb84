package memory

import (
	"context"
	"sync"

	"gigbook/internal/core"
	ports "gigbook/internal/sheets"
)

// Store is an in-memory ledger target. It backs tests and local runs
// where no Google credentials exist.
type Store struct {
	mu       sync.Mutex
	ledger   []ports.LedgerRow
	earnings []core.MonthEarnings
	writes   int
}

var (
	_ ports.LedgerWriter   = (*Store)(nil)
	_ ports.EarningsWriter = (*Store)(nil)
)

func New() *Store {
	return &Store{}
}

func (s *Store) WriteLedger(_ context.Context, rows []ports.LedgerRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = append([]ports.LedgerRow(nil), rows...)
	s.writes++
	return nil
}

func (s *Store) WriteEarnings(_ context.Context, points []core.MonthEarnings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.earnings = append([]core.MonthEarnings(nil), points...)
	s.writes++
	return nil
}

// Ledger returns the last exported ledger.
func (s *Store) Ledger() []ports.LedgerRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.LedgerRow(nil), s.ledger...)
}

// Earnings returns the last exported trend.
func (s *Store) Earnings() []core.MonthEarnings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.MonthEarnings(nil), s.earnings...)
}

// Writes counts export calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

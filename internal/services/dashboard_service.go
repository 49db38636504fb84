package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gigbook/internal/cache"
	"gigbook/internal/core"

	"golang.org/x/sync/errgroup"
)

const metricsCacheKey = "dashboard-metrics"

// DashboardService assembles a snapshot of all records and derives the
// dashboard metrics from it. Results are cached until the next write.
type DashboardService struct {
	store Store
	cache *cache.LRUCache[core.Metrics]
	nowFn func() time.Time
}

func NewDashboardService(store Store, metricsCache *cache.LRUCache[core.Metrics]) *DashboardService {
	return &DashboardService{
		store: store,
		cache: metricsCache,
		nowFn: time.Now,
	}
}

// Metrics returns the derived dashboard, served from cache when fresh.
func (s *DashboardService) Metrics(ctx context.Context) (core.Metrics, error) {
	if s.cache != nil {
		if m, ok := s.cache.Get(metricsCacheKey); ok {
			slog.DebugContext(ctx, "Dashboard metrics served from cache")
			return m, nil
		}
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return core.Metrics{}, err
	}

	metrics := core.Derive(snap, s.nowFn())

	if s.cache != nil {
		s.cache.Set(metricsCacheKey, metrics)
	}

	slog.InfoContext(ctx, "Dashboard metrics derived",
		"clients", metrics.TotalClients,
		"tasks", metrics.TotalTasks,
		"invoices", metrics.TotalInvoices)

	return metrics, nil
}

// Snapshot fetches all four collections concurrently.
func (s *DashboardService) Snapshot(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		clients, err := s.store.ListClients(gctx)
		if err != nil {
			return fmt.Errorf("list clients: %w", err)
		}
		snap.Clients = clients
		return nil
	})
	g.Go(func() error {
		tasks, err := s.store.ListTasks(gctx)
		if err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		snap.Tasks = tasks
		return nil
	})
	g.Go(func() error {
		invoices, err := s.store.ListInvoices(gctx)
		if err != nil {
			return fmt.Errorf("list invoices: %w", err)
		}
		snap.Invoices = invoices
		return nil
	})
	g.Go(func() error {
		payments, err := s.store.ListPayments(gctx)
		if err != nil {
			return fmt.Errorf("list payments: %w", err)
		}
		snap.Payments = payments
		return nil
	})

	if err := g.Wait(); err != nil {
		return core.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

// Trend returns completed-payment earnings for the trailing n months,
// oldest first, ending with the current month.
func (s *DashboardService) Trend(ctx context.Context, months int) ([]core.MonthEarnings, error) {
	if months <= 0 {
		months = 6
	}

	payments, err := s.store.ListPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	now := s.nowFn()
	trend := make([]core.MonthEarnings, 0, months)
	year, month := now.Year(), now.Month()
	for i := 0; i < months; i++ {
		trend = append(trend, core.MonthEarnings{
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

	// reverse to oldest-first
	for i, j := 0, len(trend)-1; i < j; i, j = i+1, j-1 {
		trend[i], trend[j] = trend[j], trend[i]
	}
	return trend, nil
}

// Invalidate drops the cached metrics. Call after any write.
func (s *DashboardService) Invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

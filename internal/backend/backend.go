// Package backend assembles the persistence, messaging, and service
// layers from configuration so both binaries bootstrap the same way.
package backend

import (
	"fmt"
	"log/slog"
	"time"

	"gigbook/internal/amqp"
	"gigbook/internal/cache"
	"gigbook/internal/config"
	"gigbook/internal/core"
	"gigbook/internal/services"
	"gigbook/internal/storage"
)

// StoreType selects the persistence backend.
type StoreType string

const (
	SQLiteStore StoreType = "sqlite"
	MemoryStore StoreType = "memory"
)

// IsValid returns true if the store type is known.
func (st StoreType) IsValid() bool {
	switch st {
	case SQLiteStore, MemoryStore:
		return true
	default:
		return false
	}
}

// Result holds the assembled application components.
type Result struct {
	Store     services.Store
	Queue     *amqp.Client // nil when the broker is unavailable
	Dashboard *services.DashboardService
	Billing   *services.BillingService
	Caches    *cache.Manager

	cleanups []func() error
}

// Close releases every resource the build acquired, in reverse order.
func (r *Result) Close() error {
	var firstErr error
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		if err := r.cleanups[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Build wires storage, messaging, caching, and services from config.
// A missing broker degrades to nil Queue; a missing database is fatal.
func Build(cfg *config.Config) (*Result, error) {
	storeType := StoreType(cfg.StoreBackend)
	if !storeType.IsValid() {
		return nil, fmt.Errorf("invalid store backend: %s", cfg.StoreBackend)
	}

	r := &Result{}

	switch storeType {
	case MemoryStore:
		r.Store = storage.NewMemoryStore()
		slog.Info("Initialized memory store")
	default:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		r.Store = repo
		r.cleanups = append(r.cleanups, repo.Close)
		slog.Info("Initialized SQLite store", "db_path", cfg.SQLiteDBPath)
	}

	if cfg.AMQPURL != "" {
		queue, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Warn("AMQP unavailable, queueing disabled", "error", err)
		} else {
			r.Queue = queue
			r.cleanups = append(r.cleanups, queue.Close)
			slog.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	r.Caches = cache.NewManager()
	metricsCache := cache.NewLRUCache[core.Metrics](16, time.Minute)
	r.Caches.Register(metricsCache)
	r.Caches.StartCleanup(time.Minute)
	r.cleanups = append(r.cleanups, func() error {
		r.Caches.Stop()
		return nil
	})

	r.Dashboard = services.NewDashboardService(r.Store, metricsCache)

	var publisher services.ReminderPublisher
	if r.Queue != nil {
		publisher = r.Queue
	}
	r.Billing = services.NewBillingService(r.Store, publisher)

	return r, nil
}

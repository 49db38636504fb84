package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gigbook/internal/amqp"
	"gigbook/internal/backend"
	"gigbook/internal/config"
	gsheet "gigbook/internal/sheets/google"
	"gigbook/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting gigbook-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	app, err := backend.Build(cfg)
	if err != nil {
		logger.Error("Failed to assemble backend", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	// The broker is mandatory here: reminders and exports flow through
	// the queue.
	if app.Queue == nil {
		logger.Error("AMQP client unavailable, worker cannot run")
		os.Exit(1)
	}

	// Google Sheets export is optional.
	var exporter *worker.Exporter
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := gsheet.New(context.Background(), cfg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		exporter = worker.NewExporter(app.Store, sheetsClient, sheetsClient)
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reminderWorker := worker.NewReminderWorker(app.Store, worker.LogNotifier{})
	scanner := worker.NewOverdueScanner(app.Store, app.Queue, cfg.ReminderBatchSize)

	// Consume queued reminder and export messages.
	go func() {
		reminders := func(msg *amqp.ReminderMessage) error {
			return reminderWorker.HandleReminderMessage(ctx, msg)
		}
		exports := func(*amqp.ExportMessage) error {
			if exporter == nil {
				logger.Warn("Export requested but Google Sheets is not configured, dropping")
				return nil
			}
			return exporter.RunOnce(ctx)
		}
		if err := app.Queue.ConsumeMessages(ctx, reminders, exports); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// Periodically scan for overdue invoices and queue reminders.
	go func() {
		if err := scanner.Run(ctx, cfg.ReminderScanInterval); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Overdue scan loop failed", "error", err)
			cancel()
		}
	}()

	if exporter != nil {
		go func() {
			if err := exporter.Run(ctx, cfg.ExportInterval); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Export loop failed", "error", err)
			}
		}()
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	// Give loops time to finish current operations
	logger.Info("Shutting down worker...")
	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}

package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gigbook/internal/config"
	"gigbook/internal/core"
	ports "gigbook/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	ledgerSheet   string
	earningsSheet string
}

// Ensure interface conformance
var (
	_ ports.LedgerWriter   = (*Client)(nil)
	_ ports.EarningsWriter = (*Client)(nil)
)

// New creates a Sheets client for the spreadsheet and sheet names in cfg.
// Service account credentials come from the environment:
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if strings.TrimSpace(cfg.GoogleSpreadsheetID) == "" {
		return nil, errors.New("missing Google spreadsheet ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return newClient(svc, cfg), nil
}

func newClient(svc *gsheet.Service, cfg *config.Config) *Client {
	ledgerSheet := strings.TrimSpace(cfg.GoogleLedgerSheet)
	if ledgerSheet == "" {
		ledgerSheet = "Ledger"
	}
	earningsSheet := strings.TrimSpace(cfg.GoogleEarningsSheet)
	if earningsSheet == "" {
		earningsSheet = "Earnings"
	}

	return &Client{
		svc:           svc,
		spreadsheetID: strings.TrimSpace(cfg.GoogleSpreadsheetID),
		ledgerSheet:   ledgerSheet,
		earningsSheet: earningsSheet,
	}
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))

	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error

	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created")
	return service, nil
}

// WriteLedger replaces the ledger sheet with one row per invoice.
func (c *Client) WriteLedger(ctx context.Context, rows []ports.LedgerRow) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := make([][]any, 0, len(rows)+1)
	values = append(values, []any{"Invoice", "Client", "Total", "Paid", "Outstanding", "Due", "Status"})
	for _, r := range rows {
		due := ""
		if !r.DueDate.IsEmpty() {
			due = r.DueDate.Format("2006-01-02")
		}
		values = append(values, []any{
			r.InvoiceNumber,
			r.ClientName,
			units(r.Total),
			units(r.Paid),
			units(r.Outstanding),
			due,
			string(r.Status),
		})
	}

	if err := c.replaceSheet(ctx, c.ledgerSheet, values); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}

	slog.InfoContext(ctx, "Ledger exported to Google Sheets",
		"sheet", c.ledgerSheet,
		"rows", len(rows))

	return nil
}

// WriteEarnings replaces the earnings sheet with the monthly trend.
func (c *Client) WriteEarnings(ctx context.Context, points []core.MonthEarnings) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	values := make([][]any, 0, len(points)+1)
	values = append(values, []any{"Month", "Earnings"})
	for _, p := range points {
		values = append(values, []any{
			fmt.Sprintf("%04d-%02d", p.Year, int(p.Month)),
			units(p.Amount),
		})
	}

	if err := c.replaceSheet(ctx, c.earningsSheet, values); err != nil {
		return fmt.Errorf("write earnings: %w", err)
	}

	slog.InfoContext(ctx, "Earnings trend exported to Google Sheets",
		"sheet", c.earningsSheet,
		"points", len(points))

	return nil
}

func (c *Client) replaceSheet(ctx context.Context, sheetName string, values [][]any) error {
	rng := fmt.Sprintf("%s!A:Z", sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}

	target := fmt.Sprintf("%s!A1", sheetName)
	vr := &gsheet.ValueRange{Values: values}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, target, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", target, err)
	}

	return nil
}

func units(m core.Money) float64 {
	return float64(m.Cents) / 100.0
}

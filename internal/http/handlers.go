package http

import (
	"log/slog"
	"net/http"

	"gigbook/internal/core"
)

// Wire representations of the domain records.
type (
	clientDTO struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone,omitempty"`
		Company string `json:"company,omitempty"`
		Address string `json:"address,omitempty"`
		Status  string `json:"status"`
	}

	taskDTO struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
		ClientID    string `json:"client_id"`
		DueDate     string `json:"due_date,omitempty"`
		Status      string `json:"status"`
		Priority    string `json:"priority"`
		PriceCents  int64  `json:"price_cents"`
	}

	invoiceDTO struct {
		ID         string `json:"id"`
		Number     string `json:"number"`
		ClientID   string `json:"client_id"`
		TotalCents int64  `json:"total_cents"`
		DueDate    string `json:"due_date"`
		Status     string `json:"status"`
	}

	paymentDTO struct {
		ID          string `json:"id"`
		InvoiceID   string `json:"invoice_id,omitempty"`
		ClientID    string `json:"client_id"`
		AmountCents int64  `json:"amount_cents"`
		Date        string `json:"date"`
		Method      string `json:"method,omitempty"`
		Status      string `json:"status"`
	}
)

func dateString(d core.Date) string {
	if d.IsEmpty() {
		return ""
	}
	return d.Format("2006-01-02")
}

func toClientDTO(c core.Client) clientDTO {
	return clientDTO{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Company: c.Company,
		Address: c.Address,
		Status:  string(c.Status),
	}
}

func toTaskDTO(t core.Task) taskDTO {
	return taskDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		ClientID:    t.ClientID,
		DueDate:     dateString(t.DueDate),
		Status:      string(t.Status),
		Priority:    t.Priority,
		PriceCents:  t.Price.Cents,
	}
}

func toInvoiceDTO(inv core.Invoice) invoiceDTO {
	return invoiceDTO{
		ID:         inv.ID,
		Number:     inv.Number,
		ClientID:   inv.ClientID,
		TotalCents: inv.Total.Cents,
		DueDate:    dateString(inv.DueDate),
		Status:     string(inv.Status),
	}
}

func toPaymentDTO(p core.Payment) paymentDTO {
	return paymentDTO{
		ID:          p.ID,
		InvoiceID:   p.InvoiceID,
		ClientID:    p.ClientID,
		AmountCents: p.Amount.Cents,
		Date:        dateString(p.Date),
		Method:      p.Method,
		Status:      string(p.Status),
	}
}

// handleIndex renders the dashboard page server-side.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	metrics, err := s.dashboard.Metrics(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard metrics failed", "error", err)
		http.Error(w, "dashboard unavailable", http.StatusInternalServerError)
		return
	}

	data := struct {
		Revenue       string
		MonthEarnings string
		Growth        float64
		Unpaid        string
		OpenTasks     int
		OverdueTasks  int
		ActiveClients int
		Overdue       []core.OverdueInvoice
		Upcoming      []core.UpcomingTask
	}{
		Revenue:       formatAmount(metrics.TotalRevenue),
		MonthEarnings: formatAmount(metrics.MonthEarnings),
		Growth:        metrics.RevenueGrowth,
		Unpaid:        formatAmount(metrics.UnpaidAmount),
		OpenTasks:     metrics.OpenTasks,
		OverdueTasks:  metrics.OverdueTasks,
		ActiveClients: metrics.ActiveClients,
		Overdue:       metrics.OverdueInvoices,
		Upcoming:      metrics.UpcomingTasks,
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

package http

import (
	"fmt"
	"net/http"
	"strconv"

	"gigbook/internal/core"
)

type bucketDTO struct {
	AmountCents int64 `json:"amount_cents"`
	Invoices    int   `json:"invoices"`
}

type upcomingTaskDTO struct {
	Task   taskDTO    `json:"task"`
	Client *clientDTO `json:"client,omitempty"`
}

type overdueInvoiceDTO struct {
	Invoice          invoiceDTO `json:"invoice"`
	Client           *clientDTO `json:"client,omitempty"`
	OutstandingCents int64      `json:"outstanding_cents"`
	DaysOverdue      int        `json:"days_overdue"`
}

type dashboardDTO struct {
	TotalRevenueCents      int64   `json:"total_revenue_cents"`
	MonthEarningsCents     int64   `json:"month_earnings_cents"`
	PrevMonthEarningsCents int64   `json:"prev_month_earnings_cents"`
	RevenueGrowth          float64 `json:"revenue_growth"`

	PendingPaymentsCents int64 `json:"pending_payments_cents"`
	UnpaidAmountCents    int64 `json:"unpaid_amount_cents"`
	UnpaidInvoices       int   `json:"unpaid_invoices"`
	TotalInvoices        int   `json:"total_invoices"`

	CompletedTasks int `json:"completed_tasks"`
	OpenTasks      int `json:"open_tasks"`
	OverdueTasks   int `json:"overdue_tasks"`
	DueTodayTasks  int `json:"due_today_tasks"`
	TotalTasks     int `json:"total_tasks"`

	UpcomingTasks   []upcomingTaskDTO   `json:"upcoming_tasks"`
	OverdueInvoices []overdueInvoiceDTO `json:"overdue_invoices"`

	PendingBucket       bucketDTO `json:"pending_bucket"`
	PartiallyPaidBucket bucketDTO `json:"partially_paid_bucket"`
	PaidBucket          bucketDTO `json:"paid_bucket"`

	ActiveClients int `json:"active_clients"`
	TotalClients  int `json:"total_clients"`
}

func toDashboardDTO(m core.Metrics) dashboardDTO {
	dto := dashboardDTO{
		TotalRevenueCents:      m.TotalRevenue.Cents,
		MonthEarningsCents:     m.MonthEarnings.Cents,
		PrevMonthEarningsCents: m.PrevMonthEarnings.Cents,
		RevenueGrowth:          m.RevenueGrowth,

		PendingPaymentsCents: m.PendingPayments.Cents,
		UnpaidAmountCents:    m.UnpaidAmount.Cents,
		UnpaidInvoices:       m.UnpaidInvoices,
		TotalInvoices:        m.TotalInvoices,

		CompletedTasks: m.CompletedTasks,
		OpenTasks:      m.OpenTasks,
		OverdueTasks:   m.OverdueTasks,
		DueTodayTasks:  m.DueTodayTasks,
		TotalTasks:     m.TotalTasks,

		PendingBucket:       bucketDTO{AmountCents: m.PendingBucket.Amount.Cents, Invoices: m.PendingBucket.Invoices},
		PartiallyPaidBucket: bucketDTO{AmountCents: m.PartiallyPaidBucket.Amount.Cents, Invoices: m.PartiallyPaidBucket.Invoices},
		PaidBucket:          bucketDTO{AmountCents: m.PaidBucket.Amount.Cents, Invoices: m.PaidBucket.Invoices},

		ActiveClients: m.ActiveClients,
		TotalClients:  m.TotalClients,
	}

	dto.UpcomingTasks = make([]upcomingTaskDTO, 0, len(m.UpcomingTasks))
	for _, u := range m.UpcomingTasks {
		item := upcomingTaskDTO{Task: toTaskDTO(u.Task)}
		if u.Client != nil {
			c := toClientDTO(*u.Client)
			item.Client = &c
		}
		dto.UpcomingTasks = append(dto.UpcomingTasks, item)
	}

	dto.OverdueInvoices = make([]overdueInvoiceDTO, 0, len(m.OverdueInvoices))
	for _, o := range m.OverdueInvoices {
		item := overdueInvoiceDTO{
			Invoice:          toInvoiceDTO(o.Invoice),
			OutstandingCents: o.Outstanding.Cents,
			DaysOverdue:      o.DaysOverdue,
		}
		if o.Client != nil {
			c := toClientDTO(*o.Client)
			item.Client = &c
		}
		dto.OverdueInvoices = append(dto.OverdueInvoices, item)
	}

	return dto
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.dashboard.Metrics(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardDTO(metrics))
}

type trendPointDTO struct {
	Month         string `json:"month"`
	EarningsCents int64  `json:"earnings_cents"`
}

func (s *Server) handleDashboardTrend(w http.ResponseWriter, r *http.Request) {
	months := 6
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 36 {
			writeError(w, http.StatusBadRequest, "months must be between 1 and 36")
			return
		}
		months = n
	}

	trend, err := s.dashboard.Trend(r.Context(), months)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	points := make([]trendPointDTO, 0, len(trend))
	for _, p := range trend {
		points = append(points, trendPointDTO{
			Month:         fmt.Sprintf("%04d-%02d", p.Year, int(p.Month)),
			EarningsCents: p.Amount.Cents,
		})
	}
	writeJSON(w, http.StatusOK, points)
}

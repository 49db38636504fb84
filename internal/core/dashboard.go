package core

import (
	"math"
	"sort"
	"time"
)

// UpcomingWindow is how far ahead the deadline list looks.
const UpcomingWindow = 3 // days

// UpcomingLimit caps the deadline list length.
const UpcomingLimit = 5

// Snapshot is an immutable view of one user's records. Derive never
// mutates it; the caller owns the slices.
type Snapshot struct {
	Clients  []Client
	Tasks    []Task
	Invoices []Invoice
	Payments []Payment
}

// UpcomingTask is a task due soon, joined with its client. Client is nil
// when the referenced client no longer exists.
type UpcomingTask struct {
	Task   Task
	Client *Client
}

// OverdueInvoice is an unpaid invoice past its due date, joined with its
// client and enriched with the remaining balance.
type OverdueInvoice struct {
	Invoice     Invoice
	Client      *Client
	Outstanding Money
	DaysOverdue int
}

// PaymentBucket aggregates invoices sharing a status.
type PaymentBucket struct {
	Amount   Money
	Invoices int
}

// Metrics is everything the dashboard shows, as semantic values.
// Formatting (currency symbols, localization) is the consumer's job.
type Metrics struct {
	TotalRevenue      Money
	MonthEarnings     Money
	PrevMonthEarnings Money
	RevenueGrowth     float64 // percent, 0 when previous month had no earnings

	PendingPayments Money // outstanding over pending + partially-paid invoices
	UnpaidAmount    Money // outstanding over all non-paid invoices
	UnpaidInvoices  int
	TotalInvoices   int

	CompletedTasks int
	OpenTasks      int
	OverdueTasks   int
	DueTodayTasks  int
	TotalTasks     int

	UpcomingTasks   []UpcomingTask
	OverdueInvoices []OverdueInvoice

	// Pending and paid buckets are gross invoice totals; the partially-paid
	// bucket is net of completed payments. The asymmetry is intentional:
	// the pending card shows what was billed, not what is left.
	PendingBucket       PaymentBucket
	PartiallyPaidBucket PaymentBucket
	PaidBucket          PaymentBucket

	ActiveClients int
	TotalClients  int
}

// Derive computes dashboard metrics from a snapshot and a reference
// instant. It is a pure function: same snapshot and now, same output.
//
// Tasks and invoices with a zero due date are excluded from every
// date-based classification (overdue, due today, upcoming) but still
// count toward status totals and amount sums.
func Derive(snap Snapshot, now time.Time) Metrics {
	var m Metrics

	m.TotalClients = len(snap.Clients)
	m.TotalTasks = len(snap.Tasks)
	m.TotalInvoices = len(snap.Invoices)

	clientByID := make(map[string]*Client, len(snap.Clients))
	for i := range snap.Clients {
		c := &snap.Clients[i]
		clientByID[c.ID] = c
		if c.Status == ClientActive {
			m.ActiveClients++
		}
	}

	// Completed payments attributed per invoice, plus revenue sums.
	paidByInvoice := make(map[string]int64, len(snap.Invoices))
	curYear, curMonth := now.Year(), now.Month()
	prevYear, prevMonth := previousMonth(curYear, curMonth)
	for _, p := range snap.Payments {
		if p.Status != PaymentCompleted {
			continue
		}
		m.TotalRevenue.Cents += p.Amount.Cents
		if p.InvoiceID != "" {
			paidByInvoice[p.InvoiceID] += p.Amount.Cents
		}
		py, pm := p.Date.Year(), p.Date.Month()
		switch {
		case py == curYear && pm == curMonth:
			m.MonthEarnings.Cents += p.Amount.Cents
		case py == prevYear && pm == prevMonth:
			m.PrevMonthEarnings.Cents += p.Amount.Cents
		}
	}
	m.RevenueGrowth = RevenueGrowth(m.MonthEarnings, m.PrevMonthEarnings)

	for _, inv := range snap.Invoices {
		outstanding := inv.Total.Cents - paidByInvoice[inv.ID]

		switch inv.Status {
		case InvoicePending:
			m.PendingBucket.Amount.Cents += inv.Total.Cents
			m.PendingBucket.Invoices++
			m.PendingPayments.Cents += outstanding
		case InvoicePartiallyPaid:
			m.PartiallyPaidBucket.Amount.Cents += outstanding
			m.PartiallyPaidBucket.Invoices++
			m.PendingPayments.Cents += outstanding
		case InvoicePaid:
			m.PaidBucket.Amount.Cents += inv.Total.Cents
			m.PaidBucket.Invoices++
		}

		if inv.Status != InvoicePaid {
			m.UnpaidAmount.Cents += outstanding
			m.UnpaidInvoices++

			if !inv.DueDate.IsZero() && inv.DueDate.Before(now) {
				m.OverdueInvoices = append(m.OverdueInvoices, OverdueInvoice{
					Invoice:     inv,
					Client:      clientByID[inv.ClientID],
					Outstanding: Money{Cents: outstanding},
					DaysOverdue: DaysOverdue(inv.DueDate, now),
				})
			}
		}
	}
	sort.SliceStable(m.OverdueInvoices, func(i, j int) bool {
		return m.OverdueInvoices[i].DaysOverdue > m.OverdueInvoices[j].DaysOverdue
	})

	windowEnd := now.AddDate(0, 0, UpcomingWindow)
	for _, t := range snap.Tasks {
		if t.Status == TaskCompleted {
			m.CompletedTasks++
			continue
		}
		m.OpenTasks++
		if t.DueDate.IsZero() {
			continue
		}
		if t.DueDate.Before(now) {
			m.OverdueTasks++
		}
		if t.DueDate.SameDay(now) {
			m.DueTodayTasks++
		}
		if !t.DueDate.Before(now) && !t.DueDate.After(windowEnd) {
			m.UpcomingTasks = append(m.UpcomingTasks, UpcomingTask{
				Task:   t,
				Client: clientByID[t.ClientID],
			})
		}
	}
	sort.SliceStable(m.UpcomingTasks, func(i, j int) bool {
		return m.UpcomingTasks[i].Task.DueDate.Before(m.UpcomingTasks[j].Task.DueDate.Time)
	})
	if len(m.UpcomingTasks) > UpcomingLimit {
		m.UpcomingTasks = m.UpcomingTasks[:UpcomingLimit]
	}

	return m
}

// OutstandingBalance is the invoice total minus completed payments that
// reference it. Negative on overpayment, never clamped.
func OutstandingBalance(inv Invoice, payments []Payment) Money {
	var paid int64
	for _, p := range payments {
		if p.Status == PaymentCompleted && p.InvoiceID == inv.ID {
			paid += p.Amount.Cents
		}
	}
	return Money{Cents: inv.Total.Cents - paid}
}

// MonthEarnings is one point of the earnings trend.
type MonthEarnings struct {
	Year   int
	Month  time.Month
	Amount Money
}

// MonthlyEarnings sums completed payments dated inside the given
// calendar month.
func MonthlyEarnings(payments []Payment, year int, month time.Month) Money {
	var sum int64
	for _, p := range payments {
		if p.Status != PaymentCompleted {
			continue
		}
		if p.Date.Year() == year && p.Date.Month() == month {
			sum += p.Amount.Cents
		}
	}
	return Money{Cents: sum}
}

// RevenueGrowth is the month-over-month change in percent. When the
// previous month had no earnings the growth is defined as 0, not an
// infinity; the dashboard never divides by zero.
func RevenueGrowth(current, previous Money) float64 {
	if previous.Cents <= 0 {
		return 0
	}
	return float64(current.Cents-previous.Cents) / float64(previous.Cents) * 100
}

// DaysOverdue counts days between the due date and now, rounded up.
// An invoice one second past midnight of its due date is one day overdue.
func DaysOverdue(due Date, now time.Time) int {
	return int(math.Ceil(now.Sub(due.Time).Hours() / 24))
}

func previousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

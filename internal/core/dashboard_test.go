package core

import (
	"reflect"
	"testing"
	"time"
)

func pay(id, invoiceID string, cents int64, status PaymentStatus, date Date) Payment {
	return Payment{ID: id, InvoiceID: invoiceID, ClientID: "c1", Amount: Money{Cents: cents}, Status: status, Date: date}
}

func TestTotalRevenueOnlyCompleted(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Payments: []Payment{
			pay("p1", "", 10000, PaymentCompleted, NewDate(2024, 3, 1)),
			pay("p2", "", 20000, PaymentPending, NewDate(2024, 3, 2)),
			pay("p3", "", 5000, PaymentFailed, NewDate(2024, 3, 3)),
			pay("p4", "", 7000, PaymentCompleted, NewDate(2023, 1, 1)),
		},
	}
	m := Derive(snap, now)
	if m.TotalRevenue.Cents != 17000 {
		t.Fatalf("total revenue = %d, want 17000", m.TotalRevenue.Cents)
	}
	// Flipping a payment away from completed removes it from the sum.
	snap.Payments[0].Status = PaymentPending
	m = Derive(snap, now)
	if m.TotalRevenue.Cents != 7000 {
		t.Fatalf("total revenue after flip = %d, want 7000", m.TotalRevenue.Cents)
	}
}

func TestMonthEarnings(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Payments: []Payment{
			pay("p1", "", 10000, PaymentCompleted, NewDate(2024, 3, 1)),
			pay("p2", "", 20000, PaymentPending, NewDate(2024, 3, 2)), // not completed
			pay("p3", "", 4000, PaymentCompleted, NewDate(2024, 2, 28)),
			pay("p4", "", 9000, PaymentCompleted, NewDate(2024, 4, 1)), // next month
		},
	}
	m := Derive(snap, now)
	if m.MonthEarnings.Cents != 10000 {
		t.Fatalf("month earnings = %d, want 10000", m.MonthEarnings.Cents)
	}
	if m.PrevMonthEarnings.Cents != 4000 {
		t.Fatalf("prev month earnings = %d, want 4000", m.PrevMonthEarnings.Cents)
	}
}

func TestPrevMonthWrapsYear(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Payments: []Payment{
			pay("p1", "", 5000, PaymentCompleted, NewDate(2023, 12, 31)),
			pay("p2", "", 3000, PaymentCompleted, NewDate(2022, 12, 31)), // wrong year
		},
	}
	m := Derive(snap, now)
	if m.PrevMonthEarnings.Cents != 5000 {
		t.Fatalf("prev month earnings = %d, want 5000 (December of prior year)", m.PrevMonthEarnings.Cents)
	}
}

func TestRevenueGrowth(t *testing.T) {
	cases := []struct {
		name     string
		current  int64
		previous int64
		want     float64
	}{
		{"zero previous yields zero", 50000, 0, 0},
		{"both zero", 0, 0, 0},
		{"doubled", 20000, 10000, 100},
		{"halved", 5000, 10000, -50},
		{"flat", 10000, 10000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RevenueGrowth(Money{Cents: tc.current}, Money{Cents: tc.previous})
			if got != tc.want {
				t.Fatalf("growth(%d, %d) = %v, want %v", tc.current, tc.previous, got, tc.want)
			}
		})
	}
}

func TestOutstandingBalanceNotClamped(t *testing.T) {
	inv := Invoice{ID: "i1", Total: Money{Cents: 10000}}
	payments := []Payment{
		pay("p1", "i1", 4000, PaymentCompleted, NewDate(2024, 1, 5)),
		pay("p2", "i1", 3000, PaymentPending, NewDate(2024, 1, 6)), // ignored
		pay("p3", "i2", 9999, PaymentCompleted, NewDate(2024, 1, 7)),
	}
	if got := OutstandingBalance(inv, payments); got.Cents != 6000 {
		t.Fatalf("outstanding = %d, want 6000", got.Cents)
	}
	// Overpayment stays negative.
	payments = append(payments, pay("p4", "i1", 8000, PaymentCompleted, NewDate(2024, 1, 8)))
	if got := OutstandingBalance(inv, payments); got.Cents != -2000 {
		t.Fatalf("overpaid outstanding = %d, want -2000", got.Cents)
	}
}

func TestPendingBucketGrossVsOutstandingNet(t *testing.T) {
	// Pinned scenario: invoice of 1000.00 with a completed 400.00 payment.
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Clients: []Client{{ID: "c1", Name: "Acme", Status: ClientActive}},
		Invoices: []Invoice{
			{ID: "i1", Number: "INV-001", ClientID: "c1", Total: Money{Cents: 100000}, Status: InvoicePending, DueDate: NewDate(2024, 1, 1)},
		},
		Payments: []Payment{
			pay("p1", "i1", 40000, PaymentCompleted, NewDate(2024, 1, 10)),
		},
	}
	m := Derive(snap, now)
	if m.PendingBucket.Amount.Cents != 100000 {
		t.Fatalf("pending bucket = %d, want gross 100000", m.PendingBucket.Amount.Cents)
	}
	if m.PendingPayments.Cents != 60000 {
		t.Fatalf("pending payments = %d, want net 60000", m.PendingPayments.Cents)
	}
	if m.UnpaidAmount.Cents != 60000 || m.UnpaidInvoices != 1 {
		t.Fatalf("unpaid = %d/%d, want 60000/1", m.UnpaidAmount.Cents, m.UnpaidInvoices)
	}
	if len(m.OverdueInvoices) != 1 {
		t.Fatalf("overdue invoices = %d, want 1", len(m.OverdueInvoices))
	}
	ov := m.OverdueInvoices[0]
	if ov.Invoice.ID != "i1" || ov.Outstanding.Cents != 60000 {
		t.Fatalf("overdue entry = %+v", ov)
	}
	if ov.DaysOverdue != 31 {
		t.Fatalf("days overdue = %d, want 31", ov.DaysOverdue)
	}
	if ov.Client == nil || ov.Client.Name != "Acme" {
		t.Fatalf("overdue client not joined: %+v", ov.Client)
	}
}

func TestPaymentBuckets(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Invoices: []Invoice{
			{ID: "i1", Number: "1", ClientID: "c1", Total: Money{Cents: 10000}, Status: InvoicePending, DueDate: NewDate(2024, 7, 1)},
			{ID: "i2", Number: "2", ClientID: "c1", Total: Money{Cents: 20000}, Status: InvoicePartiallyPaid, DueDate: NewDate(2024, 7, 1)},
			{ID: "i3", Number: "3", ClientID: "c1", Total: Money{Cents: 30000}, Status: InvoicePaid, DueDate: NewDate(2024, 5, 1)},
		},
		Payments: []Payment{
			pay("p1", "i2", 5000, PaymentCompleted, NewDate(2024, 5, 20)),
			pay("p2", "i3", 30000, PaymentCompleted, NewDate(2024, 4, 2)),
		},
	}
	m := Derive(snap, now)
	if m.PendingBucket.Amount.Cents != 10000 || m.PendingBucket.Invoices != 1 {
		t.Fatalf("pending bucket = %+v", m.PendingBucket)
	}
	if m.PartiallyPaidBucket.Amount.Cents != 15000 || m.PartiallyPaidBucket.Invoices != 1 {
		t.Fatalf("partially-paid bucket = %+v", m.PartiallyPaidBucket)
	}
	if m.PaidBucket.Amount.Cents != 30000 || m.PaidBucket.Invoices != 1 {
		t.Fatalf("paid bucket = %+v", m.PaidBucket)
	}
	// Paid invoice is excluded from overdue even though its due date passed.
	if len(m.OverdueInvoices) != 0 {
		t.Fatalf("overdue invoices = %d, want 0", len(m.OverdueInvoices))
	}
}

func TestTaskCounts(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Tasks: []Task{
			{ID: "t1", Title: "done", ClientID: "c1", Status: TaskCompleted, DueDate: NewDate(2024, 6, 1)},
			{ID: "t2", Title: "late", ClientID: "c1", Status: TaskInProgress, DueDate: NewDate(2024, 6, 1)},
			{ID: "t3", Title: "today", ClientID: "c1", Status: TaskTodo, DueDate: NewDate(2024, 6, 10)},
			{ID: "t4", Title: "future", ClientID: "c1", Status: TaskPending, DueDate: NewDate(2024, 6, 20)},
			{ID: "t5", Title: "no date", ClientID: "c1", Status: TaskTodo},
		},
	}
	m := Derive(snap, now)
	if m.CompletedTasks != 1 {
		t.Fatalf("completed = %d", m.CompletedTasks)
	}
	if m.OpenTasks != 4 {
		t.Fatalf("open = %d", m.OpenTasks)
	}
	// t2 is overdue; t3 is due today and also before 15:00, so overdue too
	// (midnight due date, full-timestamp comparison).
	if m.OverdueTasks != 2 {
		t.Fatalf("overdue = %d, want 2", m.OverdueTasks)
	}
	if m.DueTodayTasks != 1 {
		t.Fatalf("due today = %d, want 1", m.DueTodayTasks)
	}
}

func TestUpcomingWindowBoundary(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	exact := Date{Time: now.AddDate(0, 0, 3)}
	past := Date{Time: now.AddDate(0, 0, 3).Add(time.Second)}
	snap := Snapshot{
		Tasks: []Task{
			{ID: "in", Title: "in", ClientID: "c1", Status: TaskTodo, DueDate: exact},
			{ID: "out", Title: "out", ClientID: "c1", Status: TaskTodo, DueDate: past},
			{ID: "done", Title: "done", ClientID: "c1", Status: TaskCompleted, DueDate: exact},
		},
	}
	m := Derive(snap, now)
	if len(m.UpcomingTasks) != 1 || m.UpcomingTasks[0].Task.ID != "in" {
		t.Fatalf("upcoming = %+v, want only the exact-boundary task", m.UpcomingTasks)
	}
}

func TestUpcomingSortedAndTruncated(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Clients: []Client{{ID: "c1", Name: "Acme", Status: ClientActive}},
		Tasks: []Task{
			{ID: "t3", Title: "c", ClientID: "c1", Status: TaskTodo, DueDate: NewDate(2024, 6, 13)},
			{ID: "t1", Title: "a", ClientID: "c1", Status: TaskTodo, DueDate: NewDate(2024, 6, 11)},
			{ID: "t6", Title: "f", ClientID: "ghost", Status: TaskTodo, DueDate: NewDate(2024, 6, 13)},
			{ID: "t2", Title: "b", ClientID: "c1", Status: TaskTodo, DueDate: NewDate(2024, 6, 12)},
			{ID: "t4", Title: "d", ClientID: "c1", Status: TaskTodo, DueDate: NewDate(2024, 6, 10)},
			{ID: "t5", Title: "e", ClientID: "c1", Status: TaskTodo, DueDate: NewDate(2024, 6, 12)},
		},
	}
	m := Derive(snap, now)
	if len(m.UpcomingTasks) != 5 {
		t.Fatalf("upcoming length = %d, want 5", len(m.UpcomingTasks))
	}
	var ids []string
	for _, u := range m.UpcomingTasks {
		ids = append(ids, u.Task.ID)
	}
	// Ascending by due date, original order preserved for equal dates,
	// truncated to five.
	want := []string{"t4", "t1", "t2", "t5", "t3"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("upcoming order = %v, want %v", ids, want)
	}
	// A task referencing a missing client is included with a nil client.
	snap.Tasks = snap.Tasks[:3]
	m = Derive(snap, now)
	for _, u := range m.UpcomingTasks {
		if u.Task.ID == "t6" && u.Client != nil {
			t.Fatalf("ghost client should resolve to nil, got %+v", u.Client)
		}
	}
}

func TestOverdueInvoicesSortedDescending(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Invoices: []Invoice{
			{ID: "i1", Number: "1", ClientID: "c1", Total: Money{Cents: 100}, Status: InvoicePending, DueDate: NewDate(2024, 6, 5)},
			{ID: "i2", Number: "2", ClientID: "c1", Total: Money{Cents: 100}, Status: InvoicePending, DueDate: NewDate(2024, 5, 1)},
			{ID: "i3", Number: "3", ClientID: "c1", Total: Money{Cents: 100}, Status: InvoicePartiallyPaid, DueDate: NewDate(2024, 6, 1)},
		},
	}
	first := Derive(snap, now)
	var ids []string
	for _, ov := range first.OverdueInvoices {
		ids = append(ids, ov.Invoice.ID)
	}
	want := []string{"i2", "i3", "i1"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("overdue order = %v, want %v", ids, want)
	}
	// Deterministic across repeated calls with identical input.
	second := Derive(snap, now)
	if !reflect.DeepEqual(first.OverdueInvoices, second.OverdueInvoices) {
		t.Fatalf("overdue list changed between identical calls")
	}
}

func TestActiveClientCount(t *testing.T) {
	snap := Snapshot{
		Clients: []Client{
			{ID: "c1", Name: "a", Status: ClientActive},
			{ID: "c2", Name: "b", Status: ClientInactive},
			{ID: "c3", Name: "c", Status: ClientActive},
		},
	}
	m := Derive(snap, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if m.ActiveClients != 2 || m.TotalClients != 3 {
		t.Fatalf("clients = %d/%d, want 2/3", m.ActiveClients, m.TotalClients)
	}
}

func TestEmptySnapshot(t *testing.T) {
	m := Derive(Snapshot{}, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if m.TotalRevenue.Cents != 0 || m.RevenueGrowth != 0 {
		t.Fatalf("empty snapshot should derive zeros, got %+v", m)
	}
	if len(m.UpcomingTasks) != 0 || len(m.OverdueInvoices) != 0 {
		t.Fatalf("empty snapshot should derive empty lists")
	}
}

func TestDeriveDoesNotMutateSnapshot(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Invoices: []Invoice{
			{ID: "i1", Number: "1", ClientID: "c1", Total: Money{Cents: 100}, Status: InvoicePending, DueDate: NewDate(2024, 5, 1)},
			{ID: "i2", Number: "2", ClientID: "c1", Total: Money{Cents: 100}, Status: InvoicePending, DueDate: NewDate(2024, 6, 1)},
		},
	}
	before := make([]Invoice, len(snap.Invoices))
	copy(before, snap.Invoices)
	Derive(snap, now)
	if !reflect.DeepEqual(before, snap.Invoices) {
		t.Fatalf("Derive reordered or mutated the input invoices")
	}
}

func TestDaysOverdue(t *testing.T) {
	cases := []struct {
		name string
		due  Date
		now  time.Time
		want int
	}{
		{"one second past midnight", NewDate(2024, 6, 10), time.Date(2024, 6, 10, 0, 0, 1, 0, time.UTC), 1},
		{"exactly one day", NewDate(2024, 6, 10), time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC), 1},
		{"a bit over one day", NewDate(2024, 6, 10), time.Date(2024, 6, 11, 6, 0, 0, 0, time.UTC), 2},
		{"a month", NewDate(2024, 1, 1), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 31},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DaysOverdue(tc.due, tc.now); got != tc.want {
				t.Fatalf("DaysOverdue = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestMonthlyEarnings(t *testing.T) {
	payments := []Payment{
		pay("p1", "", 10000, PaymentCompleted, NewDate(2024, 3, 1)),
		pay("p2", "", 20000, PaymentPending, NewDate(2024, 3, 2)),
		pay("p3", "", 5000, PaymentCompleted, NewDate(2024, 4, 1)),
	}
	if got := MonthlyEarnings(payments, 2024, time.March); got.Cents != 10000 {
		t.Fatalf("march earnings = %d, want 10000", got.Cents)
	}
	if got := MonthlyEarnings(payments, 2024, time.May); got.Cents != 0 {
		t.Fatalf("may earnings = %d, want 0", got.Cents)
	}
}

// Package services provides business logic and orchestration services.
//
// This file implements the escalation policy for overdue-invoice
// reminders. Each overdue band has its own cadence checker that decides
// whether enough time has passed since the last reminder.
package services

import "time"

// ReminderChecker decides whether an overdue invoice should be reminded
// again, given when it was last reminded.
type ReminderChecker interface {
	// IsDue returns true if a reminder should go out now. A zero
	// lastReminder means the invoice was never reminded.
	IsDue(lastReminder, now time.Time) bool
}

// WeeklyChecker reminds at most once every 7 days. Used for invoices in
// the first overdue band.
type WeeklyChecker struct{}

func (WeeklyChecker) IsDue(lastReminder, now time.Time) bool {
	if lastReminder.IsZero() {
		return true
	}
	return now.Sub(lastReminder).Hours()/24 >= 7
}

// ThirdDayChecker reminds every 3 days for invoices that have been
// overdue long enough to escalate.
type ThirdDayChecker struct{}

func (ThirdDayChecker) IsDue(lastReminder, now time.Time) bool {
	if lastReminder.IsZero() {
		return true
	}
	return now.Sub(lastReminder).Hours()/24 >= 3
}

// DailyChecker reminds once per calendar day. The final escalation band.
type DailyChecker struct{}

func (DailyChecker) IsDue(lastReminder, now time.Time) bool {
	if lastReminder.IsZero() {
		return true
	}
	return lastReminder.Format("2006-01-02") != now.Format("2006-01-02")
}

// Escalation bands in days overdue.
const (
	escalateAfter = 15
	dailyAfter    = 45
)

// CheckerFor picks the cadence for an invoice by how many days overdue
// it is: weekly to start, every third day after two weeks, daily after
// six weeks.
func CheckerFor(daysOverdue int) ReminderChecker {
	switch {
	case daysOverdue < escalateAfter:
		return WeeklyChecker{}
	case daysOverdue < dailyAfter:
		return ThirdDayChecker{}
	default:
		return DailyChecker{}
	}
}

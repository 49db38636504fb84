package services

import (
	"testing"
	"time"
)

func TestCheckerFor(t *testing.T) {
	tests := []struct {
		daysOverdue int
		want        ReminderChecker
	}{
		{1, WeeklyChecker{}},
		{14, WeeklyChecker{}},
		{15, ThirdDayChecker{}},
		{44, ThirdDayChecker{}},
		{45, DailyChecker{}},
		{120, DailyChecker{}},
	}
	for _, tt := range tests {
		got := CheckerFor(tt.daysOverdue)
		if got != tt.want {
			t.Errorf("CheckerFor(%d) = %T, want %T", tt.daysOverdue, got, tt.want)
		}
	}
}

func TestWeeklyChecker_IsDue(t *testing.T) {
	checker := WeeklyChecker{}
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		lastReminder time.Time
		want         bool
	}{
		{"never reminded", time.Time{}, true},
		{"reminded 3 days ago", time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC), false},
		{"reminded 7 days ago", time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC), true},
		{"reminded 10 days ago", time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.lastReminder, now); got != tt.want {
				t.Errorf("WeeklyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestThirdDayChecker_IsDue(t *testing.T) {
	checker := ThirdDayChecker{}
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		lastReminder time.Time
		want         bool
	}{
		{"never reminded", time.Time{}, true},
		{"reminded yesterday", time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC), false},
		{"reminded 3 days ago", time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.lastReminder, now); got != tt.want {
				t.Errorf("ThirdDayChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDailyChecker_IsDue(t *testing.T) {
	checker := DailyChecker{}
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		lastReminder time.Time
		want         bool
	}{
		{"never reminded", time.Time{}, true},
		{"reminded this morning", time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC), false},
		{"reminded yesterday evening", time.Date(2026, 8, 29, 23, 0, 0, 0, time.UTC), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.lastReminder, now); got != tt.want {
				t.Errorf("DailyChecker.IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

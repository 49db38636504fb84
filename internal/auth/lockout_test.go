package auth

import (
	"testing"
	"time"
)

func newTestLimiter(t *testing.T) (*AttemptLimiter, *time.Time) {
	t.Helper()
	l := NewAttemptLimiter(LimiterConfig{
		MaxAttempts:     3,
		LockoutDuration: 15 * time.Minute,
		SweepInterval:   time.Hour,
	})
	t.Cleanup(l.Stop)

	current := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }
	return l, &current
}

func TestAttemptLimiterLockout(t *testing.T) {
	l, _ := newTestLimiter(t)

	for i := 0; i < 3; i++ {
		if !l.Allow("user@example.com") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("user@example.com") {
		t.Fatalf("fourth attempt should be locked out")
	}
	// Other identifiers are unaffected.
	if !l.Allow("other@example.com") {
		t.Fatalf("unrelated identifier should be allowed")
	}
}

func TestAttemptLimiterUnlocksAfterWindow(t *testing.T) {
	l, current := newTestLimiter(t)

	for i := 0; i < 4; i++ {
		l.Allow("user@example.com")
	}
	if got := l.RemainingLockout("user@example.com"); got != 15*time.Minute {
		t.Fatalf("remaining lockout = %v, want 15m", got)
	}

	*current = current.Add(16 * time.Minute)
	if got := l.RemainingLockout("user@example.com"); got != 0 {
		t.Fatalf("remaining lockout after window = %v, want 0", got)
	}
	if !l.Allow("user@example.com") {
		t.Fatalf("attempt after lockout window should be allowed")
	}
}

func TestAttemptLimiterReset(t *testing.T) {
	l, _ := newTestLimiter(t)

	for i := 0; i < 4; i++ {
		l.Allow("user@example.com")
	}
	l.Reset("user@example.com")
	if !l.Allow("user@example.com") {
		t.Fatalf("attempt after reset should be allowed")
	}
}

func TestAttemptLimiterSweep(t *testing.T) {
	l, current := newTestLimiter(t)

	l.Allow("stale@example.com")
	*current = current.Add(time.Hour)
	l.sweepStale()

	l.mu.Lock()
	_, exists := l.attempts["stale@example.com"]
	l.mu.Unlock()
	if exists {
		t.Fatalf("stale entry should have been swept")
	}
}

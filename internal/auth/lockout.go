// Package auth carries the pieces of authentication the application owns
// itself: a login attempt limiter and input validation helpers. Session
// issuance and identity live with the upstream provider.
package auth

import (
	"sync"
	"time"
)

// AttemptLimiter tracks failed login attempts per identifier and locks
// the identifier out after too many inside the lockout window. Unlike a
// bare map it has an explicit lifecycle: a sweep goroutine removes stale
// entries and Stop shuts it down.
type AttemptLimiter struct {
	mu           sync.Mutex
	attempts     map[string]*attemptInfo
	stopSweep    chan struct{}
	shutdownOnce sync.Once

	maxAttempts     int
	lockoutDuration time.Duration
	now             func() time.Time
}

type attemptInfo struct {
	count       int
	lastAttempt time.Time
}

// LimiterConfig holds attempt limiter configuration
type LimiterConfig struct {
	MaxAttempts     int
	LockoutDuration time.Duration
	SweepInterval   time.Duration
}

// DefaultLimiterConfig returns the defaults: five attempts, fifteen
// minute lockout.
func DefaultLimiterConfig() LimiterConfig {
	return LimiterConfig{
		MaxAttempts:     5,
		LockoutDuration: 15 * time.Minute,
		SweepInterval:   5 * time.Minute,
	}
}

// NewAttemptLimiter creates a limiter and starts its sweep goroutine.
func NewAttemptLimiter(config LimiterConfig) *AttemptLimiter {
	if config.MaxAttempts <= 0 {
		config = DefaultLimiterConfig()
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = 5 * time.Minute
	}

	l := &AttemptLimiter{
		attempts:        make(map[string]*attemptInfo),
		stopSweep:       make(chan struct{}),
		maxAttempts:     config.MaxAttempts,
		lockoutDuration: config.LockoutDuration,
		now:             time.Now,
	}
	go l.sweep(config.SweepInterval)
	return l
}

// Allow records an attempt for the identifier and reports whether it is
// still allowed. Once the identifier is locked out, further attempts do
// not extend the lockout.
func (l *AttemptLimiter) Allow(identifier string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	info, exists := l.attempts[identifier]

	if !exists || now.Sub(info.lastAttempt) > l.lockoutDuration {
		l.attempts[identifier] = &attemptInfo{count: 1, lastAttempt: now}
		return true
	}

	if info.count >= l.maxAttempts {
		return false
	}

	info.count++
	info.lastAttempt = now
	return true
}

// Reset clears the identifier's attempt record, typically after a
// successful login.
func (l *AttemptLimiter) Reset(identifier string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, identifier)
}

// RemainingLockout returns how long the identifier stays locked out,
// or zero when it is not locked.
func (l *AttemptLimiter) RemainingLockout(identifier string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, exists := l.attempts[identifier]
	if !exists || info.count < l.maxAttempts {
		return 0
	}

	remaining := l.lockoutDuration - l.now().Sub(info.lastAttempt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Stop shuts down the sweep goroutine.
func (l *AttemptLimiter) Stop() {
	l.shutdownOnce.Do(func() {
		close(l.stopSweep)
	})
}

func (l *AttemptLimiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweepStale()
		case <-l.stopSweep:
			return
		}
	}
}

func (l *AttemptLimiter) sweepStale() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.lockoutDuration)
	for id, info := range l.attempts {
		if info.lastAttempt.Before(cutoff) {
			delete(l.attempts, id)
		}
	}
}

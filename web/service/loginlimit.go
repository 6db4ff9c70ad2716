package service

import (
	"sync"
	"time"
)

// LoginLimiter is the pluggable login-throttling policy. Check reports
// whether a login attempt for key (normally the client IP) may proceed,
// RecordFailure notes a failed attempt and Clear wipes any residual state
// after a successful login.
type LoginLimiter interface {
	Check(key string) bool
	RecordFailure(key string)
	Clear(key string)
}

// NoopLimiter always permits. It is the default policy: throttling stays
// off unless explicitly enabled in settings.
type NoopLimiter struct{}

func (NoopLimiter) Check(string) bool    { return true }
func (NoopLimiter) RecordFailure(string) {}
func (NoopLimiter) Clear(string)         {}

// MemoryLimiter denies further attempts for a cool-down period once max
// failures accumulate within the window. State is per process.
type MemoryLimiter struct {
	mu           sync.Mutex
	max          int
	window       time.Duration
	cooldown     time.Duration
	failures     map[string][]time.Time
	blockedUntil map[string]time.Time
}

func NewMemoryLimiter(max int, window, cooldown time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		max:          max,
		window:       window,
		cooldown:     cooldown,
		failures:     make(map[string][]time.Time),
		blockedUntil: make(map[string]time.Time),
	}
}

func (l *MemoryLimiter) Check(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	until, ok := l.blockedUntil[key]
	if !ok {
		return true
	}
	if time.Now().Before(until) {
		return false
	}
	delete(l.blockedUntil, key)
	return true
}

func (l *MemoryLimiter) RecordFailure(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.window)
	recent := make([]time.Time, 0, l.max)
	for _, t := range l.failures[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	recent = append(recent, now)

	if len(recent) >= l.max {
		l.blockedUntil[key] = now.Add(l.cooldown)
		delete(l.failures, key)
		return
	}
	l.failures[key] = recent
}

func (l *MemoryLimiter) Clear(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, key)
	delete(l.blockedUntil, key)
}

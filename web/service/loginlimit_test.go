package service

import (
	"testing"
	"time"
)

func TestNoopLimiterAlwaysAllows(t *testing.T) {
	var l LoginLimiter = NoopLimiter{}
	for i := 0; i < 100; i++ {
		l.RecordFailure("1.2.3.4")
	}
	if !l.Check("1.2.3.4") {
		t.Error("noop limiter must always allow")
	}
	l.Clear("1.2.3.4")
	if !l.Check("1.2.3.4") {
		t.Error("noop limiter must allow after clear")
	}
}

func TestMemoryLimiterBlocksAfterMaxFailures(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute, time.Hour)

	if !l.Check("1.2.3.4") {
		t.Fatal("fresh key must be allowed")
	}
	for i := 0; i < 3; i++ {
		l.RecordFailure("1.2.3.4")
	}
	if l.Check("1.2.3.4") {
		t.Error("key should be blocked after max failures")
	}
	if !l.Check("5.6.7.8") {
		t.Error("other keys must stay unaffected")
	}
}

func TestMemoryLimiterClear(t *testing.T) {
	l := NewMemoryLimiter(2, time.Minute, time.Hour)
	l.RecordFailure("1.2.3.4")
	l.RecordFailure("1.2.3.4")
	if l.Check("1.2.3.4") {
		t.Fatal("key should be blocked")
	}
	l.Clear("1.2.3.4")
	if !l.Check("1.2.3.4") {
		t.Error("cleared key must be allowed again")
	}
}

func TestMemoryLimiterWindowExpiry(t *testing.T) {
	l := NewMemoryLimiter(2, 10*time.Millisecond, 10*time.Millisecond)
	l.RecordFailure("1.2.3.4")
	l.RecordFailure("1.2.3.4")
	if l.Check("1.2.3.4") {
		t.Fatal("key should be blocked inside the window")
	}
	time.Sleep(20 * time.Millisecond)
	if !l.Check("1.2.3.4") {
		t.Error("key should be allowed after the cooldown elapsed")
	}
}

package httpx

import (
	"testing"
	"time"
)

func TestMemoryRateLimiterEnforcesLimit(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()

	for i := 0; i < 3; i++ {
		decision := rl.Allow("ip:1.2.3.4", 3, time.Minute)
		if !decision.allowed {
			t.Fatalf("request %d unexpectedly denied", i+1)
		}
	}
	decision := rl.Allow("ip:1.2.3.4", 3, time.Minute)
	if decision.allowed {
		t.Fatal("expected the fourth request denied")
	}
	if decision.count != 3 {
		t.Fatalf("expected count held at 3, got %d", decision.count)
	}
}

func TestMemoryRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()

	for i := 0; i < 2; i++ {
		rl.Allow("ip:1.2.3.4", 2, time.Minute)
	}
	if rl.Allow("ip:1.2.3.4", 2, time.Minute).allowed {
		t.Fatal("expected first key exhausted")
	}
	if !rl.Allow("ip:5.6.7.8", 2, time.Minute).allowed {
		t.Fatal("expected a fresh key allowed")
	}
}

func TestMemoryRateLimiterZeroLimitDisables(t *testing.T) {
	rl := NewMemoryRateLimiter()
	defer rl.Close()

	for i := 0; i < 10; i++ {
		if !rl.Allow("ip:1.2.3.4", 0, time.Minute).allowed {
			t.Fatal("expected zero limit to disable limiting")
		}
	}
}

func TestMemoryRateLimiterCleanupDropsExpiredWindows(t *testing.T) {
	rl := &memoryRateLimiter{
		entries: make(map[string]rateState),
		stopCh:  make(chan struct{}),
	}
	rl.entries["stale"] = rateState{count: 5, windowEnd: time.Now().Add(-time.Minute)}
	rl.entries["fresh"] = rateState{count: 1, windowEnd: time.Now().Add(time.Minute)}

	rl.cleanup(time.Now())

	if _, ok := rl.entries["stale"]; ok {
		t.Fatal("expected the stale window removed")
	}
	if _, ok := rl.entries["fresh"]; !ok {
		t.Fatal("expected the fresh window kept")
	}
}

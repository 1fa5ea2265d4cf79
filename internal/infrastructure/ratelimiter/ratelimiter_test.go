package ratelimiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_BurstThenDeny(t *testing.T) {
	rl := New(Options{
		MaxRatePerSecond: 1,
		MaxBurst:         3,
	})

	for i := 0; i < 3; i++ {
		if !rl.Allow("client-1") {
			t.Fatalf("Allow() = false on request %d, want burst of 3", i+1)
		}
	}

	if rl.Allow("client-1") {
		t.Error("Allow() = true after the burst was exhausted")
	}
}

func TestRateLimiter_SourcesAreIndependent(t *testing.T) {
	rl := New(Options{
		MaxRatePerSecond: 1,
		MaxBurst:         1,
	})

	if !rl.Allow("client-1") {
		t.Fatal("Allow(client-1) = false on first request")
	}
	if !rl.Allow("client-2") {
		t.Error("Allow(client-2) = false, exhausting client-1 must not affect it")
	}
}

func TestRateLimiter_Refills(t *testing.T) {
	rl := New(Options{
		MaxRatePerSecond: 100,
		MaxBurst:         1,
	})

	if !rl.Allow("client-1") {
		t.Fatal("Allow() = false on first request")
	}
	if rl.Allow("client-1") {
		t.Fatal("Allow() = true with an empty bucket")
	}

	// 100 tokens/s refills a single token within 10ms.
	time.Sleep(30 * time.Millisecond)

	if !rl.Allow("client-1") {
		t.Error("Allow() = false after the refill interval")
	}
}

func TestRateLimiter_RemainingNeverExceedsBurst(t *testing.T) {
	rl := New(Options{
		MaxRatePerSecond: 1000,
		MaxBurst:         5,
	})

	if got := rl.Remaining("client-1"); got != 5 {
		t.Errorf("Remaining() = %d for a fresh source, want 5", got)
	}

	time.Sleep(20 * time.Millisecond)

	if got := rl.Remaining("client-1"); got > 5 {
		t.Errorf("Remaining() = %d, want capped at the burst of 5", got)
	}
}

func TestRateLimiter_GetSourceKey(t *testing.T) {
	rl := New(Options{
		MaxRatePerSecond: 1,
		SourceHeaderKey:  "X-Forwarded-For",
	})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"

	if got := rl.GetSourceKey(r); got != "10.0.0.1:1234" {
		t.Errorf("GetSourceKey() = %q, want the remote addr", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	if got := rl.GetSourceKey(r); got != "203.0.113.9" {
		t.Errorf("GetSourceKey() = %q, want the forwarded address", got)
	}
}

func TestInMemory_Expiration(t *testing.T) {
	m := NewInMemory()
	defer m.Close()

	if err := m.SetWithExpiration("k", 7, 10*time.Millisecond); err != nil {
		t.Fatalf("SetWithExpiration() error = %v", err)
	}

	if got, err := m.Get("k"); err != nil || got != 7 {
		t.Fatalf("Get() = %d, %v, want 7, nil", got, err)
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := m.Get("k"); err != ErrCacheMiss {
		t.Errorf("Get() error = %v after expiry, want ErrCacheMiss", err)
	}
}

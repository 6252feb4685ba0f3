package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestMemoryStore_BudgetExhaustion(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(5, 60*time.Second)
	defer s.Close()
	s.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		res, err := s.Consume(ctx, "203.0.113.7")
		if err != nil {
			t.Fatalf("consume %d: %v", i+1, err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if res.Remaining != 5-(i+1) {
			t.Errorf("request %d: expected %d remaining, got %d", i+1, 5-(i+1), res.Remaining)
		}
	}

	// 6th request within the window is denied with a positive RetryAfter.
	now = now.Add(10 * time.Second)
	res, err := s.Consume(ctx, "203.0.113.7")
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Fatal("6th request should be denied")
	}
	if res.RetryAfter != 50 {
		t.Errorf("expected RetryAfter=50, got %d", res.RetryAfter)
	}
}

func TestMemoryStore_WindowReset(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(5, 60*time.Second)
	defer s.Close()
	s.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 6; i++ {
		s.Consume(ctx, "198.51.100.1")
	}

	// After the window elapses the full budget is available again.
	now = now.Add(61 * time.Second)
	for i := 0; i < 5; i++ {
		res, _ := s.Consume(ctx, "198.51.100.1")
		if !res.Allowed {
			t.Fatalf("request %d after reset should be allowed", i+1)
		}
	}
	res, _ := s.Consume(ctx, "198.51.100.1")
	if res.Allowed {
		t.Error("budget should be exhausted again after 5 fresh requests")
	}
}

func TestMemoryStore_KeysAreIndependent(t *testing.T) {
	s := NewMemoryStore(5, 60*time.Second)
	defer s.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		s.Consume(ctx, "203.0.113.7")
	}
	res, _ := s.Consume(ctx, "203.0.113.8")
	if !res.Allowed {
		t.Error("a different key must not share the exhausted budget")
	}
}

func TestMemoryStore_RetryAfterNeverBelowOne(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(1, 60*time.Second)
	defer s.Close()
	s.now = func() time.Time { return now }

	ctx := context.Background()
	s.Consume(ctx, "k")

	// 100ms before reset the rounded value would be zero.
	now = now.Add(59*time.Second + 900*time.Millisecond)
	res, _ := s.Consume(ctx, "k")
	if res.Allowed {
		t.Fatal("expected denial")
	}
	if res.RetryAfter < 1 {
		t.Errorf("RetryAfter must be at least 1, got %d", res.RetryAfter)
	}
}

func TestMemoryStore_ConcurrentConsume(t *testing.T) {
	s := NewMemoryStore(50, time.Minute)
	defer s.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	allowed := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.Consume(ctx, "shared")
			if err != nil {
				t.Error(err)
				return
			}
			allowed <- res.Allowed
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	if count != 50 {
		t.Errorf("expected exactly 50 allowed under contention, got %d", count)
	}
}

// Property: within a single window, the number of allowed consumptions
// for a key never exceeds the point budget, regardless of request count.
func TestMemoryStore_PropertyBudgetNeverExceeded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		points := rapid.IntRange(1, 20).Draw(t, "points")
		requests := rapid.IntRange(1, 60).Draw(t, "requests")

		s := NewMemoryStore(points, time.Hour)
		defer s.Close()

		allowed := 0
		for i := 0; i < requests; i++ {
			res, err := s.Consume(context.Background(), "ip")
			if err != nil {
				t.Fatal(err)
			}
			if res.Allowed {
				allowed++
			} else if res.RetryAfter < 1 {
				t.Fatalf("denied result carries RetryAfter=%d", res.RetryAfter)
			}
		}

		want := requests
		if want > points {
			want = points
		}
		if allowed != want {
			t.Fatalf("expected %d allowed of %d requests (budget %d), got %d",
				want, requests, points, allowed)
		}
	})
}

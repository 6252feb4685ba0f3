package ratelimit

import (
	"context"
	"sync"
	"time"
)

// window tracks consumed points for one key
type window struct {
	count   int
	resetAt time.Time
}

// MemoryStore is an in-process fixed-window counter store. State is
// lost on restart and not shared across instances; that is an accepted
// scope limitation, not a defect.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*window
	points  int
	window  time.Duration
	now     func() time.Time
	done    chan struct{}
}

// NewMemoryStore creates a memory store allowing points consumptions
// per window and starts a janitor goroutine that evicts expired keys.
func NewMemoryStore(points int, windowLength time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*window),
		points:  points,
		window:  windowLength,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Consume takes one point for key. The window starts at the first
// consumption and resets once it elapses; a denied call does not
// extend it.
func (s *MemoryStore) Consume(_ context.Context, key string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w := s.entries[key]
	if w == nil || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(s.window)}
		s.entries[key] = w
	}

	if w.count >= s.points {
		return Result{
			Allowed:    false,
			RetryAfter: secondsUntil(now, w.resetAt),
		}, nil
	}

	w.count++
	return Result{
		Allowed:   true,
		Remaining: s.points - w.count,
	}, nil
}

// Close stops the janitor goroutine
func (s *MemoryStore) Close() {
	close(s.done)
}

// janitor periodically removes expired windows so idle keys do not
// accumulate for the lifetime of the process.
func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(s.window)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.Lock()
			now := s.now()
			for key, w := range s.entries {
				if !now.Before(w.resetAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

// secondsUntil reports the time until reset rounded to the nearest
// whole second, never less than one.
func secondsUntil(now, resetAt time.Time) int {
	seconds := int(resetAt.Sub(now).Round(time.Second) / time.Second)
	if seconds < 1 {
		return 1
	}
	return seconds
}

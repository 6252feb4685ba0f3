// Package ratelimit bounds per-client request frequency with a fixed
// point budget per time window. The counter store is an interface so
// the in-process map can be swapped for a shared Redis store without
// touching handler logic.
package ratelimit

import "context"

// Result is the outcome of consuming one point for a key
type Result struct {
	// Allowed reports whether the request may proceed
	Allowed bool
	// Remaining is the number of points left in the current window
	Remaining int
	// RetryAfter is the whole seconds until the window resets.
	// Only meaningful when Allowed is false; always >= 1 then.
	RetryAfter int
}

// Store consumes one point for the given key, starting a fresh window
// when none is active. Implementations must be safe for concurrent use.
type Store interface {
	Consume(ctx context.Context, key string) (Result, error)
}

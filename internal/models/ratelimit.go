package models

import (
	"fmt"
	"time"
)

// Decision is the outcome of a single rate-limit admission check.
type Decision struct {
	// Allowed reports whether the request was admitted into the window.
	Allowed bool
	// Remaining is the number of admissions left in the current window.
	// Only meaningful when Allowed is true.
	Remaining int
	// RetryAfter is the time until the oldest admitted request leaves the
	// window. Only meaningful when Allowed is false.
	RetryAfter time.Duration
	// Limit is the maximum number of admissions per window.
	Limit int
	// Window is the length of the sliding window.
	Window time.Duration
}

// RateLimitError is returned by the service layer when a create request is
// rejected by the sliding-window limiter. It carries the retry metadata the
// API layer surfaces to the client.
type RateLimitError struct {
	RetryAfter time.Duration
	Limit      int
	Window     time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit of %d requests per %s exceeded, retry after %s",
		e.Limit, e.Window, e.RetryAfter)
}

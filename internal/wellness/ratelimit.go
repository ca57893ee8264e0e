package wellness

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter keeps the client under a per-minute request budget and honours
// Retry-After from the backend.
type RateLimiter struct {
	mu sync.Mutex

	limit    int
	usage    int
	resetsAt time.Time

	// set from a 429 Retry-After
	blockedUntil time.Time

	minInterval time.Duration
	lastRequest time.Time
}

// NewRateLimiter allows perMinute requests per rolling minute window.
// Zero or negative means unlimited apart from the minimum spacing.
func NewRateLimiter(perMinute int) *RateLimiter {
	return &RateLimiter{
		limit:       perMinute,
		resetsAt:    time.Now().Add(time.Minute),
		minInterval: 50 * time.Millisecond,
	}
}

// Wait blocks until a request can be made.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if now.After(r.resetsAt) {
		r.usage = 0
		r.resetsAt = now.Add(time.Minute)
	}

	if wait := time.Until(r.blockedUntil); wait > 0 {
		if err := r.sleep(ctx, wait); err != nil {
			return err
		}
	}

	if r.limit > 0 && r.usage >= r.limit {
		if err := r.sleep(ctx, time.Until(r.resetsAt)); err != nil {
			return err
		}
		r.usage = 0
		r.resetsAt = time.Now().Add(time.Minute)
	}

	if elapsed := time.Since(r.lastRequest); elapsed < r.minInterval {
		if err := r.sleep(ctx, r.minInterval-elapsed); err != nil {
			return err
		}
	}

	r.usage++
	r.lastRequest = time.Now()
	return nil
}

// sleep releases the lock while waiting. Caller holds r.mu.
func (r *RateLimiter) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Unlock()
	defer r.mu.Lock()

	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UpdateFromHeaders reads X-RateLimit-Limit, X-RateLimit-Remaining and Retry-After.
func (r *RateLimiter) UpdateFromHeaders(h http.Header) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v := h.Get("X-RateLimit-Limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			r.limit = limit
		}
	}
	if v := h.Get("X-RateLimit-Remaining"); v != "" {
		if remaining, err := strconv.Atoi(v); err == nil && r.limit > 0 {
			r.usage = r.limit - remaining
		}
	}
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			r.blockedUntil = time.Now().Add(time.Duration(secs) * time.Second)
		}
	}
}

// Status returns the requests left in the current window, or -1 when unlimited.
func (r *RateLimiter) Status() (remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.limit <= 0 {
		return -1
	}
	return r.limit - r.usage
}

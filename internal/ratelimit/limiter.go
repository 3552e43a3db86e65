// Package ratelimit bounds the outbound request rate to an upstream
// endpoint using a sliding time window.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter allows at most maxRequests acquisitions per rolling window.
// Callers block in Acquire until a slot frees; queued callers are not
// bounded, so sustained overload backpressures rather than rejects.
type Limiter struct {
	maxRequests int
	window      time.Duration
	now         func() time.Time

	mu     sync.Mutex
	issued []time.Time // timestamps of recent acquisitions, oldest first
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// NewLimiter creates a limiter admitting maxRequests per window.
func NewLimiter(maxRequests int, window time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Acquire blocks until issuing a request would not exceed the configured
// rate, then records the acquisition. Returns early with ctx.Err() if the
// context is cancelled while waiting.
func (l *Limiter) Acquire(ctx context.Context) error {
	for {
		wait := l.tryAcquire()
		if wait <= 0 {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// tryAcquire records an acquisition if a slot is free, otherwise returns
// how long the caller must wait for the oldest retained entry to expire.
func (l *Limiter) tryAcquire() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// Discard entries older than the window.
	keep := 0
	for _, ts := range l.issued {
		if ts.After(cutoff) {
			break
		}
		keep++
	}
	l.issued = l.issued[keep:]

	if len(l.issued) < l.maxRequests {
		l.issued = append(l.issued, now)
		return 0
	}

	return l.window - now.Sub(l.issued[0])
}

// Pending returns the number of acquisitions retained in the current
// window. Used by tests and diagnostics.
func (l *Limiter) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.issued)
}

package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowsUpToMax(t *testing.T) {
	l := NewLimiter(3, 100*time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("Acquire %d failed: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("First %d acquisitions took %v, expected no blocking", 3, elapsed)
	}
	if l.Pending() != 3 {
		t.Errorf("Pending = %d, want 3", l.Pending())
	}
}

func TestLimiter_BlocksWhenWindowFull(t *testing.T) {
	window := 80 * time.Millisecond
	l := NewLimiter(2, window)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("Acquire %d failed: %v", i, err)
		}
	}

	// The third acquisition must wait for the oldest entry to expire.
	start := time.Now()
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < window/2 {
		t.Errorf("Third acquisition returned after %v, expected a wait near %v", elapsed, window)
	}
}

func TestLimiter_SlidingWindowFreesSlots(t *testing.T) {
	current := time.UnixMilli(1700000000000)
	l := NewLimiter(2, time.Minute, WithClock(func() time.Time { return current }))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := l.Acquire(ctx); err != nil {
			t.Fatalf("Acquire %d failed: %v", i, err)
		}
	}

	// Past the window the stale entries are discarded and acquisition is
	// immediate again.
	current = current.Add(61 * time.Second)
	if err := l.Acquire(ctx); err != nil {
		t.Fatalf("Acquire after window failed: %v", err)
	}
	if l.Pending() != 1 {
		t.Errorf("Pending = %d after window slide, want 1", l.Pending())
	}
}

func TestLimiter_ContextCancelledWhileWaiting(t *testing.T) {
	l := NewLimiter(1, time.Hour)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	if err != context.DeadlineExceeded {
		t.Errorf("Acquire error = %v, want context.DeadlineExceeded", err)
	}
}

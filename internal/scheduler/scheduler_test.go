package scheduler

import (
	"context"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"
)

var quietLogger = log.New(io.Discard, "", 0)

func TestScheduler_RunsImmediatelyThenPeriodically(t *testing.T) {
	var runs atomic.Int32
	s := New(Options{
		Runner: RunnerFunc(func(context.Context) error {
			runs.Add(1)
			return nil
		}),
		Period: 20 * time.Millisecond,
		Logger: quietLogger,
	})

	s.Start(context.Background())
	time.Sleep(70 * time.Millisecond)
	s.Stop()

	got := runs.Load()
	if got < 3 {
		t.Errorf("runs = %d, want at least 3 (immediate + ticks)", got)
	}
}

func TestScheduler_SkipsOverlappingRuns(t *testing.T) {
	var concurrent, maxConcurrent atomic.Int32
	s := New(Options{
		Runner: RunnerFunc(func(context.Context) error {
			cur := concurrent.Add(1)
			for {
				prev := maxConcurrent.Load()
				if cur <= prev || maxConcurrent.CompareAndSwap(prev, cur) {
					break
				}
			}
			time.Sleep(50 * time.Millisecond)
			concurrent.Add(-1)
			return nil
		}),
		Period: 10 * time.Millisecond,
		Logger: quietLogger,
	})

	s.Start(context.Background())
	time.Sleep(120 * time.Millisecond)
	s.Stop()

	if maxConcurrent.Load() != 1 {
		t.Errorf("max concurrent runs = %d, want 1", maxConcurrent.Load())
	}
}

func TestScheduler_StopWaitsForInFlightRun(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	s := New(Options{
		Runner: RunnerFunc(func(context.Context) error {
			select {
			case started <- struct{}{}:
			default:
			}
			time.Sleep(40 * time.Millisecond)
			finished.Store(true)
			return nil
		}),
		Period: time.Hour,
		Logger: quietLogger,
	})

	s.Start(context.Background())
	<-started
	s.Stop()

	if !finished.Load() {
		t.Error("Stop returned before the in-flight run finished")
	}
}

func TestScheduler_StartIsIdempotent(t *testing.T) {
	var runs atomic.Int32
	s := New(Options{
		Runner: RunnerFunc(func(context.Context) error {
			runs.Add(1)
			return nil
		}),
		Period: time.Hour,
		Logger: quietLogger,
	})

	ctx := context.Background()
	s.Start(ctx)
	s.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	s.Stop()

	if runs.Load() != 1 {
		t.Errorf("runs = %d, want 1 (second Start is a no-op)", runs.Load())
	}
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := New(Options{
		Runner: RunnerFunc(func(context.Context) error { return nil }),
		Period: time.Hour,
		Logger: quietLogger,
	})
	s.Stop() // must not panic or block
}

// Package scheduler runs the ingestion cycle on a fixed period with an
// overlap guard: if a cycle outlives the period, the overlapping tick is
// dropped rather than queued.
package scheduler

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Runner is the unit of work the scheduler drives.
type Runner interface {
	Run(ctx context.Context) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context) error

func (f RunnerFunc) Run(ctx context.Context) error { return f(ctx) }

// Scheduler invokes a Runner immediately on Start and then once per
// period. Runs never overlap.
type Scheduler struct {
	runner Runner
	period time.Duration
	logger *log.Logger

	running atomic.Bool // overlap guard
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	started bool
}

// Options contains configuration for creating a Scheduler.
type Options struct {
	Runner Runner
	Period time.Duration
	Logger *log.Logger
}

// New creates a scheduler.
func New(opts Options) *Scheduler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		runner: opts.Runner,
		period: opts.Period,
		logger: logger,
	}
}

// Start launches the scheduling loop. The first run happens immediately,
// not after the first period. Start is a no-op if already started.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.loop(ctx)
}

// Stop cancels the loop and waits for any in-flight run to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs the cycle unless one is still in flight.
func (s *Scheduler) tick(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Printf("WARN previous run still in progress, skipping tick")
		return
	}
	defer s.running.Store(false)

	if err := s.runner.Run(ctx); err != nil && ctx.Err() == nil {
		s.logger.Printf("WARN scheduled run: %v", err)
	}
}

// Package worker drives the scheduler on a fixed cadence.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/rivals/pkg/logger"
	"github.com/okian/rivals/pkg/metrics"
)

// DefaultInterval is the tick cadence when none is configured.
const DefaultInterval = time.Second

// Ticker is the unit of work run on every tick.
type Ticker interface {
	Tick(ctx context.Context) error
}

// TickFunc adapts a function to Ticker.
type TickFunc func(ctx context.Context) error

// Tick calls f.
func (f TickFunc) Tick(ctx context.Context) error { return f(ctx) }

// Worker is a long running loop.
type Worker interface {
	// Run starts the loop until ctx is canceled or Shutdown is called.
	Run(ctx context.Context)

	// Shutdown stops the loop and waits for the in-flight tick.
	Shutdown(ctx context.Context) error
}

// TickWorker calls a Ticker once at start and then every interval. Ticks
// never overlap: a slow tick delays the next one.
type TickWorker struct {
	ticker   Ticker
	interval time.Duration
	name     string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewTickWorker creates a worker around t.
func NewTickWorker(t Ticker, opts ...Option) *TickWorker {
	w := &TickWorker{
		ticker:   t,
		interval: DefaultInterval,
		name:     "ticker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Named(w.name)
	}
	return w
}

// Run starts the tick loop.
func (w *TickWorker) Run(ctx context.Context) {
	defer close(w.done)

	w.logger.Info(ctx, "tick worker started", logger.Duration("interval", w.interval))
	w.tick(ctx)

	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *TickWorker) tick(ctx context.Context) {
	start := time.Now()
	defer func() {
		metrics.RecordTickLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := w.ticker.Tick(ctx); err != nil {
		metrics.RecordErrorByComponent("worker", "tick_error")
		w.logger.Error(ctx, "tick failed, retrying next cycle", logger.Error(err))
	}
}

// Shutdown stops the loop. It is safe to call more than once.
func (w *TickWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *TickWorker) Done() <-chan struct{} { return w.done }

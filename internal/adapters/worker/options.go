package worker

import (
	"time"

	"github.com/okian/rivals/pkg/logger"
)

// Option applies a configuration option to the TickWorker.
type Option func(*TickWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *TickWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithInterval sets the tick cadence.
func WithInterval(d time.Duration) Option {
	return func(w *TickWorker) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *TickWorker) {
		if l != nil {
			w.logger = l
		}
	}
}

package kv

import (
	"context"
	"errors"
	"time"

	"github.com/okian/rivals/pkg/logger"
	"github.com/okian/rivals/pkg/metrics"
)

// Instrumented wraps a Store with metrics and error logging.
type Instrumented struct {
	next   Store
	logger logger.Logger
}

// NewInstrumented wraps next. A nil log falls back to the global logger.
func NewInstrumented(next Store, log logger.Logger) *Instrumented {
	if log == nil {
		log = logger.Named("kv")
	}
	return &Instrumented{next: next, logger: log}
}

func (s *Instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	v, err := s.next.Get(ctx, key)
	s.observe(ctx, "get", key, start, err)
	return v, err
}

func (s *Instrumented) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value)
	s.observe(ctx, "set", key, start, err)
	return err
}

func (s *Instrumented) Remove(ctx context.Context, key string) error {
	start := time.Now()
	err := s.next.Remove(ctx, key)
	s.observe(ctx, "remove", key, start, err)
	return err
}

func (s *Instrumented) Close() error {
	return s.next.Close()
}

func (s *Instrumented) observe(ctx context.Context, op, key string, start time.Time, err error) {
	ms := float64(time.Since(start).Microseconds()) / 1000
	switch {
	case err == nil:
		metrics.RecordStorageOp(op, "ok", ms)
	case errors.Is(err, ErrNotFound):
		metrics.RecordStorageOp(op, "not_found", ms)
	default:
		metrics.RecordStorageOp(op, "error", ms)
		metrics.RecordErrorByComponent("kv", op)
		s.logger.Error(ctx, "storage operation failed",
			logger.String("op", op),
			logger.String("key", key),
			logger.Error(err),
		)
	}
}

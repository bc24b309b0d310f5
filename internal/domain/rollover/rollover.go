// Package rollover detects calendar day and week transitions of the virtual
// clock between polls.
package rollover

import (
	"context"
	"sync"
	"time"

	"github.com/okian/rivals/internal/domain/clock"
	"github.com/okian/rivals/pkg/metrics"
)

// Kinds of transition, used as metric labels.
const (
	KindDay  = "day"
	KindWeek = "week"
)

// Handler is invoked once per detected transition.
type Handler func(ctx context.Context, now time.Time)

// Option applies a configuration option to the Detector.
type Option func(*Detector)

// OnDay registers the day rollover handler.
func OnDay(h Handler) Option {
	return func(d *Detector) { d.onDay = h }
}

// OnWeek registers the week rollover handler.
func OnWeek(h Handler) Option {
	return func(d *Detector) { d.onWeek = h }
}

// Event reports what a poll detected.
type Event struct {
	Day  bool
	Week bool
}

// Detector remembers the last seen date and week key. The first poll only
// initializes them. Skipping several days or weeks between polls yields a
// single transition.
type Detector struct {
	mu       sync.Mutex
	clock    clock.Clock
	lastDate *time.Time
	lastWeek string
	onDay    Handler
	onWeek   Handler
}

// New creates a Detector over c.
func New(c clock.Clock, opts ...Option) *Detector {
	d := &Detector{clock: c}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Poll reads the clock and fires the handlers for any transition since the
// previous poll.
func (d *Detector) Poll(ctx context.Context) Event {
	return d.Check(ctx, d.clock.Now())
}

// Check is Poll with an explicit instant.
func (d *Detector) Check(ctx context.Context, now time.Time) Event {
	d.mu.Lock()
	today := clock.DateOnly(now)
	week := clock.WeekKey(now)

	var ev Event
	if d.lastDate == nil {
		d.lastDate = &today
	} else if today.After(*d.lastDate) {
		ev.Day = true
		d.lastDate = &today
	}
	if d.lastWeek == "" {
		d.lastWeek = week
	} else if week != d.lastWeek {
		ev.Week = true
		d.lastWeek = week
	}
	onDay, onWeek := d.onDay, d.onWeek
	d.mu.Unlock()

	if ev.Day {
		metrics.RecordRollover(KindDay)
		if onDay != nil {
			onDay(ctx, now)
		}
	}
	if ev.Week {
		metrics.RecordRollover(KindWeek)
		if onWeek != nil {
			onWeek(ctx, now)
		}
	}
	return ev
}

// Reset forgets the last seen values so the next poll initializes again.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastDate = nil
	d.lastWeek = ""
}

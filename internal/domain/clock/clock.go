// Package clock provides the virtual clock used by the scheduler and the
// calendar helpers (day/week keys) derived from it.
//
// A VirtualClock either follows the wall clock or runs accelerated. When
// acceleration is switched off the furthest virtual instant reached is kept,
// so time never moves backwards for the rest of the process.
package clock

import (
	"sync"
	"time"
)

// Default acceleration: one virtual day every five real seconds.
const (
	DefaultSecondsPerDay = 5
	secondsPerDay        = 24 * 60 * 60
)

// Clock is the read side consumed by the scheduler components.
type Clock interface {
	Now() time.Time
}

// State is a snapshot of the clock internals.
type State struct {
	Enabled         bool       `json:"enabled"`
	WallClockAnchor *time.Time `json:"wallClockAnchor,omitempty"`
	VirtualAnchor   *time.Time `json:"virtualAnchor,omitempty"`
	LastVirtualTime *time.Time `json:"lastVirtualTime,omitempty"`
	SpeedMultiplier float64    `json:"speedMultiplier"`
	Now             time.Time  `json:"now"`
}

// Option applies a configuration option to the VirtualClock.
type Option func(*VirtualClock)

// WithRealNow replaces the wall clock source.
func WithRealNow(fn func() time.Time) Option {
	return func(c *VirtualClock) {
		if fn != nil {
			c.realNow = fn
		}
	}
}

// WithSecondsPerDay sets how many real seconds make one virtual day while accelerated.
func WithSecondsPerDay(seconds float64) Option {
	return func(c *VirtualClock) {
		if seconds > 0 {
			c.speed = secondsPerDay / seconds
		}
	}
}

// WithLocation sets the time zone used for day boundaries.
func WithLocation(loc *time.Location) Option {
	return func(c *VirtualClock) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// VirtualClock produces "now", optionally faster than real time.
type VirtualClock struct {
	mu      sync.Mutex
	realNow func() time.Time
	speed   float64
	loc     *time.Location

	enabled       bool
	wallAnchor    *time.Time
	virtualAnchor *time.Time
	lastVirtual   *time.Time

	// floor is the latest value handed out; guards against wall clock regressions.
	floor time.Time
}

// New creates a clock that follows real time until Enable is called.
func New(opts ...Option) *VirtualClock {
	c := &VirtualClock{
		realNow: time.Now,
		speed:   secondsPerDay / DefaultSecondsPerDay,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the current virtual instant. It never blocks on I/O and never
// returns a value earlier than one it returned before.
func (c *VirtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nowLocked().In(c.loc)
}

func (c *VirtualClock) nowLocked() time.Time {
	v := c.computeLocked()
	if v.Before(c.floor) {
		return c.floor
	}
	c.floor = v
	return v
}

func (c *VirtualClock) computeLocked() time.Time {
	wall := c.wallNow()
	if c.enabled {
		elapsed := wall.Sub(*c.wallAnchor)
		if elapsed < 0 {
			elapsed = 0
		}
		return c.virtualAnchor.Add(time.Duration(float64(elapsed) * c.speed))
	}
	if c.lastVirtual == nil {
		return wall
	}
	if wall.After(*c.lastVirtual) {
		c.lastVirtual = &wall
	}
	return *c.lastVirtual
}

// wallNow strips the monotonic reading so anchors compare on wall time only.
func (c *VirtualClock) wallNow() time.Time {
	return c.realNow().Round(0)
}

// Enable starts (or resumes) accelerated time from the current virtual instant.
// Calling it while already enabled re-anchors without a jump.
func (c *VirtualClock) Enable() {
	c.mu.Lock()
	defer c.mu.Unlock()

	virtual := c.nowLocked()
	wall := c.wallNow()
	c.virtualAnchor = &virtual
	c.wallAnchor = &wall
	c.enabled = true
}

// Disable freezes the virtual instant reached and returns to unaccelerated time.
func (c *VirtualClock) Disable() {
	c.mu.Lock()
	defer c.mu.Unlock()

	last := c.nowLocked()
	c.lastVirtual = &last
	c.wallAnchor = nil
	c.virtualAnchor = nil
	c.enabled = false
}

// Reset forgets all acceleration history, including the last virtual instant.
func (c *VirtualClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enabled = false
	c.wallAnchor = nil
	c.virtualAnchor = nil
	c.lastVirtual = nil
	c.floor = time.Time{}
}

// Enabled reports whether acceleration is active.
func (c *VirtualClock) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Location returns the time zone used for calendar computations.
func (c *VirtualClock) Location() *time.Location { return c.loc }

// Snapshot returns a copy of the clock state.
func (c *VirtualClock) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Enabled:         c.enabled,
		WallClockAnchor: copyTime(c.wallAnchor),
		VirtualAnchor:   copyTime(c.virtualAnchor),
		LastVirtualTime: copyTime(c.lastVirtual),
		SpeedMultiplier: c.speed,
		Now:             c.nowLocked().In(c.loc),
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

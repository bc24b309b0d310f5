package service

import (
	"time"

	"github.com/okian/rivals/internal/adapters/worker"
	"github.com/okian/rivals/internal/domain/catchup"
	"github.com/okian/rivals/internal/domain/clock"
	"github.com/okian/rivals/internal/domain/random"
	"github.com/okian/rivals/pkg/logger"
)

// Default service configuration constants.
const (
	defaultMaxLeaderboardLimit = 100
)

type settings struct {
	clock               *clock.VirtualClock
	rng                 random.Source
	reward              int
	suppressHour        int
	maxLeaderboardLimit int
	tickInterval        time.Duration
	listener            Listener
	logger              logger.Logger
}

func defaultSettings() settings {
	return settings{
		reward:              catchup.DefaultReward,
		suppressHour:        catchup.DefaultSuppressHour,
		maxLeaderboardLimit: defaultMaxLeaderboardLimit,
		tickInterval:        worker.DefaultInterval,
	}
}

// Option applies a configuration option to the Service.
type Option func(*settings)

// WithClock sets the virtual clock.
func WithClock(c *clock.VirtualClock) Option {
	return func(s *settings) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithRandom sets the random source shared by catch-up and prompt draws.
func WithRandom(src random.Source) Option {
	return func(s *settings) {
		if src != nil {
			s.rng = src
		}
	}
}

// WithSeed seeds the default random source. Zero draws a random seed.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.rng = random.New(seed)
	}
}

// WithReward sets the points a competitor earns on a successful day.
func WithReward(points int) Option {
	return func(s *settings) {
		if points > 0 {
			s.reward = points
		}
	}
}

// WithSuppressHour sets the install-day cutoff hour.
func WithSuppressHour(hour int) Option {
	return func(s *settings) {
		if hour >= 0 && hour <= 24 {
			s.suppressHour = hour
		}
	}
}

// WithMaxLeaderboardLimit caps the leaderboard page size.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxLeaderboardLimit = n
		}
	}
}

// WithTickInterval sets the scheduler cadence.
func WithTickInterval(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithListener registers scheduler callbacks.
func WithListener(l Listener) Option {
	return func(s *settings) { s.listener = l }
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// Package catchup advances the simulated competitors day by day up to the
// current virtual date.
//
// Every calendar day between a competitor's last processed date and today is
// an independent Bernoulli trial with the competitor's daily probability. A
// success grants a fixed reward. Calling Process again on the same day is a
// no-op because each competitor is stamped with the instant it was processed.
package catchup

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/rivals/internal/domain/clock"
	"github.com/okian/rivals/internal/domain/model"
	"github.com/okian/rivals/internal/domain/random"
	"github.com/okian/rivals/pkg/logger"
	"github.com/okian/rivals/pkg/metrics"
)

// Defaults for the simulation.
const (
	DefaultReward       = 3
	DefaultSuppressHour = 12
)

// Store is the persistence the processor needs.
type Store interface {
	LoadInstall(ctx context.Context) (*model.InstallRecord, error)
	SaveInstall(ctx context.Context, rec model.InstallRecord) error
	SaveCompetitors(ctx context.Context, list []model.Competitor) error
}

// Result summarises one Process call.
type Result struct {
	Updated       bool
	DaysWalked    int
	PointsAwarded int
	Suppressed    bool
}

// Option applies a configuration option to the Processor.
type Option func(*Processor)

// WithReward sets the points granted per successful day.
func WithReward(points int) Option {
	return func(p *Processor) {
		if points > 0 {
			p.reward = points
		}
	}
}

// WithSuppressHour sets the hour before which install day does not roll.
func WithSuppressHour(hour int) Option {
	return func(p *Processor) {
		if hour >= 0 && hour <= 24 {
			p.suppressHour = hour
		}
	}
}

// WithRandom sets the uniform source for the daily trials.
func WithRandom(src random.Source) Option {
	return func(p *Processor) {
		if src != nil {
			p.rng = src
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// Processor runs the competitor catch-up.
type Processor struct {
	clock        clock.Clock
	store        Store
	rng          random.Source
	reward       int
	suppressHour int
	logger       logger.Logger
}

// New creates a Processor reading time from c and persisting through store.
func New(c clock.Clock, store Store, opts ...Option) *Processor {
	p := &Processor{
		clock:        c,
		store:        store,
		reward:       DefaultReward,
		suppressHour: DefaultSuppressHour,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = random.New(0)
	}
	if p.logger == nil {
		p.logger = logger.Named("catchup")
	}
	return p
}

// Process walks every competitor forward to today. The slice is updated in
// place only after the whole roster has been saved; on a save error it is
// left untouched and the error is returned.
func (p *Processor) Process(ctx context.Context, competitors []model.Competitor) (Result, error) {
	now := p.clock.Now()
	today := clock.DateOnly(now)

	install, err := p.installDate(ctx, now)
	if err != nil {
		return Result{}, err
	}
	isInstallDay := clock.DateOnly(install.In(now.Location())).Equal(today)
	suppressToday := isInstallDay && now.Hour() < p.suppressHour

	res := Result{Suppressed: suppressToday}
	next := make([]model.Competitor, len(competitors))
	copy(next, competitors)

	for i := range next {
		c := &next[i]
		last := today.AddDate(0, 0, -1)
		if c.LastUpdate != nil {
			last = clock.DateOnly(c.LastUpdate.In(now.Location()))
		}
		if !last.Before(today) {
			continue
		}

		for day := last.AddDate(0, 0, 1); !day.After(today); day = day.AddDate(0, 0, 1) {
			res.DaysWalked++
			if suppressToday && day.Equal(today) {
				continue
			}
			if p.rng.Float64() < c.DailyProbability {
				c.Points += p.reward
				res.PointsAwarded += p.reward
			}
		}
		stamp := now
		c.LastUpdate = &stamp
		res.Updated = true
	}

	if !res.Updated {
		return res, nil
	}
	if err := p.store.SaveCompetitors(ctx, next); err != nil {
		metrics.RecordErrorByComponent("catchup", "save")
		return Result{}, fmt.Errorf("catch-up save: %w", err)
	}
	copy(competitors, next)

	metrics.RecordCatchUp(res.DaysWalked, res.PointsAwarded)
	p.logger.Info(ctx, "competitors caught up",
		logger.String("today", clock.DayKey(today)),
		logger.Int("days", res.DaysWalked),
		logger.Int("points", res.PointsAwarded),
		logger.Bool("suppressed", suppressToday),
	)
	return res, nil
}

// installDate reads the install record, creating it on the first call ever.
func (p *Processor) installDate(ctx context.Context, now time.Time) (time.Time, error) {
	rec, err := p.store.LoadInstall(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("catch-up install date: %w", err)
	}
	if rec != nil {
		return rec.InstallDate, nil
	}
	if err := p.store.SaveInstall(ctx, model.InstallRecord{InstallDate: now}); err != nil {
		return time.Time{}, fmt.Errorf("catch-up install date: %w", err)
	}
	p.logger.Info(ctx, "install date recorded", logger.Time("install_date", now))
	return now, nil
}

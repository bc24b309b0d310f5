// Package service wires the scheduler components together and implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/rivals/internal/adapters/kv"
	repository "github.com/okian/rivals/internal/adapters/repository"
	"github.com/okian/rivals/internal/adapters/worker"
	"github.com/okian/rivals/internal/domain/catchup"
	"github.com/okian/rivals/internal/domain/clock"
	"github.com/okian/rivals/internal/domain/model"
	"github.com/okian/rivals/internal/domain/prompts"
	"github.com/okian/rivals/internal/domain/random"
	"github.com/okian/rivals/internal/domain/rollover"
	"github.com/okian/rivals/internal/domain/standings"
	"github.com/okian/rivals/internal/domain/types"
	"github.com/okian/rivals/internal/domain/weekly"
	"github.com/okian/rivals/pkg/logger"
	"github.com/okian/rivals/pkg/metrics"
)

// Listener receives scheduler notifications. Any field may be nil.
// Callbacks run while the service lock is held and must not call back
// into the Service.
type Listener struct {
	OnDayRollover        func(ctx context.Context, now time.Time)
	OnWeekRollover       func(ctx context.Context, now time.Time)
	OnCompetitorsChanged func(ctx context.Context, competitors []model.Competitor)
}

// Service owns the scheduler state. A single mutex serialises ticks and
// user mutations, so the scheduler logic never runs concurrently.
type Service struct {
	mu sync.Mutex

	// Core components
	clock     *clock.VirtualClock
	repo      *repository.Repository
	catchUp   *catchup.Processor
	detector  *rollover.Detector
	rotation  *prompts.Rotation
	lifecycle *weekly.Lifecycle
	ticker    *worker.TickWorker

	// Configuration
	cfg settings

	// State
	competitors []model.Competitor
	listener    Listener
	started     bool
	ticks       uint64

	// Logging
	logger logger.Logger
}

// New constructs a Service over store.
func New(store kv.Store, opts ...Option) *Service {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.clock == nil {
		cfg.clock = clock.New()
	}
	if cfg.rng == nil {
		cfg.rng = random.New(0)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Named("service")
	}

	s := &Service{
		clock:    cfg.clock,
		cfg:      cfg,
		listener: cfg.listener,
		logger:   cfg.logger,
	}
	s.repo = repository.New(store, repository.WithLogger(cfg.logger))
	s.catchUp = catchup.New(s.clock, s.repo,
		catchup.WithReward(cfg.reward),
		catchup.WithSuppressHour(cfg.suppressHour),
		catchup.WithRandom(cfg.rng),
		catchup.WithLogger(cfg.logger),
	)
	s.rotation = prompts.New(s.clock, s.repo,
		prompts.WithRandom(cfg.rng),
		prompts.WithLogger(cfg.logger),
	)
	s.lifecycle = weekly.New(s.clock, s.repo, weekly.WithLogger(cfg.logger))
	s.detector = rollover.New(s.clock,
		rollover.OnDay(s.handleDayRollover),
		rollover.OnWeek(s.handleWeekRollover),
	)
	metrics.UpdateClockAccelerated(s.clock.Enabled())
	return s
}

// Start runs the tick loop in the background.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.started = true
	s.ticker = worker.NewTickWorker(worker.TickFunc(s.Tick),
		worker.WithName("scheduler"),
		worker.WithInterval(s.cfg.tickInterval),
		worker.WithLogger(s.logger),
	)
	go s.ticker.Run(ctx)
	s.logger.Info(ctx, "scheduler started", logger.Duration("tick_interval", s.cfg.tickInterval))
	return nil
}

// Stop stops the tick loop and waits for the in-flight tick.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	started, ticker := s.started, s.ticker
	s.started = false
	s.mu.Unlock()

	if !started {
		return nil
	}
	if err := ticker.Shutdown(ctx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	s.logger.Info(ctx, "scheduler stopped")
	return nil
}

// Tick runs one scheduler cycle: competitor catch-up, then rollover detection.
// A catch-up failure does not prevent rollover detection; the failed
// catch-up is retried on the next tick.
func (s *Service) Tick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ticks++
	var errs []error
	if err := s.catchUpLocked(ctx); err != nil {
		errs = append(errs, err)
	}
	s.detector.Poll(ctx)
	return errors.Join(errs...)
}

func (s *Service) loadCompetitorsLocked(ctx context.Context) error {
	if s.competitors != nil {
		return nil
	}
	list, err := s.repo.LoadCompetitors(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		list = catchup.DefaultRoster()
		s.logger.Info(ctx, "created default roster", logger.Int("competitors", len(list)))
	}
	s.competitors = list
	return nil
}

func (s *Service) catchUpLocked(ctx context.Context) error {
	if err := s.loadCompetitorsLocked(ctx); err != nil {
		return err
	}
	res, err := s.catchUp.Process(ctx, s.competitors)
	if err != nil {
		return err
	}
	if res.Updated && s.listener.OnCompetitorsChanged != nil {
		s.listener.OnCompetitorsChanged(ctx, append([]model.Competitor(nil), s.competitors...))
	}
	return nil
}

func (s *Service) handleDayRollover(ctx context.Context, now time.Time) {
	s.logger.Info(ctx, "day rollover", logger.String("day", clock.DayKey(now)))
	if _, err := s.rotation.LoadOrRotate(ctx); err != nil {
		s.logger.Error(ctx, "prompt rotation failed", logger.Error(err))
	}
	if s.listener.OnDayRollover != nil {
		s.listener.OnDayRollover(ctx, now)
	}
}

func (s *Service) handleWeekRollover(ctx context.Context, now time.Time) {
	s.logger.Info(ctx, "week rollover", logger.String("week", clock.WeekKey(now)))
	if _, err := s.lifecycle.Current(ctx); err != nil {
		s.logger.Error(ctx, "weekly task reload failed", logger.Error(err))
	}
	if s.listener.OnWeekRollover != nil {
		s.listener.OnWeekRollover(ctx, now)
	}
}

// Leaderboard returns the top limit rows, the user included.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]types.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.rankLocked(ctx)
	if err != nil {
		return nil, err
	}
	return standings.TopN(entries, limit, s.cfg.maxLeaderboardLimit)
}

func (s *Service) rankLocked(ctx context.Context) ([]types.Entry, error) {
	if err := s.loadCompetitorsLocked(ctx); err != nil {
		return nil, err
	}
	u, err := s.repo.LoadUser(ctx)
	if err != nil {
		return nil, err
	}
	return standings.Rank(u, s.competitors), nil
}

// Competitors returns a copy of the current roster.
func (s *Service) Competitors(ctx context.Context) ([]model.Competitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadCompetitorsLocked(ctx); err != nil {
		return nil, err
	}
	return append([]model.Competitor(nil), s.competitors...), nil
}

// Prompts returns today's prompt set, rotating it if stale.
func (s *Service) Prompts(ctx context.Context) (types.PromptsView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.rotation.LoadOrRotate(ctx)
	if err != nil {
		return types.PromptsView{}, err
	}
	done, err := s.rotation.SubmittedToday(ctx)
	if err != nil {
		return types.PromptsView{}, err
	}
	if done == nil {
		done = []int{}
	}
	return types.PromptsView{State: st, Submitted: done}, nil
}

// SelectPrompt marks index as today's choice.
func (s *Service) SelectPrompt(ctx context.Context, index int) (*model.DailyPromptState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotation.Select(ctx, index)
}

// SubmitPrompt records a submission for the selected prompt.
func (s *Service) SubmitPrompt(ctx context.Context, text string, attachments []string) (model.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rotation.Submit(ctx, text, attachments)
}

// Weekly returns the current week's task view.
func (s *Service) Weekly(ctx context.Context) (types.WeeklyView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.lifecycle.Current(ctx)
	if err != nil {
		return types.WeeklyView{}, err
	}
	return types.WeeklyView{WeekKey: clock.WeekKey(s.clock.Now()), State: string(weekly.StateOf(t)), Task: t}, nil
}

// CreateWeekly starts this week's task.
func (s *Service) CreateWeekly(ctx context.Context, text string, points int) (*model.WeeklyTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle.Create(ctx, text, points)
}

// CompleteWeekly completes this week's task.
func (s *Service) CompleteWeekly(ctx context.Context, text string, attachments []string) (*model.WeeklyTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle.Complete(ctx, text, attachments)
}

// DeleteWeekly removes this week's task.
func (s *Service) DeleteWeekly(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle.Delete(ctx)
}

// Profile returns the user's data and leaderboard row.
func (s *Service) Profile(ctx context.Context) (types.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.rankLocked(ctx)
	if err != nil {
		return types.Profile{}, err
	}
	me, err := standings.UserRank(entries)
	if err != nil {
		return types.Profile{}, err
	}
	u, err := s.repo.LoadUser(ctx)
	if err != nil {
		return types.Profile{}, err
	}
	return types.Profile{User: u, Entry: me}, nil
}

// Clock returns a snapshot of the virtual clock.
func (s *Service) Clock() clock.State {
	return s.clock.Snapshot()
}

// SetAccelerated switches time acceleration on or off.
func (s *Service) SetAccelerated(ctx context.Context, enabled bool) clock.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if enabled {
		s.clock.Enable()
	} else {
		s.clock.Disable()
	}
	metrics.UpdateClockAccelerated(enabled)
	st := s.clock.Snapshot()
	s.logger.Info(ctx, "clock acceleration changed",
		logger.Bool("enabled", enabled),
		logger.Time("now", st.Now),
	)
	return st
}

// ClearData removes every persisted key and resets the virtual clock.
func (s *Service) ClearData(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	s.clock.Reset()
	s.detector.Reset()
	s.competitors = nil
	metrics.UpdateClockAccelerated(false)
	metrics.UpdateUserPoints(0)
	s.logger.Warn(ctx, "all data cleared")
	return nil
}

// GetStats returns a summary of the scheduler state.
func (s *Service) GetStats(ctx context.Context) (types.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	st := types.Stats{
		Now:         now,
		Accelerated: s.clock.Enabled(),
		DayKey:      clock.DayKey(now),
		WeekKey:     clock.WeekKey(now),
		Ticks:       s.ticks,
	}
	inst, err := s.repo.LoadInstall(ctx)
	if err != nil {
		return types.Stats{}, err
	}
	if inst != nil {
		st.InstallDate = &inst.InstallDate
	}
	if err := s.loadCompetitorsLocked(ctx); err != nil {
		return types.Stats{}, err
	}
	st.Competitors = len(s.competitors)
	u, err := s.repo.LoadUser(ctx)
	if err != nil {
		return types.Stats{}, err
	}
	st.UserPoints = u.TotalPoints
	st.Submissions = len(u.Submissions)
	t, err := s.lifecycle.Current(ctx)
	if err != nil {
		return types.Stats{}, err
	}
	st.WeeklyTaskState = string(weekly.StateOf(t))
	return st, nil
}

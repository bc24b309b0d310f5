// Package prompts draws the daily set of scored creative prompts and records
// the user's submission for the selected one.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/rivals/internal/domain/clock"
	"github.com/okian/rivals/internal/domain/model"
	"github.com/okian/rivals/internal/domain/random"
	"github.com/okian/rivals/pkg/logger"
	"github.com/okian/rivals/pkg/metrics"
)

// Store is the persistence the rotation needs.
type Store interface {
	LoadDailyPrompts(ctx context.Context) (*model.DailyPromptState, error)
	SaveDailyPrompts(ctx context.Context, st *model.DailyPromptState) error
	LoadUser(ctx context.Context) (*model.UserData, error)
	SaveUser(ctx context.Context, u *model.UserData) error
}

// Option applies a configuration option to the Rotation.
type Option func(*Rotation)

// WithRandom sets the source used to draw prompts.
func WithRandom(src random.Source) Option {
	return func(r *Rotation) {
		if src != nil {
			r.rng = src
		}
	}
}

// WithPools replaces the prompt pools. Empty pools are ignored.
func WithPools(pools []Pool) Option {
	return func(r *Rotation) {
		var kept []Pool
		for _, p := range pools {
			if len(p.Texts) > 0 {
				kept = append(kept, p)
			}
		}
		if len(kept) > 0 {
			r.pools = kept
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Rotation) {
		if l != nil {
			r.logger = l
		}
	}
}

// Rotation memoizes one prompt set per calendar day.
type Rotation struct {
	clock  clock.Clock
	store  Store
	rng    random.Source
	pools  []Pool
	logger logger.Logger
}

// New creates a Rotation.
func New(c clock.Clock, store Store, opts ...Option) *Rotation {
	r := &Rotation{
		clock: c,
		store: store,
		pools: DefaultPools(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		r.rng = random.New(0)
	}
	if r.logger == nil {
		r.logger = logger.Named("prompts")
	}
	return r
}

// LoadOrRotate returns today's prompt set, drawing and persisting a fresh one
// when none is stored or the stored one belongs to an earlier day.
func (r *Rotation) LoadOrRotate(ctx context.Context) (*model.DailyPromptState, error) {
	now := r.clock.Now()
	st, err := r.store.LoadDailyPrompts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}
	if st != nil && !clock.DateOnly(st.Date.In(now.Location())).Before(clock.DateOnly(now)) {
		return st, nil
	}

	fresh := &model.DailyPromptState{Prompts: r.draw(), Date: now}
	if err := r.store.SaveDailyPrompts(ctx, fresh); err != nil {
		return nil, fmt.Errorf("save prompts: %w", err)
	}
	metrics.RecordPromptRotation()
	r.logger.Info(ctx, "daily prompts rotated", logger.String("day", clock.DayKey(now)))
	return fresh, nil
}

func (r *Rotation) draw() []model.Prompt {
	out := make([]model.Prompt, len(r.pools))
	for i, p := range r.pools {
		out[i] = model.Prompt{Text: p.Texts[random.Intn(r.rng, len(p.Texts))], Points: p.Points}
	}
	return out
}

// Select marks index as today's chosen prompt.
func (r *Rotation) Select(ctx context.Context, index int) (*model.DailyPromptState, error) {
	st, err := r.LoadOrRotate(ctx)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(st.Prompts) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, index)
	}

	st.SelectedPromptIndex = &index
	if err := r.store.SaveDailyPrompts(ctx, st); err != nil {
		return nil, fmt.Errorf("save prompts: %w", err)
	}
	return st, nil
}

// Submit records the user's work for today's selected prompt and credits
// its points.
func (r *Rotation) Submit(ctx context.Context, text string, attachments []string) (model.Submission, error) {
	text = strings.TrimSpace(text)
	if text == "" && len(attachments) == 0 {
		return model.Submission{}, ErrEmptySubmission
	}

	st, err := r.LoadOrRotate(ctx)
	if err != nil {
		return model.Submission{}, err
	}
	if st.SelectedPromptIndex == nil {
		return model.Submission{}, ErrNoSelection
	}
	idx := *st.SelectedPromptIndex
	if idx < 0 || idx >= len(st.Prompts) {
		return model.Submission{}, fmt.Errorf("%w: %d", ErrInvalidIndex, idx)
	}

	now := r.clock.Now()
	day := clock.DayKey(now)
	u, err := r.store.LoadUser(ctx)
	if err != nil {
		return model.Submission{}, fmt.Errorf("load user: %w", err)
	}
	if submittedOn(u, day, idx) {
		return model.Submission{}, ErrAlreadySubmitted
	}

	sub := model.Submission{
		ID:          uuid.NewString(),
		Text:        text,
		Points:      st.Prompts[idx].Points,
		Date:        now,
		PromptIndex: idx,
		DayKey:      day,
		Attachments: attachments,
	}
	u.Append(sub)
	if err := r.store.SaveUser(ctx, u); err != nil {
		return model.Submission{}, fmt.Errorf("save user: %w", err)
	}

	metrics.RecordSubmission("prompt")
	metrics.UpdateUserPoints(u.TotalPoints)
	r.logger.Info(ctx, "prompt submitted",
		logger.String("day", day),
		logger.Int("index", idx),
		logger.Int("points", sub.Points),
	)
	return sub, nil
}

// SubmittedToday returns the prompt indexes already submitted today.
func (r *Rotation) SubmittedToday(ctx context.Context) ([]int, error) {
	u, err := r.store.LoadUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	day := clock.DayKey(r.clock.Now())
	var out []int
	for _, s := range u.Submissions {
		if !s.IsWeekly() && s.DayKey == day {
			out = append(out, s.PromptIndex)
		}
	}
	return out, nil
}

// submittedOn is the day-key check: one submission per prompt index per day.
func submittedOn(u *model.UserData, day string, idx int) bool {
	for _, s := range u.Submissions {
		if s.PromptIndex == idx && s.DayKey == day {
			return true
		}
	}
	return false
}

// Package weekly manages the single user-defined task of the current
// Monday-anchored week: absent, in progress, completed.
package weekly

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/rivals/internal/domain/clock"
	"github.com/okian/rivals/internal/domain/model"
	"github.com/okian/rivals/pkg/logger"
	"github.com/okian/rivals/pkg/metrics"
)

// Point bounds for a weekly task.
const (
	MinPoints = 1
	MaxPoints = 15
)

// State of the current week's task.
type State string

const (
	StateAbsent     State = "absent"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// StateOf derives the state of t; nil is absent.
func StateOf(t *model.WeeklyTask) State {
	switch {
	case t == nil:
		return StateAbsent
	case t.IsCompleted():
		return StateCompleted
	default:
		return StateInProgress
	}
}

// Store is the persistence the lifecycle needs.
type Store interface {
	LoadWeeklyTask(ctx context.Context) (*model.WeeklyTask, error)
	SaveWeeklyTask(ctx context.Context, t *model.WeeklyTask) error
	DeleteWeeklyTask(ctx context.Context) error
	LoadUser(ctx context.Context) (*model.UserData, error)
	SaveUser(ctx context.Context, u *model.UserData) error
}

// Option applies a configuration option to the Lifecycle.
type Option func(*Lifecycle)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(lc *Lifecycle) {
		if l != nil {
			lc.logger = l
		}
	}
}

// Lifecycle drives the weekly task state machine.
type Lifecycle struct {
	clock  clock.Clock
	store  Store
	logger logger.Logger
}

// New creates a Lifecycle.
func New(c clock.Clock, store Store, opts ...Option) *Lifecycle {
	lc := &Lifecycle{clock: c, store: store}
	for _, opt := range opts {
		opt(lc)
	}
	if lc.logger == nil {
		lc.logger = logger.Named("weekly")
	}
	return lc
}

// ClampPoints limits p to [MinPoints, MaxPoints].
func ClampPoints(p int) int {
	return min(max(p, MinPoints), MaxPoints)
}

// Current returns this week's task, or nil. A task stored for another week
// is left in storage but reported as absent.
func (lc *Lifecycle) Current(ctx context.Context) (*model.WeeklyTask, error) {
	t, err := lc.store.LoadWeeklyTask(ctx)
	if err != nil {
		return nil, fmt.Errorf("load weekly task: %w", err)
	}
	if t == nil || t.WeekKey != clock.WeekKey(lc.clock.Now()) {
		return nil, nil
	}
	return t, nil
}

// Create starts this week's task and logs a zero-point placeholder for it.
func (lc *Lifecycle) Create(ctx context.Context, text string, points int) (*model.WeeklyTask, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyTaskText
	}
	cur, err := lc.Current(ctx)
	if err != nil {
		return nil, err
	}
	if cur != nil {
		return nil, ErrTaskExists
	}

	now := lc.clock.Now()
	t := &model.WeeklyTask{
		ID:          uuid.NewString(),
		TaskText:    text,
		Points:      ClampPoints(points),
		CreatedDate: now,
		WeekKey:     clock.WeekKey(now),
	}
	u, err := lc.store.LoadUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := lc.store.SaveWeeklyTask(ctx, t); err != nil {
		return nil, fmt.Errorf("save weekly task: %w", err)
	}
	u.Append(model.Submission{
		ID:          t.ID,
		Text:        t.TaskText,
		Date:        now,
		PromptIndex: model.WeeklyPromptIndex,
		WeekKey:     t.WeekKey,
	})
	if err := lc.store.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	metrics.RecordWeeklyTransition("created")
	lc.logger.Info(ctx, "weekly task created",
		logger.String("week", t.WeekKey),
		logger.Int("points", t.Points),
	)
	return t, nil
}

// Complete finishes this week's task, replacing its placeholder entry with
// the full-point one.
func (lc *Lifecycle) Complete(ctx context.Context, text string, attachments []string) (*model.WeeklyTask, error) {
	text = strings.TrimSpace(text)
	if text == "" && len(attachments) == 0 {
		return nil, ErrEmptyCompletion
	}
	t, err := lc.Current(ctx)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNoActiveTask
	}
	if t.IsCompleted() {
		return nil, ErrAlreadyCompleted
	}

	u, err := lc.store.LoadUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	now := lc.clock.Now()
	entry := model.Submission{
		ID:          t.ID,
		Text:        text,
		Points:      t.Points,
		Date:        now,
		PromptIndex: model.WeeklyPromptIndex,
		WeekKey:     t.WeekKey,
		Attachments: attachments,
	}
	if !u.Replace(entry) {
		u.Append(entry)
	}
	// Points are credited before the task is marked completed: a retry after a
	// failed task save replaces the entry again with no change to the total.
	if err := lc.store.SaveUser(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	t.CompletionText = &text
	t.CompletedDate = &now
	if err := lc.store.SaveWeeklyTask(ctx, t); err != nil {
		return nil, fmt.Errorf("save weekly task: %w", err)
	}

	metrics.RecordWeeklyTransition("completed")
	metrics.RecordSubmission("weekly")
	metrics.UpdateUserPoints(u.TotalPoints)
	lc.logger.Info(ctx, "weekly task completed",
		logger.String("week", t.WeekKey),
		logger.Int("points", t.Points),
	)
	return t, nil
}

// Delete removes this week's task and its log entry, reversing the points
// if it was completed.
func (lc *Lifecycle) Delete(ctx context.Context) error {
	t, err := lc.Current(ctx)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrNoActiveTask
	}

	u, err := lc.store.LoadUser(ctx)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	// The reversal is the task's value, whatever the log entry carries.
	_, found := u.Drop(t.ID)
	if t.IsCompleted() {
		u.Debit(t.Points)
	}
	if found || t.IsCompleted() {
		if err := lc.store.SaveUser(ctx, u); err != nil {
			return fmt.Errorf("save user: %w", err)
		}
	}
	if err := lc.store.DeleteWeeklyTask(ctx); err != nil {
		return fmt.Errorf("delete weekly task: %w", err)
	}

	metrics.RecordWeeklyTransition("deleted")
	metrics.UpdateUserPoints(u.TotalPoints)
	lc.logger.Info(ctx, "weekly task deleted",
		logger.String("week", t.WeekKey),
		logger.Bool("was_completed", t.IsCompleted()),
	)
	return nil
}

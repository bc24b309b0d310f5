// Package repository maps the domain entities onto JSON blobs in a kv.Store.
//
// A blob that cannot be decoded is reported as absent (and logged), so the
// callers fall back to their default or regeneration paths instead of failing.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/rivals/internal/adapters/kv"
	"github.com/okian/rivals/internal/domain/model"
	"github.com/okian/rivals/pkg/logger"
	"github.com/okian/rivals/pkg/metrics"
)

// Option applies a configuration option to the Repository.
type Option func(*Repository)

// WithLogger sets the logger used for decode warnings.
func WithLogger(l logger.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// Repository reads and writes the core keys.
type Repository struct {
	store  kv.Store
	logger logger.Logger
}

// New creates a Repository over store.
func New(store kv.Store, opts ...Option) *Repository {
	r := &Repository{store: store}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Named("repository")
	}
	return r
}

// load decodes key into dst. It returns false when the key is absent or malformed.
func (r *Repository) load(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		metrics.RecordMalformedBlob(key)
		r.logger.Warn(ctx, "discarding malformed record", logger.String("key", key), logger.Error(err))
		return false, nil
	}
	return true, nil
}

func (r *Repository) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncode, key, err)
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (r *Repository) remove(ctx context.Context, key string) error {
	if err := r.store.Remove(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// LoadCompetitors returns the stored roster, or nil when none is stored.
func (r *Repository) LoadCompetitors(ctx context.Context) ([]model.Competitor, error) {
	var list []model.Competitor
	ok, err := r.load(ctx, kv.KeyCompetitors, &list)
	if err != nil || !ok {
		return nil, err
	}
	return list, nil
}

// SaveCompetitors writes the whole roster as one value, in roster order.
func (r *Repository) SaveCompetitors(ctx context.Context, list []model.Competitor) error {
	return r.save(ctx, kv.KeyCompetitors, list)
}

// LoadInstall returns the install record, or nil when none is stored.
func (r *Repository) LoadInstall(ctx context.Context) (*model.InstallRecord, error) {
	var ts time.Time
	ok, err := r.load(ctx, kv.KeyInstallDate, &ts)
	if err != nil || !ok {
		return nil, err
	}
	return &model.InstallRecord{InstallDate: ts}, nil
}

// SaveInstall persists the install date as a bare RFC 3339 string.
func (r *Repository) SaveInstall(ctx context.Context, rec model.InstallRecord) error {
	return r.save(ctx, kv.KeyInstallDate, rec.InstallDate)
}

// LoadUser returns the user data, or a fresh zero-point user when none is stored.
func (r *Repository) LoadUser(ctx context.Context) (*model.UserData, error) {
	var u model.UserData
	ok, err := r.load(ctx, kv.KeyUserData, &u)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &model.UserData{Name: "You", Submissions: []model.Submission{}}, nil
	}
	if u.Submissions == nil {
		u.Submissions = []model.Submission{}
	}
	return &u, nil
}

// SaveUser persists the user data.
func (r *Repository) SaveUser(ctx context.Context, u *model.UserData) error {
	return r.save(ctx, kv.KeyUserData, u)
}

// LoadDailyPrompts returns the stored prompt set, or nil when none is stored.
func (r *Repository) LoadDailyPrompts(ctx context.Context) (*model.DailyPromptState, error) {
	var st model.DailyPromptState
	ok, err := r.load(ctx, kv.KeyDailyPrompts, &st)
	if err != nil || !ok {
		return nil, err
	}
	return &st, nil
}

// SaveDailyPrompts persists the prompt set.
func (r *Repository) SaveDailyPrompts(ctx context.Context, st *model.DailyPromptState) error {
	return r.save(ctx, kv.KeyDailyPrompts, st)
}

// LoadWeeklyTask returns the stored task regardless of its week, or nil.
func (r *Repository) LoadWeeklyTask(ctx context.Context) (*model.WeeklyTask, error) {
	var t model.WeeklyTask
	ok, err := r.load(ctx, kv.KeyWeeklyTask, &t)
	if err != nil || !ok {
		return nil, err
	}
	return &t, nil
}

// SaveWeeklyTask persists the task, replacing any previous one.
func (r *Repository) SaveWeeklyTask(ctx context.Context, t *model.WeeklyTask) error {
	return r.save(ctx, kv.KeyWeeklyTask, t)
}

// DeleteWeeklyTask removes the persisted task.
func (r *Repository) DeleteWeeklyTask(ctx context.Context) error {
	return r.remove(ctx, kv.KeyWeeklyTask)
}

// Clear removes every core key. It stops at the first failure.
func (r *Repository) Clear(ctx context.Context) error {
	for _, key := range kv.AllKeys {
		if err := r.remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

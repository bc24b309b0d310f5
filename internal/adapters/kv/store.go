// Package kv defines the key-value blob store consumed by the scheduler and
// its backends (memory, SQLite, Postgres).
package kv

import "context"

// Keys used by the core.
const (
	KeyUserData     = "user_data"
	KeyCompetitors  = "competitors_data"
	KeyDailyPrompts = "daily_prompts_data"
	KeyWeeklyTask   = "weekly_task_data"
	KeyInstallDate  = "install_date"
)

// AllKeys lists every key owned by the core, in the order ClearData removes them.
var AllKeys = []string{KeyUserData, KeyCompetitors, KeyDailyPrompts, KeyWeeklyTask, KeyInstallDate}

// Store reads and writes opaque values by key. A Set replaces the whole value.
type Store interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, last write wins.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

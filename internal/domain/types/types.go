// Package types contains read shapes shared by the service and the HTTP layer.
package types

import (
	"time"

	"github.com/okian/rivals/internal/domain/model"
)

// Entry represents a leaderboard row.
type Entry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Points int    `json:"points"`
	IsUser bool   `json:"is_user,omitempty"`
}

// Stats is a summary of the scheduler state.
type Stats struct {
	Now             time.Time  `json:"now"`
	Accelerated     bool       `json:"accelerated"`
	DayKey          string     `json:"day_key"`
	WeekKey         string     `json:"week_key"`
	InstallDate     *time.Time `json:"install_date,omitempty"`
	Competitors     int        `json:"competitors"`
	UserPoints      int        `json:"user_points"`
	Submissions     int        `json:"submissions"`
	WeeklyTaskState string     `json:"weekly_task_state"`
	Ticks           uint64     `json:"ticks"`
}

// PromptsView is today's prompt set plus the indexes already submitted.
type PromptsView struct {
	State     *model.DailyPromptState `json:"state"`
	Submitted []int                   `json:"submitted"`
}

// WeeklyView is the current week's task and its state.
type WeeklyView struct {
	WeekKey string            `json:"week_key"`
	State   string            `json:"state"`
	Task    *model.WeeklyTask `json:"task,omitempty"`
}

// Profile is the user's data with their leaderboard row.
type Profile struct {
	User  *model.UserData `json:"user"`
	Entry Entry           `json:"entry"`
}

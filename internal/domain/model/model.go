// Package model contains the persisted domain entities. Every type here is
// stored as a JSON blob under its own key; dates serialize as RFC 3339 instants.
package model

import "time"

// Competitor is a simulated leaderboard rival.
type Competitor struct {
	Name             string     `json:"name"`
	AvatarRef        string     `json:"avatar"`
	Points           int        `json:"points"`
	DailyProbability float64    `json:"dailyProbability"`
	LastUpdate       *time.Time `json:"lastUpdate,omitempty"`
}

// InstallRecord remembers the first launch.
type InstallRecord struct {
	InstallDate time.Time `json:"installDate"`
}

// Prompt is one scored creative prompt.
type Prompt struct {
	Text   string `json:"text"`
	Points int    `json:"points"`
}

// DailyPromptState is the prompt set drawn for one day.
type DailyPromptState struct {
	Prompts             []Prompt  `json:"prompts"`
	Date                time.Time `json:"date"`
	SelectedPromptIndex *int      `json:"selectedPromptIndex,omitempty"`
}

// WeeklyTask is the single user-defined task of a Monday-anchored week.
type WeeklyTask struct {
	ID             string     `json:"id"`
	TaskText       string     `json:"taskText"`
	Points         int        `json:"points"`
	CreatedDate    time.Time  `json:"createdDate"`
	WeekKey        string     `json:"weekKey"`
	CompletionText *string    `json:"completionText,omitempty"`
	CompletedDate  *time.Time `json:"completedDate,omitempty"`
}

// IsCompleted reports whether the task carries both completion fields.
func (t *WeeklyTask) IsCompleted() bool {
	return t.CompletionText != nil && t.CompletedDate != nil
}

// WeeklyPromptIndex marks a submission that belongs to the weekly task.
const WeeklyPromptIndex = -1

// Submission is one entry of the user's append-only log.
type Submission struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	Points      int       `json:"points"`
	Date        time.Time `json:"date"`
	PromptIndex int       `json:"promptIndex"`
	DayKey      string    `json:"dayKey,omitempty"`
	WeekKey     string    `json:"weekKey,omitempty"`
	Attachments []string  `json:"attachments,omitempty"`
}

// IsWeekly reports whether s was produced by the weekly task.
func (s Submission) IsWeekly() bool { return s.PromptIndex == WeeklyPromptIndex }

// UserData holds the user's running total and submission log.
type UserData struct {
	Name        string       `json:"name"`
	TotalPoints int          `json:"totalPoints"`
	Submissions []Submission `json:"submissions"`
}

// Append adds s to the log and credits its points.
func (u *UserData) Append(s Submission) {
	u.Submissions = append(u.Submissions, s)
	u.TotalPoints += s.Points
}

// Replace swaps the entry with s.ID in place, adjusting the total by the
// point difference. It reports whether an entry was found.
func (u *UserData) Replace(s Submission) bool {
	for i := range u.Submissions {
		if u.Submissions[i].ID == s.ID {
			u.TotalPoints += s.Points - u.Submissions[i].Points
			u.Submissions[i] = s
			return true
		}
	}
	return false
}

// Remove deletes the entry with id, debits its points and returns it.
// The total never drops below zero.
func (u *UserData) Remove(id string) (Submission, bool) {
	s, ok := u.Drop(id)
	if ok {
		u.Debit(s.Points)
	}
	return s, ok
}

// Drop deletes the entry with id without touching the total.
func (u *UserData) Drop(id string) (Submission, bool) {
	for i := range u.Submissions {
		if u.Submissions[i].ID == id {
			s := u.Submissions[i]
			u.Submissions = append(u.Submissions[:i], u.Submissions[i+1:]...)
			return s, true
		}
	}
	return Submission{}, false
}

// Debit subtracts points from the total, stopping at zero.
func (u *UserData) Debit(points int) {
	u.TotalPoints = max(u.TotalPoints-points, 0)
}

// Find returns the entry with id.
func (u *UserData) Find(id string) (Submission, bool) {
	for _, s := range u.Submissions {
		if s.ID == id {
			return s, true
		}
	}
	return Submission{}, false
}

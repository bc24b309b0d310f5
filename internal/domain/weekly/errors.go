package weekly

import "errors"

var (
	// ErrEmptyTaskText is returned when creating a task without text.
	ErrEmptyTaskText = errors.New("task text is empty")
	// ErrEmptyCompletion is returned when completing without text or attachments.
	ErrEmptyCompletion = errors.New("completion needs text or an attachment")
	// ErrTaskExists is returned when the current week already has a task.
	ErrTaskExists = errors.New("weekly task already exists")
	// ErrNoActiveTask is returned when the current week has no task.
	ErrNoActiveTask = errors.New("no weekly task this week")
	// ErrAlreadyCompleted is returned when completing a task twice.
	ErrAlreadyCompleted = errors.New("weekly task already completed")
)

package prompts

import "errors"

var (
	// ErrInvalidIndex is returned when a selection is outside today's prompt set.
	ErrInvalidIndex = errors.New("prompt index out of range")
	// ErrNoSelection is returned when submitting before a prompt is selected.
	ErrNoSelection = errors.New("no prompt selected today")
	// ErrAlreadySubmitted is returned for a second submission on the same day.
	ErrAlreadySubmitted = errors.New("prompt already submitted today")
	// ErrEmptySubmission is returned when neither text nor attachments are given.
	ErrEmptySubmission = errors.New("submission needs text or an attachment")
)

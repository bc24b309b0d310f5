package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/rivals/internal/domain/prompts"
	"github.com/okian/rivals/internal/domain/standings"
	"github.com/okian/rivals/internal/domain/weekly"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// Error carries the failing operation, its kind and the cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Kind != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is.
func (e *Error) Unwrap() []error {
	var out []error
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind returns an error of kind for op.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// Wrap attaches op to err and classifies it.
func Wrap(op string, err error) error {
	return &Error{Op: op, Kind: classify(err), Err: err}
}

// WrapKind attaches op and an explicit kind to err.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// classify maps domain errors onto API kinds. Unknown errors have no kind.
func classify(err error) error {
	switch {
	case errors.Is(err, weekly.ErrEmptyTaskText),
		errors.Is(err, weekly.ErrEmptyCompletion),
		errors.Is(err, prompts.ErrInvalidIndex),
		errors.Is(err, prompts.ErrNoSelection),
		errors.Is(err, prompts.ErrEmptySubmission),
		errors.Is(err, standings.ErrInvalidLimit):
		return ErrBadRequest
	case errors.Is(err, weekly.ErrNoActiveTask),
		errors.Is(err, standings.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, weekly.ErrTaskExists),
		errors.Is(err, weekly.ErrAlreadyCompleted),
		errors.Is(err, prompts.ErrAlreadySubmitted):
		return ErrConflict
	default:
		return nil
	}
}

// statusFor returns the HTTP status and error code for err.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

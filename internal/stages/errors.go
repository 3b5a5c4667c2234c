package stages

import (
	"context"
	"errors"
	"fmt"

	"alfredoptarigan/talent-scout/internal/services"
)

// Failure kinds. A *StageError matches exactly one of them with errors.Is.
var (
	ErrTimeout           = errors.New("timeout")
	ErrMalformedResponse = errors.New("malformed response")
	ErrUpstreamFailure   = errors.New("upstream failure")
	ErrLoadFailure       = errors.New("load failure")
)

// StageError is a stage failure tagged with the stage name and failure kind.
type StageError struct {
	Stage Name
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Fail builds a *StageError of the given kind.
func Fail(stage Name, kind, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}

// Malformed is shorthand for a MalformedResponse failure.
func Malformed(stage Name, format string, args ...any) *StageError {
	return Fail(stage, ErrMalformedResponse, fmt.Errorf(format, args...))
}

// FailedStage returns the name of the stage err originated from.
func FailedStage(err error) (Name, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// classify maps an Evaluator error onto a failure kind.
func classify(stage Name, err error) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Fail(stage, ErrTimeout, err)
	case errors.Is(err, services.ErrEmptyResponse):
		return Fail(stage, ErrMalformedResponse, err)
	default:
		return Fail(stage, ErrUpstreamFailure, err)
	}
}

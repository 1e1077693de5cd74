package jobclient

import (
	"context"
	"errors"
)

// FailureMessage is what end users see for a submission failure, a remote
// failure or a timeout.
const FailureMessage = "AI request failed"

var (
	ErrSubmissionFailed = errors.New("pipeline runner returned no run id")
	ErrRemoteFailure    = errors.New("pipeline run failed")
	ErrTimeout          = errors.New("pipeline run did not finish within the poll budget")
	ErrTransport        = errors.New("pipeline runner unreachable")
)

// IsFailure reports whether err is one of the kinds collapsed into
// FailureMessage for end users. Transport errors are not.
func IsFailure(err error) bool {
	return errors.Is(err, ErrSubmissionFailed) ||
		errors.Is(err, ErrRemoteFailure) ||
		errors.Is(err, ErrTimeout)
}

// Kind returns a short label for err, used for metrics and history.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrSubmissionFailed):
		return "submission_failed"
	case errors.Is(err, ErrRemoteFailure):
		return "remote_failure"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

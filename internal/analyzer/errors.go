package analyzer

import (
	"errors"
	"fmt"

	"github.com/getmarco/medtextanalyze/internal/models"
)

var (
	// ErrInterrupted reports that the polling wait was cancelled before the
	// detection job reached a terminal status.
	ErrInterrupted = errors.New("text detection wait interrupted")

	// ErrJobTimeout reports that the detection job exhausted the configured
	// wait budget while still in progress.
	ErrJobTimeout = errors.New("text detection job timed out")
)

// RemoteError wraps a failure returned by one of the remote detection or
// classification services. It is never retried locally.
type RemoteError struct {
	Service string
	Op      string
	Err     error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Service, e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// JobFailedError reports a detection job that reached a terminal status
// other than SUCCEEDED.
type JobFailedError struct {
	JobID  string
	Status models.JobStatus
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("text detection job %s finished with status %s", e.JobID, e.Status)
}

// MalformedEntityError reports a classification result missing a field that
// category matching depends on.
type MalformedEntityError struct {
	Index  int
	Reason string
}

func (e *MalformedEntityError) Error() string {
	return fmt.Sprintf("malformed entity at index %d: %s", e.Index, e.Reason)
}

package batch

import (
	"fmt"

	"github.com/google/uuid"
)

// Status classifies where a job is in its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Job tracks one unit of batch work corresponding to one input source.
// Jobs run strictly one at a time, so a Job is never shared across
// goroutines.
type Job struct {
	ID        string
	Source    string
	AudioPath string
	BaseName  string
	Status    Status
	Err       string
}

// NewJob creates a pending job for one source.
func NewJob(source string) *Job {
	return &Job{
		ID:     uuid.NewString(),
		Source: source,
		Status: StatusPending,
	}
}

// Transition validates and applies a status change. Terminal states are
// final: succeeded and failed jobs never transition again.
func (j *Job) Transition(to Status) error {
	if to == j.Status {
		return nil
	}
	if !isValidTransition(j.Status, to) {
		return fmt.Errorf("invalid transition: %s -> %s", j.Status, to)
	}
	j.Status = to
	return nil
}

// Fail marks the job failed and records the failure description.
func (j *Job) Fail(message string) error {
	if err := j.Transition(StatusFailed); err != nil {
		return err
	}
	j.Err = message
	return nil
}

// isValidTransition enforces the allowed job state machine edges.
func isValidTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusRunning
	case StatusRunning:
		return to == StatusSucceeded || to == StatusFailed
	default:
		return false
	}
}

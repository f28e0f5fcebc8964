package tracker

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spigell/job-tracker/internal/jobs"
)

var (
	ErrUnknownStatus     = errors.New("unknown application status")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// transitions lists the allowed next states. Rejected and offer are terminal.
var transitions = map[jobs.Status][]jobs.Status{
	jobs.StatusSubmitted:    {jobs.StatusInterviewing, jobs.StatusRejected, jobs.StatusOffer},
	jobs.StatusInterviewing: {jobs.StatusRejected, jobs.StatusOffer},
	jobs.StatusRejected:     {},
	jobs.StatusOffer:        {},
}

// Statuses returns every known status in lifecycle order.
func Statuses() []jobs.Status {
	return []jobs.Status{jobs.StatusSubmitted, jobs.StatusInterviewing, jobs.StatusRejected, jobs.StatusOffer}
}

// ParseStatus maps user input onto the closed set of statuses.
func ParseStatus(s string) (jobs.Status, error) {
	status := jobs.Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transitions[status]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return status, nil
}

// IsKnownStatus reports whether status belongs to the closed set. Record
// files may carry other values written by older tooling.
func IsKnownStatus(status jobs.Status) bool {
	_, ok := transitions[status]
	return ok
}

// CanTransition reports whether an application may move from one status to
// another. Staying in the same status is always allowed.
func CanTransition(from, to jobs.Status) bool {
	if from == to {
		return true
	}
	return slices.Contains(transitions[from], to)
}

// IsTerminal reports whether no further transition is possible.
func IsTerminal(status jobs.Status) bool {
	next, ok := transitions[status]
	return ok && len(next) == 0
}

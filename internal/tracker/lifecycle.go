package tracker

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/spigell/job-tracker/internal/jobs"
)

const (
	DefaultFollowUpDays = 7
	DefaultMethod       = "X Jobs Form"

	SetPending = "pending"
	SetApplied = "applied"
)

var (
	ErrNotFound       = errors.New("job not found")
	ErrAlreadyApplied = errors.New("job already applied")
)

// NotFoundError names the job id and the record set it was missing from.
type NotFoundError struct {
	JobID string
	Set   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("job %q not found in %s jobs", e.JobID, e.Set)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// State is the loaded content of both record sets.
type State struct {
	Pending *jobs.PendingSet
	Applied *jobs.AppliedSet
}

// NewState returns empty record sets.
func NewState() *State {
	return &State{
		Pending: &jobs.PendingSet{Jobs: []*jobs.Record{}},
		Applied: &jobs.AppliedSet{Jobs: []*jobs.Application{}},
	}
}

func (s *State) normalize() {
	if s.Pending == nil {
		s.Pending = &jobs.PendingSet{}
	}
	if s.Applied == nil {
		s.Applied = &jobs.AppliedSet{}
	}
}

// ApplicationData holds the optional inputs of record-application.
// Zero values fall back to the defaults.
type ApplicationData struct {
	AppliedAt    time.Time
	Method       string
	Status       jobs.Status
	Notes        string
	FollowUpDays int
}

// FollowUpDate returns the follow-up day for an application, at midnight UTC.
func FollowUpDate(appliedAt time.Time, days int) time.Time {
	return midnight(appliedAt.AddDate(0, 0, days))
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RecordApplication moves the pending job with the given id to the applied
// set. Nothing is modified when an error is returned.
func RecordApplication(state *State, id string, data ApplicationData, now time.Time) (*jobs.Application, error) {
	state.normalize()

	idx := state.Pending.IndexOf(id)
	if idx == -1 {
		return nil, &NotFoundError{JobID: id, Set: SetPending}
	}
	if jobs.Comparable(id) && state.Applied.FindByID(id) != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyApplied, id)
	}

	status := data.Status
	if status == "" {
		status = jobs.StatusSubmitted
	}
	if _, ok := transitions[status]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	appliedAt := data.AppliedAt
	if appliedAt.IsZero() {
		appliedAt = now
	}
	method := data.Method
	if method == "" {
		method = DefaultMethod
	}
	days := data.FollowUpDays
	if days <= 0 {
		days = DefaultFollowUpDays
	}

	app := &jobs.Application{
		Record:            *state.Pending.Jobs[idx],
		AppliedAt:         appliedAt.UTC(),
		ApplicationMethod: method,
		Status:            status,
		FollowUpDate:      FollowUpDate(appliedAt, days),
		Notes:             data.Notes,
	}
	app.Ref = ""
	app.MatchedRef = ""
	app.NeedsClickThrough = false

	now = now.UTC()

	// Remove first, then append.
	state.Pending.Jobs = slices.Delete(slices.Clone(state.Pending.Jobs), idx, idx+1)
	state.Pending.UpdatedAt = now

	state.Applied.Jobs = append(slices.Clone(state.Applied.Jobs), app)
	state.Applied.UpdatedAt = now

	return app, nil
}

// StatusUpdate holds the inputs of update-status. Empty fields are left alone.
type StatusUpdate struct {
	Status        jobs.Status
	Notes         string
	Response      *string
	InterviewDate string
	// Force accepts a transition outside the table.
	Force bool
}

// UpdateStatus changes the status of an applied job and appends notes.
// Nothing is modified when an error is returned.
func UpdateStatus(state *State, id string, update StatusUpdate, now time.Time) (*jobs.Application, error) {
	state.normalize()

	app := state.Applied.FindByID(id)
	if app == nil {
		return nil, &NotFoundError{JobID: id, Set: SetApplied}
	}

	if _, ok := transitions[update.Status]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, update.Status)
	}
	if !update.Force && !CanTransition(app.Status, update.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, app.Status, update.Status)
	}

	now = now.UTC()

	app.Status = update.Status
	if update.Notes != "" {
		if app.Notes == "" {
			app.Notes = update.Notes
		} else {
			app.Notes += "\n" + update.Notes
		}
	}
	if update.Response != nil {
		response := *update.Response
		app.Response = &response
	}
	if update.InterviewDate != "" {
		app.InterviewDate = update.InterviewDate
	}
	app.UpdatedAt = &now
	state.Applied.UpdatedAt = now

	return app, nil
}

// DueFollowUps returns submitted applications whose follow-up day is today or earlier.
func DueFollowUps(applied *jobs.AppliedSet, today time.Time) []*jobs.Application {
	due := make([]*jobs.Application, 0)
	if applied == nil {
		return due
	}

	day := midnight(today)
	for _, app := range applied.Jobs {
		if app.Status != jobs.StatusSubmitted || app.FollowUpDate.IsZero() {
			continue
		}
		if !midnight(app.FollowUpDate).After(day) {
			due = append(due, app)
		}
	}

	return due
}

package jobs

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// TempIDPrefix marks a job id assigned before the stable one is known.
	TempIDPrefix = "temp_"
	// DefaultURLBase is the prefix of canonical job URLs.
	DefaultURLBase = "https://x.com/jobs/"

	tempSuffixLength = 9
)

// Record is a discovered or pending job posting.
type Record struct {
	JobID        string    `json:"job_id"`
	DiscoveredAt time.Time `json:"discovered_at"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	URL          string    `json:"url"`
	Location     string    `json:"location"`
	SalaryRange  string    `json:"salary_range,omitempty"`
	// Ref is the snapshot handle of the listing the record was parsed from.
	Ref string `json:"ref,omitempty"`

	MatchedRef        string `json:"_matched_ref,omitempty"`
	NeedsClickThrough bool   `json:"_needs_click_through,omitempty"`
}

// Status is the state of a submitted application.
type Status string

const (
	StatusSubmitted    Status = "submitted"
	StatusInterviewing Status = "interviewing"
	StatusRejected     Status = "rejected"
	StatusOffer        Status = "offer"
)

// Application is a job the user applied to.
type Application struct {
	Record

	AppliedAt         time.Time  `json:"applied_at"`
	ApplicationMethod string     `json:"application_method"`
	Status            Status     `json:"status"`
	FollowUpDate      time.Time  `json:"follow_up_date"`
	Notes             string     `json:"notes"`
	Response          *string    `json:"response"`
	InterviewDate     string     `json:"interview_date,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

// PendingSet is the content of pending_jobs.json.
type PendingSet struct {
	Jobs      []*Record `json:"jobs"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppliedSet is the content of applied_jobs.json.
type AppliedSet struct {
	Jobs      []*Application `json:"jobs"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// IsTemporaryID reports whether id was synthesized during discovery.
func IsTemporaryID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// Comparable reports whether id can be matched against other ids.
// Empty and temporary ids never equal anything, themselves included.
func Comparable(id string) bool {
	return id != "" && !IsTemporaryID(id)
}

// SameID reports whether two ids denote the same posting.
func SameID(a, b string) bool {
	return Comparable(a) && Comparable(b) && a == b
}

// NewTemporaryID returns temp_<unix millis>_<random>.
func NewTemporaryID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:tempSuffixLength]
	return fmt.Sprintf("%s%d_%s", TempIDPrefix, now.UnixMilli(), suffix)
}

// PlaceholderURL builds a job URL from base and id.
func PlaceholderURL(base, id string) string {
	if base == "" {
		base = DefaultURLBase
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + id
}

func (p *PendingSet) Len() int {
	return len(p.Jobs)
}

// IndexOf returns the position of the job with the given id or -1.
func (p *PendingSet) IndexOf(id string) int {
	for idx, job := range p.Jobs {
		if job.JobID == id {
			return idx
		}
	}
	return -1
}

func (p *PendingSet) FindByID(id string) *Record {
	if idx := p.IndexOf(id); idx != -1 {
		return p.Jobs[idx]
	}
	return nil
}

func (a *AppliedSet) Len() int {
	return len(a.Jobs)
}

func (a *AppliedSet) FindByID(id string) *Application {
	for _, job := range a.Jobs {
		if job.JobID == id {
			return job
		}
	}
	return nil
}

// Records returns the embedded job records of every application.
func (a *AppliedSet) Records() []*Record {
	records := make([]*Record, 0, len(a.Jobs))
	for _, job := range a.Jobs {
		records = append(records, &job.Record)
	}
	return records
}

// IDs returns job ids in set order.
func IDs(records []*Record) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.JobID)
	}
	return ids
}

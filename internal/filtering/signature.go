package filtering

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/jobs"
)

// Signature is the normalized company|title pair of a record.
func Signature(r *jobs.Record) string {
	return strings.TrimSpace(strings.ToLower(r.Company)) + "|" + strings.TrimSpace(strings.ToLower(r.Title))
}

// ExcludeBySignature drops records whose signature occurs in history, which
// catches postings relisted under a new id.
func ExcludeBySignature(records, history []*jobs.Record) (kept []*jobs.Record, removed []string) {
	signatures := make(map[string]struct{}, len(history))
	for _, h := range history {
		signatures[Signature(h)] = struct{}{}
	}

	kept = make([]*jobs.Record, 0, len(records))
	for _, r := range records {
		if _, ok := signatures[Signature(r)]; ok {
			removed = append(removed, r.JobID)
			continue
		}
		kept = append(kept, r)
	}

	return kept, removed
}

type signatureFilter struct {
	name    string
	enabled bool
	reason  string
	history func() []*jobs.Record
	logger  *zap.Logger
}

// NewAppliedSignature creates the fuzzy company and title filter. It must be
// placed after the id based filters.
func NewAppliedSignature(deps *AppliedHistoryDeps) Filter {
	return newSignatureFilter("applied_signature", deps)
}

// NewPendingSignature drops jobs whose company and title are already pending.
// Freshly walked jobs carry temporary ids, so this is what stops a snapshot
// from being added twice.
func NewPendingSignature(deps *AppliedHistoryDeps) Filter {
	return newSignatureFilter("pending_signature", deps)
}

func newSignatureFilter(name string, deps *AppliedHistoryDeps) *signatureFilter {
	f := &signatureFilter{name: name, enabled: true}
	if deps != nil {
		f.history = deps.History
		f.logger = deps.Logger
	}
	return f
}

func (f *signatureFilter) Name() string { return f.name }

func (f *signatureFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *signatureFilter) IsEnabled() bool { return f.enabled }

func (f *signatureFilter) Validate() error {
	if f.history == nil {
		return fmt.Errorf("job history is required")
	}
	if f.logger == nil {
		return fmt.Errorf("logger is required")
	}
	return nil
}

func (f *signatureFilter) Apply(_ context.Context, records []*jobs.Record) ([]*jobs.Record, Step, error) {
	initial := len(records)

	kept, removed := ExcludeBySignature(records, f.history())
	if len(removed) > 0 {
		f.logger.Info("fuzzy filtering removed potential duplicates",
			zap.String("name", f.name),
			zap.Strings("excluded_jobs", removed),
			zap.Int("jobs_left", len(kept)),
		)
	}

	return kept, Step{Initial: initial, Dropped: len(removed), Left: len(kept)}, nil
}

func (f *signatureFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason}
}

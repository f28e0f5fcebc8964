package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/jobs"
)

const forceFlagSetMsg = "force flag is set"

// ExcludeByID keeps the records whose id is absent from history. It also
// returns the removed ids and the ids that occur more than once among the
// kept records. Duplicates are kept.
func ExcludeByID(records, history []*jobs.Record) (kept []*jobs.Record, removed []string, duplicates []string) {
	known := make(map[string]struct{}, len(history))
	for _, h := range history {
		if jobs.Comparable(h.JobID) {
			known[h.JobID] = struct{}{}
		}
	}

	kept = make([]*jobs.Record, 0, len(records))
	for _, r := range records {
		if _, ok := known[r.JobID]; ok {
			removed = append(removed, r.JobID)
			continue
		}
		kept = append(kept, r)
	}

	counts := make(map[string]int, len(kept))
	for _, r := range kept {
		if !jobs.Comparable(r.JobID) {
			continue
		}
		counts[r.JobID]++
		if counts[r.JobID] == 2 {
			duplicates = append(duplicates, r.JobID)
		}
	}

	return kept, removed, duplicates
}

type historyFilter struct {
	name    string
	history func() []*jobs.Record
	logger  *zap.Logger
	ignore  bool
	reason  string
}

type AppliedHistoryDeps struct {
	History func() []*jobs.Record
	Logger  *zap.Logger
}

type AppliedHistoryConfig struct {
	Ignore bool
}

// NewAppliedHistory creates a filter that removes jobs already applied to, by id.
func NewAppliedHistory(cfg *AppliedHistoryConfig, deps *AppliedHistoryDeps) Filter {
	return newHistoryFilter("applied_history", cfg, deps)
}

// NewPending creates a filter that removes jobs already waiting in the pending set.
func NewPending(deps *AppliedHistoryDeps) Filter {
	return newHistoryFilter("pending", nil, deps)
}

func newHistoryFilter(name string, cfg *AppliedHistoryConfig, deps *AppliedHistoryDeps) *historyFilter {
	f := &historyFilter{name: name}
	if cfg != nil {
		f.ignore = cfg.Ignore
	}
	if deps != nil {
		f.history = deps.History
		f.logger = deps.Logger
	}
	return f
}

func (f *historyFilter) Name() string { return f.name }

func (f *historyFilter) Disable(reason string) {
	f.ignore = true
	f.reason = reason
}

func (f *historyFilter) IsEnabled() bool { return true }

func (f *historyFilter) Validate() error {
	if f.history == nil {
		return fmt.Errorf("job history is required")
	}

	if f.logger == nil {
		return fmt.Errorf("logger is required")
	}

	return nil
}

func (f *historyFilter) Apply(_ context.Context, records []*jobs.Record) ([]*jobs.Record, Step, error) {
	initial := len(records)
	if f.ignore {
		f.logger.Info("ignoring job history", zap.String("name", f.name), zap.String("reason", forceFlagSetMsg))
		return records, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept, removed, duplicates := ExcludeByID(records, f.history())
	if len(removed) > 0 {
		f.logger.Info("excluding jobs found in history",
			zap.String("name", f.name),
			zap.Strings("excluded_jobs", removed),
			zap.Int("jobs_left", len(kept)),
		)
	}
	warnDuplicates(f.logger, duplicates)

	return kept, Step{Initial: initial, Dropped: len(removed), Left: len(kept)}, nil
}

func (f *historyFilter) Status() Status {
	details := map[string]string{
		"exclude_known": strconv.FormatBool(!f.ignore),
	}
	reason := f.reason
	if f.ignore && reason == "" {
		reason = "skip requested via flag"
	}
	return Status{Name: f.Name(), Enabled: true, Reason: reason, Details: details}
}

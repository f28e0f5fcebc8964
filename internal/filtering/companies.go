package filtering

import (
	"context"
	"strings"

	"github.com/spigell/job-tracker/internal/jobs"
)

type companiesFilter struct {
	companies map[string]struct{}
	names     []string
}

// NewExcludedCompanies creates a filter that removes jobs by companies configured in the config.
// Names are compared case-insensitively.
func NewExcludedCompanies(companies []string) Filter {
	f := &companiesFilter{companies: make(map[string]struct{}, len(companies))}
	for _, c := range companies {
		key := strings.ToLower(strings.TrimSpace(c))
		if key == "" {
			continue
		}
		f.companies[key] = struct{}{}
		f.names = append(f.names, c)
	}
	return f
}

func (f *companiesFilter) Name() string { return "companies" }

func (f *companiesFilter) Disable(string) {}

func (f *companiesFilter) IsEnabled() bool { return true }

func (f *companiesFilter) Validate() error { return nil }

func (f *companiesFilter) Apply(_ context.Context, records []*jobs.Record) ([]*jobs.Record, Step, error) {
	initial := len(records)
	if len(f.companies) == 0 {
		return records, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	kept := make([]*jobs.Record, 0, len(records))
	for _, r := range records {
		if _, ok := f.companies[strings.ToLower(strings.TrimSpace(r.Company))]; ok {
			continue
		}
		kept = append(kept, r)
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}

func (f *companiesFilter) Status() Status {
	details := map[string]string{}
	if len(f.names) > 0 {
		details["companies"] = strings.Join(f.names, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

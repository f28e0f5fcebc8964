package ai

import (
	"context"

	"github.com/spigell/job-tracker/internal/fit"
)

// CoverLetter is a drafted letter for one job.
type CoverLetter struct {
	Letter     string
	Highlights []string
	Raw        string
}

// Drafter writes cover letters from the job extract, the candidate profile
// and the fit analysis of the job.
type Drafter interface {
	Draft(ctx context.Context, extract *fit.Extract, profile *fit.Profile, analysis *fit.Analysis) (*CoverLetter, error)
}

package fit

import (
	"github.com/spigell/job-tracker/internal/jobs"
)

type SalaryExpectation struct {
	Min      int    `mapstructure:"min" json:"min"`
	Max      int    `mapstructure:"max" json:"max"`
	Currency string `mapstructure:"currency" json:"currency"`
}

type Preferences struct {
	Remote bool `mapstructure:"remote" json:"remote"`
}

// Profile describes the candidate the jobs are scored for.
type Profile struct {
	Skills            []string           `mapstructure:"skills" json:"skills"`
	YearsExperience   int                `mapstructure:"years_experience" json:"years_experience"`
	SalaryExpectation *SalaryExpectation `mapstructure:"salary_expectation" json:"salary_expectation,omitempty"`
	Preferences       Preferences        `mapstructure:"preferences" json:"preferences"`
	PreferredDomains  []string           `mapstructure:"preferred_domains" json:"preferred_domains"`
}

// DefaultProfile is used when no profile file is available.
func DefaultProfile() *Profile {
	return &Profile{
		Skills:          []string{"python", "fastapi", "postgresql", "aws"},
		YearsExperience: 7,
		SalaryExpectation: &SalaryExpectation{
			Min:      120000,
			Max:      180000,
			Currency: "USD",
		},
		Preferences:      Preferences{Remote: true},
		PreferredDomains: []string{"AI", "fintech", "developer tools"},
	}
}

type Basic struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	SalaryRange string `json:"salary_range,omitempty"`
}

type Details struct {
	Description string `json:"description"`
}

type Links struct {
	XJobsURL   string `json:"x_jobs_url"`
	CompanyURL string `json:"company_url,omitempty"`
}

// Extract is the detail page data of one job.
type Extract struct {
	Basic       Basic   `json:"basic"`
	Details     Details `json:"details"`
	Application Links   `json:"application"`
}

// ExtractFromRecord builds an extract of a discovered job, without a description.
func ExtractFromRecord(r *jobs.Record) *Extract {
	return &Extract{
		Basic: Basic{
			Title:       r.Title,
			Company:     r.Company,
			Location:    r.Location,
			SalaryRange: r.SalaryRange,
		},
		Application: Links{XJobsURL: r.URL},
	}
}

package fit

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const (
	MaxScore = 10

	keywordPoints   = 1
	remotePoints    = 2
	salaryPoints    = 2
	seniorityPoints = 2
	domainPoints    = 1

	// Salary figures are read as thousands ("60K").
	salaryUnit = 1000
)

var (
	titleKeywords = []string{"python", "developer", "engineer", "backend", "full-stack", "senior", "staff"}
	numberPattern = regexp.MustCompile(`\d+`)
)

type Recommendation string

const (
	ApplyImmediately Recommendation = "Strong fit - Apply immediately"
	ReviewAndApply   Recommendation = "Good fit - Review and apply"
	ConsiderApplying Recommendation = "Moderate fit - Consider applying"
	SkipUnlessKeen   Recommendation = "Weak fit - Skip unless interested in learning"
)

// Analysis is the scored fit of one job.
type Analysis struct {
	Score          int            `json:"score"`
	Matches        []string       `json:"matches"`
	Gaps           []string       `json:"gaps"`
	Recommendation Recommendation `json:"recommendation"`
	// Notes are informational and never change the score.
	Notes []string `json:"notes,omitempty"`
}

// RecommendationFor maps a score to its tier.
func RecommendationFor(score int) Recommendation {
	switch {
	case score >= 8:
		return ApplyImmediately
	case score >= 6:
		return ReviewAndApply
	case score >= 4:
		return ConsiderApplying
	default:
		return SkipUnlessKeen
	}
}

// Score rates how well the job suits the profile on a 0-10 scale.
func Score(extract *Extract, profile *Profile) *Analysis {
	if profile == nil {
		profile = &Profile{}
	}

	score := 0
	matches := make([]string, 0)
	gaps := make([]string, 0)
	var notes []string

	title := strings.ToLower(extract.Basic.Title)
	company := strings.ToLower(extract.Basic.Company)

	skills := make([]string, 0, len(profile.Skills))
	for _, s := range profile.Skills {
		skills = append(skills, strings.ToLower(s))
	}

	for _, keyword := range titleKeywords {
		if strings.Contains(title, keyword) && slices.Contains(skills, keyword) {
			score += keywordPoints
			matches = append(matches, fmt.Sprintf("Title keyword match: %q", keyword))
		}
	}

	if strings.Contains(strings.ToLower(extract.Basic.Location), "remote") && profile.Preferences.Remote {
		score += remotePoints
		matches = append(matches, "Remote position (matches preference)")
	}

	if salary := extract.Basic.SalaryRange; salary != "" {
		check := CheckSalary(salary, profile.SalaryExpectation)
		switch {
		case check.Matches:
			score += salaryPoints
			matches = append(matches, fmt.Sprintf("Salary: %s (%s)", salary, check.Reason))
		case check.Below:
			gaps = append(gaps, fmt.Sprintf("Salary: %s (%s)", salary, check.Reason))
		default:
			notes = append(notes, fmt.Sprintf("Salary: %s (%s)", salary, check.Reason))
		}
	}

	seniority := CheckSeniority(title, profile.YearsExperience)
	if seniority.Matches {
		score += seniorityPoints
		matches = append(matches, seniority.Reason)
	} else {
		gaps = append(gaps, seniority.Reason)
	}

	if len(profile.PreferredDomains) > 0 {
		domain := CheckDomain(company, extract.Details.Description, profile.PreferredDomains)
		if domain.Matches {
			score += domainPoints
			matches = append(matches, domain.Reason)
		}
	}

	score = min(MaxScore, max(score, 0))

	return &Analysis{
		Score:          score,
		Matches:        matches,
		Gaps:           gaps,
		Recommendation: RecommendationFor(score),
		Notes:          notes,
	}
}

// Check is the outcome of one scoring rule.
type Check struct {
	Matches bool
	// Below is set when a parsed salary misses the expectation.
	Below  bool
	Reason string
}

// CheckSalary compares the second figure of the range, read in thousands,
// with the expected minimum. Ranges with fewer than two figures are neutral.
func CheckSalary(salary string, expectation *SalaryExpectation) Check {
	if expectation == nil {
		return Check{Matches: true, Reason: "No expectation set"}
	}

	numbers := numberPattern.FindAllString(salary, 2)
	if len(numbers) < 2 {
		return Check{Reason: "Unable to parse salary"}
	}

	high, err := strconv.Atoi(numbers[1])
	if err != nil {
		return Check{Reason: "Unable to parse salary"}
	}

	minimum := strconv.FormatFloat(float64(expectation.Min)/salaryUnit, 'f', -1, 64)

	if high*salaryUnit >= expectation.Min {
		return Check{Matches: true, Reason: fmt.Sprintf("Meets minimum %sK", minimum)}
	}
	return Check{Below: true, Reason: fmt.Sprintf("Below minimum %sK", minimum)}
}

// CheckSeniority matches the level named in the title against years of
// experience. Titles without a level always match.
func CheckSeniority(title string, years int) Check {
	title = strings.ToLower(title)

	switch {
	case containsAny(title, "senior", "staff", "principal"):
		if years >= 5 {
			return Check{Matches: true, Reason: fmt.Sprintf("Senior level (%d years)", years)}
		}
		return Check{Reason: fmt.Sprintf("Senior level requires more experience (have %d)", years)}
	case containsAny(title, "mid", "intermediate"):
		if years >= 2 && years < 8 {
			return Check{Matches: true, Reason: fmt.Sprintf("Mid level (%d years)", years)}
		}
		return Check{Reason: fmt.Sprintf("Mid level mismatch (%d years)", years)}
	case containsAny(title, "junior", "associate"):
		if years < 3 {
			return Check{Matches: true, Reason: fmt.Sprintf("Junior level (%d years)", years)}
		}
		return Check{Reason: fmt.Sprintf("Overqualified for junior (%d years)", years)}
	default:
		return Check{Matches: true, Reason: "Seniority level unspecified"}
	}
}

// CheckDomain looks for the first preferred domain in company and description.
func CheckDomain(company, description string, domains []string) Check {
	text := strings.ToLower(company + " " + description)

	for _, domain := range domains {
		if strings.Contains(text, strings.ToLower(domain)) {
			return Check{Matches: true, Reason: "Industry match: " + domain}
		}
	}

	return Check{Reason: "No preferred industry match"}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

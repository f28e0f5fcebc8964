package fit

import (
	"reflect"
	"slices"
	"testing"
)

func extract(title, company, location, salary, description string) *Extract {
	return &Extract{
		Basic:   Basic{Title: title, Company: company, Location: location, SalaryRange: salary},
		Details: Details{Description: description},
	}
}

func TestScoreStrongFit(t *testing.T) {
	profile := &Profile{
		Skills:            []string{"Python", "Senior", "backend", "engineer"},
		YearsExperience:   8,
		SalaryExpectation: &SalaryExpectation{Min: 100000, Max: 150000, Currency: "EUR"},
		Preferences:       Preferences{Remote: true},
		PreferredDomains:  []string{"fintech"},
	}

	analysis := Score(extract("Senior Python Backend Engineer", "PayCo", "Remote", "€110K - €140K per year", "A Fintech scale-up"), profile)

	// 4 keywords + remote 2 + salary 2 + seniority 2 + domain 1 = 11, clipped.
	if analysis.Score != MaxScore {
		t.Fatalf("expected clipped score %d, got %d", MaxScore, analysis.Score)
	}
	if analysis.Recommendation != ApplyImmediately {
		t.Fatalf("unexpected recommendation %q", analysis.Recommendation)
	}
	if len(analysis.Gaps) != 0 {
		t.Fatalf("unexpected gaps %v", analysis.Gaps)
	}

	expected := []string{
		`Title keyword match: "python"`,
		`Title keyword match: "engineer"`,
		`Title keyword match: "backend"`,
		`Title keyword match: "senior"`,
		"Remote position (matches preference)",
		"Salary: €110K - €140K per year (Meets minimum 100K)",
		"Senior level (8 years)",
		"Industry match: fintech",
	}
	if !reflect.DeepEqual(analysis.Matches, expected) {
		t.Fatalf("unexpected matches:\n%v\nexpected:\n%v", analysis.Matches, expected)
	}
}

func TestScoreZero(t *testing.T) {
	profile := &Profile{YearsExperience: 1, SalaryExpectation: &SalaryExpectation{Min: 200000}}

	analysis := Score(extract("Principal Architect", "Acme", "Berlin", "€60K - €80K", ""), profile)

	if analysis.Score != 0 {
		t.Fatalf("expected score 0, got %d", analysis.Score)
	}
	if analysis.Recommendation != SkipUnlessKeen {
		t.Fatalf("unexpected recommendation %q", analysis.Recommendation)
	}
	if len(analysis.Matches) != 0 || len(analysis.Gaps) != 2 {
		t.Fatalf("unexpected evidence: matches %v gaps %v", analysis.Matches, analysis.Gaps)
	}
}

func TestScoreBounds(t *testing.T) {
	t.Parallel()

	profiles := []*Profile{nil, {}, DefaultProfile(), {Skills: titleKeywords, YearsExperience: 10, Preferences: Preferences{Remote: true}}}
	extracts := []*Extract{
		extract("", "", "", "", ""),
		extract("Senior Staff Python Backend Full-Stack Developer Engineer", "AI Corp", "Remote", "$500K - $900K", "AI"),
		extract("Junior Dev", "x", "Remote", "Competitive", "volunteer"),
	}

	for _, p := range profiles {
		for _, e := range extracts {
			analysis := Score(e, p)
			if analysis.Score < 0 || analysis.Score > MaxScore {
				t.Fatalf("score %d out of bounds", analysis.Score)
			}
			if analysis.Recommendation != RecommendationFor(analysis.Score) {
				t.Fatalf("recommendation does not follow score")
			}
			if analysis.Matches == nil || analysis.Gaps == nil {
				t.Fatalf("evidence lists must not be nil")
			}
		}
	}
}

func TestRecommendationFor(t *testing.T) {
	t.Parallel()

	tests := map[int]Recommendation{
		10: ApplyImmediately,
		8:  ApplyImmediately,
		7:  ReviewAndApply,
		6:  ReviewAndApply,
		5:  ConsiderApplying,
		4:  ConsiderApplying,
		3:  SkipUnlessKeen,
		0:  SkipUnlessKeen,
	}

	for score, expect := range tests {
		if got := RecommendationFor(score); got != expect {
			t.Fatalf("score %d: expected %q, got %q", score, expect, got)
		}
	}
}

func TestCheckSalary(t *testing.T) {
	t.Parallel()

	meets := CheckSalary("€60K - €80K per year", &SalaryExpectation{Min: 70000})
	if !meets.Matches || meets.Reason != "Meets minimum 70K" {
		t.Fatalf("unexpected check %+v", meets)
	}

	below := CheckSalary("€60K - €80K per year", &SalaryExpectation{Min: 90000})
	if below.Matches || !below.Below || below.Reason != "Below minimum 90K" {
		t.Fatalf("unexpected check %+v", below)
	}

	fractional := CheckSalary("$60K - $80K", &SalaryExpectation{Min: 75500})
	if fractional.Reason != "Meets minimum 75.5K" {
		t.Fatalf("unexpected reason %q", fractional.Reason)
	}

	unparsed := CheckSalary("Competitive", &SalaryExpectation{Min: 1})
	if unparsed.Matches || unparsed.Below {
		t.Fatalf("unparseable salary must be neutral, got %+v", unparsed)
	}

	if noExpectation := CheckSalary("€1K - €2K", nil); !noExpectation.Matches {
		t.Fatalf("expected match without expectation")
	}
}

func TestScoreSalaryGap(t *testing.T) {
	profile := &Profile{YearsExperience: 3, SalaryExpectation: &SalaryExpectation{Min: 90000}}

	analysis := Score(extract("Developer", "Acme", "Remote", "€60K - €80K per year", ""), profile)

	if !slices.Contains(analysis.Gaps, "Salary: €60K - €80K per year (Below minimum 90K)") {
		t.Fatalf("expected salary gap, got %v", analysis.Gaps)
	}
	// Seniority unspecified still counts.
	if analysis.Score != 2 {
		t.Fatalf("expected score 2, got %d", analysis.Score)
	}
}

func TestCheckSeniority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title   string
		years   int
		matches bool
	}{
		{title: "senior engineer", years: 5, matches: true},
		{title: "staff engineer", years: 4, matches: false},
		{title: "principal engineer", years: 12, matches: true},
		{title: "mid-level developer", years: 2, matches: true},
		{title: "intermediate developer", years: 7, matches: true},
		{title: "intermediate developer", years: 8, matches: false},
		{title: "mid developer", years: 1, matches: false},
		{title: "junior developer", years: 2, matches: true},
		{title: "associate developer", years: 3, matches: false},
		{title: "developer", years: 0, matches: true},
	}

	for _, tt := range tests {
		if got := CheckSeniority(tt.title, tt.years); got.Matches != tt.matches {
			t.Fatalf("%q with %d years: expected %v, got %+v", tt.title, tt.years, tt.matches, got)
		}
	}
}

func TestCheckDomain(t *testing.T) {
	t.Parallel()

	if got := CheckDomain("openai", "", []string{"fintech", "AI"}); !got.Matches || got.Reason != "Industry match: AI" {
		t.Fatalf("unexpected check %+v", got)
	}
	if got := CheckDomain("acme", "logistics platform", []string{"fintech"}); got.Matches {
		t.Fatalf("unexpected match %+v", got)
	}
}

func TestRedFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		extract *Extract
		expect  []string
	}{
		{
			name:    "clean",
			extract: extract("Backend Engineer", "Acme", "Remote", "", "Build APIs."),
			expect:  []string{},
		},
		{
			name:    "crypto ninja",
			extract: extract("Rust Ninja", "ChainCo", "Remote", "", "Join our Web3 rocket. 10+ years of Rust required."),
			expect: []string{
				"Crypto/Web3 (high volatility)",
				"Unrealistic experience requirements",
				"Unprofessional job title terminology",
			},
		},
		{
			name:    "unpaid family equity",
			extract: extract("Volunteer Developer", "Startup", "", "", "Equity only. We work like a family."),
			expect: []string{
				"Unpaid position",
				"No base salary, equity only",
				`"Work family" culture (red flag phrase)`,
			},
		},
		{
			name:    "vague salary",
			extract: extract("Developer", "Acme", "", "Competitive, based on experience", ""),
			expect:  []string{VagueSalaryFlag},
		},
		{
			name:    "numeric salary with competitive wording",
			extract: extract("Developer", "Acme", "", "Competitive $100K - $120K", ""),
			expect:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := RedFlags(tt.extract); !reflect.DeepEqual(got, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}

func TestScoreNotesUnparseableSalary(t *testing.T) {
	profile := &Profile{YearsExperience: 3, SalaryExpectation: &SalaryExpectation{Min: 90000}}

	analysis := Score(extract("Developer", "Acme", "Berlin", "Competitive", ""), profile)

	if !reflect.DeepEqual(analysis.Notes, []string{"Salary: Competitive (Unable to parse salary)"}) {
		t.Fatalf("unexpected notes %v", analysis.Notes)
	}
	if slices.ContainsFunc(analysis.Gaps, func(g string) bool { return g == analysis.Notes[0] }) {
		t.Fatalf("unparseable salary must not be a gap")
	}
}

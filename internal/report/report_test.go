package report

import (
	"strings"
	"testing"
	"time"

	"github.com/spigell/job-tracker/internal/fit"
	"github.com/spigell/job-tracker/internal/jobs"
)

var generated = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

const expectedPrep = `# Application Prep: Acme - Senior Python Engineer

## Job Details
- **Company**: Acme
- **Title**: Senior Python Engineer
- **Location**: Remote
- **Salary**: Not specified
- **X Jobs URL**: https://x.com/jobs/1

## Fit Score: 9/10

**Recommendation**: Strong fit - Apply immediately

### ✅ Strengths
- a
- b
- c
- d

### ⚠️ Gaps
- g

### 🚩 Red Flags
None detected

## Cover Letter Points

1. **Why them**: [Research company's mission from company website]
2. **Why you**: Highlight matching skills: a, b, c
3. **Specific contribution**: How you can solve their problems (infer from job title)

## Application Strategy

Priority application - customize cover letter and apply within 24 hours.

---
Generated: 2025-01-10T12:00:00Z
`

func TestPrepDocument(t *testing.T) {
	doc, err := PrepDocument(&Prep{
		Extract: &fit.Extract{
			Basic:       fit.Basic{Title: "Senior Python Engineer", Company: "Acme", Location: "Remote"},
			Application: fit.Links{XJobsURL: "https://x.com/jobs/1"},
		},
		Analysis: &fit.Analysis{
			Score:          9,
			Matches:        []string{"a", "b", "c", "d"},
			Gaps:           []string{"g"},
			Recommendation: fit.ApplyImmediately,
		},
		RedFlags:  []string{},
		Generated: generated,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc != expectedPrep {
		t.Fatalf("unexpected document:\n%s", doc)
	}
}

func TestPrepDocumentSections(t *testing.T) {
	doc, err := PrepDocument(&Prep{
		Extract: &fit.Extract{
			Basic:       fit.Basic{Title: "Rust Ninja", Company: "ChainCo", SalaryRange: "Competitive"},
			Application: fit.Links{CompanyURL: "https://chain.example"},
		},
		Analysis:    &fit.Analysis{Score: 2, Matches: []string{}, Gaps: []string{}, Recommendation: fit.SkipUnlessKeen},
		RedFlags:    []string{"Crypto/Web3 (high volatility)", "Unprofessional job title terminology"},
		CoverLetter: "  Dear ChainCo team,\nI build things.  ",
		Generated:   generated,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"- **Salary**: Competitive\n",
		"### 🚩 Red Flags\n- Crypto/Web3 (high volatility)\n- Unprofessional job title terminology\n\n## Cover Letter Points",
		"[Research company's mission from https://chain.example]",
		"Low priority - quick apply if time permits",
		"## Draft Cover Letter\n\nDear ChainCo team,\nI build things.\n\n---\n",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document misses %q:\n%s", want, doc)
		}
	}

	for _, unwanted := range []string{"Strengths", "Gaps", "None detected"} {
		if strings.Contains(doc, unwanted) {
			t.Fatalf("document must not contain %q:\n%s", unwanted, doc)
		}
	}
}

func TestPrepDocumentRequiresAnalysis(t *testing.T) {
	if _, err := PrepDocument(&Prep{Extract: &fit.Extract{}}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestStrategy(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		10: "Priority application",
		8:  "Priority application",
		7:  "Standard application",
		6:  "Standard application",
		5:  "Low priority",
		0:  "Low priority",
	}

	for score, prefix := range tests {
		if got := Strategy(score); !strings.HasPrefix(got, prefix) {
			t.Fatalf("score %d: expected %q, got %q", score, prefix, got)
		}
	}
}

func TestFollowUpReportEmpty(t *testing.T) {
	got, err := FollowUpReport(nil, generated)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if expect := "# Follow-up Report\n\nNo applications due for follow-up.\n"; got != expect {
		t.Fatalf("expected %q, got %q", expect, got)
	}
}

func TestFollowUpReport(t *testing.T) {
	applied := generated.Add(-5 * 24 * time.Hour)
	due := []*jobs.Application{{
		Record:            jobs.Record{JobID: "1", Company: "Acme", Title: "Engineer", URL: "https://x.com/jobs/1"},
		AppliedAt:         applied,
		ApplicationMethod: "X Jobs Form",
		Status:            jobs.StatusSubmitted,
		FollowUpDate:      time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	}}

	got, err := FollowUpReport(due, generated)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expect := `# Follow-up Report

**1 application(s) due for follow-up:**

## Acme - Engineer
- **Applied**: 5 days ago (2025-01-05)
- **Follow-up due**: 2025-01-10
- **Method**: X Jobs Form
- **URL**: https://x.com/jobs/1
- **Action**: Send polite follow-up email or check application portal

`
	if got != expect {
		t.Fatalf("unexpected report:\n%q\nexpected:\n%q", got, expect)
	}
}

package report

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/spigell/job-tracker/internal/fit"
	"github.com/spigell/job-tracker/internal/jobs"
)

const (
	highlightCount = 3
	dateLayout     = "2006-01-02"
)

//go:embed templates/*.md.tmpl
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.md.tmpl"))

// Prep is the input of the application prep document.
type Prep struct {
	Extract  *fit.Extract
	Analysis *fit.Analysis
	RedFlags []string
	// CoverLetter is an optional drafted letter.
	CoverLetter string
	Generated   time.Time
}

type prepView struct {
	*fit.Extract
	Analysis    *fit.Analysis
	RedFlags    []string
	Highlights  string
	Strategy    string
	CoverLetter string
	GeneratedAt string
}

// Strategy describes how much effort an application deserves.
func Strategy(score int) string {
	switch {
	case score >= 8:
		return "Priority application - customize cover letter and apply within 24 hours."
	case score >= 6:
		return "Standard application - use template cover letter with personalization."
	default:
		return "Low priority - quick apply if time permits, no extensive customization needed."
	}
}

// PrepDocument renders the markdown prep document of one job.
func PrepDocument(p *Prep) (string, error) {
	if p.Extract == nil || p.Analysis == nil {
		return "", fmt.Errorf("prep document needs an extract and an analysis")
	}

	highlights := p.Analysis.Matches
	if len(highlights) > highlightCount {
		highlights = highlights[:highlightCount]
	}

	view := &prepView{
		Extract:     p.Extract,
		Analysis:    p.Analysis,
		RedFlags:    p.RedFlags,
		Highlights:  strings.Join(highlights, ", "),
		Strategy:    Strategy(p.Analysis.Score),
		CoverLetter: strings.TrimSpace(p.CoverLetter),
		GeneratedAt: p.Generated.UTC().Format(time.RFC3339),
	}

	return render("prep.md.tmpl", view)
}

type followUpView struct {
	Company   string
	Title     string
	Age       string
	AppliedOn string
	DueOn     string
	Method    string
	URL       string
}

// FollowUpReport renders the markdown list of applications due for a follow-up.
func FollowUpReport(due []*jobs.Application, now time.Time) (string, error) {
	views := make([]followUpView, 0, len(due))
	for _, app := range due {
		views = append(views, followUpView{
			Company:   app.Company,
			Title:     app.Title,
			Age:       humanize.RelTime(app.AppliedAt, now, "ago", "from now"),
			AppliedOn: app.AppliedAt.UTC().Format(dateLayout),
			DueOn:     app.FollowUpDate.UTC().Format(dateLayout),
			Method:    app.ApplicationMethod,
			URL:       app.URL,
		})
	}

	return render("followups.md.tmpl", struct{ Due []followUpView }{Due: views})
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

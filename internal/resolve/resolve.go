package resolve

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/jobs"
	"github.com/spigell/job-tracker/internal/snapshot"
)

const (
	titlePrefixLength   = 20
	companyPrefixLength = 15
)

var ErrNoJobID = errors.New("no job id in url")

// Result is the outcome of a batch resolution.
type Result struct {
	Jobs     []*jobs.Record
	Matched  int
	NotFound []*jobs.Record
}

// Match returns the first candidate whose label contains the leading part of
// the job title and company. Jobs with stable ids are never matched.
func Match(job *jobs.Record, candidates []*snapshot.Node) (*snapshot.Node, bool) {
	if job == nil || !jobs.IsTemporaryID(job.JobID) {
		return nil, false
	}

	title := prefix(strings.ToLower(strings.TrimSpace(job.Title)), titlePrefixLength)
	company := prefix(strings.ToLower(strings.TrimSpace(job.Company)), companyPrefixLength)

	for _, candidate := range candidates {
		if candidate == nil {
			continue
		}
		name := strings.ToLower(candidate.Name)
		if strings.Contains(name, title) && strings.Contains(name, company) {
			return candidate, true
		}
	}

	return nil, false
}

// Batch annotates every temporary job that matches a candidate with the node
// ref to click. Input records are not modified.
func Batch(pending []*jobs.Record, candidates []*snapshot.Node, logger *zap.Logger) *Result {
	if logger == nil {
		logger = zap.NewNop()
	}

	result := &Result{Jobs: make([]*jobs.Record, 0, len(pending))}

	for _, job := range pending {
		copied := *job

		if !jobs.IsTemporaryID(job.JobID) {
			result.Jobs = append(result.Jobs, &copied)
			continue
		}

		node, ok := Match(job, candidates)
		if !ok {
			logger.Info("listing not found", zap.String("job_id", job.JobID), zap.String("title", job.Title))
			result.NotFound = append(result.NotFound, job)
			result.Jobs = append(result.Jobs, &copied)
			continue
		}

		logger.Info("listing matched",
			zap.String("job_id", job.JobID),
			zap.String("title", job.Title),
			zap.String("ref", node.Ref),
		)

		copied.MatchedRef = node.Ref
		copied.NeedsClickThrough = true
		result.Matched++
		result.Jobs = append(result.Jobs, &copied)
	}

	logger.Info("batch resolution completed",
		zap.Int("matched", result.Matched),
		zap.Int("not_found", len(result.NotFound)),
	)

	return result
}

// Attach replaces the temporary id of job with the stable id found in url,
// the page reached after clicking the listing.
func Attach(job *jobs.Record, url string) (*jobs.Record, error) {
	id, ok := jobs.ExtractIDFromURL(url)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoJobID, url)
	}

	copied := *job
	copied.JobID = id
	copied.URL = url
	copied.Ref = ""
	copied.MatchedRef = ""
	copied.NeedsClickThrough = false

	return &copied, nil
}

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

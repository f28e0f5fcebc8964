package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/job-tracker/internal/ai"
	"github.com/spigell/job-tracker/internal/fit"
	"github.com/spigell/job-tracker/internal/logger"
	"github.com/spigell/job-tracker/internal/utils"
)

const (
	provider            = "gemini"
	defaultMaxLogLength = 200
	maxHighlights       = 3
)

//go:embed prompt.md
var promptTemplate string

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Drafter writes cover letters with a Gemini model.
type Drafter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Drafter = (*Drafter)(nil)

func NewDrafter(generator contentGenerator, log *zap.Logger, maxLogLength int) *Drafter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Drafter{
		generator: generator,
		logger:    logger.WithFields(log, logger.AIFields(provider, generator.Model())...),
		maxLogLen: maxLogLength,
	}
}

func (d *Drafter) Draft(ctx context.Context, extract *fit.Extract, profile *fit.Profile, analysis *fit.Analysis) (*ai.CoverLetter, error) {
	if extract == nil {
		return nil, errors.New("job extract is required")
	}
	if profile == nil {
		return nil, errors.New("candidate profile is required")
	}

	prompt, err := buildPrompt(extract, profile, analysis)
	if err != nil {
		return nil, err
	}

	log := d.logger.With(zap.String("company", extract.Basic.Company), zap.String("title", extract.Basic.Title))

	log.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, d.maxLogLen)),
	)

	raw, err := d.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	log.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, d.maxLogLen)),
	)

	letter, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	letter.Raw = raw
	return letter, nil
}

func buildPrompt(extract *fit.Extract, profile *fit.Profile, analysis *fit.Analysis) (string, error) {
	jobJSON, err := json.MarshalIndent(extract, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal job payload: %w", err)
	}

	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal profile payload: %w", err)
	}

	analysisJSON := []byte("null")
	if analysis != nil {
		if analysisJSON, err = json.MarshalIndent(analysis, "", "  "); err != nil {
			return "", fmt.Errorf("marshal analysis payload: %w", err)
		}
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job:\n{{JOB_JSON}}\n\nProfile:\n{{PROFILE_JSON}}\n\nAnalysis:\n{{ANALYSIS_JSON}}\n\nJSON Response:"
	}

	return strings.NewReplacer(
		"{{JOB_JSON}}", string(jobJSON),
		"{{PROFILE_JSON}}", string(profileJSON),
		"{{ANALYSIS_JSON}}", string(analysisJSON),
	).Replace(template), nil
}

func parseResponse(raw string) (*ai.CoverLetter, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	letter := coerceString(data["letter"])
	if letter == "" {
		return nil, errors.New("gemini response has no letter")
	}

	highlights := coerceStrings(data["highlights"])
	if len(highlights) > maxHighlights {
		highlights = highlights[:maxHighlights]
	}

	return &ai.CoverLetter{Letter: letter, Highlights: highlights}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// coerceStrings accepts a list or a single comma separated string.
func coerceStrings(v any) []string {
	result := make([]string, 0)

	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := coerceString(item); s != "" {
				result = append(result, s)
			}
		}
	case string:
		for _, item := range strings.Split(val, ",") {
			if s := strings.TrimSpace(item); s != "" {
				result = append(result, s)
			}
		}
	}

	return result
}

package gemini

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/job-tracker/internal/fit"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func testExtract() *fit.Extract {
	return &fit.Extract{
		Basic:       fit.Basic{Title: "Senior Python Engineer", Company: "Acme", Location: "Remote"},
		Details:     fit.Details{Description: "Build payment APIs."},
		Application: fit.Links{XJobsURL: "https://x.com/jobs/1"},
	}
}

func TestDrafterDraft(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	stub := &stubGenerator{response: `{"letter": " Dear Acme team, ", "highlights": ["python", "fintech", "aws", "extra"]}`}
	drafter := NewDrafter(stub, zap.New(core), 0)

	analysis := fit.Score(testExtract(), fit.DefaultProfile())
	letter, err := drafter.Draft(context.Background(), testExtract(), fit.DefaultProfile(), analysis)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if letter.Letter != "Dear Acme team," {
		t.Fatalf("unexpected letter %q", letter.Letter)
	}
	if !reflect.DeepEqual(letter.Highlights, []string{"python", "fintech", "aws"}) {
		t.Fatalf("unexpected highlights %v", letter.Highlights)
	}
	if letter.Raw != stub.response {
		t.Fatalf("raw response must be kept")
	}

	for _, want := range []string{`"company": "Acme"`, `"years_experience": 7`, `"recommendation":`} {
		if !strings.Contains(stub.lastPrompt, want) {
			t.Fatalf("prompt misses %q", want)
		}
	}
	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("prompt has unreplaced placeholders")
	}

	entries := observed.FilterMessage("gemini generate content request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["ai_provider"] != "gemini" || ctx["ai_model"] != "stub-model" || ctx["company"] != "Acme" {
		t.Fatalf("unexpected fields %v", ctx)
	}
}

func TestDrafterErrors(t *testing.T) {
	t.Parallel()

	generatorErr := errors.New("quota exceeded")

	tests := []struct {
		name     string
		response string
		err      error
	}{
		{name: "generator error", err: generatorErr},
		{name: "not json", response: "Dear team"},
		{name: "no letter", response: `{"highlights": ["go"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			drafter := NewDrafter(&stubGenerator{response: tt.response, err: tt.err}, nil, 10)
			_, err := drafter.Draft(context.Background(), testExtract(), fit.DefaultProfile(), nil)
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.err != nil && !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
		})
	}

	if _, err := NewDrafter(&stubGenerator{}, nil, 0).Draft(context.Background(), nil, fit.DefaultProfile(), nil); err == nil {
		t.Fatalf("expected error without extract")
	}
}

func TestParseResponseHandlesCodeBlock(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"letter\": \"Hello\", \"highlights\": \"go, kubernetes ,\"}\n```"

	letter, err := parseResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if letter.Letter != "Hello" {
		t.Fatalf("unexpected letter %q", letter.Letter)
	}
	if !reflect.DeepEqual(letter.Highlights, []string{"go", "kubernetes"}) {
		t.Fatalf("unexpected highlights %v", letter.Highlights)
	}
}

func TestCoerceString(t *testing.T) {
	t.Parallel()

	if got := coerceString(nil); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := coerceString(42.0); got != "42" {
		t.Fatalf("expected 42, got %q", got)
	}
	if got := coerceString(map[string]any{"a": "b"}); got != `{"a":"b"}` {
		t.Fatalf("unexpected value %q", got)
	}
}

package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "non-positive limit", input: "Senior Engineer", limit: 0, expect: ""},
		{name: "fits", input: "Cover letter", limit: 20, expect: "Cover letter"},
		{name: "truncated", input: "Dear hiring team", limit: 4, expect: "Dear..."},
		{name: "trimmed before counting", input: "  draft  ", limit: 5, expect: "draft"},
		{name: "counts runes", input: "€110K - €140K", limit: 5, expect: "€110K..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

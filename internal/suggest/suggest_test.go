package suggest

import (
	"reflect"
	"testing"
)

func TestFindSimilar(t *testing.T) {
	formulas := []string{"code-review", "deep-dive", "deploy", "release", "retrospective", "security-audit"}

	tests := []struct {
		name       string
		target     string
		candidates []string
		maxResults int
		wantFirst  string
	}{
		{
			name:       "prefix match",
			target:     "dep",
			candidates: formulas,
			maxResults: 3,
			wantFirst:  "deploy",
		},
		{
			name:       "typo match",
			target:     "depoly",
			candidates: formulas,
			maxResults: 3,
			wantFirst:  "deploy",
		},
		{
			name:       "case insensitive",
			target:     "RELEASE",
			candidates: formulas,
			maxResults: 1,
			wantFirst:  "release",
		},
		{
			name:       "exact match wins",
			target:     "deep-dive",
			candidates: formulas,
			maxResults: 2,
			wantFirst:  "deep-dive",
		},
		{
			name:       "empty candidates",
			target:     "deploy",
			candidates: nil,
			maxResults: 3,
			wantFirst:  "",
		},
		{
			name:       "zero max results",
			target:     "deploy",
			candidates: formulas,
			maxResults: 0,
			wantFirst:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := FindSimilar(tt.target, tt.candidates, tt.maxResults)

			if tt.wantFirst == "" {
				if len(results) != 0 {
					t.Errorf("FindSimilar(%q) = %v, want none", tt.target, results)
				}
				return
			}

			if len(results) == 0 {
				t.Fatalf("FindSimilar(%q) returned no results, want first = %q", tt.target, tt.wantFirst)
			}
			if results[0] != tt.wantFirst {
				t.Errorf("FindSimilar(%q) first result = %q, want %q", tt.target, results[0], tt.wantFirst)
			}
			if len(results) > tt.maxResults {
				t.Errorf("FindSimilar(%q) returned %d results, max %d", tt.target, len(results), tt.maxResults)
			}
		})
	}
}

func TestFindSimilarDeterministicTies(t *testing.T) {
	// Candidates equally similar to the target must come back in a
	// stable order across calls.
	candidates := []string{"bb", "ba", "bc"}

	first := FindSimilar("b", candidates, 3)
	for i := 0; i < 10; i++ {
		got := FindSimilar("b", candidates, 3)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("FindSimilar order changed between calls: %v vs %v", got, first)
		}
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "a", 1},
		{"deploy", "deploy", 0},
		{"deploy", "depoly", 2},
		{"deploy", "deplo", 1},
		{"kitten", "sitting", 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			got := levenshteinDistance(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

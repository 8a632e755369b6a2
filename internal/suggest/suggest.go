// Package suggest scores near-miss name matches for "did you mean"
// output.
package suggest

import (
	"sort"
	"strings"
	"unicode"
)

// Scoring weights. Prefix matches weigh most since users usually get
// the start of a name right; edit distance only counts when the
// strings are already close.
const (
	scoreExactMatch         = 1000
	scorePrefixWeight       = 20
	scoreContainsFullWeight = 15
	scoreSuffixWeight       = 10
	scoreContainsPartWeight = 10
	scoreDistanceWeight     = 5
	scoreCommonCharsWeight  = 2
	lengthDiffThreshold     = 5
	lengthDiffPenalty       = 2
)

// Match pairs a candidate with its similarity score.
type Match struct {
	Value string
	Score int
}

// FindSimilar returns up to maxResults candidates similar to target,
// best first. Matching is case-insensitive; candidates keep their
// original casing in the result.
func FindSimilar(target string, candidates []string, maxResults int) []string {
	if len(candidates) == 0 || maxResults <= 0 {
		return nil
	}

	target = strings.ToLower(target)

	var matches []Match
	for _, c := range candidates {
		score := similarity(target, strings.ToLower(c))
		if score > 0 {
			matches = append(matches, Match{Value: c, Score: score})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Value < matches[j].Value
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	result := make([]string, len(matches))
	for i, m := range matches {
		result[i] = m.Value
	}
	return result
}

// similarity combines prefix, suffix, containment, edit distance, and
// shared-character signals into one score. Higher is more similar.
func similarity(a, b string) int {
	if a == b {
		return scoreExactMatch
	}

	score := 0

	if n := commonPrefixLength(a, b); n > 0 {
		score += n * scorePrefixWeight
	}
	if n := commonSuffixLength(a, b); n > 0 {
		score += n * scoreSuffixWeight
	}

	if strings.Contains(b, a) {
		score += len(a) * scoreContainsFullWeight
	} else if strings.Contains(a, b) {
		score += len(b) * scoreContainsPartWeight
	}

	// Edit distance only matters once the strings are in the same
	// neighborhood; far-apart strings get no bonus at all.
	dist := levenshteinDistance(a, b)
	maxLen := max(len(a), len(b))
	if maxLen > 0 && dist <= maxLen/2 {
		score += (maxLen - dist) * scoreDistanceWeight
	}

	if n := commonChars(a, b); n > 0 {
		score += n * scoreCommonCharsWeight
	}

	if diff := abs(len(a) - len(b)); diff > lengthDiffThreshold {
		score -= diff * lengthDiffPenalty
	}

	return score
}

func commonPrefixLength(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func commonSuffixLength(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[len(a)-1-i] != b[len(b)-1-i] {
			return i
		}
	}
	return n
}

// commonChars counts letters and digits both strings share, consuming
// each occurrence once.
func commonChars(a, b string) int {
	aChars := make(map[rune]int)
	for _, r := range a {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			aChars[r]++
		}
	}

	common := 0
	for _, r := range b {
		if count, ok := aChars[r]; ok && count > 0 {
			common++
			aChars[r]--
		}
	}
	return common
}

// levenshteinDistance is the classic edit distance over bytes.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	d := make([][]int, len(a)+1)
	for i := range d {
		d[i] = make([]int, len(b)+1)
		d[i][0] = i
	}
	for j := range d[0] {
		d[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			d[i][j] = min(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
		}
	}

	return d[len(a)][len(b)]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// maxTypoRatio is the share of the longer answer that may differ by edits
const maxTypoRatio = 0.2

// NormalizeAnswer normalizes an answer for comparison
func NormalizeAnswer(answer string) string {
	answer = strings.ToLower(strings.TrimSpace(answer))

	// Remove common prefixes
	prefixes := []string{"the ", "a ", "an "}
	for _, prefix := range prefixes {
		answer = strings.TrimPrefix(answer, prefix)
	}

	// Remove punctuation and extra spaces
	var result strings.Builder
	for _, r := range answer {
		if !unicode.IsPunct(r) {
			result.WriteRune(r)
		}
	}

	return strings.Join(strings.Fields(result.String()), " ")
}

// IsCorrectAnswer reports whether given matches the expected answer. After
// normalization the two must be equal, given must contain the whole expected
// answer, or they must be within a small edit distance.
func IsCorrectAnswer(expected, given string) bool {
	expected = NormalizeAnswer(expected)
	given = NormalizeAnswer(given)

	if expected == "" || given == "" {
		return false
	}
	if expected == given || strings.Contains(given, expected) {
		return true
	}

	distance := levenshtein.ComputeDistance(expected, given)
	maxLen := max(utf8.RuneCountInString(expected), utf8.RuneCountInString(given))

	return float64(distance)/float64(maxLen) < maxTypoRatio
}

package normalize

import (
	"strings"
	"unicode"
)

// TitleSimilarityThreshold is the Jaccard similarity above which two
// titles are considered near-duplicates (§4.2 step 4).
const TitleSimilarityThreshold = 0.90

// tokenize lowercases and splits on non-alphanumeric runes, producing
// the token set used for Jaccard similarity.
func tokenize(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tokens[b.String()] = struct{}{}
			b.Reset()
		}
	}
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return tokens
}

// TitleJaccardSimilarity computes the Jaccard similarity of two titles'
// lowercased alphanumeric token sets (§4.2 step 4).
func TitleJaccardSimilarity(a, b string) float64 {
	setA := tokenize(a)
	setB := tokenize(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// IsNearDuplicateTitle reports whether title is a near-duplicate of any
// candidate title (similarity strictly greater than
// TitleSimilarityThreshold), per §4.2 step 4.
func IsNearDuplicateTitle(title string, candidates []string) bool {
	for _, c := range candidates {
		if TitleJaccardSimilarity(title, c) > TitleSimilarityThreshold {
			return true
		}
	}
	return false
}

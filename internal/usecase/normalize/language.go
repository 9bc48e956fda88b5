package normalize

import "strings"

// englishStopwords is a small, high-frequency English function-word set
// used to decide whether a text is English (§4.2 step 1). No language-
// identification library appears anywhere in the retrieved example
// corpus, so this heuristic stays on the standard library; see
// DESIGN.md for the justification.
var englishStopwords = map[string]bool{
	"the": true, "and": true, "of": true, "to": true, "in": true,
	"a": true, "is": true, "for": true, "on": true, "with": true,
	"that": true, "was": true, "this": true, "it": true, "as": true,
	"are": true, "by": true, "from": true, "at": true, "be": true,
}

// minStopwordRatio is the fraction of tokens that must be common
// English stopwords for a text to be classified English.
const minStopwordRatio = 0.08

// DetectLanguage returns an ISO-639-1 language code for text. Only
// "en" is ever returned for recognized English text; anything else
// (including text with too few matched tokens to judge) is returned
// as "und" (undetermined), which the caller treats as non-English.
func DetectLanguage(text string) string {
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) == 0 {
		return "und"
	}

	hits := 0
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".,!?;:\"'()")
		if englishStopwords[tok] {
			hits++
		}
	}

	if float64(hits)/float64(len(tokens)) >= minStopwordRatio {
		return "en"
	}
	return "und"
}

// IsEnglish reports whether text is classified as English (§4.2 step 1:
// "Detect language; drop if not English").
func IsEnglish(text string) bool {
	return DetectLanguage(text) == "en"
}

package normalize

import (
	"regexp"
	"strings"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
)

// properNounRun matches a run of capitalized words, a cheap
// noun-phrase proxy that needs no external NLP dependency (§4.2 step 5).
var properNounRun = regexp.MustCompile(`\b([A-Z][a-zA-Z.]*(?:\s+[A-Z][a-zA-Z.]*)*)\b`)

// ExtractEntities pulls noun-phrase-like entities from text, preserving
// first-occurrence order and capping the result at entity.MaxEntities
// (§4.2 step 5).
func ExtractEntities(text string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, match := range properNounRun.FindAllString(text, -1) {
		trimmed := strings.TrimSpace(match)
		if trimmed == "" || isSentenceLeader(trimmed) {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
		if len(out) >= entity.MaxEntities {
			break
		}
	}

	return out
}

// commonLeaders is the set of single capitalized words that usually
// start a sentence rather than name an entity.
var commonLeaders = map[string]bool{
	"The": true, "A": true, "An": true, "This": true, "That": true,
	"It": true, "They": true, "He": true, "She": true, "We": true,
}

func isSentenceLeader(s string) bool {
	return commonLeaders[s]
}

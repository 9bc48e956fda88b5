package score

import (
	"strings"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
)

// categoryLexicon maps each Category to the keywords that indicate it.
// No text-classification library appears in the retrieved example
// corpus, so this stays a lexicon match on the standard library; see
// DESIGN.md for the justification.
var categoryLexicon = map[entity.Category][]string{
	entity.CategoryPolitics:        {"election", "senate", "parliament", "president", "minister", "congress", "legislation", "vote"},
	entity.CategoryNaturalDisaster: {"earthquake", "hurricane", "flood", "tsunami", "wildfire", "volcano", "tornado", "drought"},
	entity.CategoryHealth:          {"outbreak", "vaccine", "hospital", "disease", "pandemic", "virus", "health"},
	entity.CategoryConflict:        {"war", "military", "airstrike", "ceasefire", "invasion", "insurgent", "troops"},
	entity.CategoryBusiness:        {"market", "stock", "earnings", "merger", "inflation", "economy", "trade"},
	entity.CategoryScience:         {"research", "study", "discovery", "nasa", "telescope", "physics", "biology"},
	entity.CategoryTechnology:      {"software", "chip", "startup", "artificial intelligence", "smartphone", "cyberattack"},
	entity.CategoryCrime:           {"arrest", "police", "murder", "fraud", "trial", "investigation", "shooting"},
	entity.CategorySports:          {"match", "tournament", "championship", "league", "athlete", "olympics"},
	entity.CategoryEntertainment:   {"film", "album", "celebrity", "festival", "box office", "concert"},
}

// Category classifies an Event from the concatenation of its title and
// entities: the category whose lexicon matches the most terms wins;
// an empty match falls back to CategoryOther (§4.5 Category).
// Confidence is the matched-term share normalized against the runner-up,
// a cheap proxy for classification certainty.
func CategorizeEvent(title string, entities []string) (entity.Category, float64) {
	text := strings.ToLower(title + " " + strings.Join(entities, " "))

	best := entity.CategoryOther
	bestCount := 0
	secondCount := 0

	for category, keywords := range categoryLexicon {
		count := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
		if count > bestCount {
			secondCount = bestCount
			best = category
			bestCount = count
		} else if count > secondCount {
			secondCount = count
		}
	}

	if bestCount == 0 {
		return entity.CategoryOther, 0
	}

	confidence := 1 - float64(secondCount)/float64(bestCount+secondCount+1)
	return best, clamp01(confidence)
}

// PoliticalEntityLexicon is the default lexicon used by
// entity.Event.DerivePoliticsFlag's "any entity in the political-entity
// lexicon" clause (§4.5).
var PoliticalEntityLexicon = map[string]bool{
	"Senate": true, "Congress": true, "Parliament": true, "White House": true,
	"United Nations": true, "European Union": true, "Supreme Court": true,
}

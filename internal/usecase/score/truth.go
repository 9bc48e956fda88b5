// Package score implements C5: the pure scoring functions that derive
// an Event's truth score, confidence tier, coherence/conflict,
// bias compass, category, and importance from its member Articles.
package score

import (
	"strings"
	"time"
)

// Truth score component weights (§4.5).
const (
	WeightSourceDiversity = 0.25
	WeightGeoDiversity    = 0.40
	WeightPrimaryEvidence = 0.20
	WeightOfficialMatch   = 0.15
)

// TruthInputs carries the per-component facts needed to score one
// Event (§4.5 Truth score table).
type TruthInputs struct {
	UniqueSources      int
	UniqueTLDCount     int
	HasPrimaryEvidence bool
	// OfficialMatchAge is the time since a matching official-feed event
	// on the same subject, or nil if there is none within 6h.
	OfficialMatchAge *time.Duration
}

// Breakdown is the per-component value/weight pair returned alongside
// the total score, matching the API's scoring_breakdown contract (§6).
type Breakdown struct {
	SourceDiversity float64
	GeoDiversity    float64
	PrimaryEvidence float64
	OfficialMatch   float64
}

// TruthScore computes the 0-100 truth score and its component
// breakdown (§4.5). Deterministic: identical inputs always yield
// identical outputs (property 5, §8).
func TruthScore(in TruthInputs) (float64, Breakdown) {
	b := Breakdown{
		SourceDiversity: clamp01(float64(in.UniqueSources) / 5),
		GeoDiversity:    clamp01(float64(in.UniqueTLDCount) / 4),
		PrimaryEvidence: boolToFloat(in.HasPrimaryEvidence),
		OfficialMatch:   officialMatchValue(in.OfficialMatchAge),
	}

	total := 100 * (WeightSourceDiversity*b.SourceDiversity +
		WeightGeoDiversity*b.GeoDiversity +
		WeightPrimaryEvidence*b.PrimaryEvidence +
		WeightOfficialMatch*b.OfficialMatch)

	return clamp(total, 0, 100), b
}

func officialMatchValue(age *time.Duration) float64 {
	if age == nil || *age > 6*time.Hour {
		return 0
	}
	ratio := float64(*age) / float64(6*time.Hour)
	return maxFloat(0.5, 1-ratio)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// UniqueTLDs returns the count of distinct TLDs among source domains,
// the "geographic diversity" proxy used by TruthInputs.UniqueTLDCount
// (§4.5) and by the ranker's geo-diversity term (§4.6).
func UniqueTLDs(domains []string) int {
	seen := make(map[string]struct{})
	for _, d := range domains {
		seen[tld(d)] = struct{}{}
	}
	return len(seen)
}

func tld(domain string) string {
	idx := strings.LastIndex(domain, ".")
	if idx == -1 {
		return domain
	}
	return domain[idx+1:]
}

package score

import "math"

// Importance score component weights (§4.5).
const (
	WeightGrowth      = 0.35
	WeightGeoDiv      = 0.25
	WeightPoliticalDiv = 0.20
	WeightSalience    = 0.20
)

// ImportanceInputs carries the per-component facts needed to score an
// Event's importance (§4.5 Importance score).
type ImportanceInputs struct {
	// ArticleCountGrowth4h is the normalized growth in articles_count
	// over the last 4h, already clamped to [0,1] by the caller (the
	// Event Store knows the historical count, this package does not).
	ArticleCountGrowth4h float64
	GeoDiversity         float64 // [0,1], same value used in the truth score
	PoliticalEntropy     float64 // [0,1], from PoliticalEntropy
	CoherenceScore       float64 // [0,100]
}

// Importance computes the 0-100 importance score (§4.5).
func Importance(in ImportanceInputs) float64 {
	salience := clamp01(in.CoherenceScore / 100)

	total := 100 * (WeightGrowth*clamp01(in.ArticleCountGrowth4h) +
		WeightGeoDiv*clamp01(in.GeoDiversity) +
		WeightPoliticalDiv*clamp01(in.PoliticalEntropy) +
		WeightSalience*salience)

	return clamp(total, 0, 100)
}

// shannonEntropy computes the normalized Shannon entropy (base = len(p))
// of a probability distribution, returning a value in [0,1]. A uniform
// distribution over n>1 outcomes yields 1; a degenerate one yields 0.
func shannonEntropy(p []float64) float64 {
	n := len(p)
	if n <= 1 {
		return 0
	}

	var h float64
	for _, v := range p {
		if v <= 0 {
			continue
		}
		h -= v * math.Log(v)
	}

	maxH := math.Log(float64(n))
	if maxH == 0 {
		return 0
	}
	return clamp01(h / maxH)
}

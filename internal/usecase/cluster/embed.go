// Package cluster implements C3: computing a semantic embedding for an
// Article and grouping recent Articles into Events with a density-based
// clustering pass over cosine distance.
package cluster

import (
	"hash/fnv"
	"math"
	"strings"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
)

// Embed computes a deterministic, L2-normalized 384-float embedding for
// title+summary text (§4.3 Embedding). The contract asked of this
// function is determinism and normalization, not model fidelity — the
// spec explicitly does not prescribe pretrained weights — so this
// implementation is a fixed hashing projection: stable across runs,
// process restarts, and machines, and cheap enough to run inline rather
// than behind a model-serving sidecar.
func Embed(title, summary string) entity.Embedding {
	text := strings.TrimSpace(title) + " " + strings.TrimSpace(summary)
	tokens := strings.Fields(strings.ToLower(text))

	var vec entity.Embedding
	for _, tok := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		bucket := h.Sum32() % entity.EmbeddingDimension
		vec[bucket] += tokenWeight(tok)
	}

	normalize(&vec)
	return vec
}

// tokenWeight gives longer tokens slightly more weight, a cheap proxy
// for content words over stopwords without carrying a stopword list
// into the hot path.
func tokenWeight(tok string) float32 {
	return float32(1 + len(tok)/4)
}

func normalize(vec *entity.Embedding) {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return
	}
	norm := math.Sqrt(sumSquares)
	for i, v := range vec {
		vec[i] = float32(float64(v) / norm)
	}
}

// CosineDistance returns 1 - cosine_similarity(a, b), the distance
// metric used throughout §4.3 and §4.5.
func CosineDistance(a, b entity.Embedding) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if similarity > 1 {
		similarity = 1
	} else if similarity < -1 {
		similarity = -1
	}
	return 1 - similarity
}

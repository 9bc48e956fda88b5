package score

import (
	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/usecase/cluster"
)

// Coherence computes coherence_score = 100 × (1 − mean pairwise cosine
// distance) over member-article embeddings (§4.5). A single-member or
// empty Event is fully coherent by convention (no disagreement
// possible), matching the "defaults that sub-score to 0 but never
// abort" resilience contract by returning a safe value rather than
// dividing by zero.
func Coherence(embeddings []entity.Embedding) float64 {
	if len(embeddings) <= 1 {
		return 100
	}

	var sum float64
	pairs := 0
	for i := 0; i < len(embeddings); i++ {
		for j := i + 1; j < len(embeddings); j++ {
			sum += cluster.CosineDistance(embeddings[i], embeddings[j])
			pairs++
		}
	}
	meanDistance := sum / float64(pairs)
	return clamp(100*(1-meanDistance), 0, 100)
}

// ConflictSplit divides member articles into two narrative
// sub-clusters by a second density-clustering pass over the same
// embeddings, the input to §4.5's conflict explanation. It returns at
// most two groups of article indices; if the input cannot be split
// (fewer than 2*cluster.MinSamples members), it returns a single group.
func ConflictSplit(embeddings []entity.Embedding) [][]int {
	if len(embeddings) < 2*cluster.MinSamples {
		all := make([]int, len(embeddings))
		for i := range all {
			all[i] = i
		}
		return [][]int{all}
	}

	points := make([]cluster.Point, len(embeddings))
	for i, e := range embeddings {
		points[i] = cluster.Point{ArticleID: int64(i), Embedding: e}
	}

	partition := cluster.DBSCAN(points)
	if len(partition.Clusters) < 2 {
		all := make([]int, len(embeddings))
		for i := range all {
			all[i] = i
		}
		return [][]int{all}
	}

	groups := make([][]int, 0, 2)
	for _, clusterIDs := range partition.Clusters[:2] {
		group := make([]int, len(clusterIDs))
		for i, id := range clusterIDs {
			group[i] = int(id)
		}
		groups = append(groups, group)
	}
	return groups
}

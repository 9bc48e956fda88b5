package cluster

import "github.com/geraldfingburke/verinews/internal/domain/entity"

// Eps and MinSamples are the DBSCAN parameters fixed by §4.3.
const (
	Eps        = 0.3
	MinSamples = 3
)

// Point is one clusterable item: an Article ID and its embedding.
type Point struct {
	ArticleID int64
	Embedding entity.Embedding
}

// noiseLabel marks a point that DBSCAN placed in no cluster.
const noiseLabel = -1

// Partition is the result of a DBSCAN run: Clusters maps a cluster
// index to its member Article IDs; Noise holds Article IDs assigned to
// no cluster (§4.3: "left with cluster_id unassigned").
type Partition struct {
	Clusters [][]int64
	Noise    []int64
}

// DBSCAN clusters points by cosine distance using the fixed eps/min_samples
// from §4.3. Deterministic for a given input order: points are visited
// in slice order and neighbor sets are stable for identical inputs.
func DBSCAN(points []Point) Partition {
	n := len(points)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = noiseLabel
	}
	visited := make([]bool, n)

	neighborCache := make([][]int, n)
	neighbors := func(i int) []int {
		if neighborCache[i] != nil {
			return neighborCache[i]
		}
		var result []int
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if CosineDistance(points[i].Embedding, points[j].Embedding) <= Eps {
				result = append(result, j)
			}
		}
		neighborCache[i] = result
		return result
	}

	clusterID := 0
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true

		nbrs := neighbors(i)
		if len(nbrs)+1 < MinSamples {
			continue // stays noise unless later reached as a border point
		}

		labels[i] = clusterID
		seeds := append([]int{}, nbrs...)
		for k := 0; k < len(seeds); k++ {
			j := seeds[k]
			if !visited[j] {
				visited[j] = true
				jNbrs := neighbors(j)
				if len(jNbrs)+1 >= MinSamples {
					seeds = append(seeds, jNbrs...)
				}
			}
			if labels[j] == noiseLabel {
				labels[j] = clusterID
			}
		}
		clusterID++
	}

	partition := Partition{Clusters: make([][]int64, clusterID)}
	for i, label := range labels {
		if label == noiseLabel {
			partition.Noise = append(partition.Noise, points[i].ArticleID)
			continue
		}
		partition.Clusters[label] = append(partition.Clusters[label], points[i].ArticleID)
	}

	return partition
}

// Centroid returns the mean embedding of a set of points, L2-normalized.
func Centroid(embeddings []entity.Embedding) entity.Embedding {
	var sum entity.Embedding
	for _, e := range embeddings {
		for i, v := range e {
			sum[i] += v
		}
	}
	if len(embeddings) > 0 {
		for i := range sum {
			sum[i] /= float32(len(embeddings))
		}
	}
	normalize(&sum)
	return sum
}

// ClosestToCentroid returns the index within embeddings whose vector has
// the smallest cosine distance to centroid (§4.3: "the article whose
// embedding is closest to the cluster centroid").
func ClosestToCentroid(embeddings []entity.Embedding, centroid entity.Embedding) int {
	best := 0
	bestDist := 2.0 // cosine distance is bounded by [0,2]
	for i, e := range embeddings {
		d := CosineDistance(e, centroid)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

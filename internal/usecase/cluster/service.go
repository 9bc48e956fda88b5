package cluster

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/observability/metrics"
	"github.com/geraldfingburke/verinews/internal/repository"
)

// Service runs C3 over a window of Articles: it computes missing
// embeddings, partitions the window with DBSCAN, and assigns each
// non-noise cluster to an existing or new Event (§4.3).
type Service struct {
	Articles repository.ArticleRepository
	Events   repository.EventRepository
}

// NewService constructs a clustering Service.
func NewService(articles repository.ArticleRepository, events repository.EventRepository) *Service {
	return &Service{Articles: articles, Events: events}
}

// Window runs one clustering pass over Articles ingested since `since`
// (the 24h window for T2/T3, or the 6h re-clustering window, per §4.3).
// Errors are never fatal: on an unexpected failure the pass logs and
// leaves memberships unchanged, matching "clustering never fails
// fatally" (§4.3 Failure).
func (s *Service) Window(ctx context.Context, since time.Time, limit int) {
	articles, err := s.Articles.UnclusteredSince(ctx, since, limit)
	if err != nil {
		slog.Error("cluster window: list unclustered articles", slog.Any("error", err))
		return
	}
	if len(articles) == 0 {
		return
	}

	start := time.Now()
	defer func() { metrics.RecordClusterWindow(time.Since(start), len(articles)) }()

	points := make([]Point, 0, len(articles))
	byID := make(map[int64]*entity.Article, len(articles))
	for _, a := range articles {
		if a.Embedding == nil {
			e := Embed(a.Title, a.Summary)
			a.Embedding = &e
		}
		points = append(points, Point{ArticleID: a.ID, Embedding: *a.Embedding})
		byID[a.ID] = a
	}

	partition := DBSCAN(points)

	for _, clusterArticleIDs := range partition.Clusters {
		if err := s.assignCluster(ctx, clusterArticleIDs, byID); err != nil {
			slog.Error("cluster window: assign cluster", slog.Any("error", err))
		}
	}
}

// assignCluster implements §4.3's "non-noise cluster maps to one
// Event" rule together with the tie-break rules, then writes the
// resulting membership and triggers a recompute.
func (s *Service) assignCluster(ctx context.Context, articleIDs []int64, byID map[int64]*entity.Article) error {
	if len(articleIDs) == 0 {
		return nil
	}

	event, err := s.resolveEvent(ctx, articleIDs, byID)
	if err != nil {
		return fmt.Errorf("resolve event: %w", err)
	}

	for _, id := range articleIDs {
		if err := s.Articles.AssignCluster(ctx, id, event.ID); err != nil {
			return fmt.Errorf("assign cluster for article %d: %w", id, err)
		}
	}

	if err := s.Events.Recompute(ctx, event); err != nil {
		return fmt.Errorf("recompute event %d: %w", event.ID, err)
	}

	return nil
}

// resolveEvent picks the Event a cluster maps to (§4.3): an existing
// Event is reused if a majority of the cluster's members already
// reference it. Failing that, if the cluster spans multiple existing
// Events, the one with the larger ArticlesCount wins, ties broken by
// the earlier FirstSeen. Only when no existing Event qualifies either
// way is a new Event created, seeded from the member whose embedding
// is closest to the cluster centroid.
func (s *Service) resolveEvent(ctx context.Context, articleIDs []int64, byID map[int64]*entity.Article) (*entity.Event, error) {
	counts := make(map[int64]int)
	for _, id := range articleIDs {
		if cid := byID[id].ClusterID; cid != nil {
			counts[*cid]++
		}
	}

	total := len(articleIDs)
	for evID, n := range counts {
		if n*2 > total {
			event, err := s.Events.Get(ctx, evID)
			if err != nil {
				return nil, err
			}
			metrics.RecordEventResolution(true)
			return event, nil
		}
	}

	if len(counts) > 1 {
		var best *entity.Event
		for evID := range counts {
			ev, err := s.Events.Get(ctx, evID)
			if err != nil {
				return nil, fmt.Errorf("get candidate event %d: %w", evID, err)
			}
			if best == nil ||
				ev.ArticlesCount > best.ArticlesCount ||
				(ev.ArticlesCount == best.ArticlesCount && ev.FirstSeen.Before(best.FirstSeen)) {
				best = ev
			}
		}
		metrics.RecordEventResolution(true)
		return best, nil
	}

	seed := s.pickSeed(articleIDs, byID)
	event, err := s.Events.CreateOrGetForArticle(ctx, byID[seed])
	if err != nil {
		return nil, fmt.Errorf("create or get event: %w", err)
	}
	metrics.RecordEventResolution(false)
	return event, nil
}

// pickSeed picks the representative article for a brand-new Event: the
// member whose embedding is closest to the cluster centroid (§4.3).
func (s *Service) pickSeed(articleIDs []int64, byID map[int64]*entity.Article) int64 {
	embeddings := make([]entity.Embedding, len(articleIDs))
	for i, id := range articleIDs {
		embeddings[i] = *byID[id].Embedding
	}
	centroid := Centroid(embeddings)
	idx := ClosestToCentroid(embeddings, centroid)
	return articleIDs[idx]
}

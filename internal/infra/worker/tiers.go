package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/infra/fetcher"
	"github.com/geraldfingburke/verinews/internal/observability/metrics"
	"github.com/geraldfingburke/verinews/internal/repository"
)

// standardFetchSources are the sources T2 fans out over, bounded by
// WorkerConfig.T2MaxWorkers (§4.7 Tier 2).
var standardFetchSources = []fetcher.Name{
	fetcher.NameRSS,
	fetcher.NameNewsAPI,
	fetcher.NameMediastack,
	fetcher.NameReddit,
	fetcher.NameNGOGov,
}

// runT1 fetches the fast-cadence GDELT source only (§4.7 Tier 1: "the
// one source cheap enough to poll every 10-20 minutes").
func (s *Scheduler) runT1(ctx context.Context) (int, error) {
	return s.fetchAndIngest(ctx, fetcher.NameGDELT, fetcher.DefaultWindow(fetcher.NameGDELT))
}

// runT2 fans out over the standard-cadence sources (bounded concurrency),
// re-clusters the ingestion window, and recomputes every Event touched
// in the process (§4.7 Tier 2).
func (s *Scheduler) runT2(ctx context.Context) (int, error) {
	total := s.fanOutFetch(ctx, standardFetchSources, s.Config.T2MaxWorkers)

	since := time.Now().Add(-reclusterWindow)
	s.Cluster.Window(ctx, since, clusterBatchCap)

	touched, err := s.Events.TouchedSince(ctx, since, t2TouchedCap)
	if err != nil {
		return total, err
	}
	for _, event := range touched {
		if event.RetentionFrozen {
			continue
		}
		if err := s.Analysis.Recompute(ctx, event.ID); err != nil {
			s.Logger.Warn("t2 recompute failed", slog.Int64("event_id", event.ID), slog.Any("error", err))
		}
	}
	return total, nil
}

// runT3 re-clusters the window, then recomputes the most recently
// touched Events: the first T3ExcerptCap get the deep recompute (full
// excerpt extraction), the remaining touched Events up to T3EventCap
// get the ordinary recompute (§4.7 Tier 3).
func (s *Scheduler) runT3(ctx context.Context) (int, error) {
	since := time.Now().Add(-reclusterWindow)
	s.Cluster.Window(ctx, since, clusterBatchCap)

	touched, err := s.Events.TouchedSince(ctx, since, s.Config.T3EventCap)
	if err != nil {
		return 0, err
	}

	processed := 0
	for i, event := range touched {
		if event.RetentionFrozen {
			continue
		}
		var recomputeErr error
		if i < s.Config.T3ExcerptCap {
			recomputeErr = s.Analysis.RecomputeDeep(ctx, event.ID)
		} else {
			recomputeErr = s.Analysis.Recompute(ctx, event.ID)
		}
		if recomputeErr != nil {
			s.Logger.Warn("t3 recompute failed", slog.Int64("event_id", event.ID), slog.Any("error", recomputeErr))
			continue
		}
		processed++
	}
	return processed, nil
}

// runT4 fact-checks up to T4ArticleCap unchecked Articles with bounded
// concurrency, persists each verdict, then recomputes the Events those
// Articles belong to so importance/truth scores reflect the new
// verdicts (§4.7 Tier 4). A nil FactChecker makes the tier a no-op.
func (s *Scheduler) runT4(ctx context.Context) (int, error) {
	if s.FactCheck == nil {
		return 0, nil
	}

	unchecked := entity.FactCheckUnchecked
	articles, err := s.Articles.List(ctx, repository.ArticleFilters{FactCheck: &unchecked}, 0, s.Config.T4ArticleCap)
	if err != nil {
		return 0, err
	}
	if len(articles) == 0 {
		return 0, nil
	}

	sem := make(chan struct{}, s.Config.T4MaxWorkers)
	var mu sync.Mutex
	touchedEvents := make(map[int64]struct{})
	var wg sync.WaitGroup
	var processed int

	for _, article := range articles {
		article := article
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			status, flags := s.FactCheck.Check(ctx, article)
			if err := s.Articles.UpdateFactCheck(ctx, article.ID, status, flags); err != nil {
				s.Logger.Warn("t4 persist fact-check failed", slog.Int64("article_id", article.ID), slog.Any("error", err))
				return
			}
			metrics.RecordFactCheckResult(string(status))
			mu.Lock()
			processed++
			if article.ClusterID != nil {
				touchedEvents[*article.ClusterID] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	for eventID := range touchedEvents {
		if err := s.Analysis.Recompute(ctx, eventID); err != nil {
			s.Logger.Warn("t4 recompute failed", slog.Int64("event_id", eventID), slog.Any("error", err))
		}
	}
	return processed, nil
}

// runT5 expires stale Articles and freezes stale Events at the
// configured retention window (§4.7 Tier 5).
func (s *Scheduler) runT5(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-time.Duration(s.Config.RetentionDays) * 24 * time.Hour)

	expired, err := s.Articles.ExpireOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	frozen, err := s.Events.FreezeStale(ctx, cutoff)
	if err != nil {
		return int(expired), err
	}
	return int(expired + frozen), nil
}

// fanOutFetch runs fetchAndIngest for each source with at most
// maxWorkers in flight, summing the inserted-article counts. A single
// source's failure is logged and does not cancel its siblings (§4.1).
func (s *Scheduler) fanOutFetch(ctx context.Context, sources []fetcher.Name, maxWorkers int) int {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	group, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, maxWorkers)

	var mu sync.Mutex
	total := 0

	for _, name := range sources {
		name := name
		group.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			n, err := s.fetchAndIngest(gctx, name, fetcher.DefaultWindow(name))
			if err != nil {
				s.Logger.Warn("fetch failed", slog.String("source", string(name)), slog.Any("error", err))
				return nil
			}
			mu.Lock()
			total += n
			mu.Unlock()
			return nil
		})
	}
	_ = group.Wait()
	return total
}

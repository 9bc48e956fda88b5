// Package worker hosts the C7 Scheduler: a five-tier cooperative
// periodic driver (§4.7) built on github.com/robfig/cron/v3, plus the
// health/metrics servers the tiers report through.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/geraldfingburke/verinews/internal/infra/fetcher"
	"github.com/geraldfingburke/verinews/internal/infra/llm"
	"github.com/geraldfingburke/verinews/internal/observability/metrics"
	"github.com/geraldfingburke/verinews/internal/repository"
	"github.com/geraldfingburke/verinews/internal/usecase/analysis"
	"github.com/geraldfingburke/verinews/internal/usecase/cluster"
	"github.com/geraldfingburke/verinews/internal/usecase/normalize"
)

// Tier names, used as metric labels and log fields.
const (
	TierFastFetch     = "t1_fast_fetch"
	TierStandardFetch = "t2_standard_fetch"
	TierAnalysis      = "t3_analysis"
	TierDeepAnalysis  = "t4_deep_analysis"
	TierCleanup       = "t5_cleanup"
)

// Peak window per §4.7: "local-time hour 06:00-23:00".
const (
	peakStartHour = 6
	peakEndHour   = 23
)

// Cadences (§4.7 table), peak then off-peak. T3 and T5 have a single
// cadence; T4 runs on a fixed 240m interval regardless of time of day.
var (
	t1Peak, t1OffPeak = 10 * time.Minute, 20 * time.Minute
	t2Peak, t2OffPeak = 15 * time.Minute, 30 * time.Minute
	t3Interval        = 60 * time.Minute
	t4Interval        = 240 * time.Minute

	reclusterWindow   = 6 * time.Hour
	recentTitleWindow = 48 * time.Hour

	// clusterBatchCap and t2TouchedCap bound the otherwise-uncapped T2
	// re-clustering/recompute pass (§4.7 Tier 2 states no explicit cap,
	// unlike T3's 25/8); these keep one tick's work finite regardless
	// of ingestion volume.
	clusterBatchCap = 500
	t2TouchedCap    = 200
)

// Scheduler drives the five tiers against one shared set of services.
// Every exported dependency may be nil: a nil Enhancer, FactChecker, or
// Registry entry simply makes the tier that needs it a no-op, matching
// the ambient "affected feature degrades gracefully" posture (§7).
type Scheduler struct {
	Config  *WorkerConfig
	Metrics *WorkerMetrics
	Logger  *slog.Logger

	Fetchers  fetcher.Registry
	Normalize *normalize.Service
	Cluster   *cluster.Service
	Analysis  *analysis.Service
	Articles  repository.ArticleRepository
	Events    repository.EventRepository
	FactCheck *llm.FactChecker

	health *HealthServer

	mus     map[string]*sync.Mutex
	lastRun map[string]time.Time
	lastMu  sync.Mutex
}

// NewScheduler wires a Scheduler from its dependencies.
func NewScheduler(cfg *WorkerConfig, metrics *WorkerMetrics, logger *slog.Logger) *Scheduler {
	tiers := []string{TierFastFetch, TierStandardFetch, TierAnalysis, TierDeepAnalysis, TierCleanup}
	mus := make(map[string]*sync.Mutex, len(tiers))
	for _, t := range tiers {
		mus[t] = &sync.Mutex{}
	}
	return &Scheduler{
		Config:  cfg,
		Metrics: metrics,
		Logger:  logger,
		mus:     mus,
		lastRun: make(map[string]time.Time, len(tiers)),
	}
}

// Start registers all five cron jobs (at their peak cadence, where
// applicable) and begins running them. It returns once the cron engine
// has started; the scheduler keeps running in background goroutines
// until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context, health *HealthServer) error {
	s.health = health

	loc, err := time.LoadLocation(s.Config.Timezone)
	if err != nil {
		s.Logger.Error("invalid timezone, using UTC", slog.String("timezone", s.Config.Timezone), slog.Any("error", err))
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))

	if _, err := c.AddFunc("@every 10m", func() { s.runPeakAware(ctx, TierFastFetch, loc, t1Peak, t1OffPeak, t1Peak, s.runT1) }); err != nil {
		return err
	}
	if _, err := c.AddFunc("@every 15m", func() { s.runPeakAware(ctx, TierStandardFetch, loc, t2Peak, t2OffPeak, t2Peak, s.runT2) }); err != nil {
		return err
	}
	if _, err := c.AddFunc("@every 60m", func() { s.run(ctx, TierAnalysis, t3Interval, s.runT3) }); err != nil {
		return err
	}
	if _, err := c.AddFunc("@every 240m", func() { s.run(ctx, TierDeepAnalysis, t4Interval, s.runT4) }); err != nil {
		return err
	}
	if _, err := c.AddFunc("0 3 * * *", func() { s.run(ctx, TierCleanup, t3Interval, s.runT5) }); err != nil {
		return err
	}

	c.Start()
	s.Logger.Info("scheduler started", slog.String("timezone", s.Config.Timezone))

	if s.health != nil {
		s.health.SetReady(true)
	}
	return nil
}

// isPeak reports whether `now` (already in the scheduler's configured
// location) falls inside the 06:00-23:00 peak window (§4.7).
func isPeak(now time.Time) bool {
	h := now.Hour()
	return h >= peakStartHour && h < peakEndHour
}

// runPeakAware applies the off-peak throttle: outside the peak window,
// a tier only runs once offPeakInterval has elapsed since its last run.
func (s *Scheduler) runPeakAware(ctx context.Context, tier string, loc *time.Location, peakInterval, offPeakInterval, timeout time.Duration, fn func(context.Context) (int, error)) {
	now := time.Now().In(loc)
	if !isPeak(now) {
		s.lastMu.Lock()
		last, ok := s.lastRun[tier]
		s.lastMu.Unlock()
		if ok && now.Sub(last) < offPeakInterval {
			s.Metrics.RecordTierRun(tier, "skipped")
			return
		}
	}
	s.run(ctx, tier, timeout, fn)
}

// run enforces the per-tier mutex ("at most one instance of each tier
// runs at a time", "next tick skipped, not queued") and the cadence
// timeout, then records outcome metrics.
func (s *Scheduler) run(ctx context.Context, tier string, timeout time.Duration, fn func(context.Context) (int, error)) {
	mu := s.mus[tier]
	if !mu.TryLock() {
		s.Metrics.RecordTierRun(tier, "skipped")
		s.Logger.Warn("tier skipped, previous run still in flight", slog.String("tier", tier))
		return
	}
	defer mu.Unlock()

	start := time.Now()
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	n, err := fn(tctx)
	s.Metrics.RecordTierDuration(tier, time.Since(start).Seconds())

	s.lastMu.Lock()
	s.lastRun[tier] = time.Now()
	s.lastMu.Unlock()

	if err != nil {
		s.Metrics.RecordTierRun(tier, "failure")
		s.Logger.Error("tier failed", slog.String("tier", tier), slog.Any("error", err))
		return
	}
	s.Metrics.RecordTierRun(tier, "success")
	s.Metrics.RecordItemsProcessed(tier, n)
	s.Metrics.RecordTierRan(tier)
	s.Logger.Info("tier completed", slog.String("tier", tier), slog.Int("items", n), slog.Duration("duration", time.Since(start)))
}

// fetchAndIngest runs one fetcher and normalizes its output, returning
// the count of Articles inserted. A fetcher or normalize failure is
// returned to the caller, which logs it without aborting sibling
// sources (§4.1: "one source degrading must not fail the tier").
func (s *Scheduler) fetchAndIngest(ctx context.Context, name fetcher.Name, window time.Duration) (int, error) {
	f, ok := s.Fetchers[name]
	if !ok {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.Config.SourceTimeout)
	defer cancel()

	start := time.Now()
	raw, err := f.Fetch(ctx, window)
	if err != nil {
		metrics.RecordFetchError(string(name), "fetch_failed")
		return 0, err
	}
	metrics.RecordFetchTick(string(name), time.Since(start), len(raw))
	if len(raw) == 0 {
		return 0, nil
	}
	recentTitles, err := s.recentTitlesForBatch(ctx, raw)
	if err != nil {
		s.Logger.Warn("fetch and ingest: recent titles lookup failed, title dedup skipped this run", slog.Any("error", err))
	}
	result, err := s.Normalize.Normalize(ctx, raw, recentTitles)
	if err != nil {
		metrics.RecordFetchError(string(name), "normalize_failed")
		return 0, err
	}
	metrics.RecordArticlesSkipped("language", result.SkippedLanguage)
	metrics.RecordArticlesSkipped("duplicate_url", result.SkippedDuplicate)
	metrics.RecordArticlesSkipped("duplicate_title", result.SkippedTitle)
	return result.Inserted, nil
}

// recentTitlesForBatch gathers the title-dedup comparison set for a
// fetched batch: every title ingested in the last 48h from any
// source_domain the batch touches (§4.2 step 4).
func (s *Scheduler) recentTitlesForBatch(ctx context.Context, raw []normalize.RawArticle) ([]string, error) {
	domains := make(map[string]struct{}, len(raw))
	for _, a := range raw {
		if a.SourceDomain != "" {
			domains[a.SourceDomain] = struct{}{}
		}
	}
	if len(domains) == 0 {
		return nil, nil
	}

	since := time.Now().Add(-recentTitleWindow)
	var titles []string
	for domain := range domains {
		t, err := s.Articles.RecentTitles(ctx, domain, since)
		if err != nil {
			return titles, fmt.Errorf("recent titles for %s: %w", domain, err)
		}
		titles = append(titles, t...)
	}
	return titles, nil
}

// Package analysis implements C5: the recompute_event orchestration
// that turns an Event's member Articles into its full set of derived
// and scored fields (§4.4, §4.5), gluing together the pure functions in
// usecase/score and usecase/rank with the Event Store.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/observability/metrics"
	"github.com/geraldfingburke/verinews/internal/repository"
	"github.com/geraldfingburke/verinews/internal/usecase/normalize"
	"github.com/geraldfingburke/verinews/internal/usecase/score"
)

// DeepExcerptThreshold is the snippet length (chars) above which an
// article counts toward the bias compass's "deep" detail axis (§4.5).
const DeepExcerptThreshold = 800

// Service recomputes an Event's full derived+scored state from its
// current member Articles (§4.4 recompute_event, §4.5 Scorer). It is
// the shared implementation invoked by both C3 (after clustering) and
// the scheduler's T2/T3 tiers (after reanalysis).
type Service struct {
	Articles repository.ArticleRepository
	Events   repository.EventRepository
	Registry *entity.SourceRegistry
	Now      func() time.Time

	// Enhancer, when set, lets Tier 3 pull full article content for the
	// handful of events selected for deep excerpt extraction (§4.7: "8
	// events receive full excerpt extraction per run"). It is consulted
	// in-memory only for that pass's scoring/perspective-building — the
	// Article Store's stored Snippet is left untouched.
	Enhancer normalize.ContentEnhancer
}

// NewService constructs an analysis Service.
func NewService(articles repository.ArticleRepository, events repository.EventRepository, registry *entity.SourceRegistry) *Service {
	return &Service{Articles: articles, Events: events, Registry: registry, Now: time.Now}
}

// Recompute reloads eventID's member Articles and rewrites every
// derived/scored Event field (§4.5): "failures in sub-scores default
// that sub-score to 0 but never abort the whole recompute" — each
// component is computed independently and a failure in one never
// blocks the others from being persisted.
func (s *Service) Recompute(ctx context.Context, eventID int64) error {
	return s.recompute(ctx, eventID, false)
}

// RecomputeDeep is Recompute plus full-content excerpt extraction over
// the member set (§4.7 T3 "8 events receive full excerpt extraction").
func (s *Service) RecomputeDeep(ctx context.Context, eventID int64) error {
	return s.recompute(ctx, eventID, true)
}

func (s *Service) recompute(ctx context.Context, eventID int64, deep bool) error {
	start := time.Now()
	event, err := s.Events.Get(ctx, eventID)
	if err != nil {
		return fmt.Errorf("recompute event %d: load event: %w", eventID, err)
	}

	members, err := s.Articles.List(ctx, repository.ArticleFilters{ClusterID: &eventID}, 0, 10000)
	if err != nil {
		return fmt.Errorf("recompute event %d: load members: %w", eventID, err)
	}
	if len(members) == 0 {
		slog.Warn("recompute event: no members found", slog.Int64("event_id", eventID))
		err := s.Events.Recompute(ctx, event)
		if err == nil {
			metrics.RecordEventRecompute(string(event.ConfidenceTier), time.Since(start))
		}
		return err
	}

	if deep && s.Enhancer != nil {
		s.extractExcerpts(ctx, members)
	}

	s.applyCounts(event, members)
	s.applyScoring(event, members)

	if err := s.Events.Recompute(ctx, event); err != nil {
		return fmt.Errorf("recompute event %d: persist: %w", eventID, err)
	}
	metrics.RecordEventRecompute(string(event.ConfidenceTier), time.Since(start))
	return nil
}

// extractExcerpts fetches full article content for members whose stored
// snippet is short, extending their in-memory Snippet for this pass
// only. A fetch failure is logged and that member keeps its original
// snippet, never aborting the rest of the recompute.
func (s *Service) extractExcerpts(ctx context.Context, members []*entity.Article) {
	for _, a := range members {
		if len(a.Snippet) >= DeepExcerptThreshold {
			metrics.RecordContentFetchSkipped()
			continue
		}
		start := time.Now()
		full, err := s.Enhancer.FetchContent(ctx, a.URL)
		if err != nil {
			metrics.RecordContentFetchFailed(time.Since(start))
			slog.Warn("deep excerpt extraction failed", slog.Int64("article_id", a.ID), slog.Any("error", err))
			continue
		}
		metrics.RecordContentFetchSuccess(time.Since(start), len(full))
		if len(full) > len(a.Snippet) {
			a.Snippet = full
		}
	}
}

// applyCounts derives articles_count, unique_sources, first_seen,
// last_seen and geo_diversity from the member set (§4.4
// recompute_event). A RetentionFrozen event's counts are left as-is:
// "freeze articles_count/unique_sources at current values" (§4.7 T5).
func (s *Service) applyCounts(event *entity.Event, members []*entity.Article) {
	if event.RetentionFrozen {
		return
	}

	domains := make(map[string]struct{}, len(members))
	first, last := members[0].Timestamp, members[0].Timestamp
	for _, a := range members {
		domains[a.SourceDomain] = struct{}{}
		if a.Timestamp.Before(first) {
			first = a.Timestamp
		}
		if a.Timestamp.After(last) {
			last = a.Timestamp
		}
	}

	event.ArticlesCount = len(members)
	event.UniqueSources = len(domains)
	event.FirstSeen = first
	event.LastSeen = last
	event.GeoDiversity = geoDiversity(domainList(domains))
}

// applyScoring runs the §4.5 Scorer over the member set: coherence,
// conflict split, bias compass, category, truth score, importance
// score, and the politics/evidence/official-match flags derived from
// them.
func (s *Service) applyScoring(event *entity.Event, members []*entity.Article) {
	embeddings := make([]entity.Embedding, 0, len(members))
	domains := make([]string, 0, len(members))
	entities := make([]string, 0)
	snippetLengths := make([]int, 0, len(members))
	hasOfficial := false

	for _, a := range members {
		if a.Embedding != nil {
			embeddings = append(embeddings, *a.Embedding)
		}
		domains = append(domains, a.SourceDomain)
		entities = append(entities, a.Entities...)
		snippetLengths = append(snippetLengths, len(a.Snippet))
		if entity.OfficialDomains[a.SourceDomain] {
			hasOfficial = true
		}
	}

	event.CoherenceScore = score.Coherence(embeddings)
	event.ConflictSeverity = entity.ConflictSeverityFor(event.CoherenceScore)

	groups := score.ConflictSplit(embeddings)
	event.HasConflict = len(groups) > 1
	if event.HasConflict {
		event.ConflictExplanation = buildConflictExplanation(members, groups, s.Registry)
	} else {
		event.ConflictExplanation = nil
	}

	if s.Registry != nil {
		event.BiasCompass = score.BiasCompass(s.Registry, domains)
	}
	event.BiasCompass.Detail = score.DetailBias(snippetLengths, DeepExcerptThreshold)

	event.Category, event.CategoryConfidence = score.CategorizeEvent(event.Summary, entities)
	event.DerivePoliticsFlag(entities, score.PoliticalEntityLexicon)

	event.OfficialMatch = hasOfficial
	event.EvidenceFlag = hasOfficial && !hasMajorWireCoverage(domains)

	truthScore, _ := score.TruthScore(score.TruthInputs{
		UniqueSources:      event.UniqueSources,
		UniqueTLDCount:     score.UniqueTLDs(domains),
		HasPrimaryEvidence: hasOfficial,
		OfficialMatchAge:   officialMatchAge(hasOfficial, event.FirstSeen, s.now()),
	})
	event.TruthScore = truthScore
	event.DeriveConfidenceTier()

	event.ImportanceScore = score.Importance(score.ImportanceInputs{
		ArticleCountGrowth4h: growth4h(event, members, s.now()),
		GeoDiversity:         event.GeoDiversity,
		PoliticalEntropy:     score.PoliticalEntropy(event.BiasCompass.Political),
		CoherenceScore:       event.CoherenceScore,
	})
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// growth4h approximates §4.5's "article-count growth over last 4h,
// normalized" from the member set itself (the Event Store does not
// retain historical count snapshots): the fraction of members ingested
// in the trailing 4h window.
func growth4h(event *entity.Event, members []*entity.Article, now time.Time) float64 {
	if len(members) == 0 {
		return 0
	}
	cutoff := now.Add(-4 * time.Hour)
	recent := 0
	for _, a := range members {
		if a.IngestedAt.After(cutoff) {
			recent++
		}
	}
	return float64(recent) / float64(len(members))
}

func officialMatchAge(hasOfficial bool, firstSeen, now time.Time) *time.Duration {
	if !hasOfficial {
		return nil
	}
	age := now.Sub(firstSeen)
	return &age
}

func hasMajorWireCoverage(domains []string) bool {
	for _, d := range domains {
		if entity.MajorWireDomains[d] {
			return true
		}
	}
	return false
}

func geoDiversity(domains []string) float64 {
	v := float64(score.UniqueTLDs(domains)) / 4
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

func domainList(domains map[string]struct{}) []string {
	list := make([]string, 0, len(domains))
	for d := range domains {
		list = append(list, d)
	}
	return list
}

// buildConflictExplanation turns a two-way conflict split into the
// Perspective pair the API surfaces (§4.5 conflict explanation).
func buildConflictExplanation(members []*entity.Article, groups [][]int, registry *entity.SourceRegistry) *entity.ConflictExplanation {
	if len(groups) < 2 {
		return nil
	}

	perspectives := make([]entity.Perspective, 0, 2)
	for _, group := range groups[:2] {
		perspectives = append(perspectives, buildPerspective(members, group, registry))
	}

	return &entity.ConflictExplanation{
		Perspectives:   perspectives,
		DifferenceType: entity.DifferenceFraming,
	}
}

func buildPerspective(members []*entity.Article, indices []int, registry *entity.SourceRegistry) entity.Perspective {
	sourceSet := make(map[string]struct{})
	entityCounts := make(map[string]int)
	excerpts := make([]string, 0, 3)
	var repTitle string

	for i, idx := range indices {
		if idx < 0 || idx >= len(members) {
			continue
		}
		a := members[idx]
		sourceSet[a.SourceDomain] = struct{}{}
		for _, e := range a.Entities {
			entityCounts[e]++
		}
		if i == 0 {
			repTitle = a.Title
		}
		if len(excerpts) < 3 && a.Snippet != "" {
			excerpts = append(excerpts, a.Snippet)
		}
	}

	sources := domainList(sourceSet)
	return entity.Perspective{
		Sources:                sources,
		ArticleCount:           len(indices),
		RepresentativeTitle:    repTitle,
		KeyEntities:            topEntities(entityCounts, 5),
		Sentiment:              entity.SentimentNeutral,
		PoliticalLeaning:       dominantLeaning(registry, sources),
		RepresentativeExcerpts: excerpts,
	}
}

// dominantLeaning picks the left/center/right bucket with the highest
// combined registry weight across a perspective's sources, the
// per-group counterpart to the event-level BiasCompass.Political axis.
func dominantLeaning(registry *entity.SourceRegistry, domains []string) string {
	if registry == nil || len(domains) == 0 {
		return "center"
	}

	var left, center, right float64
	for _, d := range domains {
		reg, ok := registry.Lookup(d)
		if !ok {
			center++
			continue
		}
		left += reg.PoliticalBias.Left
		center += reg.PoliticalBias.Center
		right += reg.PoliticalBias.Right
	}

	switch {
	case left >= center && left >= right:
		return "left"
	case right >= center && right >= left:
		return "right"
	default:
		return "center"
	}
}

// topEntities returns up to n entity names ordered by frequency
// descending, ties broken by first-seen order (map iteration is
// non-deterministic so a stable pass over entityCounts' insertion order
// isn't available; ties resolve arbitrarily but stably within one call).
func topEntities(counts map[string]int, n int) []string {
	type kv struct {
		k string
		v int
	}
	list := make([]kv, 0, len(counts))
	for k, v := range counts {
		list = append(list, kv{k, v})
	}
	for i := 1; i < len(list); i++ {
		for j := i; j > 0 && list[j].v > list[j-1].v; j-- {
			list[j], list[j-1] = list[j-1], list[j]
		}
	}
	if len(list) > n {
		list = list[:n]
	}
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.k
	}
	return out
}

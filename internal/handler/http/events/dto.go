// Package events provides the read-only HTTP query surface over Events
// and their member Articles: listing, detail, conflicts, search, stats,
// flagged articles and polarizing sources.
package events

import (
	"time"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/repository"
	"github.com/geraldfingburke/verinews/internal/usecase/score"
)

// Page is the envelope every list endpoint returns.
type Page[T any] struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	Results []T   `json:"results"`
}

// NewPage builds a Page, defensively emitting an empty slice rather
// than null when there are no results.
func NewPage[T any](total int64, limit, offset int, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{Total: total, Limit: limit, Offset: offset, Results: results}
}

// Summary is the list-row shape shared by list_events, list_conflicts
// and search_events.
type Summary struct {
	ID               int64                  `json:"id"`
	Summary          string                 `json:"summary"`
	Category         entity.Category        `json:"category"`
	ConfidenceTier   entity.ConfidenceTier   `json:"confidence_tier"`
	TruthScore       float64                `json:"truth_score"`
	ImportanceScore  float64                `json:"importance_score"`
	ArticlesCount    int                    `json:"articles_count"`
	UniqueSources    int                    `json:"unique_sources"`
	HasConflict      bool                   `json:"has_conflict"`
	ConflictSeverity entity.ConflictSeverity `json:"conflict_severity"`
	PoliticsFlag     bool                   `json:"politics_flag"`
	FirstSeen        time.Time              `json:"first_seen"`
	LastSeen         time.Time              `json:"last_seen"`
}

func toSummary(e *entity.Event) Summary {
	return Summary{
		ID:               e.ID,
		Summary:          e.Summary,
		Category:         e.Category,
		ConfidenceTier:   e.ConfidenceTier,
		TruthScore:       e.TruthScore,
		ImportanceScore:  e.ImportanceScore,
		ArticlesCount:    e.ArticlesCount,
		UniqueSources:    e.UniqueSources,
		HasConflict:      e.HasConflict,
		ConflictSeverity: e.ConflictSeverity,
		PoliticsFlag:     e.PoliticsFlag,
		FirstSeen:        e.FirstSeen,
		LastSeen:         e.LastSeen,
	}
}

// ArticleSummary is one member article inside an event's detail view.
type ArticleSummary struct {
	ID              int64                  `json:"id"`
	URL             string                 `json:"url"`
	SourceDomain    string                 `json:"source_domain"`
	Title           string                 `json:"title"`
	Summary         string                 `json:"summary"`
	Timestamp       time.Time              `json:"timestamp"`
	Language        string                 `json:"language"`
	Entities        []string               `json:"entities"`
	FactCheckStatus entity.FactCheckStatus `json:"fact_check_status"`
	FactCheckFlags  []entity.FactCheckFlag `json:"fact_check_flags,omitempty"`
}

func toArticleSummary(a *entity.Article) ArticleSummary {
	return ArticleSummary{
		ID:              a.ID,
		URL:             a.URL,
		SourceDomain:    a.SourceDomain,
		Title:           a.Title,
		Summary:         a.Summary,
		Timestamp:       a.Timestamp,
		Language:        a.Language,
		Entities:        a.Entities,
		FactCheckStatus: a.FactCheckStatus,
		FactCheckFlags:  a.FactCheckFlags,
	}
}

// WeightedFactor is one component of the scoring breakdown: its
// measured value, the weight the Scorer (C5) gives it, and a short
// human-facing explanation of what it measures.
type WeightedFactor struct {
	Value       float64 `json:"value"`
	Weight      float64 `json:"weight"`
	Explanation string  `json:"explanation"`
}

// ScoringBreakdown reconstructs the truth-score components from an
// Event's persisted, derived fields. OfficialMatch is reported as a
// boolean-valued factor: the original match-age decay (score.TruthInputs.
// OfficialMatchAge) isn't itself persisted on the Event, only whether a
// match was found.
type ScoringBreakdown struct {
	SourceDiversity WeightedFactor `json:"source_diversity"`
	GeoDiversity    WeightedFactor `json:"geo_diversity"`
	PrimaryEvidence WeightedFactor `json:"primary_evidence"`
	OfficialMatch   WeightedFactor `json:"official_match"`
}

func toScoringBreakdown(e *entity.Event) ScoringBreakdown {
	sourceDiversity := float64(e.UniqueSources) / 5
	if sourceDiversity > 1 {
		sourceDiversity = 1
	}
	officialMatch := 0.0
	if e.OfficialMatch {
		officialMatch = 1.0
	}
	evidence := 0.0
	if e.EvidenceFlag {
		evidence = 1.0
	}

	return ScoringBreakdown{
		SourceDiversity: WeightedFactor{
			Value:       sourceDiversity,
			Weight:      score.WeightSourceDiversity,
			Explanation: "unique source domains, capped at 5",
		},
		GeoDiversity: WeightedFactor{
			Value:       e.GeoDiversity,
			Weight:      score.WeightGeoDiversity,
			Explanation: "unique top-level domains across member articles",
		},
		PrimaryEvidence: WeightedFactor{
			Value:       evidence,
			Weight:      score.WeightPrimaryEvidence,
			Explanation: "at least one article cites primary evidence",
		},
		OfficialMatch: WeightedFactor{
			Value:       officialMatch,
			Weight:      score.WeightOfficialMatch,
			Explanation: "a matching official-feed event was found within the correlation window",
		},
	}
}

// Detail is the get_event response shape: everything in Summary, plus
// member articles, scoring breakdown, bias compass, conflict
// explanation and international coverage.
type Detail struct {
	Summary
	Articles              []ArticleSummary             `json:"articles"`
	ScoringBreakdown      ScoringBreakdown              `json:"scoring_breakdown"`
	BiasCompass           entity.BiasCompass            `json:"bias_compass"`
	InternationalCoverage entity.RegionalCoverage       `json:"international_coverage,omitempty"`
	ConflictExplanation   *entity.ConflictExplanation    `json:"conflict_explanation,omitempty"`
}

func toDetail(e *entity.Event, articles []*entity.Article) Detail {
	articleDTOs := make([]ArticleSummary, 0, len(articles))
	for _, a := range articles {
		articleDTOs = append(articleDTOs, toArticleSummary(a))
	}
	return Detail{
		Summary:               toSummary(e),
		Articles:              articleDTOs,
		ScoringBreakdown:      toScoringBreakdown(e),
		BiasCompass:           e.BiasCompass,
		InternationalCoverage: e.InternationalCoverage,
		ConflictExplanation:   e.ConflictExplanation,
	}
}

// StatsSummary is the stats_summary response shape.
type StatsSummary struct {
	TotalEvents       int64                            `json:"total_events"`
	ByConfidenceTier  map[entity.ConfidenceTier]int64   `json:"by_confidence_tier"`
	ActiveConflicts   int64                            `json:"active_conflicts"`
	AverageTruthScore float64                          `json:"average_truth_score"`
	LastIngestion     *time.Time                       `json:"last_ingestion"`
}

// FlaggedArticle is one row of the flagged_articles response: an
// article whose fact-check status is disputed or false.
type FlaggedArticle struct {
	ArticleSummary
	Severity entity.ConflictSeverity `json:"severity"`
}

func toFlaggedArticle(a *entity.Article, severity entity.ConflictSeverity) FlaggedArticle {
	return FlaggedArticle{ArticleSummary: toArticleSummary(a), Severity: severity}
}

// PolarizingSource is one row of the polarizing_sources ranking.
type PolarizingSource struct {
	Domain         string  `json:"domain"`
	ConflictEvents int64   `json:"conflict_events"`
	TotalEvents    int64   `json:"total_events"`
	ConflictRatio  float64 `json:"conflict_ratio"`
}

func toPolarizingSource(p repository.SourcePolarization) PolarizingSource {
	ratio := 0.0
	if p.TotalEvents > 0 {
		ratio = float64(p.ConflictEvents) / float64(p.TotalEvents)
	}
	return PolarizingSource{
		Domain:         p.Domain,
		ConflictEvents: p.ConflictEvents,
		TotalEvents:    p.TotalEvents,
		ConflictRatio:  ratio,
	}
}

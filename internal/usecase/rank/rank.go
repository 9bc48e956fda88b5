// Package rank implements C6: ranking a set of candidate Events for a
// section tag, including the aged-importance/recency/quality/momentum
// formula and the post-sort diversity pass.
package rank

import (
	"math"
	"sort"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
)

// Section is a presentation tier tag (§4.6 Tier weights).
type Section string

// Section values.
const (
	SectionConfirmed  Section = "confirmed"
	SectionDeveloping Section = "developing"
	SectionConflicts  Section = "conflicts"
	SectionAll        Section = "all"
)

// tierWeight holds the (importance, quality, recency) dot-product
// weights for one section (§4.6 Tier weights table).
type tierWeight struct {
	importance, quality, recency float64
}

var tierWeights = map[Section]tierWeight{
	SectionConfirmed:  {importance: 0.20, quality: 0.20, recency: 0.60},
	SectionDeveloping: {importance: 0.20, quality: 0.15, recency: 0.65},
	SectionConflicts:  {importance: 0.40, quality: 0.15, recency: 0.45},
	SectionAll:        {importance: 0.15, quality: 0.20, recency: 0.65},
}

// Candidate is the ranker's per-Event working value: the Event plus its
// derived hours_old (computed by the caller from Event.LastSeen so this
// package stays a pure function of its inputs, property 6 §8).
type Candidate struct {
	Event    *entity.Event
	HoursOld float64
}

// AgedImportance implements §4.6: importance_score × exp(−hours_old/168).
func AgedImportance(importanceScore, hoursOld float64) float64 {
	return importanceScore * math.Exp(-hoursOld/168)
}

// RecencyScore implements §4.6's smooth monotonic decay.
func RecencyScore(hoursOld float64) float64 {
	if hoursOld <= 4 {
		return 1.0
	}
	return 0.8 * math.Exp(-(hoursOld-4)/48)
}

// QualityScore implements §4.6: 0.6×(truth_score/100) + 0.4×min(unique_sources/5,1).
func QualityScore(truthScore float64, uniqueSources int) float64 {
	return 0.6*(truthScore/100) + 0.4*math.Min(float64(uniqueSources)/5, 1)
}

// MomentumMultiplier implements §4.6's three-way momentum rule.
func MomentumMultiplier(hoursOld float64, articlesCount int) float64 {
	switch {
	case hoursOld <= 24 && articlesCount >= 5:
		return 1.08
	case hoursOld > 72 && articlesCount == 0:
		return 0.90
	default:
		return 1.00
	}
}

// BaseScore computes one candidate's pre-diversity-pass score for a
// section (§4.6): dot product of (aged_importance/100, quality,
// recency) against the section's tier weights, times the momentum
// multiplier.
func BaseScore(section Section, c Candidate) float64 {
	w := tierWeights[section]
	aged := AgedImportance(c.Event.ImportanceScore, c.HoursOld) / 100
	quality := QualityScore(c.Event.TruthScore, c.Event.UniqueSources)
	recency := RecencyScore(c.HoursOld)
	momentum := MomentumMultiplier(c.HoursOld, c.Event.ArticlesCount)

	return (w.importance*aged + w.quality*quality + w.recency*recency) * momentum
}

// scored pairs a Candidate with its working score through both sort
// passes.
type scored struct {
	Candidate
	score float64
}

// Rank orders candidates for a section per §4.6: base-score sort, a
// diversity-boost recompute over the current top 10 categories, then a
// final re-sort. Ties break by LastSeen descending then ID ascending,
// which also makes repeated ranking of the same input deterministic
// (property 6, §8).
func Rank(section Section, candidates []Candidate) []*entity.Event {
	scoredList := make([]scored, len(candidates))
	for i, c := range candidates {
		scoredList[i] = scored{Candidate: c, score: BaseScore(section, c)}
	}

	sortScored(scoredList)

	top10 := scoredList
	if len(top10) > 10 {
		top10 = top10[:10]
	}
	topCategoryCounts := make(map[entity.Category]int)
	for _, s := range top10 {
		topCategoryCounts[s.Candidate.Event.Category]++
	}
	var topCategory entity.Category
	if len(top10) > 0 {
		topCategory = top10[0].Candidate.Event.Category
	}

	for i := range scoredList {
		scoredList[i].score = applyDiversityBoost(scoredList[i], i, topCategory, topCategoryCounts)
	}

	sortScored(scoredList)

	out := make([]*entity.Event, len(scoredList))
	for i, s := range scoredList {
		out[i] = s.Candidate.Event
	}
	return out
}

// applyDiversityBoost implements §4.6's position-banded diversity pass.
func applyDiversityBoost(s scored, position int, topCategory entity.Category, topCounts map[entity.Category]int) float64 {
	category := s.Candidate.Event.Category
	count := topCounts[category]

	switch {
	case position < 3:
		if category != topCategory {
			return s.score * 1.03
		}
	case position < 20:
		switch count {
		case 0:
			return s.score * 1.10
		case 1:
			return s.score * 1.05
		}
	default:
		if count == 0 {
			return s.score * 1.15
		}
	}
	return s.score
}

func sortScored(list []scored) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].score != list[j].score {
			return list[i].score > list[j].score
		}
		if !list[i].Candidate.Event.LastSeen.Equal(list[j].Candidate.Event.LastSeen) {
			return list[i].Candidate.Event.LastSeen.After(list[j].Candidate.Event.LastSeen)
		}
		return list[i].Candidate.Event.ID < list[j].Candidate.Event.ID
	})
}

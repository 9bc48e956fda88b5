package events

import (
	"context"
	"time"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/repository"
	"github.com/geraldfingburke/verinews/internal/usecase/rank"
)

// rankPoolCap bounds how many filter-matching Events are pulled into
// memory to be ranked before a page is sliced out. Filters are applied
// in the repository query (§4.8: filters before pagination); this cap
// only bounds how deep the ranked pool goes, so it must comfortably
// exceed any offset+limit a client is allowed to request (limit<=100).
const rankPoolCap = 1000

// Handlers groups the repositories the query surface reads from. It is
// shared by every handler in this package.
type Handlers struct {
	Events   repository.EventRepository
	Articles repository.ArticleRepository
}

// rankedPage fetches every Event matching filters (up to rankPoolCap),
// ranks it for the given section, then slices out [offset, offset+limit).
// Ranking spans the whole matching pool rather than one DB page so the
// diversity pass (§4.6) sees the same top-10 category mix regardless of
// which page a client asks for.
func (h Handlers) rankedPage(ctx context.Context, filters repository.EventFilters, section rank.Section, offset, limit int) (Page[Summary], error) {
	total, err := h.Events.Count(ctx, filters)
	if err != nil {
		return Page[Summary]{}, err
	}

	poolSize := rankPoolCap
	if total < int64(poolSize) {
		poolSize = int(total)
	}

	pool, err := h.Events.List(ctx, filters, 0, poolSize)
	if err != nil {
		return Page[Summary]{}, err
	}

	now := time.Now()
	candidates := make([]rank.Candidate, 0, len(pool))
	for _, e := range pool {
		candidates = append(candidates, rank.Candidate{
			Event:    e,
			HoursOld: now.Sub(e.LastSeen).Hours(),
		})
	}
	ranked := rank.Rank(section, candidates)

	start := offset
	if start > len(ranked) {
		start = len(ranked)
	}
	end := start + limit
	if end > len(ranked) {
		end = len(ranked)
	}

	summaries := make([]Summary, 0, end-start)
	for _, e := range ranked[start:end] {
		summaries = append(summaries, toSummary(e))
	}

	return NewPage(total, limit, offset, summaries), nil
}

// statusToTier maps a `status` query param to the tier filter(s) for
// list_events. `unverified` is never reachable this way: the default
// ("") and "all" both resolve to the {confirmed, developing} set
// rather than no filter at all, keeping unverified Events off the
// default query surface (§4.5).
func statusToTier(status string) (tier *entity.ConfidenceTier, tiers []entity.ConfidenceTier, section rank.Section, err error) {
	switch status {
	case "", "all":
		return nil, []entity.ConfidenceTier{entity.TierConfirmed, entity.TierDeveloping}, rank.SectionAll, nil
	case "confirmed":
		t := entity.TierConfirmed
		return &t, nil, rank.SectionConfirmed, nil
	case "developing":
		t := entity.TierDeveloping
		return &t, nil, rank.SectionDeveloping, nil
	default:
		return nil, nil, "", errInvalidStatus
	}
}


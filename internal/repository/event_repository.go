package repository

import (
	"context"
	"time"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
)

// EventFilters contains optional filters for the query surface (§4.8
// C8 list_events, list_conflicts, search_events). Filters are applied
// before pagination per the filter-before-paginate requirement.
type EventFilters struct {
	Category       *entity.Category
	ConfidenceTier *entity.ConfidenceTier

	// ConfidenceTiers restricts results to any tier in the set, used to
	// hide `unverified` from the default query surface (§4.5) without
	// pinning the result to a single tier the way ConfidenceTier does.
	// Ignored when ConfidenceTier is set.
	ConfidenceTiers []entity.ConfidenceTier

	HasConflict   *bool
	PoliticsFlag  *bool
	MinImportance *float64
	Query         string // full-text match against Summary
	From          *time.Time
	To            *time.Time
}

// EventRepository is the Event Store's event-facing surface (§4.4 C4,
// §4.8 C8). All writes are part of a transaction shared with the
// accompanying Article write.
type EventRepository interface {
	Get(ctx context.Context, id int64) (*entity.Event, error)
	List(ctx context.Context, filters EventFilters, offset, limit int) ([]*entity.Event, error)
	Count(ctx context.Context, filters EventFilters) (int64, error)

	// CreateOrGetForArticle implements §4.3 create_or_get_event: if the
	// candidate cluster ID names an existing open Event it is returned,
	// otherwise a new Event is created and returned.
	CreateOrGetForArticle(ctx context.Context, article *entity.Article) (*entity.Event, error)

	// Recompute persists a full rewrite of an Event's derived and scored
	// fields (§4.5 Scorer, §4.4 recompute_event). Called within the same
	// transaction as any Article mutation that triggered it.
	Recompute(ctx context.Context, event *entity.Event) error

	// TouchedSince returns Events last updated at or after `since`,
	// most-recent first, the Tier 3 reanalysis unit of work (§4.7): only
	// Events touched within the re-clustering window are re-scored.
	TouchedSince(ctx context.Context, since time.Time, limit int) ([]*entity.Event, error)

	// Stats returns aggregate counters for the stats_summary endpoint
	// (§4.8): total events, events by confidence tier, events with
	// active conflicts.
	Stats(ctx context.Context) (EventStats, error)

	// FlaggedArticles returns Articles whose FactCheckStatus is disputed
	// or false, joined through their owning Event (§4.8 flagged_articles),
	// along with the total count matching filters before pagination.
	FlaggedArticles(ctx context.Context, filters FlaggedArticleFilters, offset, limit int) ([]FlaggedArticle, int64, error)

	// PolarizingSources ranks source domains by how often their articles
	// land in high-conflict Events (§4.8 polarizing_sources).
	PolarizingSources(ctx context.Context, minArticles int, limit int) ([]SourcePolarization, error)

	// FreezeStale marks every non-frozen Event whose last_seen falls
	// before `before` as retention_frozen, leaving articles_count and
	// unique_sources at their current values (§4.7 Tier 5 cleanup: "do
	// not recompute downward after expiry"). Returns the count frozen.
	FreezeStale(ctx context.Context, before time.Time) (int64, error)
}

// FlaggedArticleFilters narrows the flagged_articles endpoint (§4.8):
// Severity matches the owning Event's ConflictSeverity, Source matches
// the Article's source domain, Since bounds IngestedAt from below.
type FlaggedArticleFilters struct {
	Severity *entity.ConflictSeverity
	Source   string
	Since    *time.Time
}

// FlaggedArticle pairs an Article with the conflict severity of the
// Event it belongs to, since severity lives on the Event row, not the
// Article row.
type FlaggedArticle struct {
	Article  *entity.Article
	Severity entity.ConflictSeverity
}

// EventStats is the aggregate payload for the stats_summary endpoint.
type EventStats struct {
	TotalEvents       int64
	ByConfidenceTier  map[entity.ConfidenceTier]int64
	ActiveConflicts   int64
	AverageTruthScore float64
}

// SourcePolarization is one row of the polarizing_sources ranking.
type SourcePolarization struct {
	Domain          string
	ConflictEvents  int64
	TotalEvents     int64
}

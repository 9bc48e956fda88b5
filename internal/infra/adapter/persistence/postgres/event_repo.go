package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/repository"
)

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) repository.EventRepository {
	return &EventRepo{db: db}
}

const eventColumns = `id, summary, articles_count, unique_sources, first_seen, last_seen,
	   truth_score, confidence_tier, importance_score, coherence_score,
	   has_conflict, conflict_severity, conflict_explanation, bias_compass,
	   international_coverage, category, category_confidence,
	   politics_flag, evidence_flag, official_match, geo_diversity, retention_frozen`

func scanEvent(row interface {
	Scan(dest ...interface{}) error
}) (*entity.Event, error) {
	var e entity.Event
	var conflictJSON, biasJSON, coverageJSON []byte

	if err := row.Scan(&e.ID, &e.Summary, &e.ArticlesCount, &e.UniqueSources,
		&e.FirstSeen, &e.LastSeen, &e.TruthScore, &e.ConfidenceTier,
		&e.ImportanceScore, &e.CoherenceScore, &e.HasConflict, &e.ConflictSeverity,
		&conflictJSON, &biasJSON, &coverageJSON, &e.Category, &e.CategoryConfidence,
		&e.PoliticsFlag, &e.EvidenceFlag, &e.OfficialMatch, &e.GeoDiversity,
		&e.RetentionFrozen); err != nil {
		return nil, err
	}

	if len(conflictJSON) > 0 {
		var ce entity.ConflictExplanation
		if err := json.Unmarshal(conflictJSON, &ce); err != nil {
			return nil, fmt.Errorf("unmarshal conflict_explanation: %w", err)
		}
		e.ConflictExplanation = &ce
	}
	if len(biasJSON) > 0 {
		if err := json.Unmarshal(biasJSON, &e.BiasCompass); err != nil {
			return nil, fmt.Errorf("unmarshal bias_compass: %w", err)
		}
	}
	if len(coverageJSON) > 0 {
		if err := json.Unmarshal(coverageJSON, &e.InternationalCoverage); err != nil {
			return nil, fmt.Errorf("unmarshal international_coverage: %w", err)
		}
	}
	return &e, nil
}

func (repo *EventRepo) Get(ctx context.Context, id int64) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return e, nil
}

func buildEventWhereClause(filters repository.EventFilters) (clause string, args []interface{}) {
	var conditions []string
	paramIndex := 1

	if filters.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", paramIndex))
		args = append(args, *filters.Category)
		paramIndex++
	}
	switch {
	case filters.ConfidenceTier != nil:
		conditions = append(conditions, fmt.Sprintf("confidence_tier = $%d", paramIndex))
		args = append(args, *filters.ConfidenceTier)
		paramIndex++
	case len(filters.ConfidenceTiers) > 0:
		placeholders := make([]string, len(filters.ConfidenceTiers))
		for i, tier := range filters.ConfidenceTiers {
			placeholders[i] = fmt.Sprintf("$%d", paramIndex)
			args = append(args, tier)
			paramIndex++
		}
		conditions = append(conditions, fmt.Sprintf("confidence_tier IN (%s)", strings.Join(placeholders, ", ")))
	}
	if filters.HasConflict != nil {
		conditions = append(conditions, fmt.Sprintf("has_conflict = $%d", paramIndex))
		args = append(args, *filters.HasConflict)
		paramIndex++
	}
	if filters.PoliticsFlag != nil {
		conditions = append(conditions, fmt.Sprintf("politics_flag = $%d", paramIndex))
		args = append(args, *filters.PoliticsFlag)
		paramIndex++
	}
	if filters.MinImportance != nil {
		conditions = append(conditions, fmt.Sprintf("importance_score >= $%d", paramIndex))
		args = append(args, *filters.MinImportance)
		paramIndex++
	}
	if filters.Query != "" {
		// Matches §4.8 search_events: substring over the event summary
		// or any member article's extracted entities.
		conditions = append(conditions, fmt.Sprintf(`(summary ILIKE $%d OR EXISTS (
			SELECT 1 FROM articles a, jsonb_array_elements_text(a.entities) ent
			WHERE a.cluster_id = events.id AND ent ILIKE $%d
		))`, paramIndex, paramIndex))
		args = append(args, "%"+filters.Query+"%")
		paramIndex++
	}
	if filters.From != nil {
		conditions = append(conditions, fmt.Sprintf("last_seen >= $%d", paramIndex))
		args = append(args, *filters.From)
		paramIndex++
	}
	if filters.To != nil {
		conditions = append(conditions, fmt.Sprintf("last_seen <= $%d", paramIndex))
		args = append(args, *filters.To)
		paramIndex++
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// List implements query_events (§4.4) with the filter-before-paginate
// requirement (§4.8, §8): every filter is applied in the WHERE clause,
// never after fetching a page.
func (repo *EventRepo) List(ctx context.Context, filters repository.EventFilters, offset, limit int) ([]*entity.Event, error) {
	where, args := buildEventWhereClause(filters)
	query := `SELECT ` + eventColumns + ` FROM events ` + where +
		fmt.Sprintf(` ORDER BY last_seen DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := make([]*entity.Event, 0, limit)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (repo *EventRepo) Count(ctx context.Context, filters repository.EventFilters) (int64, error) {
	where, args := buildEventWhereClause(filters)
	query := `SELECT COUNT(*) FROM events ` + where
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

// CreateOrGetForArticle implements create_or_get_event (§4.3, §4.4): if
// the article already carries a ClusterID the owning Event is returned
// as-is; otherwise a fresh Event row is created and the article wired
// to it within the caller's transaction.
func (repo *EventRepo) CreateOrGetForArticle(ctx context.Context, article *entity.Article) (*entity.Event, error) {
	if article.ClusterID != nil {
		return repo.Get(ctx, *article.ClusterID)
	}

	now := article.IngestedAt
	const insert = `
INSERT INTO events
       (summary, articles_count, unique_sources, first_seen, last_seen,
        truth_score, confidence_tier, importance_score, coherence_score,
        has_conflict, conflict_severity, conflict_explanation, bias_compass,
        international_coverage, category, category_confidence,
        politics_flag, evidence_flag, official_match, geo_diversity, retention_frozen)
VALUES ($1, 1, 1, $2, $2, 0, $3, 0, 100, FALSE, $4, NULL, NULL, NULL, $5, 0, FALSE, FALSE, FALSE, 0, FALSE)
RETURNING id`
	var id int64
	err := repo.db.QueryRowContext(ctx, insert,
		article.Title, now, entity.TierUnverified, entity.ConflictNone, entity.CategoryOther,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("CreateOrGetForArticle: %w", err)
	}
	return repo.Get(ctx, id)
}

// Recompute persists a full rewrite of an Event's derived and scored
// fields (§4.5 Scorer, §4.4 recompute_event).
func (repo *EventRepo) Recompute(ctx context.Context, event *entity.Event) error {
	conflictJSON, err := json.Marshal(event.ConflictExplanation)
	if err != nil {
		return fmt.Errorf("Recompute: marshal conflict_explanation: %w", err)
	}
	biasJSON, err := json.Marshal(event.BiasCompass)
	if err != nil {
		return fmt.Errorf("Recompute: marshal bias_compass: %w", err)
	}
	coverageJSON, err := json.Marshal(event.InternationalCoverage)
	if err != nil {
		return fmt.Errorf("Recompute: marshal international_coverage: %w", err)
	}

	const query = `
UPDATE events SET
       summary = $1, articles_count = $2, unique_sources = $3,
       first_seen = $4, last_seen = $5, truth_score = $6, confidence_tier = $7,
       importance_score = $8, coherence_score = $9, has_conflict = $10,
       conflict_severity = $11, conflict_explanation = $12, bias_compass = $13,
       international_coverage = $14, category = $15, category_confidence = $16,
       politics_flag = $17, evidence_flag = $18, official_match = $19,
       geo_diversity = $20, retention_frozen = $21
WHERE id = $22`
	_, err = repo.db.ExecContext(ctx, query,
		event.Summary, event.ArticlesCount, event.UniqueSources,
		event.FirstSeen, event.LastSeen, event.TruthScore, event.ConfidenceTier,
		event.ImportanceScore, event.CoherenceScore, event.HasConflict,
		event.ConflictSeverity, conflictJSON, biasJSON, coverageJSON,
		event.Category, event.CategoryConfidence, event.PoliticsFlag,
		event.EvidenceFlag, event.OfficialMatch, event.GeoDiversity,
		event.RetentionFrozen, event.ID,
	)
	if err != nil {
		return fmt.Errorf("Recompute: %w", err)
	}
	return nil
}

// TouchedSince implements the Tier 3 reanalysis unit of work (§4.7):
// Events whose last_seen falls inside the re-clustering window.
func (repo *EventRepo) TouchedSince(ctx context.Context, since time.Time, limit int) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE last_seen >= $1 ORDER BY last_seen DESC LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("TouchedSince: %w", err)
	}
	defer func() { _ = rows.Close() }()

	events := make([]*entity.Event, 0, limit)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("TouchedSince: Scan: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// FreezeStale implements §4.7 Tier 5 cleanup's retention freeze: events
// untouched since `before` stop being recomputed downward and are
// flagged retention_frozen, leaving their current counts as the
// permanent record.
func (repo *EventRepo) FreezeStale(ctx context.Context, before time.Time) (int64, error) {
	const query = `UPDATE events SET retention_frozen = TRUE WHERE last_seen < $1 AND retention_frozen = FALSE`
	res, err := repo.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("FreezeStale: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("FreezeStale: rows affected: %w", err)
	}
	return count, nil
}

func (repo *EventRepo) Stats(ctx context.Context) (repository.EventStats, error) {
	var stats repository.EventStats
	stats.ByConfidenceTier = make(map[entity.ConfidenceTier]int64)

	const totalsQuery = `SELECT COUNT(*), COALESCE(AVG(truth_score), 0) FROM events`
	if err := repo.db.QueryRowContext(ctx, totalsQuery).Scan(&stats.TotalEvents, &stats.AverageTruthScore); err != nil {
		return stats, fmt.Errorf("Stats: totals: %w", err)
	}

	const conflictsQuery = `SELECT COUNT(*) FROM events WHERE has_conflict = TRUE`
	if err := repo.db.QueryRowContext(ctx, conflictsQuery).Scan(&stats.ActiveConflicts); err != nil {
		return stats, fmt.Errorf("Stats: conflicts: %w", err)
	}

	const tierQuery = `SELECT confidence_tier, COUNT(*) FROM events GROUP BY confidence_tier`
	rows, err := repo.db.QueryContext(ctx, tierQuery)
	if err != nil {
		return stats, fmt.Errorf("Stats: tiers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var tier entity.ConfidenceTier
		var count int64
		if err := rows.Scan(&tier, &count); err != nil {
			return stats, fmt.Errorf("Stats: tiers scan: %w", err)
		}
		stats.ByConfidenceTier[tier] = count
	}
	return stats, rows.Err()
}

func (repo *EventRepo) FlaggedArticles(ctx context.Context, filters repository.FlaggedArticleFilters, offset, limit int) ([]*entity.Article, int64, error) {
	where := []string{"a.fact_check_status IN ($1, $2)"}
	args := []interface{}{entity.FactCheckDisputed, entity.FactCheckFalse}

	if filters.Severity != nil {
		where = append(where, fmt.Sprintf("e.conflict_severity = $%d", len(args)+1))
		args = append(args, *filters.Severity)
	}
	if filters.Source != "" {
		where = append(where, fmt.Sprintf("a.source_domain = $%d", len(args)+1))
		args = append(args, filters.Source)
	}
	if filters.Since != nil {
		where = append(where, fmt.Sprintf("a.ingested_at >= $%d", len(args)+1))
		args = append(args, *filters.Since)
	}
	whereClause := strings.Join(where, " AND ")

	countQuery := `SELECT COUNT(*) FROM articles a JOIN events e ON e.id = a.cluster_id WHERE ` + whereClause
	var total int64
	if err := repo.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("FlaggedArticles: count: %w", err)
	}

	const flaggedArticleColumns = `a.id, a.url, a.source_domain, a.title, a.summary, a.snippet, a."timestamp", a.ingested_at,
	   a.language, a.entities, a.cluster_id, a.embedding, a.fact_check_status, a.fact_check_flags, e.conflict_severity`

	query := `SELECT ` + flaggedArticleColumns + ` FROM articles a
JOIN events e ON e.id = a.cluster_id
WHERE ` + whereClause + `
ORDER BY a.ingested_at DESC
LIMIT $` + fmt.Sprintf("%d", len(args)+1) + ` OFFSET $` + fmt.Sprintf("%d", len(args)+2)
	args = append(args, limit, offset)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("FlaggedArticles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	flagged := make([]repository.FlaggedArticle, 0, limit)
	for rows.Next() {
		var a entity.Article
		var entitiesJSON, flagsJSON []byte
		var clusterID sql.NullInt64
		var severity entity.ConflictSeverity
		if err := rows.Scan(&a.ID, &a.URL, &a.SourceDomain, &a.Title, &a.Summary, &a.Snippet,
			&a.Timestamp, &a.IngestedAt, &a.Language, &entitiesJSON, &clusterID, new(interface{}),
			&a.FactCheckStatus, &flagsJSON, &severity); err != nil {
			return nil, 0, fmt.Errorf("FlaggedArticles: Scan: %w", err)
		}
		if clusterID.Valid {
			id := clusterID.Int64
			a.ClusterID = &id
		}
		if len(entitiesJSON) > 0 {
			if err := json.Unmarshal(entitiesJSON, &a.Entities); err != nil {
				return nil, 0, fmt.Errorf("FlaggedArticles: unmarshal entities: %w", err)
			}
		}
		if len(flagsJSON) > 0 {
			if err := json.Unmarshal(flagsJSON, &a.FactCheckFlags); err != nil {
				return nil, 0, fmt.Errorf("FlaggedArticles: unmarshal fact_check_flags: %w", err)
			}
		}
		flagged = append(flagged, repository.FlaggedArticle{Article: &a, Severity: severity})
	}
	return flagged, total, rows.Err()
}

// PolarizingSources implements §4.8 polarizing_sources: source domains
// ranked by the fraction of their articles landing in high/medium
// conflict events.
func (repo *EventRepo) PolarizingSources(ctx context.Context, minArticles int, limit int) ([]repository.SourcePolarization, error) {
	const query = `
SELECT a.source_domain,
       COUNT(*) FILTER (WHERE e.has_conflict) AS conflict_events,
       COUNT(*) AS total_events
FROM articles a
JOIN events e ON e.id = a.cluster_id
WHERE a.source_domain IS NOT NULL AND a.source_domain != ''
GROUP BY a.source_domain
HAVING COUNT(*) FILTER (WHERE e.has_conflict) > 0 AND COUNT(*) >= $1
ORDER BY conflict_events DESC, total_events DESC
LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, minArticles, limit)
	if err != nil {
		return nil, fmt.Errorf("PolarizingSources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]repository.SourcePolarization, 0, limit)
	for rows.Next() {
		var p repository.SourcePolarization
		if err := rows.Scan(&p.Domain, &p.ConflictEvents, &p.TotalEvents); err != nil {
			return nil, fmt.Errorf("PolarizingSources: Scan: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

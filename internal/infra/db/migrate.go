package db

import "database/sql"

// MigrateUp creates the schema backing the Event Store (C4): articles
// and events, plus the indexes each tier's query pattern relies on.
func MigrateUp(db *sql.DB) error {
	// pgvector extension backs the Embedder+Clusterer's nearest-neighbor
	// query (§4.3). Ignored if it cannot be created (e.g. non-superuser
	// connection against a database where it's already installed).
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`)

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS events (
    id                     SERIAL PRIMARY KEY,
    summary                TEXT NOT NULL DEFAULT '',
    articles_count         INTEGER NOT NULL DEFAULT 0,
    unique_sources         INTEGER NOT NULL DEFAULT 0,
    first_seen             TIMESTAMPTZ NOT NULL,
    last_seen              TIMESTAMPTZ NOT NULL,
    truth_score            DOUBLE PRECISION NOT NULL DEFAULT 0,
    confidence_tier        VARCHAR(20) NOT NULL DEFAULT 'unverified',
    importance_score       DOUBLE PRECISION NOT NULL DEFAULT 0,
    coherence_score        DOUBLE PRECISION NOT NULL DEFAULT 100,
    has_conflict           BOOLEAN NOT NULL DEFAULT FALSE,
    conflict_severity      VARCHAR(10) NOT NULL DEFAULT 'none',
    conflict_explanation   JSONB,
    bias_compass           JSONB,
    international_coverage JSONB,
    category               VARCHAR(30) NOT NULL DEFAULT 'other',
    category_confidence    DOUBLE PRECISION NOT NULL DEFAULT 0,
    politics_flag          BOOLEAN NOT NULL DEFAULT FALSE,
    evidence_flag          BOOLEAN NOT NULL DEFAULT FALSE,
    official_match         BOOLEAN NOT NULL DEFAULT FALSE,
    geo_diversity          DOUBLE PRECISION NOT NULL DEFAULT 0,
    retention_frozen       BOOLEAN NOT NULL DEFAULT FALSE
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id                SERIAL PRIMARY KEY,
    url               TEXT NOT NULL UNIQUE,
    source_domain     TEXT NOT NULL,
    title             TEXT NOT NULL,
    summary           TEXT NOT NULL DEFAULT '',
    snippet           TEXT NOT NULL DEFAULT '',
    "timestamp"       TIMESTAMPTZ NOT NULL,
    ingested_at       TIMESTAMPTZ NOT NULL,
    language          VARCHAR(10) NOT NULL DEFAULT 'und',
    entities          JSONB NOT NULL DEFAULT '[]',
    cluster_id        INTEGER REFERENCES events(id),
    embedding         vector(384),
    fact_check_status VARCHAR(20) NOT NULL DEFAULT 'unchecked',
    fact_check_flags  JSONB NOT NULL DEFAULT '[]'
)`); err != nil {
		return err
	}

	indexes := []string{
		// ORDER BY "timestamp" DESC drives every query_events listing.
		`CREATE INDEX IF NOT EXISTS idx_articles_timestamp ON articles("timestamp" DESC)`,
		// Tier 3/4 re-clustering scans the unclustered backlog by ingest time.
		`CREATE INDEX IF NOT EXISTS idx_articles_cluster_ingested ON articles(cluster_id, ingested_at)`,
		// Title-dedup (§4.2 step 4) scopes to one source_domain, last 48h.
		`CREATE INDEX IF NOT EXISTS idx_articles_source_domain_timestamp ON articles(source_domain, "timestamp" DESC)`,
		// flagged_articles (§4.8) filters on fact_check_status.
		`CREATE INDEX IF NOT EXISTS idx_articles_fact_check_status ON articles(fact_check_status)`,
		// Tier 5 expiry scans by ingested_at.
		`CREATE INDEX IF NOT EXISTS idx_articles_ingested_at ON articles(ingested_at)`,

		`CREATE INDEX IF NOT EXISTS idx_events_last_seen ON events(last_seen DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_events_confidence_tier ON events(confidence_tier)`,
		`CREATE INDEX IF NOT EXISTS idx_events_category ON events(category)`,
		`CREATE INDEX IF NOT EXISTS idx_events_has_conflict ON events(has_conflict) WHERE has_conflict = TRUE`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// IVFFlat cosine-distance index for SearchSimilarEmbedding (§4.3).
	// Ignored if pgvector isn't installed.
	_, _ = db.Exec(`
CREATE INDEX IF NOT EXISTS idx_articles_embedding
    ON articles USING ivfflat (embedding vector_cosine_ops)
    WITH (lists = 100)`)

	return nil
}

// MigrateDown rolls back the schema. Use with caution: this deletes
// all data in the affected tables.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_articles_embedding`,
		`DROP TABLE IF EXISTS articles CASCADE`,
		`DROP TABLE IF EXISTS events CASCADE`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

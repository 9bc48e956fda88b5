package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/repository"
	"github.com/pgvector/pgvector-go"
)

type ArticleRepo struct{ db *sql.DB }

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

const articleColumns = `id, url, source_domain, title, summary, snippet, "timestamp", ingested_at,
	   language, entities, cluster_id, embedding, fact_check_status, fact_check_flags`

func scanArticle(row interface {
	Scan(dest ...interface{}) error
}) (*entity.Article, error) {
	var a entity.Article
	var entitiesJSON, flagsJSON []byte
	var vec *pgvector.Vector
	var clusterID sql.NullInt64

	if err := row.Scan(&a.ID, &a.URL, &a.SourceDomain, &a.Title, &a.Summary, &a.Snippet,
		&a.Timestamp, &a.IngestedAt, &a.Language, &entitiesJSON, &clusterID, &vec,
		&a.FactCheckStatus, &flagsJSON); err != nil {
		return nil, err
	}
	if clusterID.Valid {
		id := clusterID.Int64
		a.ClusterID = &id
	}
	if len(entitiesJSON) > 0 {
		if err := json.Unmarshal(entitiesJSON, &a.Entities); err != nil {
			return nil, fmt.Errorf("unmarshal entities: %w", err)
		}
	}
	if len(flagsJSON) > 0 {
		if err := json.Unmarshal(flagsJSON, &a.FactCheckFlags); err != nil {
			return nil, fmt.Errorf("unmarshal fact_check_flags: %w", err)
		}
	}
	if vec != nil {
		slice := vec.Slice()
		var emb entity.Embedding
		for i := 0; i < entity.EmbeddingDimension && i < len(slice); i++ {
			emb[i] = slice[i]
		}
		a.Embedding = &emb
	}
	return &a, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`
	a, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return a, nil
}

func (repo *ArticleRepo) List(ctx context.Context, filters repository.ArticleFilters, offset, limit int) ([]*entity.Article, error) {
	where, args := buildArticleWhereClause(filters, "")
	query := `SELECT ` + articleColumns + ` FROM articles ` + where +
		fmt.Sprintf(` ORDER BY "timestamp" DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, limit)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (repo *ArticleRepo) Count(ctx context.Context, filters repository.ArticleFilters) (int64, error) {
	where, args := buildArticleWhereClause(filters, "")
	query := `SELECT COUNT(*) FROM articles ` + where
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	entitiesJSON, err := json.Marshal(article.Entities)
	if err != nil {
		return fmt.Errorf("Create: marshal entities: %w", err)
	}
	flagsJSON, err := json.Marshal(article.FactCheckFlags)
	if err != nil {
		return fmt.Errorf("Create: marshal fact_check_flags: %w", err)
	}
	var vec *pgvector.Vector
	if article.Embedding != nil {
		v := pgvector.NewVector(article.Embedding[:])
		vec = &v
	}
	status := article.FactCheckStatus
	if status == "" {
		status = entity.FactCheckUnchecked
	}

	const query = `
INSERT INTO articles
       (url, source_domain, title, summary, snippet, "timestamp", ingested_at,
        language, entities, cluster_id, embedding, fact_check_status, fact_check_flags)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id`
	err = repo.db.QueryRowContext(ctx, query,
		article.URL, article.SourceDomain, article.Title, article.Summary, article.Snippet,
		article.Timestamp, article.IngestedAt, article.Language, entitiesJSON,
		article.ClusterID, vec, status, flagsJSON,
	).Scan(&article.ID)
	if isUniqueViolation(err) {
		return entity.ErrDuplicateURL
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ArticleRepo) LastIngestedAt(ctx context.Context) (time.Time, error) {
	const query = `SELECT MAX(ingested_at) FROM articles`
	var last sql.NullTime
	if err := repo.db.QueryRowContext(ctx, query).Scan(&last); err != nil {
		return time.Time{}, fmt.Errorf("LastIngestedAt: %w", err)
	}
	if !last.Valid {
		return time.Time{}, nil
	}
	return last.Time, nil
}

func (repo *ArticleRepo) AssignCluster(ctx context.Context, articleID, clusterID int64) error {
	const query = `UPDATE articles SET cluster_id = $1 WHERE id = $2`
	_, err := repo.db.ExecContext(ctx, query, clusterID, articleID)
	if err != nil {
		return fmt.Errorf("AssignCluster: %w", err)
	}
	return nil
}

func (repo *ArticleRepo) UpdateFactCheck(ctx context.Context, articleID int64, status entity.FactCheckStatus, flags []entity.FactCheckFlag) error {
	flagsJSON, err := json.Marshal(flags)
	if err != nil {
		return fmt.Errorf("UpdateFactCheck: marshal: %w", err)
	}
	const query = `UPDATE articles SET fact_check_status = $1, fact_check_flags = $2 WHERE id = $3`
	_, err = repo.db.ExecContext(ctx, query, status, flagsJSON, articleID)
	if err != nil {
		return fmt.Errorf("UpdateFactCheck: %w", err)
	}
	return nil
}

func (repo *ArticleRepo) ExistsByURL(ctx context.Context, url string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM articles WHERE url = $1)`
	var existsFlag bool
	err := repo.db.QueryRowContext(ctx, query, url).Scan(&existsFlag)
	if err != nil {
		return false, fmt.Errorf("ExistsByURL: %w", err)
	}
	return existsFlag, nil
}

// ExistsByURLBatch checks a batch of URLs in a single round trip. The
// pgx stdlib driver encodes a []string arg as a native Postgres text
// array, so = ANY($1) needs no helper type.
func (repo *ArticleRepo) ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error) {
	result := make(map[string]bool, len(urls))
	if len(urls) == 0 {
		return result, nil
	}

	const query = `SELECT url FROM articles WHERE url = ANY($1)`
	rows, err := repo.db.QueryContext(ctx, query, urls)
	if err != nil {
		return nil, fmt.Errorf("ExistsByURLBatch: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("ExistsByURLBatch: Scan: %w", err)
		}
		result[url] = true
	}
	return result, rows.Err()
}

func (repo *ArticleRepo) UnclusteredSince(ctx context.Context, since time.Time, limit int) ([]*entity.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles
WHERE cluster_id IS NULL AND ingested_at >= $1
ORDER BY ingested_at ASC
LIMIT $2`
	rows, err := repo.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("UnclusteredSince: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, limit)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("UnclusteredSince: Scan: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// RecentTitles returns titles ingested from sourceDomain at or after
// since, the Normalizer's near-duplicate-title comparison set (§4.2
// step 4).
func (repo *ArticleRepo) RecentTitles(ctx context.Context, sourceDomain string, since time.Time) ([]string, error) {
	query := `SELECT title FROM articles WHERE source_domain = $1 AND ingested_at >= $2`
	rows, err := repo.db.QueryContext(ctx, query, sourceDomain, since)
	if err != nil {
		return nil, fmt.Errorf("RecentTitles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("RecentTitles: Scan: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// SearchSimilarEmbedding finds the nearest stored embeddings using
// pgvector's cosine-distance operator (<=>), the Clusterer's
// neighborhood query (§4.3 DBSCAN).
func (repo *ArticleRepo) SearchSimilarEmbedding(ctx context.Context, embedding entity.Embedding, maxDistance float64, limit int) ([]repository.SimilarArticle, error) {
	vec := pgvector.NewVector(embedding[:])
	query := `SELECT ` + articleColumns + `, embedding <=> $1 AS distance
FROM articles
WHERE embedding IS NOT NULL AND embedding <=> $1 <= $2
ORDER BY distance ASC
LIMIT $3`
	rows, err := repo.db.QueryContext(ctx, query, vec, maxDistance, limit)
	if err != nil {
		return nil, fmt.Errorf("SearchSimilarEmbedding: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]repository.SimilarArticle, 0, limit)
	for rows.Next() {
		var entitiesJSON, flagsJSON []byte
		var vec *pgvector.Vector
		var clusterID sql.NullInt64
		var a entity.Article
		var distance float64

		if err := rows.Scan(&a.ID, &a.URL, &a.SourceDomain, &a.Title, &a.Summary, &a.Snippet,
			&a.Timestamp, &a.IngestedAt, &a.Language, &entitiesJSON, &clusterID, &vec,
			&a.FactCheckStatus, &flagsJSON, &distance); err != nil {
			return nil, fmt.Errorf("SearchSimilarEmbedding: Scan: %w", err)
		}
		if clusterID.Valid {
			id := clusterID.Int64
			a.ClusterID = &id
		}
		if len(entitiesJSON) > 0 {
			_ = json.Unmarshal(entitiesJSON, &a.Entities)
		}
		if len(flagsJSON) > 0 {
			_ = json.Unmarshal(flagsJSON, &a.FactCheckFlags)
		}
		if vec != nil {
			slice := vec.Slice()
			var emb entity.Embedding
			for i := 0; i < entity.EmbeddingDimension && i < len(slice); i++ {
				emb[i] = slice[i]
			}
			a.Embedding = &emb
		}
		results = append(results, repository.SimilarArticle{Article: &a, Distance: distance})
	}
	return results, rows.Err()
}

func (repo *ArticleRepo) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `
DELETE FROM articles
USING events
WHERE articles.cluster_id = events.id
  AND articles.ingested_at < $1
  AND events.retention_frozen = FALSE`
	res, err := repo.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("ExpireOlderThan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("ExpireOlderThan: RowsAffected: %w", err)
	}
	return n, nil
}

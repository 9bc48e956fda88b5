package repository

import (
	"context"
	"time"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
)

// ArticleFilters contains optional filters for article search (C4 query_events
// support and C8 flagged_articles/polarizing_sources).
type ArticleFilters struct {
	SourceDomain *string
	ClusterID    *int64
	From         *time.Time
	To           *time.Time
	Language     *string
	FactCheck    *entity.FactCheckStatus
}

// SimilarArticle is one result of a nearest-neighbor embedding search
// (§4.3 Clusterer candidate generation).
type SimilarArticle struct {
	Article    *entity.Article
	Distance   float64 // cosine distance, lower is more similar
}

// ArticleRepository is the Event Store's article-facing surface (§4.4
// C4 Event Store). The store is the sole mutable owner of Article rows;
// every write here participates in the same transaction as the Event
// mutation it accompanies (insert_article, assign_cluster).
type ArticleRepository interface {
	Get(ctx context.Context, id int64) (*entity.Article, error)
	List(ctx context.Context, filters ArticleFilters, offset, limit int) ([]*entity.Article, error)
	Count(ctx context.Context, filters ArticleFilters) (int64, error)

	// Create inserts a new Article. Returns entity.ErrDuplicateURL if the
	// canonicalized URL already exists (§4.2 Dedup by canonical URL).
	Create(ctx context.Context, article *entity.Article) error

	// AssignCluster sets an Article's ClusterID within the caller's
	// transaction (§4.3 assign_cluster / create_or_get_event).
	AssignCluster(ctx context.Context, articleID, clusterID int64) error

	// UpdateFactCheck persists a Tier 4 fact-check verdict (§4.7 Tier 4).
	UpdateFactCheck(ctx context.Context, articleID int64, status entity.FactCheckStatus, flags []entity.FactCheckFlag) error

	ExistsByURL(ctx context.Context, url string) (bool, error)
	ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error)

	// UnclusteredSince returns Articles ingested after `since` that have
	// no ClusterID yet, the Clusterer's unit of work (§4.3).
	UnclusteredSince(ctx context.Context, since time.Time, limit int) ([]*entity.Article, error)

	// RecentTitles returns the titles of Articles from sourceDomain
	// ingested at or after `since`, the Normalizer's near-duplicate-title
	// comparison set (§4.2 step 4: 48h window, same source_domain).
	RecentTitles(ctx context.Context, sourceDomain string, since time.Time) ([]string, error)

	// SearchSimilarEmbedding finds the nearest stored embeddings to the
	// query vector within the given cosine-distance radius (§4.3 DBSCAN
	// neighborhood query, pgvector-backed).
	SearchSimilarEmbedding(ctx context.Context, embedding entity.Embedding, maxDistance float64, limit int) ([]SimilarArticle, error)

	// ExpireOlderThan marks Articles older than `cutoff` expired for
	// retention purposes (§4.7 Tier 5 cleanup), returning the count
	// affected. Events with RetentionFrozen set are left untouched by
	// the caller's recompute step, not by this method.
	ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// LastIngestedAt returns the most recent IngestedAt across all
	// Articles, the query surface's `last_ingestion`/`worker_last_run`
	// signal (§4.8 stats_summary, health). Returns the zero time if no
	// Article has been ingested yet.
	LastIngestedAt(ctx context.Context) (time.Time, error)
}

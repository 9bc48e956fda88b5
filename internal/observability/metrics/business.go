package metrics

import (
	"time"
)

// RecordArticlesFetched records the number of raw items a fetcher
// variant returned for one tick, the per-source ingestion-volume
// signal (§4.1, §4.7 T1/T2).
func RecordArticlesFetched(source string, count int) {
	ArticlesFetchedTotal.WithLabelValues(source).Add(float64(count))
}

// RecordArticlesSkipped records count items the Normalizer dropped,
// labeled by the §4.2 step that dropped them ("language",
// "duplicate_url", "duplicate_title").
func RecordArticlesSkipped(reason string, count int) {
	if count <= 0 {
		return
	}
	ArticlesSkippedTotal.WithLabelValues(reason).Add(float64(count))
}

// RecordFetchTick records one fetcher run's outcome: how long it took
// and how many items it returned (§4.1 Failure: "one source degrading
// must not fail the tier").
func RecordFetchTick(source string, duration time.Duration, itemsFetched int) {
	FetchTickDuration.WithLabelValues(source).Observe(duration.Seconds())
	RecordArticlesFetched(source, itemsFetched)
}

// RecordFetchError records a fetcher variant's run failing outright
// (transport error, parse error, timeout).
func RecordFetchError(source, errorType string) {
	FetchErrorsTotal.WithLabelValues(source, errorType).Inc()
}

// RecordEventResolution records whether a non-noise DBSCAN cluster
// created a new Event or merged into an existing one, the
// create_or_get_event/majority-merge outcome (§4.3).
func RecordEventResolution(merged bool) {
	outcome := "created"
	if merged {
		outcome = "merged"
	}
	EventResolutionsTotal.WithLabelValues(outcome).Inc()
}

// RecordClusterWindow records one clustering pass: how many Articles
// it partitioned and how long the DBSCAN + event-resolution pass took
// (§4.3).
func RecordClusterWindow(duration time.Duration, articles int) {
	ClusterWindowDuration.Observe(duration.Seconds())
	ClusterWindowSize.Observe(float64(articles))
}

// RecordEventRecompute records a completed Scorer pass, labeled by the
// Event's resulting confidence tier (§4.5).
func RecordEventRecompute(tier string, duration time.Duration) {
	EventRecomputeDuration.WithLabelValues(tier).Observe(duration.Seconds())
}

// RecordFactCheckResult records a Tier 4 fact-check verdict (§4.7
// Tier 4): status is the resulting FactCheckStatus.
func RecordFactCheckResult(status string) {
	FactCheckResultsTotal.WithLabelValues(status).Inc()
}

// UpdateArticlesTotal updates the total count of articles in the database.
// This gauge should be updated periodically to reflect the current state.
func UpdateArticlesTotal(count int) {
	ArticlesTotal.Set(float64(count))
}

// UpdateSourcesTotal updates the total count of configured sources.
// This gauge should be updated periodically to reflect the current state.
func UpdateSourcesTotal(count int) {
	SourcesTotal.Set(float64(count))
}

// RecordContentFetchSuccess records a successful content-enhancement
// fetch (§4.2 step 5's optional full-body fetch), tracking both the
// duration and size of fetched content.
func RecordContentFetchSuccess(duration time.Duration, size int) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
	ContentFetchSize.Observe(float64(size))
}

// RecordContentFetchFailed records a failed content-enhancement fetch.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchSkipped records a skipped content-enhancement
// fetch. This occurs when the source body already meets
// ContentThreshold and enhancement is unnecessary.
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "select_articles", "insert_article").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}

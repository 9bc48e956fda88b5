package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordArticlesFetched(t *testing.T) {
	tests := []struct {
		name   string
		source string
		count  int
	}{
		{name: "single article", source: "rss", count: 1},
		{name: "multiple articles", source: "newsapi", count: 10},
		{name: "zero articles", source: "mediastack", count: 0},
		{name: "empty source name", source: "", count: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordArticlesFetched(tt.source, tt.count)
			})
		})
	}
}

func TestRecordArticlesSkipped(t *testing.T) {
	for _, reason := range []string{"language", "duplicate_url", "duplicate_title"} {
		t.Run(reason, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordArticlesSkipped(reason, 3)
				RecordArticlesSkipped(reason, 0)
			})
		})
	}
}

func TestRecordFetchTick(t *testing.T) {
	tests := []struct {
		name         string
		source       string
		duration     time.Duration
		itemsFetched int
	}{
		{name: "successful tick", source: "rss", duration: 2 * time.Second, itemsFetched: 10},
		{name: "empty tick", source: "reddit", duration: 500 * time.Millisecond, itemsFetched: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordFetchTick(tt.source, tt.duration, tt.itemsFetched)
			})
		})
	}
}

func TestRecordFetchError(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		errorType string
	}{
		{name: "fetch failed", source: "gdelt", errorType: "fetch_failed"},
		{name: "parse error", source: "rss", errorType: "parse_error"},
		{name: "timeout", source: "ngo_gov", errorType: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordFetchError(tt.source, tt.errorType)
			})
		})
	}
}

func TestRecordEventResolution(t *testing.T) {
	for _, merged := range []bool{true, false} {
		t.Run("merged", func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordEventResolution(merged)
			})
		})
	}
}

func TestRecordClusterWindow(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordClusterWindow(3*time.Second, 42)
	})
}

func TestRecordEventRecompute(t *testing.T) {
	for _, tier := range []string{"confirmed", "developing", "unverified"} {
		t.Run(tier, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordEventRecompute(tier, 50*time.Millisecond)
			})
		})
	}
}

func TestRecordFactCheckResult(t *testing.T) {
	for _, status := range []string{"confirmed", "disputed", "false"} {
		t.Run(status, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordFactCheckResult(status)
			})
		})
	}
}

func TestUpdateArticlesTotal(t *testing.T) {
	for _, count := range []int{0, 100, 10000} {
		assert.NotPanics(t, func() {
			UpdateArticlesTotal(count)
		})
	}
}

func TestUpdateSourcesTotal(t *testing.T) {
	for _, count := range []int{0, 10, 100} {
		assert.NotPanics(t, func() {
			UpdateSourcesTotal(count)
		})
	}
}

func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		duration  time.Duration
	}{
		{name: "select query", operation: "select_articles", duration: 10 * time.Millisecond},
		{name: "insert query", operation: "insert_article", duration: 5 * time.Millisecond},
		{name: "slow query", operation: "complex_join", duration: 500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordDBQuery(tt.operation, tt.duration)
			})
		})
	}
}

func TestUpdateDBConnectionStats(t *testing.T) {
	tests := []struct {
		name   string
		active int
		idle   int
	}{
		{name: "no connections", active: 0, idle: 0},
		{name: "some active", active: 5, idle: 10},
		{name: "all active", active: 25, idle: 0},
		{name: "all idle", active: 0, idle: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateDBConnectionStats(tt.active, tt.idle)
			})
		})
	}
}

func TestRecordContentFetch(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordContentFetchSuccess(100*time.Millisecond, 2048)
		RecordContentFetchFailed(50 * time.Millisecond)
		RecordContentFetchSkipped()
	})
}

func TestMetricsFunctions_AllCallable(t *testing.T) {
	// Test that all functions can be called in sequence without panic
	assert.NotPanics(t, func() {
		RecordArticlesFetched("rss", 10)
		RecordArticlesSkipped("duplicate_title", 1)
		RecordFetchTick("rss", 2*time.Second, 10)
		RecordFetchError("rss", "test_error")
		RecordEventResolution(true)
		RecordClusterWindow(time.Second, 5)
		RecordEventRecompute("confirmed", 10*time.Millisecond)
		RecordFactCheckResult("confirmed")
		UpdateArticlesTotal(100)
		UpdateSourcesTotal(10)
		RecordDBQuery("test_operation", 10*time.Millisecond)
		UpdateDBConnectionStats(5, 10)
		RecordContentFetchSuccess(time.Second, 100)
		RecordContentFetchFailed(time.Second)
		RecordContentFetchSkipped()
	})
}

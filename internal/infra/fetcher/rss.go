package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/resilience/circuitbreaker"
	"github.com/geraldfingburke/verinews/internal/resilience/retry"
	"github.com/geraldfingburke/verinews/internal/usecase/normalize"
)

// RSSFetcher polls a fixed list of RSS/Atom feeds with gofeed, wrapped in
// a circuit breaker and retry-with-backoff per feed.
type RSSFetcher struct {
	client         *http.Client
	feedURLs       []string
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewRSSFetcher builds an RSSFetcher over feedURLs.
func NewRSSFetcher(client *http.Client, feedURLs []string) *RSSFetcher {
	return newRSSFetcher(client, feedURLs, "rss")
}

func newRSSFetcher(client *http.Client, feedURLs []string, breakerName string) *RSSFetcher {
	return &RSSFetcher{
		client:         withRateLimit(client, 1, 2),
		feedURLs:       feedURLs,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FetcherConfig(breakerName)),
		retryConfig:    retry.FeedFetchConfig(),
	}
}

// Fetch pulls every configured feed and keeps only items published
// within the window. A feed that errors after retries contributes
// nothing to the batch rather than failing the whole call (§4.1).
func (f *RSSFetcher) Fetch(ctx context.Context, window time.Duration) ([]normalize.RawArticle, error) {
	cutoff := time.Now().Add(-window)
	var out []normalize.RawArticle

	for _, feedURL := range f.feedURLs {
		items, err := f.fetchOne(ctx, feedURL)
		if err != nil {
			slog.Warn("rss feed fetch failed",
				slog.String("url", feedURL),
				slog.String("error", err.Error()))
			continue
		}
		for _, it := range items {
			if it.Timestamp.Before(cutoff) {
				continue
			}
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *RSSFetcher) fetchOne(ctx context.Context, feedURL string) ([]normalize.RawArticle, error) {
	var items []normalize.RawArticle

	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("rss circuit breaker open, request rejected",
					slog.String("url", feedURL),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}
		items = cbResult.([]normalize.RawArticle)
		return nil
	})
	if retryErr != nil {
		return nil, entity.ErrSourceUnavailable
	}
	return items, nil
}

func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]normalize.RawArticle, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = "VeriNewsBot"
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	domain := sourceDomain(feed.Link, feedURL)
	items := make([]normalize.RawArticle, 0, len(feed.Items))
	for _, it := range feed.Items {
		ts := time.Now()
		if it.PublishedParsed != nil {
			ts = *it.PublishedParsed
		}

		body := it.Content
		if body == "" {
			body = it.Description
		}

		items = append(items, normalize.RawArticle{
			URL:          it.Link,
			SourceDomain: domain,
			Title:        it.Title,
			Body:         body,
			Timestamp:    ts,
		})
	}
	return items, nil
}

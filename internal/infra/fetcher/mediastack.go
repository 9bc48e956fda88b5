package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/resilience/circuitbreaker"
	"github.com/geraldfingburke/verinews/internal/resilience/retry"
	"github.com/geraldfingburke/verinews/internal/usecase/normalize"
)

const mediastackNewsURL = "http://api.mediastack.com/v1/news"

type mediastackResponse struct {
	Data []mediastackArticle `json:"data"`
}

type mediastackArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Language    string    `json:"language"`
	PublishedAt time.Time `json:"published_at"`
}

// MediastackFetcher pulls recent articles from mediastack.com's live
// news endpoint.
type MediastackFetcher struct {
	client         *http.Client
	accessKey      string
	query          string
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewMediastackFetcher builds a MediastackFetcher.
func NewMediastackFetcher(client *http.Client, accessKey, query string) *MediastackFetcher {
	return &MediastackFetcher{
		client:         withRateLimit(client, 0.5, 1),
		accessKey:      accessKey,
		query:          query,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FetcherConfig("mediastack")),
		retryConfig:    retry.FeedFetchConfig(),
	}
}

// Fetch queries live news and keeps only items published within window.
func (f *MediastackFetcher) Fetch(ctx context.Context, window time.Duration) ([]normalize.RawArticle, error) {
	cutoff := time.Now().Add(-window)
	reqURL := fmt.Sprintf("%s?access_key=%s&languages=en&sort=published_desc&limit=100",
		mediastackNewsURL, url.QueryEscape(f.accessKey))
	if f.query != "" {
		reqURL += "&keywords=" + url.QueryEscape(f.query)
	}

	var all []normalize.RawArticle
	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			var resp mediastackResponse
			if err := getJSON(ctx, f.client, reqURL, &resp); err != nil {
				return nil, err
			}
			return mediastackToRaw(resp), nil
		})
		if err != nil {
			return err
		}
		all = cbResult.([]normalize.RawArticle)
		return nil
	})
	if retryErr != nil {
		slog.Warn("mediastack fetch failed", slog.String("error", retryErr.Error()))
		return nil, entity.ErrSourceUnavailable
	}

	out := make([]normalize.RawArticle, 0, len(all))
	for _, a := range all {
		if a.Timestamp.Before(cutoff) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func mediastackToRaw(resp mediastackResponse) []normalize.RawArticle {
	out := make([]normalize.RawArticle, 0, len(resp.Data))
	for _, a := range resp.Data {
		domain := sourceDomain(a.URL, a.Source)
		out = append(out, normalize.RawArticle{
			URL:          a.URL,
			SourceDomain: domain,
			Title:        a.Title,
			Body:         a.Description,
			Timestamp:    a.PublishedAt,
		})
	}
	return out
}

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

const newsAPIEverythingURL = "https://newsapi.org/v2/everything"

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source      newsAPISource `json:"source"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	PublishedAt time.Time     `json:"publishedAt"`
}

type newsAPISource struct {
	Name string `json:"name"`
}

// NewsAPIFetcher pulls recent articles from newsapi.org's "everything"
// endpoint.
type NewsAPIFetcher struct {
	client         *http.Client
	apiKey         string
	query          string
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewNewsAPIFetcher builds a NewsAPIFetcher. query defaults to a broad
// term when empty, since the endpoint requires a non-empty `q`.
func NewNewsAPIFetcher(client *http.Client, apiKey, query string) *NewsAPIFetcher {
	if query == "" {
		query = "news"
	}
	return &NewsAPIFetcher{
		client:         withRateLimit(client, 0.5, 1),
		apiKey:         apiKey,
		query:          query,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FetcherConfig("newsapi")),
		retryConfig:    retry.FeedFetchConfig(),
	}
}

// Fetch queries articles published within the window.
func (f *NewsAPIFetcher) Fetch(ctx context.Context, window time.Duration) ([]normalize.RawArticle, error) {
	from := time.Now().Add(-window).UTC().Format(time.RFC3339)
	reqURL := fmt.Sprintf("%s?q=%s&from=%s&language=en&sortBy=publishedAt&apiKey=%s",
		newsAPIEverythingURL, url.QueryEscape(f.query), url.QueryEscape(from), url.QueryEscape(f.apiKey))

	var items []normalize.RawArticle
	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			var resp newsAPIResponse
			if err := getJSON(ctx, f.client, reqURL, &resp); err != nil {
				return nil, err
			}
			if resp.Status != "ok" {
				return nil, fmt.Errorf("newsapi status %q", resp.Status)
			}
			return newsAPIToRaw(resp), nil
		})
		if err != nil {
			return err
		}
		items = cbResult.([]normalize.RawArticle)
		return nil
	})
	if retryErr != nil {
		slog.Warn("newsapi fetch failed", slog.String("error", retryErr.Error()))
		return nil, entity.ErrSourceUnavailable
	}
	return items, nil
}

func newsAPIToRaw(resp newsAPIResponse) []normalize.RawArticle {
	out := make([]normalize.RawArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		domain := sourceDomain(a.URL, a.Source.Name)
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

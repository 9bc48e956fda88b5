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

const gdeltDocAPI = "https://api.gdeltproject.org/api/v2/doc/doc"

// gdeltSeenDateLayout is GDELT's seendate field format, e.g.
// "20240102T150405Z".
const gdeltSeenDateLayout = "20060102T150405Z"

type gdeltResponse struct {
	Articles []gdeltArticle `json:"articles"`
}

type gdeltArticle struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	SeenDate string `json:"seendate"`
	Domain   string `json:"domain"`
}

// GDELTFetcher pulls recent articles from the GDELT 2.0 DOC API.
type GDELTFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	query          string
	baseURL        string
}

// NewGDELTFetcher builds a GDELTFetcher. query defaults to a broad
// English-language news query when empty.
func NewGDELTFetcher(client *http.Client) *GDELTFetcher {
	return &GDELTFetcher{
		client:         withRateLimit(client, 0.5, 1),
		circuitBreaker: circuitbreaker.New(circuitbreaker.FetcherConfig("gdelt")),
		retryConfig:    retry.FeedFetchConfig(),
		query:          "sourcelang:english",
		baseURL:        gdeltDocAPI,
	}
}

// Fetch queries the DOC API for the given lookback window.
func (f *GDELTFetcher) Fetch(ctx context.Context, window time.Duration) ([]normalize.RawArticle, error) {
	timespan := gdeltTimespan(window)
	reqURL := fmt.Sprintf("%s?query=%s&mode=ArtList&format=json&maxrecords=250&timespan=%s",
		f.baseURL, url.QueryEscape(f.query), timespan)

	var items []normalize.RawArticle
	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			var resp gdeltResponse
			if err := getJSON(ctx, f.client, reqURL, &resp); err != nil {
				return nil, err
			}
			return toRawArticles(resp), nil
		})
		if err != nil {
			return err
		}
		items = cbResult.([]normalize.RawArticle)
		return nil
	})
	if retryErr != nil {
		slog.Warn("gdelt fetch failed", slog.String("error", retryErr.Error()))
		return nil, entity.ErrSourceUnavailable
	}
	return items, nil
}

func toRawArticles(resp gdeltResponse) []normalize.RawArticle {
	out := make([]normalize.RawArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		ts, err := time.Parse(gdeltSeenDateLayout, a.SeenDate)
		if err != nil {
			ts = time.Now()
		}
		domain := a.Domain
		if domain == "" {
			domain = sourceDomain(a.URL, "")
		}
		out = append(out, normalize.RawArticle{
			URL:          a.URL,
			SourceDomain: domain,
			Title:        a.Title,
			Timestamp:    ts,
		})
	}
	return out
}

// gdeltTimespan converts a lookback window into GDELT's "Nmin"/"Nh"
// timespan parameter, floored at 1 minute.
func gdeltTimespan(window time.Duration) string {
	minutes := int(window.Minutes())
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%dmin", minutes)
}

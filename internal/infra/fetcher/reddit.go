package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/resilience/circuitbreaker"
	"github.com/geraldfingburke/verinews/internal/resilience/retry"
	"github.com/geraldfingburke/verinews/internal/usecase/normalize"
)

const redditTokenURL = "https://www.reddit.com/api/v1/access_token"

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title      string  `json:"title"`
				URL        string  `json:"url"`
				Permalink  string  `json:"permalink"`
				Subreddit  string  `json:"subreddit"`
				CreatedUTC float64 `json:"created_utc"`
				SelfText   string  `json:"selftext"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// RedditFetcher pulls new submissions from a fixed list of subreddits
// via Reddit's OAuth2 client-credentials flow.
type RedditFetcher struct {
	httpClient     *http.Client
	subreddits     []string
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewRedditFetcher builds a RedditFetcher. The returned *http.Client is
// an oauth2.Client that transparently fetches and refreshes access
// tokens using the client-credentials grant (app-only auth, no user
// login required for read-only subreddit listings).
func NewRedditFetcher(clientID, clientSecret, userAgent string, subreddits []string) *RedditFetcher {
	oauthCfg := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     redditTokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	client := withUserAgent(withRateLimit(oauthCfg.Client(context.Background()), 1, 2), userAgent)
	client.Timeout = 30 * time.Second

	return &RedditFetcher{
		httpClient:     client,
		subreddits:     subreddits,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FetcherConfig("reddit")),
		retryConfig:    retry.FeedFetchConfig(),
	}
}

// Fetch pulls the newest submissions per configured subreddit, published
// within window.
func (f *RedditFetcher) Fetch(ctx context.Context, window time.Duration) ([]normalize.RawArticle, error) {
	cutoff := time.Now().Add(-window)
	var out []normalize.RawArticle

	for _, sub := range f.subreddits {
		items, err := f.fetchSubreddit(ctx, sub)
		if err != nil {
			slog.Warn("reddit subreddit fetch failed",
				slog.String("subreddit", sub), slog.String("error", err.Error()))
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

func (f *RedditFetcher) fetchSubreddit(ctx context.Context, subreddit string) ([]normalize.RawArticle, error) {
	reqURL := fmt.Sprintf("https://oauth.reddit.com/r/%s/new.json?limit=100", subreddit)

	var items []normalize.RawArticle
	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			var listing redditListing
			if err := getJSON(ctx, f.httpClient, reqURL, &listing); err != nil {
				return nil, err
			}
			return redditToRaw(listing), nil
		})
		if err != nil {
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

func redditToRaw(listing redditListing) []normalize.RawArticle {
	out := make([]normalize.RawArticle, 0, len(listing.Data.Children))
	for _, c := range listing.Data.Children {
		d := c.Data
		out = append(out, normalize.RawArticle{
			URL:          "https://www.reddit.com" + d.Permalink,
			SourceDomain: "reddit.com/r/" + d.Subreddit,
			Title:        d.Title,
			Body:         d.SelfText,
			Timestamp:    time.Unix(int64(d.CreatedUTC), 0).UTC(),
		})
	}
	return out
}

// Package fetcher implements the C1 Fetchers: one pull operation per
// source family, each returning a finite, non-restartable batch of
// RawArticle records for the scheduler to hand to the normalizer.
package fetcher

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/geraldfingburke/verinews/internal/usecase/normalize"
)

// Fetcher pulls recent items from one source family. Fetch(ctx, window)
// must never panic and must return (nil, entity.ErrSourceUnavailable) on
// network failure, HTTP >= 500, or a malformed payload rather than
// propagating the underlying error — one source degrading must not fail
// the tier that drives it (§4.1).
type Fetcher interface {
	// Fetch returns RawArticles published within (now-window, now].
	Fetch(ctx context.Context, window time.Duration) ([]normalize.RawArticle, error)
}

// Name identifies one of the fixed fetcher variants {gdelt, rss, reddit,
// newsapi, mediastack, ngo_gov} (§4.1).
type Name string

// Fetcher variant names.
const (
	NameRSS        Name = "rss"
	NameGDELT      Name = "gdelt"
	NameReddit     Name = "reddit"
	NameNewsAPI    Name = "newsapi"
	NameMediastack Name = "mediastack"
	NameNGOGov     Name = "ngo_gov"
)

// DefaultWindow returns the per-source default pull window (§4.1).
func DefaultWindow(name Name) time.Duration {
	switch name {
	case NameGDELT, NameReddit:
		return 15 * time.Minute
	default: // rss, newsapi, mediastack, ngo_gov
		return 60 * time.Minute
	}
}

// Registry holds one Fetcher per source variant, keyed by Name. The
// scheduler's Tier 1/2 jobs iterate it to fan out across sources,
// mirroring the teacher's ScraperFactory.CreateScrapers() registry.
type Registry map[Name]Fetcher

// NewHTTPClient builds the pooled, TLS-1.2-floor client shared by every
// fetcher variant, identical in shape to the teacher's createHTTPClient.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// Config collects the per-variant feed lists, API keys, and credentials
// the registry needs to construct the fetcher set. A variant with a
// missing key is omitted from the registry rather than constructed
// half-broken — the scheduler simply has one fewer source to iterate
// (§7 ErrConfigurationMissing: "affected feature degrades gracefully").
type Config struct {
	// RSSFeedURLs is the general-interest RSS/Atom feed list.
	RSSFeedURLs []string
	// NewsAPIKey and NewsAPIQuery configure the newsapi.org "everything"
	// endpoint. The variant is omitted if the key is empty.
	NewsAPIKey   string
	NewsAPIQuery string
	// MediastackAccessKey and MediastackQuery configure mediastack.com.
	// The variant is omitted if the key is empty.
	MediastackAccessKey string
	MediastackQuery     string
	// RedditClientID/Secret configure the OAuth2 client-credentials flow
	// against Reddit's API. The variant is omitted if either is empty.
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string
	RedditSubreddits   []string
}

// NewRegistry constructs every fetcher variant whose configuration is
// satisfied and returns them keyed by Name.
func NewRegistry(cfg Config) Registry {
	client := NewHTTPClient(30 * time.Second)
	reg := Registry{
		NameRSS:    NewRSSFetcher(client, cfg.RSSFeedURLs),
		NameGDELT:  NewGDELTFetcher(client),
		NameNGOGov: NewNGOGovFetcher(client),
	}
	if cfg.NewsAPIKey != "" {
		reg[NameNewsAPI] = NewNewsAPIFetcher(client, cfg.NewsAPIKey, cfg.NewsAPIQuery)
	}
	if cfg.MediastackAccessKey != "" {
		reg[NameMediastack] = NewMediastackFetcher(client, cfg.MediastackAccessKey, cfg.MediastackQuery)
	}
	if cfg.RedditClientID != "" && cfg.RedditClientSecret != "" {
		reg[NameReddit] = NewRedditFetcher(cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent, cfg.RedditSubreddits)
	}
	return reg
}

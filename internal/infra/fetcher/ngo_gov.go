package fetcher

import (
	"context"
	"net/http"
	"time"

	"github.com/geraldfingburke/verinews/internal/usecase/normalize"
)

// officialFeedURLs is the fixed allowlist of NGO/government RSS feeds
// the Source Registry marks official=true (§6): USGS, WHO, ReliefWeb,
// UN OCHA.
var officialFeedURLs = []string{
	"https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/significant_week.atom",
	"https://www.who.int/rss-feeds/news-english.xml",
	"https://reliefweb.int/updates/rss.xml",
	"https://www.unocha.org/rss.xml",
}

// NGOGovFetcher pulls the fixed allowlist of primary-evidence feeds. It
// reuses RSSFetcher's parsing and reliability wrapping rather than
// reimplementing feed parsing against a second allowlist-shaped client.
type NGOGovFetcher struct {
	rss *RSSFetcher
}

// NewNGOGovFetcher builds an NGOGovFetcher over the official allowlist.
func NewNGOGovFetcher(client *http.Client) *NGOGovFetcher {
	return &NGOGovFetcher{rss: newRSSFetcher(client, officialFeedURLs, "ngo_gov")}
}

// Fetch delegates to the underlying RSS fetcher.
func (f *NGOGovFetcher) Fetch(ctx context.Context, window time.Duration) ([]normalize.RawArticle, error) {
	return f.rss.Fetch(ctx, window)
}

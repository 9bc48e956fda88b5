// Package feeds serves the query API's RSS syndication view (§4.8 rss_verified).
package feeds

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/repository"
)

const window = 48 * time.Hour

// rss is the RSS 2.0 envelope, with an atom:link self-reference per the
// Atom self-link convention most feed readers expect.
type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	AtomNS  string   `xml:"xmlns:atom,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	AtomLink      atomLink  `xml:"atom:link"`
	Description   string    `xml:"description"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []item    `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        guid   `xml:"guid"`
	Category    string `xml:"category"`
}

type guid struct {
	IsPermaLink string `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Handler implements GET /feeds/verified.xml: RSS 2.0 of confirmed and
// developing events from the last 48h.
type Handler struct {
	Events   repository.EventRepository
	Articles repository.ArticleRepository

	// BaseURL is the public site root items link back to (e.g.
	// "https://verinews.example.com"); must be an absolute https URL
	// per the well-formedness contract.
	BaseURL string
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	since := time.Now().Add(-window)

	confirmed := entity.TierConfirmed
	developing := entity.TierDeveloping

	var events []*entity.Event
	for _, tier := range []*entity.ConfidenceTier{&confirmed, &developing} {
		page, err := h.Events.List(ctx, repository.EventFilters{ConfidenceTier: tier, From: &since}, 0, 500)
		if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		events = append(events, page...)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].LastSeen.After(events[j].LastSeen) })

	feedURL := strings.TrimSuffix(h.BaseURL, "/") + "/feeds/verified.xml"
	feed := rss{
		Version: "2.0",
		AtomNS:  "http://www.w3.org/2005/Atom",
		Channel: channel{
			Title:       "Verinews: Verified Events",
			Link:        h.BaseURL,
			AtomLink:    atomLink{Href: feedURL, Rel: "self", Type: "application/rss+xml"},
			Description: "Confirmed and developing events verified over the last 48 hours",
			Items:       make([]item, 0, len(events)),
		},
	}

	var latest time.Time
	for _, e := range events {
		if e.LastSeen.After(latest) {
			latest = e.LastSeen
		}
		feed.Channel.Items = append(feed.Channel.Items, toItem(e, h.topSource(ctx, e.ID), h.BaseURL))
	}
	if !latest.IsZero() {
		feed.Channel.LastBuildDate = latest.UTC().Format(time.RFC1123Z)
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	_ = enc.Encode(feed)
}

// topSource returns the source domain of the event's most recently
// published member article, the feed description's "{top-source}".
func (h Handler) topSource(ctx context.Context, eventID int64) string {
	clusterID := eventID
	articles, err := h.Articles.List(ctx, repository.ArticleFilters{ClusterID: &clusterID}, 0, 1)
	if err != nil || len(articles) == 0 {
		return "an undisclosed source"
	}
	return articles[0].SourceDomain
}

func toItem(e *entity.Event, topSource, baseURL string) item {
	link := strings.TrimSuffix(baseURL, "/") + fmt.Sprintf("/events/%d", e.ID)

	category := "Developing"
	if e.ConfidenceTier == entity.TierConfirmed {
		category = "Confirmed"
	}

	return item{
		Title:       e.Summary,
		Link:        link,
		Description: fmt.Sprintf("Event verified with confidence score %.0f from %d sources including %s", e.TruthScore, e.UniqueSources, topSource),
		PubDate:     e.LastSeen.UTC().Format(time.RFC1123Z),
		GUID:        guid{IsPermaLink: "true", Value: link},
		Category:    category,
	}
}

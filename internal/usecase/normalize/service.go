package normalize

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/repository"
)

// ContentEnhancer fetches the full article body for a URL when a
// source's RSS/API body is too short to summarize well. Implemented by
// internal/infra/fetcher.ReadabilityFetcher.
type ContentEnhancer interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// RawArticle is one fetched item before normalization (§4.2).
type RawArticle struct {
	URL          string
	SourceDomain string
	Title        string
	Body         string
	Timestamp    time.Time
}

// Service runs the C2 normalize operation: RawArticle batch → inserted
// Article rows, per the ordered steps in §4.2.
type Service struct {
	Articles repository.ArticleRepository
	Now      func() time.Time

	// ContentEnhancer, when set, fetches full article bodies for
	// items whose body is shorter than ContentThreshold. Nil disables
	// the feature and RawArticle.Body is used as-is.
	ContentEnhancer  ContentEnhancer
	ContentThreshold int
}

// NewService constructs a normalize Service.
func NewService(articles repository.ArticleRepository) *Service {
	return &Service{Articles: articles, Now: time.Now}
}

// NewServiceWithContentEnhancer constructs a normalize Service that
// fetches full article bodies via enhancer when a raw item's body is
// shorter than threshold.
func NewServiceWithContentEnhancer(articles repository.ArticleRepository, enhancer ContentEnhancer, threshold int) *Service {
	return &Service{Articles: articles, Now: time.Now, ContentEnhancer: enhancer, ContentThreshold: threshold}
}

// BatchResult tallies the outcome of a Normalize call.
type BatchResult struct {
	Inserted        int
	SkippedLanguage int
	SkippedDuplicate int
	SkippedTitle    int
	Errors          int
}

// Normalize executes §4.2 steps 1-7 over a batch of raw items, in
// order, for one source. recentTitles supplies the titles of Articles
// already ingested from the same source_domain in the last 48h, the
// comparison set for step 4.
func (s *Service) Normalize(ctx context.Context, batch []RawArticle, recentTitles []string) (*BatchResult, error) {
	res := &BatchResult{}
	titles := append([]string(nil), recentTitles...)

	for _, raw := range batch {
		article, skip, err := s.normalizeOne(ctx, raw, titles, res)
		if err != nil {
			res.Errors++
			continue
		}
		if skip {
			continue
		}
		titles = append(titles, article.Title)
	}

	return res, nil
}

func (s *Service) normalizeOne(ctx context.Context, raw RawArticle, recentTitles []string, res *BatchResult) (*entity.Article, bool, error) {
	// Step 1: language filter.
	if !IsEnglish(raw.Title + " " + raw.Body) {
		res.SkippedLanguage++
		return nil, true, nil
	}

	// Step 2: URL canonicalization.
	canonical, err := CanonicalURL(raw.URL)
	if err != nil {
		return nil, false, fmt.Errorf("canonicalize url: %w", err)
	}

	// Step 3: URL-unique check.
	exists, err := s.Articles.ExistsByURL(ctx, canonical)
	if err != nil {
		return nil, false, fmt.Errorf("check existing url: %w", err)
	}
	if exists {
		res.SkippedDuplicate++
		return nil, true, fmt.Errorf("%w: %s", entity.ErrDuplicateURL, canonical)
	}

	// Step 4: title dedup.
	if IsNearDuplicateTitle(raw.Title, recentTitles) {
		res.SkippedTitle++
		return nil, true, nil
	}

	// Step 5: entity extraction.
	body := s.enhanceBody(ctx, raw)
	entities := ExtractEntities(raw.Title + " " + body)

	// Step 6: snippet truncation.
	snippet := TruncateSnippet(body)
	summary := TruncateSummary(firstSentences(body, entity.MaxSummaryLen))

	article := &entity.Article{
		URL:          canonical,
		SourceDomain: raw.SourceDomain,
		Title:        raw.Title,
		Summary:      summary,
		Snippet:      snippet,
		Timestamp:    raw.Timestamp,
		IngestedAt:   s.Now().UTC(),
		Language:     "en",
		Entities:     entities,
		FactCheckStatus: entity.FactCheckUnchecked,
	}

	// Step 7: persist.
	if err := s.Articles.Create(ctx, article); err != nil {
		return nil, false, fmt.Errorf("persist article: %w", err)
	}
	res.Inserted++

	return article, false, nil
}

// enhanceBody fetches the full article body when raw.Body is shorter
// than ContentThreshold, falling back to raw.Body on any fetch error or
// when no enhancer is configured. Never returns an error.
func (s *Service) enhanceBody(ctx context.Context, raw RawArticle) string {
	if s.ContentEnhancer == nil || len(raw.Body) >= s.ContentThreshold {
		return raw.Body
	}

	full, err := s.ContentEnhancer.FetchContent(ctx, raw.URL)
	if err != nil {
		slog.Warn("content enhancement failed, using source body",
			slog.String("url", raw.URL), slog.Any("error", err))
		return raw.Body
	}
	if len(full) <= len(raw.Body) {
		return raw.Body
	}
	return full
}

// firstSentences is a cheap summary seed: the leading portion of body
// up to maxLen, reused by TruncateSummary for the final cut.
func firstSentences(body string, maxLen int) string {
	trimmed := strings.TrimSpace(body)
	if len(trimmed) <= maxLen {
		return trimmed
	}
	return trimmed[:maxLen]
}

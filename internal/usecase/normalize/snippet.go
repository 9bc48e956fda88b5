package normalize

import (
	"strings"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
)

// sentenceEnders are the runes considered a sentence boundary when
// truncating a snippet (§4.2 step 6).
const sentenceEnders = ".!?"

// TruncateSnippet truncates body to at most entity.MaxSnippetLen
// characters, breaking at the last sentence boundary at or before the
// limit when one exists (§4.2 step 6). Bodies already within the limit
// are returned unchanged.
func TruncateSnippet(body string) string {
	runes := []rune(body)
	if len(runes) <= entity.MaxSnippetLen {
		return body
	}

	window := string(runes[:entity.MaxSnippetLen])
	if idx := strings.LastIndexAny(window, sentenceEnders); idx >= 0 {
		return window[:idx+1]
	}
	return window
}

// TruncateSummary truncates a summary to at most entity.MaxSummaryLen
// characters without a sentence-boundary preference — summaries are
// already short, upstream-generated prose (§4.2, §3 Article.summary).
func TruncateSummary(summary string) string {
	runes := []rune(summary)
	if len(runes) <= entity.MaxSummaryLen {
		return summary
	}
	return string(runes[:entity.MaxSummaryLen])
}

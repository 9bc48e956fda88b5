package normalize

import (
	"strings"
	"testing"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestTruncateSnippet_ShortBodyUnchanged(t *testing.T) {
	body := "A short article body."
	assert.Equal(t, body, TruncateSnippet(body))
}

func TestTruncateSnippet_BreaksAtSentenceBoundary(t *testing.T) {
	sentence := "This is a sentence that repeats. "
	body := strings.Repeat(sentence, 100)
	got := TruncateSnippet(body)

	assert.LessOrEqual(t, len([]rune(got)), entity.MaxSnippetLen)
	assert.True(t, strings.HasSuffix(strings.TrimRight(got, " "), "."))
}

func TestTruncateSnippet_NoSentenceBoundaryHardCuts(t *testing.T) {
	body := strings.Repeat("a", entity.MaxSnippetLen+500)
	got := TruncateSnippet(body)
	assert.Len(t, []rune(got), entity.MaxSnippetLen)
}

func TestTruncateSummary_ShortUnchanged(t *testing.T) {
	s := "A short summary."
	assert.Equal(t, s, TruncateSummary(s))
}

func TestTruncateSummary_LongCutToMax(t *testing.T) {
	s := strings.Repeat("x", entity.MaxSummaryLen+50)
	got := TruncateSummary(s)
	assert.Len(t, []rune(got), entity.MaxSummaryLen)
}

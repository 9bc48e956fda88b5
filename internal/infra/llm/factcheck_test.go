package llm

import (
	"strings"
	"testing"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxTokens <= 0 {
		t.Error("expected a positive MaxTokens")
	}
	if cfg.Timeout <= 0 {
		t.Error("expected a positive Timeout")
	}
	if cfg.Model == "" {
		t.Error("expected a non-empty Model")
	}
}

func TestBuildPrompt_PrefersSnippetOverSummary(t *testing.T) {
	article := &entity.Article{
		Title:   "Flood warning issued",
		Summary: "short summary",
		Snippet: "a much longer extracted excerpt of the article body",
	}
	prompt := buildPrompt(article)
	if !strings.Contains(prompt, article.Snippet) {
		t.Error("expected prompt to include the snippet")
	}
	if strings.Contains(prompt, article.Summary) {
		t.Error("expected prompt to prefer snippet text over the bare summary")
	}
	if !strings.Contains(prompt, article.Title) {
		t.Error("expected prompt to include the title")
	}
}

func TestBuildPrompt_FallsBackToSummaryWhenNoSnippet(t *testing.T) {
	article := &entity.Article{
		Title:   "Flood warning issued",
		Summary: "short summary",
	}
	prompt := buildPrompt(article)
	if !strings.Contains(prompt, article.Summary) {
		t.Error("expected prompt to fall back to the summary when snippet is empty")
	}
}

func TestNewFactChecker_WiresDependencies(t *testing.T) {
	fc := NewFactChecker("test-api-key")
	if fc.circuitBreaker == nil {
		t.Error("expected a circuit breaker to be wired")
	}
	if fc.config.Model == "" {
		t.Error("expected a default config to be wired")
	}
}

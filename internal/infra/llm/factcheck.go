// Package llm implements the optional Tier 4 fact-check collaborator
// (§4.7): an external LLM call that turns an Article's text into a
// FactCheckStatus verdict, wrapped in the same circuit-breaker/retry
// shape the pack uses for its other Claude API call.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sony/gobreaker"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/resilience/circuitbreaker"
	"github.com/geraldfingburke/verinews/internal/resilience/retry"
)

// Config holds the tunables for the fact-check collaborator.
type Config struct {
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// DefaultConfig returns the collaborator's default model/timeout.
func DefaultConfig() Config {
	return Config{
		Model:     string(anthropic.ModelClaudeSonnet4_5_20250929),
		MaxTokens: 1024,
		Timeout:   60 * time.Second,
	}
}

// verdictResponse is the structured shape the prompt asks the model to
// return, one entry per claim evaluated.
type verdictResponse struct {
	Status string `json:"status"`
	Flags  []struct {
		Claim       string  `json:"claim"`
		Verdict     string  `json:"verdict"`
		EvidenceURL string  `json:"evidence_url"`
		Confidence  float64 `json:"confidence"`
	} `json:"flags"`
}

// FactChecker calls an external LLM to verify an Article's claims
// (§4.7 Tier 4), behind a circuit breaker so a collaborator outage
// degrades Tier 4 to a no-op rather than blocking the scheduler.
type FactChecker struct {
	client         anthropic.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
}

// NewFactChecker constructs a FactChecker from an Anthropic API key.
func NewFactChecker(apiKey string) *FactChecker {
	return &FactChecker{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker: circuitbreaker.New(circuitbreaker.FactCheckAPIConfig()),
		retryConfig:    retry.AIAPIConfig(),
		config:         DefaultConfig(),
	}
}

// Check evaluates one article's title+snippet and returns a verdict
// status plus claim-level flags. A collaborator failure (timeout,
// circuit open, malformed response) returns entity.FactCheckUnverifiable
// rather than an error — Tier 4 treats that as "try again next run",
// never as a reason to abort the batch.
func (f *FactChecker) Check(ctx context.Context, article *entity.Article) (entity.FactCheckStatus, []entity.FactCheckFlag) {
	ctx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	var verdict verdictResponse
	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		result, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doCheck(ctx, article)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("fact-check api circuit breaker open, request rejected",
					slog.String("service", "fact-check-api"))
				return fmt.Errorf("fact-check api unavailable: circuit breaker open")
			}
			return err
		}
		verdict = result.(verdictResponse)
		return nil
	})

	if retryErr != nil {
		slog.Warn("fact-check failed after retries", slog.Int64("article_id", article.ID), slog.Any("error", retryErr))
		return entity.FactCheckUnverifiable, nil
	}

	status := entity.FactCheckStatus(verdict.Status)
	switch status {
	case entity.FactCheckVerified, entity.FactCheckDisputed, entity.FactCheckFalse, entity.FactCheckUnverifiable:
	default:
		status = entity.FactCheckUnverifiable
	}

	flags := make([]entity.FactCheckFlag, 0, len(verdict.Flags))
	for _, flag := range verdict.Flags {
		flags = append(flags, entity.FactCheckFlag{
			Claim:       flag.Claim,
			Verdict:     flag.Verdict,
			EvidenceURL: flag.EvidenceURL,
			Confidence:  flag.Confidence,
		})
	}
	return status, flags
}

func (f *FactChecker) doCheck(ctx context.Context, article *entity.Article) (interface{}, error) {
	prompt := buildPrompt(article)

	message, err := f.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(f.config.Model),
		MaxTokens: int64(f.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fact-check api call: %w", err)
	}
	if len(message.Content) == 0 {
		return nil, errors.New("fact-check api: empty response")
	}
	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return nil, errors.New("fact-check api: non-text response")
	}

	text := strings.TrimSpace(textBlock.Text)
	var verdict verdictResponse
	if err := json.Unmarshal([]byte(text), &verdict); err != nil {
		return nil, fmt.Errorf("fact-check api: parse response: %w", err)
	}
	return verdict, nil
}

func buildPrompt(article *entity.Article) string {
	body := article.Summary
	if article.Snippet != "" {
		body = article.Snippet
	}
	return fmt.Sprintf(`Fact-check the following news article. Respond with ONLY a JSON object of the
shape {"status": one of "verified"|"disputed"|"false"|"unverifiable", "flags": [{"claim": "...", "verdict": "...", "evidence_url": "...", "confidence": 0.0-1.0}]}.

Title: %s
Text: %s`, article.Title, body)
}

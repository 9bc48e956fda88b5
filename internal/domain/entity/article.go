// Package entity defines the core domain entities and validation logic for
// the application. It contains the fundamental business objects such as
// Article and Event, along with their validation rules and domain-specific
// errors.
package entity

import "time"

// FactCheckStatus is the verification state of an Article's fact-check pass.
type FactCheckStatus string

// Fact-check status values (§3 Article.fact_check_status).
const (
	FactCheckUnchecked    FactCheckStatus = "unchecked"
	FactCheckVerified     FactCheckStatus = "verified"
	FactCheckDisputed     FactCheckStatus = "disputed"
	FactCheckFalse        FactCheckStatus = "false"
	FactCheckUnverifiable FactCheckStatus = "unverifiable"
)

// EmbeddingDimension is the fixed length of an Article's semantic vector
// (§4.3).
const EmbeddingDimension = 384

// Embedding is a fixed-length, L2-normalized semantic vector.
type Embedding [EmbeddingDimension]float32

// FactCheckFlag records one claim-level fact-check verdict for an Article.
type FactCheckFlag struct {
	Claim       string
	Verdict     string
	EvidenceURL string
	Confidence  float64
}

// Article represents a single fetched news-like item (§3 Article).
//
// The Event Store exclusively owns mutable Article rows (§3 Ownership);
// every other component receives a short-lived, read-only copy scoped to
// one pipeline cycle or one API request.
type Article struct {
	ID              int64
	URL             string // canonicalized, globally unique
	SourceDomain    string
	Title           string
	Summary         string // <= 300 chars
	Snippet         string // <= 2000 chars, not full body
	Timestamp       time.Time
	IngestedAt      time.Time // UTC, required, never zero
	Language        string    // ISO-639-1; only "en" is retained
	Entities        []string  // insertion order preserved, capped at 50
	ClusterID       *int64    // reference to Event; nil if unassigned
	Embedding       *Embedding
	FactCheckStatus FactCheckStatus
	FactCheckFlags  []FactCheckFlag
}

// HasBody reports whether the article carries retained textual content
// (summary or snippet), the condition invariant 1 (§3) is keyed on: every
// Article with a non-empty body must carry a non-zero IngestedAt.
func (a *Article) HasBody() bool {
	return a.Summary != "" || a.Snippet != ""
}

// Length and count bounds on retained Article text (§3).
const (
	MaxSummaryLen = 300
	MaxSnippetLen = 2000
	MaxEntities   = 50
)

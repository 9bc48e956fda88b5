// Package health serves the query API's own liveness/readiness endpoint,
// distinct from the ingestion worker's health server (§4.8, §4.7).
package health

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/geraldfingburke/verinews/internal/handler/http/respond"
	"github.com/geraldfingburke/verinews/internal/repository"
)

// response is the GET /health payload (§4.8).
type response struct {
	Status         string     `json:"status"`
	Database       string     `json:"database"`
	WorkerLastRun  *time.Time `json:"worker_last_run"`
	TotalEvents    int64      `json:"total_events"`
	TotalArticles  int64      `json:"total_articles"`
}

// Handler implements GET /health.
type Handler struct {
	DB       *sql.DB
	Events   repository.EventRepository
	Articles repository.ArticleRepository
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := response{Status: "ok", Database: "ok"}

	if err := h.DB.PingContext(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
	}

	if total, err := h.Events.Count(ctx, repository.EventFilters{}); err == nil {
		resp.TotalEvents = total
	} else {
		resp.Status = "degraded"
	}

	if total, err := h.Articles.Count(ctx, repository.ArticleFilters{}); err == nil {
		resp.TotalArticles = total
	} else {
		resp.Status = "degraded"
	}

	if lastRun, err := h.Articles.LastIngestedAt(ctx); err == nil && !lastRun.IsZero() {
		resp.WorkerLastRun = &lastRun
	}

	code := http.StatusOK
	if resp.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	respond.JSON(w, code, resp)
}

package events

import (
	"fmt"
	"net/http"
	"time"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/handler/http/respond"
	"github.com/geraldfingburke/verinews/internal/repository"
)

var errInvalidSeverity = fmt.Errorf("%w: severity must be one of none, low, medium, high", entity.ErrBadRequest)

// FlaggedHandler implements flagged_articles (§4.8): GET /events/flagged.
type FlaggedHandler struct{ Handlers }

func (h FlaggedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %s", entity.ErrBadRequest, err))
		return
	}

	var filters repository.FlaggedArticleFilters

	if severityStr := r.URL.Query().Get("severity"); severityStr != "" {
		severity, err := parseConflictSeverity(severityStr)
		if err != nil {
			writeError(w, err)
			return
		}
		filters.Severity = &severity
	}

	filters.Source = r.URL.Query().Get("source")

	days, err := parseIntParam(r, "days", 0)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %s", entity.ErrBadRequest, err))
		return
	}
	if days > 0 {
		since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
		filters.Since = &since
	}

	rows, total, err := h.Events.FlaggedArticles(r.Context(), filters, params.Offset, params.Limit)
	if err != nil {
		writeError(w, err)
		return
	}

	results := make([]FlaggedArticle, 0, len(rows))
	for _, row := range rows {
		results = append(results, toFlaggedArticle(row.Article, row.Severity))
	}

	respond.JSON(w, http.StatusOK, NewPage(total, params.Limit, params.Offset, results))
}

func parseConflictSeverity(s string) (entity.ConflictSeverity, error) {
	switch entity.ConflictSeverity(s) {
	case entity.ConflictNone, entity.ConflictLow, entity.ConflictMedium, entity.ConflictHigh:
		return entity.ConflictSeverity(s), nil
	default:
		return "", errInvalidSeverity
	}
}

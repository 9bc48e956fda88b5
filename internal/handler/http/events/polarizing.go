package events

import (
	"fmt"
	"net/http"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/handler/http/respond"
)

// PolarizingHandler implements polarizing_sources (§4.8): GET /events/polarizing-sources.
type PolarizingHandler struct{ Handlers }

func (h PolarizingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r, "limit", defaultLimit)
	if err != nil || limit < 1 || limit > maxLimit {
		writeError(w, fmt.Errorf("%w: limit must be an integer between 1 and %d", entity.ErrBadRequest, maxLimit))
		return
	}

	minArticles, err := parseIntParam(r, "min_articles", 1)
	if err != nil || minArticles < 1 {
		writeError(w, fmt.Errorf("%w: min_articles must be a positive integer", entity.ErrBadRequest))
		return
	}

	rows, err := h.Events.PolarizingSources(r.Context(), minArticles, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	results := make([]PolarizingSource, 0, len(rows))
	for _, row := range rows {
		results = append(results, toPolarizingSource(row))
	}
	respond.JSON(w, http.StatusOK, results)
}

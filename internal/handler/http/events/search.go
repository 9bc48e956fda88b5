package events

import (
	"fmt"
	"net/http"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/handler/http/respond"
	"github.com/geraldfingburke/verinews/internal/repository"
	"github.com/geraldfingburke/verinews/internal/usecase/rank"
)

var errMissingQuery = fmt.Errorf("%w: q is required", entity.ErrBadRequest)

// SearchHandler implements search_events (§4.8): GET /events/search. Match
// is case-insensitive substring over the event summary and the entities
// of its member articles.
type SearchHandler struct{ Handlers }

func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %s", entity.ErrBadRequest, err))
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, errMissingQuery)
		return
	}

	filters := repository.EventFilters{Query: q}
	if parseBoolParam(r, "politics_only") {
		politicsOnly := true
		filters.PoliticsFlag = &politicsOnly
	}

	page, err := h.rankedPage(r.Context(), filters, rank.SectionAll, params.Offset, params.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

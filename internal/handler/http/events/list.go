package events

import (
	"fmt"
	"net/http"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/handler/http/respond"
	"github.com/geraldfingburke/verinews/internal/repository"
)

var errInvalidStatus = fmt.Errorf("%w: status must be one of confirmed, developing, all", entity.ErrBadRequest)

// ListHandler implements list_events (§4.8): GET /events.
type ListHandler struct{ Handlers }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %s", entity.ErrBadRequest, err))
		return
	}

	tier, tiers, section, err := statusToTier(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}

	filters := repository.EventFilters{ConfidenceTier: tier, ConfidenceTiers: tiers}
	if parseBoolParam(r, "politics_only") {
		politicsOnly := true
		filters.PoliticsFlag = &politicsOnly
	}

	page, err := h.rankedPage(r.Context(), filters, section, params.Offset, params.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

package events

import (
	"fmt"
	"net/http"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/handler/http/respond"
	"github.com/geraldfingburke/verinews/internal/repository"
	"github.com/geraldfingburke/verinews/internal/usecase/rank"
)

// ConflictsHandler implements list_conflicts (§4.8): GET /events/conflicts.
type ConflictsHandler struct{ Handlers }

func (h ConflictsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params, err := parsePageParams(r)
	if err != nil {
		writeError(w, fmt.Errorf("%w: %s", entity.ErrBadRequest, err))
		return
	}

	hasConflict := true
	filters := repository.EventFilters{HasConflict: &hasConflict}

	page, err := h.rankedPage(r.Context(), filters, rank.SectionConflicts, params.Offset, params.Limit)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, page)
}

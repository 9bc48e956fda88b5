package events

import (
	"fmt"
	"net/http"

	"github.com/geraldfingburke/verinews/internal/domain/entity"
	"github.com/geraldfingburke/verinews/internal/handler/http/pathutil"
	"github.com/geraldfingburke/verinews/internal/handler/http/respond"
	"github.com/geraldfingburke/verinews/internal/repository"
)

// GetHandler implements get_event (§4.8): GET /events/{id}.
type GetHandler struct{ Handlers }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/events/")
	if err != nil {
		writeError(w, fmt.Errorf("%w: %s", entity.ErrBadRequest, err))
		return
	}

	ctx := r.Context()
	event, err := h.Events.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}

	clusterID := event.ID
	articles, err := h.Articles.List(ctx, repository.ArticleFilters{ClusterID: &clusterID}, 0, 500)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDetail(event, articles))
}

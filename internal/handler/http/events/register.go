package events

import (
	"net/http"

	"github.com/geraldfingburke/verinews/internal/repository"
)

// Register wires the query surface's read-only routes onto mux. All
// routes here are GET; none require authentication (§4.8: the query API
// is a public read surface).
func Register(mux *http.ServeMux, events repository.EventRepository, articles repository.ArticleRepository) {
	h := Handlers{Events: events, Articles: articles}

	mux.Handle("GET    /events", ListHandler{h})
	mux.Handle("GET    /events/conflicts", ConflictsHandler{h})
	mux.Handle("GET    /events/search", SearchHandler{h})
	mux.Handle("GET    /events/stats/summary", StatsHandler{h})
	mux.Handle("GET    /events/flagged", FlaggedHandler{h})
	mux.Handle("GET    /events/polarizing-sources", PolarizingHandler{h})
	mux.Handle("GET    /events/", GetHandler{h})
}

package events

import (
	"net/http"
	"time"

	"github.com/geraldfingburke/verinews/internal/handler/http/respond"
)

// StatsHandler implements stats_summary (§4.8): GET /events/stats/summary.
type StatsHandler struct{ Handlers }

func (h StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.Events.Stats(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	lastIngested, err := h.Articles.LastIngestedAt(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	var lastIngestion *time.Time
	if !lastIngested.IsZero() {
		lastIngestion = &lastIngested
	}

	respond.JSON(w, http.StatusOK, StatsSummary{
		TotalEvents:       stats.TotalEvents,
		ByConfidenceTier:  stats.ByConfidenceTier,
		ActiveConflicts:   stats.ActiveConflicts,
		AverageTruthScore: stats.AverageTruthScore,
		LastIngestion:     lastIngestion,
	})
}

package worker

import (
	"github.com/geraldfingburke/verinews/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics provides Prometheus metrics for the five-tier scheduler.
// It embeds the standard ConfigMetrics for configuration monitoring and adds
// tier-labeled metrics for job execution tracking, since each of T1-T5
// (§4.7) runs on its own cadence and should be observable independently.
//
// Embedded metrics (from ConfigMetrics):
//   - worker_config_load_timestamp: Unix timestamp of last configuration load
//   - worker_config_validation_errors_total: Total validation errors by field
//   - worker_config_fallbacks_total: Total fallback operations by field
//   - worker_config_fallback_active: 1 if any fallback active, 0 otherwise
//
// Tier metrics (all labeled by "tier", e.g. "t1_fast_fetch"):
//   - worker_tier_runs_total: Total tier runs by tier and status (success/failure/skipped)
//   - worker_tier_duration_seconds: Duration histogram of tier execution
//   - worker_tier_items_processed_total: Total items processed per tier run
//   - worker_tier_last_run_timestamp: Unix timestamp of last run, per tier
type WorkerMetrics struct {
	// Embedded configuration metrics
	*config.ConfigMetrics

	TierRunsTotal           *prometheus.CounterVec
	TierDurationSeconds     *prometheus.HistogramVec
	TierItemsProcessedTotal *prometheus.CounterVec
	TierLastRunTimestamp    *prometheus.GaugeVec
}

// NewWorkerMetrics creates a new WorkerMetrics instance with all metrics initialized.
// Metrics are created but not registered with Prometheus. Call MustRegister() to register.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		TierRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_tier_runs_total",
			Help: "Total number of scheduler tier runs by tier and status (success/failure/skipped)",
		}, []string{"tier", "status"}),

		TierDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worker_tier_duration_seconds",
			Help:    "Duration of scheduler tier execution in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}, []string{"tier"}),

		TierItemsProcessedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_tier_items_processed_total",
			Help: "Total number of items processed (sources fetched, events recomputed, articles fact-checked) per tier",
		}, []string{"tier"}),

		TierLastRunTimestamp: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_tier_last_run_timestamp",
			Help: "Unix timestamp of the last run, per tier",
		}, []string{"tier"}),
	}
}

// MustRegister is a no-op method for API compatibility.
// Metrics are automatically registered via promauto when created in NewWorkerMetrics.
func (m *WorkerMetrics) MustRegister() {
	// No-op: metrics are auto-registered via promauto
}

// RecordTierRun increments the run counter for a tier/status pair.
// Status should be "success", "failure", or "skipped" (the latter when a
// tier's mutex TryLock fails because the previous run is still in flight).
func (m *WorkerMetrics) RecordTierRun(tier, status string) {
	m.TierRunsTotal.WithLabelValues(tier, status).Inc()
}

// RecordTierDuration observes a tier's execution duration in seconds.
func (m *WorkerMetrics) RecordTierDuration(tier string, seconds float64) {
	m.TierDurationSeconds.WithLabelValues(tier).Observe(seconds)
}

// RecordItemsProcessed adds to a tier's processed-item counter.
func (m *WorkerMetrics) RecordItemsProcessed(tier string, count int) {
	m.TierItemsProcessedTotal.WithLabelValues(tier).Add(float64(count))
}

// RecordTierRan sets a tier's last-run timestamp to now.
func (m *WorkerMetrics) RecordTierRan(tier string) {
	m.TierLastRunTimestamp.WithLabelValues(tier).SetToCurrentTime()
}

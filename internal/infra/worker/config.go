package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/geraldfingburke/verinews/internal/pkg/config"
)

// WorkerConfig holds the configuration for the five-tier scheduler
// (§4.7): peak/off-peak cadence is derived from Timezone at run time,
// per-tier worker caps bound each tier's concurrent fan-out, and the
// health server exposes readiness on HealthPort.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - Default values (provided by DefaultConfig)
type WorkerConfig struct {
	// Timezone is the IANA timezone name used to decide peak
	// (06:00-23:00 local) vs off-peak cadence for every tier.
	// Default: "UTC"
	Timezone string

	// HealthPort is the port number for the health check HTTP server.
	// Range: 1024-65535
	// Default: 9091
	HealthPort int

	// SourceTimeout bounds a single source's fetch call within Tier 2
	// (§4.7: "per-source timeout 30s").
	// Default: 30s
	SourceTimeout time.Duration

	// T2MaxWorkers bounds Tier 2's parallel fetcher fan-out (§4.7: "max
	// 6 workers").
	// Default: 6
	T2MaxWorkers int

	// T4MaxWorkers bounds Tier 4's parallel fact-check fan-out.
	// Default: 2
	T4MaxWorkers int

	// T3EventCap is the maximum number of Events Tier 3 re-evaluates
	// per run (§4.7: "Cap: 25 events re-evaluated").
	// Default: 25
	T3EventCap int

	// T3ExcerptCap is the maximum number of Events per Tier 3 run that
	// receive full excerpt extraction (§4.7: "8 events receive full
	// excerpt extraction per run").
	// Default: 8
	T3ExcerptCap int

	// T4ArticleCap is the maximum number of unchecked articles Tier 4
	// fact-checks per run (§4.7: "up to 30 unchecked important
	// articles").
	// Default: 30
	T4ArticleCap int

	// RetentionDays is the article retention window Tier 5 enforces
	// (§4.7 T5: "expire_articles(now - 30d)").
	// Default: 30
	RetentionDays int
}

// DefaultConfig returns a WorkerConfig with the §4.7 default cadences
// and caps.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		Timezone:      "UTC",
		HealthPort:    9091,
		SourceTimeout: 30 * time.Second,
		T2MaxWorkers:  6,
		T4MaxWorkers:  2,
		T3EventCap:    25,
		T3ExcerptCap:  8,
		T4ArticleCap:  30,
		RetentionDays: 30,
	}
}

// Validate checks if the configuration values are valid, collecting
// every violation rather than stopping at the first.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateDuration(c.SourceTimeout, time.Second, 2*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("source timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.T2MaxWorkers, 1, 50); err != nil {
		errs = append(errs, fmt.Errorf("t2 max workers: %w", err))
	}
	if err := config.ValidateIntRange(c.T4MaxWorkers, 1, 50); err != nil {
		errs = append(errs, fmt.Errorf("t4 max workers: %w", err))
	}
	if err := config.ValidateIntRange(c.T3EventCap, 1, 1000); err != nil {
		errs = append(errs, fmt.Errorf("t3 event cap: %w", err))
	}
	if err := config.ValidateIntRange(c.T3ExcerptCap, 1, 1000); err != nil {
		errs = append(errs, fmt.Errorf("t3 excerpt cap: %w", err))
	}
	if err := config.ValidateIntRange(c.T4ArticleCap, 1, 1000); err != nil {
		errs = append(errs, fmt.Errorf("t4 article cap: %w", err))
	}
	if err := config.ValidateIntRange(c.RetentionDays, 1, 3650); err != nil {
		errs = append(errs, fmt.Errorf("retention days: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv loads worker configuration from environment
// variables with validation and automatic fallback to default values
// on failure (fail-open: this never returns an error).
//
// Environment variables:
//   - WORKER_TIMEZONE: IANA timezone name (default: "UTC")
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default: 9091)
//   - SOURCE_TIMEOUT: duration string, e.g. "30s" (default: 30s)
//   - T2_MAX_WORKERS: integer 1-50 (default: 6)
//   - T4_MAX_WORKERS: integer 1-50 (default: 2)
//   - T3_EVENT_CAP: integer (default: 25)
//   - T3_EXCERPT_CAP: integer (default: 8)
//   - T4_ARTICLE_CAP: integer (default: 30)
//   - RETENTION_DAYS: integer (default: 30)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	warn := func(field string, result config.ConfigLoadResult) {
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field, "default")
		for _, warning := range result.Warnings {
			logger.Warn("Configuration fallback applied",
				slog.String("field", field), slog.String("warning", warning))
		}
	}

	result := config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	if result.FallbackApplied {
		warn("timezone", result)
	}

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	if result.FallbackApplied {
		warn("health_port", result)
	}

	result = config.LoadEnvDuration("SOURCE_TIMEOUT", cfg.SourceTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Second, 2*time.Minute)
	})
	cfg.SourceTimeout = result.Value.(time.Duration)
	if result.FallbackApplied {
		warn("source_timeout", result)
	}

	result = config.LoadEnvInt("T2_MAX_WORKERS", cfg.T2MaxWorkers, func(v int) error {
		return config.ValidateIntRange(v, 1, 50)
	})
	cfg.T2MaxWorkers = result.Value.(int)
	if result.FallbackApplied {
		warn("t2_max_workers", result)
	}

	result = config.LoadEnvInt("T4_MAX_WORKERS", cfg.T4MaxWorkers, func(v int) error {
		return config.ValidateIntRange(v, 1, 50)
	})
	cfg.T4MaxWorkers = result.Value.(int)
	if result.FallbackApplied {
		warn("t4_max_workers", result)
	}

	result = config.LoadEnvInt("T3_EVENT_CAP", cfg.T3EventCap, func(v int) error {
		return config.ValidateIntRange(v, 1, 1000)
	})
	cfg.T3EventCap = result.Value.(int)
	if result.FallbackApplied {
		warn("t3_event_cap", result)
	}

	result = config.LoadEnvInt("T3_EXCERPT_CAP", cfg.T3ExcerptCap, func(v int) error {
		return config.ValidateIntRange(v, 1, 1000)
	})
	cfg.T3ExcerptCap = result.Value.(int)
	if result.FallbackApplied {
		warn("t3_excerpt_cap", result)
	}

	result = config.LoadEnvInt("T4_ARTICLE_CAP", cfg.T4ArticleCap, func(v int) error {
		return config.ValidateIntRange(v, 1, 1000)
	})
	cfg.T4ArticleCap = result.Value.(int)
	if result.FallbackApplied {
		warn("t4_article_cap", result)
	}

	result = config.LoadEnvInt("RETENTION_DAYS", cfg.RetentionDays, func(v int) error {
		return config.ValidateIntRange(v, 1, 3650)
	})
	cfg.RetentionDays = result.Value.(int)
	if result.FallbackApplied {
		warn("retention_days", result)
	}

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}

package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/geraldfingburke/verinews/internal/config"
	pgRepo "github.com/geraldfingburke/verinews/internal/infra/adapter/persistence/postgres"
	"github.com/geraldfingburke/verinews/internal/infra/db"
	"github.com/geraldfingburke/verinews/internal/infra/fetcher"
	"github.com/geraldfingburke/verinews/internal/infra/llm"
	workerPkg "github.com/geraldfingburke/verinews/internal/infra/worker"
	"github.com/geraldfingburke/verinews/internal/usecase/analysis"
	"github.com/geraldfingburke/verinews/internal/usecase/cluster"
	"github.com/geraldfingburke/verinews/internal/usecase/normalize"
)

func waitForMigrations(logger *slog.Logger, db *sql.DB) {
	const probe = "SELECT 1 FROM sources LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := db.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("health_port", workerConfig.HealthPort),
		slog.Int("t2_max_workers", workerConfig.T2MaxWorkers),
		slog.Int("t4_max_workers", workerConfig.T4MaxWorkers),
		slog.Int("retention_days", workerConfig.RetentionDays))

	startMetricsServer(ctx, logger)

	healthAddr := healthAddrFromPort(workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", healthAddr))

	scheduler := setupScheduler(logger, database, workerConfig, workerMetrics)

	if err := scheduler.Start(ctx, healthServer); err != nil {
		logger.Error("failed to start scheduler", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	select {}
}

// initLogger initializes and returns a structured logger based on environment configuration.
func initLogger() *slog.Logger {
	logLevel := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database connection and waits for migrations to complete.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	waitForMigrations(logger, database)
	return database
}

// setupScheduler wires the C7 Scheduler: fetcher registry, normalizer,
// clusterer, analysis service (with its Source Registry and optional
// content enhancer), and the optional Tier 4 fact-check collaborator.
func setupScheduler(logger *slog.Logger, database *sql.DB, cfg *workerPkg.WorkerConfig, metrics *workerPkg.WorkerMetrics) *workerPkg.Scheduler {
	articles := pgRepo.NewArticleRepo(database)
	events := pgRepo.NewEventRepo(database)

	fetcherCfg := loadFetcherConfig()
	registry := fetcher.NewRegistry(fetcherCfg)
	logger.Info("fetcher registry wired", slog.Int("variants", len(registry)))

	contentFetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		logger.Warn("content fetch configuration invalid, content enhancement disabled", slog.Any("error", err))
		contentFetchCfg = fetcher.DefaultConfig()
		contentFetchCfg.Enabled = false
	}

	var normalizeService *normalize.Service
	var enhancer normalize.ContentEnhancer
	if contentFetchCfg.Enabled {
		enhancer = fetcher.NewReadabilityFetcher(contentFetchCfg)
		normalizeService = normalize.NewServiceWithContentEnhancer(articles, enhancer, contentFetchCfg.Threshold)
		logger.Info("content enhancement enabled", slog.Int("threshold", contentFetchCfg.Threshold))
	} else {
		normalizeService = normalize.NewService(articles)
		logger.Info("content enhancement disabled")
	}

	clusterService := cluster.NewService(articles, events)

	sourceRegistryPath := os.Getenv("SOURCE_REGISTRY_PATH")
	if sourceRegistryPath == "" {
		sourceRegistryPath = "configs/sources.yaml"
	}
	sourceRegistry := config.LoadSourceRegistry(sourceRegistryPath, logger)

	analysisService := analysis.NewService(articles, events, sourceRegistry)
	analysisService.Enhancer = enhancer

	scheduler := workerPkg.NewScheduler(cfg, metrics, logger)
	scheduler.Fetchers = registry
	scheduler.Normalize = normalizeService
	scheduler.Cluster = clusterService
	scheduler.Analysis = analysisService
	scheduler.Articles = articles
	scheduler.Events = events
	scheduler.FactCheck = setupFactChecker(logger)

	return scheduler
}

// setupFactChecker wires the optional Tier 4 fact-check collaborator.
// A missing ANTHROPIC_API_KEY disables Tier 4 gracefully rather than
// failing worker startup.
func setupFactChecker(logger *slog.Logger) *llm.FactChecker {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		logger.Info("ANTHROPIC_API_KEY not set, fact-check tier disabled")
		return nil
	}
	logger.Info("fact-check collaborator wired")
	return llm.NewFactChecker(apiKey)
}

// loadFetcherConfig reads the fetcher variants' environment-provided
// credentials. A variant with missing credentials is simply omitted
// from the resulting registry by fetcher.NewRegistry.
func loadFetcherConfig() fetcher.Config {
	return fetcher.Config{
		RSSFeedURLs:         splitAndTrim(os.Getenv("RSS_FEED_URLS")),
		NewsAPIKey:          os.Getenv("NEWSAPI_KEY"),
		NewsAPIQuery:        os.Getenv("NEWSAPI_QUERY"),
		MediastackAccessKey: os.Getenv("MEDIASTACK_ACCESS_KEY"),
		MediastackQuery:     os.Getenv("MEDIASTACK_QUERY"),
		RedditClientID:      os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret:  os.Getenv("REDDIT_CLIENT_SECRET"),
		RedditUserAgent:     os.Getenv("REDDIT_USER_AGENT"),
		RedditSubreddits:    splitAndTrim(os.Getenv("REDDIT_SUBREDDITS")),
	}
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func healthAddrFromPort(port int) string {
	return ":" + strconv.Itoa(port)
}

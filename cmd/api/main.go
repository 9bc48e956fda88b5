package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	pgRepo "github.com/geraldfingburke/verinews/internal/infra/adapter/persistence/postgres"
	"github.com/geraldfingburke/verinews/internal/infra/db"
	"github.com/geraldfingburke/verinews/internal/observability/tracing"

	hhttp "github.com/geraldfingburke/verinews/internal/handler/http"
	"github.com/geraldfingburke/verinews/internal/handler/http/events"
	"github.com/geraldfingburke/verinews/internal/handler/http/feeds"
	"github.com/geraldfingburke/verinews/internal/handler/http/health"
	"github.com/geraldfingburke/verinews/internal/handler/http/middleware"
	"github.com/geraldfingburke/verinews/internal/handler/http/requestid"
)

func main() {
	logger := initLogger()
	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	handler := setupServer(logger, database)
	runServer(logger, handler)
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

// initDatabase opens the database connection and runs migrations.
func initDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// baseURL returns the externally visible origin used to build absolute
// links in the RSS feed. Falls back to a local default outside production.
func baseURL() string {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

// setupServer wires the query API routes (C8: events, flagged/polarizing
// lists, stats summary, RSS feed, health) and its middleware chain.
func setupServer(logger *slog.Logger, database *sql.DB) http.Handler {
	eventRepo := pgRepo.NewEventRepo(database)
	articleRepo := pgRepo.NewArticleRepo(database)

	mux := http.NewServeMux()
	events.Register(mux, eventRepo, articleRepo)
	mux.Handle("GET /health", health.Handler{DB: database, Events: eventRepo, Articles: articleRepo})
	mux.Handle("GET /feeds/verified.xml", feeds.Handler{Events: eventRepo, Articles: articleRepo, BaseURL: baseURL()})
	mux.Handle("GET /metrics", promhttp.Handler())

	return applyMiddleware(logger, mux)
}

// applyMiddleware wraps the mux with the shared middleware chain.
// Order: CORS → Request ID → Tracing → Recovery → Logging → Body Limit → Metrics → Timeout.
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	corsConfig, err := middleware.LoadCORSConfig()
	if err != nil {
		logger.Error("failed to load CORS configuration", slog.Any("error", err))
		os.Exit(1)
	}
	corsConfig.Logger = &middleware.SlogAdapter{Logger: logger}

	logger.Info("cors enabled",
		slog.Any("allowed_origins", corsConfig.Validator.GetAllowedOrigins()),
		slog.Any("allowed_methods", corsConfig.AllowedMethods))

	chain := handler
	chain = hhttp.Timeout(10 * time.Second)(chain)
	chain = middleware.Metrics(chain)
	chain = middleware.LimitRequestBody(1 << 20)(chain)
	chain = middleware.Logging(logger)(chain)
	chain = middleware.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	chain = middleware.CORS(*corsConfig)(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, handler http.Handler) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:              ":8080",
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("query api starting", slog.String("addr", ":8080"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}

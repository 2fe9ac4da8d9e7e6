package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"autosales-dashboard/internal/config"
	"autosales-dashboard/internal/dataset"
	"autosales-dashboard/internal/middleware"
	"autosales-dashboard/internal/observability"
	"autosales-dashboard/internal/server"
	"autosales-dashboard/internal/services"
	"autosales-dashboard/internal/ui/templates"
)

const (
	renderTimeout        = 10 * time.Second
	cacheMaxAge          = "public, max-age=300"
	limiterCleanupPeriod = 10 * time.Minute
)

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", cacheMaxAge)
	if err := templates.Dashboard().Render(ctx, w); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func loadEngine(ctx context.Context, cfg config.DatasetConfig, logger *slog.Logger) (*services.Engine, error) {
	loader := dataset.NewLoader(dataset.Options{
		HTTPClient: &http.Client{Timeout: cfg.FetchTimeout},
		CacheDir:   cfg.CacheDir,
		CacheTTL:   cfg.CacheTTL,
		Logger:     logger,
	})

	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	table, err := loader.Load(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}
	return services.NewEngine(table, logger), nil
}

func newHandler(cfg *config.Config, engine *services.Engine, logger *slog.Logger, rateLimiter *middleware.RateLimiter) http.Handler {
	templateHandlers := &server.TemplateHandlers{
		Dashboard: handleDashboard,
	}
	srv := server.NewServer(engine, logger, templateHandlers)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"addr", cfg.Address(),
		"dataset", cfg.Dataset.Source,
	)

	start := time.Now()
	engine, err := loadEngine(context.Background(), cfg.Dataset, logger)
	if err != nil {
		logger.Error("failed to load dataset", "source", cfg.Dataset.Source, "error", err)
		os.Exit(1)
	}
	logger.Info("dataset ready", "duration", time.Since(start))

	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	rateLimiter.StartCleanup(cleanupCtx, limiterCleanupPeriod)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, engine, logger, rateLimiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg.Server)

	gracefulServer.RegisterShutdownHook("rate-limiter", func(ctx context.Context) error {
		stopCleanup()
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}

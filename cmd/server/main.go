package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	apihttp "mediacatalog/searchservice/internal/api/http"
	"mediacatalog/searchservice/internal/app"
	"mediacatalog/searchservice/internal/catalog"
	"mediacatalog/searchservice/internal/ingest"
	"mediacatalog/searchservice/internal/library"
	"mediacatalog/searchservice/internal/metrics"
	"mediacatalog/searchservice/internal/search"
	"mediacatalog/searchservice/internal/telemetry"
)

func main() {
	cfg := app.LoadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics.Register(prometheus.DefaultRegisterer)

	shutdownTracer, err := telemetry.Init(context.Background(), "media-catalog-search")
	if err != nil {
		logger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	logger.Info("configuration loaded",
		slog.String("service", "media-catalog-search"),
		slog.String("httpAddr", cfg.HTTPAddr),
		slog.String("logLevel", cfg.LogLevel),
		slog.String("logFormat", cfg.LogFormat),
		slog.String("moviesFile", cfg.MoviesFile),
		slog.String("seriesFile", cfg.SeriesFile),
		slog.Bool("hasSnapshotPath", cfg.SnapshotPath != ""),
		slog.Bool("hasRedis", strings.TrimSpace(cfg.RedisURL) != ""),
		slog.Bool("cacheDisabled", cfg.CacheDisabled),
		slog.Bool("searchParallel", cfg.SearchParallel),
		slog.Int("searchWorkers", cfg.SearchWorkers),
	)

	store := catalog.NewStore()
	searchService := search.NewService(store, buildSearchOptions(cfg, logger)...)

	libraryOpts := []library.Option{library.WithLogger(logger)}

	ingestor := buildIngestor(cfg, logger)
	if ingestor != nil {
		libraryOpts = append(libraryOpts, library.WithIngestor(ingestor))
	}

	var snapshots *catalog.SnapshotStore
	if path := strings.TrimSpace(cfg.SnapshotPath); path != "" {
		snapshots, err = catalog.OpenSnapshotStore(path)
		if err != nil {
			logger.Error("cannot open snapshot store", slog.String("path", path), slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer snapshots.Close()
		libraryOpts = append(libraryOpts, library.WithSnapshots(snapshots))
	}

	libraryService := library.NewService(store, searchService, libraryOpts...)

	if ingestor != nil && cfg.IngestOnStart {
		report, err := libraryService.Ingest(context.Background())
		if err != nil {
			logger.Error("startup ingest failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if len(report.Failures) > 0 {
			logger.Warn("startup ingest skipped invalid lines", slog.Int("failed", len(report.Failures)))
		}
	}

	handler := apihttp.NewServer(libraryService,
		apihttp.WithLogger(logger),
		apihttp.WithDefaultParallel(cfg.SearchParallel),
		apihttp.WithRateLimit(float64(cfg.RequestRateLimit)),
	).Handler()
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logger.Info("media catalog search service started",
		slog.String("addr", cfg.HTTPAddr),
		slog.Int("catalogSize", libraryService.Size()),
	)

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("media catalog search service stopped")
}

func newLogger(levelRaw, formatRaw string) *slog.Logger {
	level := parseLogLevel(levelRaw)
	options := &slog.HandlerOptions{Level: level}
	format := strings.ToLower(strings.TrimSpace(formatRaw))
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, options))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, options))
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildSearchOptions(cfg app.Config, logger *slog.Logger) []search.ServiceOption {
	opts := []search.ServiceOption{
		search.WithLogger(logger),
		search.WithMaxWorkers(cfg.SearchWorkers),
		search.WithDefaultLimit(cfg.DefaultLimit),
	}

	if cfg.CacheDisabled {
		opts = append(opts, search.WithCacheDisabled(true))
		return opts
	}

	redisURL := strings.TrimSpace(cfg.RedisURL)
	if redisURL != "" {
		redisOpts, err := redis.ParseURL(redisURL)
		if err != nil {
			logger.Warn("invalid redis url, using in-memory cache only", slog.String("error", err.Error()))
			return opts
		}
		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis not reachable, using in-memory cache only", slog.String("error", err.Error()))
			return opts
		}
		logger.Info("redis connected", slog.String("addr", redisOpts.Addr))
		opts = append(opts, search.WithRedisTitleCache(search.NewRedisTitleCache(redisClient, cfg.RedisTitleTTL)))
	}

	return opts
}

func buildIngestor(cfg app.Config, logger *slog.Logger) *ingest.Ingestor {
	var sources []ingest.Source
	if path := strings.TrimSpace(cfg.MoviesFile); path != "" {
		sources = append(sources, ingest.NewFileSource(path))
	}
	if path := strings.TrimSpace(cfg.SeriesFile); path != "" {
		sources = append(sources, ingest.NewFileSource(path))
	}
	if len(sources) == 0 {
		return nil
	}

	policy, err := ingest.ParsePolicy(cfg.IngestPolicy)
	if err != nil {
		logger.Warn("unknown ingest policy, using skip_invalid", slog.String("policy", cfg.IngestPolicy))
		policy = ingest.PolicySkipInvalid
	}
	return ingest.New(sources, ingest.WithPolicy(policy), ingest.WithLogger(logger))
}

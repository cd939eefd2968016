package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/andsearch/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/andsearch/internal/searcher/cache"
	"github.com/Adithya-Monish-Kumar-K/andsearch/internal/searcher/handler"
	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/andsearch/pkg/middleware"
	pkgredis "github.com/Adithya-Monish-Kumar-K/andsearch/pkg/redis"
)

func newServeCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve [files...]",
		Short: "Index documents and serve the search front end",
		Long: `Index the given files (or the configured source) and serve the
front end on / and JSON results on /query?s=<query>.

Examples:
  searcher serve docs/*.txt
  searcher serve --config configs/production.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*global)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, args)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, args []string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	slog.Info("starting search service", "port", cfg.Server.Port, "source", cfg.Source.Kind)

	m := metrics.New()
	engine, loadEvent, err := buildEngine(ctx, cfg, args)
	if err != nil {
		return err
	}
	m.DocsIndexedTotal.Add(float64(loadEvent.Documents))
	m.IndexDocuments.Set(float64(engine.DocCount()))
	m.IndexTerms.Set(float64(engine.TermCount()))

	checker := health.NewChecker()
	checker.Register("index", health.CountCheck("documents", engine.DocCount, 1))

	queryCache, closeCache := newQueryCache(cfg.Redis, checker)
	defer closeCache()

	var tracker handler.Tracker
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.AnalyticsEvents)
		defer producer.Close()
		collector := analytics.NewCollector(producer, 10000, m.AnalyticsDroppedTotal.Inc)
		collector.Start(ctx)
		defer collector.Close()
		collector.Track(loadEvent)
		tracker = collector
		slog.Info("analytics collector started", "topic", cfg.Kafka.Topics.AnalyticsEvents)
	}

	h := handler.New(engine, queryCache, tracker, m, handler.Options{
		MaxMatches:   cfg.Search.MaxMatches,
		PreviewTerms: cfg.Search.PreviewTerms,
		StaticFile:   cfg.Search.StaticFile,
	})

	mux := http.NewServeMux()
	paths := h.Routes(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())
	paths = append(paths, "/health/live", "/health/ready")

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.Metrics(m, paths...)(chain)
	chain = middleware.CORS(middleware.DefaultCORSConfig())(chain)
	chain = middleware.RequestID(chain)

	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			shutdownMetrics(shutdownCtx)
		}()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("search service listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	slog.Info("search service stopped")
	return nil
}

// newQueryCache prefers Redis and falls back to an in-process LRU when Redis
// is disabled or unreachable.
func newQueryCache(cfg config.RedisConfig, checker *health.Checker) (*cache.QueryCache, func()) {
	if cfg.Enabled {
		client, err := pkgredis.NewClient(cfg)
		if err == nil {
			checker.Register("redis", health.PingCheck(client.Ping, health.StatusDegraded))
			slog.Info("search cache enabled", "store", "redis", "addr", cfg.Addr, "ttl", cfg.CacheTTL)
			return cache.New(cache.NewRedisStore(client, cfg.CacheTTL)), func() { client.Close() }
		}
		slog.Warn("redis unavailable, using local cache", "error", err)
	}
	slog.Info("search cache enabled", "store", "local", "size", cfg.LocalCacheSize, "ttl", cfg.CacheTTL)
	return cache.New(cache.NewLocalStore(cfg.LocalCacheSize, cfg.CacheTTL)), func() {}
}

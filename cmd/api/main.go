package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmrent/internal/api"
	"farmrent/internal/auth"
	"farmrent/internal/config"
	"farmrent/internal/domain"
	"farmrent/internal/events"
	"farmrent/internal/export"
	"farmrent/internal/logging"
	"farmrent/internal/metrics"
	"farmrent/internal/repository"
	"farmrent/internal/service"
	"farmrent/internal/storage"
	"farmrent/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	store, err := storage.NewStore(cfg.Storage.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("storage_path", cfg.Storage.Path).Msg("init storage")
		return err
	}

	sessionTTL := time.Duration(cfg.Session.TTLSecs) * time.Second
	states := initStateRepository(cfg, sessionTTL, &logger)

	eventBus := events.NewEventBus()
	metrics.SubscribeBookingEvents(eventBus)

	writer := export.NewExcelWriter(cfg.Exports.Path, &logger)
	exportWorker := worker.NewExportWorker(store, writer, worker.RetryPolicy{}, &logger)

	bookingService := service.NewBookingService(store, eventBus, exportWorker, &logger)
	catalogService := service.NewCatalogService(store, eventBus, &logger)

	authenticator := auth.NewStaticAuthenticator(cfg.Auth.Credentials)
	sessionService := service.NewSessionService(states, authenticator, cfg.Pricing.TaxRate, &logger)

	httpServer := api.NewServer(cfg.Server, cfg.RateLimit, catalogService, bookingService, sessionService, &logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go exportWorker.Start(ctx)
	startMetrics(ctx, cfg, &logger)

	return serveUntilShutdown(ctx, httpServer, cfg, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

// initStateRepository prefers Redis when configured and reachable,
// with an in-memory fallback behind the failover wrapper so sessions
// keep working through a Redis outage.
func initStateRepository(cfg *config.Config, ttl time.Duration, logger *zerolog.Logger) domain.StateRepository {
	memory := repository.NewMemoryStateRepository(ttl)

	if cfg.Redis.Address == "" {
		logger.Info().Msg("no redis configured, using in-memory sessions")
		return memory
	}

	client := repository.NewRedisClient(cfg.Redis)
	if err := repository.Ping(context.Background(), client); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing with in-memory sessions")
		return memory
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	redisRepo := repository.NewRedisStateRepository(client, ttl)
	return repository.NewFailoverStateRepository(redisRepo, memory, logger)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func serveUntilShutdown(ctx context.Context, httpServer *api.Server, cfg *config.Config, logger *zerolog.Logger) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	logger.Info().Int("http_port", cfg.Server.Port).Msg("API server started")

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	grace := time.Duration(cfg.Server.ShutdownGraceSecs) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}

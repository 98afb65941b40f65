package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/gateway"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/repository"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, base, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}
	logger := logging.Component(base, "gateway-main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := initLimiter(ctx, cfg, logger)

	client := gateway.NewServerClient(cfg.Gateway.ServerURL, cfg.Gateway.APIKey, cfg.Gateway.APIExtra, cfg.Gateway.Timeout)
	client.UseAuthHeaders(cfg.API.Auth.HeaderAPIKey, cfg.API.Auth.HeaderExtra)
	gw := gateway.New(client, limiter, cfg.Gateway.UserRateLimit, logging.Component(base, "gateway"))

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go metrics.Serve(ctx, cfg.Monitoring.PrometheusPort, logger)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Gateway.Port),
		Handler:           gw.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Gateway.Timeout + 5*time.Second,
		ErrorLog:          logging.StdLogger(logger, zerolog.ErrorLevel),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("server_url", cfg.Gateway.ServerURL).Msg("gateway listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case runErr = <-errCh:
		logger.Error().Err(runErr).Msg("gateway listener stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("gateway shutdown")
	}
	logger.Info().Msg("gateway stopped")
	return runErr
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, closer, nil
}

// initLimiter prefers Redis and falls back to process memory when Redis is absent or down.
func initLimiter(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) domain.RateLimitRepository {
	memory := repository.NewMemoryRateLimitRepository()
	go sweepLoop(ctx, memory, cfg.Gateway.UserRateLimit.Window)

	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, per-user limits kept in memory")
		return memory
	}

	client := repository.NewRedisClient(cfg.Redis)
	go func() {
		<-ctx.Done()
		_ = client.Close()
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := repository.Ping(pingCtx, client); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, limiter starts degraded")
	} else {
		logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	}

	return repository.NewFailoverRateLimitRepository(repository.NewRedisRateLimitRepository(client), memory, logger)
}

func sweepLoop(ctx context.Context, memory *repository.MemoryRateLimitRepository, window time.Duration) {
	if window <= 0 {
		window = time.Minute
	}
	ticker := time.NewTicker(window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			memory.Sweep()
		}
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/service"
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
	logger := logging.Component(base, "server-main")

	db, err := database.NewDB(cfg.Database.Path, logging.Component(base, "database"))
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	bus := events.NewEventBus()
	subscribeEventLog(bus, logging.Component(base, "events"))

	services := api.Services{
		Users:    service.NewUserService(db, logging.Component(base, "users")),
		Items:    service.NewItemService(db, bus, logging.Component(base, "items")),
		Bookings: service.NewBookingService(db, bus, logging.Component(base, "bookings")),
		Requests: service.NewRequestService(db, logging.Component(base, "requests")),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Monitoring.PrometheusEnabled {
		metrics.Register()
		go metrics.Serve(ctx, cfg.Monitoring.PrometheusPort, logger)
	}

	go database.NewSnapshotService(db, cfg.Backup, base).Run(ctx)

	var grpcServer *api.GRPCServer
	if cfg.API.GRPC.Enabled {
		grpcServer, err = api.NewGRPCServer(cfg.API, services, base)
		if err != nil {
			logger.Error().Err(err).Msg("create grpc server")
			return err
		}
	}
	httpServer := api.NewHTTPServer(cfg.API, services, db, logging.Component(base, "http"))

	return startServers(ctx, grpcServer, httpServer, logger)
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

// subscribeEventLog records booking and comment events in the log and in metrics.
func subscribeEventLog(bus *events.EventBus, logger *zerolog.Logger) {
	bus.Subscribe(func(event *events.Event) error {
		var payload events.BookingEventPayload
		if err := event.Decode(&payload); err != nil {
			return fmt.Errorf("decode %s: %w", event.Type, err)
		}
		metrics.IncBookingEvent(event.Type)
		logger.Info().
			Str("event", event.Type).
			Int64("booking_id", payload.BookingID).
			Int64("item_id", payload.ItemID).
			Int64("actor_id", payload.ActorID).
			Str("status", payload.Status).
			Msg("booking event")
		return nil
	}, events.EventBookingCreated, events.EventBookingApproved, events.EventBookingRejected)

	bus.Subscribe(func(event *events.Event) error {
		var payload events.CommentEventPayload
		if err := event.Decode(&payload); err != nil {
			return fmt.Errorf("decode %s: %w", event.Type, err)
		}
		logger.Info().
			Int64("comment_id", payload.CommentID).
			Int64("item_id", payload.ItemID).
			Int64("author_id", payload.AuthorID).
			Msg("comment added")
		return nil
	}, events.EventCommentAdded)
}

func startServers(ctx context.Context, grpcServer *api.GRPCServer, httpServer *api.HTTPServer, logger *zerolog.Logger) error {
	errCh := make(chan error, 2)

	if grpcServer != nil {
		go func() {
			if err := grpcServer.Serve(); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}
	go func() {
		if err := httpServer.Start(); err != nil {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case runErr = <-errCh:
		logger.Error().Err(runErr).Msg("listener stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if grpcServer != nil {
		grpcServer.Shutdown(shutdownCtx)
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("http shutdown")
	}

	logger.Info().Msg("server stopped")
	return runErr
}

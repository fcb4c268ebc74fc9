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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/database"
	"shareit/internal/events"
	"shareit/internal/logging"
	"shareit/internal/metrics"
	"shareit/internal/models"
	"shareit/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := baseLogger.With().Str("component", "server-main").Logger()

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize database")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Seed.Path != "" {
		if err := seedDatabase(ctx, db, cfg.Seed.Path, &logger); err != nil {
			logger.Error().Err(err).Msg("Failed to seed database")
			return err
		}
	}

	metrics.Register()
	eventBus := events.NewEventBus()
	subscribeEvents(eventBus, &logger)

	userService := service.NewUserService(db, &logger)
	itemService := service.NewItemService(db, userService, eventBus, &logger)
	bookingService := service.NewBookingService(db, userService, itemService, eventBus,
		cfg.Booking.LockItemOnApproval, &logger)
	requestService := service.NewRequestService(db, userService, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(cfg.Monitoring, &logger)
	}

	server := api.NewServer(cfg.Server, userService, itemService, bookingService, requestService, db, &logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("HTTP server error")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown error")
		return err
	}

	logger.Info().Msg("Shutdown complete.")
	return nil
}

// subscribeEvents wires domain events into metrics and the audit log.
func subscribeEvents(bus *events.EventBus, logger *zerolog.Logger) {
	bus.Subscribe(events.EventBookingApproved, func(ev *events.Event) error {
		metrics.IncBookingDecision("approved")
		logger.Info().RawJSON("payload", ev.Payload).Msg("Booking approved")
		return nil
	})
	bus.Subscribe(events.EventBookingRejected, func(ev *events.Event) error {
		metrics.IncBookingDecision("rejected")
		logger.Info().RawJSON("payload", ev.Payload).Msg("Booking rejected")
		return nil
	})
	bus.Subscribe(events.EventBookingCreated, func(ev *events.Event) error {
		logger.Info().RawJSON("payload", ev.Payload).Msg("Booking created")
		return nil
	})
	bus.Subscribe(events.EventCommentAdded, func(ev *events.Event) error {
		metrics.IncComment()
		logger.Info().RawJSON("payload", ev.Payload).Msg("Comment added")
		return nil
	})
}

// seedDatabase loads the optional bootstrap fixture. It is applied only on
// an empty users table so restarts do not duplicate data.
func seedDatabase(ctx context.Context, db *database.DB, path string, logger *zerolog.Logger) error {
	existing, err := db.GetAllUsers(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Debug().Msg("Database already populated, skipping seed")
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", path).Msg("Seed file not found, skipping")
			return nil
		}
		return err
	}

	var seed struct {
		Users []struct {
			Name  string `yaml:"name"`
			Email string `yaml:"email"`
			Items []struct {
				Name        string `yaml:"name"`
				Description string `yaml:"description"`
				Available   bool   `yaml:"available"`
			} `yaml:"items"`
		} `yaml:"users"`
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for _, u := range seed.Users {
		user := &models.User{Name: u.Name, Email: u.Email}
		if err := db.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("seed user %q: %w", u.Email, err)
		}
		for _, it := range u.Items {
			item := &models.Item{
				Name:        it.Name,
				Description: it.Description,
				Available:   it.Available,
				OwnerID:     user.ID,
			}
			if err := db.CreateItem(ctx, item); err != nil {
				return fmt.Errorf("seed item %q: %w", it.Name, err)
			}
		}
	}

	logger.Info().Int("users", len(seed.Users)).Str("path", path).Msg("Seeded database")
	return nil
}

func startMetricsServer(cfg config.MonitoringConfig, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.PrometheusPort)
	logger.Info().Str("addr", addr).Msg("Metrics server listening")

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("Metrics server error")
	}
}

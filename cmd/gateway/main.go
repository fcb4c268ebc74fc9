package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/gateway"
	"shareit/internal/logging"
	"shareit/internal/metrics"
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
	logger := baseLogger.With().Str("component", "gateway-main").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	limiter := buildLimiter(ctx, cfg, &logger)

	server := gateway.NewServer(cfg.Gateway, limiter, &logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("Gateway server error")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down gateway")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Gateway shutdown error")
		return err
	}

	logger.Info().Msg("Shutdown complete.")
	return nil
}

// buildLimiter prefers the shared redis window limiter and falls back to the
// in-process token bucket when redis is not configured or unreachable.
func buildLimiter(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) domain.RateLimiter {
	rl := cfg.Gateway.RateLimit
	if !rl.Enabled {
		return nil
	}

	if cfg.Redis.Address != "" && rl.Requests > 0 {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, using local rate limiter")
		} else {
			logger.Info().Int("requests", rl.Requests).Int("window_seconds", rl.WindowS).
				Msg("Using redis rate limiter")
			return gateway.NewRedisLimiter(client, rl.Requests, time.Duration(rl.WindowS)*time.Second)
		}
	}

	rps := rl.RPS
	if rps <= 0 && rl.WindowS > 0 {
		rps = float64(rl.Requests) / float64(rl.WindowS)
	}
	logger.Info().Float64("rps", rps).Int("burst", rl.Burst).Msg("Using local rate limiter")
	return gateway.NewLocalLimiter(rps, rl.Burst)
}

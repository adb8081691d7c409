package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/i211534/movieapp-recommendations/internal/cache"
	"github.com/i211534/movieapp-recommendations/internal/catalog"
	"github.com/i211534/movieapp-recommendations/internal/config"
	"github.com/i211534/movieapp-recommendations/internal/handler"
	"github.com/i211534/movieapp-recommendations/internal/health"
	"github.com/i211534/movieapp-recommendations/internal/router"
	"github.com/i211534/movieapp-recommendations/internal/scoring"
	"github.com/i211534/movieapp-recommendations/internal/service"
	"github.com/i211534/movieapp-recommendations/seeds"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	ctx := context.Background()

	// ------------ PostgreSQL ---------------
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse database config")
	}
	poolConfig.MaxConns = int32(cfg.DBPoolSize)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := waitForDB(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("database not ready")
	}
	log.Info().Msg("connected to PostgreSQL")

	// ------------ Setup Seed Data ---------------
	if err := checkSeed(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("failed to check seed")
	}

	// ------------ Redis ---------------
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	fallbackCache := cache.NewCache(redisClient, cfg.FallbackCacheTTL)
	if err := fallbackCache.Ping(ctx); err != nil {
		// Redis is never load-bearing: the resolver falls through to
		// Postgres when the cache is down.
		log.Warn().Err(err).Msg("redis unreachable, fallback cache disabled until it recovers")
	}

	// ---------------- Wiring --------------------
	scoringClient := scoring.NewClient(scoring.Options{
		BaseURL:      cfg.ScoringEngineURL,
		Timeout:      cfg.ScoringTimeout,
		ProbeTimeout: cfg.ScoringProbeTimeout,
	}, log.With().Str("component", "scoring").Logger())

	resolver := catalog.NewResolver(pool, fallbackCache,
		log.With().Str("component", "catalog").Logger())

	svc := service.NewService(scoringClient, resolver,
		log.With().Str("component", "service").Logger())

	reporter := health.NewReporter(scoringClient,
		log.With().Str("component", "health").Logger())

	h := handler.NewHandler(svc, reporter)

	// ---------------- Server --------------------
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Setup(h, log.With().Str("component", "http").Logger()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		log.Info().Int("attempt", i+1).Msg("waiting for database")
		time.Sleep(1 * time.Second)
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func checkSeed(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM movies").Scan(&count); err != nil {
		return fmt.Errorf("check movies count: %w", err)
	}
	if count > 0 {
		log.Info().Int("movies", count).Msg("catalog already seeded, skipping")
		return nil
	}
	return seeds.Setup(ctx, pool)
}

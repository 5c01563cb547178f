package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/intenthealth/platform/internal/config"
	"github.com/intenthealth/platform/internal/domain/directory"
	"github.com/intenthealth/platform/internal/domain/intent"
	"github.com/intenthealth/platform/internal/platform/auth"
	"github.com/intenthealth/platform/internal/platform/db"
	"github.com/intenthealth/platform/internal/platform/eventstore"
	"github.com/intenthealth/platform/internal/platform/middleware"
)

const version = "0.1.0"

type server struct {
	echo    *echo.Echo
	store   eventstore.Store
	closers []func()
}

// Close releases backend connections in reverse order of acquisition.
func (s *server) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// newServer wires the event store, dispatcher, directory and HTTP stack
// described by cfg.
func newServer(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*server, error) {
	srv := &server{}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	srv.echo = e

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware(auth.AuthSkipper))
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.AuthSigningKey),
			Skipper:    auth.AuthSkipper,
		}))
	}

	// Runs after auth so authenticated callers get their own bucket.
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":      "ok",
			"version":     version,
			"event_store": cfg.EventStore,
		})
	})

	if err := srv.openStore(ctx, cfg, logger); err != nil {
		srv.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := intent.NewMetrics(reg)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	svc := intent.NewService(srv.store, intent.KeywordScorer{}, logger.With().Str("component", "dispatcher").Logger())
	svc.SetHooks(metrics.Hooks())
	intent.NewHandler(svc, srv.store).RegisterRoutes(e.Group("/v1/intent"))

	dirSvc := directory.NewMemoryService()
	if cfg.SeedDirectory {
		if err := directory.Seed(ctx, dirSvc); err != nil {
			srv.Close()
			return nil, fmt.Errorf("seed directory: %w", err)
		}
	}
	directory.NewHandler(dirSvc).RegisterRoutes(e.Group("/api/v1"))

	return srv, nil
}

func (s *server) openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	switch cfg.EventStore {
	case config.StoreRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		s.closers = append(s.closers, func() { client.Close() })
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		s.store = eventstore.NewRedisStore(client, cfg.RedisKeyPrefix)
		logger.Info().Msg("connected to redis event store")

	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		s.store = eventstore.NewPGStore(pool)
		s.echo.GET("/health/db", db.HealthHandler(pool))
		logger.Info().Msg("connected to postgres event store")

	default:
		s.store = eventstore.NewMemoryStore()
		logger.Warn().Msg("using in-memory event store; events are lost on restart")
	}
	return nil
}

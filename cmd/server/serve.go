package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pokemon-map/internal/element"
	"pokemon-map/internal/mapview"
	"pokemon-map/internal/middleware"
	"pokemon-map/internal/pokemon"
	pokemonHandlers "pokemon-map/internal/pokemon/handlers"
	"pokemon-map/internal/server"
	serverHandlers "pokemon-map/internal/server/handlers"
	"pokemon-map/internal/shared/config"
	appredis "pokemon-map/internal/shared/redis"
	"pokemon-map/internal/shared/render"
	"pokemon-map/internal/sighting"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and serve the map",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg := config.GlobalConfig
	logger := slog.With("component", "main", "operation", "serve")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := appredis.Connect(ctx)
	if err != nil {
		// The cache is optional; pages still work straight from Postgres
		logger.Warn("Continuing without catalog cache", "error", err)
		redisClient = nil
	}
	defer redisClient.Close()

	pokemonRepo := pokemon.NewRepository(db, slog.Default())
	elementRepo := element.NewRepository(db, slog.Default())
	sightingRepo := sighting.NewRepository(db, slog.Default())

	catalog := pokemon.NewCatalogCache(redisClient, cfg.Redis.CatalogTTL, slog.Default())
	pokemonService := pokemon.NewService(pokemonRepo, elementRepo, catalog, cfg.MediaURLFor, slog.Default())
	sightingService := sighting.NewService(sightingRepo, slog.Default())

	renderer, err := render.New(slog.Default())
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	pages := pokemonHandlers.NewPageHandler(pokemonService, sightingService, renderer, pokemonHandlers.PageConfig{
		Center:          mapview.Location{Lat: cfg.Map.CenterLat, Lon: cfg.Map.CenterLon},
		Zoom:            cfg.Map.Zoom,
		IconSize:        cfg.Map.IconSize,
		DefaultImageURL: cfg.Map.DefaultImageURL,
		StaticURL:       cfg.Media.StaticURL,
		IconURL:         cfg.AbsoluteMediaURLFor,
	})

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		Enabled:           cfg.RateLimit.Enabled,
		TrustProxy:        cfg.RateLimit.TrustProxy,
	})

	routes := server.NewRoutes(
		pages,
		serverHandlers.NewHealthHandler(db, redisClient),
		cfg.Media,
		rateLimiter,
		middleware.NewCORS(),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      routes.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		rateLimiter.Run(egCtx, time.Minute)
		return nil
	})

	eg.Go(func() error {
		logger.Info("Pokemon map server starting",
			"port", cfg.Server.Port,
			"url", cfg.Server.URL,
			"environment", cfg.Server.Environment,
			"cache", redisClient.Status(egCtx),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	// Stops the server on a signal, or when ListenAndServe fails
	eg.Go(func() error {
		<-egCtx.Done()

		logger.Info("Shutting down server", "timeout", cfg.Server.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		logger.Info("Server stopped")
		return nil
	})

	return eg.Wait()
}

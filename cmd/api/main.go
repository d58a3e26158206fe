package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/ratify/internal/adapters/auth"
	"github.com/ewilliams-labs/ratify/internal/adapters/firestore"
	"github.com/ewilliams-labs/ratify/internal/adapters/memory"
	"github.com/ewilliams-labs/ratify/internal/adapters/rediscache"
	"github.com/ewilliams-labs/ratify/internal/adapters/rest"
	"github.com/ewilliams-labs/ratify/internal/adapters/spotify"
	"github.com/ewilliams-labs/ratify/internal/adapters/sqlite"
	"github.com/ewilliams-labs/ratify/internal/config"
	"github.com/ewilliams-labs/ratify/internal/core/ports"
	"github.com/ewilliams-labs/ratify/internal/core/services"
	"github.com/ewilliams-labs/ratify/internal/worker"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: logger init: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// 1. Configuration. Crash early if required secrets are missing.
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/default.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Warn("config file not loaded, using defaults", zap.String("path", cfgPath), zap.Error(err))
		cfg = config.Default()
	}
	env := config.LoadEnv()

	if env.SpotifyClientID == "" || env.SpotifyClientSecret == "" {
		logger.Fatal("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET environment variables are required")
	}
	if env.JWTSecret == "" {
		logger.Fatal("JWT_SECRET environment variable is required")
	}

	ctx := context.Background()

	// 2. Initialize "Driven" Adapters (The Tools)
	// -- Document store
	var (
		albums   ports.AlbumRepository
		profiles ports.ProfileRepository
		closer   func() error
	)
	switch cfg.Storage.Driver {
	case "firestore":
		if env.FirestoreProjectID == "" {
			logger.Fatal("FIRESTORE_PROJECT_ID is required for the firestore driver")
		}
		fsAdapter, err := firestore.NewAdapter(ctx, env.FirestoreProjectID)
		if err != nil {
			logger.Fatal("failed to initialize firestore", zap.Error(err))
		}
		albums, profiles, closer = fsAdapter, fsAdapter, fsAdapter.Close
	case "sqlite":
		dbAdapter, err := sqlite.NewAdapter(cfg.Storage.SQLitePath)
		if err != nil {
			logger.Fatal("failed to initialize database", zap.Error(err))
		}
		albums, profiles, closer = dbAdapter, dbAdapter, dbAdapter.Close
	case "memory":
		store := memory.New()
		albums, profiles, closer = store, store, func() error { return nil }
	default:
		logger.Fatal("unknown storage driver", zap.String("driver", cfg.Storage.Driver))
	}
	defer closer()

	// -- Aggregate cache (optional)
	var cache ports.AggregateCache
	if cfg.Cache.Enabled {
		if env.RedisAddr == "" {
			logger.Fatal("REDIS_ADDR is required when the cache is enabled")
		}
		redisCache, err := rediscache.New(ctx, env.RedisAddr, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisCache.Close()
		cache = redisCache
	}

	// -- Catalog provider
	catalog := spotify.NewClientCredentials(env.SpotifyClientID, env.SpotifyClientSecret, logger)

	// 3. Initialize Core Logic (The Driver)
	// We inject the specific adapters into the agnostic service.
	svc := services.NewRatingService(albums, profiles, catalog, cache, logger)

	// 4. Initialize "Driving" Adapter (The Interface)
	var pool *worker.Pool
	if cache != nil {
		pool = worker.NewPool(albums, cache, logger, cfg.Worker.QueueSize)
		pool.Start(cfg.Worker.Count)
		defer pool.Stop()
	}

	verifier := auth.NewTokenVerifier([]byte(env.JWTSecret))
	handler := rest.NewHandler(svc, verifier, pool, logger)

	// 5. Start the Server
	addr := fmt.Sprintf(":%d", cfg.API.Port)
	logger.Info("🎶 Ratify API is running", zap.String("addr", addr), zap.String("storage", cfg.Storage.Driver))

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case <-sigCtx.Done():
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}
}

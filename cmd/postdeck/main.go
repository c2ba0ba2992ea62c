// Package main is the entry point for the postdeck API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postdeck/internal/ai"
	"postdeck/internal/cache"
	"postdeck/internal/config"
	"postdeck/internal/database"
	"postdeck/internal/generate"
	"postdeck/internal/handlers"
	"postdeck/internal/identity"
	"postdeck/internal/images"
	"postdeck/internal/imaging"
	"postdeck/internal/lifecycle"
	"postdeck/internal/middleware"
	"postdeck/internal/network"
	"postdeck/internal/notify"
	"postdeck/internal/poststore"
	"postdeck/internal/router"
	"postdeck/internal/storage"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to Valkey (identity storage, auth events, preview cache,
	// network link flag).
	valkeyClient, err := cache.ConnectValkey(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Identity: lazily read from Valkey, kept fresh by the auth event
	// listener.
	identityProvider := identity.NewProvider(valkeyClient)
	authListener := identity.NewListener(valkeyClient, identityProvider)
	authListener.Start(context.Background())
	defer authListener.Stop()

	// Pick the post store backend: the hosted API when configured, the
	// embedded PostgreSQL store otherwise.
	var remote poststore.Store
	if cfg.PostStoreURL != "" {
		remote = poststore.NewClient(cfg.PostStoreURL, cfg.PostStoreKey)
		slog.Info("using hosted post store", "url", cfg.PostStoreURL)
	} else {
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		// Seed development data (no-op if data already exists).
		if cfg.IsDev() {
			if err := database.Seed(db, identity.AnonymousID); err != nil {
				slog.Error("failed to seed database", "error", err)
				os.Exit(1)
			}
		}

		remote = poststore.NewPostgres(db)
		slog.Info("using embedded post store", "db", cfg.DBName)
	}

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai": {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL, ImageModel: cfg.ImageModel},
		"gemini": {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		"claude": {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// Connect to S3-compatible object storage (optional — generated images
	// fall back to the placeholder without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	var imageGen lifecycle.ImageGenerator
	if storageClient != nil {
		// libvips recompresses provider output to WebP before upload.
		imaging.Startup(0)
		defer imaging.Shutdown()

		imageGen = images.NewService(aiRegistry, storageClient)
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, image generation will attach placeholders")
	}

	// Notification center, mirrored to Slack when a webhook is configured.
	var sinks []notify.Sink
	if cfg.SlackWebhook != "" {
		sinks = append(sinks, notify.NewSlackSink(cfg.SlackWebhook))
	}
	center := notify.NewCenter(100, sinks...)

	// Social network integration.
	networkClient := network.NewClient(cfg.NetworkURL, cfg.NetworkKey, valkeyClient)

	// The lifecycle store owns the post collection and all transitions.
	lifecycleStore := lifecycle.New(remote, networkClient, imageGen, identityProvider, center)

	// Sync the collection with the server once at startup. Anonymous
	// sessions skip this; failures surface as a notification and the app
	// starts with an empty collection.
	{
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := lifecycleStore.LoadUserPosts(ctx); err != nil {
			slog.Warn("initial post sync failed", "error", err)
		}
		cancel()
	}

	generator := generate.NewService(aiRegistry)
	previewCache := cache.NewPreviewCache(valkeyClient, cache.DefaultPreviewTTL)

	api := handlers.NewAPI(lifecycleStore, generator, center, networkClient, identityProvider, previewCache)

	// Per-IP rate limiting across the whole API.
	limiter := middleware.NewRateLimiter(120, time.Minute)
	defer limiter.Stop()

	r := router.New(api, limiter)

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate AI endpoints that wait on LLM responses
	// (typically 10-30s, up to 60s for image generation).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BaronJose/tacosChilis/app/api"
	"github.com/BaronJose/tacosChilis/app/cache"
	"github.com/BaronJose/tacosChilis/app/cfg"
	"github.com/BaronJose/tacosChilis/app/menu"
	"github.com/BaronJose/tacosChilis/app/site"
	"github.com/BaronJose/tacosChilis/app/tasks"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load configuration from environment variables and command-line flags
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	log.Printf("Starting Tacos Chilis server (version %s)...", appCfg.Version)

	// Load site configuration
	log.Printf("Loading site configuration from %s...", appCfg.SiteFile)
	siteCfg, err := site.Load(appCfg.SiteFile)
	if err != nil {
		log.Fatal("Failed to load site configuration: ", err)
	}
	log.Printf("Site configured: sheet=%s origin=%s generation=%s", siteCfg.SheetURL, siteCfg.OriginURL, siteCfg.CacheVersion)

	// Cache store: redis when configured, local sqlite otherwise
	var store cache.Store
	if appCfg.RedisAddr != "" {
		log.Printf("Connecting to redis cache store at %s...", appCfg.RedisAddr)
		store, err = cache.NewRedisStore(appCfg.RedisAddr)
	} else {
		log.Printf("Opening sqlite cache store at %s...", appCfg.CachePath)
		store, err = cache.NewSQLiteStore(appCfg.CachePath)
	}
	if err != nil {
		log.Fatal("Failed to open cache store: ", err)
	}
	defer store.Close()

	notifier := cache.NewNotifier()

	// The caching client routes requests through the offline cache; the
	// plain client is for the worker, which must always hit the network.
	transport, err := cache.NewTransport(http.DefaultTransport, store, notifier, siteCfg)
	if err != nil {
		log.Fatal("Failed to create caching transport: ", err)
	}
	cachingClient := &http.Client{Transport: transport, Timeout: 60 * time.Second}
	plainClient := &http.Client{Timeout: 60 * time.Second}

	worker, err := cache.NewWorker(store, plainClient, notifier, siteCfg, appCfg.UserAgent)
	if err != nil {
		log.Fatal("Failed to create cache worker: ", err)
	}

	// Activate the configured generation, evicting entries left behind by
	// previous ones.
	if err := worker.Activate(context.Background()); err != nil {
		log.Printf("Warning: cache activation failed: %v", err)
	}

	// Initialize core components
	fetcher := menu.NewFetcher(cachingClient, siteCfg.SheetURL, cache.BusterParam, appCfg.UserAgent)
	builder := menu.NewBuilder(siteCfg.PlaceholderImage)

	// Initialize and start scheduler
	log.Printf("Starting background scheduler with %d workers...", appCfg.WorkerCount)
	scheduler := tasks.NewScheduler(fetcher, builder, worker)
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize HTTP server
	log.Println("Initializing HTTP server...")
	apiHandler, err := api.NewHandler(fetcher, builder, worker, notifier, cachingClient, siteCfg, scheduler)
	if err != nil {
		log.Fatal("Failed to create API handler: ", err)
	}
	server := api.NewServer(apiHandler)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // /events streams indefinitely
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", appCfg.Port)
		log.Printf("Endpoints available:")
		log.Printf("  Menu:          http://localhost:%s/menu", appCfg.Port)
		log.Printf("  Events (SSE):  http://localhost:%s/events", appCfg.Port)
		log.Printf("  Health check:  http://localhost:%s/health", appCfg.Port)
		log.Printf("  Statistics:    http://localhost:%s/stats", appCfg.Port)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for interrupt signal or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Println("Tacos Chilis server started successfully!")
	log.Println("Press Ctrl+C to shutdown gracefully...")

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case err := <-serverErrChan:
		log.Printf("Server error: %v", err)
	}

	// Graceful shutdown
	log.Println("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	log.Println("Background scheduler stopped")

	log.Println("Tacos Chilis server shutdown complete")
}

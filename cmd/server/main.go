package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/scribe-audio/scribe/internal/app"
	"github.com/scribe-audio/scribe/internal/config"
	"github.com/scribe-audio/scribe/internal/httpapp"
	"github.com/scribe-audio/scribe/internal/logger"
	"github.com/scribe-audio/scribe/internal/store"
	"github.com/scribe-audio/scribe/internal/transcriber"
	"github.com/scribe-audio/scribe/internal/worker"
)

func main() {
	cfg := config.Load()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	registry, err := store.OpenRegistry(cfg.Databases)
	if err != nil {
		appLogger.Error("Failed to open databases", "error", err)
		os.Exit(1)
	}
	defer registry.Close()

	client, err := transcriber.NewClient(cfg.WorkerURL)
	if err != nil {
		appLogger.Error("Failed to init worker client", "error", err)
		os.Exit(1)
	}

	supervisor := worker.NewSupervisor(client, cfg.PollMin, cfg.PollMax, appLogger)

	jobService := app.NewJobService(registry, supervisor, appLogger)
	collectionService := app.NewCollectionService(registry, appLogger)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := httpapp.NewHandler(jobService, collectionService, appLogger)
	h.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr, "databases", registry.Names())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}
	if err := supervisor.Shutdown(ctx); err != nil {
		appLogger.Error("Trackers did not stop in time", "error", err)
	}

	appLogger.Info("Server exiting")
}

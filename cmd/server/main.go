package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmeyer/ankiforge/internal/api"
	"github.com/lmeyer/ankiforge/internal/config"
	"github.com/lmeyer/ankiforge/internal/db"
	"github.com/lmeyer/ankiforge/internal/logger"
	"github.com/lmeyer/ankiforge/internal/repository/sqlite"
	"github.com/lmeyer/ankiforge/internal/services"
	"github.com/lmeyer/ankiforge/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("AnkiForge Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("export_worker_count=%d", cfg.ExportWorkerCount)
	log.Debug("export_queue_size=%d", cfg.ExportQueueSize)
	log.Debug("max_media_bytes=%d", cfg.MaxMediaBytes)
	log.Debug("max_csv_bytes=%d", cfg.MaxCSVBytes)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize worker pool for package builds
	exportPool := worker.NewPool(cfg.ExportWorkerCount, cfg.ExportQueueSize)

	// Initialize repositories and services
	setRepo := sqlite.NewSetRepository(database.DB)
	exportRepo := sqlite.NewExportRepository(database.DB)

	setService := services.NewSetService(setRepo)
	exportService := services.NewExportService(setRepo, exportRepo, exportPool, setService)

	srv := &api.Server{
		SetService:    setService,
		ExportService: exportService,
		DB:            database.DB,
		MaxCSVBytes:   cfg.MaxCSVBytes,
		MaxMediaBytes: cfg.MaxMediaBytes,
	}

	ctx, cancel := context.WithCancel(context.Background())
	exportPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	log.Debug("stopping export pool")
	exportPool.Stop()

	log.Info("===========================================")
	log.Info("AnkiForge Server Stopped")
	log.Info("===========================================")
}

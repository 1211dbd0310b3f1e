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

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/dirtboard/internal/app"
	"github.com/stwalsh4118/dirtboard/internal/config"
	"github.com/stwalsh4118/dirtboard/internal/handlers"
	"github.com/stwalsh4118/dirtboard/internal/logger"
)

const (
	shutdownTimeout   = 30 * time.Second
	readHeaderTimeout = 10 * time.Second
	bytesPerMB        = 1 << 20
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Env: cfg.Server.Env, Level: cfg.Log.Level})
	log.Info("Starting DirtBoard API", logger.Fields{
		"version":     handlers.APIVersion,
		"environment": cfg.Server.Env,
		"port":        cfg.Server.Port,
		"store":       cfg.Database.Driver,
	})

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", err, logger.Fields{
			"store": cfg.Database.Driver,
		})
	}
	defer a.Close()

	if version, err := a.DB.SchemaVersion(ctx); err == nil {
		log.Info("Record store ready", logger.Fields{
			"store":          cfg.Database.Driver,
			"schema_version": version,
			"auto_migrate":   cfg.Database.AutoMigrate,
		})
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	deps := handlers.Dependencies{
		Log:            log,
		Store:          a.DB,
		Env:            cfg.Server.Env,
		Driver:         cfg.Database.Driver,
		CORSOrigins:    cfg.CORS.Origins,
		Properties:     a.Properties,
		Contacts:       a.Contacts,
		Activities:     a.Activities,
		Comps:          a.Comps,
		Views:          a.Views,
		Buyers:         a.Buyers,
		Importer:       a.Importer,
		MaxUploadBytes: int64(cfg.Import.MaxUploadMB) * bytesPerMB,
		Metrics:        a.Metrics,
	}
	if a.Registry != nil {
		deps.Gatherer = a.Registry
	}
	router := handlers.NewRouter(deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info("Server listening", logger.Fields{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, logger.Fields{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}

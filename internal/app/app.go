// Package app assembles the store, repositories, services and importer from
// configuration. The HTTP server and the operator CLI share it.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/stwalsh4118/dirtboard/internal/config"
	"github.com/stwalsh4118/dirtboard/internal/database"
	"github.com/stwalsh4118/dirtboard/internal/importer"
	"github.com/stwalsh4118/dirtboard/internal/logger"
	"github.com/stwalsh4118/dirtboard/internal/metrics"
	"github.com/stwalsh4118/dirtboard/internal/repository"
	"github.com/stwalsh4118/dirtboard/internal/services"
	"github.com/stwalsh4118/dirtboard/internal/validation"
)

// App holds the wired application.
type App struct {
	DB       *database.Database
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	Properties services.PropertyService
	Contacts   services.ContactService
	Activities services.ActivityService
	Comps      services.CompService
	Views      services.SavedViewService
	Buyers     services.BuyerService
	Importer   *importer.Importer
}

// New opens the configured store, migrates it when AutoMigrate is set and
// wires every service. Metrics are registered on a fresh registry when
// cfg.Metrics.Enabled; otherwise Metrics and Registry are nil.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Database.Driver, err)
	}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate %s store: %w", cfg.Database.Driver, err)
		}
	}

	a := &App{DB: db}
	if cfg.Metrics.Enabled {
		a.Registry = prometheus.NewRegistry()
		a.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.Metrics = metrics.New(a.Registry)
	}

	opts := services.Options{
		Log:      log,
		Validate: validation.New(),
		Metrics:  a.Metrics,
		Actor:    cfg.Activity.Actor,
	}

	activityRepo := repository.NewActivityRepository(db)
	a.Properties = services.NewPropertyService(repository.NewPropertyRepository(db), activityRepo, opts)
	a.Contacts = services.NewContactService(repository.NewContactRepository(db), opts)
	a.Activities = services.NewActivityService(activityRepo, opts)
	a.Comps = services.NewCompService(repository.NewCompRepository(db), opts)
	a.Views = services.NewSavedViewService(repository.NewSavedViewRepository(db), a.Properties, opts)
	a.Buyers = services.NewBuyerService(repository.NewBuyerRepository(db), opts)
	a.Importer = importer.New(a.Properties, a.Contacts, importer.Options{
		DefaultCounty: cfg.Import.DefaultCounty,
		HomeState:     cfg.Import.HomeState,
		Log:           log,
		Metrics:       a.Metrics,
	})

	return a, nil
}

// Close releases the store.
func (a *App) Close() {
	a.DB.Close()
}

package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/scabwatch/scabwatch/internal/controllers/meteofetch"
	"github.com/scabwatch/scabwatch/internal/controllers/restserver"
	"github.com/scabwatch/scabwatch/internal/database"
	"github.com/scabwatch/scabwatch/internal/log"
	"github.com/scabwatch/scabwatch/internal/meteo"
	"github.com/scabwatch/scabwatch/pkg/config"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	storageCfg, err := a.configProvider.GetStorageConfig()
	if err != nil {
		return fmt.Errorf("error loading storage configuration: %w", err)
	}
	if storageCfg.TimescaleDB == nil {
		return fmt.Errorf("no timescaledb storage configured - scabwatch requires a database")
	}

	db := database.NewClient(storageCfg.TimescaleDB.ConnectionString, a.logger)
	if err := db.Connect(); err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	meteoCfg, err := a.configProvider.GetMeteoConfig()
	if err != nil {
		return fmt.Errorf("error loading meteo configuration: %w", err)
	}

	var cache *meteo.Cache
	if meteoCfg.CachePath != "" {
		cache, err = meteo.OpenCache(meteoCfg.CachePath)
		if err != nil {
			return fmt.Errorf("error opening meteo cache: %w", err)
		}
		defer cache.Close()
	}
	client := meteo.NewClient(meteoCfg.ArchiveEndpoint, meteoCfg.ForecastEndpoint, cache, a.logger)

	fetcher, err := meteofetch.NewController(ctx, &wg, a.configProvider, client, db, a.logger)
	if err != nil {
		return fmt.Errorf("error creating fetch controller: %w", err)
	}
	if err := fetcher.StartController(); err != nil {
		return fmt.Errorf("error starting fetch controller: %w", err)
	}

	controllers, err := a.configProvider.GetControllers()
	if err != nil {
		return fmt.Errorf("error loading controller configuration: %w", err)
	}
	for _, controller := range controllers {
		if controller.Type == "rest" && controller.RESTServer != nil {
			rest, err := restserver.NewController(ctx, &wg, a.configProvider, *controller.RESTServer, db, a.logger)
			if err != nil {
				return fmt.Errorf("error creating REST controller: %w", err)
			}
			if err := rest.StartController(); err != nil {
				return fmt.Errorf("error starting REST controller: %w", err)
			}
		}
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}

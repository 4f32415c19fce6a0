// Package restserver exposes the analysis core over HTTP for the reporting
// and plotting collaborators.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/scabwatch/scabwatch/internal/log"
	"github.com/scabwatch/scabwatch/internal/types"
	"github.com/scabwatch/scabwatch/pkg/config"
)

// SeriesStore provides the hourly series for a location over [start, end).
// Satisfied by *database.Client.
type SeriesStore interface {
	GetSeries(locationName string, start, end time.Time) (types.HourlySeries, error)
}

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	Server     http.Server
	DB         SeriesStore
	Locations  map[string]config.LocationData // name -> location config
	logger     *zap.SugaredLogger
	handlers   *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, rc config.RESTServerData, db SeriesStore, logger *zap.SugaredLogger) (*Controller, error) {
	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: rc,
		DB:         db,
		logger:     logger,
	}

	locations, err := configProvider.GetLocations()
	if err != nil {
		return nil, fmt.Errorf("error loading locations: %v", err)
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("no locations configured - at least one location must be configured for the REST server")
	}

	ctrl.Locations = make(map[string]config.LocationData)
	for _, loc := range locations {
		if _, err := time.LoadLocation(loc.Timezone); err != nil {
			return nil, fmt.Errorf("location %s has invalid timezone %q: %v", loc.Name, loc.Timezone, err)
		}
		ctrl.Locations[loc.Name] = loc
	}

	ctrl.handlers = NewHandlers(ctrl)

	return ctrl, nil
}

// StartController starts the HTTP server and blocks until the context is
// cancelled.
func (c *Controller) StartController() error {
	router := mux.NewRouter()
	router.Use(requestLogger)

	router.HandleFunc("/api/summary", c.handlers.GetDailySummary).Methods(http.MethodGet)
	router.HandleFunc("/api/rain", c.handlers.GetHourlyRain).Methods(http.MethodGet)
	router.HandleFunc("/api/infection", c.handlers.GetInfectionPeriod).Methods(http.MethodGet)
	router.HandleFunc("/api/health", c.handlers.GetHealth).Methods(http.MethodGet)

	listenAddr := fmt.Sprintf("%s:%d", c.restConfig.ListenAddr, c.restConfig.Port)
	c.Server = http.Server{
		Addr:    listenAddr,
		Handler: router,
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("error shutting down REST server: %v", err)
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		log.Infof("REST server listening on %s", listenAddr)

		var err error
		if c.restConfig.Cert != "" && c.restConfig.Key != "" {
			err = c.Server.ListenAndServeTLS(c.restConfig.Cert, c.restConfig.Key)
		} else {
			err = c.Server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Errorf("REST server error: %v", err)
		}
	}()

	return nil
}

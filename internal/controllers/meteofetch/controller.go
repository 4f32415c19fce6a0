// Package meteofetch periodically retrieves hourly weather for the configured
// locations, persists the observations and keeps the daily summaries current.
package meteofetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"go.uber.org/zap"

	"github.com/scabwatch/scabwatch/internal/database"
	"github.com/scabwatch/scabwatch/internal/log"
	"github.com/scabwatch/scabwatch/internal/meteo"
	"github.com/scabwatch/scabwatch/internal/scab"
	"github.com/scabwatch/scabwatch/pkg/config"
)

const (
	defaultFetchInterval = time.Hour

	// Each cycle refreshes this many completed days back from today.
	fetchWindowDays = 7
)

// Controller periodically fetches weather for all configured locations.
type Controller struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	configProvider config.ConfigProvider
	client         *meteo.Client
	DB             *database.Client
	interval       time.Duration
	logger         *zap.SugaredLogger
}

// NewController creates a new fetch controller.
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, client *meteo.Client, db *database.Client, logger *zap.SugaredLogger) (*Controller, error) {
	c := &Controller{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		client:         client,
		DB:             db,
		interval:       defaultFetchInterval,
		logger:         logger,
	}

	meteoCfg, err := configProvider.GetMeteoConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading meteo configuration: %v", err)
	}
	if meteoCfg.FetchInterval != "" {
		interval, err := time.ParseDuration(meteoCfg.FetchInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid fetch interval %q: %v", meteoCfg.FetchInterval, err)
		}
		c.interval = interval
	}

	return c, nil
}

// StartController begins the per-location fetch loops.
func (c *Controller) StartController() error {
	locations, err := c.configProvider.GetLocations()
	if err != nil {
		return fmt.Errorf("error getting locations: %v", err)
	}
	if len(locations) == 0 {
		log.Info("no locations configured - fetch controller will remain idle")
		return nil
	}

	log.Infof("starting weather fetching for %d location(s)", len(locations))

	for _, location := range locations {
		location := location
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			c.fetchLoop(location)
		}()
	}

	return nil
}

func (c *Controller) fetchLoop(location config.LocationData) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Fetch once at startup, then on the interval.
	if err := c.fetchOnce(location); err != nil {
		log.Errorf("fetch failed for location %s: %v", location.Name, err)
	}

	for {
		select {
		case <-ticker.C:
			if err := c.fetchOnce(location); err != nil {
				log.Errorf("fetch failed for location %s: %v", location.Name, err)
			}
		case <-c.ctx.Done():
			return
		}
	}
}

// fetchOnce refreshes the trailing window of completed days for a location:
// retrieve hourly weather, persist the observations, log the fetch and
// recompute the daily summaries.
func (c *Controller) fetchOnce(location config.LocationData) error {
	loc, err := time.LoadLocation(location.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", location.Timezone, err)
	}

	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	rangeStart := today.AddDate(0, 0, -fetchWindowDays)
	rangeEnd := today.AddDate(0, 0, -1)

	ctx, cancel := context.WithTimeout(c.ctx, 2*time.Minute)
	defer cancel()

	series, raw, err := c.client.FetchHourly(ctx, location.Latitude, location.Longitude, rangeStart, rangeEnd, false)
	if err != nil {
		return err
	}
	if err := scab.ValidateSeries(series); err != nil {
		return fmt.Errorf("fetched series failed validation: %w", err)
	}

	if err := c.DB.SaveObservations(location.Name, series); err != nil {
		return err
	}

	var payload pgtype.JSONB
	if err := payload.Set(raw); err != nil {
		return fmt.Errorf("error wrapping fetch payload: %w", err)
	}
	record := &database.FetchRecord{
		FetchID:      uuid.New().String(),
		LocationName: location.Name,
		RangeStart:   rangeStart,
		RangeEnd:     rangeEnd,
		Endpoint:     "archive",
		Data:         payload,
	}
	if err := c.DB.SaveFetchRecord(record); err != nil {
		return err
	}

	var dates []time.Time
	for day := rangeStart; !day.After(rangeEnd); day = day.AddDate(0, 0, 1) {
		dates = append(dates, day)
	}

	summaries, err := scab.SummarizeWeather(dates, series, loc)
	if err != nil {
		return fmt.Errorf("error summarizing weather: %w", err)
	}

	records := make([]database.DailySummaryRecord, len(summaries))
	for i, s := range summaries {
		records[i] = database.DailySummaryRecord{
			Date:          s.Date,
			LeafWetness:   s.LeafWetness,
			HasRain:       s.HasRain,
			Precipitation: s.Precipitation,
			Temperature:   s.Temperature,
			HumidDuration: s.HumidDuration,
		}
	}
	if err := c.DB.SaveDailySummaries(location.Name, records); err != nil {
		return err
	}

	log.Infof("fetched %d hours for %s (%s to %s)", len(series), location.Name,
		rangeStart.Format("2006-01-02"), rangeEnd.Format("2006-01-02"))

	return nil
}

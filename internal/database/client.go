package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/scabwatch/scabwatch/internal/log"
	"github.com/scabwatch/scabwatch/internal/types"
	"go.uber.org/zap"
)

// Client holds the connection to a TimescaleDB database
type Client struct {
	connectionString string
	DB               *gorm.DB // Exported so it can be accessed from other packages
	logger           *zap.SugaredLogger
}

// NewClient creates a new database client
func NewClient(connectionString string, logger *zap.SugaredLogger) *Client {
	return &Client{
		connectionString: connectionString,
		logger:           logger,
	}
}

// Connect connects to the TimescaleDB database and migrates the schema
func (c *Client) Connect() error {
	var err error

	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	log.Info("connecting to TimescaleDB...")
	c.DB, err = gorm.Open(postgres.Open(c.connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		log.Warn("warning: unable to create a TimescaleDB connection:", err)
		return err
	}
	log.Info("TimescaleDB connection successful")

	if err := c.DB.AutoMigrate(&ObservationRecord{}, &DailySummaryRecord{}, &FetchRecord{}); err != nil {
		return fmt.Errorf("error migrating schema: %w", err)
	}

	return nil
}

// SaveObservations upserts retrieved hourly observations, keyed by location
// and timestamp so re-fetching a range is harmless.
func (c *Client) SaveObservations(locationName string, series types.HourlySeries) error {
	if len(series) == 0 {
		return nil
	}

	records := make([]ObservationRecord, len(series))
	for i, obs := range series {
		obs.LocationName = locationName
		records[i] = ObservationRecord{Observation: obs}
	}

	err := c.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "locationname"}, {Name: "time"}},
		UpdateAll: true,
	}).Create(&records).Error
	if err != nil {
		return fmt.Errorf("error saving observations: %w", err)
	}

	return nil
}

// GetSeries retrieves the hourly series for a location over [start, end),
// ordered by timestamp.
func (c *Client) GetSeries(locationName string, start, end time.Time) (types.HourlySeries, error) {
	var records []ObservationRecord

	err := c.DB.Where("locationname = ? AND time >= ? AND time < ?", locationName, start, end).
		Order("time").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("error querying observations: %w", err)
	}

	series := make(types.HourlySeries, len(records))
	for i := range records {
		series[i] = records[i].Observation
	}

	return series, nil
}

// SaveDailySummaries upserts computed daily summary rows for a location.
func (c *Client) SaveDailySummaries(locationName string, summaries []DailySummaryRecord) error {
	if len(summaries) == 0 {
		return nil
	}

	for i := range summaries {
		summaries[i].LocationName = locationName
	}

	err := c.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "location_name"}, {Name: "date"}},
		UpdateAll: true,
	}).Create(&summaries).Error
	if err != nil {
		return fmt.Errorf("error saving daily summaries: %w", err)
	}

	return nil
}

// SaveFetchRecord logs one completed archive fetch.
func (c *Client) SaveFetchRecord(record *FetchRecord) error {
	if err := c.DB.Create(record).Error; err != nil {
		return fmt.Errorf("error saving fetch record: %w", err)
	}
	return nil
}

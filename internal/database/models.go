package database

import (
	"time"

	"github.com/jackc/pgtype"
	"gorm.io/gorm"

	"github.com/scabwatch/scabwatch/internal/types"
)

// ObservationRecord stores one retrieved hourly observation.
type ObservationRecord struct {
	types.Observation
}

func (ObservationRecord) TableName() string {
	return "hourly_observations"
}

// DailySummaryRecord stores one computed daily summary row for a location.
type DailySummaryRecord struct {
	gorm.Model

	LocationName  string    `gorm:"uniqueIndex:idx_summary_location_date,not null"`
	Date          time.Time `gorm:"uniqueIndex:idx_summary_location_date,not null"`
	LeafWetness   float64
	HasRain       float64
	Precipitation float64
	Temperature   float64
	HumidDuration int
}

func (DailySummaryRecord) TableName() string {
	return "daily_summaries"
}

// FetchRecord logs one archive API fetch, with the raw hourly payload kept
// as JSONB for troubleshooting.
type FetchRecord struct {
	gorm.Model

	FetchID      string       `gorm:"uniqueIndex,not null"`
	LocationName string       `gorm:"index,not null"`
	RangeStart   time.Time    `gorm:"not null"`
	RangeEnd     time.Time    `gorm:"not null"`
	Endpoint     string       `gorm:"type:text"`
	Data         pgtype.JSONB `gorm:"type:jsonb;default:'{}';not null"`
}

func (FetchRecord) TableName() string {
	return "meteo_fetches"
}

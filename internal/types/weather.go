package types

import (
	"time"
)

// Observation is one hour of weather as retrieved from the archive API:
// precipitation in mm, vapour pressure deficit in kPa, temperature in °C and
// relative humidity in percent. Observations are immutable once retrieved;
// the analysis core never mutates them.
type Observation struct {
	Timestamp             time.Time `json:"timestamp" gorm:"column:time;uniqueIndex:idx_location_time"`
	LocationName          string    `json:"location_name,omitempty" gorm:"column:locationname;uniqueIndex:idx_location_time"`
	Precipitation         float64   `json:"precipitation" gorm:"column:precipitation"`
	VapourPressureDeficit float64   `json:"vapour_pressure_deficit" gorm:"column:vapourpressuredeficit"`
	Temperature           float64   `json:"temperature" gorm:"column:temperature"`
	RelativeHumidity      float64   `json:"relative_humidity" gorm:"column:relativehumidity"`
}

// HourlySeries is an ordered sequence of hourly observations with strictly
// increasing timestamps and contiguous hourly spacing. Construction does not
// enforce the invariants; callers validate via scab.ValidateSeries before
// analysis.
type HourlySeries []Observation

// Timestamps returns the timestamp column of the series.
func (s HourlySeries) Timestamps() []time.Time {
	out := make([]time.Time, len(s))
	for i := range s {
		out[i] = s[i].Timestamp
	}
	return out
}

// Precipitation returns the precipitation column of the series.
func (s HourlySeries) Precipitation() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Precipitation
	}
	return out
}

// Temperature returns the temperature column of the series.
func (s HourlySeries) Temperature() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Temperature
	}
	return out
}

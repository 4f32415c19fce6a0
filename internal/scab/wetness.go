// Package scab implements the wet/dry period analysis that feeds an
// apple-scab infection-risk model: per-hour wetness classification, rain-event
// detection, infection-period segmentation and daily summary aggregation.
//
// The wetness and rain-event rules follow Rossi et al., "A mechanistic model
// simulating primary infections of Venturia inaequalis in apple orchards",
// and Zandelin (2021), "Virtual weather data for apple scab monitoring and
// management".
package scab

import (
	"github.com/scabwatch/scabwatch/internal/types"
)

const (
	// An hour is wet when there is any precipitation at all or the vapour
	// pressure deficit drops below 2.5 hPa. Zandelin (2021).
	wetPrecipitationThreshold         = 0.0
	wetVapourPressureDeficitThreshold = 0.25 // kPa

	// Hours with relative humidity above this count as humid in the daily
	// summary.
	humidRelativeHumidityThreshold = 85.0
)

// IsWet reports whether an hour with the given precipitation (mm) and vapour
// pressure deficit (kPa) counts as wet.
func IsWet(precipitation, vapourPressureDeficit float64) bool {
	return precipitation > wetPrecipitationThreshold ||
		vapourPressureDeficit < wetVapourPressureDeficitThreshold
}

// WetHours applies IsWet to every observation in the series.
func WetHours(series types.HourlySeries) []bool {
	wet := make([]bool, len(series))
	for i := range series {
		wet[i] = IsWet(series[i].Precipitation, series[i].VapourPressureDeficit)
	}
	return wet
}

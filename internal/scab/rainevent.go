package scab

import (
	"github.com/scabwatch/scabwatch/internal/types"
	"github.com/scabwatch/scabwatch/pkg/runlength"
)

const (
	// A rain event is a period with measurable rainfall (R >= 0.2 mm/h)
	// lasting one to several hours, interrupted by a maximum of two hours.
	// Rossi et al., p. 303.
	DefaultRainThreshold = 0.2
	DefaultRainMaxGap    = 2
)

// RainEvent flags the hours of the series that belong to a sustained rain
// event: hours with precipitation at or above threshold, with dry gaps of up
// to maxGap hours bridged into the event. The series is typically one
// calendar day but the algorithm is length-agnostic.
func RainEvent(series types.HourlySeries, threshold float64, maxGap int) []bool {
	rain := make([]bool, len(series))
	for i := range series {
		rain[i] = series[i].Precipitation >= threshold
	}
	return runlength.FillGaps(rain, maxGap)
}

// IsRainEvent is RainEvent with the Rossi thresholds.
func IsRainEvent(series types.HourlySeries) []bool {
	return RainEvent(series, DefaultRainThreshold, DefaultRainMaxGap)
}

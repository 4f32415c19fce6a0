package scab

import (
	"gonum.org/v1/gonum/stat"

	"github.com/scabwatch/scabwatch/internal/types"
	"github.com/scabwatch/scabwatch/pkg/runlength"
)

// A dry interruption shorter than this does not break a wet period.
// Rossi et al., p. 304.
const infectionMaxGapHours = 4

// InfectionPeriodResult carries the inputs the infection-risk model consumes
// for one analysis window. A nil AverageTemperature means the window held
// fewer than two qualifying wet periods; that is a valid negative result, not
// an error, and the model treats it as zero risk contribution.
type InfectionPeriodResult struct {
	WetHours           int      `json:"wet_hours"`
	AverageTemperature *float64 `json:"average_temperature,omitempty"`
}

// InfectionPeriod finds the infection period in the window per Rossi et al.:
// two wet periods separated by a dry interruption of at least 4 h, where
// shorter interruptions do not count as interruptions. For example 8 h wet +
// 2 h dry + 6 h wet + 8 h dry + 12 h wet is a potential infection period whose
// duration runs through the end of the second wet span.
//
// The window's hours are classified wet/dry, interruptions up to 4 h are
// bridged, and the bridged runs are labeled left to right. The hours that are
// genuinely wet inside the second labeled run bound the result: WetHours
// counts the wet hours in the prefix up to the last of them, and
// AverageTemperature is the mean temperature over that whole prefix,
// bridged-dry hours included.
func InfectionPeriod(window types.HourlySeries) InfectionPeriodResult {
	wet := WetHours(window)
	wetFilled := runlength.FillGaps(wet, infectionMaxGapHours)
	labels := runlength.Label(wetFilled)

	lastIndex := -1
	for i := range labels {
		if labels[i] == 2 && wet[i] {
			lastIndex = i
		}
	}
	if lastIndex < 0 {
		return InfectionPeriodResult{}
	}

	wetHours := 0
	for i := 0; i <= lastIndex; i++ {
		if wet[i] {
			wetHours++
		}
	}

	avg := stat.Mean(window.Temperature()[:lastIndex+1], nil)
	return InfectionPeriodResult{
		WetHours:           wetHours,
		AverageTemperature: &avg,
	}
}

package scab

import (
	"math"
	"testing"
	"time"

	"github.com/scabwatch/scabwatch/internal/types"
)

// wetSeries builds an hourly series from a wet/dry pattern. Wet hours get
// precipitation, dry hours a high vapour pressure deficit. Temperature at
// hour i is i degrees so prefix means are easy to compute by hand.
func wetSeries(t *testing.T, pattern []bool) types.HourlySeries {
	t.Helper()
	base := time.Date(2023, time.April, 10, 0, 0, 0, 0, time.UTC)
	series := make(types.HourlySeries, len(pattern))
	for i, wet := range pattern {
		obs := types.Observation{
			Timestamp:             base.Add(time.Duration(i) * time.Hour),
			VapourPressureDeficit: 1.0,
			Temperature:           float64(i),
		}
		if wet {
			obs.Precipitation = 1.0
		}
		series[i] = obs
	}
	return series
}

// repeat appends count copies of value to pattern.
func repeat(pattern []bool, value bool, count int) []bool {
	for i := 0; i < count; i++ {
		pattern = append(pattern, value)
	}
	return pattern
}

// The canonical Rossi example: 8 h wet + 2 h dry + 6 h wet + 8 h dry +
// 12 h wet. The 2 h interruption does not break the first wet period, the
// 8 h one does, so the 12 h tail is the second period and the infection
// period runs through its last wet hour with tinf = 26 wet hours.
func TestInfectionPeriodRossiExample(t *testing.T) {
	var pattern []bool
	pattern = repeat(pattern, true, 8)
	pattern = repeat(pattern, false, 2)
	pattern = repeat(pattern, true, 6)
	pattern = repeat(pattern, false, 8)
	pattern = repeat(pattern, true, 12)

	result := InfectionPeriod(wetSeries(t, pattern))

	if result.WetHours != 26 {
		t.Errorf("expected 26 wet hours, got %d", result.WetHours)
	}
	if result.AverageTemperature == nil {
		t.Fatal("expected an average temperature, got none")
	}
	// Prefix covers all 36 hours; temperatures are 0..35 so the mean is 17.5.
	if math.Abs(*result.AverageTemperature-17.5) > 1e-9 {
		t.Errorf("expected average temperature 17.5, got %v", *result.AverageTemperature)
	}
}

func TestInfectionPeriodSecondPeriodMidWindow(t *testing.T) {
	// 4 h wet + 6 h dry + 3 h wet + 6 h dry + 5 h wet: three periods. The
	// infection period ends with the last wet hour of the second one
	// (index 12), so the trailing period plays no part.
	var pattern []bool
	pattern = repeat(pattern, true, 4)
	pattern = repeat(pattern, false, 6)
	pattern = repeat(pattern, true, 3)
	pattern = repeat(pattern, false, 6)
	pattern = repeat(pattern, true, 5)

	result := InfectionPeriod(wetSeries(t, pattern))

	if result.WetHours != 7 {
		t.Errorf("expected 7 wet hours, got %d", result.WetHours)
	}
	if result.AverageTemperature == nil {
		t.Fatal("expected an average temperature, got none")
	}
	// Prefix is hours 0..12, temperatures 0..12, mean 6.
	if math.Abs(*result.AverageTemperature-6.0) > 1e-9 {
		t.Errorf("expected average temperature 6.0, got %v", *result.AverageTemperature)
	}
}

func TestInfectionPeriodNoSecondPeriod(t *testing.T) {
	tests := []struct {
		name    string
		pattern func() []bool
	}{
		{
			name: "single wet period",
			pattern: func() []bool {
				var p []bool
				p = repeat(p, true, 10)
				p = repeat(p, false, 14)
				return p
			},
		},
		{
			name: "short interruption does not create a second period",
			pattern: func() []bool {
				var p []bool
				p = repeat(p, true, 8)
				p = repeat(p, false, 3)
				p = repeat(p, true, 6)
				return p
			},
		},
		{
			name: "all dry",
			pattern: func() []bool {
				return repeat(nil, false, 24)
			},
		},
		{
			name:    "empty window",
			pattern: func() []bool { return nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := InfectionPeriod(wetSeries(t, tt.pattern()))
			if result.WetHours != 0 {
				t.Errorf("expected 0 wet hours, got %d", result.WetHours)
			}
			if result.AverageTemperature != nil {
				t.Errorf("expected no average temperature, got %v", *result.AverageTemperature)
			}
		})
	}
}

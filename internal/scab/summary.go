package scab

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/scabwatch/scabwatch/internal/types"
)

// DailySummary is one calendar day of derived weather. The JSON names are a
// contract with the reporting collaborator, which indexes columns by name.
type DailySummary struct {
	Date          time.Time `json:"Date"`
	LeafWetness   float64   `json:"LeafWetness"`
	HasRain       float64   `json:"HasRain"`
	Precipitation float64   `json:"Precipitation"`
	Temperature   float64   `json:"Temperature"`
	HumidDuration int       `json:"HumidDuration"`
}

// HourlyRain is one hour of the rain-event table used for visualization and
// export.
type HourlyRain struct {
	Timestamp     time.Time `json:"Hourly Date"`
	Precipitation float64   `json:"Hourly Precipitation"`
	RainEvent     bool      `json:"Hourly Rain Event"`
}

// ValidateSeries checks the hourly-grid invariants: the series must be
// non-empty and its timestamps strictly increasing with exactly one hour
// between consecutive rows. A violation is a caller error, never silently
// tolerated.
func ValidateSeries(series types.HourlySeries) error {
	if len(series) == 0 {
		return &InvalidSeriesError{Reason: "series is empty"}
	}
	for i := 1; i < len(series); i++ {
		gap := series[i].Timestamp.Sub(series[i-1].Timestamp)
		if gap <= 0 {
			return &InvalidSeriesError{Reason: "timestamps are not strictly increasing"}
		}
		if gap != time.Hour {
			return &InvalidSeriesError{
				Reason: "hour gap between " + series[i-1].Timestamp.Format(time.RFC3339) +
					" and " + series[i].Timestamp.Format(time.RFC3339),
			}
		}
	}
	return nil
}

// DaySlice returns the contiguous sub-series of hours falling on the given
// calendar day in loc. It returns a MissingDataError when the day has no rows
// and an InvalidSeriesError when the matched rows are not a valid hourly
// grid, so aggregation never runs on partial or garbled data.
func DaySlice(series types.HourlySeries, day time.Time, loc *time.Location) (types.HourlySeries, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	start := -1
	end := -1
	for i := range series {
		ts := series[i].Timestamp
		if ts.Before(dayStart) || !ts.Before(dayEnd) {
			continue
		}
		if start < 0 {
			start = i
		}
		end = i + 1
	}
	if start < 0 {
		return nil, &MissingDataError{Day: dayStart}
	}

	slice := series[start:end]
	if err := ValidateSeries(slice); err != nil {
		return nil, err
	}
	return slice, nil
}

// SummarizeWeather produces one DailySummary per requested day, in the order
// the days were supplied: leaf-wetness hours, whether any rain event occurred,
// total precipitation, mean temperature and the count of hours with relative
// humidity above 85%.
func SummarizeWeather(dates []time.Time, series types.HourlySeries, loc *time.Location) ([]DailySummary, error) {
	summaries := make([]DailySummary, 0, len(dates))

	for _, day := range dates {
		daySeries, err := DaySlice(series, day, loc)
		if err != nil {
			return nil, err
		}

		wet := WetHours(daySeries)
		leafWetness := 0
		for _, w := range wet {
			if w {
				leafWetness++
			}
		}

		hasRain := 0.0
		for _, r := range IsRainEvent(daySeries) {
			if r {
				hasRain = 1.0
				break
			}
		}

		totalPrecip := 0.0
		humidHours := 0
		for i := range daySeries {
			totalPrecip += daySeries[i].Precipitation
			if daySeries[i].RelativeHumidity > humidRelativeHumidityThreshold {
				humidHours++
			}
		}

		summaries = append(summaries, DailySummary{
			Date:          time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc),
			LeafWetness:   float64(leafWetness),
			HasRain:       hasRain,
			Precipitation: totalPrecip,
			Temperature:   stat.Mean(daySeries.Temperature(), nil),
			HumidDuration: humidHours,
		})
	}

	return summaries, nil
}

// SummarizeRain produces the hour-by-hour rain-event table for the requested
// days: all hours of the first day in timestamp order, then the second, and
// so on, with the rain-event flag computed over each day's own window.
func SummarizeRain(dates []time.Time, series types.HourlySeries, loc *time.Location) ([]HourlyRain, error) {
	var rows []HourlyRain

	for _, day := range dates {
		daySeries, err := DaySlice(series, day, loc)
		if err != nil {
			return nil, err
		}

		events := IsRainEvent(daySeries)
		for i := range daySeries {
			rows = append(rows, HourlyRain{
				Timestamp:     daySeries[i].Timestamp,
				Precipitation: daySeries[i].Precipitation,
				RainEvent:     events[i],
			})
		}
	}

	return rows, nil
}

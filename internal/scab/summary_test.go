package scab

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/scabwatch/scabwatch/internal/types"
)

// hourlyDays builds count full days of hourly observations starting at
// midnight of day in loc. fill customizes each observation given its overall
// hour index.
func hourlyDays(t *testing.T, day time.Time, loc *time.Location, count int, fill func(i int, obs *types.Observation)) types.HourlySeries {
	t.Helper()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	series := make(types.HourlySeries, count*24)
	for i := range series {
		obs := types.Observation{
			Timestamp:             start.Add(time.Duration(i) * time.Hour),
			VapourPressureDeficit: 1.0,
			Temperature:           10.0,
		}
		if fill != nil {
			fill(i, &obs)
		}
		series[i] = obs
	}
	return series
}

func TestValidateSeries(t *testing.T) {
	loc := time.UTC
	day := time.Date(2023, time.April, 10, 0, 0, 0, 0, loc)
	good := hourlyDays(t, day, loc, 1, nil)

	t.Run("valid series passes", func(t *testing.T) {
		if err := ValidateSeries(good); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("empty series rejected", func(t *testing.T) {
		err := ValidateSeries(types.HourlySeries{})
		var invalid *InvalidSeriesError
		if !errors.As(err, &invalid) {
			t.Errorf("expected InvalidSeriesError, got %v", err)
		}
	})

	t.Run("out of order timestamps rejected", func(t *testing.T) {
		bad := make(types.HourlySeries, len(good))
		copy(bad, good)
		bad[2], bad[3] = bad[3], bad[2]
		var invalid *InvalidSeriesError
		if err := ValidateSeries(bad); !errors.As(err, &invalid) {
			t.Errorf("expected InvalidSeriesError, got %v", err)
		}
	})

	t.Run("hour gap rejected", func(t *testing.T) {
		bad := append(types.HourlySeries{}, good[:5]...)
		bad = append(bad, good[7:]...)
		var invalid *InvalidSeriesError
		if err := ValidateSeries(bad); !errors.As(err, &invalid) {
			t.Errorf("expected InvalidSeriesError, got %v", err)
		}
	})
}

func TestDaySlice(t *testing.T) {
	loc := time.UTC
	day1 := time.Date(2023, time.April, 10, 0, 0, 0, 0, loc)
	day2 := day1.AddDate(0, 0, 1)
	series := hourlyDays(t, day1, loc, 2, nil)

	t.Run("slices exactly one day", func(t *testing.T) {
		slice, err := DaySlice(series, day2, loc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(slice) != 24 {
			t.Fatalf("expected 24 hours, got %d", len(slice))
		}
		if !slice[0].Timestamp.Equal(day2) {
			t.Errorf("expected first hour at %v, got %v", day2, slice[0].Timestamp)
		}
	})

	t.Run("missing day is a MissingDataError", func(t *testing.T) {
		_, err := DaySlice(series, day1.AddDate(0, 0, 5), loc)
		var missing *MissingDataError
		if !errors.As(err, &missing) {
			t.Errorf("expected MissingDataError, got %v", err)
		}
	})
}

func TestSummarizeWeather(t *testing.T) {
	loc := time.UTC
	day1 := time.Date(2023, time.April, 10, 0, 0, 0, 0, loc)
	day2 := day1.AddDate(0, 0, 1)

	// Day 1: rain on hours 3 and 4, humid hours 0-5. Day 2: dry, one
	// low-VPD wet hour at hour 30 (day 2 hour 6).
	series := hourlyDays(t, day1, loc, 2, func(i int, obs *types.Observation) {
		switch {
		case i == 3 || i == 4:
			obs.Precipitation = 0.5
		case i == 30:
			obs.VapourPressureDeficit = 0.1
		}
		if i < 6 {
			obs.RelativeHumidity = 90.0
		}
		obs.Temperature = 10.0
		if i >= 24 {
			obs.Temperature = 14.0
		}
	})

	summaries, err := SummarizeWeather([]time.Time{day1, day2}, series, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(summaries))
	}

	d1 := summaries[0]
	if !d1.Date.Equal(day1) {
		t.Errorf("expected first row for %v, got %v", day1, d1.Date)
	}
	if d1.LeafWetness != 2 {
		t.Errorf("day 1: expected 2 leaf wetness hours, got %v", d1.LeafWetness)
	}
	if d1.HasRain != 1.0 {
		t.Errorf("day 1: expected a rain event, got %v", d1.HasRain)
	}
	if math.Abs(d1.Precipitation-1.0) > 1e-9 {
		t.Errorf("day 1: expected 1.0 mm precipitation, got %v", d1.Precipitation)
	}
	if math.Abs(d1.Temperature-10.0) > 1e-9 {
		t.Errorf("day 1: expected mean temperature 10.0, got %v", d1.Temperature)
	}
	if d1.HumidDuration != 6 {
		t.Errorf("day 1: expected 6 humid hours, got %d", d1.HumidDuration)
	}

	d2 := summaries[1]
	if d2.LeafWetness != 1 {
		t.Errorf("day 2: expected 1 leaf wetness hour, got %v", d2.LeafWetness)
	}
	if d2.HasRain != 0.0 {
		t.Errorf("day 2: expected no rain event, got %v", d2.HasRain)
	}
	if math.Abs(d2.Temperature-14.0) > 1e-9 {
		t.Errorf("day 2: expected mean temperature 14.0, got %v", d2.Temperature)
	}
	if d2.HumidDuration != 0 {
		t.Errorf("day 2: expected 0 humid hours, got %d", d2.HumidDuration)
	}
}

func TestSummarizeWeatherMissingDay(t *testing.T) {
	loc := time.UTC
	day := time.Date(2023, time.April, 10, 0, 0, 0, 0, loc)
	series := hourlyDays(t, day, loc, 1, nil)

	_, err := SummarizeWeather([]time.Time{day, day.AddDate(0, 0, 3)}, series, loc)
	var missing *MissingDataError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingDataError, got %v", err)
	}
}

func TestSummarizeRain(t *testing.T) {
	loc := time.UTC
	day1 := time.Date(2023, time.April, 10, 0, 0, 0, 0, loc)
	day2 := day1.AddDate(0, 0, 1)

	// Rain on day 1 hours 6 and 8; the one-hour gap is bridged. Day 2 dry.
	series := hourlyDays(t, day1, loc, 2, func(i int, obs *types.Observation) {
		if i == 6 || i == 8 {
			obs.Precipitation = 0.3
		}
	})

	rows, err := SummarizeRain([]time.Time{day1, day2}, series, loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 48 {
		t.Fatalf("expected 48 rows, got %d", len(rows))
	}

	// Rows come out in timestamp order, day 1 then day 2.
	for i, row := range rows {
		expected := day1.Add(time.Duration(i) * time.Hour)
		if !row.Timestamp.Equal(expected) {
			t.Fatalf("row %d: expected timestamp %v, got %v", i, expected, row.Timestamp)
		}
	}

	for i, row := range rows {
		wantEvent := i >= 6 && i <= 8
		if row.RainEvent != wantEvent {
			t.Errorf("row %d: expected rain event %v, got %v", i, wantEvent, row.RainEvent)
		}
		wantPrecip := 0.0
		if i == 6 || i == 8 {
			wantPrecip = 0.3
		}
		if math.Abs(row.Precipitation-wantPrecip) > 1e-9 {
			t.Errorf("row %d: expected precipitation %v, got %v", i, wantPrecip, row.Precipitation)
		}
	}
}

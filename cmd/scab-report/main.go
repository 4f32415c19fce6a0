// scab-report fetches hourly weather for a location and date range and prints
// the daily summary, rain-event table and infection-period result without
// requiring a database or a running daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/scabwatch/scabwatch/internal/log"
	"github.com/scabwatch/scabwatch/internal/meteo"
	"github.com/scabwatch/scabwatch/internal/scab"
)

func main() {
	latitude := flag.Float64("lat", 0, "Latitude of the location")
	longitude := flag.Float64("lon", 0, "Longitude of the location")
	startDate := flag.String("start", "", "Start date (YYYY-MM-DD)")
	endDate := flag.String("end", "", "End date (YYYY-MM-DD), inclusive")
	cachePath := flag.String("cache", ".meteo-cache.db", "Path to the response cache database ('' to disable)")
	forecast := flag.Bool("forecast", false, "Use the historical-forecast endpoint instead of the archive")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		log.Fatalf("invalid -start date: %v", err)
	}
	end, err := time.Parse("2006-01-02", *endDate)
	if err != nil {
		log.Fatalf("invalid -end date: %v", err)
	}
	if end.Before(start) {
		log.Fatal("-end is before -start")
	}

	var cache *meteo.Cache
	if *cachePath != "" {
		cache, err = meteo.OpenCache(*cachePath)
		if err != nil {
			log.Fatalf("error opening cache: %v", err)
		}
		defer cache.Close()
	}

	client := meteo.NewClient("", "", cache, log.GetSugaredLogger())
	series, _, err := client.FetchHourly(context.Background(), *latitude, *longitude, start, end, *forecast)
	if err != nil {
		log.Fatalf("error fetching weather: %v", err)
	}
	if err := scab.ValidateSeries(series); err != nil {
		log.Fatalf("fetched series failed validation: %v", err)
	}

	// The series timestamps carry the location's timezone from the API.
	loc := series[0].Timestamp.Location()

	var dates []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dates = append(dates, time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc))
	}

	summaries, err := scab.SummarizeWeather(dates, series, loc)
	if err != nil {
		log.Fatalf("error summarizing weather: %v", err)
	}

	fmt.Println("Date        LeafWetness  HasRain  Precipitation  Temperature  HumidDuration")
	for _, s := range summaries {
		fmt.Printf("%s  %11.0f  %7.0f  %13.1f  %11.1f  %13d\n",
			s.Date.Format("2006-01-02"), s.LeafWetness, s.HasRain, s.Precipitation, s.Temperature, s.HumidDuration)
	}

	result := scab.InfectionPeriod(series)
	if result.AverageTemperature == nil {
		fmt.Println("\nNo infection period found in this window (fewer than two wet periods).")
		return
	}
	fmt.Printf("\nInfection period: %d wet hours, average temperature %.1f °C\n",
		result.WetHours, *result.AverageTemperature)
}

package restserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/scabwatch/scabwatch/internal/log"
	"github.com/scabwatch/scabwatch/internal/scab"
	"github.com/scabwatch/scabwatch/internal/types"
	"github.com/scabwatch/scabwatch/pkg/config"
)

const dateLayout = "2006-01-02"

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{controller: ctrl}
}

// rangeQuery is the decoded ?location=&start=&end= triple shared by all
// analysis endpoints.
type rangeQuery struct {
	location config.LocationData
	loc      *time.Location
	dates    []time.Time
	series   types.HourlySeries
}

// parseRangeQuery validates the query parameters and loads the hourly series
// for the requested range from the database.
func (h *Handlers) parseRangeQuery(req *http.Request) (*rangeQuery, int, error) {
	q := req.URL.Query()

	locationName := q.Get("location")
	location, ok := h.controller.Locations[locationName]
	if !ok {
		return nil, http.StatusNotFound, fmt.Errorf("unknown location %q", locationName)
	}

	loc, err := time.LoadLocation(location.Timezone)
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("invalid timezone for location %q", locationName)
	}

	start, err := time.ParseInLocation(dateLayout, q.Get("start"), loc)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid start date: %v", err)
	}
	end, err := time.ParseInLocation(dateLayout, q.Get("end"), loc)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid end date: %v", err)
	}
	if end.Before(start) {
		return nil, http.StatusBadRequest, fmt.Errorf("end date is before start date")
	}

	var dates []time.Time
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		dates = append(dates, day)
	}

	series, err := h.controller.DB.GetSeries(locationName, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	return &rangeQuery{location: location, loc: loc, dates: dates, series: series}, http.StatusOK, nil
}

// GetDailySummary serves one summary row per requested day.
func (h *Handlers) GetDailySummary(w http.ResponseWriter, req *http.Request) {
	rq, status, err := h.parseRangeQuery(req)
	if err != nil {
		writeError(w, status, err)
		return
	}

	summaries, err := scab.SummarizeWeather(rq.dates, rq.series, rq.loc)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	writeJSON(w, summaries)
}

// GetHourlyRain serves the hour-by-hour rain-event table.
func (h *Handlers) GetHourlyRain(w http.ResponseWriter, req *http.Request) {
	rq, status, err := h.parseRangeQuery(req)
	if err != nil {
		writeError(w, status, err)
		return
	}

	rows, err := scab.SummarizeRain(rq.dates, rq.series, rq.loc)
	if err != nil {
		writeAnalysisError(w, err)
		return
	}

	writeJSON(w, rows)
}

// GetInfectionPeriod serves the infection-period result for the requested
// window. A window with fewer than two wet periods yields wet_hours 0 and no
// average_temperature; that is a normal negative result, not an error.
func (h *Handlers) GetInfectionPeriod(w http.ResponseWriter, req *http.Request) {
	rq, status, err := h.parseRangeQuery(req)
	if err != nil {
		writeError(w, status, err)
		return
	}

	if err := scab.ValidateSeries(rq.series); err != nil {
		writeAnalysisError(w, err)
		return
	}

	writeJSON(w, scab.InfectionPeriod(rq.series))
}

// GetHealth reports server liveness.
func (h *Handlers) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// writeAnalysisError maps the core's error taxonomy onto HTTP statuses:
// a day with no data is 404, an invalid series is 422.
func writeAnalysisError(w http.ResponseWriter, err error) {
	var missing *scab.MissingDataError
	var invalid *scab.InvalidSeriesError

	switch {
	case errors.As(err, &missing):
		writeError(w, http.StatusNotFound, err)
	case errors.As(err, &invalid):
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

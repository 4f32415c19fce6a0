package scab

import (
	"fmt"
	"time"
)

// InvalidSeriesError indicates that an input series is empty, out of order, or
// has a gap in its hourly grid. The analysis functions refuse to aggregate
// over such input rather than producing numbers from partial data.
type InvalidSeriesError struct {
	Reason string
}

func (e *InvalidSeriesError) Error() string {
	return fmt.Sprintf("invalid hourly series: %s", e.Reason)
}

// MissingDataError indicates that a requested calendar day has no matching
// rows in the supplied series.
type MissingDataError struct {
	Day time.Time
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("no hourly data for day %s", e.Day.Format("2006-01-02"))
}

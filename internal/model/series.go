package model

import "time"

// MetricKind selects which upstream series a fetch or point refers to.
type MetricKind string

const (
	MetricTVL     MetricKind = "tvl"
	MetricRevenue MetricKind = "revenue"
)

// RawSeriesPoint is one observation of a metric for a slug, before merging.
type RawSeriesPoint struct {
	Slug  string    `json:"slug"`
	Day   time.Time `json:"day"`
	Value float64   `json:"value"`
}

// DayFromUnix truncates a Unix-seconds timestamp to its UTC calendar day.
func DayFromUnix(ts int64) time.Time {
	t := time.Unix(ts, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDay renders a day as YYYY-MM-DD for report output.
func FormatDay(day time.Time) string {
	return day.UTC().Format("2006-01-02")
}

package storage

// Report names one of the output shapes consumed by the dashboard layer.
type Report string

const (
	// ReportTVL is the per-slug/day TVL time series.
	ReportTVL Report = "tvl"
	// ReportRevenue is the revenue time series with daily and cumulative columns.
	ReportRevenue Report = "revenue"
	// ReportRatios is the capital-efficiency ratio time series.
	ReportRatios Report = "ratios"
	// ReportSnapshot is the latest-row-per-protocol table.
	ReportSnapshot Report = "snapshot"
)

// Sink writes rendered report tables.
type Sink interface {
	WriteTable(header []string, records [][]string) error
}

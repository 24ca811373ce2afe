package storage

import (
	"fmt"
	"strconv"

	"revscope/internal/model"
)

// SeriesTable renders a windowed series into the columns of a time-series
// report. Absent optional values render as empty cells, never as 0.
func SeriesTable(report Report, rows []model.WindowedMetric) ([]string, [][]string, error) {
	switch report {
	case ReportTVL:
		header := []string{"slug", "date", "tvl_usd"}
		records := make([][]string, 0, len(rows))
		for _, row := range rows {
			if row.TVL == nil {
				continue
			}
			records = append(records, []string{row.Slug, model.FormatDay(row.Day), formatValue(*row.TVL)})
		}
		return header, records, nil

	case ReportRevenue:
		header := []string{"slug", "date", "daily_revenue_usd", "cumulative_revenue_usd"}
		records := make([][]string, 0, len(rows))
		for _, row := range rows {
			records = append(records, []string{
				row.Slug,
				model.FormatDay(row.Day),
				formatValue(row.Revenue),
				formatValue(row.CumulativeRevenue),
			})
		}
		return header, records, nil

	case ReportRatios:
		header := []string{
			"slug", "date",
			"revenue_7d", "avg_tvl_7d", "annualized_rev_to_tvl_7d",
			"revenue_30d", "avg_tvl_30d", "annualized_rev_to_tvl_30d",
		}
		records := make([][]string, 0, len(rows))
		for _, row := range rows {
			records = append(records, []string{
				row.Slug,
				model.FormatDay(row.Day),
				formatValue(row.Revenue7d),
				formatOptional(row.AvgTVL7d),
				formatOptional(row.AnnualizedRevToTVL7d),
				formatValue(row.Revenue30d),
				formatOptional(row.AvgTVL30d),
				formatOptional(row.AnnualizedRevToTVL30d),
			})
		}
		return header, records, nil

	default:
		return nil, nil, fmt.Errorf("unknown series report %q", report)
	}
}

// SnapshotTable renders the latest-per-protocol table.
func SnapshotTable(rows []model.SnapshotRow) ([]string, [][]string) {
	header := []string{
		"protocol", "slug", "date", "tvl_usd",
		"revenue_7d", "revenue_30d", "cumulative_revenue_usd",
		"annualized_rev_to_tvl_7d", "annualized_rev_to_tvl_30d",
	}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.DisplayName,
			row.Slug,
			model.FormatDay(row.Day),
			formatOptional(row.TVL),
			formatValue(row.Revenue7d),
			formatValue(row.Revenue30d),
			formatValue(row.CumulativeRevenue),
			formatOptional(row.AnnualizedRevToTVL7d),
			formatOptional(row.AnnualizedRevToTVL30d),
		})
	}
	return header, records
}

func formatValue(value float64) string {
	return strconv.FormatFloat(value, 'f', 6, 64)
}

func formatOptional(value *float64) string {
	if value == nil {
		return ""
	}
	return formatValue(*value)
}

package model

// WindowedMetric extends a DailyMetric with trailing-window aggregates.
//
// Window values are pure functions of the ordered DailyMetric rows for the
// slug up to and including Day. Averages and annualized ratios are pointers:
// nil means undefined (no TVL observations in the window, or zero average
// TVL), which downstream sorting must keep distinct from 0.
type WindowedMetric struct {
	DailyMetric

	Revenue7d  float64  `json:"revenue_7d"`
	Revenue30d float64  `json:"revenue_30d"`
	AvgTVL7d   *float64 `json:"avg_tvl_7d,omitempty"`
	AvgTVL30d  *float64 `json:"avg_tvl_30d,omitempty"`

	AnnualizedRevToTVL7d  *float64 `json:"annualized_rev_to_tvl_7d,omitempty"`
	AnnualizedRevToTVL30d *float64 `json:"annualized_rev_to_tvl_30d,omitempty"`

	CumulativeRevenue float64 `json:"cumulative_revenue"`
}

// SnapshotRow is the latest WindowedMetric per slug with its display name.
type SnapshotRow struct {
	WindowedMetric

	DisplayName string `json:"display_name"`
}

package metrics

import (
	"sort"

	"revscope/internal/model"
)

const (
	shortWindowRows = 7
	longWindowRows  = 30
	yearDays        = 365
)

// Compute derives trailing-window metrics from daily rows.
//
// Windows are row-count based over each slug's series ordered by day: a 7d
// window covers the 7 most recent rows present, not 7 calendar days, so gaps
// in the series shrink the covered date range rather than the window. The
// TVL average is null-tolerant: rows without a TVL observation are excluded
// from both sum and count. Annualized ratios are nil unless the window's
// average TVL is positive.
func Compute(rows []model.DailyMetric) []model.WindowedMetric {
	bySlug := make(map[string][]model.DailyMetric)
	slugs := make([]string, 0)
	for _, row := range rows {
		if _, ok := bySlug[row.Slug]; !ok {
			slugs = append(slugs, row.Slug)
		}
		bySlug[row.Slug] = append(bySlug[row.Slug], row)
	}
	sort.Strings(slugs)

	out := make([]model.WindowedMetric, 0, len(rows))
	for _, slug := range slugs {
		series := bySlug[slug]
		sort.Slice(series, func(i, j int) bool {
			return series[i].Day.Before(series[j].Day)
		})
		out = append(out, computeSlug(series)...)
	}
	return out
}

func computeSlug(series []model.DailyMetric) []model.WindowedMetric {
	out := make([]model.WindowedMetric, 0, len(series))

	var cumulative float64
	for i, row := range series {
		cumulative += row.Revenue

		rev7, avg7 := trailing(series, i, shortWindowRows)
		rev30, avg30 := trailing(series, i, longWindowRows)

		out = append(out, model.WindowedMetric{
			DailyMetric:           row,
			Revenue7d:             rev7,
			Revenue30d:            rev30,
			AvgTVL7d:              avg7,
			AvgTVL30d:             avg30,
			AnnualizedRevToTVL7d:  annualize(rev7, avg7, shortWindowRows),
			AnnualizedRevToTVL30d: annualize(rev30, avg30, longWindowRows),
			CumulativeRevenue:     cumulative,
		})
	}
	return out
}

// trailing sums revenue and averages TVL over the window of up to n rows
// ending at index i.
func trailing(series []model.DailyMetric, i, n int) (float64, *float64) {
	start := i - n + 1
	if start < 0 {
		start = 0
	}

	var revenue, tvlSum float64
	var tvlCount int
	for _, row := range series[start : i+1] {
		revenue += row.Revenue
		if row.TVL != nil {
			tvlSum += *row.TVL
			tvlCount++
		}
	}

	if tvlCount == 0 {
		return revenue, nil
	}
	avg := tvlSum / float64(tvlCount)
	return revenue, &avg
}

// annualize scales a trailing revenue/TVL ratio to a 365-day rate. Nil when
// the average TVL is absent or non-positive; never 0 or NaN as a stand-in.
func annualize(revenue float64, avgTVL *float64, n int) *float64 {
	if avgTVL == nil || *avgTVL <= 0 {
		return nil
	}
	ratio := revenue / *avgTVL * (yearDays / float64(n))
	return &ratio
}

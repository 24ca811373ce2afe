package normalize

import (
	"sort"
	"time"

	"revscope/internal/model"
	"revscope/internal/registry"
)

// MergeRevenue folds revenue of merged slugs into their canonical slug,
// summing values that land on the same (slug, day).
func MergeRevenue(series []model.RawSeriesPoint, reg *registry.Registry) []model.RawSeriesPoint {
	type key struct {
		slug string
		day  time.Time
	}

	summed := make(map[key]float64, len(series))
	for _, point := range series {
		k := key{slug: reg.Canonical(point.Slug), day: point.Day}
		summed[k] += point.Value
	}

	out := make([]model.RawSeriesPoint, 0, len(summed))
	for k, value := range summed {
		out = append(out, model.RawSeriesPoint{Slug: k.slug, Day: k.day, Value: value})
	}
	sortSeries(out)
	return out
}

// Join outer-joins the TVL and revenue series on (slug, day). Days present
// in only one series are kept: missing revenue defaults to 0, missing TVL
// stays nil. Rows before startDate are dropped. The result holds at most one
// row per (slug, day), ordered by slug then day.
func Join(tvl, revenue []model.RawSeriesPoint, startDate time.Time) []model.DailyMetric {
	type key struct {
		slug string
		day  time.Time
	}

	rows := make(map[key]*model.DailyMetric)

	for _, point := range tvl {
		if point.Day.Before(startDate) {
			continue
		}
		value := point.Value
		rows[key{point.Slug, point.Day}] = &model.DailyMetric{
			Slug: point.Slug,
			Day:  point.Day,
			TVL:  &value,
		}
	}

	for _, point := range revenue {
		if point.Day.Before(startDate) {
			continue
		}
		k := key{point.Slug, point.Day}
		if row, ok := rows[k]; ok {
			row.Revenue = point.Value
			continue
		}
		rows[k] = &model.DailyMetric{
			Slug:    point.Slug,
			Day:     point.Day,
			Revenue: point.Value,
		}
	}

	out := make([]model.DailyMetric, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Slug != out[j].Slug {
			return out[i].Slug < out[j].Slug
		}
		return out[i].Day.Before(out[j].Day)
	})
	return out
}

func sortSeries(series []model.RawSeriesPoint) {
	sort.Slice(series, func(i, j int) bool {
		if series[i].Slug != series[j].Slug {
			return series[i].Slug < series[j].Slug
		}
		return series[i].Day.Before(series[j].Day)
	})
}

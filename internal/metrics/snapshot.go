package metrics

import (
	"sort"

	"revscope/internal/model"
	"revscope/internal/registry"
)

// Latest selects each slug's most recent row and attaches its display name,
// for point-in-time dashboards. Rows are ordered by the 7d annualized ratio
// descending; rows without a ratio are kept but sort last.
func Latest(rows []model.WindowedMetric, reg *registry.Registry) []model.SnapshotRow {
	latest := make(map[string]model.WindowedMetric)
	for _, row := range rows {
		current, ok := latest[row.Slug]
		if !ok || row.Day.After(current.Day) {
			latest[row.Slug] = row
		}
	}

	out := make([]model.SnapshotRow, 0, len(latest))
	for _, row := range latest {
		out = append(out, model.SnapshotRow{
			WindowedMetric: row,
			DisplayName:    reg.DisplayName(row.Slug),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].AnnualizedRevToTVL7d, out[j].AnnualizedRevToTVL7d
		switch {
		case a == nil && b == nil:
			return out[i].Slug < out[j].Slug
		case a == nil:
			return false
		case b == nil:
			return true
		case *a != *b:
			return *a > *b
		default:
			return out[i].Slug < out[j].Slug
		}
	})
	return out
}

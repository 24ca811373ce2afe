package normalize

import (
	"encoding/json"
	"time"

	"revscope/internal/llama"
	"revscope/internal/model"
)

// RevenueSeries extracts a per-day revenue series for one slug from a fees
// document.
//
// The flat totalDataChart and the chain's slice of totalDataChartBreakdown
// are unioned and summed. Days present in both are therefore counted twice;
// that reproduces the historical reports and stays the default. With
// allowDoubleCounting false the breakdown series wins and the flat series
// only fills days the breakdown lacks.
func RevenueSeries(doc *llama.FeesDoc, slug string, chainLabels []string, allowDoubleCounting bool) []model.RawSeriesPoint {
	if doc == nil {
		return nil
	}

	flat := make(map[time.Time]float64)
	for _, point := range doc.TotalDataChart {
		flat[model.DayFromUnix(point.TS)] += point.Value
	}

	breakdown := make(map[time.Time]float64)
	for _, point := range doc.TotalDataChartBreakdown {
		value, ok := chainValue(point, chainLabels)
		if !ok {
			continue
		}
		breakdown[model.DayFromUnix(point.TS)] += value
	}

	byDay := make(map[time.Time]float64, len(flat)+len(breakdown))
	if allowDoubleCounting {
		for day, value := range flat {
			byDay[day] += value
		}
		for day, value := range breakdown {
			byDay[day] += value
		}
	} else {
		for day, value := range breakdown {
			byDay[day] = value
		}
		for day, value := range flat {
			if _, ok := byDay[day]; !ok {
				byDay[day] = value
			}
		}
	}

	return seriesFromMap(slug, byDay)
}

// chainValue pulls the target chain's revenue out of one breakdown point,
// trying each label in order. A mapping value means the chain's revenue is
// split by sub-component; those are summed.
func chainValue(point llama.BreakdownPoint, chainLabels []string) (float64, bool) {
	for _, label := range chainLabels {
		raw, ok := point.Chains[label]
		if !ok {
			continue
		}

		var scalar float64
		if err := json.Unmarshal(raw, &scalar); err == nil {
			return scalar, true
		}

		var sub map[string]float64
		if err := json.Unmarshal(raw, &sub); err == nil {
			var total float64
			for _, v := range sub {
				total += v
			}
			return total, true
		}
	}
	return 0, false
}

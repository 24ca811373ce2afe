package normalize

import (
	"time"

	"revscope/internal/llama"
	"revscope/internal/model"
)

// TVLSeries extracts a per-day TVL series for one slug from a protocol
// document.
//
// Two candidate series are reconciled as a waterfall: the top-level tvl array
// is authoritative for every day it covers, and the chain-scoped series
// (first matching label wins) fills only the days the top-level series lacks.
// Sub-day resolution is discarded; within one series the last observation of
// a day wins.
func TVLSeries(doc *llama.ProtocolDoc, slug string, chainLabels []string) []model.RawSeriesPoint {
	if doc == nil {
		return nil
	}

	byDay := make(map[time.Time]float64)

	for _, label := range chainLabels {
		chain, ok := doc.ChainTVLs[label]
		if !ok || len(chain.TVL) == 0 {
			continue
		}
		for _, point := range chain.TVL {
			byDay[model.DayFromUnix(point.TS)] = point.Value
		}
		break
	}

	for _, point := range doc.TVL {
		byDay[model.DayFromUnix(point.TS)] = point.Value
	}

	return seriesFromMap(slug, byDay)
}

func seriesFromMap(slug string, byDay map[time.Time]float64) []model.RawSeriesPoint {
	if len(byDay) == 0 {
		return nil
	}
	out := make([]model.RawSeriesPoint, 0, len(byDay))
	for day, value := range byDay {
		out = append(out, model.RawSeriesPoint{Slug: slug, Day: day, Value: value})
	}
	sortSeries(out)
	return out
}

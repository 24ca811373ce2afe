package normalize

import (
	"reflect"
	"testing"
	"time"

	"revscope/internal/llama"
	"revscope/internal/model"
)

var chainLabels = []string{"Hyperliquid L1", "Hyperliquid"}

func day(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func unix(value string) int64 {
	return day(value).Unix()
}

func TestTVLSeriesTopLevelOnly(t *testing.T) {
	doc := &llama.ProtocolDoc{
		TVL: []llama.SeriesPoint{
			{TS: unix("2025-03-01"), Value: 100},
			{TS: unix("2025-03-02"), Value: 110},
		},
	}

	got := TVLSeries(doc, "hypurrfi", chainLabels)
	want := []model.RawSeriesPoint{
		{Slug: "hypurrfi", Day: day("2025-03-01"), Value: 100},
		{Slug: "hypurrfi", Day: day("2025-03-02"), Value: 110},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("series mismatch: %+v != %+v", got, want)
	}
}

func TestTVLSeriesTopLevelWinsChainFillsGaps(t *testing.T) {
	doc := &llama.ProtocolDoc{
		TVL: []llama.SeriesPoint{
			{TS: unix("2025-03-01"), Value: 100},
		},
		ChainTVLs: map[string]llama.ChainTVLSeries{
			"Hyperliquid L1": {TVL: []llama.SeriesPoint{
				{TS: unix("2025-03-01"), Value: 90},
				{TS: unix("2025-03-02"), Value: 80},
			}},
		},
	}

	got := TVLSeries(doc, "hypurrfi", chainLabels)
	want := []model.RawSeriesPoint{
		{Slug: "hypurrfi", Day: day("2025-03-01"), Value: 100},
		{Slug: "hypurrfi", Day: day("2025-03-02"), Value: 80},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("series mismatch: %+v != %+v", got, want)
	}
}

func TestTVLSeriesAlternateChainLabel(t *testing.T) {
	doc := &llama.ProtocolDoc{
		ChainTVLs: map[string]llama.ChainTVLSeries{
			"Hyperliquid": {TVL: []llama.SeriesPoint{
				{TS: unix("2025-03-01"), Value: 42},
			}},
		},
	}

	got := TVLSeries(doc, "hypurrfi", chainLabels)
	if len(got) != 1 || got[0].Value != 42 {
		t.Fatalf("expected alternate-label series, got %+v", got)
	}
}

func TestTVLSeriesExactLabelBeforeAlternate(t *testing.T) {
	doc := &llama.ProtocolDoc{
		ChainTVLs: map[string]llama.ChainTVLSeries{
			"Hyperliquid L1": {TVL: []llama.SeriesPoint{{TS: unix("2025-03-01"), Value: 1}}},
			"Hyperliquid":    {TVL: []llama.SeriesPoint{{TS: unix("2025-03-01"), Value: 2}}},
		},
	}

	got := TVLSeries(doc, "hypurrfi", chainLabels)
	if len(got) != 1 || got[0].Value != 1 {
		t.Fatalf("expected exact label to win, got %+v", got)
	}
}

func TestTVLSeriesSubDayTruncation(t *testing.T) {
	doc := &llama.ProtocolDoc{
		TVL: []llama.SeriesPoint{
			{TS: unix("2025-03-01") + 3600, Value: 100},
			{TS: unix("2025-03-01") + 7200, Value: 105},
		},
	}

	got := TVLSeries(doc, "hypurrfi", chainLabels)
	if len(got) != 1 {
		t.Fatalf("expected one row per day, got %d", len(got))
	}
	if got[0].Value != 105 {
		t.Fatalf("last observation of the day should win, got %v", got[0].Value)
	}
}

func TestTVLSeriesNilDoc(t *testing.T) {
	if got := TVLSeries(nil, "hypurrfi", chainLabels); got != nil {
		t.Fatalf("expected nil series for nil doc, got %+v", got)
	}
}

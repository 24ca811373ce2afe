package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"revscope/internal/llama"
	"revscope/internal/model"
	"revscope/internal/registry"
)

func day(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

type fakeFetcher struct {
	protocols map[string]*llama.ProtocolDoc
	fees      map[string]*llama.FeesDoc
	failing   map[string]bool
}

func (f *fakeFetcher) Protocol(_ context.Context, slug string) (*llama.ProtocolDoc, error) {
	if f.failing[slug] {
		return nil, fmt.Errorf("upstream down")
	}
	return f.protocols[slug], nil
}

func (f *fakeFetcher) DailyRevenue(_ context.Context, slug string) (*llama.FeesDoc, error) {
	if f.failing[slug] {
		return nil, fmt.Errorf("upstream down")
	}
	return f.fees[slug], nil
}

func newPipeline(t *testing.T, fetcher Fetcher, entries []model.ProtocolEntry) *Pipeline {
	t.Helper()
	reg, err := registry.New(entries)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return New(Config{
		ChainLabels:         []string{"Hyperliquid L1", "Hyperliquid"},
		AllowDoubleCounting: true,
		Concurrency:         2,
	}, fetcher, reg, nil)
}

func flatChart(points map[string]float64) []llama.SeriesPoint {
	out := make([]llama.SeriesPoint, 0, len(points))
	for d, v := range points {
		out = append(out, llama.SeriesPoint{TS: day(d).Unix(), Value: v})
	}
	return out
}

func TestRunMergesRevenueIntoCanonicalSlug(t *testing.T) {
	fetcher := &fakeFetcher{
		protocols: map[string]*llama.ProtocolDoc{
			"a": {TVL: flatChart(map[string]float64{"2025-03-01": 100})},
		},
		fees: map[string]*llama.FeesDoc{
			"a": {TotalDataChart: flatChart(map[string]float64{"2025-03-01": 10})},
			"b": {TotalDataChart: flatChart(map[string]float64{"2025-03-01": 5})},
		},
	}

	pl := newPipeline(t, fetcher, []model.ProtocolEntry{
		{Slug: "a"},
		{Slug: "b", MergeInto: "a"},
	})

	rows, err := pl.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %+v", rows)
	}
	if rows[0].Slug != "a" || rows[0].Revenue != 15 {
		t.Fatalf("merged revenue mismatch: %+v", rows[0])
	}
	if rows[0].TVL == nil || *rows[0].TVL != 100 {
		t.Fatalf("tvl mismatch: %+v", rows[0])
	}
}

func TestRunFailedSlugDegradesWithoutAborting(t *testing.T) {
	fetcher := &fakeFetcher{
		protocols: map[string]*llama.ProtocolDoc{
			"a": {TVL: flatChart(map[string]float64{"2025-03-01": 100})},
		},
		fees: map[string]*llama.FeesDoc{
			"a": {TotalDataChart: flatChart(map[string]float64{"2025-03-01": 10})},
		},
		failing: map[string]bool{"broken": true},
	}

	pl := newPipeline(t, fetcher, []model.ProtocolEntry{
		{Slug: "a"},
		{Slug: "broken"},
	})

	rows, err := pl.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rows) != 1 || rows[0].Slug != "a" {
		t.Fatalf("healthy slug should survive: %+v", rows)
	}
}

func TestRunAllUpstreamsDownYieldsEmptyReport(t *testing.T) {
	fetcher := &fakeFetcher{failing: map[string]bool{"a": true, "b": true}}

	pl := newPipeline(t, fetcher, []model.ProtocolEntry{
		{Slug: "a"},
		{Slug: "b"},
	})

	rows, err := pl.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty report, got %+v", rows)
	}
}

func TestRunTVLWaterfallEndToEnd(t *testing.T) {
	var chainDoc llama.ProtocolDoc
	raw := fmt.Sprintf(`{
		"tvl": [[%d, 100]],
		"chainTvls": {"Hyperliquid L1": {"tvl": [[%d, 90], [%d, 80]]}}
	}`, day("2025-03-01").Unix(), day("2025-03-01").Unix(), day("2025-03-02").Unix())
	if err := json.Unmarshal([]byte(raw), &chainDoc); err != nil {
		t.Fatalf("build doc: %v", err)
	}

	fetcher := &fakeFetcher{
		protocols: map[string]*llama.ProtocolDoc{"a": &chainDoc},
		fees:      map[string]*llama.FeesDoc{},
	}

	pl := newPipeline(t, fetcher, []model.ProtocolEntry{{Slug: "a"}})

	rows, err := pl.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", rows)
	}
	if *rows[0].TVL != 100 {
		t.Fatalf("day1 should use top-level value: %+v", rows[0])
	}
	if *rows[1].TVL != 80 {
		t.Fatalf("day2 should fall back to chain series: %+v", rows[1])
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeFetcher{}
	pl := newPipeline(t, fetcher, []model.ProtocolEntry{{Slug: "a"}})

	if _, err := pl.Run(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestSnapshotUsesRegistryNames(t *testing.T) {
	fetcher := &fakeFetcher{
		protocols: map[string]*llama.ProtocolDoc{},
		fees: map[string]*llama.FeesDoc{
			"a": {TotalDataChart: flatChart(map[string]float64{"2025-03-01": 10, "2025-03-02": 20})},
		},
	}

	pl := newPipeline(t, fetcher, []model.ProtocolEntry{{Slug: "a", DisplayName: "Protocol A"}})

	rows, err := pl.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	snap := pl.Snapshot(rows)
	if len(snap) != 1 {
		t.Fatalf("expected one snapshot row, got %+v", snap)
	}
	if snap[0].DisplayName != "Protocol A" {
		t.Fatalf("display name mismatch: %q", snap[0].DisplayName)
	}
	if !snap[0].Day.Equal(day("2025-03-02")) || snap[0].CumulativeRevenue != 30 {
		t.Fatalf("snapshot row mismatch: %+v", snap[0])
	}
}

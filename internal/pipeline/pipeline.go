package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"revscope/internal/llama"
	"revscope/internal/metrics"
	"revscope/internal/model"
	"revscope/internal/normalize"
	"revscope/internal/registry"
)

// Fetcher is the upstream capability the pipeline calls per slug and metric.
type Fetcher interface {
	Protocol(ctx context.Context, slug string) (*llama.ProtocolDoc, error)
	DailyRevenue(ctx context.Context, slug string) (*llama.FeesDoc, error)
}

// Config controls one pipeline run.
type Config struct {
	ChainLabels         []string
	StartDate           time.Time
	AllowDoubleCounting bool
	Concurrency         int
}

// Pipeline recomputes the full windowed metrics table from upstream data.
// It owns no state between runs; re-running is always safe.
type Pipeline struct {
	cfg     Config
	fetcher Fetcher
	reg     *registry.Registry
	logger  *zap.Logger
}

func New(cfg Config, fetcher Fetcher, reg *registry.Registry, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Pipeline{cfg: cfg, fetcher: fetcher, reg: reg, logger: logger}
}

// Run fetches all slugs, normalizes the documents, and computes windowed
// metrics. A failed fetch degrades that slug/metric to an empty series and
// never aborts the batch; only cancellation stops a run early.
func (p *Pipeline) Run(ctx context.Context) ([]model.WindowedMetric, error) {
	tvlSlugs := p.reg.CanonicalSlugs()
	revSlugs := p.reg.Slugs()

	tvlDocs := make([]*llama.ProtocolDoc, len(tvlSlugs))
	feeDocs := make([]*llama.FeesDoc, len(revSlugs))

	pool := pond.NewPool(p.cfg.Concurrency)
	defer pool.StopAndWait()

	// Every task owns exactly one result slot, so the fan-out needs no
	// locking; Wait is the join barrier before normalization.
	group := pool.NewGroupContext(ctx)
	for i, slug := range tvlSlugs {
		i, slug := i, slug
		group.Submit(func() {
			doc, err := p.fetcher.Protocol(ctx, slug)
			if err != nil {
				p.logger.Warn("tvl fetch degraded to empty series", zap.String("slug", slug), zap.Error(err))
				return
			}
			tvlDocs[i] = doc
		})
	}
	for i, slug := range revSlugs {
		i, slug := i, slug
		group.Submit(func() {
			doc, err := p.fetcher.DailyRevenue(ctx, slug)
			if err != nil {
				p.logger.Warn("revenue fetch degraded to empty series", zap.String("slug", slug), zap.Error(err))
				return
			}
			feeDocs[i] = doc
		})
	}
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tvlSeries, revSeries []model.RawSeriesPoint
	for i, slug := range tvlSlugs {
		tvlSeries = append(tvlSeries, normalize.TVLSeries(tvlDocs[i], slug, p.cfg.ChainLabels)...)
	}
	for i, slug := range revSlugs {
		revSeries = append(revSeries, normalize.RevenueSeries(feeDocs[i], slug, p.cfg.ChainLabels, p.cfg.AllowDoubleCounting)...)
	}

	revSeries = normalize.MergeRevenue(revSeries, p.reg)
	daily := normalize.Join(tvlSeries, revSeries, p.cfg.StartDate)

	p.logger.Info("pipeline run complete",
		zap.Int("tvl_points", len(tvlSeries)),
		zap.Int("revenue_points", len(revSeries)),
		zap.Int("daily_rows", len(daily)),
	)

	return metrics.Compute(daily), nil
}

// Snapshot reduces a windowed series to its latest-row-per-slug table.
func (p *Pipeline) Snapshot(rows []model.WindowedMetric) []model.SnapshotRow {
	return metrics.Latest(rows, p.reg)
}

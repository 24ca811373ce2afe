package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"revscope/internal/model"
)

// Store provides Postgres persistence for report rows, for dashboards that
// read from a database instead of files. Rows are upserted so re-running the
// pipeline stays idempotent.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertWindowedMetrics inserts or updates the full windowed series.
func (s *Store) UpsertWindowedMetrics(ctx context.Context, rows []model.WindowedMetric) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`
			INSERT INTO protocol_window_metrics (
				slug, day, tvl_usd, revenue_usd,
				revenue_7d, revenue_30d, avg_tvl_7d, avg_tvl_30d,
				annualized_rev_to_tvl_7d, annualized_rev_to_tvl_30d,
				cumulative_revenue_usd, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,now(),now())
			ON CONFLICT (slug, day)
			DO UPDATE SET
				tvl_usd = EXCLUDED.tvl_usd,
				revenue_usd = EXCLUDED.revenue_usd,
				revenue_7d = EXCLUDED.revenue_7d,
				revenue_30d = EXCLUDED.revenue_30d,
				avg_tvl_7d = EXCLUDED.avg_tvl_7d,
				avg_tvl_30d = EXCLUDED.avg_tvl_30d,
				annualized_rev_to_tvl_7d = EXCLUDED.annualized_rev_to_tvl_7d,
				annualized_rev_to_tvl_30d = EXCLUDED.annualized_rev_to_tvl_30d,
				cumulative_revenue_usd = EXCLUDED.cumulative_revenue_usd,
				updated_at = now()
		`,
			row.Slug,
			row.Day,
			row.TVL,
			row.Revenue,
			row.Revenue7d,
			row.Revenue30d,
			row.AvgTVL7d,
			row.AvgTVL30d,
			row.AnnualizedRevToTVL7d,
			row.AnnualizedRevToTVL30d,
			row.CumulativeRevenue,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range rows {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertSnapshots inserts or updates the latest-per-protocol table.
func (s *Store) UpsertSnapshots(ctx context.Context, rows []model.SnapshotRow) error {
	if len(rows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`
			INSERT INTO protocol_snapshots (
				slug, display_name, day, tvl_usd,
				revenue_7d, revenue_30d, cumulative_revenue_usd,
				annualized_rev_to_tvl_7d, annualized_rev_to_tvl_30d,
				created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now(),now())
			ON CONFLICT (slug)
			DO UPDATE SET
				display_name = EXCLUDED.display_name,
				day = EXCLUDED.day,
				tvl_usd = EXCLUDED.tvl_usd,
				revenue_7d = EXCLUDED.revenue_7d,
				revenue_30d = EXCLUDED.revenue_30d,
				cumulative_revenue_usd = EXCLUDED.cumulative_revenue_usd,
				annualized_rev_to_tvl_7d = EXCLUDED.annualized_rev_to_tvl_7d,
				annualized_rev_to_tvl_30d = EXCLUDED.annualized_rev_to_tvl_30d,
				updated_at = now()
		`,
			row.Slug,
			row.DisplayName,
			row.Day,
			row.TVL,
			row.Revenue7d,
			row.Revenue30d,
			row.CumulativeRevenue,
			row.AnnualizedRevToTVL7d,
			row.AnnualizedRevToTVL30d,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range rows {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

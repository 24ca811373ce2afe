package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"revscope/internal/storage"
)

func main() {
	root := &cobra.Command{
		Use:          "revscope",
		Short:        "Protocol revenue/TVL report pipeline",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	reports := []struct {
		use    string
		short  string
		report storage.Report
	}{
		{"tvl", "Export the per-protocol TVL time series", storage.ReportTVL},
		{"revenue", "Export the revenue time series with cumulative totals", storage.ReportRevenue},
		{"ratios", "Export the capital-efficiency ratio time series", storage.ReportRatios},
		{"snapshot", "Export the latest-per-protocol snapshot table", storage.ReportSnapshot},
	}

	for _, entry := range reports {
		report := entry.report
		cmd := &cobra.Command{
			Use:   entry.use,
			Short: entry.short,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runReport(cmd, report)
			},
		}
		addReportFlags(cmd)
		root.AddCommand(cmd)
	}

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().String("base-url", "https://api.llama.fi", "DeFiLlama API base URL")
	cmd.Flags().String("start-date", "2025-02-01", "report cutoff date (YYYY-MM-DD, UTC)")
	cmd.Flags().String("chain-label", "Hyperliquid L1", "target chain label in upstream documents")
	cmd.Flags().String("chain-label-alt", "Hyperliquid", "alternate spelling of the chain label")
	cmd.Flags().Bool("allow-double-counting", true, "sum flat and breakdown revenue series even for overlapping days (legacy behavior)")
	cmd.Flags().Duration("timeout", 30*time.Second, "per-request timeout")
	cmd.Flags().Int("max-retries", 3, "maximum retry attempts per fetch")
	cmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	cmd.Flags().Int("concurrency", 4, "parallel fetch workers")
	cmd.Flags().String("out", "", "output path (defaults to ./data/<report>.<format>)")
	cmd.Flags().String("format", "csv", "output format (csv, jsonl)")
	cmd.Flags().String("pg-dsn", "", "optional Postgres DSN for dashboard persistence")
	cmd.Flags().String("debug-dir", "", "optional directory for raw upstream JSON dumps")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

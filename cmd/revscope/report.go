package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"revscope/internal/config"
	"revscope/internal/llama"
	"revscope/internal/model"
	"revscope/internal/pipeline"
	"revscope/internal/registry"
	"revscope/internal/storage"
	"revscope/internal/storage/postgres"
)

func runReport(cmd *cobra.Command, report storage.Report) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	startDate, err := config.ParseDate(cfg.StartDate)
	if err != nil {
		return err
	}

	reg, err := registry.New(cfg.Protocols)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := llama.NewClient(llama.ClientConfig{
		BaseURL:      cfg.BaseURL,
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		DebugDir:     cfg.DebugDir,
	}, logger)

	pl := pipeline.New(pipeline.Config{
		ChainLabels:         []string{cfg.ChainLabel, cfg.ChainLabelAlt},
		StartDate:           startDate,
		AllowDoubleCounting: cfg.AllowDoubleCounting,
		Concurrency:         cfg.Concurrency,
	}, client, reg, logger)

	logger.Info("report start",
		zap.String("report", string(report)),
		zap.String("base_url", cfg.BaseURL),
		zap.String("start_date", cfg.StartDate),
		zap.String("chain_label", cfg.ChainLabel),
		zap.Bool("allow_double_counting", cfg.AllowDoubleCounting),
		zap.Int("protocols", len(reg.Slugs())),
	)

	rows, err := pl.Run(ctx)
	if err != nil {
		return err
	}

	var header []string
	var records [][]string
	var snapshot []model.SnapshotRow
	if report == storage.ReportSnapshot {
		snapshot = pl.Snapshot(rows)
		header, records = storage.SnapshotTable(snapshot)
	} else {
		header, records, err = storage.SeriesTable(report, rows)
		if err != nil {
			return err
		}
	}

	outPath := cfg.Out
	if outPath == "" {
		outPath = filepath.Join("data", fmt.Sprintf("%s.%s", report, cfg.Format))
	}

	var sink storage.Sink
	switch cfg.Format {
	case "csv":
		sink = storage.NewCSVSink(outPath)
	case "jsonl":
		sink = storage.NewJSONLSink(outPath)
	default:
		return fmt.Errorf("unknown format %q", cfg.Format)
	}

	if err := sink.WriteTable(header, records); err != nil {
		return err
	}

	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()

		if report == storage.ReportSnapshot {
			err = store.UpsertSnapshots(ctx, snapshot)
		} else {
			err = store.UpsertWindowedMetrics(ctx, rows)
		}
		if err != nil {
			return fmt.Errorf("upsert metrics: %w", err)
		}
	}

	logger.Info("report complete",
		zap.String("report", string(report)),
		zap.String("out", outPath),
		zap.Int("rows", len(records)),
	)

	return nil
}

package main

import (
	"context"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tlweave2/AI-Job-Application-Agent/internal/executor"
	"github.com/tlweave2/AI-Job-Application-Agent/internal/form"
)

var (
	batchTracker string
	batchSheet   string
	batchLimit   int
	batchOffline bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Plan and dry-run every pending application in a tracker workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initFill(fillMode(batchOffline))
		if err != nil {
			return err
		}

		entries, err := form.ReadTracker(batchTracker, form.TrackerOptions{SheetName: batchSheet})
		if err != nil {
			return err
		}
		pending := form.Pending(entries)
		zap.L().Info("tracker loaded",
			zap.String("path", batchTracker),
			zap.Int("rows", len(entries)),
			zap.Int("pending", len(pending)),
		)

		return processBatch(ctx, pending, batchLimit, cfg.Batch.MaxConcurrentForms, func(ctx context.Context, row form.TrackerEntry) (*executor.FillReport, error) {
			return applyRow(ctx, env, row)
		})
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchTracker, "tracker", "", "job tracker XLSX workbook (required)")
	batchCmd.Flags().StringVar(&batchSheet, "sheet", "", "tracker sheet name (default first sheet)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 100, "max number of applications to process")
	batchCmd.Flags().BoolVar(&batchOffline, "offline", false, "use the deterministic stub model, no API key needed")
	_ = batchCmd.MarkFlagRequired("tracker")
	rootCmd.AddCommand(batchCmd)
}

// applyRowFunc runs one tracker row end to end.
type applyRowFunc func(ctx context.Context, row form.TrackerEntry) (*executor.FillReport, error)

// processBatch applies limit, then walks pending rows concurrently using the
// given apply function. A failed row never aborts the batch.
func processBatch(ctx context.Context, rows []form.TrackerEntry, limit, concurrency int, apply applyRowFunc) error {
	if len(rows) == 0 {
		zap.L().Info("no pending applications in tracker")
		return nil
	}

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	zap.L().Info("processing batch",
		zap.Int("applications", len(rows)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var planned, failed atomic.Int64

	for _, row := range rows {
		row := row
		g.Go(func() error {
			log := zap.L().With(
				zap.String("company", row.Company),
				zap.String("role", row.Role),
				zap.Int("row", row.Row),
			)

			report, err := apply(gctx, row)
			if err != nil {
				failed.Add(1)
				log.Error("application failed", zap.Error(err))
				return nil // don't abort the batch on an individual failure
			}

			planned.Add(1)
			log.Info("application planned",
				zap.Int("filled", report.Filled),
				zap.Int("failed_fields", report.Failed),
				zap.Int("manual_review", report.Review),
				zap.Bool("submitted", report.Submitted),
			)
			return nil
		})
	}
	_ = g.Wait()

	zap.L().Info("batch complete",
		zap.Int64("planned", planned.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}

// applyRow loads the row's form descriptor, plans it, and dry-runs the plan.
// Tracker metadata fills in whatever the descriptor leaves blank.
func applyRow(ctx context.Context, env *fillEnv, row form.TrackerEntry) (*executor.FillReport, error) {
	f, err := form.Load(row.FormPath)
	if err != nil {
		return nil, err
	}
	if f.Company == "" {
		f.Company = row.Company
	}
	if f.Role == "" {
		f.Role = row.Role
	}

	plan, err := env.newRunner().Run(ctx, f)
	if err != nil {
		return nil, err
	}

	return executor.ApplyPlan(ctx, executor.DryRun{}, plan, executor.Options{})
}

// This file contains the batch sweep command.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"order-sweeper/internal/core/logger"
	auditservice "order-sweeper/internal/features/audit/service"
	lookupdomain "order-sweeper/internal/features/lookup/domain"
	statusservice "order-sweeper/internal/features/status/service"
	sweepdomain "order-sweeper/internal/features/sweep/domain"
	sweepports "order-sweeper/internal/features/sweep/ports"
	sweepservice "order-sweeper/internal/features/sweep/service"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run a checkpointed batch sweep across the configured orders",
	Long: `Sweep submits the tracking form for every (order, customer) combination
until each order is matched or exhausted. Progress is checkpointed after
every order, so an interrupted run resumes where it stopped.`,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	l := logger.Get()

	orders, customers, err := loadInputs()
	if err != nil {
		return err
	}
	l.Info("Batch assembled",
		zap.Int("orders", len(orders)),
		zap.Int("customers", len(customers)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	submitter, err := newSubmitter(ctx, l)
	if err != nil {
		return err
	}
	defer submitter.Close()

	var recorder sweepports.AttemptRecorder
	if cfg.Audit.Enabled {
		recorder = auditservice.NewDumpWriter(cfg.Audit.Dir, l)
	}

	progressStore, closeStore := newProgressStore(ctx, l)
	defer closeStore()

	sweeper := sweepservice.NewSweeper(submitter, lookupdomain.NewExtractor(), recorder, l)
	runner := sweepservice.NewBatchRunner(sweeper, progressStore,
		newResultSink(cfg.Batch.ResultsFile), cfg.Batch.DelayDuration(), l)

	results, err := runner.Run(ctx, orders, customers)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if err != nil {
		l.Warn("Sweep interrupted, run again to resume")
	}

	printSummary(results)
	return nil
}

// printSummary renders the end-of-run tables.
func printSummary(results []sweepdomain.OrderResult) {
	summary := statusservice.Summarize(results)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Orders", "Found", "Not Found", "Attempts"})
	t.AppendRow(table.Row{summary.Total, summary.Found, summary.NotFound, summary.Attempts})
	t.SetStyle(table.StyleRounded)
	t.Render()

	if summary.Found == 0 {
		return
	}

	found := table.NewWriter()
	found.SetOutputMirror(os.Stdout)
	found.AppendHeader(table.Row{"Order", "Customer", "Status", "Delivery", "Total AED"})
	for _, result := range results {
		if result.Status != sweepdomain.SweepStatusFound {
			continue
		}
		found.AppendRow(table.Row{
			result.OrderNumber,
			result.MatchedCustomer,
			result.OrderStatus,
			result.DeliveryDate,
			result.TotalAmount,
		})
	}
	found.SetStyle(table.StyleRounded)
	found.Render()
}

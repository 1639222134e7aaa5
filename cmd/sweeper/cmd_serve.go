// This file contains the status server command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"order-sweeper/internal/core/logger"
	"order-sweeper/internal/core/server"
	statushandler "order-sweeper/internal/features/status/handler"
	statusservice "order-sweeper/internal/features/status/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only status API over the current batch",
	Long: `Serve exposes the batch checkpoint and results over HTTP:
GET /healthz, /progress, /results and /summary. The server only reads the
checkpoint and export files; it never writes.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progressStore, closeStore := newProgressStore(ctx, l)
	defer closeStore()

	statusSvc := statusservice.NewStatusService(progressStore, newResultsReader(cfg.Batch.ResultsFile))
	statusHdl := statushandler.NewStatusHandler(statusSvc)

	srv := server.New(cfg)
	srv.App.Get("/healthz", statusHdl.Healthz)
	srv.App.Get("/progress", statusHdl.GetProgress)
	srv.App.Get("/results", statusHdl.GetResults)
	srv.App.Get("/summary", statusHdl.GetSummary)

	l.Info("Status server starting", zap.Int("port", cfg.Server.Port))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		l.Info("Shutting down status server")
		return srv.Shutdown()
	}
}

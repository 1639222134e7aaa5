// This file assembles adapters from configuration for the subcommands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"order-sweeper/internal/core/proxy"
	"order-sweeper/internal/core/store"
	lookupadapters "order-sweeper/internal/features/lookup/adapters"
	statusports "order-sweeper/internal/features/status/ports"
	sweepadapters "order-sweeper/internal/features/sweep/adapters"
	sweepdomain "order-sweeper/internal/features/sweep/domain"
	sweepports "order-sweeper/internal/features/sweep/ports"
)

// newSubmitter builds and boots the browser-backed form submitter. This is
// the only fatal failure path of a run: without a browser session nothing
// can proceed.
func newSubmitter(ctx context.Context, log *zap.Logger) (*lookupadapters.DuShopSubmitter, error) {
	width, height, err := cfg.Browser.Dimensions()
	if err != nil {
		return nil, fmt.Errorf("invalid browser window size: %w", err)
	}

	opts := lookupadapters.Options{
		TrackingURL:   cfg.Site.TrackingURL,
		Headless:      cfg.Browser.Headless,
		WindowWidth:   width,
		WindowHeight:  height,
		WaitTimeout:   cfg.Browser.WaitDuration(),
		Proxy:         proxySettings(),
		ScreenshotDir: cfg.Audit.Dir,
		Screenshots:   cfg.Audit.Enabled && cfg.Audit.Screenshots,
		SaveHTML:      cfg.Audit.Enabled && cfg.Audit.SaveHTML,
	}

	submitter := lookupadapters.NewDuShopSubmitter(opts, log)
	if err := submitter.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}
	return submitter, nil
}

func proxySettings() proxy.Settings {
	return proxy.Settings{
		Enabled:  cfg.Proxy.Enabled,
		Hostname: cfg.Proxy.Hostname,
		Port:     cfg.Proxy.Port,
		Username: cfg.Proxy.Username,
		Password: cfg.Proxy.Password,
	}
}

// newProgressStore selects Redis when enabled and reachable, the local
// progress file otherwise. Checkpointing is never worth aborting a run over.
func newProgressStore(ctx context.Context, log *zap.Logger) (sweepports.ProgressStore, func()) {
	if cfg.Redis.Enabled {
		kv, err := store.NewRedisAdapter(cfg.Redis.URL)
		if err == nil {
			if err = kv.Ping(ctx); err != nil {
				_ = kv.Close()
			}
		}
		if err != nil {
			log.Warn("Redis unavailable, falling back to the progress file", zap.Error(err))
		} else {
			return sweepadapters.NewRedisProgressStore(kv, cfg.Redis.Key, log), func() { _ = kv.Close() }
		}
	}
	return sweepadapters.NewFileProgressStore(cfg.Batch.ProgressFile, log), func() {}
}

// newResultSink selects the workbook sink for .xlsx paths, CSV otherwise.
func newResultSink(path string) sweepports.ResultSink {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return sweepadapters.NewXLSXSink(path)
	}
	return sweepadapters.NewCSVSink(path)
}

// newResultsReader mirrors newResultSink for the read side.
func newResultsReader(path string) statusports.ResultsReader {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return sweepadapters.NewXLSXSink(path)
	}
	return sweepadapters.NewCSVSink(path)
}

// loadInputs assembles the order and customer sequences: explicit input files
// when configured, otherwise the configured order range and the single
// configured mobile number.
func loadInputs() ([]string, []string, error) {
	var orders []string
	if cfg.Batch.OrdersFile != "" {
		data, err := os.ReadFile(cfg.Batch.OrdersFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read orders file: %w", err)
		}
		orders = sweepdomain.ParseLines(data)
	} else {
		orders = sweepdomain.ExpandOrderRange(cfg.Batch.OrderPrefix, cfg.Batch.OrderStart, cfg.Batch.OrderEnd)
	}

	var customers []string
	if cfg.Batch.CustomersFile != "" {
		data, err := os.ReadFile(cfg.Batch.CustomersFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read customers file: %w", err)
		}
		customers = sweepdomain.ParseLines(data)
	} else if cfg.OrderDetails.MobileNumber != "" {
		customers = []string{cfg.OrderDetails.MobileNumber}
	}

	if len(orders) == 0 {
		return nil, nil, errors.New("no order numbers configured")
	}
	if len(customers) == 0 {
		return nil, nil, errors.New("no customer identifiers configured")
	}
	return orders, customers, nil
}

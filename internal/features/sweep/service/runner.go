package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"order-sweeper/internal/features/sweep/domain"
	"order-sweeper/internal/features/sweep/ports"
)

// BatchRunner processes an ordered sequence of orders against a shared
// customer identifier sequence, checkpointing after every order so an
// interrupted run resumes where it stopped.
type BatchRunner struct {
	sweeper ports.OrderSweeper
	store   ports.ProgressStore
	sink    ports.ResultSink
	delay   time.Duration
	logger  *zap.Logger
}

// NewBatchRunner creates a BatchRunner. The delay is applied between
// consecutive orders to avoid hammering the storefront.
func NewBatchRunner(sweeper ports.OrderSweeper, store ports.ProgressStore, sink ports.ResultSink, delay time.Duration, log *zap.Logger) *BatchRunner {
	if log == nil {
		log = zap.NewNop()
	}
	return &BatchRunner{
		sweeper: sweeper,
		store:   store,
		sink:    sink,
		delay:   delay,
		logger:  log,
	}
}

// Run sweeps every order in sequence. It returns the accumulated results,
// including those restored from a checkpoint; the error is non-nil only when
// the context was cancelled, in which case the checkpoint on disk already
// reflects all completed work.
func (r *BatchRunner) Run(ctx context.Context, orders []string, customers []string) ([]domain.OrderResult, error) {
	var results []domain.OrderResult
	completed := make(map[string]bool)
	var completedOrders []string
	startIndex := 0

	progress, err := r.store.Load(ctx)
	if err != nil {
		r.logger.Warn("Failed to load checkpoint, starting fresh", zap.Error(err))
	} else if progress != nil {
		results = progress.Results
		completed = progress.CompletedSet()
		completedOrders = progress.CompletedOrders
		startIndex = progress.LastProcessedIndex
		if startIndex < 0 {
			startIndex = 0
		}
		if startIndex > len(orders) {
			startIndex = len(orders)
		}
		r.logger.Info("Resuming from checkpoint",
			zap.Int("last_processed_index", startIndex),
			zap.Int("completed_orders", len(completedOrders)))
	}

	for i := startIndex; i < len(orders); i++ {
		orderNumber := orders[i]
		if completed[orderNumber] {
			continue
		}
		if err := ctx.Err(); err != nil {
			r.logger.Warn("Batch interrupted, checkpoint preserved",
				zap.Int("completed_orders", len(completedOrders)))
			return results, err
		}

		r.logger.Info("Processing order",
			zap.String("order_number", orderNumber),
			zap.Int("position", i+1),
			zap.Int("total", len(orders)))

		result, err := r.sweeper.Sweep(ctx, orderNumber, customers)
		if err != nil {
			if ctx.Err() != nil {
				r.logger.Warn("Batch interrupted mid-order, order left for the next run",
					zap.String("order_number", orderNumber))
				return results, ctx.Err()
			}
			// The order stays out of the completed set so a later run retries it.
			r.logger.Error("Order processing failed, skipping",
				zap.String("order_number", orderNumber),
				zap.Error(err))
		} else {
			results = append(results, *result)
			completed[orderNumber] = true
			completedOrders = append(completedOrders, orderNumber)
			r.checkpoint(ctx, completedOrders, results, i)
		}

		if i < len(orders)-1 {
			if err := sleepCtx(ctx, r.delay); err != nil {
				r.logger.Warn("Batch interrupted, checkpoint preserved",
					zap.Int("completed_orders", len(completedOrders)))
				return results, err
			}
		}
	}

	if err := r.sink.WriteSnapshot(results); err != nil {
		r.logger.Error("Failed to write final results", zap.Error(err))
	}
	if err := r.store.Clear(ctx); err != nil {
		r.logger.Warn("Failed to clear checkpoint", zap.Error(err))
	}
	r.logger.Info("Batch completed", zap.Int("orders_processed", len(results)))
	return results, nil
}

// checkpoint persists progress and rewrites the results export. Failures are
// logged and absorbed: losing a checkpoint write costs at most a repeat of
// the current order on resume.
func (r *BatchRunner) checkpoint(ctx context.Context, completedOrders []string, results []domain.OrderResult, index int) {
	progress := &domain.Progress{
		CompletedOrders:    completedOrders,
		Results:            results,
		LastProcessedIndex: index,
		Timestamp:          time.Now().Format(time.RFC3339),
	}
	if err := r.store.Save(ctx, progress); err != nil {
		r.logger.Error("Failed to save checkpoint", zap.Error(err))
	}
	if err := r.sink.WriteSnapshot(results); err != nil {
		r.logger.Error("Failed to write results snapshot", zap.Error(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

package service

import (
	"context"
	"fmt"

	"order-sweeper/internal/features/status/domain"
	"order-sweeper/internal/features/status/ports"
	sweepdomain "order-sweeper/internal/features/sweep/domain"
	sweepports "order-sweeper/internal/features/sweep/ports"
)

// StatusService serves read-only views over a batch's checkpoint and its
// exported results. It never writes.
type StatusService struct {
	store  sweepports.ProgressStore
	reader ports.ResultsReader
}

// NewStatusService creates a StatusService over the given checkpoint store
// and results reader.
func NewStatusService(store sweepports.ProgressStore, reader ports.ResultsReader) *StatusService {
	return &StatusService{
		store:  store,
		reader: reader,
	}
}

// Progress returns the live checkpoint, or nil when no batch is in progress.
func (s *StatusService) Progress(ctx context.Context) (*sweepdomain.Progress, error) {
	progress, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load progress: %w", err)
	}
	return progress, nil
}

// Results returns the accumulated results: the live checkpoint's when a batch
// is running, otherwise whatever the last export holds.
func (s *StatusService) Results(ctx context.Context) ([]sweepdomain.OrderResult, error) {
	progress, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load progress: %w", err)
	}
	if progress != nil {
		return progress.Results, nil
	}

	results, err := s.reader.Read()
	if err != nil {
		return nil, fmt.Errorf("service: failed to read results: %w", err)
	}
	return results, nil
}

// Summary aggregates the current results into headline counts.
func (s *StatusService) Summary(ctx context.Context) (*domain.Summary, error) {
	results, err := s.Results(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(results), nil
}

// Summarize computes headline counts over a result set.
func Summarize(results []sweepdomain.OrderResult) *domain.Summary {
	summary := &domain.Summary{Total: len(results)}
	for _, result := range results {
		if result.Status == sweepdomain.SweepStatusFound {
			summary.Found++
		} else {
			summary.NotFound++
		}
		summary.Attempts += result.Attempts
	}
	return summary
}

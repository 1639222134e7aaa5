package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	lookupdomain "order-sweeper/internal/features/lookup/domain"
	"order-sweeper/internal/features/sweep/domain"
)

const deliveredPage = "Order Status: Delivered\n" +
	"Your Home Wireless package is on its way\n" +
	"Delivery Date: Feb 01, 2025\n" +
	"Total: AED 250.50"

// mockSubmitter scripts form outcomes per (order, customer) pair.
type mockSubmitter struct {
	matches map[string]string // order number -> matching customer
	rawText string
	errOn   map[string]error // "order|customer" -> submission error
	calls   []string
}

// Submit implements lookup ports.FormSubmitter.
func (m *mockSubmitter) Submit(_ context.Context, orderNumber, customerNumber string) (*lookupdomain.Capture, error) {
	key := orderNumber + "|" + customerNumber
	m.calls = append(m.calls, key)
	if err, ok := m.errOn[key]; ok {
		return nil, err
	}
	if m.matches[orderNumber] == customerNumber {
		return &lookupdomain.Capture{Outcome: lookupdomain.OutcomeResults, RawText: m.rawText}, nil
	}
	return &lookupdomain.Capture{Outcome: lookupdomain.OutcomeMismatch}, nil
}

// mockRecorder counts archived captures.
type mockRecorder struct {
	records int
}

// Record implements ports.AttemptRecorder.
func (m *mockRecorder) Record(orderNumber, customerNumber string, capture *lookupdomain.Capture) {
	m.records++
}

var testCustomers = []string{"3161", "3162", "3163", "3164", "3165"}

// TestSweeper_Sweep_FirstMatchWins verifies the sweep stops at the first
// recognized results page.
func TestSweeper_Sweep_FirstMatchWins(t *testing.T) {
	submitter := &mockSubmitter{
		matches: map[string]string{"CM0002153200": "3163"},
		rawText: deliveredPage,
	}
	sweeper := NewSweeper(submitter, nil, nil, zaptest.NewLogger(t))

	result, err := sweeper.Sweep(context.Background(), "CM0002153200", testCustomers)

	require.NoError(t, err)
	assert.Equal(t, domain.SweepStatusFound, result.Status)
	assert.Equal(t, "3163", result.MatchedCustomer)
	assert.Equal(t, "Delivered", result.OrderStatus)
	assert.Equal(t, "Feb 01, 2025", result.DeliveryDate)
	assert.Equal(t, "250.50", result.TotalAmount)
	assert.Equal(t, []string{"Home Wireless Plus"}, result.Items)
	assert.Equal(t, 3, result.Attempts)
	// Identifiers after the match are never tried.
	assert.Len(t, submitter.calls, 3)
	assert.NotContains(t, submitter.calls, "CM0002153200|3164")
}

// TestSweeper_Sweep_Exhausted verifies a clean not-found outcome after every
// identifier mismatches.
func TestSweeper_Sweep_Exhausted(t *testing.T) {
	submitter := &mockSubmitter{rawText: deliveredPage}
	sweeper := NewSweeper(submitter, nil, nil, zaptest.NewLogger(t))

	result, err := sweeper.Sweep(context.Background(), "CM0002159999", testCustomers)

	require.NoError(t, err)
	assert.Equal(t, domain.SweepStatusNotFound, result.Status)
	assert.Empty(t, result.MatchedCustomer)
	assert.Empty(t, result.Error)
	assert.Equal(t, 5, result.Attempts)
	assert.Len(t, submitter.calls, 5)
}

// TestSweeper_Sweep_LastErrorSurvives verifies failed attempts count and the
// most recent failure message is the one retained.
func TestSweeper_Sweep_LastErrorSurvives(t *testing.T) {
	submitter := &mockSubmitter{
		errOn: map[string]error{
			"CM0002153200|3161": errors.New("field not found: order input"),
			"CM0002153200|3164": errors.New("navigation timed out"),
		},
	}
	sweeper := NewSweeper(submitter, nil, nil, zaptest.NewLogger(t))

	result, err := sweeper.Sweep(context.Background(), "CM0002153200", testCustomers)

	require.NoError(t, err)
	assert.Equal(t, domain.SweepStatusNotFound, result.Status)
	assert.Equal(t, "navigation timed out", result.Error)
	assert.Equal(t, 5, result.Attempts)
}

// TestSweeper_Sweep_ErrorThenMatch verifies a failure on an early identifier
// does not stop a later identifier from matching.
func TestSweeper_Sweep_ErrorThenMatch(t *testing.T) {
	submitter := &mockSubmitter{
		matches: map[string]string{"CM0002153200": "3162"},
		rawText: deliveredPage,
		errOn: map[string]error{
			"CM0002153200|3161": errors.New("stale element"),
		},
	}
	sweeper := NewSweeper(submitter, nil, nil, zaptest.NewLogger(t))

	result, err := sweeper.Sweep(context.Background(), "CM0002153200", testCustomers)

	require.NoError(t, err)
	assert.Equal(t, domain.SweepStatusFound, result.Status)
	assert.Equal(t, "3162", result.MatchedCustomer)
	assert.Equal(t, "stale element", result.Error)
	assert.Equal(t, 2, result.Attempts)
}

// TestSweeper_Sweep_UnrecognizedResultsPage verifies a results page without a
// recognizable status is treated as a non-match.
func TestSweeper_Sweep_UnrecognizedResultsPage(t *testing.T) {
	submitter := &mockSubmitter{
		matches: map[string]string{"CM0002153200": "3161"},
		rawText: "Loading your order details...",
	}
	sweeper := NewSweeper(submitter, nil, nil, zaptest.NewLogger(t))

	result, err := sweeper.Sweep(context.Background(), "CM0002153200", testCustomers)

	require.NoError(t, err)
	assert.Equal(t, domain.SweepStatusNotFound, result.Status)
	assert.Equal(t, 5, result.Attempts)
}

// TestSweeper_Sweep_Cancelled verifies cancellation aborts the sweep without
// producing a result.
func TestSweeper_Sweep_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sweeper := NewSweeper(&mockSubmitter{}, nil, nil, zaptest.NewLogger(t))
	result, err := sweeper.Sweep(ctx, "CM0002153200", testCustomers)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestSweeper_Sweep_RecordsResultsCaptures verifies only results pages reach
// the attempt recorder.
func TestSweeper_Sweep_RecordsResultsCaptures(t *testing.T) {
	submitter := &mockSubmitter{
		matches: map[string]string{"CM0002153200": "3163"},
		rawText: deliveredPage,
	}
	recorder := &mockRecorder{}
	sweeper := NewSweeper(submitter, nil, recorder, zaptest.NewLogger(t))

	_, err := sweeper.Sweep(context.Background(), "CM0002153200", testCustomers)

	require.NoError(t, err)
	assert.Equal(t, 1, recorder.records)
}

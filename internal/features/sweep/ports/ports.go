package ports

import (
	"context"

	lookupdomain "order-sweeper/internal/features/lookup/domain"
	"order-sweeper/internal/features/sweep/domain"
)

// OrderSweeper defines the primary port for resolving a single order
// against the customer identifier sequence.
type OrderSweeper interface {
	Sweep(ctx context.Context, orderNumber string, customers []string) (*domain.OrderResult, error)
}

// ProgressStore defines the secondary port for checkpoint persistence.
// A nil Progress with a nil error means no usable checkpoint exists and the
// batch starts fresh; errors signal a backend failure the caller may absorb
// the same way.
type ProgressStore interface {
	Load(ctx context.Context) (*domain.Progress, error)
	Save(ctx context.Context, progress *domain.Progress) error
	Clear(ctx context.Context) error
}

// ResultSink defines the secondary port for result exports. WriteSnapshot
// receives the full accumulated result set and replaces the previous export
// so the output is complete and readable after every order.
type ResultSink interface {
	WriteSnapshot(results []domain.OrderResult) error
}

// AttemptRecorder defines the secondary port for archiving raw results-page
// captures for offline review. Implementations log and swallow their own
// failures; recording never disturbs a sweep.
type AttemptRecorder interface {
	Record(orderNumber, customerNumber string, capture *lookupdomain.Capture)
}

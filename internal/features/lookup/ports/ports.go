package ports

import (
	"context"

	"order-sweeper/internal/features/lookup/domain"
)

// FormSubmitter drives the storefront tracking form for one
// (order number, customer identifier) pair and classifies the outcome.
// This is a Secondary Port (Driven Port).
type FormSubmitter interface {
	// Submit fills and submits the tracking form. It returns a Capture
	// classifying the attempt as a mismatch or a results page, or an error
	// when a required element is missing (wraps domain.ErrFieldNotFound) or
	// an unexpected condition occurs. Errors are fatal for the attempt only;
	// callers advance to the next customer identifier.
	Submit(ctx context.Context, orderNumber, customerNumber string) (*domain.Capture, error)
}

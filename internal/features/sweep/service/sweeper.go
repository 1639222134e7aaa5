package service

import (
	"context"

	"go.uber.org/zap"

	lookupdomain "order-sweeper/internal/features/lookup/domain"
	lookupports "order-sweeper/internal/features/lookup/ports"
	"order-sweeper/internal/features/sweep/domain"
	"order-sweeper/internal/features/sweep/ports"
)

// Sweeper resolves one order number by submitting the tracking form with
// each customer identifier in turn until a results page is recognized or
// the sequence is exhausted.
type Sweeper struct {
	submitter lookupports.FormSubmitter
	extractor *lookupdomain.Extractor
	recorder  ports.AttemptRecorder
	logger    *zap.Logger
}

// NewSweeper creates a Sweeper. The recorder is optional; a nil logger
// disables logging.
func NewSweeper(submitter lookupports.FormSubmitter, extractor *lookupdomain.Extractor, recorder ports.AttemptRecorder, log *zap.Logger) *Sweeper {
	if extractor == nil {
		extractor = lookupdomain.NewExtractor()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{
		submitter: submitter,
		extractor: extractor,
		recorder:  recorder,
		logger:    log,
	}
}

// Sweep tries every customer identifier against the order, first match wins.
// The returned result is always usable; an error is returned only when the
// context is cancelled mid-sweep.
func (s *Sweeper) Sweep(ctx context.Context, orderNumber string, customers []string) (*domain.OrderResult, error) {
	result := domain.NewOrderResult(orderNumber)

	for _, customer := range customers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result.Attempts++
		s.logger.Debug("Submitting tracking form",
			zap.String("order_number", orderNumber),
			zap.String("customer_number", customer),
			zap.Int("attempt", result.Attempts))

		capture, err := s.submitter.Submit(ctx, orderNumber, customer)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			result.Error = err.Error()
			s.logger.Warn("Submission attempt failed",
				zap.String("order_number", orderNumber),
				zap.String("customer_number", customer),
				zap.Error(err))
			continue
		}

		if capture.Outcome == lookupdomain.OutcomeMismatch {
			s.logger.Debug("Identifier pair rejected by the form",
				zap.String("order_number", orderNumber),
				zap.String("customer_number", customer))
			continue
		}

		if s.recorder != nil {
			s.recorder.Record(orderNumber, customer, capture)
		}

		fields := s.extractor.Extract(capture.RawText)
		if !fields.Recognized {
			s.logger.Debug("Results page carried no recognizable status",
				zap.String("order_number", orderNumber),
				zap.String("customer_number", customer))
			continue
		}

		result.Status = domain.SweepStatusFound
		result.MatchedCustomer = customer
		result.OrderStatus = string(fields.Status)
		result.DeliveryDate = fields.DeliveryDate
		result.TotalAmount = fields.TotalAmount
		result.Items = fields.Items
		s.logger.Info("Order matched",
			zap.String("order_number", orderNumber),
			zap.String("customer_number", customer),
			zap.String("order_status", result.OrderStatus),
			zap.Int("attempts", result.Attempts))
		return result, nil
	}

	s.logger.Info("Order not found",
		zap.String("order_number", orderNumber),
		zap.Int("attempts", result.Attempts))
	return result, nil
}

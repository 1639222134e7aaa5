package ports

import (
	sweepdomain "order-sweeper/internal/features/sweep/domain"
)

// ResultsReader defines the secondary port for reading the exported results
// snapshot back off disk when no checkpoint is live.
type ResultsReader interface {
	Read() ([]sweepdomain.OrderResult, error)
}

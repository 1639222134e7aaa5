package domain

import (
	"time"
)

// SweepStatus represents the terminal disposition of one order after a sweep.
type SweepStatus string

const (
	// SweepStatusFound indicates a customer identifier matched the order.
	SweepStatusFound SweepStatus = "found"
	// SweepStatusNotFound indicates every customer identifier was exhausted without a match.
	SweepStatusNotFound SweepStatus = "not_found"
)

// OrderResult records the outcome of sweeping one order number across the
// customer identifier sequence.
type OrderResult struct {
	// OrderNumber is the order identifier that was swept.
	OrderNumber string `json:"order_number"`
	// Status is the terminal disposition of the sweep (found or not_found).
	Status SweepStatus `json:"status"`
	// MatchedCustomer is the customer identifier that produced the match, empty when not found.
	MatchedCustomer string `json:"matched_customer,omitempty"`
	// OrderStatus is the fulfillment state read off the results page (e.g. Delivered).
	OrderStatus string `json:"order_status,omitempty"`
	// DeliveryDate is the delivery date text read off the results page.
	DeliveryDate string `json:"delivery_date,omitempty"`
	// TotalAmount is the order total in AED, without the currency prefix.
	TotalAmount string `json:"total_amount,omitempty"`
	// Items lists the recognized catalog items on the order.
	Items []string `json:"items"`
	// Attempts is the number of form submissions performed for this order.
	Attempts int `json:"attempts"`
	// Error is the message of the last submission failure, empty when all attempts were clean.
	Error string `json:"error,omitempty"`
	// Timestamp marks when the sweep of this order started, in RFC 3339.
	Timestamp string `json:"timestamp"`
}

// NewOrderResult creates an OrderResult for an order about to be swept.
// The result starts as not_found and is promoted on the first match.
func NewOrderResult(orderNumber string) *OrderResult {
	return &OrderResult{
		OrderNumber: orderNumber,
		Status:      SweepStatusNotFound,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

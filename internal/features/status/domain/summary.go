package domain

// Summary aggregates a batch's results for the status endpoints.
type Summary struct {
	// Total is the number of orders with a recorded outcome.
	Total int `json:"total"`
	// Found counts orders matched to a customer identifier.
	Found int `json:"found"`
	// NotFound counts orders that exhausted every identifier.
	NotFound int `json:"not_found"`
	// Attempts is the total number of form submissions performed.
	Attempts int `json:"attempts"`
}

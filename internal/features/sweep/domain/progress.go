package domain

// Progress is the checkpoint persisted after every processed order so an
// interrupted batch can resume without repeating work.
type Progress struct {
	// CompletedOrders lists the order numbers already swept, in completion order.
	CompletedOrders []string `json:"completed_orders"`
	// Results accumulates the outcome of every completed order.
	Results []OrderResult `json:"results"`
	// LastProcessedIndex is the position in the order sequence of the most
	// recently completed order. A resumed run restarts at this index; the
	// completed set makes revisiting it a no-op.
	LastProcessedIndex int `json:"last_processed_index"`
	// Timestamp marks when the checkpoint was written, in RFC 3339.
	Timestamp string `json:"timestamp"`
}

// CompletedSet returns the completed order numbers as a membership set.
func (p *Progress) CompletedSet() map[string]bool {
	set := make(map[string]bool, len(p.CompletedOrders))
	for _, orderNumber := range p.CompletedOrders {
		set[orderNumber] = true
	}
	return set
}

package domain

import "errors"

// ErrFieldNotFound is returned when a required form element cannot be
// located within the wait timeout. It is fatal for the attempt only; the
// caller advances to the next customer identifier.
var ErrFieldNotFound = errors.New("required form element not found")

// Outcome classifies a single form submission.
type Outcome string

const (
	// OutcomeMismatch means the page reported the (order, customer) pair as invalid.
	OutcomeMismatch Outcome = "mismatch"
	// OutcomeResults means a results area with extractable text is present.
	OutcomeResults Outcome = "results"
)

// Capture is the product of one form submission attempt.
type Capture struct {
	// Outcome classifies the attempt.
	Outcome Outcome
	// RawText is the harvested results-area text. Only set for OutcomeResults.
	RawText string
	// PageTitle is the document title after submission.
	PageTitle string
	// PageURL is the address after submission (the site may redirect).
	PageURL string
	// HTML is the full page source, captured only when auditing asks for it.
	HTML string
	// Screenshot is the saved screenshot path, when capture is enabled.
	Screenshot string
}

package domain

// Dump is one archived capture of a storefront tracking attempt, written as
// a standalone JSON file so a batch can be reviewed or re-extracted offline.
type Dump struct {
	// OrderNumber is the order identifier submitted to the form.
	OrderNumber string `json:"order_number"`
	// CustomerNumber is the customer identifier submitted alongside it.
	CustomerNumber string `json:"customer_number"`
	// Outcome classifies the attempt (mismatch or results).
	Outcome string `json:"outcome"`
	// RawText is the visible text harvested from the results page.
	RawText string `json:"raw_text,omitempty"`
	// PageTitle is the document title at capture time.
	PageTitle string `json:"page_title,omitempty"`
	// CurrentURL is the page address at capture time.
	CurrentURL string `json:"current_url,omitempty"`
	// HTML is the full page markup, present only when HTML capture is enabled.
	HTML string `json:"html,omitempty"`
	// Screenshot is the path of the PNG taken for this attempt, if any.
	Screenshot string `json:"screenshot,omitempty"`
	// Timestamp marks when the dump was written, in RFC 3339.
	Timestamp string `json:"timestamp"`
}

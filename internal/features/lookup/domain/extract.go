package domain

import (
	"regexp"
	"strings"
)

// OrderStatus is the recognized state of a found order.
type OrderStatus string

const (
	StatusDelivered   OrderStatus = "Delivered"
	StatusInProgress  OrderStatus = "In Progress"
	StatusReadyToShip OrderStatus = "Ready to Ship"
	StatusUnknown     OrderStatus = "Unknown"
)

// StatusRule maps a lower-case needle to an order status. Rules are ordered;
// the first matching rule wins.
type StatusRule struct {
	// Needle is the lower-case substring to look for.
	Needle string
	// Status is the status reported when the needle is present.
	Status OrderStatus
}

// ItemRule maps a lower-case needle to a canonical product name.
type ItemRule struct {
	// Needle is the lower-case substring to look for.
	Needle string
	// Item is the canonical product name recorded when the needle is present.
	Item string
}

// statusLabel marks a results page as a recognized order-status page even
// when no status keyword matches; such pages extract as StatusUnknown.
const statusLabel = "order status"

var (
	dateRe        = regexp.MustCompile(`[A-Za-z]{3}\s+\d{1,2},\s+\d{4}`)
	amountRe      = regexp.MustCompile(`AED\s+([\d,]+\.?\d*)`)
	orderNumberRe = regexp.MustCompile(`CM\d+`)
)

// DefaultStatusRules returns the stock status vocabulary, most specific first.
func DefaultStatusRules() []StatusRule {
	return []StatusRule{
		{Needle: "delivered", Status: StatusDelivered},
		{Needle: "in progress", Status: StatusInProgress},
		{Needle: "ready to ship", Status: StatusReadyToShip},
	}
}

// DefaultItemRules returns the stock product vocabulary. Products outside
// this table are silently dropped.
func DefaultItemRules() []ItemRule {
	return []ItemRule{
		{Needle: "home wireless", Item: "Home Wireless Plus"},
		{Needle: "new sim", Item: "New Sim"},
	}
}

// Fields holds the structured values pulled from a results page.
type Fields struct {
	// Recognized reports whether the text contains an order-status line at
	// all. Unrecognized text is treated as a non-match, not an error.
	Recognized bool
	// Status is the extracted order status (StatusUnknown when only the
	// status label matched).
	Status OrderStatus
	// DeliveryDate is the first date-like substring, empty when absent.
	DeliveryDate string
	// TotalAmount is the last AED amount in the text, empty when absent.
	TotalAmount string
	// Items lists recognized products in vocabulary order.
	Items []string
}

// Extractor applies pattern rules to free-text result content.
// It is pure: order-independent, idempotent, no side effects.
type Extractor struct {
	statusRules []StatusRule
	itemRules   []ItemRule
}

// NewExtractor returns an Extractor with the default rule tables.
func NewExtractor() *Extractor {
	return NewExtractorWithRules(DefaultStatusRules(), DefaultItemRules())
}

// NewExtractorWithRules returns an Extractor with custom rule tables.
func NewExtractorWithRules(statusRules []StatusRule, itemRules []ItemRule) *Extractor {
	return &Extractor{
		statusRules: statusRules,
		itemRules:   itemRules,
	}
}

// Extract pulls structured fields out of raw result text.
func (e *Extractor) Extract(text string) Fields {
	lower := strings.ToLower(text)

	fields := Fields{Status: StatusUnknown}

	for _, rule := range e.statusRules {
		if strings.Contains(lower, rule.Needle) {
			fields.Status = rule.Status
			fields.Recognized = true
			break
		}
	}
	if !fields.Recognized && strings.Contains(lower, statusLabel) {
		fields.Recognized = true
	}

	fields.DeliveryDate = dateRe.FindString(text)

	if matches := amountRe.FindAllStringSubmatch(text, -1); len(matches) > 0 {
		fields.TotalAmount = matches[len(matches)-1][1]
	}

	for _, rule := range e.itemRules {
		if strings.Contains(lower, rule.Needle) {
			fields.Items = append(fields.Items, rule.Item)
		}
	}

	return fields
}

// ExtractOrderNumber recovers the first order number ("CM" + digits) present
// in the text, or an empty string.
func ExtractOrderNumber(text string) string {
	return orderNumberRe.FindString(text)
}

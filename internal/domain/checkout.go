package domain

import "math"

// CheckoutItemRequest is a caller-supplied (price, quantity) pair. Quantity
// may arrive non-integral or non-positive; Aggregate sanitizes it rather
// than rejecting.
type CheckoutItemRequest struct {
	PriceID  string  `json:"priceId"`
	Quantity float64 `json:"quantity"`
}

// LineItem is a sanitized, deduplicated line destined for the payment
// gateway. Quantity is always >= 1 and PriceID is unique within an
// aggregated set.
type LineItem struct {
	PriceID  string `json:"priceId"`
	Quantity int64  `json:"quantity"`
}

// CheckoutSession is the result of a successful checkout call. It is
// produced exactly once per call and never mutated.
type CheckoutSession struct {
	CheckoutSessionID  string `json:"checkoutSessionId"`
	CheckoutSessionURL string `json:"checkoutSessionUrl"`
}

// Aggregate merges checkout item requests into a canonical line-item set.
// Each quantity is sanitized to max(1, floor(q)), entries sharing a PriceID
// are merged by summing, and the merged set is emitted in first-seen order.
// The function is pure; callers guarantee a non-empty input.
func Aggregate(items []CheckoutItemRequest) []LineItem {
	merged := make(map[string]int64, len(items))
	order := make([]string, 0, len(items))

	for _, item := range items {
		qty := int64(math.Floor(item.Quantity))
		if qty < 1 {
			qty = 1
		}
		if _, seen := merged[item.PriceID]; !seen {
			order = append(order, item.PriceID)
		}
		merged[item.PriceID] += qty
	}

	lines := make([]LineItem, 0, len(order))
	for _, priceID := range order {
		lines = append(lines, LineItem{PriceID: priceID, Quantity: merged[priceID]})
	}
	return lines
}

package domain

// Product represents a purchasable item in the storefront catalog.
// Instances are immutable once returned from a listing call.
type Product struct {
	ID          string  `json:"id"`
	PriceID     string  `json:"priceId"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
	// Price is in minor currency units (cents).
	Price    int64  `json:"price"`
	Currency string `json:"currency"`
}

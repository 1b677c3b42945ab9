// Package purchase models the widget's purchase flow as a headless state
// machine, so the submit/ready/failed behavior can be tested without any
// rendering or network in the loop.
package purchase

import (
	"context"
	"sync"

	"github.com/Rodriguespn/skybridge/internal/domain"
)

// Status is the lifecycle phase of a purchase attempt.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// Buyer creates a checkout session for the selected items. In production
// this is the buy_products tool call issued by the widget host.
type Buyer interface {
	Buy(ctx context.Context, items []domain.CheckoutItemRequest) (*domain.CheckoutSession, error)
}

// Opener navigates the user to a checkout URL.
type Opener interface {
	Open(url string) error
}

// Machine tracks the selected quantities and drives a single checkout
// submission. A machine holds at most one checkout link for its lifetime;
// once the link exists, Submit only re-opens it.
type Machine struct {
	buyer  Buyer
	opener Opener

	mu          sync.Mutex
	status      Status
	quantities  map[string]int64
	order       []string
	checkoutURL string
	message     string
}

// NewMachine creates an idle purchase machine.
func NewMachine(buyer Buyer, opener Opener) *Machine {
	return &Machine{
		buyer:      buyer,
		opener:     opener,
		status:     StatusIdle,
		quantities: make(map[string]int64),
	}
}

// Adjust changes the selected quantity for a price by delta, clamping at
// zero. Adjust is legal in every state.
func (m *Machine) Adjust(priceID string, delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.quantities[priceID]; !ok {
		m.order = append(m.order, priceID)
	}
	q := m.quantities[priceID] + delta
	if q < 0 {
		q = 0
	}
	m.quantities[priceID] = q
}

// Submit drives the checkout flow. While a submission is in flight it is a
// no-op. Once a checkout link exists it only re-opens that link. With
// nothing selected it records a message and stays put. Otherwise it invokes
// the buyer with the positive-quantity selection and transitions to ready
// or failed.
func (m *Machine) Submit(ctx context.Context) {
	m.mu.Lock()

	switch m.status {
	case StatusSubmitting:
		m.mu.Unlock()
		return
	case StatusReady:
		url := m.checkoutURL
		m.mu.Unlock()
		m.open(url)
		return
	}

	items := m.selectedLocked()
	if len(items) == 0 {
		m.message = "Select at least one item before checking out."
		m.mu.Unlock()
		return
	}

	m.status = StatusSubmitting
	m.message = ""
	m.mu.Unlock()

	session, err := m.buyer.Buy(ctx, items)

	m.mu.Lock()
	if err != nil {
		m.status = StatusFailed
		m.message = "Checkout could not be completed. Please try again."
		m.mu.Unlock()
		return
	}
	m.status = StatusReady
	m.checkoutURL = session.CheckoutSessionURL
	url := m.checkoutURL
	m.mu.Unlock()

	m.open(url)
}

// selectedLocked returns the positive-quantity items in selection order.
// Callers must hold m.mu.
func (m *Machine) selectedLocked() []domain.CheckoutItemRequest {
	var items []domain.CheckoutItemRequest
	for _, id := range m.order {
		if q := m.quantities[id]; q > 0 {
			items = append(items, domain.CheckoutItemRequest{
				PriceID:  id,
				Quantity: float64(q),
			})
		}
	}
	return items
}

func (m *Machine) open(url string) {
	if err := m.opener.Open(url); err != nil {
		m.mu.Lock()
		m.message = "Could not open the checkout page."
		m.mu.Unlock()
	}
}

// Status returns the current lifecycle phase.
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Quantity returns the selected quantity for a price.
func (m *Machine) Quantity(priceID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.quantities[priceID]
}

// CheckoutURL returns the checkout link, or empty before one exists.
func (m *Machine) CheckoutURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkoutURL
}

// Message returns the current user-visible message, or empty.
func (m *Machine) Message() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.message
}

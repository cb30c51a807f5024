// Package cart holds the in-progress order state for a register session.
//
// An Aggregator owns the order lines of exactly one session and derives the
// subtotal, service charge and total from them on every query. It is not safe
// for concurrent use; Registry serializes access per session.
package cart

import (
	"bistro-pos/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddListener is notified after an item has been added to the order.
// The register uses it to open the cart panel on narrow screens.
type AddListener func(line domain.OrderLine)

// Option configures an Aggregator
type Option func(*Aggregator)

// WithAddListener registers a listener for AddItem
func WithAddListener(l AddListener) Option {
	return func(a *Aggregator) {
		a.listeners = append(a.listeners, l)
	}
}

// Aggregator is the in-progress order of one register session
type Aggregator struct {
	order     []uuid.UUID
	lines     map[uuid.UUID]*domain.OrderLine
	listeners []AddListener
}

// New creates an empty Aggregator
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		lines: make(map[uuid.UUID]*domain.OrderLine),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AddItem increments the line for item.ID, or appends a new line with
// quantity 1.
func (a *Aggregator) AddItem(item domain.CatalogItem) {
	line, ok := a.lines[item.ID]
	if ok {
		line.Quantity++
	} else {
		line = &domain.OrderLine{Item: item, Quantity: 1}
		a.lines[item.ID] = line
		a.order = append(a.order, item.ID)
	}

	for _, l := range a.listeners {
		l(*line)
	}
}

// RemoveItem deletes the line for id. Unknown ids are ignored.
func (a *Aggregator) RemoveItem(id uuid.UUID) {
	if _, ok := a.lines[id]; !ok {
		return
	}
	delete(a.lines, id)
	for i, existing := range a.order {
		if existing == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// UpdateQuantity adds delta to the quantity of the line for id.
//
// Quantities are clamped: an update that would leave the line at zero or
// below is ignored and the line keeps its current quantity. Lines leave the
// order only through RemoveItem or Clear. Unknown ids are ignored.
func (a *Aggregator) UpdateQuantity(id uuid.UUID, delta int) {
	line, ok := a.lines[id]
	if !ok {
		return
	}
	if next := line.Quantity + delta; next > 0 {
		line.Quantity = next
	}
}

// Clear empties the order
func (a *Aggregator) Clear() {
	a.order = nil
	a.lines = make(map[uuid.UUID]*domain.OrderLine)
}

// Lines returns a copy of the order lines in insertion order
func (a *Aggregator) Lines() []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(a.order))
	for _, id := range a.order {
		lines = append(lines, *a.lines[id])
	}
	return lines
}

// Line returns the line for id
func (a *Aggregator) Line(id uuid.UUID) (domain.OrderLine, bool) {
	line, ok := a.lines[id]
	if !ok {
		return domain.OrderLine{}, false
	}
	return *line, true
}

// Len returns the number of distinct lines
func (a *Aggregator) Len() int {
	return len(a.order)
}

// ItemCount returns the sum of all line quantities
func (a *Aggregator) ItemCount() int {
	count := 0
	for _, line := range a.lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the order has no lines
func (a *Aggregator) IsEmpty() bool {
	return a.ItemCount() == 0
}

// Subtotal returns the sum of unit price times quantity over all lines
func (a *Aggregator) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, id := range a.order {
		subtotal = subtotal.Add(a.lines[id].LineTotal())
	}
	return subtotal
}

// ServiceCharge returns the subtotal multiplied by rate
func (a *Aggregator) ServiceCharge(rate decimal.Decimal) decimal.Decimal {
	return a.Subtotal().Mul(rate)
}

// Total returns the subtotal plus the service charge
func (a *Aggregator) Total(rate decimal.Decimal) decimal.Decimal {
	subtotal := a.Subtotal()
	return subtotal.Add(subtotal.Mul(rate))
}

// Snapshot returns the lines together with their derived totals
func (a *Aggregator) Snapshot(rate decimal.Decimal) domain.OrderSnapshot {
	subtotal := a.Subtotal()
	charge := subtotal.Mul(rate)
	return domain.OrderSnapshot{
		Lines:         a.Lines(),
		ItemCount:     a.ItemCount(),
		Subtotal:      subtotal,
		ServiceCharge: charge,
		Total:         subtotal.Add(charge),
	}
}

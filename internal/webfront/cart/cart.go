// Package cart holds the per-session shopping carts. Carts live in memory
// only: they exist for the lifetime of a browser session and are never
// persisted.
package cart

import "sync"

// Line is one selected service or package in a cart. UnitPrice is in the
// smallest currency unit (cents).
type Line struct {
	ServiceID string `json:"serviceId"`
	Title     string `json:"title"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// Cart is an ordered collection of lines, keyed uniquely by service ID.
// All mutations are atomic per event: two rapid add clicks apply against
// the latest line values, never a stale snapshot.
type Cart struct {
	mu    sync.Mutex
	lines []Line
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts a service into the cart. Adding an ID that is already present
// increments its quantity by one instead of duplicating the line; insertion
// order of first appearance is preserved.
func (c *Cart) Add(serviceID, title string, unitPrice int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ServiceID == serviceID {
			c.lines[i].Quantity++
			return
		}
	}

	c.lines = append(c.lines, Line{
		ServiceID: serviceID,
		Title:     title,
		UnitPrice: unitPrice,
		Quantity:  1,
	})
}

// UpdateQuantity sets the quantity for a line, clamping to a minimum of 1.
// Unknown IDs are a no-op.
func (c *Cart) UpdateQuantity(serviceID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity < 1 {
		quantity = 1
	}

	for i := range c.lines {
		if c.lines[i].ServiceID == serviceID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Remove drops a line from the cart. Unknown IDs are a no-op.
func (c *Cart) Remove(serviceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ServiceID == serviceID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Total recomputes the cart total on every call. It is never cached, so it
// always equals the sum of unit price times quantity over current lines.
func (c *Cart) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, l := range c.lines {
		total += l.UnitPrice * int64(l.Quantity)
	}
	return total
}

// Lines returns a copy of the current lines in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Clear empties the cart, e.g. after a successful checkout.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Package cart is the in-memory cart of the order being rung up. It is not
// safe for concurrent use; callers serialise access.
package cart

import (
	"math"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/shopspring/decimal"
)

// Cart keeps lines in the order products were first added. A product id
// appears on at most one line and every line has quantity >= 1.
type Cart struct {
	lines []domain.CartLine
}

func New() *Cart {
	return &Cart{}
}

// AddItem increments the line for p, or appends a new line with quantity 1.
// The line keeps the product snapshot taken when it was first added.
func (c *Cart) AddItem(p domain.Product) {
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity = addSaturating(c.lines[i].Quantity, 1)
		return
	}
	c.lines = append(c.lines, domain.CartLine{Product: p, Quantity: 1})
}

// UpdateQuantity adds delta to the line's quantity. A result of zero or less
// removes the line. The sum saturates at math.MaxInt, so a positive delta
// never removes a line. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id string, delta int) {
	i := c.index(id)
	if i < 0 {
		return
	}
	q := addSaturating(c.lines[i].Quantity, delta)
	if q <= 0 {
		c.removeAt(i)
		return
	}
	c.lines[i].Quantity = q
}

// RemoveItem drops the line whatever its quantity.
func (c *Cart) RemoveItem(id string) {
	if i := c.index(id); i >= 0 {
		c.removeAt(i)
	}
}

// SetNote attaches a kitchen note to a line. It reports whether the line
// exists.
func (c *Cart) SetNote(id, note string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.lines[i].Note = note
	return true
}

// ComputeTotals prices the cart at taxRatePercent without modifying it.
func (c *Cart) ComputeTotals(taxRatePercent decimal.Decimal) domain.Totals {
	return domain.ComputeTotals(c.lines, taxRatePercent)
}

// Lines returns a copy the caller may keep or modify freely.
func (c *Cart) Lines() []domain.CartLine {
	return domain.CloneLines(c.lines)
}

// ItemCount sums quantities across lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n = addSaturating(n, l.Quantity)
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) index(id string) int {
	for i := range c.lines {
		if c.lines[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// addSaturating adds b to a non-negative a, clamping at math.MaxInt.
// Underflow cannot happen while a >= 0.
func addSaturating(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

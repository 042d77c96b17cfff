package domain

import "github.com/shopspring/decimal"

// CartLine is a product snapshot plus quantity. Inside a cart the quantity is
// always at least 1 and a product id appears on one line only.
type CartLine struct {
	Product
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

// LineTotal is price times quantity, unrounded.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals is the result of pricing a cart at a tax rate. No rounding is
// applied; presentation rounds for display only.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals prices lines at taxRatePercent: tax = subtotal * rate / 100.
func ComputeTotals(lines []CartLine, taxRatePercent decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	tax := subtotal.Mul(taxRatePercent).Shift(-2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// CloneLines returns an independent copy of lines.
func CloneLines(lines []CartLine) []CartLine {
	if lines == nil {
		return nil
	}
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}

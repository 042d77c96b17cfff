package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod tags how an order was settled. No payment is processed.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// ParsePaymentMethod accepts "cash" or "card" in any case. An empty value
// falls back to card.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PaymentCard:
		return PaymentCard, nil
	case PaymentCash:
		return PaymentCash, nil
	default:
		return "", Invalid("paymentMethod", "must be cash or card")
	}
}

// Order is a completed checkout. It is written once and never updated; only
// a full reset removes it. Items are copies taken at checkout, so later
// catalog edits do not reach historical orders.
type Order struct {
	ID            string          `json:"id"`
	Items         []CartLine      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	TaxRate       decimal.Decimal `json:"taxRate"`
	Total         decimal.Decimal `json:"total"`
	Date          time.Time       `json:"date"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
}

// ItemCount sums the quantities of all lines.
func (o Order) ItemCount() int {
	n := 0
	for _, l := range o.Items {
		n += l.Quantity
	}
	return n
}

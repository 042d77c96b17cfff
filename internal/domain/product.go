package domain

import "github.com/shopspring/decimal"

const (
	// UncategorizedLabel is assigned when a product is saved without a category
	// and no category exists yet.
	UncategorizedLabel = "Uncategorized"
	// UnknownOwnerLabel is the owner counterpart of UncategorizedLabel.
	UnknownOwnerLabel = "Unknown"
	// DefaultDescription is stored when a product is saved without one.
	DefaultDescription = "No description"
)

// Product is a menu entry. Category and Owner hold names, not ids: deleting
// the referenced entry leaves the name in place and readers must treat an
// unmatched name as a valid unknown value.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Owner       string          `json:"owner"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

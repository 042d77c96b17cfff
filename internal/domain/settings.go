package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultStoreName = "Toko Saya"

// DefaultTaxRate is the tax percentage used until the operator saves one.
var DefaultTaxRate = decimal.NewFromInt(11)

var hundred = decimal.NewFromInt(100)

// Settings is store-wide configuration, loaded once at startup and passed
// explicitly to whatever needs it.
type Settings struct {
	StoreName string          `json:"storeName"`
	TaxRate   decimal.Decimal `json:"taxRate"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{StoreName: DefaultStoreName, TaxRate: DefaultTaxRate}
}

// Validate checks the store name is present and the tax rate is a percentage.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.StoreName) == "" {
		return Invalid("storeName", "required")
	}
	if s.TaxRate.IsNegative() || s.TaxRate.GreaterThan(hundred) {
		return Invalid("taxRate", "must be between 0 and 100")
	}
	return nil
}

package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ReportPeriod selects how orders are bucketed for the sales chart.
type ReportPeriod string

const (
	// PeriodDaily buckets by hour of day.
	PeriodDaily ReportPeriod = "daily"
	// PeriodMonthly buckets by calendar day.
	PeriodMonthly ReportPeriod = "monthly"
	// PeriodYearly buckets by calendar month.
	PeriodYearly ReportPeriod = "yearly"
)

// ParseReportPeriod defaults an empty value to daily.
func ParseReportPeriod(raw string) (ReportPeriod, error) {
	switch p := ReportPeriod(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PeriodDaily, nil
	case PeriodDaily, PeriodMonthly, PeriodYearly:
		return p, nil
	default:
		return "", Invalid("period", "must be daily, monthly or yearly")
	}
}

// Bucket is one point of the sales chart. Buckets repeat every cycle: all
// orders placed between 9:00 and 10:00 share the daily bucket "9:00" whatever
// their date. Slot is the position in the cycle (hour, month*100+day, month)
// and orders buckets chronologically; Label is what the chart shows.
type Bucket struct {
	Slot   int             `json:"slot"`
	Label  string          `json:"label"`
	Sales  decimal.Decimal `json:"sales"`
	Orders int             `json:"orders"`
}

// Summary is the dashboard view over a set of orders.
type Summary struct {
	Period       ReportPeriod    `json:"period"`
	OrderCount   int             `json:"orderCount"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	AverageOrder decimal.Decimal `json:"averageOrderValue"`
	Buckets      []Bucket        `json:"buckets"`
}

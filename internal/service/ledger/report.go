package ledger

import (
	"sort"
	"strconv"
	"time"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/shopspring/decimal"
)

// AggregateByBucket sums order totals per bucket of period. Order dates are
// read in loc (time.Local when nil). Buckets without orders are left out and
// the result is sorted by slot.
func AggregateByBucket(orders []domain.Order, period domain.ReportPeriod, loc *time.Location) []domain.Bucket {
	if loc == nil {
		loc = time.Local
	}
	bySlot := map[int]*domain.Bucket{}
	for _, o := range orders {
		slot, label := bucketOf(o.Date.In(loc), period)
		b, ok := bySlot[slot]
		if !ok {
			b = &domain.Bucket{Slot: slot, Label: label, Sales: decimal.Zero}
			bySlot[slot] = b
		}
		b.Sales = b.Sales.Add(o.Total)
		b.Orders++
	}

	out := make([]domain.Bucket, 0, len(bySlot))
	for _, b := range bySlot {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

func bucketOf(t time.Time, period domain.ReportPeriod) (int, string) {
	switch period {
	case domain.PeriodMonthly:
		return int(t.Month())*100 + t.Day(), t.Format("2 Jan")
	case domain.PeriodYearly:
		return int(t.Month()), t.Format("Jan")
	default:
		return t.Hour(), strconv.Itoa(t.Hour()) + ":00"
	}
}

// TotalRevenue sums order totals.
func TotalRevenue(orders []domain.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(o.Total)
	}
	return sum
}

// AverageOrderValue is zero when there are no orders.
func AverageOrderValue(orders []domain.Order) decimal.Decimal {
	if len(orders) == 0 {
		return decimal.Zero
	}
	return TotalRevenue(orders).Div(decimal.NewFromInt(int64(len(orders))))
}

// Summarize gathers the dashboard figures for orders.
func Summarize(orders []domain.Order, period domain.ReportPeriod, loc *time.Location) domain.Summary {
	return domain.Summary{
		Period:       period,
		OrderCount:   len(orders),
		TotalRevenue: TotalRevenue(orders),
		AverageOrder: AverageOrderValue(orders),
		Buckets:      AggregateByBucket(orders, period, loc),
	}
}

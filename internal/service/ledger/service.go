// Package ledger turns carts into orders and answers sales queries over the
// stored orders.
package ledger

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/Deadra-code/Kitchen-POS/internal/service/cart"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type orderRepo interface {
	Add(ctx context.Context, o domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
}

// Recorder receives checkout outcomes, typically *metrics.Metrics.
type Recorder interface {
	OrderPlaced(method domain.PaymentMethod, total decimal.Decimal)
	StorageFailure(op string)
}

type nopRecorder struct{}

func (nopRecorder) OrderPlaced(domain.PaymentMethod, decimal.Decimal) {}
func (nopRecorder) StorageFailure(string)                             {}

type Service struct {
	orders   orderRepo
	recorder Recorder
	logger   *log.Logger
	now      func() time.Time
	newID    func() string
}

func New(orders orderRepo, recorder Recorder, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		orders:   orders,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Checkout freezes c into an order and stores it. The cart is left as is;
// clearing it after success is up to the caller.
func (s *Service) Checkout(ctx context.Context, c *cart.Cart, taxRatePercent decimal.Decimal, method domain.PaymentMethod) (*domain.Order, error) {
	if c == nil || c.IsEmpty() {
		return nil, domain.Invalid("cart", "empty")
	}
	if method == "" {
		method = domain.PaymentCard
	}
	if _, err := domain.ParsePaymentMethod(string(method)); err != nil {
		return nil, err
	}

	totals := c.ComputeTotals(taxRatePercent)
	order := domain.Order{
		ID:            s.newID(),
		Items:         c.Lines(),
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		TaxRate:       taxRatePercent,
		Total:         totals.Total,
		Date:          s.now(),
		PaymentMethod: method,
	}
	if err := s.orders.Add(ctx, order); err != nil {
		s.logger.Printf("ledger: checkout id=%s error=%v", order.ID, err)
		s.recorder.StorageFailure("checkout")
		return nil, domain.WrapStorage("checkout", err)
	}
	s.recorder.OrderPlaced(order.PaymentMethod, order.Total)
	s.logger.Printf("ledger: order placed id=%s total=%s method=%s", order.ID, order.Total, order.PaymentMethod)
	return &order, nil
}

// ListOrders returns every stored order, most recent first.
func (s *Service) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		s.logger.Printf("ledger: list error=%v", err)
		s.recorder.StorageFailure("list orders")
		return nil, domain.WrapStorage("list orders", err)
	}
	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, domain.WrapStorage("get order", err)
	}
	return o, nil
}

// Report loads every order and summarises it for period in loc.
func (s *Service) Report(ctx context.Context, period domain.ReportPeriod, loc *time.Location) (domain.Summary, error) {
	orders, err := s.ListOrders(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return Summarize(orders, period, loc), nil
}

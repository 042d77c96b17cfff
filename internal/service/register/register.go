// Package register is the till: one cart, the current store settings and
// the checkout that empties the cart once the order is safely stored.
package register

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/Deadra-code/Kitchen-POS/internal/service/cart"
	"github.com/shopspring/decimal"
)

type checkouter interface {
	Checkout(ctx context.Context, c *cart.Cart, taxRatePercent decimal.Decimal, method domain.PaymentMethod) (*domain.Order, error)
}

type productLookup interface {
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}

type settingsStore interface {
	Save(s domain.Settings) error
}

type resetter interface {
	ResetAll(ctx context.Context) error
}

// Deps are the collaborators a Register drives.
type Deps struct {
	Ledger   checkouter
	Catalog  productLookup
	Settings settingsStore
	Store    resetter
}

// CartView is the cart priced at the current tax rate.
type CartView struct {
	Lines     []domain.CartLine `json:"lines"`
	ItemCount int               `json:"itemCount"`
	TaxRate   decimal.Decimal   `json:"taxRate"`
	domain.Totals
}

type Register struct {
	mu       sync.Mutex
	cart     *cart.Cart
	settings domain.Settings
	deps     Deps
	logger   *log.Logger
}

// New starts a register with an empty cart and the given settings.
func New(deps Deps, settings domain.Settings, logger *log.Logger) *Register {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Register{cart: cart.New(), settings: settings, deps: deps, logger: logger}
}

func (r *Register) Settings() domain.Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.settings
}

// UpdateSettings validates and persists s, then prices the cart with it.
func (r *Register) UpdateSettings(s domain.Settings) (domain.Settings, error) {
	s.StoreName = strings.TrimSpace(s.StoreName)
	if err := s.Validate(); err != nil {
		return domain.Settings{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deps.Settings != nil {
		if err := r.deps.Settings.Save(s); err != nil {
			r.logger.Printf("register: save settings error=%v", err)
			return domain.Settings{}, err
		}
	}
	r.settings = s
	r.logger.Printf("register: settings updated store=%q tax_rate=%s", s.StoreName, s.TaxRate)
	return s, nil
}

func (r *Register) Cart() CartView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewLocked()
}

// AddItem looks the product up and adds one unit of it.
func (r *Register) AddItem(ctx context.Context, productID string) (CartView, error) {
	p, err := r.deps.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return CartView{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cart.AddItem(*p)
	return r.viewLocked(), nil
}

func (r *Register) UpdateQuantity(productID string, delta int) CartView {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cart.UpdateQuantity(productID, delta)
	return r.viewLocked()
}

func (r *Register) RemoveItem(productID string) CartView {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cart.RemoveItem(productID)
	return r.viewLocked()
}

// SetNote returns domain.ErrNotFound when the product is not in the cart.
func (r *Register) SetNote(productID, note string) (CartView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.cart.SetNote(productID, strings.TrimSpace(note)) {
		return CartView{}, domain.ErrNotFound
	}
	return r.viewLocked(), nil
}

func (r *Register) ClearCart() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cart.Clear()
}

// Checkout places the order at the current tax rate. The cart is cleared
// only once the order is stored; on failure it is kept for a retry.
func (r *Register) Checkout(ctx context.Context, method domain.PaymentMethod) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, err := r.deps.Ledger.Checkout(ctx, r.cart, r.settings.TaxRate, method)
	if err != nil {
		if domain.IsStorage(err) {
			r.logger.Printf("register: checkout kept cart items=%d error=%v", r.cart.ItemCount(), err)
		}
		return nil, err
	}
	r.cart.Clear()
	return order, nil
}

// Reset wipes every stored collection and empties the cart. Settings are
// kept.
func (r *Register) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.deps.Store.ResetAll(ctx); err != nil {
		return domain.WrapStorage("reset", err)
	}
	r.cart.Clear()
	return nil
}

func (r *Register) viewLocked() CartView {
	lines := r.cart.Lines()
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return CartView{
		Lines:     lines,
		ItemCount: r.cart.ItemCount(),
		TaxRate:   r.settings.TaxRate,
		Totals:    r.cart.ComputeTotals(r.settings.TaxRate),
	}
}

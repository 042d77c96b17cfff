package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/Deadra-code/Kitchen-POS/internal/metrics"
	"github.com/Deadra-code/Kitchen-POS/internal/service/catalog"
	"github.com/Deadra-code/Kitchen-POS/internal/service/ledger"
	"github.com/Deadra-code/Kitchen-POS/internal/service/register"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// memStore is an in-memory stand-in for the four collections.
type memStore struct {
	mu         sync.Mutex
	products   map[string]domain.Product
	categories map[string]domain.CategoryItem
	owners     map[string]domain.OwnerItem
	orders     []domain.Order
	orderErr   error
	pingErr    error
}

func newMemStore() *memStore {
	return &memStore{
		products:   map[string]domain.Product{},
		categories: map[string]domain.CategoryItem{},
		owners:     map[string]domain.OwnerItem{},
	}
}

func (m *memStore) Ping(context.Context) error { return m.pingErr }

func (m *memStore) ResetAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = map[string]domain.Product{}
	m.categories = map[string]domain.CategoryItem{}
	m.owners = map[string]domain.OwnerItem{}
	m.orders = nil
	return nil
}

type memProducts struct{ *memStore }

func (m memProducts) Put(_ context.Context, p domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
	return nil
}

func (m memProducts) Get(_ context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m memProducts) List(context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m memProducts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, id)
	return nil
}

type memCategories struct{ *memStore }

func (m memCategories) Put(_ context.Context, c domain.CategoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = c
	return nil
}

func (m memCategories) List(context.Context) ([]domain.CategoryItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CategoryItem, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memCategories) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.categories, id)
	return nil
}

type memOwners struct{ *memStore }

func (m memOwners) Put(_ context.Context, o domain.OwnerItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[o.ID] = o
	return nil
}

func (m memOwners) List(context.Context) ([]domain.OwnerItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.OwnerItem, 0, len(m.owners))
	for _, o := range m.owners {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memOwners) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.owners, id)
	return nil
}

type memOrders struct{ *memStore }

func (m memOrders) Add(_ context.Context, o domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.orderErr != nil {
		return m.orderErr
	}
	m.orders = append([]domain.Order{o}, m.orders...)
	return nil
}

func (m memOrders) Get(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m memOrders) List(context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Order(nil), m.orders...), nil
}

type memSettings struct{}

func (memSettings) Save(domain.Settings) error { return nil }

func newTestRouter(t *testing.T) (*gin.Engine, *memStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newMemStore()
	cat := catalog.New(memProducts{store}, memCategories{store}, memOwners{store}, logDiscard())
	m := metrics.New()
	led := ledger.New(memOrders{store}, m, logDiscard())
	reg := register.New(register.Deps{
		Ledger:   led,
		Catalog:  cat,
		Settings: memSettings{},
		Store:    store,
	}, domain.DefaultSettings(), logDiscard())

	router, err := buildRouter(logDiscard(), Deps{
		Store:       store,
		Catalog:     cat,
		Register:    reg,
		Ledger:      led,
		Metrics:     m,
		CORSOrigins: []string{"http://localhost:5173"},
		Location:    time.UTC,
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router, store
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestBuildRouter_RequiresServices(t *testing.T) {
	if _, err := buildRouter(logDiscard(), Deps{}); err == nil {
		t.Fatalf("expected error for missing services")
	}
}

func TestHealthAndReady(t *testing.T) {
	router, store := newTestRouter(t)
	if rec := do(t, router, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz: %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("readyz: %d", rec.Code)
	}
	store.pingErr = errors.New("down")
	if rec := do(t, router, http.MethodGet, "/readyz", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/categories", `{"name":"Beverages"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	do(t, router, http.MethodPost, "/categories", `{"name":"beverages"}`)

	list := decode[struct {
		Results []domain.CategoryItem `json:"results"`
	}](t, do(t, router, http.MethodGet, "/categories", ""))
	if len(list.Results) != 1 || list.Results[0].ID != "beverages" {
		t.Fatalf("unexpected categories %+v", list.Results)
	}

	if rec := do(t, router, http.MethodPost, "/categories", `{"name":"  "}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodDelete, "/categories/beverages", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodDelete, "/categories/beverages", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("second delete must succeed too, got %d", rec.Code)
	}
}

func TestProductEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/products", `{"name":"Coffee","price":15000,"category":"Beverages"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	created := decode[domain.Product](t, rec)
	if created.ID == "" || created.Owner != domain.UnknownOwnerLabel || !created.Price.Equal(decimal.NewFromInt(15000)) {
		t.Fatalf("unexpected product %+v", created)
	}

	rec = do(t, router, http.MethodPost, "/products", `{"name":"Tea","price":"8000.5"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("string price rejected: %d %s", rec.Code, rec.Body.String())
	}

	if rec := do(t, router, http.MethodPost, "/products", `{"name":"Bad","price":-1}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative price, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/products", `{"name":"Bad","price":"abc"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for text price, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/products", `{"name":"Bad","price":1e100000000}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for exponent price, got %d", rec.Code)
	}

	list := decode[struct {
		Results []domain.Product `json:"results"`
		Count   int              `json:"count"`
	}](t, do(t, router, http.MethodGet, "/products?q=cof&category=Beverages", ""))
	if list.Count != 1 || list.Results[0].ID != created.ID {
		t.Fatalf("unexpected filter result %+v", list)
	}

	rec = do(t, router, http.MethodPut, "/products/"+created.ID, `{"name":"Kopi","price":16000,"category":"Beverages"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if updated := decode[domain.Product](t, rec); updated.ID != created.ID || updated.Name != "Kopi" {
		t.Fatalf("unexpected update %+v", updated)
	}
	if rec := do(t, router, http.MethodPut, "/products/missing", `{"name":"x","price":1}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", rec.Code)
	}

	if rec := do(t, router, http.MethodDelete, "/products/"+created.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/products/"+created.ID, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func seedCoffee(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/products", `{"name":"Coffee","price":15000,"category":"Beverages"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed product: %d", rec.Code)
	}
	return decode[domain.Product](t, rec).ID
}

func TestCartAndCheckoutFlow(t *testing.T) {
	router, store := newTestRouter(t)
	id := seedCoffee(t, router)

	do(t, router, http.MethodPost, "/cart/items", `{"productId":"`+id+`"}`)
	rec := do(t, router, http.MethodPost, "/cart/items", `{"productId":"`+id+`"}`)
	view := decode[register.CartView](t, rec)
	if view.ItemCount != 2 || !view.Total.Equal(decimal.NewFromInt(33300)) {
		t.Fatalf("unexpected cart %+v", view)
	}

	if rec := do(t, router, http.MethodPut, "/cart/items/"+id+"/note", `{"note":"no ice"}`); rec.Code != http.StatusOK {
		t.Fatalf("set note: %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPut, "/cart/items/missing/note", `{"note":"x"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing line, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/cart/items", `{"productId":"missing"}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", rec.Code)
	}
	if rec := do(t, router, http.MethodPost, "/checkout", `{"paymentMethod":"voucher"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown method, got %d", rec.Code)
	}

	store.orderErr = errors.New("disk full")
	if rec := do(t, router, http.MethodPost, "/checkout", `{"paymentMethod":"cash"}`); rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decode[register.CartView](t, do(t, router, http.MethodGet, "/cart", "")); got.ItemCount != 2 {
		t.Fatalf("cart must survive failed checkout, got %+v", got)
	}

	store.orderErr = nil
	rec = do(t, router, http.MethodPost, "/checkout", `{"paymentMethod":"cash"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	order := decode[domain.Order](t, rec)
	if !order.Total.Equal(decimal.NewFromInt(33300)) || order.Items[0].Note != "no ice" {
		t.Fatalf("unexpected order %+v", order)
	}
	if got := decode[register.CartView](t, do(t, router, http.MethodGet, "/cart", "")); got.ItemCount != 0 {
		t.Fatalf("cart must be empty after checkout")
	}

	if rec := do(t, router, http.MethodGet, "/orders/"+order.ID, ""); rec.Code != http.StatusOK {
		t.Fatalf("get order: %d", rec.Code)
	}
	if rec := do(t, router, http.MethodGet, "/orders/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	summary := decode[domain.Summary](t, do(t, router, http.MethodGet, "/reports?period=daily", ""))
	if summary.OrderCount != 1 || len(summary.Buckets) != 1 || !summary.TotalRevenue.Equal(decimal.NewFromInt(33300)) {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if rec := do(t, router, http.MethodGet, "/reports?period=weekly", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown period, got %d", rec.Code)
	}
}

func TestCheckout_EmptyBodyAndEmptyCart(t *testing.T) {
	router, _ := newTestRouter(t)
	if rec := do(t, router, http.MethodPost, "/checkout", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", rec.Code)
	}

	id := seedCoffee(t, router)
	do(t, router, http.MethodPost, "/cart/items", `{"productId":"`+id+`"}`)
	rec := do(t, router, http.MethodPost, "/checkout", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decode[domain.Order](t, rec); got.PaymentMethod != domain.PaymentCard {
		t.Fatalf("expected card default, got %q", got.PaymentMethod)
	}
}

func TestCartQuantityEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	id := seedCoffee(t, router)
	do(t, router, http.MethodPost, "/cart/items", `{"productId":"`+id+`"}`)

	view := decode[register.CartView](t, do(t, router, http.MethodPatch, "/cart/items/"+id, `{"delta":3}`))
	if view.ItemCount != 4 {
		t.Fatalf("expected 4 items, got %d", view.ItemCount)
	}
	view = decode[register.CartView](t, do(t, router, http.MethodPatch, "/cart/items/"+id, `{"delta":-4}`))
	if view.ItemCount != 0 || len(view.Lines) != 0 {
		t.Fatalf("expected line removed, got %+v", view)
	}
	if rec := do(t, router, http.MethodPatch, "/cart/items/"+id, `{"delta":"x"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	do(t, router, http.MethodPost, "/cart/items", `{"productId":"`+id+`"}`)
	view = decode[register.CartView](t, do(t, router, http.MethodPatch, "/cart/items/"+id, `{"delta":`+strconv.Itoa(math.MaxInt)+`}`))
	if len(view.Lines) != 1 || view.Lines[0].Quantity != math.MaxInt {
		t.Fatalf("expected saturated line, got %+v", view.Lines)
	}
	do(t, router, http.MethodPatch, "/cart/items/"+id, `{"delta":`+strconv.Itoa(math.MinInt)+`}`)

	do(t, router, http.MethodPost, "/cart/items", `{"productId":"`+id+`"}`)
	view = decode[register.CartView](t, do(t, router, http.MethodDelete, "/cart/items/"+id, ""))
	if view.ItemCount != 0 {
		t.Fatalf("expected empty cart after delete")
	}
}

func TestSettingsEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	got := decode[domain.Settings](t, do(t, router, http.MethodGet, "/settings", ""))
	if got.StoreName != domain.DefaultStoreName {
		t.Fatalf("unexpected default settings %+v", got)
	}
	rec := do(t, router, http.MethodPut, "/settings", `{"storeName":"Kedai","taxRate":10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, router, http.MethodPut, "/settings", `{"storeName":"Kedai","taxRate":150}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	id := seedCoffee(t, router)
	view := decode[register.CartView](t, do(t, router, http.MethodPost, "/cart/items", `{"productId":"`+id+`"}`))
	if !view.Tax.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected tax at the new rate, got %s", view.Tax)
	}
}

func TestResetEndpoint(t *testing.T) {
	router, store := newTestRouter(t)
	id := seedCoffee(t, router)
	do(t, router, http.MethodPost, "/categories", `{"name":"Beverages"}`)
	do(t, router, http.MethodPost, "/cart/items", `{"productId":"`+id+`"}`)
	do(t, router, http.MethodPost, "/checkout", `{"paymentMethod":"card"}`)
	do(t, router, http.MethodPost, "/cart/items", `{"productId":"`+id+`"}`)

	if rec := do(t, router, http.MethodPost, "/reset", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(store.products) != 0 || len(store.categories) != 0 || len(store.orders) != 0 {
		t.Fatalf("store not reset")
	}
	if got := decode[register.CartView](t, do(t, router, http.MethodGet, "/cart", "")); got.ItemCount != 0 {
		t.Fatalf("cart not cleared by reset")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	do(t, router, http.MethodGet, "/healthz", "")
	rec := do(t, router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "kitchen_pos_http_requests_total") {
		t.Fatalf("unexpected metrics page %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/Deadra-code/Kitchen-POS/internal/metrics"
	"github.com/Deadra-code/Kitchen-POS/internal/service/catalog"
	"github.com/Deadra-code/Kitchen-POS/internal/service/register"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type catalogService interface {
	AddCategory(ctx context.Context, name string) (*domain.CategoryItem, error)
	AddOwner(ctx context.Context, name string) (*domain.OwnerItem, error)
	DeleteCategory(ctx context.Context, id string) error
	DeleteOwner(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]domain.CategoryItem, error)
	ListOwners(ctx context.Context) ([]domain.OwnerItem, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SaveProduct(ctx context.Context, in catalog.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type registerService interface {
	Settings() domain.Settings
	UpdateSettings(s domain.Settings) (domain.Settings, error)
	Cart() register.CartView
	AddItem(ctx context.Context, productID string) (register.CartView, error)
	UpdateQuantity(productID string, delta int) register.CartView
	RemoveItem(productID string) register.CartView
	SetNote(productID, note string) (register.CartView, error)
	Checkout(ctx context.Context, method domain.PaymentMethod) (*domain.Order, error)
	Reset(ctx context.Context) error
}

type ledgerService interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	Report(ctx context.Context, period domain.ReportPeriod, loc *time.Location) (domain.Summary, error)
}

// Deps are the services the API serves. Location sets the time zone for
// report buckets; nil means the server's local zone.
type Deps struct {
	Store       pinger
	Catalog     catalogService
	Register    registerService
	Ledger      ledgerService
	Metrics     *metrics.Metrics
	CORSOrigins []string
	Location    *time.Location
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Catalog == nil || deps.Register == nil || deps.Ledger == nil {
		return nil, errors.New("httpserver: catalog, register and ledger are required")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), deps.Metrics.Middleware())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: deps.CORSOrigins,
			AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Store))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	h := &handlers{
		catalog:  deps.Catalog,
		register: deps.Register,
		ledger:   deps.Ledger,
		logger:   logger,
		loc:      deps.Location,
	}

	router.GET("/settings", h.getSettings)
	router.PUT("/settings", h.putSettings)

	router.GET("/categories", h.listCategories)
	router.POST("/categories", h.addCategory)
	router.DELETE("/categories/:id", h.deleteCategory)
	router.GET("/owners", h.listOwners)
	router.POST("/owners", h.addOwner)
	router.DELETE("/owners/:id", h.deleteOwner)

	router.GET("/products", h.listProducts)
	router.GET("/products/:id", h.getProduct)
	router.POST("/products", h.createProduct)
	router.PUT("/products/:id", h.updateProduct)
	router.DELETE("/products/:id", h.deleteProduct)

	router.GET("/cart", h.getCart)
	router.POST("/cart/items", h.addCartItem)
	router.PATCH("/cart/items/:id", h.changeCartQuantity)
	router.PUT("/cart/items/:id/note", h.setCartNote)
	router.DELETE("/cart/items/:id", h.removeCartItem)
	router.POST("/checkout", h.checkout)

	router.GET("/orders", h.listOrders)
	router.GET("/orders/:id", h.getOrder)
	router.GET("/reports", h.report)

	router.POST("/reset", h.reset)

	return router, nil
}

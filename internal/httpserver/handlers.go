package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/Deadra-code/Kitchen-POS/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type handlers struct {
	catalog  catalogService
	register registerService
	ledger   ledgerService
	logger   *log.Logger
	loc      *time.Location
}

type nameRequest struct {
	Name string `json:"name"`
}

// priceText accepts a price sent either as a JSON number or as a string, so
// the catalog sees the raw text in both cases.
type priceText string

func (p *priceText) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = priceText(s)
		return nil
	}
	*p = priceText(b)
	return nil
}

type productRequest struct {
	Name        string    `json:"name"`
	Price       priceText `json:"price"`
	Category    string    `json:"category"`
	Owner       string    `json:"owner"`
	Image       string    `json:"image"`
	Description string    `json:"description"`
}

func (r productRequest) input(id string) catalog.ProductInput {
	return catalog.ProductInput{
		ID:          id,
		Name:        r.Name,
		Price:       string(r.Price),
		Category:    r.Category,
		Owner:       r.Owner,
		Image:       r.Image,
		Description: r.Description,
	}
}

type addItemRequest struct {
	ProductID string `json:"productId"`
}

type quantityRequest struct {
	Delta int `json:"delta"`
}

type noteRequest struct {
	Note string `json:"note"`
}

type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

func (h *handlers) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.register.Settings())
}

func (h *handlers) putSettings(c *gin.Context) {
	var req domain.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid settings body")
		return
	}
	saved, err := h.register.UpdateSettings(req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *handlers) listCategories(c *gin.Context) {
	items, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": items})
}

func (h *handlers) addCategory(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid category body")
		return
	}
	item, err := h.catalog.AddCategory(c.Request.Context(), req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *handlers) deleteCategory(c *gin.Context) {
	if err := h.catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listOwners(c *gin.Context) {
	items, err := h.catalog.ListOwners(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": items})
}

func (h *handlers) addOwner(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid owner body")
		return
	}
	item, err := h.catalog.AddOwner(c.Request.Context(), req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *handlers) deleteOwner(c *gin.Context) {
	if err := h.catalog.DeleteOwner(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	filtered := catalog.FilterProducts(products, c.Query("q"), c.Query("category"))
	c.JSON(http.StatusOK, gin.H{"results": filtered, "count": len(filtered)})
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid product body")
		return
	}
	p, err := h.catalog.SaveProduct(c.Request.Context(), req.input(""))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// updateProduct replaces the product at :id. The id must exist so that a
// typo in the path does not create a new product.
func (h *handlers) updateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid product body")
		return
	}
	id := c.Param("id")
	if _, err := h.catalog.GetProduct(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	p, err := h.catalog.SaveProduct(c.Request.Context(), req.input(id))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) deleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.register.Cart())
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProductID) == "" {
		badRequest(c, "productId required")
		return
	}
	view, err := h.register.AddItem(c.Request.Context(), req.ProductID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlers) changeCartQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "delta must be an integer")
		return
	}
	c.JSON(http.StatusOK, h.register.UpdateQuantity(c.Param("id"), req.Delta))
}

func (h *handlers) setCartNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid note body")
		return
	}
	view, err := h.register.SetNote(c.Param("id"), req.Note)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	c.JSON(http.StatusOK, h.register.RemoveItem(c.Param("id")))
}

func (h *handlers) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid checkout body")
		return
	}
	method, err := domain.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		h.writeError(c, err)
		return
	}
	order, err := h.register.Checkout(c.Request.Context(), method)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *handlers) listOrders(c *gin.Context) {
	orders, err := h.ledger.ListOrders(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": orders, "count": len(orders)})
}

func (h *handlers) getOrder(c *gin.Context) {
	o, err := h.ledger.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *handlers) report(c *gin.Context) {
	period, err := domain.ParseReportPeriod(c.Query("period"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	summary, err := h.ledger.Report(c.Request.Context(), period, h.loc)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *handlers) reset(c *gin.Context) {
	if err := h.register.Reset(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Package catalog manages the menu: products, categories and owners.
package catalog

import (
	"context"
	"io"
	"log"
	"strings"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllCategories is the filter value that matches every product.
const AllCategories = "All"

type productRepo interface {
	Put(ctx context.Context, p domain.Product) error
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type categoryRepo interface {
	Put(ctx context.Context, c domain.CategoryItem) error
	List(ctx context.Context) ([]domain.CategoryItem, error)
	Delete(ctx context.Context, id string) error
}

type ownerRepo interface {
	Put(ctx context.Context, o domain.OwnerItem) error
	List(ctx context.Context) ([]domain.OwnerItem, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	products   productRepo
	categories categoryRepo
	owners     ownerRepo
	logger     *log.Logger
	newID      func() string
}

func New(products productRepo, categories categoryRepo, owners ownerRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		products:   products,
		categories: categories,
		owners:     owners,
		logger:     logger,
		newID:      uuid.NewString,
	}
}

// ProductInput is a product as entered by the operator. An empty ID creates a
// new product; Price is the raw text typed in.
type ProductInput struct {
	ID          string
	Name        string
	Price       string
	Category    string
	Owner       string
	Image       string
	Description string
}

// Bounds for prices entered by an operator.
const (
	maxPriceScale = 4
	maxPriceExp   = 15
)

var maxPrice = decimal.New(1, maxPriceExp)

// ParsePrice turns operator input into a price: a non-negative decimal in
// plain notation, below 10^15, with at most four significant
// fraction digits.
func ParsePrice(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, domain.Invalid("price", "required")
	}
	if strings.ContainsAny(raw, "eE") {
		return decimal.Zero, domain.Invalid("price", "must not use exponent notation")
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.Invalid("price", "must be a number")
	}
	if price.IsNegative() {
		return decimal.Zero, domain.Invalid("price", "must not be negative")
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return decimal.Zero, domain.Invalid("price", "too large")
	}
	if !price.Equal(price.Truncate(maxPriceScale)) {
		return decimal.Zero, domain.Invalid("price", "too many decimal places")
	}
	return price, nil
}

// PlaceholderImage is the image stored for a product saved without one.
func PlaceholderImage(productID string) string {
	return "https://picsum.photos/seed/" + productID + "/400/300"
}

func (s *Service) AddCategory(ctx context.Context, name string) (*domain.CategoryItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("name", "required")
	}
	c := domain.CategoryItem{ID: domain.Slugify(name), Name: name}
	if err := s.categories.Put(ctx, c); err != nil {
		return nil, s.storageErr("add category", err)
	}
	s.logger.Printf("catalog: category saved id=%s", c.ID)
	return &c, nil
}

func (s *Service) AddOwner(ctx context.Context, name string) (*domain.OwnerItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Invalid("name", "required")
	}
	o := domain.OwnerItem{ID: domain.Slugify(name), Name: name}
	if err := s.owners.Put(ctx, o); err != nil {
		return nil, s.storageErr("add owner", err)
	}
	s.logger.Printf("catalog: owner saved id=%s", o.ID)
	return &o, nil
}

// DeleteCategory removes the entry only. Products keep the category name.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return s.storageErr("delete category", err)
	}
	return nil
}

// DeleteOwner removes the entry only. Products keep the owner name.
func (s *Service) DeleteOwner(ctx context.Context, id string) error {
	if err := s.owners.Delete(ctx, id); err != nil {
		return s.storageErr("delete owner", err)
	}
	return nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.CategoryItem, error) {
	out, err := s.categories.List(ctx)
	if err != nil {
		return nil, s.storageErr("list categories", err)
	}
	return out, nil
}

func (s *Service) ListOwners(ctx context.Context) ([]domain.OwnerItem, error) {
	out, err := s.owners.List(ctx)
	if err != nil {
		return nil, s.storageErr("list owners", err)
	}
	return out, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	out, err := s.products.List(ctx)
	if err != nil {
		return nil, s.storageErr("list products", err)
	}
	return out, nil
}

// GetProduct returns domain.ErrNotFound for an unknown id.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, s.storageErr("get product", err)
	}
	return p, nil
}

// SaveProduct validates in, fills defaults and upserts the product. Nothing
// is written when validation fails.
func (s *Service) SaveProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("name", "required")
	}
	price, err := ParsePrice(in.Price)
	if err != nil {
		return nil, err
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		if category, err = s.defaultCategory(ctx); err != nil {
			return nil, err
		}
	}
	owner := strings.TrimSpace(in.Owner)
	if owner == "" {
		if owner, err = s.defaultOwner(ctx); err != nil {
			return nil, err
		}
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = s.newID()
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		description = domain.DefaultDescription
	}
	image := strings.TrimSpace(in.Image)
	if image == "" {
		image = PlaceholderImage(id)
	}

	p := domain.Product{
		ID:          id,
		Name:        name,
		Price:       price,
		Category:    category,
		Owner:       owner,
		Image:       image,
		Description: description,
	}
	if err := s.products.Put(ctx, p); err != nil {
		return nil, s.storageErr("save product", err)
	}
	s.logger.Printf("catalog: product saved id=%s category=%q owner=%q", p.ID, p.Category, p.Owner)
	return &p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return s.storageErr("delete product", err)
	}
	return nil
}

// defaultCategory picks the category with the smallest id; List returns them in id order.
func (s *Service) defaultCategory(ctx context.Context) (string, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return "", s.storageErr("list categories", err)
	}
	if len(cats) == 0 {
		return domain.UncategorizedLabel, nil
	}
	return cats[0].Name, nil
}

func (s *Service) defaultOwner(ctx context.Context) (string, error) {
	owners, err := s.owners.List(ctx)
	if err != nil {
		return "", s.storageErr("list owners", err)
	}
	if len(owners) == 0 {
		return domain.UnknownOwnerLabel, nil
	}
	return owners[0].Name, nil
}

func (s *Service) storageErr(op string, err error) error {
	wrapped := domain.WrapStorage(op, err)
	if domain.IsStorage(wrapped) {
		s.logger.Printf("catalog: %s error=%v", op, err)
	}
	return wrapped
}

// FilterProducts applies the menu search: a case-insensitive substring match
// on the name and an exact category match. An empty category or
// AllCategories matches everything.
func FilterProducts(products []domain.Product, query, category string) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	category = strings.TrimSpace(category)
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && category != AllCategories && p.Category != category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

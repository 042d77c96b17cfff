package seed

import (
	"context"
	"fmt"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/Deadra-code/Kitchen-POS/internal/service/catalog"
)

type CatalogWriter interface {
	AddCategory(ctx context.Context, name string) (*domain.CategoryItem, error)
	AddOwner(ctx context.Context, name string) (*domain.OwnerItem, error)
	SaveProduct(ctx context.Context, in catalog.ProductInput) (*domain.Product, error)
}

var (
	categories = []string{"Beverages", "Main Course", "Snacks"}
	owners     = []string{"Kitchen", "Bakery Partner"}
)

// Products have fixed ids so that running the seed again updates them in
// place instead of adding copies.
var products = []catalog.ProductInput{
	{ID: "demo-kopi-susu", Name: "Kopi Susu", Price: "18000", Category: "Beverages", Owner: "Kitchen", Description: "Iced milk coffee with palm sugar"},
	{ID: "demo-teh-tarik", Name: "Teh Tarik", Price: "15000", Category: "Beverages", Owner: "Kitchen", Description: "Pulled milk tea"},
	{ID: "demo-nasi-goreng", Name: "Nasi Goreng", Price: "32000", Category: "Main Course", Owner: "Kitchen", Description: "Fried rice with egg and crackers"},
	{ID: "demo-mie-ayam", Name: "Mie Ayam", Price: "28000", Category: "Main Course", Owner: "Kitchen"},
	{ID: "demo-pisang-goreng", Name: "Pisang Goreng", Price: "12000", Category: "Snacks", Owner: "Kitchen"},
	{ID: "demo-croissant", Name: "Croissant", Price: "22000", Category: "Snacks", Owner: "Bakery Partner", Description: "Butter croissant, delivered daily"},
}

// Apply writes the demo menu through the catalog. It is idempotent.
func Apply(ctx context.Context, c CatalogWriter) (int, error) {
	for _, name := range categories {
		if _, err := c.AddCategory(ctx, name); err != nil {
			return 0, fmt.Errorf("add category %s: %w", name, err)
		}
	}
	for _, name := range owners {
		if _, err := c.AddOwner(ctx, name); err != nil {
			return 0, fmt.Errorf("add owner %s: %w", name, err)
		}
	}
	for i, p := range products {
		if _, err := c.SaveProduct(ctx, p); err != nil {
			return i, fmt.Errorf("save product %s: %w", p.ID, err)
		}
	}
	return len(products), nil
}

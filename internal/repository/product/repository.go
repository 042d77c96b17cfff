package product

import (
	"context"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
)

// Repository is the product collection. Put and Add both upsert by id.
type Repository interface {
	Put(ctx context.Context, p domain.Product) error
	Add(ctx context.Context, p domain.Product) error
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

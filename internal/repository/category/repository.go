package category

import (
	"context"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
)

// Repository is the category collection. Put upserts by id.
type Repository interface {
	Put(ctx context.Context, c domain.CategoryItem) error
	Get(ctx context.Context, id string) (*domain.CategoryItem, error)
	List(ctx context.Context) ([]domain.CategoryItem, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

package owner

import (
	"context"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
)

// Repository is the owner collection. Put upserts by id.
type Repository interface {
	Put(ctx context.Context, c domain.OwnerItem) error
	Get(ctx context.Context, id string) (*domain.OwnerItem, error)
	List(ctx context.Context) ([]domain.OwnerItem, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
)

// Repository is the order ledger collection. Add is a strict insert: an id
// that is already stored yields domain.ErrAlreadyExists.
type Repository interface {
	Add(ctx context.Context, o domain.Order) error
	Get(ctx context.Context, id string) (*domain.Order, error)
	// List returns every order, most recent first.
	List(ctx context.Context) ([]domain.Order, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

func encodeItems(items []domain.CartLine) ([]byte, error) {
	if items == nil {
		items = []domain.CartLine{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode order items: %w", err)
	}
	return b, nil
}

func decodeItems(raw []byte) ([]domain.CartLine, error) {
	var items []domain.CartLine
	if len(raw) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode order items: %w", err)
	}
	return items, nil
}

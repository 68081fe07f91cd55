package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// PriceHistoryRepository historial de cambios de precio por producto.
type PriceHistoryRepository interface {
	Create(ctx context.Context, h *entity.PriceHistory) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.PriceHistory, error)
}

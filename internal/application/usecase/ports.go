package usecase

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// CatalogTxRunner transacción para cambios de producto que dejan historial.
type CatalogTxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		historyRepo repository.PriceHistoryRepository,
	) error) error
}

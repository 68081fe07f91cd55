package inventory

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el libro de stock: si fn devuelve error no queda nada escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockItemRepository,
		productRepo repository.ProductRepository,
	) error) error
}

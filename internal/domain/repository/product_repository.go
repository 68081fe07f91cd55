package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para productos.
// GetBy* devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	List(ctx context.Context) ([]*entity.Product, error)
	// UpdatePrices reemplaza precio de costo y de venta (nil = sin precio).
	UpdatePrices(ctx context.Context, product *entity.Product) error
}

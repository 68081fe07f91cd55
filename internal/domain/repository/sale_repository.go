package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// SaleRepository puerto de persistencia para ventas y sus líneas.
type SaleRepository interface {
	// Create inserta la cabecera de la venta (sin líneas).
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	// GetByID devuelve la venta con sus líneas, o (nil, nil).
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// GetForUpdate igual que GetByID pero bloqueando la cabecera.
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateItemReturned(ctx context.Context, itemID string, returnedQuantity int) error
	List(ctx context.Context, from, to time.Time) ([]*entity.Sale, error)
}

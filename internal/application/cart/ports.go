package cart

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/application/sales"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// StockLookup lecturas de lotes que necesita la caja.
type StockLookup interface {
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	FindOldestByBarcode(ctx context.Context, barcode string, minQuantity int) (*entity.StockItem, error)
}

// ProductLookup lectura de productos para el precio por defecto.
type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}

// SaleCreator confirma la venta del carrito.
type SaleCreator interface {
	CreateSale(ctx context.Context, in sales.CreateSaleInput) (*entity.Sale, error)
}

// Store guarda el carrito de cada sesión entre peticiones.
type Store interface {
	// Load devuelve el carrito de la sesión, o uno vacío si no existe.
	Load(ctx context.Context, sessionID string) (*entity.Cart, error)
	Save(ctx context.Context, cart *entity.Cart) error
	Delete(ctx context.Context, sessionID string) error
	// Lock toma el candado de la sesión; devuelve domain.ErrConflict si no lo obtiene a tiempo.
	Lock(ctx context.Context, sessionID string) (Unlock, error)
}

// Unlock libera un candado de sesión.
type Unlock func(ctx context.Context) error

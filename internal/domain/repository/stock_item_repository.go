package repository

import (
	"context"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
)

// StockItemRepository define el puerto para lotes y su libro de movimientos.
//
// Toda escritura que toca un lote escribe también su fila de StockItemTracking en la
// misma llamada; la cantidad no se expone como un campo actualizable por separado.
// Usado dentro de transacciones (ver TxRunner) para garantizar consistencia.
type StockItemRepository interface {
	// Create inserta el lote con su cantidad inicial y la fila ADD (entry.StockItemID se completa).
	// Devuelve domain.ErrDuplicateBatch si el número de lote ya existe.
	Create(ctx context.Context, item *entity.StockItem, entry *entity.StockItemTracking) error
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	// GetForUpdate lee el lote bloqueando la fila (SELECT ... FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error)
	// FindForMergeForUpdate busca, con bloqueo, el lote más antiguo del producto en la ubicación
	// (nil = sin ubicación), excluyendo excludeID.
	FindForMergeForUpdate(ctx context.Context, productID string, locationID *string, excludeID string) (*entity.StockItem, error)
	// FindOldestByBarcode devuelve el lote más antiguo del producto con ese código de barras
	// que tenga al menos minQuantity unidades (FIFO). nil si no hay.
	FindOldestByBarcode(ctx context.Context, barcode string, minQuantity int) (*entity.StockItem, error)
	// ApplyMovement aplica el delta firmado derivado de entry (tipo + cantidad) sobre el lote
	// entry.StockItemID y guarda la fila. Devuelve el lote actualizado, o
	// domain.ErrInsufficientStock si la cantidad quedaría negativa.
	ApplyMovement(ctx context.Context, entry *entity.StockItemTracking) (*entity.StockItem, error)
	// UpdateAttributes guarda ubicación, proveedor, precios y vencimiento (nunca la cantidad)
	// junto con la fila UPDATE.
	UpdateAttributes(ctx context.Context, item *entity.StockItem, entry *entity.StockItemTracking) error
	// Delete escribe la fila REMOVE y luego borra el lote; la fila queda con stock_item_id NULL.
	Delete(ctx context.Context, item *entity.StockItem, entry *entity.StockItemTracking) error
	// ListLowStock lotes con cantidad <= threshold, de menor a mayor.
	ListLowStock(ctx context.Context, threshold int) ([]*entity.StockItem, error)
}

// StockTrackingRepository lecturas del libro de movimientos (append-only).
type StockTrackingRepository interface {
	ListByStockItem(ctx context.Context, stockItemID string) ([]*entity.StockItemTracking, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.StockItemTracking, error)
}
